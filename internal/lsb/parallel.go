package lsb

import (
	"context"
	"runtime"
	"sync"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

// minChunkBytes keeps goroutine overhead below the cost of the bit loop.
const minChunkBytes = 4 * 1024

// chunk is one worker's share: payload[start:end] maps onto pixels
// starting at pixel byte start*8/bpp.
type chunk struct {
	start, end int
}

// unitBytes is the smallest payload length whose bit count is a multiple of
// bpp, so a chunk made of whole units always ends on a pixel byte boundary.
func unitBytes(bpp int) int {
	return bpp / gcd(bitsPerByte, bpp)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func plan(n, bpp, workers int) []chunk {
	if n == 0 {
		return nil
	}
	unit := unitBytes(bpp)
	workers = workerCount(workers)
	size := (n + workers - 1) / workers
	if size < minChunkBytes {
		size = minChunkBytes
	}
	size = (size + unit - 1) / unit * unit

	var chunks []chunk
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, chunk{start, end})
	}
	return chunks
}

// EmbedParallel is Embed split across workers. Every worker writes a
// disjoint range of pixel bytes, so the result is identical to Embed.
// workers <= 0 means runtime.NumCPU().
func EmbedParallel(ctx context.Context, pixels, payload []byte, bpp, workers int) error {
	if err := CheckBPP(bpp); err != nil {
		return err
	}
	if !fits(len(payload), len(pixels), bpp) {
		return &errs.CapacityError{Op: "embed", PayloadBytes: len(payload), CapacityBytes: len(pixels), BPP: bpp}
	}
	return run(ctx, plan(len(payload), bpp, workers), workers, func(c chunk) {
		off := c.start * bitsPerByte / bpp
		embed(pixels[off:], payload[c.start:c.end], uint(bpp))
	})
}

// ExtractParallel is Extract split across workers.
func ExtractParallel(ctx context.Context, pixels []byte, n, bpp, workers int) ([]byte, error) {
	if err := CheckBPP(bpp); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.Invalidf("negative payload length %d", n)
	}
	if !fits(n, len(pixels), bpp) {
		return nil, &errs.CapacityError{Op: "extract", PayloadBytes: n, CapacityBytes: len(pixels), BPP: bpp}
	}
	out := make([]byte, n)
	err := run(ctx, plan(n, bpp, workers), workers, func(c chunk) {
		off := c.start * bitsPerByte / bpp
		extract(pixels[off:], out[c.start:c.end], uint(bpp))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func run(ctx context.Context, chunks []chunk, workers int, fn func(chunk)) error {
	workers = workerCount(workers)

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, c := range chunks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(c chunk) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if ctx.Err() != nil {
				return
			}
			fn(c)
		}(c)
	}
	wg.Wait()
	return ctx.Err()
}
