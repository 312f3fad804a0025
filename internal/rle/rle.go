// Package rle implements the byte run-length codec applied to payloads
// before they are embedded.
//
// A stream is a sequence of records laid out back to back with no padding:
//
//	count  uint{8,16,32,64}, little-endian, always >= 1
//	value  byte, repeated count times
//
// The count field width is chosen per call. Runs longer than the largest
// count the width can hold are split into several records.
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

// Width is the size of a record's count field in bytes.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// ParseWidth converts a byte count (1, 2, 4 or 8) into a Width.
func ParseWidth(bytes int) (Width, error) {
	switch w := Width(bytes); w {
	case Width8, Width16, Width32, Width64:
		if int(w) == bytes {
			return w, nil
		}
	}
	return 0, errs.Invalidf("rle width must be 1, 2, 4 or 8 bytes, got %d", bytes)
}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// Bits returns the width of the count field in bits.
func (w Width) Bits() int { return int(w) * 8 }

// RecordSize is the encoded size of one (count, value) record.
func (w Width) RecordSize() int { return int(w) + 1 }

// MaxCount is the longest run a single record can describe.
func (w Width) MaxCount() uint64 { return ^uint64(0) >> (64 - w.Bits()) }

func (w Width) String() string { return fmt.Sprintf("u%d", w.Bits()) }

func (w Width) putCount(dst []byte, n uint64) {
	switch w {
	case Width8:
		dst[0] = byte(n)
	case Width16:
		binary.LittleEndian.PutUint16(dst, uint16(n))
	case Width32:
		binary.LittleEndian.PutUint32(dst, uint32(n))
	case Width64:
		binary.LittleEndian.PutUint64(dst, n)
	}
}

func (w Width) count(src []byte) uint64 {
	switch w {
	case Width8:
		return uint64(src[0])
	case Width16:
		return uint64(binary.LittleEndian.Uint16(src))
	case Width32:
		return uint64(binary.LittleEndian.Uint32(src))
	default:
		return binary.LittleEndian.Uint64(src)
	}
}

// Compress run-length encodes data. Empty input yields an empty stream.
func Compress(data []byte, w Width) ([]byte, error) {
	if !w.Valid() {
		return nil, errs.Invalidf("unsupported rle width %d", w)
	}
	out := make([]byte, 0, compressedSize(data, w))
	rec := make([]byte, w.RecordSize())

	emit := func(value byte, n uint64) {
		w.putCount(rec, n)
		rec[w] = value
		out = append(out, rec...)
	}
	forEachRun(data, w.MaxCount(), emit)
	return out, nil
}

// CompressedSize returns the length Compress would produce for data.
func CompressedSize(data []byte, w Width) (int, error) {
	if !w.Valid() {
		return 0, errs.Invalidf("unsupported rle width %d", w)
	}
	return compressedSize(data, w), nil
}

func compressedSize(data []byte, w Width) int {
	records := 0
	forEachRun(data, w.MaxCount(), func(byte, uint64) { records++ })
	return records * w.RecordSize()
}

// forEachRun calls emit for every run of identical bytes, splitting runs at
// max so that no count exceeds it.
func forEachRun(data []byte, max uint64, emit func(value byte, n uint64)) {
	if len(data) == 0 {
		return
	}
	current, n := data[0], uint64(0)
	for _, c := range data {
		if c != current || n == max {
			emit(current, n)
			current, n = c, 0
		}
		n++
	}
	emit(current, n)
}

// MaxOutput bounds the decoded size when no explicit limit is given.
const MaxOutput = 1 << 30

// Extract decodes a stream produced by Compress. The output is capped at
// MaxOutput bytes.
func Extract(stream []byte, w Width) ([]byte, error) {
	return ExtractLimit(stream, w, 0)
}

// ExtractLimit decodes stream, failing once the output would grow past
// limit bytes. A limit <= 0 or above MaxOutput means MaxOutput.
func ExtractLimit(stream []byte, w Width, limit int) ([]byte, error) {
	if !w.Valid() {
		return nil, errs.Invalidf("unsupported rle width %d", w)
	}
	if limit <= 0 || limit > MaxOutput {
		limit = MaxOutput
	}
	rs := w.RecordSize()
	if len(stream)%rs != 0 {
		return nil, &errs.FormatError{
			Format: "rle",
			Reason: fmt.Sprintf("stream length %d is not a multiple of record size %d", len(stream), rs),
		}
	}

	// First pass validates counts and sizes the output exactly.
	var total uint64
	for i := 0; i < len(stream); i += rs {
		n := w.count(stream[i:])
		if n == 0 {
			return nil, &errs.FormatError{Format: "rle", Reason: fmt.Sprintf("zero-length run at offset %d", i)}
		}
		total += n
		if total < n || total > uint64(limit) {
			return nil, &errs.FormatError{Format: "rle", Reason: "output exceeds limit"}
		}
	}

	out := make([]byte, 0, int(total))
	for i := 0; i < len(stream); i += rs {
		n := int(w.count(stream[i:]))
		value := stream[i+int(w)]
		for j := 0; j < n; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}
