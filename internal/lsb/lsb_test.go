package lsb

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

func noisyPixels(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestEmbed_ABC(t *testing.T) {
	pixels := make([]byte, 24)
	if err := Embed(pixels, []byte("abc"), 1); err != nil {
		t.Fatalf("embed: %v", err)
	}

	for i, c := range []byte("abc") {
		for bit := 0; bit < 8; bit++ {
			want := (c >> bit) & 1
			if got := pixels[i*8+bit]; got != want {
				t.Errorf("pixel %d: got %d, want bit %d of %q (%d)", i*8+bit, got, bit, c, want)
			}
		}
	}

	got, err := Extract(pixels, 3, 1)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("extract: got %q", got)
	}
}

func TestRoundTrip_AllDensities(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("Hello world!"),
		bytes.Repeat([]byte("a"), 4096),
		noisyPixels(1000, 7),
	}
	for bpp := 1; bpp <= MaxBPP; bpp++ {
		for _, payload := range payloads {
			pixels := noisyPixels(len(payload)*8/bpp+3, int64(bpp))
			if err := Embed(pixels, payload, bpp); err != nil {
				t.Fatalf("bpp=%d len=%d: embed: %v", bpp, len(payload), err)
			}
			got, err := Extract(pixels, len(payload), bpp)
			if err != nil {
				t.Fatalf("bpp=%d len=%d: extract: %v", bpp, len(payload), err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("bpp=%d len=%d: payload mismatch", bpp, len(payload))
			}
		}
	}
}

func TestEmbed_TouchesOnlyLowBits(t *testing.T) {
	for bpp := 1; bpp <= MaxBPP; bpp++ {
		orig := noisyPixels(256, 42)
		pixels := append([]byte(nil), orig...)
		payload := noisyPixels(17, 3)
		if err := Embed(pixels, payload, bpp); err != nil {
			t.Fatal(err)
		}

		used := (len(payload)*8 + bpp - 1) / bpp
		keep := byte(0xff) << bpp
		for i := range pixels {
			if i >= used {
				if pixels[i] != orig[i] {
					t.Fatalf("bpp=%d: byte %d beyond payload changed", bpp, i)
				}
				continue
			}
			if pixels[i]&keep != orig[i]&keep {
				t.Fatalf("bpp=%d: high bits of byte %d changed: %08b -> %08b", bpp, i, orig[i], pixels[i])
			}
		}
	}
}

func TestCapacityBoundary(t *testing.T) {
	tests := []struct {
		pixels, bpp, payload int
		ok                   bool
	}{
		{24, 1, 3, true},
		{24, 1, 4, false},
		{8, 8, 8, true},
		{8, 8, 9, false},
		{12, 2, 3, true},
		{12, 3, 4, true},
		{12, 3, 5, false},
		{0, 1, 0, true},
		{10, 0, 0, true},
		{10, 0, 1, false},
	}
	for _, tt := range tests {
		pixels := make([]byte, tt.pixels)
		err := Embed(pixels, make([]byte, tt.payload), tt.bpp)
		if tt.ok && err != nil {
			t.Errorf("pixels=%d bpp=%d payload=%d: unexpected error %v", tt.pixels, tt.bpp, tt.payload, err)
		}
		if !tt.ok && !errs.IsCapacity(err) {
			t.Errorf("pixels=%d bpp=%d payload=%d: expected CapacityError, got %v", tt.pixels, tt.bpp, tt.payload, err)
		}

		_, err = Extract(pixels, tt.payload, tt.bpp)
		if tt.ok && err != nil {
			t.Errorf("extract pixels=%d bpp=%d n=%d: unexpected error %v", tt.pixels, tt.bpp, tt.payload, err)
		}
		if !tt.ok && !errs.IsCapacity(err) {
			t.Errorf("extract pixels=%d bpp=%d n=%d: expected CapacityError, got %v", tt.pixels, tt.bpp, tt.payload, err)
		}
	}
}

func TestCapacityError_Message(t *testing.T) {
	err := Embed(make([]byte, 2), []byte("abc"), 1)
	var ce *errs.CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	msg := ce.Error()
	for _, want := range []string{"3 bytes", "2 bytes", "1 LSB"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestInvalidBPP(t *testing.T) {
	for _, bpp := range []int{-1, 9, 16} {
		if err := Embed(make([]byte, 64), []byte("x"), bpp); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Errorf("embed bpp=%d: expected invalid argument, got %v", bpp, err)
		}
		if _, err := Extract(make([]byte, 64), 1, bpp); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Errorf("extract bpp=%d: expected invalid argument, got %v", bpp, err)
		}
	}
}

func TestZeroBPP(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		payload int
		ok      bool
	}{
		{"empty", 0, true},
		{"one_byte", 1, false},
		{"many_bytes", 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixels := noisyPixels(64, 5)
			orig := append([]byte(nil), pixels...)
			payload := make([]byte, tt.payload)

			check := func(fn string, err error) {
				t.Helper()
				if tt.ok && err != nil {
					t.Errorf("%s: unexpected error %v", fn, err)
				}
				if !tt.ok && !errs.IsCapacity(err) {
					t.Errorf("%s: expected CapacityError, got %v", fn, err)
				}
			}

			check("Embed", Embed(pixels, payload, 0))
			check("EmbedParallel", EmbedParallel(ctx, pixels, payload, 0, 2))

			got, err := Extract(pixels, tt.payload, 0)
			check("Extract", err)
			if tt.ok && len(got) != 0 {
				t.Errorf("Extract: got %d bytes", len(got))
			}
			got, err = ExtractParallel(ctx, pixels, tt.payload, 0, 2)
			check("ExtractParallel", err)
			if tt.ok && len(got) != 0 {
				t.Errorf("ExtractParallel: got %d bytes", len(got))
			}

			if !bytes.Equal(pixels, orig) {
				t.Error("pixels changed at bpp 0")
			}
		})
	}
}

func TestExtract_DoesNotMutate(t *testing.T) {
	pixels := noisyPixels(128, 9)
	orig := append([]byte(nil), pixels...)
	if _, err := Extract(pixels, 16, 8); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pixels, orig) {
		t.Error("extract modified the pixel buffer")
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct{ pixels, bpp, want int }{
		{24, 1, 3},
		{25, 1, 3},
		{10, 3, 3},
		{100, 8, 100},
		{100, 0, 0},
		{0, 8, 0},
	}
	for _, tt := range tests {
		if got := Capacity(tt.pixels, tt.bpp); got != tt.want {
			t.Errorf("Capacity(%d, %d) = %d, want %d", tt.pixels, tt.bpp, got, tt.want)
		}
	}
}

func TestParallel_MatchesSerial(t *testing.T) {
	ctx := context.Background()
	payload := noisyPixels(50_000, 11)

	for bpp := 1; bpp <= MaxBPP; bpp++ {
		n := len(payload)*8/bpp + 5
		serial := noisyPixels(n, 99)
		parallel := append([]byte(nil), serial...)

		if err := Embed(serial, payload, bpp); err != nil {
			t.Fatal(err)
		}
		if err := EmbedParallel(ctx, parallel, payload, bpp, 4); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(serial, parallel) {
			t.Fatalf("bpp=%d: parallel embed differs from serial", bpp)
		}

		got, err := ExtractParallel(ctx, parallel, len(payload), bpp, 4)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("bpp=%d: parallel extract mismatch", bpp)
		}
	}
}

func TestParallel_Errors(t *testing.T) {
	ctx := context.Background()
	if err := EmbedParallel(ctx, make([]byte, 8), []byte("ab"), 1, 2); !errs.IsCapacity(err) {
		t.Errorf("expected CapacityError, got %v", err)
	}
	if _, err := ExtractParallel(ctx, make([]byte, 8), 1, 9, 2); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := EmbedParallel(cancelled, make([]byte, 1<<16), make([]byte, 1<<13), 1, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPlan_ChunkBoundaries(t *testing.T) {
	for bpp := 1; bpp <= MaxBPP; bpp++ {
		chunks := plan(100_003, bpp, 7)
		if len(chunks) == 0 {
			t.Fatalf("bpp=%d: no chunks", bpp)
		}
		next := 0
		for _, c := range chunks {
			if c.start != next {
				t.Fatalf("bpp=%d: gap at %d", bpp, c.start)
			}
			if (c.start*8)%bpp != 0 {
				t.Fatalf("bpp=%d: chunk start %d not on a pixel byte boundary", bpp, c.start)
			}
			next = c.end
		}
		if next != 100_003 {
			t.Fatalf("bpp=%d: chunks end at %d", bpp, next)
		}
	}
}

func BenchmarkEmbed(b *testing.B) {
	payload := noisyPixels(64*1024, 1)
	pixels := make([]byte, len(payload)*8)
	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))
	for i := 0; i < b.N; i++ {
		_ = Embed(pixels, payload, 1)
	}
}

func BenchmarkEmbedParallel(b *testing.B) {
	payload := noisyPixels(64*1024, 1)
	pixels := make([]byte, len(payload)*8)
	ctx := context.Background()
	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))
	for i := 0; i < b.N; i++ {
		_ = EmbedParallel(ctx, pixels, payload, 1, 0)
	}
}
