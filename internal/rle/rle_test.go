package rle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

var allWidths = []Width{Width8, Width16, Width32, Width64}

func TestRoundTrip(t *testing.T) {
	inputs := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single", []byte("a")},
		{"no_repeats", []byte("abc")},
		{"short_runs", []byte("aaabbbccc")},
		{"long_runs", []byte("aaaaaaaaaabbbbbbbbbbcccccccccc")},
		{"uniform", []byte("ccccc")},
		{"digits", []byte("1234")},
		{"mixed", []byte("aaaabbbbbccccc")},
		{"uniform_300", bytes.Repeat([]byte{0x7f}, 300)},
		{"uniform_70000", bytes.Repeat([]byte{0}, 70000)},
		{"binary", []byte{0, 0, 0, 255, 255, 1, 0, 0}},
	}

	for _, w := range allWidths {
		for _, in := range inputs {
			t.Run(w.String()+"/"+in.name, func(t *testing.T) {
				stream, err := Compress(in.data, w)
				if err != nil {
					t.Fatalf("compress: %v", err)
				}
				if len(stream)%w.RecordSize() != 0 {
					t.Fatalf("stream length %d not a multiple of %d", len(stream), w.RecordSize())
				}
				got, err := Extract(stream, w)
				if err != nil {
					t.Fatalf("extract: %v", err)
				}
				if !bytes.Equal(got, in.data) {
					t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(in.data))
				}
			})
		}
	}
}

func TestCompress_EmptyInput(t *testing.T) {
	for _, w := range allWidths {
		stream, err := Compress(nil, w)
		if err != nil {
			t.Fatalf("%s: %v", w, err)
		}
		if len(stream) != 0 {
			t.Errorf("%s: got %d bytes for empty input", w, len(stream))
		}
	}
}

func TestCompress_Layout(t *testing.T) {
	stream, err := Compress([]byte("aaab"), Width16)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 'a', 1, 0, 'b'}
	if !bytes.Equal(stream, want) {
		t.Errorf("got % x, want % x", stream, want)
	}
}

func TestCompress_SplitsLongRuns(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 300)
	stream, err := Compress(data, Width8)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{255, 'x', 45, 'x'}
	if !bytes.Equal(stream, want) {
		t.Errorf("got % x, want % x", stream, want)
	}

	// Exactly at the boundary: one full record, no empty trailer.
	stream, _ = Compress(bytes.Repeat([]byte("y"), 255), Width8)
	if !bytes.Equal(stream, []byte{255, 'y'}) {
		t.Errorf("boundary run: got % x", stream)
	}
}

func TestCompressedSize(t *testing.T) {
	data := append(bytes.Repeat([]byte("a"), 600), 'b', 'c')
	for _, w := range allWidths {
		stream, _ := Compress(data, w)
		size, err := CompressedSize(data, w)
		if err != nil {
			t.Fatal(err)
		}
		if size != len(stream) {
			t.Errorf("%s: CompressedSize=%d, len(Compress)=%d", w, size, len(stream))
		}
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
		w      Width
	}{
		{"truncated_record", []byte{3, 0, 'a', 1}, Width16},
		{"truncated_count", []byte{1}, Width32},
		{"zero_run", []byte{0, 'a'}, Width8},
		{"count_beyond_allocatable", []byte{0, 0, 0, 0, 0, 0, 0, 0x40, 'x'}, Width64},
		{"count_max_u64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 'x'}, Width64},
		{"count_just_over_max_output", []byte{0x01, 0x00, 0x00, 0x40, 'x'}, Width32},
		{"runs_sum_over_max_output", []byte{0, 0, 0, 0x20, 'a', 0, 0, 0, 0x20, 'b', 1, 0, 0, 0, 'c'}, Width32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.stream, tt.w)
			if !errs.IsFormat(err) {
				t.Fatalf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestExtractLimit(t *testing.T) {
	stream := []byte{200, 'a', 200, 'b'}
	if _, err := ExtractLimit(stream, Width8, 300); !errs.IsFormat(err) {
		t.Errorf("expected limit FormatError, got %v", err)
	}
	got, err := ExtractLimit(stream, Width8, 400)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 400 {
		t.Errorf("got %d bytes", len(got))
	}

	huge := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 'z'}
	if _, err := ExtractLimit(huge, Width64, 1<<20); !errs.IsFormat(err) {
		t.Errorf("expected FormatError for oversized run, got %v", err)
	}
}

func TestParseWidth(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		w, err := ParseWidth(n)
		if err != nil {
			t.Errorf("ParseWidth(%d): %v", n, err)
		}
		if int(w) != n {
			t.Errorf("ParseWidth(%d) = %d", n, w)
		}
	}
	for _, n := range []int{0, 3, 16, 257, -1} {
		if _, err := ParseWidth(n); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Errorf("ParseWidth(%d): expected invalid argument, got %v", n, err)
		}
	}
}

func TestMaxCount(t *testing.T) {
	want := map[Width]uint64{
		Width8:  1<<8 - 1,
		Width16: 1<<16 - 1,
		Width32: 1<<32 - 1,
		Width64: ^uint64(0),
	}
	for w, max := range want {
		if got := w.MaxCount(); got != max {
			t.Errorf("%s: MaxCount=%d, want %d", w, got, max)
		}
	}
}

func BenchmarkCompress(b *testing.B) {
	data := make([]byte, 1<<20)
	for i := range data {
		data[i] = byte(i / 37)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		_, _ = Compress(data, Width16)
	}
}
