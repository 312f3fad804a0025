package profile

import "testing"

func TestGet(t *testing.T) {
	p := Get("dense")
	if p.BPP != 4 || p.RLEWidth != 2 {
		t.Errorf("dense: got %+v", p)
	}

	fallback := Get("nope")
	if fallback.Name != "nope" {
		t.Errorf("fallback should keep requested name, got %q", fallback.Name)
	}
	if fallback.BPP != Get(DefaultName).BPP {
		t.Errorf("fallback bpp: got %d", fallback.BPP)
	}
	if Known("nope") || !Known("max") {
		t.Error("Known misreports")
	}
}

func TestProfilesValid(t *testing.T) {
	for _, name := range Names() {
		p := Get(name)
		if p.BPP < 1 || p.BPP > 8 {
			t.Errorf("%s: bpp %d out of range", name, p.BPP)
		}
		switch p.RLEWidth {
		case 0, 1, 2, 4, 8:
		default:
			t.Errorf("%s: invalid rle width %d", name, p.RLEWidth)
		}
	}
}

func TestCapacity(t *testing.T) {
	if got := Get("subtle").Capacity(24); got != 3 {
		t.Errorf("subtle capacity: %d", got)
	}
	if got := Get("max").Capacity(24); got != 24 {
		t.Errorf("max capacity: %d", got)
	}
	if got := Get("balanced").Capacity(0); got != 0 {
		t.Errorf("empty capacity: %d", got)
	}
}
