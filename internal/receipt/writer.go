package receipt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// New creates an empty receipt for the given mode.
func New(mode string) *Receipt {
	return &Receipt{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Mode:        mode,
	}
}

// Validate checks that the receipt can drive a reveal.
func (r *Receipt) Validate() []string {
	var errs []string
	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported receipt version: %d", r.Version))
	}
	switch r.Mode {
	case ModeString, ModeImage, ModeFile:
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", r.Mode))
	}
	if r.BPP < 1 || r.BPP > 8 {
		errs = append(errs, fmt.Sprintf("bpp %d outside 1-8", r.BPP))
	}
	switch r.RLEWidth {
	case 0, 1, 2, 4, 8:
	default:
		errs = append(errs, fmt.Sprintf("invalid rle width %d", r.RLEWidth))
	}
	if r.PayloadLength < 0 || r.OriginalLength < 0 {
		errs = append(errs, "negative payload length")
	}
	if r.RLEWidth == 0 && r.PayloadLength != r.OriginalLength {
		errs = append(errs, fmt.Sprintf("payload_length %d != original_length %d without rle",
			r.PayloadLength, r.OriginalLength))
	}
	if r.PayloadHash == "" {
		errs = append(errs, "missing payload hash")
	}
	if r.Output.Path == "" {
		errs = append(errs, "missing output path")
	}
	return errs
}

// OutputPath resolves the output image path relative to the receipt file.
func (r *Receipt) OutputPath(receiptPath string) string {
	if filepath.IsAbs(r.Output.Path) {
		return r.Output.Path
	}
	return filepath.Join(filepath.Dir(receiptPath), r.Output.Path)
}

// WriteJSON serializes the receipt to a JSON file.
func WriteJSON(r *Receipt, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a receipt. Unknown fields are ignored.
func ReadJSON(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}
	return &r, nil
}
