// Package errs defines the error kinds shared by the embedding core.
package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every caller-level argument error,
// e.g. a bit density outside 0-8 or an unsupported RLE width.
var ErrInvalidArgument = errors.New("invalid argument")

// Invalidf returns an error wrapping ErrInvalidArgument.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// CapacityError reports a payload that does not fit the image at the
// requested bit density.
type CapacityError struct {
	Op            string // "embed" or "extract"
	PayloadBytes  int
	CapacityBytes int // size of the pixel buffer in bytes
	BPP           int
}

func (e *CapacityError) Error() string {
	if e.Op == "extract" {
		return fmt.Sprintf("can not extract message of %d bytes from image of %d bytes using %d LSB",
			e.PayloadBytes, e.CapacityBytes, e.BPP)
	}
	return fmt.Sprintf("could not fit message (%d bytes) in image (%d bytes) using %d LSB",
		e.PayloadBytes, e.CapacityBytes, e.BPP)
}

// FormatError reports a structurally malformed RLE stream or container.
type FormatError struct {
	Format string // "rle" or "container"
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

// IsCapacity reports whether err is or wraps a *CapacityError.
func IsCapacity(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsFormat reports whether err is or wraps a *FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
