package imageio

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "bmp", "jpeg").
	Format() string

	// Encode converts the image to bytes. quality is only honoured by
	// lossy encoders (1-100).
	Encode(img image.Image, quality int) ([]byte, error)

	// Lossy reports whether encoding alters pixel values. Hidden data does
	// not survive a lossy encoder.
	Lossy() bool

	// Extensions returns the file extensions handled, without dot.
	Extensions() []string
}
