// Package raster holds the in-memory pixel buffer shared between the image
// codecs and the embedding core.
package raster

import (
	"bytes"
	"math"

	"github.com/AnyUserName/lsbsteg/internal/errs"
)

// Descriptor describes the shape of a pixel buffer. Channels is an opaque
// multiplier; nothing here interprets it as RGB, RGBA or gray.
type Descriptor struct {
	Width    int32
	Height   int32
	Channels int32
}

// Validate rejects negative fields.
func (d Descriptor) Validate() error {
	if d.Width < 0 || d.Height < 0 || d.Channels < 0 {
		return errs.Invalidf("negative dimension %dx%dx%d", d.Width, d.Height, d.Channels)
	}
	return nil
}

// Size returns Width*Height*Channels, failing if it overflows int.
func (d Descriptor) Size() (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	w, h, c := uint64(d.Width), uint64(d.Height), uint64(d.Channels)
	n := w * h
	if h != 0 && n/h != w {
		return 0, errs.Invalidf("image size %dx%dx%d overflows", d.Width, d.Height, d.Channels)
	}
	total := n * c
	if c != 0 && total/c != n {
		return 0, errs.Invalidf("image size %dx%dx%d overflows", d.Width, d.Height, d.Channels)
	}
	if total > math.MaxInt {
		return 0, errs.Invalidf("image size %dx%dx%d overflows", d.Width, d.Height, d.Channels)
	}
	return int(total), nil
}

// Image pairs a descriptor with its pixel bytes.
type Image struct {
	Descriptor
	Pix []byte
}

// New allocates a zeroed image of the given shape.
func New(d Descriptor) (Image, error) {
	n, err := d.Size()
	if err != nil {
		return Image{}, err
	}
	return Image{Descriptor: d, Pix: make([]byte, n)}, nil
}

// Validate checks that len(Pix) matches the descriptor.
func (img Image) Validate() error {
	n, err := img.Size()
	if err != nil {
		return err
	}
	if len(img.Pix) != n {
		return errs.Invalidf("pixel buffer has %d bytes, descriptor %dx%dx%d needs %d",
			len(img.Pix), img.Width, img.Height, img.Channels, n)
	}
	return nil
}

// Clone returns a deep copy so the source and a modified buffer never alias.
func (img Image) Clone() Image {
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	return Image{Descriptor: img.Descriptor, Pix: pix}
}

// Equal reports whether both images have the same shape and bytes.
func (img Image) Equal(other Image) bool {
	return img.Descriptor == other.Descriptor && bytes.Equal(img.Pix, other.Pix)
}
