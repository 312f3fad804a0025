// Package container flattens an image into a byte sequence so it can be
// hidden inside another image.
//
// Layout:
//
//	offset 0   int32 LE  width
//	offset 4   int32 LE  height
//	offset 8   int32 LE  channels
//	offset 12  width*height*channels raw pixel bytes
package container

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/AnyUserName/lsbsteg/internal/raster"
)

// HeaderSize is the length of the dimension header.
const HeaderSize = 12

// EncodedSize returns the container length for an image of shape d.
func EncodedSize(d raster.Descriptor) (int, error) {
	n, err := d.Size()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt-HeaderSize {
		return 0, errs.Invalidf("image size %d overflows container", n)
	}
	return HeaderSize + n, nil
}

// Encode serializes img into the container format.
func Encode(img raster.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}
	size, err := EncodedSize(img.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}

	out := make([]byte, size)
	binary.LittleEndian.PutUint32(out[0:], uint32(img.Width))
	binary.LittleEndian.PutUint32(out[4:], uint32(img.Height))
	binary.LittleEndian.PutUint32(out[8:], uint32(img.Channels))
	copy(out[HeaderSize:], img.Pix)
	return out, nil
}

// DecodeHeader reads only the dimension header.
func DecodeHeader(b []byte) (raster.Descriptor, error) {
	if len(b) < HeaderSize {
		return raster.Descriptor{}, &errs.FormatError{Format: "container", Reason: "insufficient header"}
	}
	d := raster.Descriptor{
		Width:    int32(binary.LittleEndian.Uint32(b[0:])),
		Height:   int32(binary.LittleEndian.Uint32(b[4:])),
		Channels: int32(binary.LittleEndian.Uint32(b[8:])),
	}
	if d.Validate() != nil {
		return raster.Descriptor{}, &errs.FormatError{
			Format: "container",
			Reason: fmt.Sprintf("negative dimension %dx%dx%d", d.Width, d.Height, d.Channels),
		}
	}
	return d, nil
}

// Decode parses a container. Bytes past the declared pixel data are
// ignored. The returned pixels never alias b.
func Decode(b []byte) (raster.Image, error) {
	d, err := DecodeHeader(b)
	if err != nil {
		return raster.Image{}, err
	}
	n, err := d.Size()
	if err != nil {
		return raster.Image{}, &errs.FormatError{Format: "container", Reason: err.Error()}
	}
	if len(b)-HeaderSize < n {
		return raster.Image{}, &errs.FormatError{
			Format: "container",
			Reason: fmt.Sprintf("insufficient pixel data: header declares %d bytes, %d present", n, len(b)-HeaderSize),
		}
	}

	img := raster.Image{Descriptor: d, Pix: make([]byte, n)}
	copy(img.Pix, b[HeaderSize:HeaderSize+n])
	return img, nil
}
