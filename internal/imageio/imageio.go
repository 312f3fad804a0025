// Package imageio converts between image files and raster.Image pixel
// buffers.
//
// Gray images load as 1-channel buffers. Everything else is normalised to
// non-premultiplied RGBA (4 channels), so the alpha byte of every pixel is
// carrier space too and a buffer survives a PNG/BMP/TIFF round trip byte
// for byte.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/AnyUserName/lsbsteg/internal/raster"
	"github.com/disintegration/imaging"
	_ "github.com/xfmoulet/qoi"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes a decoded source file.
type Info struct {
	Format string // png, jpeg, gif, bmp, tiff, webp, qoi
	Size   int64  // file size in bytes, 0 when decoded from memory
}

var defaultRegistry = NewRegistry()

// Load decodes the image at path.
func Load(path string) (raster.Image, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return raster.Image{}, Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	img, info, err := Decode(bytes.NewReader(data))
	if err != nil {
		return raster.Image{}, Info{}, fmt.Errorf("decode %s: %w", path, err)
	}
	info.Size = int64(len(data))
	return img, info, nil
}

// Decode reads an image from r. EXIF orientation is ignored: rotating the
// pixels would scramble any hidden payload.
func Decode(r io.Reader) (raster.Image, Info, error) {
	var buf bytes.Buffer
	_, format, err := image.DecodeConfig(io.TeeReader(r, &buf))
	if err != nil {
		return raster.Image{}, Info{}, err
	}
	src, err := imaging.Decode(io.MultiReader(&buf, r), imaging.AutoOrientation(false))
	if err != nil {
		return raster.Image{}, Info{}, err
	}
	return FromImage(src), Info{Format: format}, nil
}

// FromImage copies src into a tightly packed pixel buffer.
func FromImage(src image.Image) raster.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if isGray(src) {
		gray, ok := src.(*image.Gray)
		if !ok {
			gray = image.NewGray(image.Rect(0, 0, w, h))
			draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
			b = gray.Bounds()
		}
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := gray.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], gray.Pix[off:off+w])
		}
		return raster.Image{
			Descriptor: raster.Descriptor{Width: int32(w), Height: int32(h), Channels: 1},
			Pix:        pix,
		}
	}

	nrgba := imaging.Clone(src)
	return raster.Image{
		Descriptor: raster.Descriptor{Width: int32(w), Height: int32(h), Channels: 4},
		Pix:        nrgba.Pix,
	}
}

// isGray reports whether src carries a single gray channel. 8-bit gray BMPs
// decode as paletted images with a gray ramp.
func isGray(src image.Image) bool {
	switch m := src.ColorModel().(type) {
	case color.Palette:
		for _, c := range m {
			r, g, b, a := c.RGBA()
			if r != g || g != b || a != 0xffff {
				return false
			}
		}
		return len(m) > 0
	default:
		return m == color.GrayModel || m == color.Gray16Model
	}
}

// ToImage wraps a pixel buffer as an image.Image. Supported channel counts
// are 1 (gray), 2 (gray + alpha), 3 (RGB) and 4 (RGBA).
func ToImage(img raster.Image) (image.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := int(img.Width), int(img.Height)
	rect := image.Rect(0, 0, w, h)

	switch img.Channels {
	case 1:
		gray := image.NewGray(rect)
		copy(gray.Pix, img.Pix)
		return gray, nil
	case 4:
		out := image.NewNRGBA(rect)
		copy(out.Pix, img.Pix)
		return out, nil
	case 2, 3:
		c := int(img.Channels)
		out := image.NewNRGBA(rect)
		for i := 0; i < w*h; i++ {
			px := img.Pix[i*c : i*c+c]
			d := out.Pix[i*4 : i*4+4]
			if c == 2 {
				d[0], d[1], d[2], d[3] = px[0], px[0], px[0], px[1]
			} else {
				d[0], d[1], d[2], d[3] = px[0], px[1], px[2], 0xff
			}
		}
		return out, nil
	}
	return nil, errs.Invalidf("unsupported channel count %d", img.Channels)
}

// Save encodes img with the encoder matching the extension of path.
func Save(img raster.Image, path string, quality int) error {
	return SaveWith(defaultRegistry, img, path, quality)
}

// SaveWith is Save with an explicit registry.
func SaveWith(r *Registry, img raster.Image, path string, quality int) error {
	enc, err := r.ForPath(path)
	if err != nil {
		return err
	}
	out, err := ToImage(img)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	data, err := enc.Encode(out, quality)
	if err != nil {
		return fmt.Errorf("encode %s as %s: %w", path, enc.Format(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// IsLossy reports whether saving to path would alter pixel values.
func IsLossy(path string) bool {
	enc, err := defaultRegistry.ForPath(path)
	return err == nil && enc.Lossy()
}

// DefaultOutputPath returns "<input without extension>_out.png".
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_out.png"
}
