package imageio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry holds all output encoders, indexed by format and extension.
type Registry struct {
	encoders map[string]Encoder
	byExt    map[string]Encoder
}

// NewRegistry creates a registry with every built-in encoder. WebP is only
// registered when cwebp is installed.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		byExt:    make(map[string]Encoder),
	}

	all := []Encoder{
		&PNGEncoder{},
		&BMPEncoder{},
		&TIFFEncoder{},
		&QOIEncoder{},
		&JPEGEncoder{},
		&WebPEncoder{},
	}

	for _, enc := range all {
		if a, ok := enc.(interface{ Available() bool }); ok && !a.Available() {
			continue
		}
		r.encoders[enc.Format()] = enc
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// ForPath picks the encoder matching the extension of path.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if enc, ok := r.byExt[ext]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("could not guess image type from extension for %s", path)
}

// Available returns all format names, lossless first.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"png", "bmp", "tiff", "qoi", "webp", "jpeg"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
