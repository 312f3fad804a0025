package imageio

import (
	"bytes"
	"fmt"
	"image"

	"github.com/xfmoulet/qoi"
)

// QOIEncoder writes lossless QOI via github.com/xfmoulet/qoi.
type QOIEncoder struct{}

func (e *QOIEncoder) Format() string       { return "qoi" }
func (e *QOIEncoder) Extensions() []string { return []string{"qoi"} }
func (e *QOIEncoder) Lossy() bool          { return false }

// Encode rejects gray images: QOI stores RGB(A), so a 1-channel buffer
// would come back with four channels and a different bit layout.
func (e *QOIEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	if isGray(img) {
		return nil, fmt.Errorf("qoi has no gray mode, save gray images as png, bmp or tiff")
	}
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
