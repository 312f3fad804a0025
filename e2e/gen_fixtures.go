//go:build ignore

// gen_fixtures creates cover images and payloads for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/AnyUserName/lsbsteg/internal/imageio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "covers"), 0o755); err != nil {
		panic(err)
	}

	// Covers in every lossless output format.
	writeImage(filepath.Join(dir, "covers", "gradient.png"), gradient(400, 225))
	writeImage(filepath.Join(dir, "covers", "gray.bmp"), grayNoise(256, 256))
	writeImage(filepath.Join(dir, "covers", "alpha.tiff"), alphaGradient(200, 150))

	// Payloads.
	writeImage(filepath.Join(dir, "secret.png"), solidWithBorder(48, 32, 90))
	runs := make([]byte, 0, 4096)
	for i := 0; i < 64; i++ {
		for j := 0; j < 64; j++ {
			runs = append(runs, byte(i))
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "runs.bin"), runs, 0o644); err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func grayNoise(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	for i := range img.Pix {
		// xorshift32
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		img.Pix[i] = uint8(seed)
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writeImage(path string, img image.Image) {
	if err := imageio.Save(imageio.FromImage(img), path, 0); err != nil {
		panic(err)
	}
}
