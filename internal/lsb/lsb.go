// Package lsb hides a payload in the least-significant bits of pixel bytes.
//
// The payload is treated as a flat bit stream, each byte read from bit 0
// (least significant) up to bit 7. Bit number g of that stream lands in
// pixel byte g/bpp at bit position g%bpp. Nothing outside those positions
// is touched.
package lsb

import (
	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/zedseven/binmani"
)

const (
	bitsPerByte = 8
	// MaxBPP is the largest supported bit density.
	MaxBPP = 8
)

// CheckBPP rejects densities outside 0..MaxBPP.
func CheckBPP(bpp int) error {
	if bpp < 0 || bpp > MaxBPP {
		return errs.Invalidf("invalid bpp: %d, must be 0-%d", bpp, MaxBPP)
	}
	return nil
}

// Capacity returns how many whole payload bytes fit in pixelBytes at bpp.
func Capacity(pixelBytes, bpp int) int {
	if pixelBytes <= 0 || bpp <= 0 {
		return 0
	}
	return int(uint64(pixelBytes) * uint64(bpp) / bitsPerByte)
}

func fits(payloadBytes, pixelBytes, bpp int) bool {
	return uint64(payloadBytes)*bitsPerByte <= uint64(pixelBytes)*uint64(bpp)
}

// Embed writes payload into pixels in place.
func Embed(pixels, payload []byte, bpp int) error {
	if err := CheckBPP(bpp); err != nil {
		return err
	}
	if !fits(len(payload), len(pixels), bpp) {
		return &errs.CapacityError{Op: "embed", PayloadBytes: len(payload), CapacityBytes: len(pixels), BPP: bpp}
	}
	embed(pixels, payload, uint(bpp))
	return nil
}

// Extract reads n payload bytes back out of pixels without modifying them.
func Extract(pixels []byte, n, bpp int) ([]byte, error) {
	if err := CheckBPP(bpp); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.Invalidf("negative payload length %d", n)
	}
	if !fits(n, len(pixels), bpp) {
		return nil, &errs.CapacityError{Op: "extract", PayloadBytes: n, CapacityBytes: len(pixels), BPP: bpp}
	}
	out := make([]byte, n)
	extract(pixels, out, uint(bpp))
	return out, nil
}

// embed assumes the capacity check has passed. With an empty payload bpp
// may be zero; the loop body never runs.
func embed(pixels, payload []byte, bpp uint) {
	var global uint
	for _, c := range payload {
		for bit := uint8(0); bit < bitsPerByte; bit++ {
			p := global / bpp
			value := binmani.ReadFrom(uint16(c), bit, 1)
			pixels[p] = byte(binmani.WriteTo(uint16(pixels[p]), uint8(global%bpp), 1, value))
			global++
		}
	}
}

func extract(pixels, out []byte, bpp uint) {
	var global uint
	for i := range out {
		var c uint16
		for bit := uint8(0); bit < bitsPerByte; bit++ {
			value := binmani.ReadFrom(uint16(pixels[global/bpp]), uint8(global%bpp), 1)
			c = binmani.WriteTo(c, bit, 1, value)
			global++
		}
		out[i] = byte(c)
	}
}
