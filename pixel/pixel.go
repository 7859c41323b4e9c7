/*
Package pixel implements sub-byte pixel index packing for the 1, 2, 4
and 8 bits-per-pixel formats used by tiled console graphics.

Pack and Unpack work in natural reading order, leftmost pixel in the
most significant bits, which is how image formats lay out sub-byte
samples. The hardware expects the opposite order within each byte;
Swap4 and Swap2 convert a byte between the two.
*/
package pixel

import "fmt"

// PixelsPerByte returns how many pixels of the given bit depth share one
// byte. The bit depth must be 1, 2, 4 or 8.
func PixelsPerByte(bpp int) int {
	switch bpp {
	case 1, 2, 4, 8:
		return 8 / bpp
	}
	panic(fmt.Sprintf("pixel: unsupported bit depth %d", bpp))
}

// Swap4 exchanges the low and high nibble of b. It is its own inverse.
func Swap4(b byte) byte {
	return b>>4 | b<<4
}

// Swap2 reverses the order of the four 2-bit fields within b. It is its
// own inverse.
func Swap2(b byte) byte {
	return b&0x03<<6 | b&0x0c<<2 | b&0x30>>2 | b&0xc0>>6
}

// PackByte packs exactly 8/bpp indices into one byte, first index in the
// most significant bits. Index values must fit within bpp bits; excess
// bits are masked off.
func PackByte(indices []uint8, bpp int) byte {
	ppb := PixelsPerByte(bpp)
	if len(indices) != ppb {
		panic(fmt.Sprintf("pixel: packing %d indices at %d bpp", len(indices), bpp))
	}
	mask := uint8(1)<<uint(bpp) - 1
	var b byte
	for i, v := range indices {
		b |= (v & mask) << uint((ppb-1-i)*bpp)
	}
	return b
}

// UnpackByte appends the 8/bpp indices packed in b to dst and returns
// the extended slice.
func UnpackByte(dst []uint8, b byte, bpp int) []uint8 {
	ppb := PixelsPerByte(bpp)
	mask := uint8(1)<<uint(bpp) - 1
	for i := 0; i < ppb; i++ {
		dst = append(dst, b>>uint((ppb-1-i)*bpp)&mask)
	}
	return dst
}

// Pack packs a sequence of pixel indices into bytes. The number of
// indices must be a multiple of 8/bpp.
func Pack(indices []uint8, bpp int) ([]byte, error) {
	ppb := PixelsPerByte(bpp)
	if len(indices)%ppb != 0 {
		return nil, fmt.Errorf("pixel: %d indices is not a whole number of bytes at %d bpp", len(indices), bpp)
	}
	out := make([]byte, 0, len(indices)/ppb)
	for i := 0; i < len(indices); i += ppb {
		out = append(out, PackByte(indices[i:i+ppb], bpp))
	}
	return out, nil
}

// Unpack expands packed bytes back into one index per pixel.
func Unpack(data []byte, bpp int) []uint8 {
	out := make([]uint8, 0, len(data)*PixelsPerByte(bpp))
	for _, b := range data {
		out = UnpackByte(out, b, bpp)
	}
	return out
}
