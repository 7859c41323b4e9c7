package gba

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Palette is an ordered sequence of colors. Index 0 is conventionally
// reserved for the transparent color. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces
// using the on-cartridge format: a flat sequence of little-endian 16-bit
// values with no header.
type Palette []Color

// Index returns the position of c within p, or -1 if absent. Lookup is
// by color equality, including the sentinel bit.
func (p Palette) Index(c Color) int {
	for i, e := range p {
		if e == c {
			return i
		}
	}
	return -1
}

// MarshalBinary encodes the palette into binary form and returns the
// result.
func (p Palette) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, p); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the palette from binary form.
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b)%2 != 0 {
		return errors.New("gba: palette data is not a whole number of colors")
	}
	*p = make(Palette, len(b)>>1)
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, *p)
}

// Join flattens a list of palettes into one. Every source palette is
// padded or truncated to exactly ColorsPerBank entries with black, and
// slot 0 of each bank is always rewritten to black; the transparent
// entry is deliberately discarded when palettes are flattened for
// storage.
func Join(palettes []Palette) Palette {
	out := make(Palette, 0, len(palettes)*ColorsPerBank)
	for _, p := range palettes {
		bank := make(Palette, ColorsPerBank)
		copy(bank, p)
		bank[0] = NewColor(0, 0, 0)
		out = append(out, bank...)
	}
	return out
}
