package gba

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	tileIndexMask = 0x03ff

	hFlipBit = 1 << 10
	vFlipBit = 1 << 11

	bankShift = 12

	// ScreenblockSize is the width and height of one screenblock in
	// tiles.
	ScreenblockSize = 32

	// ScreenblockEntries is the number of screen entries in one
	// screenblock.
	ScreenblockEntries = ScreenblockSize * ScreenblockSize
)

// ScreenEntry is one map cell: a 10-bit tile index, horizontal and
// vertical flip bits and a 4-bit palette bank index. The bank is only
// meaningful for 4bpp backgrounds and is left zero otherwise.
type ScreenEntry uint16

// NewScreenEntry packs a tile index and flip flags into a ScreenEntry
// with a zero palette bank.
func NewScreenEntry(index int, hFlip, vFlip bool) ScreenEntry {
	se := ScreenEntry(index) & tileIndexMask
	if hFlip {
		se |= hFlipBit
	}
	if vFlip {
		se |= vFlipBit
	}
	return se
}

// Index returns the 10-bit tile index.
func (se ScreenEntry) Index() int { return int(se & tileIndexMask) }

// HFlip reports whether the horizontal flip bit is set.
func (se ScreenEntry) HFlip() bool { return se&hFlipBit != 0 }

// VFlip reports whether the vertical flip bit is set.
func (se ScreenEntry) VFlip() bool { return se&vFlipBit != 0 }

// Bank returns the 4-bit palette bank index.
func (se ScreenEntry) Bank() int { return int(se >> bankShift) }

// SetBank returns se with its palette bank replaced.
func (se ScreenEntry) SetBank(bank int) ScreenEntry {
	return se&(1<<bankShift-1) | ScreenEntry(bank&0x0f)<<bankShift
}

// Map is a row-major sequence of screen entries. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces
// using the hardware format: little-endian 16-bit values, no header.
type Map []ScreenEntry

// MarshalBinary encodes the map into binary form and returns the result.
func (m Map) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the map from binary form.
func (m *Map) UnmarshalBinary(b []byte) error {
	if len(b)%2 != 0 {
		return fmt.Errorf("gba: map data is not a whole number of entries")
	}
	*m = make(Map, len(b)>>1)
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, *m)
}

// Screenblocks rearranges a row-major map of width by height tiles into
// a row-major sequence of 32 by 32 screenblocks, the unit the hardware
// addresses map memory in. Both dimensions must be multiples of the
// screenblock size.
func Screenblocks(m Map, width, height int) (Map, error) {
	if width%ScreenblockSize != 0 || height%ScreenblockSize != 0 {
		return nil, fmt.Errorf("gba: %dx%d map is not a whole number of screenblocks", width, height)
	}
	if len(m) != width*height {
		return nil, fmt.Errorf("gba: map has %d entries, expected %d", len(m), width*height)
	}

	out := make(Map, 0, len(m))
	for sy := 0; sy < height; sy += ScreenblockSize {
		for sx := 0; sx < width; sx += ScreenblockSize {
			for y := 0; y < ScreenblockSize; y++ {
				row := (sy+y)*width + sx
				out = append(out, m[row:row+ScreenblockSize]...)
			}
		}
	}
	return out, nil
}
