/*
Package gba implements the color, palette and map types used by the Game
Boy Advance video hardware.

Colors are stored as packed 15-bit BGR values; red occupies the low five
bits, then green, then blue. Bit 15 is unused by the hardware and is
repurposed here to mark the reserved transparent color so that it never
compares equal to a real black.
*/
package gba

import "image/color"

const (
	redShift   = 0
	greenShift = 5
	blueShift  = 10

	channelMask = 0x1f

	// ColorsPerBank is the capacity of one hardware palette bank.
	ColorsPerBank = 16

	// MaxBanks is the number of selectable 16-color banks for 4bpp tiles.
	MaxBanks = 16
)

// Color is a packed 15-bit BGR color value as understood by the GBA
// palette RAM, with bit 15 reserved for the transparent sentinel.
type Color uint16

// Transparent is the reserved sentinel color. It is not representable by
// any 5-bit component combination and therefore compares unequal to every
// real color.
const Transparent Color = 0x8000

// NewColor packs three 5-bit components into a Color. Component values
// are masked to five bits.
func NewColor(r, g, b uint8) Color {
	return Color(r&channelMask)<<redShift |
		Color(g&channelMask)<<greenShift |
		Color(b&channelMask)<<blueShift
}

// NewColorRGB8 packs three 8-bit components into a Color by discarding
// the low three bits of each. The conversion is lossy but deterministic.
func NewColorRGB8(r, g, b uint8) Color {
	return NewColor(r>>3, g>>3, b>>3)
}

// NewColorHex converts a packed 24-bit 0xRRGGBB value into a Color.
func NewColorHex(rgb uint32) Color {
	return NewColorRGB8(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
}

// R returns the 5-bit red component.
func (c Color) R() uint8 { return uint8(c >> redShift & channelMask) }

// G returns the 5-bit green component.
func (c Color) G() uint8 { return uint8(c >> greenShift & channelMask) }

// B returns the 5-bit blue component.
func (c Color) B() uint8 { return uint8(c >> blueShift & channelMask) }

// SetR returns c with its red component replaced.
func (c Color) SetR(r uint8) Color {
	return c&^(channelMask<<redShift) | Color(r&channelMask)<<redShift
}

// SetG returns c with its green component replaced.
func (c Color) SetG(g uint8) Color {
	return c&^(channelMask<<greenShift) | Color(g&channelMask)<<greenShift
}

// SetB returns c with its blue component replaced.
func (c Color) SetB(b uint8) Color {
	return c&^(channelMask<<blueShift) | Color(b&channelMask)<<blueShift
}

// RGBA implements the color.Color interface. Each 5-bit component is
// scaled to the full 16-bit range; the transparent sentinel reports zero
// alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c == Transparent {
		return 0, 0, 0, 0
	}
	r = (uint32(c.R())*0xffff + 15) / 31
	g = (uint32(c.G())*0xffff + 15) / 31
	b = (uint32(c.B())*0xffff + 15) / 31
	a = 0xffff
	return
}

// FromColor converts any color.Color to its nearest Color. Anything with
// less than half alpha maps to the transparent sentinel.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return Transparent
	}
	return NewColorRGB8(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
