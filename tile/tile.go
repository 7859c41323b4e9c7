/*
Package tile implements the 8 by 8 pixel tile, the atomic graphic block
of the target hardware, in its three storage formats: packed 4bpp,
packed 8bpp and intermediate 15-bit direct color.

Tiles are fixed-size arrays so that equal pixel content means equal
values; they can be compared with == and used directly as map keys.
*/
package tile

import "github.com/gbtools/gbagfx/gba"

const (
	// Width and Height are the fixed tile dimensions in pixels.
	Width  = 8
	Height = 8

	// Pixels is the number of pixels in one tile.
	Pixels = Width * Height
)

// Tile is an 8 by 8 block of pixels in one of the supported storage
// formats.
type Tile interface {
	// Flip returns the tile mirrored across the requested axes.
	Flip(h, v bool) Tile
}

// Tile16 is a tile of direct 15-bit colors, the intermediate format used
// between decoding an image and choosing palettes.
type Tile16 [Pixels]gba.Color

// Tile8 is a packed 8bpp tile, one palette index per byte.
type Tile8 [Pixels]uint8

// Tile4 is a packed 4bpp tile, two palette indices per byte with the
// left pixel in the low nibble.
type Tile4 [Pixels / 2]byte

// Blank16 returns a tile with every pixel set to the transparent
// sentinel.
func Blank16() Tile16 {
	var t Tile16
	for i := range t {
		t[i] = gba.Transparent
	}
	return t
}

// At returns the pixel at (x, y).
func (t Tile16) At(x, y int) gba.Color { return t[y*Width+x] }

// Set replaces the pixel at (x, y).
func (t *Tile16) Set(x, y int, c gba.Color) { t[y*Width+x] = c }

// FlipH returns the tile mirrored left to right.
func (t Tile16) FlipH() Tile16 {
	var o Tile16
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			o[y*Width+x] = t[y*Width+Width-1-x]
		}
	}
	return o
}

// FlipV returns the tile mirrored top to bottom.
func (t Tile16) FlipV() Tile16 {
	var o Tile16
	for y := 0; y < Height; y++ {
		copy(o[y*Width:(y+1)*Width], t[(Height-1-y)*Width:(Height-y)*Width])
	}
	return o
}

// Flip implements the Tile interface.
func (t Tile16) Flip(h, v bool) Tile {
	if h {
		t = t.FlipH()
	}
	if v {
		t = t.FlipV()
	}
	return t
}

// At returns the palette index at (x, y).
func (t Tile8) At(x, y int) uint8 { return t[y*Width+x] }

// Set replaces the palette index at (x, y).
func (t *Tile8) Set(x, y int, v uint8) { t[y*Width+x] = v }

// FlipH returns the tile mirrored left to right.
func (t Tile8) FlipH() Tile8 {
	var o Tile8
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			o[y*Width+x] = t[y*Width+Width-1-x]
		}
	}
	return o
}

// FlipV returns the tile mirrored top to bottom.
func (t Tile8) FlipV() Tile8 {
	var o Tile8
	for y := 0; y < Height; y++ {
		copy(o[y*Width:(y+1)*Width], t[(Height-1-y)*Width:(Height-y)*Width])
	}
	return o
}

// Flip implements the Tile interface.
func (t Tile8) Flip(h, v bool) Tile {
	if h {
		t = t.FlipH()
	}
	if v {
		t = t.FlipV()
	}
	return t
}

// At returns the palette index at (x, y).
func (t Tile4) At(x, y int) uint8 {
	b := t[y*Width/2+x/2]
	if x&1 == 0 {
		return b & 0x0f
	}
	return b >> 4
}

// Set replaces the palette index at (x, y). Index values are masked to
// four bits.
func (t *Tile4) Set(x, y int, v uint8) {
	i := y*Width/2 + x/2
	if x&1 == 0 {
		t[i] = t[i]&0xf0 | v&0x0f
	} else {
		t[i] = t[i]&0x0f | v<<4
	}
}

// FlipH returns the tile mirrored left to right.
func (t Tile4) FlipH() Tile4 {
	var o Tile4
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			o.Set(x, y, t.At(Width-1-x, y))
		}
	}
	return o
}

// FlipV returns the tile mirrored top to bottom.
func (t Tile4) FlipV() Tile4 {
	const row = Width / 2
	var o Tile4
	for y := 0; y < Height; y++ {
		copy(o[y*row:(y+1)*row], t[(Height-1-y)*row:(Height-y)*row])
	}
	return o
}

// Flip implements the Tile interface.
func (t Tile4) Flip(h, v bool) Tile {
	if h {
		t = t.FlipH()
	}
	if v {
		t = t.FlipV()
	}
	return t
}
