package tile

import (
	"fmt"

	"github.com/gbtools/gbagfx/pixel"
)

// Mapper enumerates the byte positions of a packed image in both linear
// row-major order and tile-major order. Each call to Next yields one
// pair of indices covering 8/bpp pixels; copying src[linear] to
// dst[tiled] for every pair converts a bitmap to tile-major layout and
// swapping the two indices inverts it.
//
// Tiles are visited in raster order across the image and pixels in
// raster order within each tile.
type Mapper struct {
	width, height int
	tileW, tileH  int
	ppb           int

	tx, ty, py, bx int
	tiled          int
}

// NewMapper returns a Mapper for a width by height pixel image at the
// given bit depth using the default 8 by 8 tile size. It panics if the
// dimensions are not multiples of the tile size.
func NewMapper(width, height, bpp int) *Mapper {
	return NewMapperTiles(width, height, bpp, Width, Height)
}

// NewMapperTiles is NewMapper with an explicit tile size. The tile width
// must cover a whole number of packed bytes.
func NewMapperTiles(width, height, bpp, tileW, tileH int) *Mapper {
	ppb := pixel.PixelsPerByte(bpp)
	if width%tileW != 0 || height%tileH != 0 {
		panic(fmt.Sprintf("tile: %dx%d image is not a whole number of %dx%d tiles", width, height, tileW, tileH))
	}
	if tileW%ppb != 0 {
		panic(fmt.Sprintf("tile: %d pixel wide tile is not a whole number of bytes at %d bpp", tileW, 8/ppb))
	}
	return &Mapper{
		width:  width,
		height: height,
		tileW:  tileW,
		tileH:  tileH,
		ppb:    ppb,
	}
}

// Len returns the total number of byte positions the Mapper emits.
func (m *Mapper) Len() int {
	return m.width * m.height / m.ppb
}

// Next returns the next (tile-major, linear) byte index pair. The third
// result is false once the sequence is exhausted.
func (m *Mapper) Next() (tiled, linear int, ok bool) {
	if m.ty*m.tileH >= m.height {
		return 0, 0, false
	}

	tiled = m.tiled
	linear = (m.ty*m.tileH+m.py)*m.width/m.ppb + m.tx*m.tileW/m.ppb + m.bx

	m.tiled++
	if m.bx++; m.bx == m.tileW/m.ppb {
		m.bx = 0
		if m.py++; m.py == m.tileH {
			m.py = 0
			if m.tx++; m.tx*m.tileW == m.width {
				m.tx = 0
				m.ty++
			}
		}
	}
	return tiled, linear, true
}

// Reset rewinds the Mapper to the start of the sequence.
func (m *Mapper) Reset() {
	m.tx, m.ty, m.py, m.bx, m.tiled = 0, 0, 0, 0, 0
}
