package gbagfx

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/gbtools/gbagfx/gba"
	"github.com/gbtools/gbagfx/pixel"
	"github.com/gbtools/gbagfx/tile"
)

// GrowthPolicy governs whether and how an image's colors may extend a
// descriptor's palette during encoding.
type GrowthPolicy int

const (
	// NoGrowth treats the palette as fixed; a color absent from it is
	// an error.
	NoGrowth GrowthPolicy = iota

	// LaxGrowth appends unknown colors in first-encountered order.
	// Known colors are reused by equality lookup regardless of the
	// source image's own palette order.
	LaxGrowth

	// StrictGrowth requires the existing palette to be a positional
	// prefix of the source image's native palette and appends the
	// native colors beyond that prefix. Only meaningful for indexed
	// source images.
	StrictGrowth
)

// GraphicsDescriptor describes a raw graphics buffer: its palette, bit
// depth, whether the data is in tile-major or linear bitmap layout, and
// its dimensions in pixels. Width, Height and Palette are inputs to
// Decode; Encode fills them in from the source image.
type GraphicsDescriptor struct {
	Palette gba.Palette
	BPP     int
	Tiled   bool
	Width   int
	Height  int
	Growth  GrowthPolicy
}

func (d *GraphicsDescriptor) maxColors() int {
	return 1 << uint(d.BPP)
}

func (d *GraphicsDescriptor) validate() error {
	switch d.BPP {
	case 2, 4, 8:
	default:
		return errors.Errorf("gbagfx: unsupported bit depth %d", d.BPP)
	}
	if len(d.Palette) > d.maxColors() {
		return errors.Errorf("gbagfx: %d colors exceeds the %d color capacity of %d bpp", len(d.Palette), d.maxColors(), d.BPP)
	}
	return nil
}

// hwSwap corrects the sub-byte pixel order of b between the natural
// reading order and the order the hardware expects. It is its own
// inverse.
func hwSwap(b byte, bpp int) byte {
	switch bpp {
	case 2:
		return pixel.Swap2(b)
	case 4:
		return pixel.Swap4(b)
	}
	return b
}

// retile copies data between linear and tile-major layouts. The mapper's
// tiled index addresses dst when toTiled is true and src otherwise.
func retile(data []byte, width, height, bpp int, toTiled bool) []byte {
	out := make([]byte, len(data))
	m := tile.NewMapper(width, height, bpp)
	for {
		tiled, linear, ok := m.Next()
		if !ok {
			break
		}
		if toTiled {
			out[tiled] = data[linear]
		} else {
			out[linear] = data[tiled]
		}
	}
	return out
}

// imagePalette converts a GBA palette for use in an image.Paletted.
// Index 0 and the transparent sentinel both map to fully transparent.
func imagePalette(p gba.Palette) color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		if i == 0 || c == gba.Transparent {
			out[i] = color.Transparent
		} else {
			out[i] = c
		}
	}
	return out
}

// Decode converts a raw graphics buffer described by d into a paletted
// image. The descriptor supplies the palette, bit depth, layout and
// dimensions and is not modified.
func Decode(data []byte, d GraphicsDescriptor) (*image.Paletted, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	ppb := pixel.PixelsPerByte(d.BPP)
	if d.Width <= 0 || d.Height <= 0 || d.Width%ppb != 0 {
		return nil, errors.Errorf("gbagfx: invalid dimensions %dx%d for %d bpp", d.Width, d.Height, d.BPP)
	}
	if d.Tiled && (d.Width%tile.Width != 0 || d.Height%tile.Height != 0) {
		return nil, errors.Errorf("gbagfx: %dx%d image is not a whole number of tiles", d.Width, d.Height)
	}
	if want := d.Width * d.Height / ppb; len(data) != want {
		return nil, errors.Errorf("gbagfx: got %d bytes of data, expected %d", len(data), want)
	}

	if d.Tiled {
		data = retile(data, d.Width, d.Height, d.BPP, false)
	}

	indices := make([]uint8, 0, d.Width*d.Height)
	for _, b := range data {
		indices = pixel.UnpackByte(indices, hwSwap(b, d.BPP), d.BPP)
	}

	for i, v := range indices {
		if int(v) >= len(d.Palette) {
			return nil, errors.Errorf("gbagfx: pixel %d references palette index %d, palette has %d colors", i, v, len(d.Palette))
		}
	}

	m := image.NewPaletted(image.Rect(0, 0, d.Width, d.Height), imagePalette(d.Palette))
	copy(m.Pix, indices)
	return m, nil
}

// lookup resolves a color to its palette index under the descriptor's
// growth policy, growing the palette when the policy permits it.
func (d *GraphicsDescriptor) lookup(c gba.Color) (uint8, error) {
	if i := d.Palette.Index(c); i >= 0 {
		return uint8(i), nil
	}
	if d.Growth == NoGrowth {
		return 0, errors.Errorf("gbagfx: color %04x not in the fixed palette", uint16(c))
	}
	if len(d.Palette) >= d.maxColors() {
		return 0, errors.Errorf("gbagfx: palette full at %d colors, cannot add %04x", len(d.Palette), uint16(c))
	}
	d.Palette = append(d.Palette, c)
	return uint8(len(d.Palette) - 1), nil
}

// nativePalette converts the palette of an indexed source image,
// respecting per-entry alpha.
func nativePalette(p color.Palette) []gba.Color {
	out := make([]gba.Color, len(p))
	for i, c := range p {
		out[i] = gba.FromColor(c)
	}
	return out
}

func (d *GraphicsDescriptor) indexPaletted(m *image.Paletted) ([]uint8, error) {
	native := nativePalette(m.Palette)

	if d.Growth == StrictGrowth {
		for i, c := range d.Palette {
			if i >= len(native) || native[i] != c {
				return nil, errors.Errorf("gbagfx: existing palette is not a prefix of the image palette at entry %d", i)
			}
		}
		for _, c := range native[len(d.Palette):] {
			if len(d.Palette) >= d.maxColors() {
				return nil, errors.Errorf("gbagfx: image palette of %d colors exceeds the %d color capacity", len(native), d.maxColors())
			}
			d.Palette = append(d.Palette, c)
		}
	}

	b := m.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := m.ColorIndexAt(x, y)
			if int(v) >= len(native) {
				return nil, errors.Errorf("gbagfx: pixel (%d,%d) references palette index %d, image palette has %d colors", x, y, v, len(native))
			}
			c := native[v]
			if c == gba.Transparent {
				out = append(out, 0)
				continue
			}
			if d.Growth == StrictGrowth {
				out = append(out, v)
				continue
			}
			i, err := d.lookup(c)
			if err != nil {
				return nil, errors.Wrapf(err, "pixel (%d,%d)", x, y)
			}
			out = append(out, i)
		}
	}
	return out, nil
}

func (d *GraphicsDescriptor) indexDirect(m image.Image) ([]uint8, error) {
	if d.Growth == StrictGrowth {
		return nil, errors.New("gbagfx: strict palette growth requires an indexed source image")
	}

	b := m.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := gba.FromColor(m.At(x, y))
			if c == gba.Transparent {
				out = append(out, 0)
				continue
			}
			i, err := d.lookup(c)
			if err != nil {
				return nil, errors.Wrapf(err, "pixel (%d,%d)", x, y)
			}
			out = append(out, i)
		}
	}
	return out, nil
}

// Encode converts an image into a raw graphics buffer described by d.
// Unknown colors are handled according to the descriptor's growth
// policy; transparent pixels always map to index 0. The final palette
// and the image dimensions are written back into the descriptor.
func Encode(m image.Image, d *GraphicsDescriptor) ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	ppb := pixel.PixelsPerByte(d.BPP)
	if width%ppb != 0 {
		return nil, errors.Errorf("gbagfx: width %d is not a whole number of bytes at %d bpp", width, d.BPP)
	}
	if d.Tiled && (width%tile.Width != 0 || height%tile.Height != 0) {
		return nil, errors.Errorf("gbagfx: %dx%d image is not a whole number of tiles", width, height)
	}

	var (
		indices []uint8
		err     error
	)
	if pm, ok := m.(*image.Paletted); ok {
		indices, err = d.indexPaletted(pm)
	} else {
		indices, err = d.indexDirect(m)
	}
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(indices)/ppb)
	for i := 0; i < len(indices); i += ppb {
		data = append(data, hwSwap(pixel.PackByte(indices[i:i+ppb], d.BPP), d.BPP))
	}

	if d.Tiled {
		data = retile(data, width, height, d.BPP, true)
	}

	d.Width, d.Height = width, height
	return data, nil
}
