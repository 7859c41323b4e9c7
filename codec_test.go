package gbagfx

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbtools/gbagfx/gba"
)

func testPalette() gba.Palette {
	return gba.Palette{
		gba.Transparent,
		gba.NewColor(31, 0, 0),
		gba.NewColor(0, 31, 0),
		gba.NewColor(0, 0, 31),
	}
}

// testImage builds an indexed image whose palette mirrors p.
func testImage(w, h int, p gba.Palette) *image.Paletted {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		if c == gba.Transparent {
			cp[i] = color.Transparent
		} else {
			cp[i] = c
		}
	}
	m := image.NewPaletted(image.Rect(0, 0, w, h), cp)
	for i := range m.Pix {
		m.Pix[i] = uint8(i % len(p))
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name  string
		bpp   int
		tiled bool
	}{
		{"4bpp tiled", 4, true},
		{"4bpp bitmap", 4, false},
		{"8bpp tiled", 8, true},
		{"2bpp tiled", 2, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := testPalette()
			m := testImage(16, 16, p)

			d := GraphicsDescriptor{Palette: p, BPP: tt.bpp, Tiled: tt.tiled, Growth: NoGrowth}
			data, err := Encode(m, &d)
			require.NoError(t, err)
			assert.Equal(t, 16, d.Width)
			assert.Equal(t, 16, d.Height)
			assert.Equal(t, p, d.Palette)
			assert.Len(t, data, 16*16*tt.bpp/8)

			back, err := Decode(data, d)
			require.NoError(t, err)
			assert.Equal(t, m.Pix, back.Pix)
		})
	}
}

func TestEncodeNoGrowthUnknownColor(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range m.Pix {
		m.Pix[i] = 0xff // opaque white
	}

	d := GraphicsDescriptor{Palette: testPalette(), BPP: 4, Tiled: true, Growth: NoGrowth}
	_, err := Encode(m, &d)
	assert.Error(t, err)
}

func TestEncodeLaxGrowth(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	// Top half red, bottom half blue
	for y := 0; y < 8; y++ {
		c := color.RGBA{0xff, 0, 0, 0xff}
		if y >= 4 {
			c = color.RGBA{0, 0, 0xff, 0xff}
		}
		for x := 0; x < 8; x++ {
			m.Set(x, y, c)
		}
	}

	d := GraphicsDescriptor{Palette: gba.Palette{gba.Transparent}, BPP: 4, Tiled: true, Growth: LaxGrowth}
	_, err := Encode(m, &d)
	require.NoError(t, err)

	// Colors appended in first-encountered order after the seed
	assert.Equal(t, gba.Palette{
		gba.Transparent,
		gba.NewColor(31, 0, 0),
		gba.NewColor(0, 0, 31),
	}, d.Palette)
}

func TestEncodeLaxGrowthCapacity(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.Set(x, y, color.RGBA{uint8(x) << 5, uint8(y) << 5, 0xff, 0xff})
		}
	}

	// 2bpp holds four colors; the gradient has many more
	d := GraphicsDescriptor{BPP: 2, Tiled: true, Growth: LaxGrowth}
	_, err := Encode(m, &d)
	assert.Error(t, err)
}

func TestEncodeStrictGrowth(t *testing.T) {
	p := testPalette()
	m := testImage(8, 8, p)

	// Prefix of the image palette: accepted, remainder appended
	d := GraphicsDescriptor{Palette: p[:2], BPP: 4, Tiled: true, Growth: StrictGrowth}
	_, err := Encode(m, &d)
	require.NoError(t, err)
	assert.Equal(t, p, d.Palette)
}

func TestEncodeStrictGrowthPrefixMismatch(t *testing.T) {
	p := testPalette()
	m := testImage(8, 8, p)

	d := GraphicsDescriptor{
		Palette: gba.Palette{gba.Transparent, gba.NewColor(1, 1, 1)},
		BPP:     4,
		Tiled:   true,
		Growth:  StrictGrowth,
	}
	_, err := Encode(m, &d)
	assert.Error(t, err)
}

func TestEncodeStrictGrowthDirectSource(t *testing.T) {
	d := GraphicsDescriptor{BPP: 4, Tiled: true, Growth: StrictGrowth}
	_, err := Encode(image.NewRGBA(image.Rect(0, 0, 8, 8)), &d)
	assert.Error(t, err)
}

func TestEncodeTransparentMapsToZero(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	m.Set(3, 3, color.RGBA{0xff, 0, 0, 0xff})

	d := GraphicsDescriptor{Palette: testPalette(), BPP: 8, Tiled: false, Growth: NoGrowth}
	data, err := Encode(m, &d)
	require.NoError(t, err)

	for i, b := range data {
		if i == 3*8+3 {
			assert.Equal(t, byte(1), b)
		} else {
			assert.Equal(t, byte(0), b)
		}
	}
}

func TestDecodeBadInput(t *testing.T) {
	p := testPalette()

	// Wrong data length
	_, err := Decode(make([]byte, 10), GraphicsDescriptor{Palette: p, BPP: 4, Tiled: true, Width: 8, Height: 8})
	assert.Error(t, err)

	// Index out of palette bounds
	data := make([]byte, 8*8/2)
	data[0] = 0xff
	_, err = Decode(data, GraphicsDescriptor{Palette: p, BPP: 4, Tiled: true, Width: 8, Height: 8})
	assert.Error(t, err)

	// Unsupported bit depth
	_, err = Decode(nil, GraphicsDescriptor{Palette: p, BPP: 3, Width: 8, Height: 8})
	assert.Error(t, err)

	// Tiled data with non-tile dimensions
	_, err = Decode(make([]byte, 12*4/2), GraphicsDescriptor{Palette: p, BPP: 4, Tiled: true, Width: 12, Height: 4})
	assert.Error(t, err)
}

func TestDecodeNibbleOrder(t *testing.T) {
	// One byte of 4bpp data holding indices 1 then 2 in hardware order:
	// left pixel in the low nibble
	d := GraphicsDescriptor{Palette: testPalette(), BPP: 4, Tiled: false, Width: 2, Height: 1}
	m, err := Decode([]byte{0x21}, d)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), m.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(2), m.ColorIndexAt(1, 0))
}
