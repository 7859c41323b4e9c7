package gbagfx

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// Quantize returns a paletted copy of m reduced to at most max colors
// using median cut quantization. It is the preprocessing step for
// source images that use more colors than the target format can hold;
// the conversion itself never quantizes.
func Quantize(m image.Image, max int) *image.Paletted {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, max), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}
