package gbagfx

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	// A gradient with far more than 16 colors
	m := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 0, 0xff})
		}
	}

	pm := Quantize(m, 16)
	require.NotNil(t, pm)
	assert.True(t, len(pm.Palette) <= 16)
	assert.Equal(t, m.Bounds(), pm.Bounds())
}
