package gba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteIndex(t *testing.T) {
	p := Palette{Transparent, NewColor(1, 2, 3), NewColor(4, 5, 6)}

	assert.Equal(t, 0, p.Index(Transparent))
	assert.Equal(t, 2, p.Index(NewColor(4, 5, 6)))
	assert.Equal(t, -1, p.Index(NewColor(0, 0, 0)))
}

func TestPaletteBinary(t *testing.T) {
	p := Palette{NewColor(1, 0, 0), NewColor(0, 0, 31)}

	b, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x7c}, b)

	var q Palette
	require.NoError(t, q.UnmarshalBinary(b))
	assert.Equal(t, p, q)
}

func TestPaletteUnmarshalOddLength(t *testing.T) {
	var p Palette
	assert.Error(t, p.UnmarshalBinary([]byte{0x01}))
}

func TestJoin(t *testing.T) {
	short := make(Palette, 5)
	long := make(Palette, 20)
	for i := range short {
		short[i] = NewColor(uint8(i+1), 0, 0)
	}
	for i := range long {
		long[i] = NewColor(0, uint8(i+1), 0)
	}

	out := Join([]Palette{short, long})
	require.Len(t, out, 2*ColorsPerBank)

	black := NewColor(0, 0, 0)

	// Slot 0 of each bank is forced to black, discarding both palettes'
	// own first entries
	assert.Equal(t, black, out[0])
	assert.Equal(t, black, out[16])

	// Remaining short entries survive, the tail is padded with black
	for i := 1; i < 5; i++ {
		assert.Equal(t, short[i], out[i])
	}
	for i := 5; i < 16; i++ {
		assert.Equal(t, black, out[i])
	}

	// The long palette is truncated at 16; colors beyond are dropped
	for i := 1; i < 16; i++ {
		assert.Equal(t, long[i], out[16+i])
	}
}
