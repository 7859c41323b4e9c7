package gba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setOf(colors ...Color) ColorSet {
	return NewColorSet(colors...)
}

func grays(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = NewColor(uint8(i+1), uint8(i+1), uint8(i+1))
	}
	return out
}

func TestColorSetPalette(t *testing.T) {
	p := setOf(NewColor(3, 0, 0), Transparent, NewColor(1, 0, 0)).Palette()

	// Ascending numeric order with the sentinel swapped into slot 0
	require.Len(t, p, 3)
	assert.Equal(t, Transparent, p[0])
	assert.Contains(t, p[1:], NewColor(1, 0, 0))
	assert.Contains(t, p[1:], NewColor(3, 0, 0))
}

func TestColorSetPaletteDeterministic(t *testing.T) {
	s := setOf(NewColor(5, 5, 5), NewColor(1, 1, 1), NewColor(9, 9, 9))
	want := Palette{NewColor(1, 1, 1), NewColor(5, 5, 5), NewColor(9, 9, 9)}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, s.Palette())
	}
}

func TestReducePalettesSubsetReuse(t *testing.T) {
	a := NewColor(1, 0, 0)
	b := NewColor(2, 0, 0)
	c := NewColor(3, 0, 0)

	palettes, assign, err := ReducePalettes([]ColorSet{
		setOf(Transparent, a, b),
		setOf(Transparent, a),
		setOf(Transparent, a, b, c),
	})
	require.NoError(t, err)

	require.Len(t, palettes, 1)
	assert.Equal(t, []int{0, 0, 0}, assign)
	assert.Equal(t, Transparent, palettes[0][0])
	assert.Len(t, palettes[0], 4)
}

func TestReducePalettesMerging(t *testing.T) {
	// Two 9-color sets sharing 8 colors merge into one 10-color palette
	shared := grays(8)

	a := setOf(append(shared, NewColor(31, 0, 0))...)
	b := setOf(append(shared, NewColor(0, 31, 0))...)

	palettes, assign, err := ReducePalettes([]ColorSet{a, b})
	require.NoError(t, err)

	require.Len(t, palettes, 1)
	assert.Equal(t, []int{0, 0}, assign)
	assert.Len(t, palettes[0], 10)
}

func TestReducePalettesDisjoint(t *testing.T) {
	// 20 tiles of 9 unique colors each, no color shared: every pair
	// unions to 18 > 16, so nothing can merge
	sets := make([]ColorSet, 20)
	for i := range sets {
		s := NewColorSet(Transparent)
		for j := 0; j < 8; j++ {
			s.Add(NewColor(uint8(j+1), uint8(i), uint8(i%16)))
		}
		sets[i] = s
	}

	palettes, assign, err := ReducePalettes(sets)
	require.NoError(t, err)

	require.Len(t, palettes, 20)
	for i, s := range sets {
		p := palettes[assign[i]]
		assert.LessOrEqual(t, len(p), ColorsPerBank)
		for c := range s {
			assert.GreaterOrEqual(t, p.Index(c), 0)
		}
	}
}

func TestReducePalettesSubsetLaw(t *testing.T) {
	sets := []ColorSet{
		setOf(Transparent, NewColor(1, 0, 0), NewColor(2, 0, 0)),
		setOf(Transparent, NewColor(2, 0, 0), NewColor(3, 0, 0)),
		setOf(append(grays(15), Transparent)...),
		setOf(NewColor(1, 0, 0)),
	}

	palettes, assign, err := ReducePalettes(sets)
	require.NoError(t, err)
	require.Len(t, assign, len(sets))

	for i, s := range sets {
		p := palettes[assign[i]]
		assert.LessOrEqual(t, len(p), ColorsPerBank)
		for c := range s {
			assert.GreaterOrEqual(t, p.Index(c), 0, "set %d color %04x missing", i, uint16(c))
		}
	}
}

func TestReducePalettesTooManyColors(t *testing.T) {
	_, _, err := ReducePalettes([]ColorSet{setOf(append(grays(17), Transparent)...)})
	assert.Error(t, err)
}

func TestReducePalettesCapacityBoundary(t *testing.T) {
	palettes, _, err := ReducePalettes([]ColorSet{setOf(append(grays(15), Transparent)...)})
	require.NoError(t, err)
	assert.Len(t, palettes[0], ColorsPerBank)
}
