package gba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenEntry(t *testing.T) {
	tests := []struct {
		name         string
		index        int
		hFlip, vFlip bool
		want         ScreenEntry
	}{
		{"plain", 5, false, false, 0x0005},
		{"hflip", 5, true, false, 0x0405},
		{"vflip", 5, false, true, 0x0805},
		{"both", 1023, true, true, 0x0fff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := NewScreenEntry(tt.index, tt.hFlip, tt.vFlip)
			assert.Equal(t, tt.want, se)
			assert.Equal(t, tt.index, se.Index())
			assert.Equal(t, tt.hFlip, se.HFlip())
			assert.Equal(t, tt.vFlip, se.VFlip())
			assert.Equal(t, 0, se.Bank())
		})
	}
}

func TestScreenEntrySetBank(t *testing.T) {
	se := NewScreenEntry(9, true, false).SetBank(12)

	assert.Equal(t, 12, se.Bank())
	assert.Equal(t, 9, se.Index())
	assert.True(t, se.HFlip())

	assert.Equal(t, 3, se.SetBank(3).Bank())
}

func TestMapBinary(t *testing.T) {
	m := Map{0x0005, 0xc123}

	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x00, 0x23, 0xc1}, b)

	var q Map
	require.NoError(t, q.UnmarshalBinary(b))
	assert.Equal(t, m, q)
}

func TestScreenblocks(t *testing.T) {
	// A 64x32 map splits into two side by side screenblocks
	m := make(Map, 64*32)
	for i := range m {
		m[i] = ScreenEntry(i)
	}

	out, err := Screenblocks(m, 64, 32)
	require.NoError(t, err)
	require.Len(t, out, len(m))

	// First screenblock holds the left half, row by row
	assert.Equal(t, ScreenEntry(0), out[0])
	assert.Equal(t, ScreenEntry(31), out[31])
	assert.Equal(t, ScreenEntry(64), out[32])

	// Second screenblock starts at the top right corner
	assert.Equal(t, ScreenEntry(32), out[1024])
	assert.Equal(t, ScreenEntry(32+64), out[1024+32])
}

func TestScreenblocksErrors(t *testing.T) {
	_, err := Screenblocks(make(Map, 40*32), 40, 32)
	assert.Error(t, err)

	_, err = Screenblocks(make(Map, 10), 32, 32)
	assert.Error(t, err)
}
