package tile

import (
	"fmt"

	"github.com/gbtools/gbagfx/gba"
)

// MaxAffineTiles is the largest tileset an affine map can reference,
// since affine maps store tile indices in a single byte.
const MaxAffineTiles = 256

type ref struct {
	index        int
	hFlip, vFlip bool
}

// register records every orientation of t under index. The canonical
// unflipped orientation is inserted last so that for symmetric tiles it
// wins over its own mirrors.
func register(seen map[Tile]ref, t Tile, index int) {
	seen[t.Flip(true, true)] = ref{index, true, true}
	seen[t.Flip(false, true)] = ref{index, false, true}
	seen[t.Flip(true, false)] = ref{index, true, false}
	seen[t] = ref{index, false, false}
}

// Reduce deduplicates a sequence of tiles, treating tiles that are
// mirror images of each other as equal. It returns the reduced tileset
// and one screen entry per input tile referencing it, with the flip bits
// set so that the hardware reproduces the original tile. If blank is
// non-nil the tileset is seeded with it at index 0 whether or not it
// appears in the input.
func Reduce(tiles []Tile, blank Tile) ([]Tile, gba.Map) {
	var set []Tile
	seen := make(map[Tile]ref)

	if blank != nil {
		register(seen, blank, 0)
		set = append(set, blank)
	}

	m := make(gba.Map, 0, len(tiles))
	for _, t := range tiles {
		r, ok := seen[t]
		if !ok {
			r = ref{index: len(set)}
			register(seen, t, r.index)
			set = append(set, t)
		}
		m = append(m, gba.NewScreenEntry(r.index, r.hFlip, r.vFlip))
	}
	return set, m
}

// ReduceAffine deduplicates a sequence of tiles without flip detection
// and emits raw byte indices, the only representation affine backgrounds
// support. Mirrored tiles are stored separately since there are no flip
// bits to merge them with. It fails if the reduced tileset exceeds 256
// tiles.
func ReduceAffine(tiles []Tile, blank Tile) ([]Tile, []byte, error) {
	var set []Tile
	seen := make(map[Tile]int)

	if blank != nil {
		seen[blank] = 0
		set = append(set, blank)
	}

	m := make([]byte, 0, len(tiles))
	for _, t := range tiles {
		i, ok := seen[t]
		if !ok {
			i = len(set)
			if i >= MaxAffineTiles {
				return nil, nil, fmt.Errorf("tile: affine tileset exceeds %d tiles", MaxAffineTiles)
			}
			seen[t] = i
			set = append(set, t)
		}
		m = append(m, byte(i))
	}
	return set, m, nil
}
