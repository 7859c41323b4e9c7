package gba

import (
	"fmt"
	"sort"
)

// ColorSet is a finite set of distinct colors, typically the colors used
// by one 8 by 8 tile.
type ColorSet map[Color]struct{}

// NewColorSet returns a set containing the given colors.
func NewColorSet(colors ...Color) ColorSet {
	s := make(ColorSet, len(colors))
	for _, c := range colors {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c into the set.
func (s ColorSet) Add(c Color) { s[c] = struct{}{} }

// Contains reports whether c is in the set.
func (s ColorSet) Contains(c Color) bool {
	_, ok := s[c]
	return ok
}

// SubsetOf reports whether every color in s is also in o.
func (s ColorSet) SubsetOf(o ColorSet) bool {
	if len(s) > len(o) {
		return false
	}
	for c := range s {
		if !o.Contains(c) {
			return false
		}
	}
	return true
}

func (s ColorSet) clone() ColorSet {
	d := make(ColorSet, len(s))
	for c := range s {
		d[c] = struct{}{}
	}
	return d
}

func (s ColorSet) unionSize(o ColorSet) int {
	return len(s) + len(o) - s.intersectionSize(o)
}

func (s ColorSet) intersectionSize(o ColorSet) int {
	if len(o) < len(s) {
		s, o = o, s
	}
	n := 0
	for c := range s {
		if o.Contains(c) {
			n++
		}
	}
	return n
}

// Palette converts the set to an ordered palette. Colors are ordered by
// ascending numeric value so that output is reproducible, except that
// the transparent sentinel, when present, is swapped into slot 0.
func (s ColorSet) Palette() Palette {
	p := make(Palette, 0, len(s))
	for c := range s {
		p = append(p, c)
	}
	sort.Slice(p, func(i, j int) bool { return p[i] < p[j] })
	if i := p.Index(Transparent); i > 0 {
		p[0], p[i] = p[i], p[0]
	}
	return p
}

// ReducePalettes merges the per-tile color sets into as few 16-color
// palettes as the greedy heuristic manages, such that every tile's
// colors are a subset of its assigned palette. It returns the merged
// palettes and, per input set, the index of the palette assigned to it.
//
// The first pass assigns tiles in input order: a set that fits inside an
// existing palette reuses it, a set that covers an existing palette and
// still fits in 16 colors extends it in place, anything else starts a
// new palette. The second pass repeatedly merges the pair of palettes
// with the best score, where the score rewards shared colors and
// penalizes lopsided merges, until no pair fits within 16 colors.
// The result depends on input order and is not guaranteed minimal.
func ReducePalettes(tiles []ColorSet) ([]Palette, []int, error) {
	var masters []ColorSet
	assign := make([]int, len(tiles))

	for i, t := range tiles {
		if len(t) > ColorsPerBank {
			return nil, nil, fmt.Errorf("gba: tile %d uses %d colors, more than %d", i, len(t), ColorsPerBank)
		}

		idx := -1
		for j, m := range masters {
			if t.SubsetOf(m) {
				idx = j
				break
			}
			if m.SubsetOf(t) && len(t) <= ColorsPerBank {
				for c := range t {
					m.Add(c)
				}
				idx = j
				break
			}
		}
		if idx < 0 {
			masters = append(masters, t.clone())
			idx = len(masters) - 1
		}
		assign[i] = idx
	}

	for {
		bestScore, dst, src := 0, -1, -1
		for i := range masters {
			for j := range masters {
				if i == j || masters[i].unionSize(masters[j]) > ColorsPerBank {
					continue
				}
				shared := masters[i].intersectionSize(masters[j])
				iOnly := len(masters[i]) - shared
				jOnly := len(masters[j]) - shared
				score := shared - minInt(iOnly, jOnly)
				if dst < 0 || score > bestScore {
					bestScore, dst, src = score, i, j
				}
			}
		}
		if dst < 0 {
			break
		}

		for c := range masters[src] {
			masters[dst].Add(c)
		}
		masters = append(masters[:src], masters[src+1:]...)

		// Deleting src shifts every later palette down by one,
		// including dst itself.
		if dst > src {
			dst--
		}
		for k, a := range assign {
			switch {
			case a == src:
				assign[k] = dst
			case a > src:
				assign[k] = a - 1
			}
		}
	}

	palettes := make([]Palette, len(masters))
	for i, m := range masters {
		palettes[i] = m.Palette()
	}
	return palettes, assign, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
