package gbagfx

import (
	"image"

	"github.com/pkg/errors"

	"github.com/gbtools/gbagfx/gba"
	"github.com/gbtools/gbagfx/tile"
)

// DirectBackground is the intermediate form of a background: a
// deduplicated tileset of direct-color tiles and a map referencing it.
// Conversions to the indexed variants produce new values and leave the
// source untouched.
type DirectBackground struct {
	Width, Height int // in tiles
	Tiles         []tile.Tile16
	Map           gba.Map
}

// Background8 is an 8bpp background: one flat palette of up to 256
// colors shared by every tile.
type Background8 struct {
	Width, Height int
	Tiles         []tile.Tile8
	Map           gba.Map
	Palette       gba.Palette
}

// Background4 is a 4bpp background: up to 16 palette banks of 16 colors,
// each tile assigned to one bank through its map entries.
type Background4 struct {
	Width, Height int
	Tiles         []tile.Tile4
	Map           gba.Map
	Palettes      []gba.Palette
}

// AffineBackground is an 8bpp background for the affine layers, whose
// map is a flat byte array of tile indices with no flip bits.
type AffineBackground struct {
	Width, Height int
	Tiles         []tile.Tile8
	Map           []byte
	Palette       gba.Palette
}

// directTiles cuts an image into direct-color tiles in raster order.
// Transparent pixels become the sentinel color.
func directTiles(m image.Image) (tiles []tile.Tile, width, height int, err error) {
	b := m.Bounds()
	if b.Dx()%tile.Width != 0 || b.Dy()%tile.Height != 0 {
		return nil, 0, 0, errors.Errorf("gbagfx: %dx%d image is not a whole number of tiles", b.Dx(), b.Dy())
	}
	width, height = b.Dx()/tile.Width, b.Dy()/tile.Height

	for ty := 0; ty < height; ty++ {
		for tx := 0; tx < width; tx++ {
			var t tile.Tile16
			for y := 0; y < tile.Height; y++ {
				for x := 0; x < tile.Width; x++ {
					t.Set(x, y, gba.FromColor(m.At(b.Min.X+tx*tile.Width+x, b.Min.Y+ty*tile.Height+y)))
				}
			}
			tiles = append(tiles, t)
		}
	}
	return tiles, width, height, nil
}

// LoadBackground cuts an image into 8 by 8 direct-color tiles and
// deduplicates them, treating mirrored tiles as equal. With firstBlank
// the tileset is seeded with an all-transparent tile at index 0.
func LoadBackground(m image.Image, firstBlank bool) (*DirectBackground, error) {
	tiles, width, height, err := directTiles(m)
	if err != nil {
		return nil, err
	}

	var blank tile.Tile
	if firstBlank {
		blank = tile.Blank16()
	}

	set, sm := tile.Reduce(tiles, blank)

	bg := &DirectBackground{
		Width:  width,
		Height: height,
		Tiles:  make([]tile.Tile16, len(set)),
		Map:    sm,
	}
	for i, t := range set {
		bg.Tiles[i] = t.(tile.Tile16)
	}
	return bg, nil
}

// buildPalette collects the colors of a direct-color tileset in
// first-encountered order with the transparent sentinel forced to
// index 0.
func buildPalette(tiles []tile.Tile16, max int) (gba.Palette, error) {
	p := gba.Palette{gba.Transparent}
	for i, t := range tiles {
		for _, c := range t {
			if p.Index(c) >= 0 {
				continue
			}
			if len(p) >= max {
				return nil, errors.Errorf("gbagfx: tile %d pushes the palette past %d colors", i, max)
			}
			p = append(p, c)
		}
	}
	return p, nil
}

// To8bpp converts the background to 8bpp with a single flat palette.
// It fails if the tileset uses more than 256 distinct colors.
func (bg *DirectBackground) To8bpp() (*Background8, error) {
	p, err := buildPalette(bg.Tiles, 1<<8)
	if err != nil {
		return nil, err
	}

	out := &Background8{
		Width:   bg.Width,
		Height:  bg.Height,
		Tiles:   make([]tile.Tile8, len(bg.Tiles)),
		Map:     append(gba.Map(nil), bg.Map...),
		Palette: p,
	}
	for i, t := range bg.Tiles {
		for j, c := range t {
			out.Tiles[i][j] = uint8(p.Index(c))
		}
	}
	return out, nil
}

// To4bpp converts the background to 4bpp, merging the per-tile color
// sets into as few 16-color palette banks as the greedy heuristic
// manages and writing each tile's bank into the map entries that
// reference it. Every tile's set includes the transparent sentinel so
// that slot 0 of its bank stays reserved.
func (bg *DirectBackground) To4bpp() (*Background4, error) {
	sets := make([]gba.ColorSet, len(bg.Tiles))
	for i, t := range bg.Tiles {
		s := gba.NewColorSet(gba.Transparent)
		for _, c := range t {
			s.Add(c)
		}
		sets[i] = s
	}

	palettes, assign, err := gba.ReducePalettes(sets)
	if err != nil {
		return nil, err
	}
	if len(palettes) > gba.MaxBanks {
		return nil, errors.Errorf("gbagfx: tileset needs %d palette banks, hardware has %d", len(palettes), gba.MaxBanks)
	}

	out := &Background4{
		Width:    bg.Width,
		Height:   bg.Height,
		Tiles:    make([]tile.Tile4, len(bg.Tiles)),
		Map:      make(gba.Map, len(bg.Map)),
		Palettes: palettes,
	}
	for i, t := range bg.Tiles {
		p := palettes[assign[i]]
		for y := 0; y < tile.Height; y++ {
			for x := 0; x < tile.Width; x++ {
				out.Tiles[i].Set(x, y, uint8(p.Index(t.At(x, y))))
			}
		}
	}
	for i, se := range bg.Map {
		out.Map[i] = se.SetBank(assign[se.Index()])
	}
	return out, nil
}

// To4bpp converts an 8bpp background with a hand-authored palette to
// 4bpp by partitioning the flat palette into fixed 16-color banks.
// Every pixel of a tile must fall within a single bank; index 0 is the
// shared transparent entry and is allowed anywhere.
func (bg *Background8) To4bpp() (*Background4, error) {
	banks := (len(bg.Palette) + gba.ColorsPerBank - 1) / gba.ColorsPerBank
	if banks > gba.MaxBanks {
		return nil, errors.Errorf("gbagfx: flat palette of %d colors spans %d banks, hardware has %d", len(bg.Palette), banks, gba.MaxBanks)
	}

	palettes := make([]gba.Palette, banks)
	for i := range palettes {
		palettes[i] = make(gba.Palette, gba.ColorsPerBank)
		copy(palettes[i], bg.Palette[i*gba.ColorsPerBank:])
	}

	out := &Background4{
		Width:    bg.Width,
		Height:   bg.Height,
		Tiles:    make([]tile.Tile4, len(bg.Tiles)),
		Map:      make(gba.Map, len(bg.Map)),
		Palettes: palettes,
	}

	assign := make([]int, len(bg.Tiles))
	for i, t := range bg.Tiles {
		bank := -1
		for j, v := range t {
			if v == 0 {
				continue
			}
			if v%gba.ColorsPerBank == 0 {
				// Slot 0 of every bank renders transparent in 4bpp.
				return nil, errors.Errorf("gbagfx: pixel value %d in tile %d lands on the transparent slot of its bank", v, i)
			}
			b := int(v) / gba.ColorsPerBank
			if bank < 0 {
				bank = b
			} else if b != bank {
				return nil, errors.Errorf("gbagfx: pixel value %d in tile %d crosses palette banks", v, i)
			}
			out.Tiles[i].Set(j%tile.Width, j/tile.Width, v%gba.ColorsPerBank)
		}
		if bank < 0 {
			bank = 0
		}
		assign[i] = bank
	}
	for i, se := range bg.Map {
		out.Map[i] = se.SetBank(assign[se.Index()])
	}
	return out, nil
}

// LoadAffineBackground converts an image into an affine 8bpp
// background. Tiles are deduplicated without flip detection, since
// affine maps cannot express flips, and the tileset is limited to 256
// tiles.
func LoadAffineBackground(m image.Image, firstBlank bool) (*AffineBackground, error) {
	tiles, width, height, err := directTiles(m)
	if err != nil {
		return nil, err
	}

	var blank tile.Tile
	if firstBlank {
		blank = tile.Blank16()
	}

	set, am, err := tile.ReduceAffine(tiles, blank)
	if err != nil {
		return nil, err
	}

	direct := make([]tile.Tile16, len(set))
	for i, t := range set {
		direct[i] = t.(tile.Tile16)
	}

	p, err := buildPalette(direct, 1<<8)
	if err != nil {
		return nil, err
	}

	bg := &AffineBackground{
		Width:   width,
		Height:  height,
		Tiles:   make([]tile.Tile8, len(direct)),
		Map:     am,
		Palette: p,
	}
	for i, t := range direct {
		for j, c := range t {
			bg.Tiles[i][j] = uint8(p.Index(c))
		}
	}
	return bg, nil
}

// TileData returns the tileset as raw bytes in hardware layout.
func (bg *Background8) TileData() []byte {
	out := make([]byte, 0, len(bg.Tiles)*tile.Pixels)
	for _, t := range bg.Tiles {
		out = append(out, t[:]...)
	}
	return out
}

// TileData returns the tileset as raw bytes in hardware layout.
func (bg *Background4) TileData() []byte {
	out := make([]byte, 0, len(bg.Tiles)*tile.Pixels/2)
	for _, t := range bg.Tiles {
		out = append(out, t[:]...)
	}
	return out
}

// TileData returns the tileset as raw bytes in hardware layout.
func (bg *AffineBackground) TileData() []byte {
	out := make([]byte, 0, len(bg.Tiles)*tile.Pixels)
	for _, t := range bg.Tiles {
		out = append(out, t[:]...)
	}
	return out
}

// FlatPalette returns the palette banks flattened for storage.
func (bg *Background4) FlatPalette() gba.Palette {
	return gba.Join(bg.Palettes)
}

// ScreenblockMap returns the map rearranged into row-major 32 by 32
// screenblocks.
func (bg *Background8) ScreenblockMap() (gba.Map, error) {
	return gba.Screenblocks(bg.Map, bg.Width, bg.Height)
}

// ScreenblockMap returns the map rearranged into row-major 32 by 32
// screenblocks.
func (bg *Background4) ScreenblockMap() (gba.Map, error) {
	return gba.Screenblocks(bg.Map, bg.Width, bg.Height)
}
