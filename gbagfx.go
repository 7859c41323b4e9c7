/*
Package gbagfx converts images to and from the raw tiled and paletted
binary graphics formats used by the Game Boy Advance video hardware:
2, 4 and 8 bits-per-pixel paletted data in bitmap or 8 by 8 tile layout,
screen-entry map data and 15-bit BGR palettes.
*/
package gbagfx

import "log"

// GBAGfx converts image files into GBA graphics data.
type GBAGfx struct {
	logger *log.Logger
}

// New returns a converter that reports progress through logger.
func New(logger *log.Logger) *GBAGfx {
	return &GBAGfx{
		logger: logger,
	}
}
