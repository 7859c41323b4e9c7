package gbagfx

import (
	"context"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/gbtools/gbagfx/gba"
	"github.com/gbtools/gbagfx/rle"
)

// ConvertOptions controls how a background conversion behaves.
type ConvertOptions struct {
	// BPP selects the target bit depth, 4 or 8.
	BPP int

	// Affine produces an affine background: 8bpp, byte map, no flips.
	Affine bool

	// FirstBlank seeds the tileset with a blank tile at index 0.
	FirstBlank bool

	// Screenblocks rearranges the map into 32 by 32 screenblocks.
	Screenblocks bool

	// RLE compresses the tile and map data.
	RLE bool

	// Quantize reduces a source image that exceeds the target color
	// capacity before conversion instead of failing.
	Quantize bool
}

type output struct {
	tiles   []byte
	m       gba.Map
	rawMap  []byte
	palette gba.Palette
}

func (g *GBAGfx) convert(m image.Image, opts ConvertOptions) (*output, error) {
	if opts.Quantize {
		max := 1 << 8
		if opts.BPP == 4 {
			// A single bank always packs.
			max = gba.ColorsPerBank
		}
		m = Quantize(m, max)
	}

	if opts.Affine {
		bg, err := LoadAffineBackground(m, opts.FirstBlank)
		if err != nil {
			return nil, err
		}
		return &output{tiles: bg.TileData(), rawMap: bg.Map, palette: bg.Palette}, nil
	}

	bg, err := LoadBackground(m, opts.FirstBlank)
	if err != nil {
		return nil, err
	}

	switch opts.BPP {
	case 4:
		b4, err := bg.To4bpp()
		if err != nil {
			return nil, err
		}
		sm := b4.Map
		if opts.Screenblocks {
			if sm, err = b4.ScreenblockMap(); err != nil {
				return nil, err
			}
		}
		return &output{tiles: b4.TileData(), m: sm, palette: b4.FlatPalette()}, nil
	case 8:
		b8, err := bg.To8bpp()
		if err != nil {
			return nil, err
		}
		sm := b8.Map
		if opts.Screenblocks {
			if sm, err = b8.ScreenblockMap(); err != nil {
				return nil, err
			}
		}
		return &output{tiles: b8.TileData(), m: sm, palette: b8.Palette}, nil
	}
	return nil, errors.Errorf("gbagfx: unsupported background bit depth %d", opts.BPP)
}

// ConvertFile converts one image file into its three output artifacts,
// written next to the source as .img.bin, .map.bin and .pal.bin. The
// outputs are fully assembled in memory before anything is written so
// a failed conversion leaves no partial artifact behind.
func (g *GBAGfx) ConvertFile(file string, opts ConvertOptions) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "%s", file)
	}

	out, err := g.convert(m, opts)
	if err != nil {
		return errors.Wrapf(err, "%s", file)
	}

	mapData := out.rawMap
	if out.m != nil {
		if mapData, err = out.m.MarshalBinary(); err != nil {
			return errors.Wrapf(err, "%s", file)
		}
	}
	palData, err := out.palette.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "%s", file)
	}

	tileData := out.tiles
	if opts.RLE {
		if tileData, err = rle.Compress(tileData); err != nil {
			return errors.Wrapf(err, "%s", file)
		}
		if mapData, err = rle.Compress(mapData); err != nil {
			return errors.Wrapf(err, "%s", file)
		}
	}

	base := strings.TrimSuffix(file, filepath.Ext(file))
	for _, o := range []struct {
		suffix string
		data   []byte
	}{
		{".img.bin", tileData},
		{".map.bin", mapData},
		{".pal.bin", palData},
	} {
		if err := ioutil.WriteFile(base+o.suffix, o.data, 0644); err != nil {
			return err
		}
	}

	g.logger.Printf("converted \"%s\": %d tile bytes, %d map bytes, %d colors\n", file, len(tileData), len(mapData), len(out.palette))
	return nil
}

func (g *GBAGfx) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || filepath.Ext(file) != ".png" {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (g *GBAGfx) imageWorker(ctx context.Context, in <-chan string, opts ConvertOptions) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := g.ConvertFile(file, opts); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks a directory tree and converts every PNG image it finds
// using the same options.
func (g *GBAGfx) Scan(path string, opts ConvertOptions) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := g.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 4; i++ {
		errc, err := g.imageWorker(ctx, files, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
