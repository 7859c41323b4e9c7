package main

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gbtools/gbagfx"
	"github.com/gbtools/gbagfx/gba"
	"github.com/gbtools/gbagfx/rle"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func growthPolicy(s string) (gbagfx.GrowthPolicy, error) {
	switch s {
	case "none":
		return gbagfx.NoGrowth, nil
	case "lax":
		return gbagfx.LaxGrowth, nil
	case "strict":
		return gbagfx.StrictGrowth, nil
	}
	return 0, cli.NewExitError("growth must be one of none, lax, strict", 1)
}

func readPalette(file string) (gba.Palette, error) {
	var p gba.Palette
	if file == "" {
		return p, nil
	}
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

func convertOptions(c *cli.Context) gbagfx.ConvertOptions {
	return gbagfx.ConvertOptions{
		BPP:          c.Int("bpp"),
		Affine:       c.Bool("affine"),
		FirstBlank:   c.Bool("first-blank"),
		Screenblocks: c.Bool("sbb"),
		RLE:          c.Bool("rle"),
		Quantize:     c.Bool("quantize"),
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "gbagfx"
	app.Usage = "GBA tiled graphics conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	bgFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "bpp",
			Value: 4,
			Usage: "target bit depth, 4 or 8",
		},
		&cli.BoolFlag{
			Name:  "affine",
			Usage: "produce an affine background",
		},
		&cli.BoolFlag{
			Name:  "first-blank",
			Usage: "reserve a blank tile at index 0",
		},
		&cli.BoolFlag{
			Name:  "sbb",
			Usage: "arrange the map into 32x32 screenblocks",
		},
		&cli.BoolFlag{
			Name:  "rle",
			Usage: "RLE compress the tile and map data",
		},
		&cli.BoolFlag{
			Name:  "quantize",
			Usage: "quantize images that exceed the color capacity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "bg",
			Usage:       "Convert an image to a tiled background",
			Description: "Writes FILE.img.bin, FILE.map.bin and FILE.pal.bin next to the source image.",
			ArgsUsage:   "FILE",
			Flags:       bgFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g := gbagfx.New(newLogger(c))

				if err := g.ConvertFile(c.Args().First(), convertOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every PNG under a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       bgFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g := gbagfx.New(newLogger(c))

				if err := g.Scan(c.Args().First(), convertOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "gfx",
			Usage:       "Convert an image to raw pixel data and a palette",
			Description: "Writes FILE.img.bin and FILE.pal.bin next to the source image.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bpp",
					Value: 4,
					Usage: "target bit depth, 2, 4 or 8",
				},
				&cli.BoolFlag{
					Name:  "bitmap",
					Usage: "keep the linear bitmap layout instead of tiling",
				},
				&cli.StringFlag{
					Name:  "pal",
					Usage: "start from an existing palette file",
				},
				&cli.StringFlag{
					Name:  "growth",
					Value: "lax",
					Usage: "palette growth policy: none, lax or strict",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				file := c.Args().First()

				growth, err := growthPolicy(c.String("growth"))
				if err != nil {
					return err
				}
				palette, err := readPalette(c.String("pal"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := os.Open(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				d := gbagfx.GraphicsDescriptor{
					Palette: palette,
					BPP:     c.Int("bpp"),
					Tiled:   !c.Bool("bitmap"),
					Growth:  growth,
				}
				data, err := gbagfx.Encode(m, &d)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				palData, err := d.Palette.MarshalBinary()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				base := strings.TrimSuffix(file, filepath.Ext(file))
				if err := ioutil.WriteFile(base+".img.bin", data, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := ioutil.WriteFile(base+".pal.bin", palData, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Convert raw pixel data back to a PNG image",
			Description: "The raw format carries no metadata so the palette, dimensions and bit depth must be supplied.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bpp",
					Value: 4,
					Usage: "source bit depth, 2, 4 or 8",
				},
				&cli.BoolFlag{
					Name:  "bitmap",
					Usage: "source is a linear bitmap instead of tiled",
				},
				&cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "image height in pixels",
				},
				&cli.StringFlag{
					Name:  "pal",
					Usage: "palette file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				file := c.Args().First()

				palette, err := readPalette(c.String("pal"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				data, err := ioutil.ReadFile(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := gbagfx.Decode(data, gbagfx.GraphicsDescriptor{
					Palette: palette,
					BPP:     c.Int("bpp"),
					Tiled:   !c.Bool("bitmap"),
					Width:   c.Int("width"),
					Height:  c.Int("height"),
				})
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				base := strings.TrimSuffix(file, filepath.Ext(file))
				out, err := os.Create(base + ".png")
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer out.Close()

				if err := png.Encode(out, m); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "pal",
			Usage:       "Merge palette files into one",
			Description: "Each input palette is padded to 16 colors and slot 0 is forced to black.",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "output, o",
					Value: "merged.pal.bin",
					Usage: "output palette file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var palettes []gba.Palette
				for i := 0; i < c.NArg(); i++ {
					p, err := readPalette(c.Args().Get(i))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					palettes = append(palettes, p)
				}

				data, err := gba.Join(palettes).MarshalBinary()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := ioutil.WriteFile(c.String("output"), data, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "rle",
			Usage:       "RLE compress or decompress a file",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "decompress, d",
					Usage: "decompress instead of compress",
				},
				&cli.StringFlag{
					Name:  "output, o",
					Usage: "output file, defaults to FILE.rle or FILE.raw",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				file := c.Args().First()

				data, err := ioutil.ReadFile(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var out []byte
				suffix := ".rle"
				if c.Bool("decompress") {
					out, err = rle.Decompress(data)
					suffix = ".raw"
				} else {
					out, err = rle.Compress(data)
				}
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				output := c.String("output")
				if output == "" {
					output = file + suffix
				}

				if err := ioutil.WriteFile(output, out, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
