package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/texconv"
	"github.com/bodgit/texconv/pict"
	"github.com/urfave/cli/v2"
)

const defaultDB = "texconv.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func printEntry(e *texconv.Entry) {
	fmt.Printf("%s\n", e.Path)
	fmt.Printf("  format:      %s\n", e.Format)
	fmt.Printf("  size:        %dx%d\n", e.Width, e.Height)
	fmt.Printf("  depth:       %d bits per pixel\n", e.BitsPerPixel)
	if e.PaletteColors > 0 {
		fmt.Printf("  palette:     %d colours, %d bits per entry\n", e.PaletteColors, e.PaletteBitsPerPixel)
	}
	fmt.Printf("  orientation: %s\n", e.Orientation)
	fmt.Printf("  sha1:        %s\n", e.SHA1)
}

func main() {
	app := cli.NewApp()

	app.Name = "texconv"
	app.Usage = "TGA, TIM2 and BMP texture conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TEXCONV_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a texture to another format",
			Description: "The output format is taken from the extension of DESTINATION unless --format is given.",
			ArgsUsage:   "SOURCE DESTINATION",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "output format, one of tga, tim2 or bmp",
				},
				&cli.StringFlag{
					Name:    "orientation",
					Aliases: []string{"o"},
					Usage:   "store pixels as lrud, lrdu, rlud or rldu",
				},
				&cli.BoolFlag{
					Name:  "swap",
					Usage: "exchange red and blue channels",
				},
				&cli.IntFlag{
					Name:    "colors",
					Aliases: []string{"c"},
					Usage:   "reduce truecolor sources to at most this many colours",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts := texconv.Options{
					Swap:   c.Bool("swap"),
					Colors: c.Int("colors"),
				}
				if c.IsSet("format") {
					f, err := texconv.ParseFormat(c.String("format"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					opts.Format = f
				}
				if c.IsSet("orientation") {
					o, err := pict.ParseOrientation(c.String("orientation"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					opts.Reorient, opts.Orientation = true, o
				}

				t := texconv.New(nil, newLogger(c))
				if err := t.Convert(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Describe a texture",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				b, err := texconv.ReadFile(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				tex, err := texconv.Load(b, 0)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				sum, err := texconv.SHA1File(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				printEntry(&texconv.Entry{
					Path:                file,
					SHA1:                sum,
					Format:              tex.Format,
					Width:               tex.Image.Width,
					Height:              tex.Image.Height,
					BitsPerPixel:        tex.Image.BitsPerPixel,
					PaletteBitsPerPixel: tex.Image.PaletteBitsPerPixel,
					PaletteColors:       tex.Image.PaletteColors,
					Orientation:         tex.Image.Orientation,
				})

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and catalogue textures",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   4,
					Usage:   "number of files to decode at once",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := texconv.NewCatalog(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				t := texconv.New(db, newLogger(c))
				if err := t.Scan(context.Background(), c.Args().First(), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List catalogued textures",
			Description: "",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "sha1",
					Usage: "only list textures with this SHA1",
				},
			},
			Action: func(c *cli.Context) error {
				db, err := texconv.NewCatalog(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				var entries []texconv.Entry
				if c.IsSet("sha1") {
					entries, err = db.FindBySHA1(c.String("sha1"))
				} else {
					entries, err = db.List()
				}
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for i := range entries {
					printEntry(&entries[i])
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
