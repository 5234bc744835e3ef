/*
Package texconv converts textures between the TGA, TIM2 and BMP formats and
maintains a catalogue of the textures found on disk.
*/
package texconv

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/bodgit/texconv/pict"
)

var errNoCatalog = errors.New("texconv: no catalogue")

// Texconv ties the conversion and scanning operations to a catalogue and a
// logger.
type Texconv struct {
	db     *Catalog
	logger *log.Logger
}

// New returns a Texconv using db, which may be nil if nothing needs to be
// catalogued, and logging to logger.
func New(db *Catalog, logger *log.Logger) *Texconv {
	return &Texconv{
		db:     db,
		logger: logger,
	}
}

// Options controls a conversion.
type Options struct {
	// Format is the output format. FormatUnknown means use the extension
	// of the destination.
	Format Format
	// Reorient requests the pixels be stored in Orientation.
	Reorient    bool
	Orientation pict.Orientation
	// Swap exchanges the red and blue channels after decoding.
	Swap bool
	// Colors reduces truecolor sources to at most this many palette
	// entries. Zero keeps truecolor.
	Colors int
}

// Convert reads src, applies opts and writes the result to dst.
func (t *Texconv) Convert(src, dst string, opts Options) error {
	format := opts.Format
	if format == FormatUnknown {
		format = FormatOf(dst)
	}
	if !format.Writable() {
		return fmt.Errorf("%w: cannot write %s", pict.ErrOutput, format)
	}

	b, err := ReadFile(src)
	if err != nil {
		return err
	}

	tex, err := Load(b, opts.Colors)
	if err != nil {
		return err
	}
	t.logger.Printf("Read %s: %s %dx%d, %d bits per pixel\n", src, tex.Format, tex.Image.Width, tex.Image.Height, tex.Image.BitsPerPixel)

	if err := tex.Reduce(opts.Colors); err != nil {
		return err
	}
	if opts.Swap {
		if err := tex.Image.ConvertChannels(); err != nil {
			return err
		}
	}
	if opts.Reorient {
		if err := tex.Image.ConvertOrientation(opts.Orientation); err != nil {
			return err
		}
	}

	out := new(bytes.Buffer)
	if err := tex.Encode(out, format); err != nil {
		return err
	}
	if err := WriteFile(dst, out.Bytes()); err != nil {
		return err
	}
	t.logger.Printf("Wrote %s: %s, %d bytes\n", dst, format, out.Len())

	return nil
}
