package texconv

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/bodgit/texconv/bmp"
	"github.com/bodgit/texconv/pict"
	"github.com/bodgit/texconv/tga"
	"github.com/bodgit/texconv/tim2"
	_ "golang.org/x/image/bmp" // register BMP decoder
)

// ReadFile reads the whole of file.
func ReadFile(file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pict.ErrOpen, err)
	}
	return b, nil
}

// WriteFile writes b to file, creating or truncating it as needed.
func WriteFile(file string, b []byte) error {
	if err := os.WriteFile(file, b, 0o666); err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}
	return nil
}

// Texture is a decoded file along with the format specific fields needed to
// write it back unchanged. Image always holds a linear palette and colours
// in B, G, R, A order, whatever the source format.
type Texture struct {
	Image  *pict.Image
	Format Format

	// Footer is set for TGA files that had one.
	Footer *tga.Footer
	// Attributes is set for TIM2 files.
	Attributes *tim2.Attributes
}

// Load decodes the file held in b. Formats other than TGA and TIM2 are
// decoded with the standard library and reduced to at most colors palette
// entries, or to 32-bit truecolor if colors is zero.
func Load(b []byte, colors int) (*Texture, error) {
	t := &Texture{Format: Detect(b)}

	switch t.Format {
	case FormatTGA:
		m, footer, err := tga.Load(b)
		if err != nil {
			return nil, err
		}
		t.Image, t.Footer = m, footer
	case FormatTIM2:
		m, attrs, err := tim2.Load(b)
		if err != nil {
			return nil, err
		}
		if err := tim2.Normalize(m); err != nil {
			return nil, err
		}
		t.Image, t.Attributes = m, attrs
	case FormatUnknown:
		return nil, fmt.Errorf("%w: unrecognised file format", pict.ErrHeader)
	default:
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pict.ErrHeader, err)
		}
		m, err := pict.FromImage(img, colors)
		if err != nil {
			return nil, err
		}
		t.Image = m
	}

	return t, nil
}

// Reduce converts a truecolor texture to an indexed one with at most colors
// palette entries. Indexed textures are left alone.
func (t *Texture) Reduce(colors int) error {
	if colors <= 0 || t.Image.Indexed() {
		return nil
	}

	m := t.Image.Clone()
	if err := m.ConvertOrientation(pict.LeftRightUpDown); err != nil {
		return err
	}
	img, err := m.Image()
	if err != nil {
		return err
	}
	reduced, err := pict.FromImage(img, colors)
	if err != nil {
		return err
	}
	t.Image = reduced

	return nil
}

// Encode writes the texture to w in format f. The texture itself is not
// modified.
func (t *Texture) Encode(w io.Writer, f Format) error {
	m := t.Image.Clone()

	switch f {
	case FormatTGA:
		if m.BitsPerPixel == 4 || m.Indexed() && m.PaletteBitsPerPixel == 16 {
			if err := m.Promote(); err != nil {
				return err
			}
		}
		return tga.Save(w, m, t.Footer)
	case FormatTIM2:
		switch {
		case m.BitsPerPixel == 8 && m.PaletteColors == 0:
			m.Palette = pict.GrayPalette()
			m.PaletteColors = 256
			m.PaletteBitsPerPixel = 32
		case m.PaletteColors > 0 && m.PaletteColors <= 16:
			if err := m.PadPalette(16); err != nil {
				return err
			}
		case m.PaletteColors > 16:
			if err := m.PadPalette(256); err != nil {
				return err
			}
		}
		if err := tim2.Denormalize(m); err != nil {
			return err
		}
		return tim2.Save(w, m, t.Attributes)
	case FormatBMP:
		return bmp.Encode(w, m)
	}

	return fmt.Errorf("%w: cannot write %s", pict.ErrOutput, f)
}
