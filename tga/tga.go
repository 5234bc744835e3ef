/*
Package tga reads and writes Truevision TGA images.

Colour mapped, truecolor and grayscale images are supported, both raw and run
length encoded. Images are always written uncompressed. Palettes must use 24
or 32 bits per entry and colour mapped images 8 bits per index.
*/
package tga

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bodgit/texconv/pict"
	"github.com/bodgit/texconv/rle"
)

// Load decodes a TGA file held in b. The footer is nil if the file does not
// end with one.
func Load(b []byte) (*pict.Image, *Footer, error) {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, nil, err
	}

	m := &pict.Image{
		Width:        h.Width,
		Height:       h.Height,
		BitsPerPixel: h.BitsPerPixel,
		Orientation:  pict.Orientation(h.Descriptor) & pict.OrientationMask,
		AlphaBits:    h.Descriptor & descriptorAlphaMask,
	}

	offset := headerSize + int(h.IDLength)
	if offset > len(b) {
		return nil, nil, fmt.Errorf("%w: identification field truncated", pict.ErrHeader)
	}

	if n := h.PaletteSize(); n > 0 {
		if offset+n > len(b) {
			return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", pict.ErrPalette, n, len(b)-offset)
		}
		palette, err := pict.Alloc(n)
		if err != nil {
			return nil, nil, err
		}
		offset += copy(palette, b[offset:offset+n])

		m.Palette = palette
		m.PaletteColors = h.PaletteColors
		m.PaletteBitsPerPixel = h.PaletteBits
	} else if h.colorMapped() {
		return nil, nil, fmt.Errorf("%w: colour mapped image without palette", pict.ErrPalette)
	}

	pix, err := pict.Alloc(h.ImageSize())
	if err != nil {
		return nil, nil, err
	}
	if h.Compressed() {
		n, err := rle.Decode(pix, b[offset:], int(h.BitsPerPixel>>3))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", pict.ErrImage, err)
		}
		offset += n
	} else {
		if offset+len(pix) > len(b) {
			return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", pict.ErrImage, len(pix), len(b)-offset)
		}
		offset += copy(pix, b[offset:])
	}
	m.Pix = pix

	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	var footer *Footer
	if len(b)-offset >= footerSize {
		f := new(Footer)
		if err := f.UnmarshalBinary(b[len(b)-footerSize:]); err == nil && f.Valid() {
			footer = f
		}
	}

	return m, footer, nil
}

func imageType(m *pict.Image) uint8 {
	switch {
	case m.Indexed():
		return typeColorMapped
	case m.BitsPerPixel == 8:
		return typeGrayscale
	}
	return typeTrueColor
}

// Save writes m to w as an uncompressed TGA file followed by footer. A nil
// footer writes one with no extension or developer area.
func Save(w io.Writer, m *pict.Image, footer *Footer) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.BitsPerPixel == 4 {
		return fmt.Errorf("%w: 4 bits per pixel", pict.ErrImage)
	}

	h := Header{
		ImageType:    imageType(m),
		Width:        m.Width,
		Height:       m.Height,
		BitsPerPixel: m.BitsPerPixel,
		Descriptor:   uint8(m.Orientation) | m.AlphaBits&descriptorAlphaMask,
	}
	if m.PaletteColors > 0 {
		if m.PaletteBitsPerPixel != 24 && m.PaletteBitsPerPixel != 32 {
			return fmt.Errorf("%w: %d bits per palette entry", pict.ErrPalette, m.PaletteBitsPerPixel)
		}
		h.PaletteType = 1
		h.PaletteColors = m.PaletteColors
		h.PaletteBits = m.PaletteBitsPerPixel
	}

	if footer == nil {
		footer = NewFooter()
	}

	hb, err := h.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}
	fb, err := footer.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}

	b := new(bytes.Buffer)
	b.Grow(len(hb) + len(m.Palette) + len(m.Pix) + len(fb))
	b.Write(hb)
	b.Write(m.Palette)
	b.Write(m.Pix)
	b.Write(fb)

	if _, err := b.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}

	return nil
}
