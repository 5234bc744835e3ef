/*
Package tim2 reads and writes single picture TIM2 files, the texture format
of the PlayStation 2 SDK.

Pixel data is stored before the optional colour lookup table (CLUT) and is
never compressed. Pixels of 4 or 8 bits are CLUT indices, the CLUT holding
16, 24 or 32-bit entries. Load and Save keep the bytes exactly as stored;
Normalize and Denormalize convert between the stored layout and the linear
BGR(A) layout used by the other formats.
*/
package tim2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bodgit/texconv/pict"
)

// Attributes holds the header fields that have no place in a pict.Image so
// that a file can be written back unchanged.
type Attributes struct {
	FormatID   uint8
	PictFormat uint8
	// ClutFlags are the bits of the CLUT type above the depth selector.
	ClutFlags uint8
	GsTex0    uint64
	GsTex1    uint64
	GsRegs    uint32
	GsTexClut uint32
}

// Load decodes the TIM2 file held in b.
func Load(b []byte) (*pict.Image, *Attributes, error) {
	fh, ph, err := decodeHeaders(b)
	if err != nil {
		return nil, nil, err
	}

	m, err := ph.picture()
	if err != nil {
		return nil, nil, err
	}

	offset := fileHeaderSize + int(ph.HeaderSize)
	if offset > len(b) {
		return nil, nil, fmt.Errorf("%w: picture header truncated", pict.ErrHeader)
	}

	n := m.ImageSize()
	if int(ph.ImageSize) < n {
		return nil, nil, fmt.Errorf("%w: image size %d, need %d", pict.ErrHeader, ph.ImageSize, n)
	}
	if offset+n > len(b) {
		return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", pict.ErrImage, n, len(b)-offset)
	}
	pix, err := pict.Alloc(n)
	if err != nil {
		return nil, nil, err
	}
	copy(pix, b[offset:])
	m.Pix = pix

	// Only the first mipmap level is read.
	offset += int(ph.ImageSize)

	if m.PaletteColors > 0 {
		n := m.PaletteSize()
		if int(ph.ClutSize) < n {
			return nil, nil, fmt.Errorf("%w: CLUT size %d, need %d", pict.ErrPalette, ph.ClutSize, n)
		}
		if offset+n > len(b) {
			return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", pict.ErrPalette, n, len(b)-offset)
		}
		palette, err := pict.Alloc(n)
		if err != nil {
			return nil, nil, err
		}
		copy(palette, b[offset:])
		m.Palette = palette
	}

	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	return m, &Attributes{
		FormatID:   fh.FormatID,
		PictFormat: ph.PictFormat,
		ClutFlags:  ph.ClutType &^ clutSelectorMask,
		GsTex0:     ph.GsTex0,
		GsTex1:     ph.GsTex1,
		GsRegs:     ph.GsRegs,
		GsTexClut:  ph.GsTexClut,
	}, nil
}

// Save writes m to w as a single picture TIM2 file. attrs may be nil. A
// picture not stored left to right, top to bottom is reoriented on a copy
// first; m itself is never modified.
func Save(w io.Writer, m *pict.Image, attrs *Attributes) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if attrs == nil {
		attrs = new(Attributes)
	}

	if m.Orientation != pict.LeftRightUpDown {
		m = m.Clone()
		if err := m.ConvertOrientation(pict.LeftRightUpDown); err != nil {
			return err
		}
	}

	imageType, ok := selector(m.BitsPerPixel)
	if !ok {
		return fmt.Errorf("%w: %d bits per pixel", pict.ErrImage, m.BitsPerPixel)
	}

	ph := PictureHeader{
		ImageSize:  uint32(len(m.Pix)),
		HeaderSize: pictureHeaderSize,
		PictFormat: attrs.PictFormat,
		MipMaps:    1,
		ImageType:  imageType,
		Width:      m.Width,
		Height:     m.Height,
		GsTex0:     attrs.GsTex0,
		GsTex1:     attrs.GsTex1,
		GsRegs:     attrs.GsRegs,
		GsTexClut:  attrs.GsTexClut,
	}

	var palette []byte
	if m.BitsPerPixel <= 8 {
		if !m.Indexed() {
			return fmt.Errorf("%w: %d bits per pixel without CLUT", pict.ErrPalette, m.BitsPerPixel)
		}
		if m.PaletteColors != 16 && m.PaletteColors != 256 {
			return fmt.Errorf("%w: %d colours, want 16 or 256", pict.ErrPalette, m.PaletteColors)
		}
		clutType, _ := selector(m.PaletteBitsPerPixel)
		palette = m.Palette
		ph.ClutSize = uint32(len(palette))
		ph.ClutColors = m.PaletteColors
		ph.ClutType = attrs.ClutFlags&^clutSelectorMask | clutType
	}
	ph.TotalSize = pictureHeaderSize + ph.ImageSize + ph.ClutSize

	fh := FileHeader{
		Magic:    magicTIM2,
		Version:  formatVersion,
		FormatID: attrs.FormatID,
		Pictures: 1,
	}

	hb, err := marshal(&fh, &ph)
	if err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}

	b := new(bytes.Buffer)
	b.Grow(len(hb) + len(m.Pix) + len(palette))
	b.Write(hb)
	b.Write(m.Pix)
	b.Write(palette)

	if _, err := b.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}

	return nil
}

// Normalize converts m from the layout TIM2 stores, with a block ordered
// CLUT and colours in R, G, B, A order, to a linear CLUT with colours in B,
// G, R, A order. On failure m is unchanged.
func Normalize(m *pict.Image) error {
	c := m.Clone()

	if c.Indexed() {
		if err := c.ConvertCLUT(); err != nil {
			return err
		}
		// ConvertCLUT has already swapped 16-bit entries
		if c.PaletteBitsPerPixel != 16 {
			if err := c.ConvertChannels(); err != nil {
				return err
			}
		}
	} else if err := c.ConvertChannels(); err != nil {
		return err
	}

	*m = *c

	return nil
}

// Denormalize is the inverse of Normalize. Both steps are self-inverse, so
// this is the same transform.
func Denormalize(m *pict.Image) error {
	return Normalize(m)
}
