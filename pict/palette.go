package pict

import (
	"encoding/binary"
	"fmt"

	"github.com/bodgit/texconv/mask"
)

const opaque = 0xff

// PaletteBGRA returns the palette of m widened to four bytes per entry in
// B, G, R, A order. 16-bit entries are expanded field by field, 24-bit
// entries gain an opaque alpha byte and 32-bit entries are copied as is.
func (m *Image) PaletteBGRA() ([]byte, error) {
	if m.PaletteColors == 0 || len(m.Palette) < m.PaletteSize() {
		return nil, fmt.Errorf("%w: palette missing or short", ErrPalette)
	}

	out := make([]byte, int(m.PaletteColors)*4)
	for i := 0; i < int(m.PaletteColors); i++ {
		e := out[i*4 : i*4+4]
		switch m.PaletteBitsPerPixel {
		case 16:
			a, r, g, b := mask.Expand5551(binary.LittleEndian.Uint16(m.Palette[i*2:]))
			e[0], e[1], e[2], e[3] = b, g, r, a
		case 24:
			p := m.Palette[i*3:]
			_, r, g, b := mask.Unpack8888(uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0]))
			e[0], e[1], e[2], e[3] = b, g, r, opaque
		case 32:
			copy(e, m.Palette[i*4:i*4+4])
		default:
			return nil, fmt.Errorf("%w: %d bits per entry", ErrPalette, m.PaletteBitsPerPixel)
		}
	}

	return out, nil
}

// Promote widens m so that it can be stored in formats with fewer options:
// 4-bit indices become 8-bit and 16 or 24-bit palettes become 32-bit.
func (m *Image) Promote() error {
	if m.PaletteColors == 0 {
		return nil
	}

	var pix, palette []byte

	if m.BitsPerPixel == 4 {
		if len(m.Pix) != m.ImageSize() {
			return fmt.Errorf("%w: have %d pixel bytes, want %d", ErrImage, len(m.Pix), m.ImageSize())
		}
		pix = make([]byte, len(m.Pix)*2)
		for i, b := range m.Pix {
			pix[i*2], pix[i*2+1] = b&0x0f, b>>4
		}
	}

	if m.PaletteBitsPerPixel != 32 {
		p, err := m.PaletteBGRA()
		if err != nil {
			return err
		}
		palette = p
	}

	if pix != nil {
		m.Pix = pix
		m.BitsPerPixel = 8
	}
	if palette != nil {
		m.Palette = palette
		m.PaletteBitsPerPixel = 32
	}

	return nil
}

// GrayPalette returns a 256 entry 32-bit palette in which every index maps
// to the grey level of the same value.
func GrayPalette() []byte {
	p := make([]byte, largePalette*4)
	for i := 0; i < largePalette; i++ {
		p[i*4], p[i*4+1], p[i*4+2], p[i*4+3] = byte(i), byte(i), byte(i), opaque
	}
	return p
}

// PadPalette extends the palette of m with transparent black entries until
// it holds colors entries.
func (m *Image) PadPalette(colors int) error {
	if m.PaletteColors == 0 {
		return fmt.Errorf("%w: no palette to pad", ErrPalette)
	}
	if colors < int(m.PaletteColors) || colors > largePalette {
		return fmt.Errorf("%w: cannot pad %d colours to %d", ErrConvert, m.PaletteColors, colors)
	}
	if len(m.Palette) != m.PaletteSize() {
		return fmt.Errorf("%w: have %d palette bytes, want %d", ErrPalette, len(m.Palette), m.PaletteSize())
	}

	p := make([]byte, colors*int(m.PaletteBitsPerPixel)>>3)
	copy(p, m.Palette)
	m.Palette = p
	m.PaletteColors = uint16(colors)

	return nil
}
