package pict

import (
	"encoding/binary"
	"fmt"

	"github.com/bodgit/texconv/clut"
	"github.com/bodgit/texconv/mask"
)

// swapChannels returns a copy of b with the red and blue channel of every
// entry exchanged.
func swapChannels(b []byte, bits uint8) ([]byte, error) {
	out := make([]byte, len(b))

	switch bits {
	case 24:
		if len(b)%3 != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a whole number of entries", ErrConvert, len(b))
		}
		copy(out, b)
		for i := 0; i < len(out); i += 3 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	case 32:
		if len(b)%4 != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a whole number of entries", ErrConvert, len(b))
		}
		for i := 0; i < len(out); i += 4 {
			binary.LittleEndian.PutUint32(out[i:], mask.Swap8888(binary.LittleEndian.Uint32(b[i:])))
		}
	case 16:
		if len(b)%2 != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a whole number of entries", ErrConvert, len(b))
		}
		for i := 0; i < len(out); i += 2 {
			binary.LittleEndian.PutUint16(out[i:], mask.Swap5551(binary.LittleEndian.Uint16(b[i:])))
		}
	default:
		return nil, fmt.Errorf("%w: cannot swap channels at %d bits", ErrConvert, bits)
	}

	return out, nil
}

// ConvertChannels toggles between BGR(A) and RGB(A) order. For indexed
// pictures the palette is converted, otherwise the pixels are. Calling it
// twice restores the original bytes.
func (m *Image) ConvertChannels() error {
	if m.colorsInPalette() {
		if len(m.Palette) == 0 {
			return fmt.Errorf("%w: no palette to convert", ErrPalette)
		}
		p, err := swapChannels(m.Palette, m.PaletteBitsPerPixel)
		if err != nil {
			return err
		}
		m.Palette = p
		return nil
	}

	if len(m.Pix) == 0 {
		return fmt.Errorf("%w: no pixel data", ErrImage)
	}
	pix, err := swapChannels(m.Pix, m.BitsPerPixel)
	if err != nil {
		return err
	}
	m.Pix = pix

	return nil
}

// ConvertCLUT toggles the palette between the TIM2 stored layout and linear
// order. 16-bit entries also have their red and blue fields exchanged in the
// same pass. Calling it twice restores the original bytes.
func (m *Image) ConvertCLUT() error {
	if len(m.Palette) == 0 || m.PaletteColors == 0 {
		return fmt.Errorf("%w: no palette to convert", ErrPalette)
	}

	bits := int(m.PaletteBitsPerPixel)
	if err := clut.Check(len(m.Palette), bits, int(m.PaletteColors)); err != nil {
		return fmt.Errorf("%w: %w", ErrPalette, err)
	}
	offsets, err := clut.Offsets(bits, int(m.PaletteColors))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPalette, err)
	}

	size := bits >> 3
	p := make([]byte, len(m.Palette))
	copy(p, m.Palette)
	for i, o := range offsets {
		dst, src := p[i*size:(i+1)*size], m.Palette[o:o+size]
		if size == 2 {
			binary.LittleEndian.PutUint16(dst, mask.Swap5551(binary.LittleEndian.Uint16(src)))
			continue
		}
		copy(dst, src)
	}
	m.Palette = p

	return nil
}
