/*
Package pict implements the in-memory picture shared by the TGA, TIM2 and BMP
codecs.

An Image owns a pixel buffer and, for indexed pictures, a palette buffer,
together with the geometry and depth needed to interpret them. The format
packages populate an Image from a byte buffer and serialize it again; the
conversions here transform it in place. Every conversion builds a fresh buffer
and only replaces the old one once it has succeeded, so a failed conversion
leaves the Image untouched.
*/
package pict

import "fmt"

// MaxBufferSize is the largest pixel or palette buffer a decoder will
// allocate.
const MaxBufferSize = 256 << 20

// Image is a decoded picture.
type Image struct {
	// Pix holds Width*Height pixels of BitsPerPixel bits each, with 4-bit
	// pixels packed low nibble first.
	Pix []byte
	// Palette holds PaletteColors entries of PaletteBitsPerPixel bits
	// each and is nil when there is no palette.
	Palette []byte

	Width  uint16
	Height uint16

	BitsPerPixel        uint8
	PaletteBitsPerPixel uint8
	PaletteColors       uint16

	Orientation Orientation

	// AlphaBits is the number of attribute bits per pixel as recorded in
	// a TGA image descriptor.
	AlphaBits uint8
}

// ImageSize returns the expected length of Pix.
func (m *Image) ImageSize() int {
	return int(m.Width) * int(m.Height) * int(m.BitsPerPixel) >> 3
}

// PaletteSize returns the expected length of Palette.
func (m *Image) PaletteSize() int {
	return int(m.PaletteColors) * int(m.PaletteBitsPerPixel) >> 3
}

// Indexed reports whether pixels are palette indices.
func (m *Image) Indexed() bool {
	return m.BitsPerPixel <= 8 && m.PaletteColors > 0
}

// colorsInPalette reports whether the colours of m live in its palette
// rather than its pixels.
func (m *Image) colorsInPalette() bool {
	return m.BitsPerPixel <= 8
}

// Validate checks that the buffers agree with the geometry and depths.
func (m *Image) Validate() error {
	if m.Width == 0 || m.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrImage, m.Width, m.Height)
	}
	switch m.BitsPerPixel {
	case 4:
		if int(m.Width)*int(m.Height)%2 != 0 {
			return fmt.Errorf("%w: odd pixel count at 4 bits per pixel", ErrImage)
		}
		if m.PaletteColors == 0 {
			return fmt.Errorf("%w: 4 bits per pixel without palette", ErrPalette)
		}
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrImage, m.BitsPerPixel)
	}
	if len(m.Pix) == 0 || len(m.Pix) != m.ImageSize() {
		return fmt.Errorf("%w: have %d pixel bytes, want %d", ErrImage, len(m.Pix), m.ImageSize())
	}
	if !m.Orientation.Valid() {
		return fmt.Errorf("%w: orientation %#02x", ErrImage, uint8(m.Orientation))
	}

	if m.PaletteColors == 0 {
		if m.Palette != nil {
			return fmt.Errorf("%w: palette without colour count", ErrPalette)
		}
		return nil
	}
	switch m.PaletteBitsPerPixel {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per entry", ErrPalette, m.PaletteBitsPerPixel)
	}
	if m.Indexed() && m.PaletteColors > largePalette {
		return fmt.Errorf("%w: %d colours", ErrPalette, m.PaletteColors)
	}
	if len(m.Palette) != m.PaletteSize() {
		return fmt.Errorf("%w: have %d palette bytes, want %d", ErrPalette, len(m.Palette), m.PaletteSize())
	}

	return nil
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	c := *m
	if m.Pix != nil {
		c.Pix = append([]byte(nil), m.Pix...)
	}
	if m.Palette != nil {
		c.Palette = append([]byte(nil), m.Palette...)
	}
	return &c
}

func checkAlloc(n int) error {
	if n < 0 || n > MaxBufferSize {
		return fmt.Errorf("%w: %d bytes", ErrMemory, n)
	}
	return nil
}

// Alloc returns a zeroed buffer of n bytes, or ErrMemory if n exceeds
// MaxBufferSize.
func Alloc(n int) ([]byte, error) {
	if err := checkAlloc(n); err != nil {
		return nil, err
	}
	return make([]byte, n), nil
}
