package tga

import (
	"fmt"
	"image"
	"io"

	"github.com/bodgit/texconv/pict"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads a TGA image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m, _, err := Load(b)
	if err != nil {
		return nil, err
	}
	if err := m.ConvertOrientation(pict.LeftRightUpDown); err != nil {
		return nil, err
	}

	return m.Image()
}

// DecodeConfig returns the color model and dimensions of a TGA image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var tmp [headerSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		return image.Config{}, fmt.Errorf("%w: %w", pict.ErrHeader, err)
	}

	var h Header
	if err := h.UnmarshalBinary(tmp[:]); err != nil {
		return image.Config{}, err
	}
	if err := h.Validate(); err != nil {
		return image.Config{}, err
	}

	m := &pict.Image{
		Width:        h.Width,
		Height:       h.Height,
		BitsPerPixel: h.BitsPerPixel,
	}

	if n := h.PaletteSize(); n > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.IDLength)); err != nil {
			return image.Config{}, fmt.Errorf("%w: %w", pict.ErrHeader, err)
		}
		palette, err := pict.Alloc(n)
		if err != nil {
			return image.Config{}, err
		}
		if err := readFull(r, palette); err != nil {
			return image.Config{}, fmt.Errorf("%w: %w", pict.ErrPalette, err)
		}
		m.Palette = palette
		m.PaletteColors = h.PaletteColors
		m.PaletteBitsPerPixel = h.PaletteBits
	}

	return image.Config{
		ColorModel: m.ColorModel(),
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Encode writes the Image m to w in TGA format. Paletted images with no more
// than 256 colours are written colour mapped, everything else as 32-bit
// truecolor.
func Encode(w io.Writer, m image.Image) error {
	colors := 0
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= 256 {
		colors = 256
	}

	p, err := pict.FromImage(m, colors)
	if err != nil {
		return err
	}

	return Save(w, p, nil)
}
