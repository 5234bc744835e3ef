package tim2

import (
	"fmt"
	"image"
	"io"

	"github.com/bodgit/texconv/pict"
)

func init() {
	image.RegisterFormat("tim2", string(magicTIM2[:]), Decode, DecodeConfig)
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads a TIM2 image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m, _, err := Load(b)
	if err != nil {
		return nil, err
	}
	if err := Normalize(m); err != nil {
		return nil, err
	}

	return m.Image()
}

// DecodeConfig returns the color model and dimensions of a TIM2 image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var tmp [fileHeaderSize + pictureHeaderSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		return image.Config{}, fmt.Errorf("%w: %w", pict.ErrHeader, err)
	}

	_, ph, err := decodeHeaders(tmp[:])
	if err != nil {
		return image.Config{}, err
	}

	m, err := ph.picture()
	if err != nil {
		return image.Config{}, err
	}

	if m.PaletteColors > 0 {
		skip := int64(ph.HeaderSize) - pictureHeaderSize + int64(ph.ImageSize)
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return image.Config{}, fmt.Errorf("%w: %w", pict.ErrImage, err)
		}
		palette, err := pict.Alloc(m.PaletteSize())
		if err != nil {
			return image.Config{}, err
		}
		if err := readFull(r, palette); err != nil {
			return image.Config{}, fmt.Errorf("%w: %w", pict.ErrPalette, err)
		}
		m.Palette = palette
		if err := Normalize(m); err != nil {
			return image.Config{}, err
		}
	}

	return image.Config{
		ColorModel: m.ColorModel(),
		Width:      int(ph.Width),
		Height:     int(ph.Height),
	}, nil
}
