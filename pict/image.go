package pict

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/texconv/mask"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	smallPalette = 16
	largePalette = 256
)

// bgraPalette converts packed B, G, R, A entries to a palette of n colours,
// padding with transparent black.
func bgraPalette(bgra []byte, n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		if i*4+4 > len(bgra) {
			p[i] = color.NRGBA{}
			continue
		}
		e := bgra[i*4 : i*4+4]
		p[i] = color.NRGBA{R: e[2], G: e[1], B: e[0], A: e[3]}
	}
	return p
}

// ColorModel returns the color model of the image that Image would return.
func (m *Image) ColorModel() color.Model {
	switch {
	case m.Indexed():
		bgra, err := m.PaletteBGRA()
		if err != nil {
			return color.Palette{}
		}
		return bgraPalette(bgra, int(m.PaletteColors))
	case m.BitsPerPixel == 8:
		return color.GrayModel
	}
	return color.NRGBAModel
}

// Image returns m as a standard library image. Indexed pictures become an
// *image.Paletted, 8-bit pictures without a palette an *image.Gray and
// everything else an *image.NRGBA, with palettes and 16-bit pixels widened
// the same way as PaletteBGRA. m must be stored left to right, top to
// bottom, and its channels must be in BGR(A) order.
func (m *Image) Image() (image.Image, error) {
	if m.Orientation != LeftRightUpDown {
		return nil, fmt.Errorf("%w: orientation %s, want %s", ErrConvert, m.Orientation, LeftRightUpDown)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	w, h := int(m.Width), int(m.Height)
	r := image.Rect(0, 0, w, h)

	if m.Indexed() {
		bgra, err := m.PaletteBGRA()
		if err != nil {
			return nil, err
		}

		dst := image.NewPaletted(r, nil)
		if m.BitsPerPixel == 4 {
			for i, b := range m.Pix {
				dst.Pix[i*2], dst.Pix[i*2+1] = b&0x0f, b>>4
			}
		} else {
			copy(dst.Pix, m.Pix)
		}

		var max uint8
		for _, c := range dst.Pix {
			if c > max {
				max = c
			}
		}
		n := int(m.PaletteColors)
		if int(max) >= n {
			n = int(max) + 1
		}
		dst.Palette = bgraPalette(bgra, n)

		return dst, nil
	}

	if m.BitsPerPixel == 8 {
		dst := image.NewGray(r)
		copy(dst.Pix, m.Pix)
		return dst, nil
	}

	dst := image.NewNRGBA(r)
	size := int(m.BitsPerPixel) >> 3
	for i, o := 0, 0; i < len(m.Pix); i, o = i+size, o+4 {
		px := dst.Pix[o : o+4]
		switch size {
		case 2:
			a, r, g, b := mask.Expand5551(binary.LittleEndian.Uint16(m.Pix[i:]))
			px[0], px[1], px[2], px[3] = r, g, b, a
		case 3:
			px[0], px[1], px[2], px[3] = m.Pix[i+2], m.Pix[i+1], m.Pix[i], opaque
		case 4:
			a, r, g, b := mask.Unpack8888(binary.LittleEndian.Uint32(m.Pix[i:]))
			px[0], px[1], px[2], px[3] = r, g, b, a
		}
	}

	return dst, nil
}

// FromImage builds a picture from a standard library image, stored left to
// right, top to bottom, in BGR(A) order. With colors set to zero the result
// is 32-bit truecolor. Otherwise it is 8-bit indexed with a 32-bit palette of
// 16 or 256 entries; an *image.Paletted source with no more than colors
// entries keeps its own palette, anything else is reduced with a median cut
// quantizer.
func FromImage(src image.Image, colors int) (*Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || b.Dx() > 0xffff || b.Dy() > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d", ErrImage, b.Dx(), b.Dy())
	}
	if colors < 0 || colors > largePalette {
		return nil, fmt.Errorf("%w: cannot reduce to %d colours", ErrConvert, colors)
	}

	m := &Image{
		Width:       uint16(b.Dx()),
		Height:      uint16(b.Dy()),
		Orientation: LeftRightUpDown,
	}

	if colors == 0 {
		m.BitsPerPixel = 32
		m.AlphaBits = 8
		pix, err := Alloc(m.ImageSize())
		if err != nil {
			return nil, err
		}
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				pix[i], pix[i+1], pix[i+2], pix[i+3] = c.B, c.G, c.R, c.A
				i += 4
			}
		}
		m.Pix = pix
		return m, nil
	}

	pm, _ := src.(*image.Paletted)
	if pm == nil || len(pm.Palette) > colors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), src))
		draw.Draw(pm, b, src, b.Min, draw.Src)
	}

	n := smallPalette
	if len(pm.Palette) > smallPalette {
		n = largePalette
	}

	m.BitsPerPixel = 8
	m.PaletteBitsPerPixel = 32
	m.PaletteColors = uint16(n)
	m.Palette = make([]byte, n*4)
	for i, c := range pm.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		copy(m.Palette[i*4:], []byte{nc.B, nc.G, nc.R, nc.A})
	}

	pix, err := Alloc(m.ImageSize())
	if err != nil {
		return nil, err
	}
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		o := pm.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w:(y+1)*w], pm.Pix[o:o+w])
	}
	m.Pix = pix

	return m, nil
}
