package bmp

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/texconv/pict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"
)

func encode(t *testing.T, m *pict.Image) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	return b.Bytes()
}

func headers(t *testing.T, b []byte) (fileHeader, infoHeader) {
	t.Helper()
	var (
		fh fileHeader
		ih infoHeader
	)
	r := bytes.NewReader(b)
	require.NoError(t, binary.Read(r, binary.LittleEndian, &fh))
	require.NoError(t, binary.Read(r, binary.LittleEndian, &ih))
	return fh, ih
}

func TestTruecolor(t *testing.T) {
	// Top row first
	m := &pict.Image{
		Pix: []byte{
			0x00, 0x00, 0xff, 0x00, 0xff, 0x00,
			0xff, 0x00, 0x00, 0x10, 0x20, 0x30,
		},
		Width:        2,
		Height:       2,
		BitsPerPixel: 24,
		Orientation:  pict.LeftRightUpDown,
	}
	orig := m.Clone()

	b := encode(t, m)
	assert.Equal(t, orig, m)

	fh, ih := headers(t, b)
	assert.Equal(t, [2]byte{'B', 'M'}, fh.Signature)
	assert.Equal(t, uint32(len(b)), fh.FileSize)
	assert.Equal(t, uint32(fileHeaderSize+infoHeaderSize), fh.DataOffset)
	assert.Equal(t, uint16(24), ih.BitCount)
	assert.Equal(t, uint32(16), ih.ImageSize)
	assert.Equal(t, uint32(0), ih.ColorsUsed)

	// Bottom row first, each padded from 6 to 8 bytes
	assert.Equal(t, []byte{
		0xff, 0x00, 0x00, 0x10, 0x20, 0x30, 0, 0,
		0x00, 0x00, 0xff, 0x00, 0xff, 0x00, 0, 0,
	}, b[fh.DataOffset:])

	img, err := xbmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	want := []color.Color{
		color.RGBA{R: 0xff, A: 0xff}, color.RGBA{G: 0xff, A: 0xff},
		color.RGBA{B: 0xff, A: 0xff}, color.RGBA{R: 0x30, G: 0x20, B: 0x10, A: 0xff},
	}
	for i, c := range want {
		r1, g1, b1, a1 := c.RGBA()
		r2, g2, b2, a2 := img.At(i%2, i/2).RGBA()
		assert.Equal(t, []uint32{r1, g1, b1, a1}, []uint32{r2, g2, b2, a2}, "pixel %d", i)
	}
}

func TestThirtyTwoBit(t *testing.T) {
	m := &pict.Image{
		Pix:          []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff},
		Width:        1,
		Height:       2,
		BitsPerPixel: 32,
		Orientation:  pict.LeftRightDownUp,
	}

	b := encode(t, m)
	fh, _ := headers(t, b)
	assert.Equal(t, m.Pix, b[fh.DataOffset:])

	img, err := xbmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	r, g, bl, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0x0606, 0x0505, 0x0404}, []uint32{r, g, bl})
}

func TestIndexed(t *testing.T) {
	palette := make([]byte, 16*4)
	copy(palette, []byte{0x10, 0x20, 0x30, 0xff, 0x40, 0x50, 0x60, 0xff})
	m := &pict.Image{
		Pix:                 []byte{0, 1, 1, 0},
		Palette:             palette,
		Width:               4,
		Height:              1,
		BitsPerPixel:        8,
		PaletteBitsPerPixel: 32,
		PaletteColors:       16,
		Orientation:         pict.LeftRightUpDown,
	}

	b := encode(t, m)
	fh, ih := headers(t, b)
	assert.Equal(t, uint32(16), ih.ColorsUsed)
	assert.Equal(t, uint32(fileHeaderSize+infoHeaderSize+64), fh.DataOffset)
	assert.Equal(t, palette, b[fileHeaderSize+infoHeaderSize:fh.DataOffset])

	img, err := xbmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	p, ok := img.(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 1, 1, 0}, p.Pix)
	assert.Equal(t, color.RGBA{R: 0x60, G: 0x50, B: 0x40, A: 0xff}, p.Palette[1])
}

func TestSixteenBitPalette(t *testing.T) {
	m := &pict.Image{
		Pix:                 []byte{0, 1, 1, 0},
		Palette:             []byte{0x1f, 0x80, 0xe0, 0x03},
		Width:               2,
		Height:              2,
		BitsPerPixel:        8,
		PaletteBitsPerPixel: 16,
		PaletteColors:       2,
		Orientation:         pict.LeftRightUpDown,
	}

	b := encode(t, m)
	assert.Equal(t, []byte{0xf8, 0, 0, 0xff, 0, 0xf8, 0, 0}, b[fileHeaderSize+infoHeaderSize:fileHeaderSize+infoHeaderSize+8])
}

func TestGray(t *testing.T) {
	m := &pict.Image{
		Pix:          []byte{0x00, 0x80, 0xff},
		Width:        3,
		Height:       1,
		BitsPerPixel: 8,
		Orientation:  pict.LeftRightUpDown,
	}

	b := encode(t, m)
	_, ih := headers(t, b)
	assert.Equal(t, uint32(256), ih.ColorsUsed)

	img, err := xbmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	for x, v := range m.Pix {
		r, g, bl, _ := img.At(x, 0).RGBA()
		want := uint32(v) * 0x101
		assert.Equal(t, []uint32{want, want, want}, []uint32{r, g, bl})
	}
}

func TestSixteenBit(t *testing.T) {
	m := &pict.Image{
		Pix:          []byte{0x1f, 0x80, 0xe0, 0x03, 0x00, 0x7c},
		Width:        3,
		Height:       1,
		BitsPerPixel: 16,
		Orientation:  pict.LeftRightUpDown,
	}

	b := encode(t, m)
	fh, ih := headers(t, b)
	assert.Equal(t, uint16(16), ih.BitCount)
	assert.Equal(t, append(append([]byte(nil), m.Pix...), 0, 0), b[fh.DataOffset:])
}

func TestFourBit(t *testing.T) {
	m := &pict.Image{
		Pix:                 []byte{0x21, 0x43, 0x65},
		Palette:             make([]byte, 16*3),
		Width:               3,
		Height:              2,
		BitsPerPixel:        4,
		PaletteBitsPerPixel: 24,
		PaletteColors:       16,
		Orientation:         pict.LeftRightDownUp,
	}

	b := encode(t, m)
	fh, ih := headers(t, b)
	assert.Equal(t, uint16(4), ih.BitCount)
	assert.Equal(t, []byte{
		0x12, 0x30, 0, 0,
		0x45, 0x60, 0, 0,
	}, b[fh.DataOffset:])
}

func TestEncodeErrors(t *testing.T) {
	m := &pict.Image{Width: 1, Height: 1, BitsPerPixel: 24}
	assert.ErrorIs(t, Encode(new(bytes.Buffer), m), pict.ErrImage)

	m = &pict.Image{
		Pix:                 []byte{0},
		Palette:             make([]byte, 3),
		Width:               1,
		Height:              1,
		BitsPerPixel:        8,
		PaletteBitsPerPixel: 24,
		PaletteColors:       2,
	}
	assert.ErrorIs(t, Encode(new(bytes.Buffer), m), pict.ErrPalette)
}
