package pict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteBGRA(t *testing.T) {
	tables := []struct {
		name    string
		bits    uint8
		palette []byte
		want    []byte
	}{
		{"16 bit", 16, []byte{0x1f, 0x80, 0xe0, 0x7f}, []byte{0xf8, 0x00, 0x00, 0xff, 0x00, 0xf8, 0xf8, 0x00}},
		{"24 bit", 24, []byte{1, 2, 3, 4, 5, 6}, []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff}},
		{"32 bit", 32, []byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := &Image{PaletteBitsPerPixel: table.bits, PaletteColors: 2, Palette: table.palette}
			got, err := m.PaletteBGRA()
			require.NoError(t, err)
			assert.Equal(t, table.want, got)
		})
	}
}

func TestPaletteBGRAErrors(t *testing.T) {
	m := newTruecolor(2, 2, 32)
	_, err := m.PaletteBGRA()
	assert.ErrorIs(t, err, ErrPalette)

	m = newIndexed(2, 2, 8, 24, 16)
	m.Palette = m.Palette[:10]
	_, err = m.PaletteBGRA()
	assert.ErrorIs(t, err, ErrPalette)

	m = newIndexed(2, 2, 8, 24, 16)
	m.PaletteBitsPerPixel = 8
	_, err = m.PaletteBGRA()
	assert.ErrorIs(t, err, ErrPalette)
}

func TestPromote(t *testing.T) {
	m := newIndexed(2, 2, 4, 24, 16)
	m.Pix = []byte{0x10, 0x32}

	require.NoError(t, m.Promote())
	assert.Equal(t, uint8(8), m.BitsPerPixel)
	assert.Equal(t, []byte{0, 1, 2, 3}, m.Pix)
	assert.Equal(t, uint8(32), m.PaletteBitsPerPixel)
	assert.Len(t, m.Palette, 64)
	assert.Equal(t, []byte{21, 28, 35, 0xff}, m.Palette[4:8])
	assert.NoError(t, m.Validate())

	// Already promoted
	c := m.Clone()
	require.NoError(t, m.Promote())
	assert.Equal(t, c, m)

	// Truecolor pictures are left alone
	m = newTruecolor(2, 2, 16)
	c = m.Clone()
	require.NoError(t, m.Promote())
	assert.Equal(t, c, m)
}

func TestPromoteAtomic(t *testing.T) {
	m := newIndexed(2, 2, 4, 24, 16)
	m.Palette = m.Palette[:9]
	c := m.Clone()

	assert.ErrorIs(t, m.Promote(), ErrPalette)
	assert.Equal(t, c, m)
}

func TestGrayPalette(t *testing.T) {
	p := GrayPalette()
	assert.Len(t, p, 1024)
	assert.Equal(t, []byte{0, 0, 0, 0xff}, p[:4])
	assert.Equal(t, []byte{0x80, 0x80, 0x80, 0xff}, p[0x80*4:0x81*4])
}

func TestPadPalette(t *testing.T) {
	m := newIndexed(2, 2, 8, 24, 4)
	m.Pix = []byte{0, 1, 2, 3}
	orig := append([]byte(nil), m.Palette...)

	require.NoError(t, m.PadPalette(16))
	assert.Equal(t, uint16(16), m.PaletteColors)
	assert.Len(t, m.Palette, 16*3)
	assert.Equal(t, orig, m.Palette[:len(orig)])
	assert.Equal(t, make([]byte, 12*3), m.Palette[len(orig):])
	assert.NoError(t, m.Validate())

	require.NoError(t, m.PadPalette(16))
	assert.Equal(t, uint16(16), m.PaletteColors)

	assert.ErrorIs(t, m.PadPalette(8), ErrConvert)
	assert.ErrorIs(t, m.PadPalette(257), ErrConvert)

	m.Palette = m.Palette[1:]
	assert.ErrorIs(t, m.PadPalette(256), ErrPalette)

	assert.ErrorIs(t, newTruecolor(2, 2, 32).PadPalette(16), ErrPalette)
}
