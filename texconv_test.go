package texconv

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/texconv/pict"
	"github.com/bodgit/texconv/tga"
	"github.com/stretchr/testify/require"
)

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func truecolor(w, h uint16) *pict.Image {
	m := &pict.Image{
		Width:        w,
		Height:       h,
		BitsPerPixel: 32,
		Orientation:  pict.LeftRightUpDown,
	}
	m.Pix = make([]byte, m.ImageSize())
	for i := range m.Pix {
		m.Pix[i] = byte(i * 3)
	}
	return m
}

func indexed(w, h uint16) *pict.Image {
	m := &pict.Image{
		Width:               w,
		Height:              h,
		BitsPerPixel:        8,
		PaletteBitsPerPixel: 32,
		PaletteColors:       256,
		Orientation:         pict.LeftRightUpDown,
	}
	m.Pix = make([]byte, m.ImageSize())
	for i := range m.Pix {
		m.Pix[i] = byte(i * 13)
	}
	m.Palette = make([]byte, m.PaletteSize())
	for i := range m.Palette {
		m.Palette[i] = byte(i * 7)
	}
	return m
}

func writeTexture(t *testing.T, file string, tex *Texture, f Format) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, tex.Encode(buf, f))
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o777))
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o666))
	return buf.Bytes()
}

func writeTGA(t *testing.T, file string, m *pict.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, tga.Save(buf, m, nil))
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o777))
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o666))
	return buf.Bytes()
}
