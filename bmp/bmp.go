/*
Package bmp writes a pict.Image as an uncompressed Windows bitmap.

The file is a BITMAPFILEHEADER and BITMAPINFOHEADER followed by the colour
table, if any, and bottom-up rows padded to a multiple of four bytes. Pixels
of 16, 24 and 32 bits are written as they are held, which is already the
order a bitmap expects. Palettes are widened to four bytes per entry.
*/
package bmp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/texconv/pict"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40

	biRGB = 0
)

type fileHeader struct {
	Signature  [2]byte
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32
}

type infoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMeter int32
	YPixelsPerMeter int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// colorTable returns the colour table for m as four bytes per entry.
func colorTable(m *pict.Image) ([]byte, error) {
	switch {
	case m.Indexed():
		return m.PaletteBGRA()
	case m.BitsPerPixel == 8:
		return pict.GrayPalette(), nil
	}
	return nil, nil
}

// rows returns the pixels of m with every row padded to a four byte
// boundary. 4-bit rows are repacked high nibble first.
func rows(m *pict.Image) []byte {
	w, h := int(m.Width), int(m.Height)
	stride := (w*int(m.BitsPerPixel) + 7) >> 3
	padded := (stride + 3) &^ 3

	out := make([]byte, padded*h)
	if m.BitsPerPixel == 4 {
		for y := 0; y < h; y++ {
			row := out[y*padded:]
			for x := 0; x < w; x++ {
				i := y*w + x
				v := m.Pix[i>>1] >> (uint(i&1) << 2) & 0x0f
				row[x>>1] |= v << (uint(x&1^1) << 2)
			}
		}
		return out
	}

	for y := 0; y < h; y++ {
		copy(out[y*padded:y*padded+stride], m.Pix[y*stride:])
	}
	return out
}

// Encode writes m to w as a bitmap. m is reoriented on a copy if needed and
// is never modified.
func Encode(w io.Writer, m *pict.Image) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if m.Orientation != pict.LeftRightDownUp {
		m = m.Clone()
		if err := m.ConvertOrientation(pict.LeftRightDownUp); err != nil {
			return err
		}
	}

	table, err := colorTable(m)
	if err != nil {
		return err
	}
	pix := rows(m)

	offset := fileHeaderSize + infoHeaderSize + len(table)
	fh := fileHeader{
		Signature:  [2]byte{'B', 'M'},
		FileSize:   uint32(offset + len(pix)),
		DataOffset: uint32(offset),
	}
	ih := infoHeader{
		HeaderSize:  infoHeaderSize,
		Width:       int32(m.Width),
		Height:      int32(m.Height),
		Planes:      1,
		BitCount:    uint16(m.BitsPerPixel),
		Compression: biRGB,
		ImageSize:   uint32(len(pix)),
		ColorsUsed:  uint32(len(table) / 4),
	}

	b := new(bytes.Buffer)
	b.Grow(int(fh.FileSize))
	for _, v := range []interface{}{&fh, &ih} {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: %w", pict.ErrOutput, err)
		}
	}
	b.Write(table)
	b.Write(pix)

	if _, err := b.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", pict.ErrOutput, err)
	}

	return nil
}
