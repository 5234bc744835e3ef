package pict

import "fmt"

// Orientation is the order scanlines and pixels are stored in, encoded the
// same way as bits 4 and 5 of a TGA image descriptor.
type Orientation uint8

// Bit 4 set means pixels run right to left, bit 5 set means scanlines run
// top to bottom.
const (
	LeftRightDownUp Orientation = 0x00
	RightLeftDownUp Orientation = 0x10
	LeftRightUpDown Orientation = 0x20
	RightLeftUpDown Orientation = 0x30

	// OrientationMask selects the orientation bits of a descriptor byte.
	OrientationMask = 0x30

	flipX = 0x10
	flipY = 0x20
)

var orientationNames = map[Orientation]string{
	LeftRightDownUp: "lrdu",
	RightLeftDownUp: "rldu",
	LeftRightUpDown: "lrud",
	RightLeftUpDown: "rlud",
}

// Valid reports whether o is one of the four orientations.
func (o Orientation) Valid() bool {
	return o&^OrientationMask == 0
}

func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Orientation(%#02x)", uint8(o))
}

// ParseOrientation is the inverse of Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown orientation %q", ErrConvert, s)
}

// ConvertOrientation reorders the pixels of m so they are stored in
// orientation o. The palette is left alone. Nothing is copied when m is
// already in orientation o.
func (m *Image) ConvertOrientation(o Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("%w: orientation %#02x", ErrConvert, uint8(o))
	}
	if len(m.Pix) == 0 {
		return fmt.Errorf("%w: no pixel data", ErrImage)
	}

	diff := m.Orientation ^ o
	if diff == 0 {
		return nil
	}

	switch m.BitsPerPixel {
	case 4, 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrConvert, m.BitsPerPixel)
	}
	if len(m.Pix) != m.ImageSize() {
		return fmt.Errorf("%w: have %d pixel bytes, want %d", ErrConvert, len(m.Pix), m.ImageSize())
	}

	w, h := int(m.Width), int(m.Height)
	pix := make([]byte, len(m.Pix))

	source := func(x, y int) int {
		if diff&flipY != 0 {
			y = h - 1 - y
		}
		if diff&flipX != 0 {
			x = w - 1 - x
		}
		return y*w + x
	}

	if m.BitsPerPixel == 4 {
		d := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				s := source(x, y)
				v := m.Pix[s>>1] >> (uint(s&1) << 2) & 0x0f
				pix[d>>1] |= v << (uint(d&1) << 2)
				d++
			}
		}
	} else {
		size := int(m.BitsPerPixel) >> 3
		d := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				s := source(x, y) * size
				d += copy(pix[d:d+size], m.Pix[s:s+size])
			}
		}
	}

	m.Pix = pix
	m.Orientation = o

	return nil
}
