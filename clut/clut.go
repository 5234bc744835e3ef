/*
Package clut converts TIM2 colour lookup tables between the block order the
PS2 GS expects and plain linear order.

Within every run of 32 entries the second and third groups of eight entries
are stored swapped, so entries 8-15 live where 16-23 would be and vice versa.
Swapping them again restores the original order, so the same transform is
used in both directions. Tables of exactly 16 colours are stored linearly.
*/
package clut

import (
	"errors"
	"fmt"
)

var (
	errBits   = errors.New("clut: unsupported entry size")
	errLength = errors.New("clut: table shorter than colour count")
)

const (
	linearColors    = 16
	entriesPerGroup = 8 // four groups make one cycle
)

// EntrySize returns the number of bytes per entry for the given bit depth,
// or an error if the depth is not 16, 24 or 32.
func EntrySize(bits int) (int, error) {
	switch bits {
	case 16, 24, 32:
		return bits >> 3, nil
	}
	return 0, fmt.Errorf("%w: %d bits", errBits, bits)
}

// Offsets returns, for each of the colors entries in linear order, the byte
// offset of that entry in the stored table.
func Offsets(bits, colors int) ([]int, error) {
	size, err := EntrySize(bits)
	if err != nil {
		return nil, err
	}

	var (
		offsets = make([]int, colors)
		cycle   = size * entriesPerGroup * 4
		quarter = cycle / 4
		offset  int
		bcnt    int
	)

	for i := range offsets {
		offsets[i] = offset
		offset += size
		bcnt += size

		if colors == linearColors {
			continue
		}

		switch bcnt {
		case quarter:
			offset += quarter
		case quarter * 2:
			offset -= quarter * 2
		case quarter * 3:
			offset += quarter
		case cycle:
			bcnt = 0
		}
	}

	return offsets, nil
}

// Check returns an error unless a table of length n can hold colors entries
// of the given depth in the stored layout.
func Check(n, bits, colors int) error {
	offsets, err := Offsets(bits, colors)
	if err != nil {
		return err
	}
	size := bits >> 3
	for _, o := range offsets {
		if o+size > n {
			return fmt.Errorf("%w: need %d bytes, have %d", errLength, o+size, n)
		}
	}
	return nil
}

// Descramble returns a copy of p with the entry order toggled between stored
// and linear layout. Applying it to its own output restores p.
func Descramble(p []byte, bits, colors int) ([]byte, error) {
	if err := Check(len(p), bits, colors); err != nil {
		return nil, err
	}

	offsets, _ := Offsets(bits, colors)
	size := bits >> 3
	out := make([]byte, len(p))
	copy(out, p)
	for i, o := range offsets {
		copy(out[i*size:(i+1)*size], p[o:o+size])
	}

	return out, nil
}
