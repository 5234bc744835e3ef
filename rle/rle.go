/*
Package rle decodes the packbits-style run-length encoding used by TGA.

Each packet starts with a control byte. If the high bit is clear the packet
is a literal run of (control&0x7f)+1 pixels copied from the stream, otherwise
it is a repeat run of (control&0x7f)+1 copies of the single pixel that follows.
A pixel is a fixed number of bytes wide.
*/
package rle

import "errors"

var (
	// ErrTruncated is returned when the source runs out before the
	// destination has been filled.
	ErrTruncated = errors.New("rle: truncated stream")

	// ErrOverflow is returned when a packet would write past the end of
	// the destination.
	ErrOverflow = errors.New("rle: packet overflows image")

	errPixelSize = errors.New("rle: invalid pixel size")
)

const (
	repeatFlag = 0x80
	countMask  = 0x7f
)

// Decode expands packets from src until dst is exactly full and returns the
// number of source bytes consumed. len(dst) must be a multiple of pixelSize.
func Decode(dst, src []byte, pixelSize int) (int, error) {
	if pixelSize <= 0 || len(dst)%pixelSize != 0 {
		return 0, errPixelSize
	}

	var i, o int
	for o < len(dst) {
		if i >= len(src) {
			return i, ErrTruncated
		}
		control := src[i]
		i++

		n := (int(control&countMask) + 1) * pixelSize
		if o+n > len(dst) {
			return i, ErrOverflow
		}

		if control&repeatFlag == 0 {
			if i+n > len(src) {
				return i, ErrTruncated
			}
			o += copy(dst[o:o+n], src[i:i+n])
			i += n
			continue
		}

		if i+pixelSize > len(src) {
			return i, ErrTruncated
		}
		pixel := src[i : i+pixelSize]
		for end := o + n; o < end; o += pixelSize {
			copy(dst[o:], pixel)
		}
		i += pixelSize
	}

	return i, nil
}

