package tga

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/texconv/pict"
)

const (
	headerSize = 18
	footerSize = 26

	signaturePrefix = "TRUEVISION-"
)

// Image types. Adding rleFlag gives the run-length encoded variant.
const (
	typeColorMapped = 1
	typeTrueColor   = 2
	typeGrayscale   = 3

	rleFlag = 8
)

const descriptorAlphaMask = 0x0f

// Header is the fixed 18 byte header at the start of every TGA file. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type Header struct {
	IDLength      uint8
	PaletteType   uint8
	ImageType     uint8
	PaletteIndex  uint16
	PaletteColors uint16
	PaletteBits   uint8
	X             uint16
	Y             uint16
	Width         uint16
	Height        uint16
	BitsPerPixel  uint8
	Descriptor    uint8
}

// MarshalBinary encodes the header into binary form and returns the result
func (h *Header) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the header from the first 18 bytes of b
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return fmt.Errorf("%w: %d bytes is too short for a header", pict.ErrHeader, len(b))
	}
	return binary.Read(bytes.NewReader(b[:headerSize]), binary.LittleEndian, h)
}

// Compressed reports whether the pixel data is run-length encoded.
func (h *Header) Compressed() bool {
	return h.ImageType&rleFlag != 0
}

func (h *Header) colorMapped() bool {
	return h.ImageType&^rleFlag == typeColorMapped
}

// ImageSize returns the number of bytes of uncompressed pixel data.
func (h *Header) ImageSize() int {
	return int(h.Width) * int(h.Height) * int(h.BitsPerPixel>>3)
}

// PaletteSize returns the number of bytes of palette data, zero if there is
// no palette.
func (h *Header) PaletteSize() int {
	return int(h.PaletteType) * int(h.PaletteColors) * int(h.PaletteBits>>3)
}

// Validate returns an error wrapping pict.ErrHeader if h describes an image
// that cannot be decoded.
func (h *Header) Validate() error {
	if h.X != 0 && h.Y != 0 {
		return fmt.Errorf("%w: origin %d,%d", pict.ErrHeader, h.X, h.Y)
	}

	switch h.ImageType {
	case typeColorMapped, typeTrueColor, typeGrayscale:
	case typeColorMapped | rleFlag, typeTrueColor | rleFlag, typeGrayscale | rleFlag:
	default:
		return fmt.Errorf("%w: image type %d", pict.ErrHeader, h.ImageType)
	}

	switch h.BitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", pict.ErrHeader, h.BitsPerPixel)
	}

	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: %dx%d", pict.ErrHeader, h.Width, h.Height)
	}

	switch h.PaletteType {
	case 0:
	case 1:
		if h.PaletteIndex != 0 {
			return fmt.Errorf("%w: palette starts at %d", pict.ErrHeader, h.PaletteIndex)
		}
		if h.PaletteBits != 24 && h.PaletteBits != 32 {
			return fmt.Errorf("%w: %d bits per palette entry", pict.ErrHeader, h.PaletteBits)
		}
	default:
		return fmt.Errorf("%w: palette type %d", pict.ErrHeader, h.PaletteType)
	}

	if h.colorMapped() && h.BitsPerPixel != 8 {
		return fmt.Errorf("%w: %d bits per index", pict.ErrHeader, h.BitsPerPixel)
	}

	return nil
}

// Footer is the optional 26 byte trailer of a TGA file. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Footer struct {
	ExtensionOffset uint32
	DeveloperOffset uint32
	Signature       [18]byte
}

// NewFooter returns a footer with no extension or developer area.
func NewFooter() *Footer {
	f := new(Footer)
	copy(f.Signature[:], "TRUEVISION-TARGA")
	return f
}

// Valid reports whether the footer carries a Truevision signature.
func (f *Footer) Valid() bool {
	return bytes.HasPrefix(f.Signature[:], []byte(signaturePrefix))
}

// MarshalBinary encodes the footer into binary form and returns the result
func (f *Footer) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, f); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the footer from the first 26 bytes of b
func (f *Footer) UnmarshalBinary(b []byte) error {
	if len(b) < footerSize {
		return fmt.Errorf("%w: %d bytes is too short for a footer", pict.ErrHeader, len(b))
	}
	return binary.Read(bytes.NewReader(b[:footerSize]), binary.LittleEndian, f)
}
