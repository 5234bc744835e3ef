package tim2

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/texconv/pict"
	"github.com/gravestench/bitstream"
)

const (
	fileHeaderSize    = 16
	pictureHeaderSize = 48

	formatVersion = 4

	clutSelectorMask = 0x1f
)

var (
	magicTIM2 = [4]byte{'T', 'I', 'M', '2'}
	magicCLT2 = [4]byte{'C', 'L', 'T', '2'}
)

// depths maps the image and CLUT type selectors to bits per entry.
var depths = [...]uint8{0, 16, 24, 32, 4, 8}

func depth(selector uint8) (uint8, error) {
	if int(selector) >= len(depths) {
		return 0, fmt.Errorf("%w: type selector %d", pict.ErrHeader, selector)
	}
	return depths[selector], nil
}

func selector(bits uint8) (uint8, bool) {
	for i, d := range depths {
		if d == bits && bits != 0 {
			return uint8(i), true
		}
	}
	return 0, false
}

// FileHeader is the 16 byte header at the start of a TIM2 file.
type FileHeader struct {
	Magic    [4]byte
	Version  uint8
	FormatID uint8
	Pictures uint16
	_        [8]byte
}

// Validate returns an error wrapping pict.ErrHeader unless h describes a
// single picture TIM2 file.
func (h *FileHeader) Validate() error {
	switch h.Magic {
	case magicTIM2:
	case magicCLT2:
		return fmt.Errorf("%w: CLT2 files are not supported", pict.ErrHeader)
	default:
		return fmt.Errorf("%w: bad magic %q", pict.ErrHeader, h.Magic[:])
	}
	if h.Version != formatVersion {
		return fmt.Errorf("%w: version %d", pict.ErrHeader, h.Version)
	}
	if h.Pictures != 1 {
		return fmt.Errorf("%w: %d pictures", pict.ErrHeader, h.Pictures)
	}
	return nil
}

// PictureHeader describes one picture. The GS fields are register values
// for the PS2 graphics synthesizer and are only ever copied.
type PictureHeader struct {
	TotalSize  uint32
	ClutSize   uint32
	ImageSize  uint32
	HeaderSize uint16
	ClutColors uint16
	PictFormat uint8
	MipMaps    uint8
	ClutType   uint8
	ImageType  uint8
	Width      uint16
	Height     uint16
	GsTex0     uint64
	GsTex1     uint64
	GsRegs     uint32
	GsTexClut  uint32
}

func decodeFileHeader(stream *bitstream.Reader) (*FileHeader, error) {
	const (
		magicBytes    = 4
		versionBytes  = 1
		formatBytes   = 1
		picturesBytes = 2
		reservedBytes = 8
	)

	h := new(FileHeader)

	magic, err := stream.Next(magicBytes).Bytes().AsBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pict.ErrHeader, err)
	}
	copy(h.Magic[:], magic)

	// errors are checked once the reserved bytes have been skipped
	h.Version, _ = stream.Next(versionBytes).Bytes().AsByte()
	h.FormatID, _ = stream.Next(formatBytes).Bytes().AsByte()
	h.Pictures, _ = stream.Next(picturesBytes).Bytes().AsUInt16()

	if res := stream.Next(reservedBytes).Bytes(); res.Error != nil {
		return nil, fmt.Errorf("%w: %w", pict.ErrHeader, res.Error)
	}

	return h, nil
}

func decodePictureHeader(stream *bitstream.Reader) (*PictureHeader, error) {
	const (
		sizeBytes  = 4
		shortBytes = 2
		typeBytes  = 1
		gsTexBytes = 8
		gsRegBytes = 4
	)

	h := new(PictureHeader)

	total, _ := stream.Next(sizeBytes).Bytes().AsInt32()
	clut, _ := stream.Next(sizeBytes).Bytes().AsInt32()
	img, _ := stream.Next(sizeBytes).Bytes().AsInt32()
	h.TotalSize, h.ClutSize, h.ImageSize = uint32(total), uint32(clut), uint32(img)

	h.HeaderSize, _ = stream.Next(shortBytes).Bytes().AsUInt16()
	h.ClutColors, _ = stream.Next(shortBytes).Bytes().AsUInt16()

	h.PictFormat, _ = stream.Next(typeBytes).Bytes().AsByte()
	h.MipMaps, _ = stream.Next(typeBytes).Bytes().AsByte()
	h.ClutType, _ = stream.Next(typeBytes).Bytes().AsByte()
	h.ImageType, _ = stream.Next(typeBytes).Bytes().AsByte()

	h.Width, _ = stream.Next(shortBytes).Bytes().AsUInt16()
	h.Height, _ = stream.Next(shortBytes).Bytes().AsUInt16()

	tex0, _ := stream.Next(gsTexBytes).Bytes().AsBytes()
	tex1, _ := stream.Next(gsTexBytes).Bytes().AsBytes()
	regs, _ := stream.Next(gsRegBytes).Bytes().AsInt32()
	texClut, err := stream.Next(gsRegBytes).Bytes().AsInt32()
	if err != nil || len(tex0) != gsTexBytes || len(tex1) != gsTexBytes {
		return nil, fmt.Errorf("%w: picture header truncated", pict.ErrHeader)
	}

	h.GsTex0 = binary.LittleEndian.Uint64(tex0)
	h.GsTex1 = binary.LittleEndian.Uint64(tex1)
	h.GsRegs, h.GsTexClut = uint32(regs), uint32(texClut)

	return h, nil
}

// decodeHeaders parses and validates both headers at the start of b.
func decodeHeaders(b []byte) (*FileHeader, *PictureHeader, error) {
	if len(b) < fileHeaderSize+pictureHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is too short for a header", pict.ErrHeader, len(b))
	}

	stream := bitstream.ReaderFromBytes(b...)

	fh, err := decodeFileHeader(stream)
	if err != nil {
		return nil, nil, err
	}
	if err := fh.Validate(); err != nil {
		return nil, nil, err
	}

	ph, err := decodePictureHeader(stream)
	if err != nil {
		return nil, nil, err
	}
	if ph.HeaderSize < pictureHeaderSize {
		return nil, nil, fmt.Errorf("%w: picture header size %d", pict.ErrHeader, ph.HeaderSize)
	}

	return fh, ph, nil
}

// picture returns an Image with the geometry and depths described by h but
// no buffers.
func (h *PictureHeader) picture() (*pict.Image, error) {
	bits, err := depth(h.ImageType)
	if err != nil {
		return nil, err
	}
	if bits == 0 {
		return nil, fmt.Errorf("%w: no image data", pict.ErrHeader)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", pict.ErrHeader, h.Width, h.Height)
	}

	m := &pict.Image{
		Width:        h.Width,
		Height:       h.Height,
		BitsPerPixel: bits,
		Orientation:  pict.LeftRightUpDown,
	}
	if bits > 8 {
		return m, nil
	}

	paletteBits, err := depth(h.ClutType & clutSelectorMask)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pict.ErrPalette, err)
	}
	switch {
	case h.ClutColors == 0:
		return nil, fmt.Errorf("%w: no colours", pict.ErrPalette)
	case h.ClutColors > 256:
		return nil, fmt.Errorf("%w: %d colours", pict.ErrPalette, h.ClutColors)
	}
	switch paletteBits {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per entry", pict.ErrPalette, paletteBits)
	}

	m.PaletteColors = h.ClutColors
	m.PaletteBitsPerPixel = paletteBits

	return m, nil
}

func marshal(v ...interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	for _, x := range v {
		if err := binary.Write(b, binary.LittleEndian, x); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}
