package texconv

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bodgit/texconv/pict"
	"github.com/bodgit/texconv/tga"
)

// Format identifies a file format.
type Format int

// Formats that can be read. Only TGA, TIM2 and BMP can be written.
const (
	FormatUnknown Format = iota
	FormatTGA
	FormatTIM2
	FormatBMP
	FormatPNG
	FormatGIF
	FormatJPEG
)

var formatNames = map[Format]string{
	FormatTGA:  "tga",
	FormatTIM2: "tim2",
	FormatBMP:  "bmp",
	FormatPNG:  "png",
	FormatGIF:  "gif",
	FormatJPEG: "jpeg",
}

var extensions = map[string]Format{
	".tga":  FormatTGA,
	".tm2":  FormatTIM2,
	".tim2": FormatTIM2,
	".bmp":  FormatBMP,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
}

var signatures = []struct {
	magic  string
	format Format
}{
	{"TIM2", FormatTIM2},
	{"\x89PNG\r\n\x1a\n", FormatPNG},
	{"GIF8", FormatGIF},
	{"\xff\xd8", FormatJPEG},
	{"BM", FormatBMP},
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// Writable reports whether textures can be saved in format f.
func (f Format) Writable() bool {
	switch f {
	case FormatTGA, FormatTIM2, FormatBMP:
		return true
	}
	return false
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: unknown format %q", pict.ErrConvert, s)
}

// FormatOf returns the format implied by the extension of file.
func FormatOf(file string) Format {
	return extensions[strings.ToLower(filepath.Ext(file))]
}

// Detect returns the format of the file held in b by looking at its
// contents. TGA has no signature so it is assumed when the first bytes are
// a usable TGA header.
func Detect(b []byte) Format {
	for _, s := range signatures {
		if bytes.HasPrefix(b, []byte(s.magic)) {
			return s.format
		}
	}

	var h tga.Header
	if err := h.UnmarshalBinary(b); err == nil && h.Validate() == nil {
		return FormatTGA
	}

	return FormatUnknown
}
