package rle

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encode is a simple greedy packer used to build test streams.
func encode(src []byte, pixelSize int) []byte {
	var out []byte
	pixel := func(i int) []byte { return src[i*pixelSize : (i+1)*pixelSize] }
	n := len(src) / pixelSize

	for i := 0; i < n; {
		run := 1
		for i+run < n && run < 128 && bytes.Equal(pixel(i), pixel(i+run)) {
			run++
		}
		if run > 1 {
			out = append(out, byte(0x80|(run-1)))
			out = append(out, pixel(i)...)
			i += run
			continue
		}

		start := i
		for i < n && i-start < 128 && (i+1 >= n || !bytes.Equal(pixel(i), pixel(i+1))) {
			i++
		}
		if i == start {
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, src[start*pixelSize:i*pixelSize]...)
	}

	return out
}

func TestDecode(t *testing.T) {
	tables := []struct {
		name      string
		src       []byte
		pixelSize int
		want      []byte
	}{
		{
			"literal",
			[]byte{0x02, 1, 2, 3},
			1,
			[]byte{1, 2, 3},
		},
		{
			"repeat",
			[]byte{0x83, 0xaa, 0xbb},
			2,
			[]byte{0xaa, 0xbb, 0xaa, 0xbb, 0xaa, 0xbb, 0xaa, 0xbb},
		},
		{
			"mixed",
			[]byte{0x81, 1, 2, 3, 0x00, 4, 5, 6},
			3,
			[]byte{1, 2, 3, 1, 2, 3, 4, 5, 6},
		},
		{
			"longest run",
			[]byte{0xff, 7},
			1,
			bytes.Repeat([]byte{7}, 128),
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			dst := make([]byte, len(table.want))
			n, err := Decode(dst, table.src, table.pixelSize)
			require.NoError(t, err)
			assert.Equal(t, len(table.src), n)
			assert.Equal(t, table.want, dst)
		})
	}
}

func TestDecodeTrailingData(t *testing.T) {
	dst := make([]byte, 4)
	n, err := Decode(dst, []byte{0x83, 9, 0xde, 0xad}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{9, 9, 9, 9}, dst)
}

func TestDecodeTruncated(t *testing.T) {
	tables := []struct {
		name string
		src  []byte
	}{
		{"empty", []byte{}},
		{"missing packet", []byte{0x81, 1, 2}},
		{"short literal", []byte{0x03, 1, 2, 3, 4, 5}},
		{"short repeat", []byte{0x83, 1}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			dst := make([]byte, 8)
			_, err := Decode(dst, table.src, 2)
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestDecodeOverflow(t *testing.T) {
	dst := make([]byte, 4)
	_, err := Decode(dst, []byte{0x84, 1}, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDecodePixelSize(t *testing.T) {
	_, err := Decode(make([]byte, 3), []byte{0x00, 1, 2}, 2)
	assert.Error(t, err)

	_, err = Decode(make([]byte, 3), []byte{0x00, 1}, 0)
	assert.Error(t, err)
}

func TestDecodeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("decoding an encoded stream reproduces the pixels", prop.ForAll(
		func(seed int64, pixels, pixelSize, colors int) bool {
			rnd := rand.New(rand.NewSource(seed))
			src := make([]byte, pixels*pixelSize)
			palette := make([]byte, colors*pixelSize)
			rnd.Read(palette)
			for i := 0; i < pixels; i++ {
				c := rnd.Intn(colors)
				copy(src[i*pixelSize:], palette[c*pixelSize:(c+1)*pixelSize])
			}

			packed := encode(src, pixelSize)
			dst := make([]byte, len(src))
			n, err := Decode(dst, packed, pixelSize)

			return err == nil && n == len(packed) && bytes.Equal(dst, src)
		},
		gen.Int64(),
		gen.IntRange(1, 600),
		gen.IntRange(1, 4),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}
