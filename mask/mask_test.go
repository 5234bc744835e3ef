package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnpack5551(t *testing.T) {
	tables := []struct {
		v          uint16
		a, r, g, b uint8
	}{
		{0x0000, 0, 0, 0, 0},
		{0x8000, 1, 0, 0, 0},
		{0x7c00, 0, 31, 0, 0},
		{0x03e0, 0, 0, 31, 0},
		{0x001f, 0, 0, 0, 31},
		{0xffff, 1, 31, 31, 31},
		{0x8421, 1, 1, 1, 1},
	}

	for _, table := range tables {
		a, r, g, b := Unpack5551(table.v)
		assert.Equal(t, table.a, a)
		assert.Equal(t, table.r, r)
		assert.Equal(t, table.g, g)
		assert.Equal(t, table.b, b)
		assert.Equal(t, table.v, Pack5551(a, r, g, b))
	}
}

func TestPack5551Masks(t *testing.T) {
	assert.Equal(t, uint16(0xffff), Pack5551(0xff, 0xff, 0xff, 0xff))
}

func TestSwap5551(t *testing.T) {
	assert.Equal(t, uint16(0x801f), Swap5551(0xfc00))
	assert.Equal(t, uint16(0x03e0), Swap5551(0x03e0))

	for v := 0; v <= 0xffff; v++ {
		if got := Swap5551(Swap5551(uint16(v))); got != uint16(v) {
			t.Fatalf("Swap5551 is not self-inverse for %#04x: got %#04x", v, got)
		}
	}
}

func TestExpand5551(t *testing.T) {
	a, r, g, b := Expand5551(0xffff)
	assert.Equal(t, []uint8{0xff, 0xf8, 0xf8, 0xf8}, []uint8{a, r, g, b})

	a, r, g, b = Expand5551(0x0421)
	assert.Equal(t, []uint8{0x00, 0x08, 0x08, 0x08}, []uint8{a, r, g, b})
}

func TestPack8888(t *testing.T) {
	v := Pack8888(0x11, 0x22, 0x33, 0x44)
	assert.Equal(t, uint32(0x11223344), v)

	a, r, g, b := Unpack8888(v)
	assert.Equal(t, []uint8{0x11, 0x22, 0x33, 0x44}, []uint8{a, r, g, b})
}

func TestSwap8888(t *testing.T) {
	assert.Equal(t, uint32(0x11443322), Swap8888(0x11223344))
	assert.Equal(t, uint32(0x11223344), Swap8888(Swap8888(0x11223344)))
}
