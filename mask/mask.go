/*
Package mask packs and unpacks the channel fields of 16-bit 1-5-5-5 and 32-bit
8-8-8-8 colour values.

A 16-bit value is laid out as ARRRRRGGGGGBBBBB, so the field called red here
occupies bits 10-14 and blue bits 0-4. Whether those bits actually hold red or
blue depends on the channel order of the buffer the value came from; swapping
the two fields is how the order is toggled.
*/
package mask

const (
	a1 = 0x8000
	r5 = 0x7c00
	g5 = 0x03e0
	b5 = 0x001f
)

// Unpack5551 splits v into its 1-bit alpha and 5-bit colour fields.
func Unpack5551(v uint16) (a, r, g, b uint8) {
	return uint8(v & a1 >> 15), uint8(v & r5 >> 10), uint8(v & g5 >> 5), uint8(v & b5)
}

// Pack5551 is the inverse of Unpack5551. Excess bits in each field are
// masked off.
func Pack5551(a, r, g, b uint8) uint16 {
	return uint16(a)<<15&a1 | uint16(r)<<10&r5 | uint16(g)<<5&g5 | uint16(b)&b5
}

// Swap5551 exchanges the red and blue fields of v.
func Swap5551(v uint16) uint16 {
	a, r, g, b := Unpack5551(v)
	return Pack5551(a, b, g, r)
}

// Expand5551 widens v to 8 bits per channel. The alpha bit becomes 0x00 or
// 0xff and each colour field is shifted up by three bits.
func Expand5551(v uint16) (a, r, g, b uint8) {
	a, r, g, b = Unpack5551(v)
	return a * 0xff, r << 3, g << 3, b << 3
}

// Unpack8888 splits v, laid out as AARRGGBB, into its four channels.
func Unpack8888(v uint32) (a, r, g, b uint8) {
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Pack8888 is the inverse of Unpack8888.
func Pack8888(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Swap8888 exchanges the red and blue channels of v.
func Swap8888(v uint32) uint32 {
	a, r, g, b := Unpack8888(v)
	return Pack8888(a, b, g, r)
}
