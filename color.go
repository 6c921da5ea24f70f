package dds

import "encoding/binary"

// Color565 is a 16-bit colour split into its 5:6:5 fields.
type Color565 struct {
	R uint8 // 5 bits
	G uint8 // 6 bits
	B uint8 // 5 bits
}

// Color888 is an 8-bit per channel RGB colour.
type Color888 struct {
	R, G, B uint8
}

// Color8888 is an 8-bit per channel RGBA colour.
type Color8888 struct {
	R, G, B, A uint8
}

// ShortToColor565 splits a packed 5:6:5 value.
func ShortToColor565(v uint16) Color565 {
	return Color565{
		R: uint8(v >> 11),
		G: uint8(v>>5) & 0x3f,
		B: uint8(v) & 0x1f,
	}
}

// Color565ToShort packs c into 5:6:5.
func Color565ToShort(c Color565) uint16 {
	return uint16(c.R&0x1f)<<11 | uint16(c.G&0x3f)<<5 | uint16(c.B&0x1f)
}

// ShortToColor888 widens a 5:6:5 value by plain shifts, leaving the low
// bits zero. The block compressor measures distances in this space.
func ShortToColor888(v uint16) Color888 {
	return Color888{
		R: uint8(v>>11) << 3,
		G: uint8(v>>5) << 2,
		B: uint8(v) << 3,
	}
}

// Color888ToShort truncates c to 5:6:5.
func Color888ToShort(c Color888) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// DxtcReadColor expands a 5:6:5 value to 8 bits per channel with bit
// replication. Alpha is opaque.
func DxtcReadColor(v uint16) Color8888 {
	r := uint8(v>>11) & 0x1f
	g := uint8(v>>5) & 0x3f
	b := uint8(v) & 0x1f

	return Color8888{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xff,
	}
}

// DxtcReadColors decodes the two little-endian endpoint colours that start
// a colour block.
func DxtcReadColors(b []byte) (Color8888, Color8888) {
	return DxtcReadColor(binary.LittleEndian.Uint16(b[0:2])),
		DxtcReadColor(binary.LittleEndian.Uint16(b[2:4]))
}

// Distance returns the squared RGB distance between two colours.
func Distance(c1, c2 Color888) int {
	dr := int(c1.R) - int(c2.R)
	dg := int(c1.G) - int(c2.G)
	db := int(c1.B) - int(c2.B)

	return dr*dr + dg*dg + db*db
}

// normSquared is the squared length of c as an RGB vector.
func normSquared(c Color888) int {
	return int(c.R)*int(c.R) + int(c.G)*int(c.G) + int(c.B)*int(c.B)
}

// mul8Bit computes a*b/255 with rounding.
func mul8Bit(a, b int) int {
	t := a*b + 128
	return (t + (t >> 8)) >> 8
}

// as16Bit quantizes 8-bit RGB to 5:6:5 with rounding.
func as16Bit(r, g, b int) uint16 {
	// #nosec G115 -- each field is bounded by its bit width.
	return uint16(mul8Bit(r, 31)<<11 + mul8Bit(g, 63)<<5 + mul8Bit(b, 31))
}
