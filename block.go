package dds

import "encoding/binary"

// Block byte sizes.
const (
	colorBlockSize = 8
	alphaBlockSize = 8
)

// DXTColBlock is the 8-byte colour part of a DXT block: two 5:6:5
// endpoints and sixteen 2-bit indices, one byte per row.
type DXTColBlock struct {
	Col0 uint16
	Col1 uint16
	Row  [4]byte
}

// Unmarshal reads the block from the first 8 bytes of b.
func (c *DXTColBlock) Unmarshal(b []byte) {
	c.Col0 = binary.LittleEndian.Uint16(b[0:2])
	c.Col1 = binary.LittleEndian.Uint16(b[2:4])
	copy(c.Row[:], b[4:8])
}

// Marshal writes the block into the first 8 bytes of b.
func (c *DXTColBlock) Marshal(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], c.Col0)
	binary.LittleEndian.PutUint16(b[2:4], c.Col1)
	copy(b[4:8], c.Row[:])
}

// Index returns the 2-bit palette index of texel i (row-major).
func (c *DXTColBlock) Index(i int) int {
	return int(c.Row[i/4]>>(2*(i%4))) & 0x03
}

// Palette derives the four block colours. With forceFour unset and
// Col0 <= Col1 the block is in 3-colour mode and entry 3 is transparent
// black.
func (c *DXTColBlock) Palette(forceFour bool) [4]Color8888 {
	var p [4]Color8888
	p[0] = DxtcReadColor(c.Col0)
	p[1] = DxtcReadColor(c.Col1)

	if forceFour || c.Col0 > c.Col1 {
		p[2] = Color8888{
			R: uint8((2*int(p[0].R) + int(p[1].R) + 1) / 3),
			G: uint8((2*int(p[0].G) + int(p[1].G) + 1) / 3),
			B: uint8((2*int(p[0].B) + int(p[1].B) + 1) / 3),
			A: 0xff,
		}
		p[3] = Color8888{
			R: uint8((int(p[0].R) + 2*int(p[1].R) + 1) / 3),
			G: uint8((int(p[0].G) + 2*int(p[1].G) + 1) / 3),
			B: uint8((int(p[0].B) + 2*int(p[1].B) + 1) / 3),
			A: 0xff,
		}
		return p
	}

	p[2] = Color8888{
		R: uint8((int(p[0].R) + int(p[1].R)) / 2),
		G: uint8((int(p[0].G) + int(p[1].G)) / 2),
		B: uint8((int(p[0].B) + int(p[1].B)) / 2),
		A: 0xff,
	}
	p[3] = Color8888{}

	return p
}

// DXTAlphaBlockExplicit is the DXT2/DXT3 alpha block: sixteen 4-bit
// values, one little-endian uint16 per row.
type DXTAlphaBlockExplicit struct {
	Row [4]uint16
}

// Unmarshal reads the block from the first 8 bytes of b.
func (a *DXTAlphaBlockExplicit) Unmarshal(b []byte) {
	for i := range a.Row {
		a.Row[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
}

// Marshal writes the block into the first 8 bytes of b.
func (a *DXTAlphaBlockExplicit) Marshal(b []byte) {
	for i, r := range a.Row {
		binary.LittleEndian.PutUint16(b[2*i:], r)
	}
}

// Alpha returns the alpha of texel i expanded to 8 bits.
func (a *DXTAlphaBlockExplicit) Alpha(i int) uint8 {
	v := uint8(a.Row[i/4]>>(4*(i%4))) & 0x0f
	return v | v<<4
}

// DXTAlphaBlock3BitLinear is the interpolated alpha block used by DXT4,
// DXT5, RXGB, ATI1N and 3Dc: two endpoints and sixteen 3-bit codes packed
// into 6 bytes.
type DXTAlphaBlock3BitLinear struct {
	Alpha0 uint8
	Alpha1 uint8
	Bits   [6]byte
}

// Unmarshal reads the block from the first 8 bytes of b.
func (a *DXTAlphaBlock3BitLinear) Unmarshal(b []byte) {
	a.Alpha0 = b[0]
	a.Alpha1 = b[1]
	copy(a.Bits[:], b[2:8])
}

// Marshal writes the block into the first 8 bytes of b.
func (a *DXTAlphaBlock3BitLinear) Marshal(b []byte) {
	b[0] = a.Alpha0
	b[1] = a.Alpha1
	copy(b[2:8], a.Bits[:])
}

// Index returns the 3-bit code of texel i (row-major). Codes are stored
// in two little-endian 24-bit groups of eight texels.
func (a *DXTAlphaBlock3BitLinear) Index(i int) int {
	g := (i / 8) * 3
	bits := uint32(a.Bits[g]) | uint32(a.Bits[g+1])<<8 | uint32(a.Bits[g+2])<<16
	return int(bits>>(3*(i%8))) & 0x07
}

// SetIndices packs sixteen 3-bit codes.
func (a *DXTAlphaBlock3BitLinear) SetIndices(codes *[16]uint8) {
	for g := 0; g < 2; g++ {
		var bits uint32
		for i := 0; i < 8; i++ {
			bits |= uint32(codes[g*8+i]&0x07) << (3 * i)
		}
		a.Bits[g*3] = byte(bits)
		a.Bits[g*3+1] = byte(bits >> 8)
		a.Bits[g*3+2] = byte(bits >> 16)
	}
}

// Palette derives the eight alpha values. Alpha0 > Alpha1 selects eight
// interpolated values, otherwise six plus 0 and 255.
func (a *DXTAlphaBlock3BitLinear) Palette() [8]uint8 {
	return alphaPalette(a.Alpha0, a.Alpha1)
}

func alphaPalette(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1
	x0, x1 := int(a0), int(a1)

	if a0 > a1 {
		for i := 1; i < 7; i++ {
			p[i+1] = uint8(((7-i)*x0 + i*x1 + 3) / 7)
		}
		return p
	}

	for i := 1; i < 5; i++ {
		p[i+1] = uint8(((5-i)*x0 + i*x1 + 2) / 5)
	}
	p[6] = 0x00
	p[7] = 0xff

	return p
}
