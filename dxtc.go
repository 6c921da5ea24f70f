package dds

import "fmt"

// Decompress decodes block compressed data of format f.
func Decompress(data []byte, f PixFormat, w, h, d int) (*Surface, error) {
	if !f.IsCompressed() {
		return nil, fmt.Errorf("%w: %s is not block compressed", ErrInvalidFormat, f)
	}

	return decompressLevel(data, f, PixelFormat{}, w, h, d)
}

// FlipDXTC mirrors compressed data vertically in place without decoding
// it. Block rows are swapped top to bottom in every slice and the texel
// rows inside each block are reversed.
func FlipDXTC(data []byte, f PixFormat, w, h, d int) error {
	var flip func(blk []byte)
	switch f {
	case FormatDXT1:
		flip = flipColorBlock
	case FormatDXT2, FormatDXT3:
		flip = func(blk []byte) {
			flipExplicitAlpha(blk[:alphaBlockSize])
			flipColorBlock(blk[alphaBlockSize:])
		}
	case FormatDXT4, FormatDXT5, FormatRXGB:
		flip = func(blk []byte) {
			flipLinearAlpha(blk[:alphaBlockSize])
			flipColorBlock(blk[alphaBlockSize:])
		}
	case Format3DC:
		flip = func(blk []byte) {
			flipLinearAlpha(blk[:alphaBlockSize])
			flipLinearAlpha(blk[alphaBlockSize:])
		}
	case FormatATI1N:
		flip = flipLinearAlpha
	default:
		return fmt.Errorf("%w: cannot flip %s", ErrInvalidFormat, f)
	}

	bb := f.BlockBytes()
	bw, bh := (w+3)/4, (h+3)/4
	need, err := sizeProduct(bw, bh, max(d, 1), bb)
	if err != nil {
		return err
	}
	if len(data) < need {
		return fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), need)
	}

	line := bw * bb
	for z := 0; z < max(d, 1); z++ {
		slice := data[z*bh*line : (z+1)*bh*line]
		top, bottom := 0, bh-1
		for ; top < bottom; top, bottom = top+1, bottom-1 {
			a := slice[top*line : (top+1)*line]
			b := slice[bottom*line : (bottom+1)*line]
			for i := 0; i < line; i += bb {
				flip(a[i : i+bb])
				flip(b[i : i+bb])
			}
			for i := range a {
				a[i], b[i] = b[i], a[i]
			}
		}
		if top == bottom {
			mid := slice[top*line : (top+1)*line]
			for i := 0; i < line; i += bb {
				flip(mid[i : i+bb])
			}
		}
	}

	return nil
}

// flipColorBlock reverses the four index rows of a colour block.
func flipColorBlock(blk []byte) {
	blk[4], blk[7] = blk[7], blk[4]
	blk[5], blk[6] = blk[6], blk[5]
}

// flipExplicitAlpha reverses the four 16-bit rows of an explicit alpha block.
func flipExplicitAlpha(blk []byte) {
	blk[0], blk[1], blk[6], blk[7] = blk[6], blk[7], blk[0], blk[1]
	blk[2], blk[3], blk[4], blk[5] = blk[4], blk[5], blk[2], blk[3]
}

// flipLinearAlpha reverses the four 12-bit code rows of an interpolated
// alpha block.
func flipLinearAlpha(blk []byte) {
	bits := blk[2:8]
	for i := 0; i < 3; i++ {
		bits[i], bits[i+3] = bits[i+3], bits[i]
	}
	swapCodeRows(bits[0:3])
	swapCodeRows(bits[3:6])
}

// swapCodeRows exchanges the two 12-bit rows packed in three bytes.
func swapCodeRows(b []byte) {
	r0 := (uint32(b[0]) | uint32(b[1])<<8) & 0xfff
	r1 := (uint32(b[1])>>4 | uint32(b[2])<<4) & 0xfff

	b[0] = byte(r1)
	b[1] = byte(r1>>8 | r0<<4)
	b[2] = byte(r0 >> 4)
}

var (
	invertCodes8 = [8]uint8{1, 0, 7, 6, 5, 4, 3, 2}
	invertCodes6 = [8]uint8{1, 0, 5, 4, 3, 2, 7, 6}
)

// InvertDXTCAlpha replaces alpha a with 255-a in DXT3 and DXT5 data
// without decoding the colour blocks.
func InvertDXTCAlpha(data []byte, f PixFormat, w, h, d int) error {
	switch f {
	case FormatDXT3:
		return walkBlocks(data, w, h, max(d, 1), 16, func(blk []byte, _, _, _ int) {
			for i := 0; i < alphaBlockSize; i++ {
				blk[i] = ^blk[i]
			}
		})

	case FormatDXT5:
		return walkBlocks(data, w, h, max(d, 1), 16, func(blk []byte, _, _, _ int) {
			var ab DXTAlphaBlock3BitLinear
			ab.Unmarshal(blk)

			remap := &invertCodes6
			if ab.Alpha0 > ab.Alpha1 {
				remap = &invertCodes8
			}
			var codes [16]uint8
			for i := range codes {
				codes[i] = remap[ab.Index(i)]
			}

			ab.Alpha0, ab.Alpha1 = 0xff-ab.Alpha1, 0xff-ab.Alpha0
			ab.SetIndices(&codes)
			ab.Marshal(blk)
		})
	}

	return fmt.Errorf("%w: cannot invert alpha of %s", ErrInvalidFormat, f)
}
