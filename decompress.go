package dds

import "fmt"

// walkBlocks calls fn for every 4x4 block of a w x h x d level stored as
// blockBytes-sized blocks, row by row and slice by slice.
func walkBlocks(data []byte, w, h, d, blockBytes int, fn func(blk []byte, z, x, y int)) error {
	bw, bh := (w+3)/4, (h+3)/4
	need, err := sizeProduct(bw, bh, d, blockBytes)
	if err != nil {
		return err
	}
	if len(data) < need {
		return fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), need)
	}

	off := 0
	for z := 0; z < d; z++ {
		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				fn(data[off:off+blockBytes], z, bx*4, by*4)
				off += blockBytes
			}
		}
	}

	return nil
}

// texel returns the byte offset of texel (x, y, z) or -1 when it lies
// outside the surface.
func (s *Surface) texel(x, y, z int) int {
	if x >= s.Width || y >= s.Height {
		return -1
	}

	return ((z*s.Height+y)*s.Width + x) * s.Channels * s.Type.Size()
}

// putColorBlock writes the RGB (and alpha when withAlpha) of a colour
// block at block origin (x, y).
func putColorBlock(s *Surface, blk []byte, z, x, y int, forceFour, withAlpha bool) {
	var cb DXTColBlock
	cb.Unmarshal(blk)
	pal := cb.Palette(forceFour)

	for i := 0; i < 16; i++ {
		off := s.texel(x+i%4, y+i/4, z)
		if off < 0 {
			continue
		}
		c := pal[cb.Index(i)]
		s.Pix[off] = c.R
		s.Pix[off+1] = c.G
		s.Pix[off+2] = c.B
		if withAlpha {
			s.Pix[off+3] = c.A
		}
	}
}

// putAlphaBlock writes a 3-bit linear block into channel ch.
func putAlphaBlock(s *Surface, blk []byte, z, x, y, ch int) {
	var ab DXTAlphaBlock3BitLinear
	ab.Unmarshal(blk)
	pal := ab.Palette()

	for i := 0; i < 16; i++ {
		off := s.texel(x+i%4, y+i/4, z)
		if off < 0 {
			continue
		}
		s.Pix[off+ch] = pal[ab.Index(i)]
	}
}

// DecompressDXT1 decodes DXT1 data into an 8-bit RGBA surface. Blocks in
// 3-colour mode decode index 3 as transparent black.
func DecompressDXT1(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 4, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 8, func(blk []byte, z, x, y int) {
		putColorBlock(s, blk, z, x, y, false, true)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// DecompressDXT2 decodes DXT2 (premultiplied DXT3) data and converts the
// colours back to straight alpha.
func DecompressDXT2(data []byte, w, h, d int) (*Surface, error) {
	s, err := DecompressDXT3(data, w, h, d)
	if err != nil {
		return nil, err
	}
	CorrectPreMult(s)

	return s, nil
}

// DecompressDXT3 decodes DXT3 data into an 8-bit RGBA surface.
func DecompressDXT3(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 4, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 16, func(blk []byte, z, x, y int) {
		putColorBlock(s, blk[8:], z, x, y, true, false)

		var ab DXTAlphaBlockExplicit
		ab.Unmarshal(blk)
		for i := 0; i < 16; i++ {
			if off := s.texel(x+i%4, y+i/4, z); off >= 0 {
				s.Pix[off+3] = ab.Alpha(i)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// DecompressDXT4 decodes DXT4 (premultiplied DXT5) data and converts the
// colours back to straight alpha.
func DecompressDXT4(data []byte, w, h, d int) (*Surface, error) {
	s, err := DecompressDXT5(data, w, h, d)
	if err != nil {
		return nil, err
	}
	CorrectPreMult(s)

	return s, nil
}

// DecompressDXT5 decodes DXT5 data into an 8-bit RGBA surface.
func DecompressDXT5(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 4, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 16, func(blk []byte, z, x, y int) {
		putColorBlock(s, blk[8:], z, x, y, true, false)
		putAlphaBlock(s, blk, z, x, y, 3)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Decompress3Dc decodes 3Dc (ATI2) normal map data into an 8-bit RGB
// surface. The first half of each block holds Y (green), the second X
// (red); blue is zero.
func Decompress3Dc(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 3, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 16, func(blk []byte, z, x, y int) {
		putAlphaBlock(s, blk[:8], z, x, y, 1)
		putAlphaBlock(s, blk[8:], z, x, y, 0)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// DecompressATI1N decodes ATI1N data into an 8-bit single channel surface.
func DecompressATI1N(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 1, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 8, func(blk []byte, z, x, y int) {
		putAlphaBlock(s, blk, z, x, y, 0)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// DecompressRXGB decodes RXGB (DXT5 with red in the alpha block) into an
// 8-bit RGB surface.
func DecompressRXGB(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 3, TypeUint8)
	if err != nil {
		return nil, err
	}

	err = walkBlocks(data, w, h, d, 16, func(blk []byte, z, x, y int) {
		putColorBlock(s, blk[8:], z, x, y, true, false)
		putAlphaBlock(s, blk, z, x, y, 0)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// decompressLevel decodes one stored level of format f.
func decompressLevel(data []byte, f PixFormat, pf PixelFormat, w, h, d int) (*Surface, error) {
	switch f {
	case FormatDXT1:
		return DecompressDXT1(data, w, h, d)
	case FormatDXT2:
		return DecompressDXT2(data, w, h, d)
	case FormatDXT3:
		return DecompressDXT3(data, w, h, d)
	case FormatDXT4:
		return DecompressDXT4(data, w, h, d)
	case FormatDXT5:
		return DecompressDXT5(data, w, h, d)
	case FormatATI1N:
		return DecompressATI1N(data, w, h, d)
	case Format3DC:
		return Decompress3Dc(data, w, h, d)
	case FormatRXGB:
		return DecompressRXGB(data, w, h, d)
	case FormatA16B16G16R16:
		return decompressA16B16G16R16(data, w, h, d)
	case FormatR16F, FormatG16R16F, FormatA16B16G16R16F,
		FormatR32F, FormatG32R32F, FormatA32B32G32R32F:
		return DecompressFloat(data, f, w, h, d)
	case FormatARGB, FormatRGB, FormatLuminance, FormatLuminanceAlpha:
		return DecompressARGB(data, f, pf, w, h, d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

// decompressA16B16G16R16 copies 16-bit RGBA texels.
func decompressA16B16G16R16(data []byte, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 4, TypeUint16)
	if err != nil {
		return nil, err
	}
	if len(data) < len(s.Pix) {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), len(s.Pix))
	}
	copy(s.Pix, data)

	return s, nil
}
