package dds

import (
	"encoding/binary"
	"fmt"
	"image"
)

// DXTCSize returns the compressed size of a w x h x d level in format f.
func DXTCSize(f PixFormat, w, h, d int) (int, error) {
	bb := f.BlockBytes()
	if bb == 0 {
		return 0, fmt.Errorf("%w: %s is not block compressed", ErrInvalidFormat, f)
	}

	return sizeProduct((w+3)/4, (h+3)/4, max(d, 1), bb)
}

// CompressImage converts img and compresses it as a single slice.
func CompressImage(img image.Image, f PixFormat) ([]byte, error) {
	s, err := SurfaceFromImage(img)
	if err != nil {
		return nil, err
	}

	return Compress(s, f)
}

// Compress encodes a surface in format f. Block formats use the built-in
// DXTn compressor; ARGB and RGB produce BGRA8 and BGR8 texels. Surfaces
// that are not 8-bit RGBA are converted first.
func Compress(s *Surface, f PixFormat) ([]byte, error) {
	rgba, err := s.toRGBA8()
	if err != nil {
		return nil, err
	}

	w, h, d := s.Width, s.Height, s.Depth
	switch f {
	case FormatARGB, FormatRGB:
		return compressUncompressed(rgba, f, w*h*d)
	case FormatDXT1, FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5,
		FormatRXGB, FormatATI1N, Format3DC:
	default:
		return nil, fmt.Errorf("%w: cannot compress to %s", ErrInvalidFormat, f)
	}

	size, err := DXTCSize(f, w, h, d)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, size)
	bb := f.BlockBytes()
	plane := w * h

	for z := 0; z < d; z++ {
		slice := rgba[z*plane*4 : (z+1)*plane*4]

		var (
			colors []uint16
			alpha  []uint8
			pairs  []uint8
		)
		switch f {
		case FormatDXT2, FormatDXT4:
			colors = CompressTo565PremulAlpha(slice)
			alpha = alphaPlane(slice)
		case FormatRXGB:
			alpha, colors = compressToRXGB(slice)
		case FormatATI1N:
			alpha = luminancePlane(slice)
		case Format3DC:
			pairs = CompressTo88(slice)
		default:
			colors = CompressTo565(slice)
			alpha = alphaPlane(slice)
		}

		var (
			cblk  [16]uint16
			ablk  [16]uint8
			block [16]byte
		)
		for y := 0; y < h; y += 4 {
			for x := 0; x < w; x += 4 {
				dst := block[:bb]
				switch f {
				case FormatDXT1:
					GetBlock(&cblk, colors, w, h, x, y)
					GetAlphaBlock(&ablk, alpha, w, h, x, y)
					encodeColorBlock(dst, &cblk, &ablk, true)

				case FormatDXT2, FormatDXT3:
					GetBlock(&cblk, colors, w, h, x, y)
					GetAlphaBlock(&ablk, alpha, w, h, x, y)
					encodeExplicitAlpha(dst[:alphaBlockSize], &ablk)
					encodeColorBlock(dst[alphaBlockSize:], &cblk, nil, false)

				case FormatDXT4, FormatDXT5, FormatRXGB:
					GetBlock(&cblk, colors, w, h, x, y)
					GetAlphaBlock(&ablk, alpha, w, h, x, y)
					encodeAlphaBlock(dst[:alphaBlockSize], &ablk)
					encodeColorBlock(dst[alphaBlockSize:], &cblk, nil, false)

				case FormatATI1N:
					GetAlphaBlock(&ablk, alpha, w, h, x, y)
					encodeAlphaBlock(dst, &ablk)

				case Format3DC:
					Get3DcBlock(&ablk, pairs, w, h, x, y, 0)
					encodeAlphaBlock(dst[:alphaBlockSize], &ablk)
					Get3DcBlock(&ablk, pairs, w, h, x, y, 1)
					encodeAlphaBlock(dst[alphaBlockSize:], &ablk)
				}
				out = append(out, dst...)
			}
		}
	}

	return out, nil
}

// compressUncompressed reorders RGBA8 texels into BGRA8 or BGR8.
func compressUncompressed(rgba []byte, f PixFormat, n int) ([]byte, error) {
	bpp := 4
	if f == FormatRGB {
		bpp = 3
	}
	size, err := sizeProduct(n, bpp)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	for i := 0; i < n; i++ {
		src := rgba[i*4 : i*4+4]
		dst := out[i*bpp : (i+1)*bpp]
		dst[0], dst[1], dst[2] = src[2], src[1], src[0]
		if bpp == 4 {
			dst[3] = src[3]
		}
	}

	return out, nil
}

// CompressTo565 quantizes RGBA8 texels to 5:6:5 with rounding.
func CompressTo565(rgba []byte) []uint16 {
	out := make([]uint16, len(rgba)/4)
	for i := range out {
		p := rgba[i*4 : i*4+3]
		out[i] = as16Bit(int(p[0]), int(p[1]), int(p[2]))
	}

	return out
}

// CompressTo565PremulAlpha premultiplies a copy of the texels by alpha
// and quantizes it to 5:6:5.
func CompressTo565PremulAlpha(rgba []byte) []uint16 {
	tmp := make([]byte, len(rgba))
	copy(tmp, rgba)
	PreMult(tmp)

	return CompressTo565(tmp)
}

// CompressTo88 extracts (green, red) pairs for 3Dc.
func CompressTo88(rgba []byte) []uint8 {
	n := len(rgba) / 4
	out := make([]uint8, n*2)
	for i := 0; i < n; i++ {
		out[i*2] = rgba[i*4+1]
		out[i*2+1] = rgba[i*4]
	}

	return out
}

// compressToRXGB splits texels into the red plane stored in the alpha
// block and a 5:6:5 plane of green and blue with red zeroed.
func compressToRXGB(rgba []byte) ([]uint8, []uint16) {
	n := len(rgba) / 4
	red := make([]uint8, n)
	gb := make([]uint16, n)
	for i := 0; i < n; i++ {
		red[i] = rgba[i*4]
		gb[i] = uint16(rgba[i*4+1]>>2)<<5 | uint16(rgba[i*4+2]>>3)
	}

	return red, gb
}

func alphaPlane(rgba []byte) []uint8 {
	out := make([]uint8, len(rgba)/4)
	for i := range out {
		out[i] = rgba[i*4+3]
	}

	return out
}

// luminancePlane converts texels to Rec. 709 luminance.
func luminancePlane(rgba []byte) []uint8 {
	out := make([]uint8, len(rgba)/4)
	for i := range out {
		p := rgba[i*4 : i*4+3]
		l := 0.212671*float64(p[0]) + 0.715160*float64(p[1]) + 0.072169*float64(p[2])
		out[i] = uint8(min(l+0.5, 255))
	}

	return out
}

// GetBlock gathers the 4x4 block of 5:6:5 texels at (xPos, yPos).
func GetBlock(block *[16]uint16, data []uint16, width, height, xPos, yPos int) {
	gatherBlock(block, data, width, height, xPos, yPos, 1, 0)
}

// GetAlphaBlock gathers the 4x4 block of 8-bit values at (xPos, yPos).
func GetAlphaBlock(block *[16]uint8, data []uint8, width, height, xPos, yPos int) {
	gatherBlock(block, data, width, height, xPos, yPos, 1, 0)
}

// Get3DcBlock gathers channel ch (0 green, 1 red) of the interleaved pairs
// produced by CompressTo88.
func Get3DcBlock(block *[16]uint8, data []uint8, width, height, xPos, yPos, ch int) {
	gatherBlock(block, data, width, height, xPos, yPos, 2, ch)
}

// gatherBlock reads 16 texels starting at (xPos, yPos). Columns past the
// right edge repeat the first texel of the row and rows past the bottom
// repeat the last row.
func gatherBlock[T uint8 | uint16](block *[16]T, data []T, width, height, xPos, yPos, stride, ch int) {
	offset := yPos*width + xPos
	i := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if xPos+x < width {
				block[i] = data[(offset+x)*stride+ch]
			} else {
				block[i] = data[offset*stride+ch]
			}
			i++
		}
		if yPos+y+1 < height {
			offset += width
		}
	}
}

// ChooseEndpoints returns the brightest and darkest texel of the block.
func ChooseEndpoints(block *[16]uint16) (ex0, ex1 uint16) {
	lowest, highest := 0, 0
	lowNorm, highNorm := int(^uint(0)>>1), -1
	for i, v := range block {
		n := normSquared(ShortToColor888(v))
		if n > highNorm {
			highest, highNorm = i, n
		}
		if n < lowNorm {
			lowest, lowNorm = i, n
		}
	}

	return block[highest], block[lowest]
}

// CorrectEndDXT1 orders the endpoints so that a DXT1 decoder picks the
// 3-colour mode (ex0 <= ex1) when hasAlpha, the 4-colour mode otherwise.
func CorrectEndDXT1(ex0, ex1 *uint16, hasAlpha bool) {
	if hasAlpha {
		if *ex0 > *ex1 {
			*ex0, *ex1 = *ex1, *ex0
		}
		return
	}
	if *ex0 < *ex1 {
		*ex0, *ex1 = *ex1, *ex0
	}
}

// GenBitMask assigns each texel the nearest of numCols palette colours
// derived from the endpoints. When alpha is not nil, texels with alpha
// below 128 get index 3.
func GenBitMask(ex0, ex1 uint16, numCols int, block *[16]uint16, alpha *[16]uint8) uint32 {
	var pal [4]Color888
	pal[0] = ShortToColor888(ex0)
	pal[1] = ShortToColor888(ex1)
	c0, c1 := pal[0], pal[1]

	if numCols == 3 {
		pal[2] = Color888{
			R: uint8((int(c0.R) + int(c1.R)) / 2),
			G: uint8((int(c0.G) + int(c1.G)) / 2),
			B: uint8((int(c0.B) + int(c1.B)) / 2),
		}
		pal[3] = pal[2]
	} else {
		pal[2] = Color888{
			R: uint8((2*int(c0.R) + int(c1.R) + 1) / 3),
			G: uint8((2*int(c0.G) + int(c1.G) + 1) / 3),
			B: uint8((2*int(c0.B) + int(c1.B) + 1) / 3),
		}
		pal[3] = Color888{
			R: uint8((int(c0.R) + 2*int(c1.R) + 1) / 3),
			G: uint8((int(c0.G) + 2*int(c1.G) + 1) / 3),
			B: uint8((int(c0.B) + 2*int(c1.B) + 1) / 3),
		}
	}

	var mask uint32
	for i, v := range block {
		if alpha != nil && alpha[i] < 128 {
			mask |= 3 << (2 * i)
			continue
		}

		c := ShortToColor888(v)
		best, bestDist := 0, Distance(c, pal[0])
		for j := 1; j < numCols; j++ {
			if dist := Distance(c, pal[j]); dist < bestDist {
				best, bestDist = j, dist
			}
		}
		mask |= uint32(best) << (2 * i)
	}

	return mask
}

// ChooseAlphaEndpoints returns the smallest and largest value of the
// block, which selects the 6-alpha palette.
func ChooseAlphaEndpoints(block *[16]uint8) (a0, a1 uint8) {
	a0, a1 = 0xff, 0
	for _, v := range block {
		a0 = min(a0, v)
		a1 = max(a1, v)
	}

	return a0, a1
}

// GenAlphaBitMask assigns each value the nearest entry of the palette
// derived from a0 and a1. It returns the codes and their packed form.
func GenAlphaBitMask(a0, a1 uint8, block *[16]uint8) (codes [16]uint8, mask [6]byte) {
	pal := alphaPalette(a0, a1)
	for i, v := range block {
		best, bestDist := 0, absDiff(v, pal[0])
		for j := 1; j < len(pal); j++ {
			if dist := absDiff(v, pal[j]); dist < bestDist {
				best, bestDist = j, dist
			}
		}
		// #nosec G115 -- palette index < 8.
		codes[i] = uint8(best)
	}

	var blk DXTAlphaBlock3BitLinear
	blk.SetIndices(&codes)

	return codes, blk.Bits
}

// RMSAlpha returns the squared error of encoding block with the palette
// of a0 and a1 and the given codes.
func RMSAlpha(block *[16]uint8, a0, a1 uint8, codes *[16]uint8) int {
	pal := alphaPalette(a0, a1)
	sum := 0
	for i, v := range block {
		d := int(v) - int(pal[codes[i]&0x07])
		sum += d * d
	}

	return sum
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}

	return int(b - a)
}

// encodeAlphaBlock writes an interpolated alpha block, keeping whichever
// of the 6-alpha and 8-alpha palettes has the lower error.
func encodeAlphaBlock(dst []byte, block *[16]uint8) {
	a0, a1 := ChooseAlphaEndpoints(block)
	codes, mask := GenAlphaBitMask(a0, a1, block)

	if a0 < a1 {
		codes8, mask8 := GenAlphaBitMask(a1, a0, block)
		if RMSAlpha(block, a1, a0, &codes8) < RMSAlpha(block, a0, a1, &codes) {
			a0, a1, mask = a1, a0, mask8
		}
	}

	blk := DXTAlphaBlock3BitLinear{Alpha0: a0, Alpha1: a1, Bits: mask}
	blk.Marshal(dst)
}

// encodeExplicitAlpha packs 4-bit alpha, two texels per byte.
func encodeExplicitAlpha(dst []byte, block *[16]uint8) {
	for i := 0; i < 16; i += 2 {
		dst[i/2] = (block[i+1]>>4)<<4 | block[i]>>4
	}
}

// encodeColorBlock writes a colour block. With dxt1 set, blocks holding
// texels with alpha below 128 use the 3-colour mode.
func encodeColorBlock(dst []byte, block *[16]uint16, alpha *[16]uint8, dxt1 bool) {
	ex0, ex1 := ChooseEndpoints(block)

	hasAlpha := false
	if dxt1 && alpha != nil {
		for _, a := range alpha {
			if a < 128 {
				hasAlpha = true
				break
			}
		}
	}
	CorrectEndDXT1(&ex0, &ex1, hasAlpha)

	var bits uint32
	if hasAlpha {
		bits = GenBitMask(ex0, ex1, 3, block, alpha)
	} else {
		bits = GenBitMask(ex0, ex1, 4, block, nil)
	}

	binary.LittleEndian.PutUint16(dst[0:], ex0)
	binary.LittleEndian.PutUint16(dst[2:], ex1)
	binary.LittleEndian.PutUint32(dst[4:], bits)
}
