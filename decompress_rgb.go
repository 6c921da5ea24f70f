package dds

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// maskBits returns the position of the lowest set bit of mask and the
// length of the contiguous run starting there.
func maskBits(mask uint32) (shift, width int) {
	if mask == 0 {
		return 0, 0
	}
	shift = bits.TrailingZeros32(mask)
	width = bits.TrailingZeros32(^(mask >> shift))

	return shift, width
}

// GetBitsFromMask returns the shifts that move a masked channel to 8 bits:
// (value & mask) >> shiftRight << shiftLeft. Channels wider than 8 bits
// report shiftLeft 0.
func GetBitsFromMask(mask uint32) (shiftLeft, shiftRight int) {
	shift, width := maskBits(mask)
	if mask == 0 {
		return 0, 0
	}

	return 8 - min(width, 8), shift
}

// expandBits extracts the channel selected by mask from v and scales it to
// target bits. Narrower channels are widened by bit replication so the
// maximum value maps to the maximum output.
func expandBits(v, mask uint32, target int) uint32 {
	shift, width := maskBits(mask)
	if width == 0 {
		return 0
	}

	val := (v >> shift) & (1<<width - 1)
	if width >= target {
		return val >> (width - target)
	}

	out, filled := uint32(0), 0
	for filled < target {
		out = out<<width | val
		filled += width
	}

	return out >> (filled - target)
}

// DecompressARGB decodes uncompressed data described by the bit masks of
// pf: RGB, ARGB, luminance or luminance with alpha. Channels narrower than
// 8 bits are widened by bit replication. A zero alpha mask decodes as
// opaque.
func DecompressARGB(data []byte, f PixFormat, pf PixelFormat, w, h, d int) (*Surface, error) {
	if (f == FormatARGB || f == FormatRGB) && Has16BitComponents(pf) {
		return decompressARGB16(data, pf, w, h, d)
	}

	channels, typ := surfaceLayout(f, pf)
	s, err := NewSurface(w, h, d, channels, typ)
	if err != nil {
		return nil, err
	}

	if isLuminance16(f, pf) {
		if len(data) < len(s.Pix) {
			return nil, fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), len(s.Pix))
		}
		copy(s.Pix, data)
		return s, nil
	}

	bpp, err := maskedBytesPerPixel(pf)
	if err != nil {
		return nil, err
	}
	n := w * h * d
	if len(data) < n*bpp {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), n*bpp)
	}

	masks := [4]uint32{pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask}
	if channels == 1 {
		masks = [4]uint32{pf.RBitMask}
	}
	if channels == 2 {
		masks = [4]uint32{pf.RBitMask, pf.ABitMask}
	}
	alphaCh := -1
	switch channels {
	case 2:
		alphaCh = 1
	case 4:
		alphaCh = 3
	}

	for i := 0; i < n; i++ {
		var v uint32
		for k := 0; k < bpp; k++ {
			v |= uint32(data[i*bpp+k]) << (8 * k)
		}

		px := s.Pix[i*channels : (i+1)*channels]
		for ch := 0; ch < channels; ch++ {
			if ch == alphaCh && masks[ch] == 0 {
				px[ch] = 0xff
				continue
			}
			px[ch] = uint8(expandBits(v, masks[ch], 8))
		}
	}

	return s, nil
}

// decompressARGB16 decodes the 32-bit 10:10:10:2 layouts into a 16-bit
// RGBA surface.
func decompressARGB16(data []byte, pf PixelFormat, w, h, d int) (*Surface, error) {
	s, err := NewSurface(w, h, d, 4, TypeUint16)
	if err != nil {
		return nil, err
	}

	n := w * h * d
	if len(data) < n*4 {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), n*4)
	}

	masks := [4]uint32{pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask}
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint32(data[i*4:])
		for ch, m := range masks {
			// #nosec G115 -- expandBits returns at most 16 bits here.
			binary.LittleEndian.PutUint16(s.Pix[(i*4+ch)*2:], uint16(expandBits(v, m, 16)))
		}
	}

	return s, nil
}
