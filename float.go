package dds

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// HalfToFloat32 converts an IEEE 754 half precision value, including
// subnormals, infinities and NaN.
func HalfToFloat32(h uint16) float32 {
	return float16.Frombits(h).Float32()
}

// DecompressFloat decodes the half and single float formats into a float32
// surface. One and two channel formats fill the missing colour channels
// with 1.0.
func DecompressFloat(data []byte, f PixFormat, w, h, d int) (*Surface, error) {
	var src int // stored channels
	half := false
	switch f {
	case FormatR16F:
		src, half = 1, true
	case FormatG16R16F:
		src, half = 2, true
	case FormatA16B16G16R16F:
		src, half = 4, true
	case FormatR32F:
		src = 1
	case FormatG32R32F:
		src = 2
	case FormatA32B32G32R32F:
		src = 4
	default:
		return nil, fmt.Errorf("%w: %s is not a float format", ErrInvalidFormat, f)
	}

	channels, _ := surfaceLayout(f, PixelFormat{})
	s, err := NewSurface(w, h, d, channels, TypeFloat32)
	if err != nil {
		return nil, err
	}

	n := w * h * d
	need := n * f.bytesPerPixel()
	if len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrUnexpectedEOD, len(data), need)
	}

	one := math.Float32bits(1)
	for i := 0; i < n; i++ {
		for ch := 0; ch < channels; ch++ {
			bits := one
			if ch < src {
				if half {
					bits = math.Float32bits(float16.Frombits(binary.LittleEndian.Uint16(data[(i*src+ch)*2:])).Float32())
				} else {
					bits = binary.LittleEndian.Uint32(data[(i*src+ch)*4:])
				}
			}
			binary.LittleEndian.PutUint32(s.Pix[(i*channels+ch)*4:], bits)
		}
	}

	return s, nil
}
