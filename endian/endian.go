/*
Package endian provides byte-order helpers used by the DDS codec: value
swapping, host-order conversion and little/big endian stream accessors with
a sticky error.
*/
package endian

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var (
	// ErrElementSize indicates an unsupported element size for SwapBuffer.
	ErrElementSize = errors.New("unsupported element size")
	// ErrBufferLength indicates a buffer that is not a whole number of elements.
	ErrBufferLength = errors.New("buffer length is not a multiple of element size")
)

// SwapUint16 reverses the byte order of v.
func SwapUint16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// SwapInt16 reverses the byte order of v.
func SwapInt16(v int16) int16 {
	// #nosec G115 -- bit reinterpretation.
	return int16(bits.ReverseBytes16(uint16(v)))
}

// SwapUint32 reverses the byte order of v.
func SwapUint32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// SwapInt32 reverses the byte order of v.
func SwapInt32(v int32) int32 {
	// #nosec G115 -- bit reinterpretation.
	return int32(bits.ReverseBytes32(uint32(v)))
}

// SwapUint64 reverses the byte order of v.
func SwapUint64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// SwapFloat32 reverses the byte order of the IEEE 754 representation of f.
func SwapFloat32(f float32) float32 {
	return math.Float32frombits(bits.ReverseBytes32(math.Float32bits(f)))
}

// SwapFloat64 reverses the byte order of the IEEE 754 representation of d.
func SwapFloat64(d float64) float64 {
	return math.Float64frombits(bits.ReverseBytes64(math.Float64bits(d)))
}

// SwapBuffer reverses every size-byte element of data in place.
func SwapBuffer(data []byte, size int) error {
	switch size {
	case 1:
		return nil
	case 2, 4, 8:
	default:
		return fmt.Errorf("%w: %d", ErrElementSize, size)
	}
	if len(data)%size != 0 {
		return fmt.Errorf("%w: %d bytes, element %d", ErrBufferLength, len(data), size)
	}

	for i := 0; i < len(data); i += size {
		elem := data[i : i+size]
		for l, r := 0, size-1; l < r; l, r = l+1, r-1 {
			elem[l], elem[r] = elem[r], elem[l]
		}
	}

	return nil
}
