//go:build armbe || arm64be || m68k || mips || mips64 || mips64p32 || ppc || ppc64 || s390 || s390x || shbe || sparc || sparc64

package endian

// IsBigEndian reports whether the host stores multi-byte values big endian.
const IsBigEndian = true

// LittleUint16 converts v between host order and little endian.
func LittleUint16(v uint16) uint16 { return SwapUint16(v) }

// LittleInt16 converts v between host order and little endian.
func LittleInt16(v int16) int16 { return SwapInt16(v) }

// LittleUint32 converts v between host order and little endian.
func LittleUint32(v uint32) uint32 { return SwapUint32(v) }

// LittleInt32 converts v between host order and little endian.
func LittleInt32(v int32) int32 { return SwapInt32(v) }

// LittleFloat32 converts f between host order and little endian.
func LittleFloat32(f float32) float32 { return SwapFloat32(f) }

// LittleFloat64 converts d between host order and little endian.
func LittleFloat64(d float64) float64 { return SwapFloat64(d) }

// BigUint16 converts v between host order and big endian.
func BigUint16(v uint16) uint16 { return v }

// BigInt16 converts v between host order and big endian.
func BigInt16(v int16) int16 { return v }

// BigUint32 converts v between host order and big endian.
func BigUint32(v uint32) uint32 { return v }

// BigInt32 converts v between host order and big endian.
func BigInt32(v int32) int32 { return v }

// BigFloat32 converts f between host order and big endian.
func BigFloat32(f float32) float32 { return f }

// BigFloat64 converts d between host order and big endian.
func BigFloat64(d float64) float64 { return d }
