package dds

import (
	"fmt"
	"strings"
)

// PixFormat identifies how texel data is stored in a DDS file.
type PixFormat int

// Pixel formats.
const (
	FormatARGB PixFormat = iota
	FormatRGB
	FormatDXT1
	FormatDXT2
	FormatDXT3
	FormatDXT4
	FormatDXT5
	Format3DC
	FormatATI1N
	FormatLuminance
	FormatLuminanceAlpha
	FormatRXGB
	FormatA16B16G16R16
	FormatR16F
	FormatG16R16F
	FormatA16B16G16R16F
	FormatR32F
	FormatG32R32F
	FormatA32B32G32R32F
	FormatUnknown
)

var formatNames = [...]string{
	FormatARGB:           "ARGB",
	FormatRGB:            "RGB",
	FormatDXT1:           "DXT1",
	FormatDXT2:           "DXT2",
	FormatDXT3:           "DXT3",
	FormatDXT4:           "DXT4",
	FormatDXT5:           "DXT5",
	Format3DC:            "3DC",
	FormatATI1N:          "ATI1N",
	FormatLuminance:      "LUMINANCE",
	FormatLuminanceAlpha: "LUMINANCE_ALPHA",
	FormatRXGB:           "RXGB",
	FormatA16B16G16R16:   "A16B16G16R16",
	FormatR16F:           "R16F",
	FormatG16R16F:        "G16R16F",
	FormatA16B16G16R16F:  "A16B16G16R16F",
	FormatR32F:           "R32F",
	FormatG32R32F:        "G32R32F",
	FormatA32B32G32R32F:  "A32B32G32R32F",
	FormatUnknown:        "UNKNOWN",
}

// String returns the canonical format name.
func (f PixFormat) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("PixFormat(%d)", int(f))
	}

	return formatNames[f]
}

// ParsePixFormat resolves a format name, case-insensitively. "ATI2" and
// "BC5" map to 3DC, "ATI1" and "BC4" to ATI1N, "BGRA" to ARGB and "BGR" to RGB.
func ParsePixFormat(name string) (PixFormat, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "ATI2", "BC5":
		return Format3DC, nil
	case "ATI1", "BC4":
		return FormatATI1N, nil
	case "BC1":
		return FormatDXT1, nil
	case "BC2":
		return FormatDXT3, nil
	case "BC3":
		return FormatDXT5, nil
	case "BGRA", "BGRA8":
		return FormatARGB, nil
	case "BGR", "BGR8":
		return FormatRGB, nil
	}

	for i, n := range formatNames {
		if n == upper && PixFormat(i) != FormatUnknown {
			return PixFormat(i), nil
		}
	}

	return FormatUnknown, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
}

// IsCompressed reports whether f stores 4x4 texel blocks.
func (f PixFormat) IsCompressed() bool {
	switch f {
	case FormatDXT1, FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5,
		Format3DC, FormatATI1N, FormatRXGB:
		return true
	default:
		return false
	}
}

// IsFloat reports whether f stores IEEE 754 half or single floats.
func (f PixFormat) IsFloat() bool {
	switch f {
	case FormatR16F, FormatG16R16F, FormatA16B16G16R16F,
		FormatR32F, FormatG32R32F, FormatA32B32G32R32F:
		return true
	default:
		return false
	}
}

// IsMasked reports whether f is described by the header bit masks.
func (f PixFormat) IsMasked() bool {
	switch f {
	case FormatARGB, FormatRGB, FormatLuminance, FormatLuminanceAlpha:
		return true
	default:
		return false
	}
}

// BlockBytes returns the size of one 4x4 block, or 0 for formats that are
// not block compressed.
func (f PixFormat) BlockBytes() int {
	switch f {
	case FormatDXT1, FormatATI1N:
		return 8
	case FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5, Format3DC, FormatRXGB:
		return 16
	default:
		return 0
	}
}

// FourCC returns the code written into the pixel format for f, or 0 when
// f is stored without one.
func (f PixFormat) FourCC() uint32 {
	switch f {
	case FormatDXT1:
		return MakeFourCC('D', 'X', 'T', '1')
	case FormatDXT2:
		return MakeFourCC('D', 'X', 'T', '2')
	case FormatDXT3:
		return MakeFourCC('D', 'X', 'T', '3')
	case FormatDXT4:
		return MakeFourCC('D', 'X', 'T', '4')
	case FormatDXT5:
		return MakeFourCC('D', 'X', 'T', '5')
	case FormatATI1N:
		return MakeFourCC('A', 'T', 'I', '1')
	case Format3DC:
		return MakeFourCC('A', 'T', 'I', '2')
	case FormatRXGB:
		return MakeFourCC('R', 'X', 'G', 'B')
	case FormatA16B16G16R16:
		return 36
	case FormatR16F:
		return 111
	case FormatG16R16F:
		return 112
	case FormatA16B16G16R16F:
		return 113
	case FormatR32F:
		return 114
	case FormatG32R32F:
		return 115
	case FormatA32B32G32R32F:
		return 116
	default:
		return 0
	}
}

// bytesPerPixel returns the stored texel size for the fixed-size
// uncompressed formats, or 0.
func (f PixFormat) bytesPerPixel() int {
	switch f {
	case FormatR16F:
		return 2
	case FormatG16R16F, FormatR32F:
		return 4
	case FormatA16B16G16R16, FormatA16B16G16R16F, FormatG32R32F:
		return 8
	case FormatA32B32G32R32F:
		return 16
	default:
		return 0
	}
}

// formatFromFourCC maps a pixel format code to a format.
func formatFromFourCC(code uint32) PixFormat {
	for f := FormatARGB; f < FormatUnknown; f++ {
		if c := f.FourCC(); c != 0 && c == code {
			return f
		}
	}

	return FormatUnknown
}

// DecodePixelFormat determines the format of h and the byte size of its
// top level (all slices).
func DecodePixelFormat(h *Header) (PixFormat, int, error) {
	pf := h.PixelFormat

	format := FormatUnknown
	switch {
	case pf.Flags&PFFourCC != 0:
		format = formatFromFourCC(pf.FourCC)
	case pf.Flags&PFLuminance != 0:
		format = FormatLuminance
		if pf.Flags&PFAlphaPixels != 0 {
			format = FormatLuminanceAlpha
		}
	case pf.Flags&PFAlphaPixels != 0:
		format = FormatARGB
	default:
		format = FormatRGB
	}

	if format == FormatUnknown {
		return FormatUnknown, 0, fmt.Errorf("%w: fourcc %q", ErrUnknownFormat, FourCCString(pf.FourCC))
	}

	w, err := intFromU32(h.Width)
	if err != nil {
		return format, 0, err
	}
	ht, err := intFromU32(h.Height)
	if err != nil {
		return format, 0, err
	}
	d, err := intFromU32(max(h.Depth, 1))
	if err != nil {
		return format, 0, err
	}

	size, err := levelSize(format, pf, w, ht, d)
	if err != nil {
		return format, 0, err
	}

	return format, size, nil
}

// levelSize returns the stored byte size of a w x h x d level.
func levelSize(f PixFormat, pf PixelFormat, w, h, d int) (int, error) {
	if bb := f.BlockBytes(); bb != 0 {
		return sizeProduct((w+3)/4, (h+3)/4, d, bb)
	}
	if f.IsMasked() {
		bpp, err := maskedBytesPerPixel(pf)
		if err != nil {
			return 0, err
		}
		return sizeProduct(w, h, d, bpp)
	}
	if bpp := f.bytesPerPixel(); bpp != 0 {
		return sizeProduct(w, h, d, bpp)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// maskedBytesPerPixel validates RGBBitCount for masked formats.
func maskedBytesPerPixel(pf PixelFormat) (int, error) {
	switch pf.RGBBitCount {
	case 8, 16, 24, 32:
		return int(pf.RGBBitCount / 8), nil
	default:
		return 0, fmt.Errorf("%w: %d bits per pixel", ErrUnknownFormat, pf.RGBBitCount)
	}
}

// Has16BitComponents reports whether pf is one of the 32-bit 10:10:10:2
// layouts that decode to 16 bits per channel.
func Has16BitComponents(pf PixelFormat) bool {
	if pf.RGBBitCount != 32 || pf.ABitMask != 0xc0000000 || pf.GBitMask != 0x000ffc00 {
		return false
	}

	// a2b10g10r10 and a2r10g10b10
	return (pf.RBitMask == 0x3ff00000 && pf.BBitMask == 0x000003ff) ||
		(pf.RBitMask == 0x000003ff && pf.BBitMask == 0x3ff00000)
}

// isLuminance16 reports whether pf is 16-bit single channel luminance.
func isLuminance16(f PixFormat, pf PixelFormat) bool {
	return f == FormatLuminance && pf.RGBBitCount == 16 && pf.RBitMask == 0xffff
}

// surfaceLayout returns the decoded channel count and element type of f.
func surfaceLayout(f PixFormat, pf PixelFormat) (int, DataType) {
	switch f {
	case FormatRGB:
		if Has16BitComponents(pf) {
			return 4, TypeUint16
		}
		return 3, TypeUint8
	case Format3DC, FormatRXGB:
		return 3, TypeUint8
	case FormatATI1N:
		return 1, TypeUint8
	case FormatLuminance:
		if isLuminance16(f, pf) {
			return 1, TypeUint16
		}
		return 1, TypeUint8
	case FormatLuminanceAlpha:
		return 2, TypeUint8
	case FormatARGB:
		if Has16BitComponents(pf) {
			return 4, TypeUint16
		}
		return 4, TypeUint8
	case FormatA16B16G16R16:
		return 4, TypeUint16
	case FormatR16F, FormatG16R16F, FormatR32F, FormatG32R32F:
		return 3, TypeFloat32
	case FormatA16B16G16R16F, FormatA32B32G32R32F:
		return 4, TypeFloat32
	default:
		return 4, TypeUint8
	}
}
