package dds

import (
	"bytes"
	"fmt"
	"io"

	"github.com/woozymasta/dds/endian"
)

// Magic is the four byte signature that starts every DDS file.
const Magic = "DDS "

const (
	// HeaderSize is the value of Header.Size (bytes after the magic).
	HeaderSize = 124
	// PixelFormatSize is the value of PixelFormat.Size.
	PixelFormatSize = 32
	// FileHeaderSize is the on-disk size of magic plus header.
	FileHeaderSize = 4 + HeaderSize
)

// Header flags.
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelFormat = 0x00001000
	FlagMipMapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000
)

// Pixel format flags.
const (
	PFAlphaPixels = 0x00000001
	PFAlpha       = 0x00000002
	PFFourCC      = 0x00000004
	PFRGB         = 0x00000040
	PFLuminance   = 0x00020000
)

// Caps1 flags.
const (
	CapsComplex = 0x00000008
	CapsTexture = 0x00001000
	CapsMipMap  = 0x00400000
)

// Caps2 flags.
const (
	Caps2Cubemap   = 0x00000200
	Caps2PositiveX = 0x00000400
	Caps2NegativeX = 0x00000800
	Caps2PositiveY = 0x00001000
	Caps2NegativeY = 0x00002000
	Caps2PositiveZ = 0x00004000
	Caps2NegativeZ = 0x00008000
	Caps2Volume    = 0x00200000

	// Caps2AllFaces is the union of the six face flags.
	Caps2AllFaces = Caps2PositiveX | Caps2NegativeX | Caps2PositiveY |
		Caps2NegativeY | Caps2PositiveZ | Caps2NegativeZ
)

// CubemapSides is the number of faces in a complete cubemap.
const CubemapSides = 6

// CubemapDirections lists the face flags in file order.
var CubemapDirections = [CubemapSides]uint32{
	Caps2PositiveX,
	Caps2NegativeX,
	Caps2PositiveY,
	Caps2NegativeY,
	Caps2PositiveZ,
	Caps2NegativeZ,
}

// enfusionTag marks headers written for the Enfusion engine ("ENF1").
const enfusionTag = 0x31464e45

// MakeFourCC packs four characters into a little-endian code.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// FourCCString renders a code as its four characters.
func FourCCString(code uint32) string {
	return string([]byte{
		byte(code),
		byte(code >> 8),
		byte(code >> 16),
		byte(code >> 24),
	})
}

// PixelFormat is the DDS_PIXELFORMAT structure.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the DDS_HEADER structure that follows the magic.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved          [11]uint32
	PixelFormat       PixelFormat
	Caps1             uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	TextureStage      uint32
}

// ReadHeader reads the magic and header from r. A zero depth is reported
// as one. A wrong magic yields ErrInvalidMagic; call Check to validate the
// remaining fields.
func ReadHeader(r io.Reader) (*Header, error) {
	er := endian.NewReader(r)

	magic := er.Bytes(4)
	if err := er.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, magic)
	}

	h := &Header{}
	h.Size = er.LittleUint32()
	h.Flags = er.LittleUint32()
	h.Height = er.LittleUint32()
	h.Width = er.LittleUint32()
	h.PitchOrLinearSize = er.LittleUint32()
	h.Depth = er.LittleUint32()
	h.MipMapCount = er.LittleUint32()
	for i := range h.Reserved {
		h.Reserved[i] = er.LittleUint32()
	}

	pf := &h.PixelFormat
	pf.Size = er.LittleUint32()
	pf.Flags = er.LittleUint32()
	pf.FourCC = er.LittleUint32()
	pf.RGBBitCount = er.LittleUint32()
	pf.RBitMask = er.LittleUint32()
	pf.GBitMask = er.LittleUint32()
	pf.BBitMask = er.LittleUint32()
	pf.ABitMask = er.LittleUint32()

	h.Caps1 = er.LittleUint32()
	h.Caps2 = er.LittleUint32()
	h.Caps3 = er.LittleUint32()
	h.Caps4 = er.LittleUint32()
	h.TextureStage = er.LittleUint32()

	if err := er.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	if h.Depth == 0 {
		h.Depth = 1
	}

	return h, nil
}

// Check validates the header fields. Some writers store "DDS " in the size
// field; such files are accepted.
func (h *Header) Check() error {
	if h.Size != HeaderSize && h.Size != MakeFourCC('D', 'D', 'S', ' ') {
		return fmt.Errorf("%w: header size %d", ErrInvalidHeader, h.Size)
	}
	if h.PixelFormat.Size != PixelFormatSize {
		return fmt.Errorf("%w: pixel format size %d", ErrInvalidHeader, h.PixelFormat.Size)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidHeader, h.Width, h.Height)
	}

	return nil
}

// IsCubemap reports whether the header describes a cubemap.
func (h *Header) IsCubemap() bool {
	return h.Caps1&CapsComplex != 0 && h.Caps2&Caps2Cubemap != 0
}

// IsVolume reports whether the header describes a volume texture.
func (h *Header) IsVolume() bool {
	return h.Depth > 1 && h.Caps2&Caps2Volume != 0
}

// LevelCount returns the number of mipmap levels stored per face.
// Files with the count flag missing or a zero count hold a single level.
func (h *Header) LevelCount() int {
	if h.Flags&FlagMipMapCount == 0 || h.MipMapCount == 0 {
		return 1
	}
	if h.MipMapCount > 32 {
		return 32
	}

	return int(h.MipMapCount)
}

// IsEnfusion reports whether the header carries the Enfusion tag.
func (h *Header) IsEnfusion() bool {
	return h.Reserved[1] == enfusionTag
}

// IsDDS reports whether r starts with the DDS magic. The read position is
// restored before returning.
func IsDDS(r io.ReadSeeker) (bool, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}

	var sig [4]byte
	n, readErr := io.ReadFull(r, sig[:])
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return false, err
	}
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return false, readErr
	}

	return n == 4 && bytes.Equal(sig[:], []byte(Magic)), nil
}

// WriteHeader writes the magic followed by h.
func WriteHeader(w io.Writer, h *Header) error {
	ew := endian.NewWriter(w)

	_, _ = ew.Write([]byte(Magic))
	ew.PutLittleUint32(h.Size)
	ew.PutLittleUint32(h.Flags)
	ew.PutLittleUint32(h.Height)
	ew.PutLittleUint32(h.Width)
	ew.PutLittleUint32(h.PitchOrLinearSize)
	ew.PutLittleUint32(h.Depth)
	ew.PutLittleUint32(h.MipMapCount)
	for _, v := range h.Reserved {
		ew.PutLittleUint32(v)
	}

	pf := h.PixelFormat
	ew.PutLittleUint32(pf.Size)
	ew.PutLittleUint32(pf.Flags)
	ew.PutLittleUint32(pf.FourCC)
	ew.PutLittleUint32(pf.RGBBitCount)
	ew.PutLittleUint32(pf.RBitMask)
	ew.PutLittleUint32(pf.GBitMask)
	ew.PutLittleUint32(pf.BBitMask)
	ew.PutLittleUint32(pf.ABitMask)

	ew.PutLittleUint32(h.Caps1)
	ew.PutLittleUint32(h.Caps2)
	ew.PutLittleUint32(h.Caps3)
	ew.PutLittleUint32(h.Caps4)
	ew.PutLittleUint32(h.TextureStage)

	if err := ew.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}

	return nil
}

// headerSpec describes the texture a header is built for.
type headerSpec struct {
	format    PixFormat
	width     int
	height    int
	depth     int
	levels    int
	hasAlpha  bool
	cubeFlags uint32
	enfusion  bool
}

// newHeader builds the header written in front of encoded data.
func newHeader(spec headerSpec) (*Header, error) {
	w32, err := u32FromInt(spec.width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(spec.height)
	if err != nil {
		return nil, err
	}
	d32, err := u32FromInt(spec.depth)
	if err != nil {
		return nil, err
	}
	levels, err := u32FromInt(spec.levels)
	if err != nil {
		return nil, err
	}

	h := &Header{
		Size:        HeaderSize,
		Flags:       FlagMipMapCount | FlagWidth | FlagHeight | FlagCaps | FlagPixelFormat,
		Height:      h32,
		Width:       w32,
		MipMapCount: levels,
		Caps1:       CapsTexture,
	}
	h.PixelFormat.Size = PixelFormatSize
	if spec.enfusion {
		h.Reserved[1] = enfusionTag
	}

	if spec.depth > 1 {
		h.Flags |= FlagDepth
		h.Depth = d32
		h.Caps2 |= Caps2Volume
	}

	switch spec.format {
	case FormatARGB, FormatRGB:
		bytesPerPixel := 3
		if spec.hasAlpha {
			bytesPerPixel = 4
		}
		pitch, err := sizeProduct(spec.width, bytesPerPixel)
		if err != nil {
			return nil, err
		}
		h.Flags |= FlagPitch
		h.PitchOrLinearSize, err = u32FromInt(pitch)
		if err != nil {
			return nil, err
		}

		pf := &h.PixelFormat
		pf.Flags = PFRGB
		pf.RGBBitCount = 24
		pf.RBitMask = 0x00ff0000
		pf.GBitMask = 0x0000ff00
		pf.BBitMask = 0x000000ff
		if spec.hasAlpha {
			pf.Flags |= PFAlphaPixels
			pf.RGBBitCount = 32
			pf.ABitMask = 0xff000000
		}

	default:
		fourCC := spec.format.FourCC()
		if fourCC == 0 || !spec.format.IsCompressed() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, spec.format)
		}
		size, err := DXTCSize(spec.format, spec.width, spec.height, spec.depth)
		if err != nil {
			return nil, err
		}
		h.Flags |= FlagLinearSize
		h.PitchOrLinearSize, err = u32FromInt(size)
		if err != nil {
			return nil, err
		}
		h.PixelFormat.Flags = PFFourCC
		h.PixelFormat.FourCC = fourCC
	}

	if spec.levels > 1 {
		h.Caps1 |= CapsMipMap | CapsComplex
	}
	if spec.cubeFlags != 0 {
		h.Caps1 |= CapsComplex
		h.Caps2 |= spec.cubeFlags | Caps2Cubemap
	}

	return h, nil
}
