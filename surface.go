package dds

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/woozymasta/dds/endian"
)

// DataType is the element type of decoded surface data.
type DataType uint8

// Element types.
const (
	TypeUint8 DataType = iota + 1
	TypeUint16
	TypeFloat32
)

// Size returns the element size in bytes.
func (t DataType) Size() int {
	switch t {
	case TypeUint8:
		return 1
	case TypeUint16:
		return 2
	case TypeFloat32:
		return 4
	default:
		return 0
	}
}

func (t DataType) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeFloat32:
		return "float32"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// Surface is one decoded mipmap level. Pix holds Depth slices of Height
// rows of Width texels with Channels elements each, tightly packed.
// Multi-byte elements are little endian. Channels are ordered R, G, B, A
// (1 channel is luminance, 2 channels luminance and alpha).
type Surface struct {
	Width    int
	Height   int
	Depth    int
	Channels int
	Type     DataType
	Pix      []byte

	// DXTC keeps the compressed payload when requested by DecodeOptions.
	DXTC       []byte
	DXTCFormat PixFormat
}

// NewSurface allocates a zeroed surface.
func NewSurface(width, height, depth, channels int, typ DataType) (*Surface, error) {
	if width <= 0 || height <= 0 || depth <= 0 || channels < 1 || channels > 4 || typ.Size() == 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d, %d channels of %s", ErrInvalidSurface, width, height, depth, channels, typ)
	}

	size, err := sizeProduct(width, height, depth, channels, typ.Size())
	if err != nil {
		return nil, err
	}

	return &Surface{
		Width:    width,
		Height:   height,
		Depth:    depth,
		Channels: channels,
		Type:     typ,
		Pix:      make([]byte, size),
	}, nil
}

// BytesPerPixel returns the size of one texel.
func (s *Surface) BytesPerPixel() int {
	return s.Channels * s.Type.Size()
}

// Stride returns the size of one row.
func (s *Surface) Stride() int {
	return s.Width * s.BytesPerPixel()
}

// Flip mirrors every slice vertically in place. A kept DXTC payload is
// flipped with it when the height is a multiple of four and dropped
// otherwise.
func (s *Surface) Flip() error {
	if err := s.validate(); err != nil {
		return err
	}

	stride := s.Stride()
	tmp := make([]byte, stride)
	for z := 0; z < s.Depth; z++ {
		plane := s.Pix[z*s.PlaneSize() : (z+1)*s.PlaneSize()]
		for top, bottom := 0, s.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
			a := plane[top*stride : (top+1)*stride]
			b := plane[bottom*stride : (bottom+1)*stride]
			copy(tmp, a)
			copy(a, b)
			copy(b, tmp)
		}
	}

	if len(s.DXTC) == 0 {
		return nil
	}
	if s.Height%4 != 0 {
		s.DXTC = nil
		return nil
	}

	return FlipDXTC(s.DXTC, s.DXTCFormat, s.Width, s.Height, s.Depth)
}

// PlaneSize returns the size of one depth slice.
func (s *Surface) PlaneSize() int {
	return s.Height * s.Stride()
}

// validate checks that Pix matches the declared dimensions.
func (s *Surface) validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	if s.Width <= 0 || s.Height <= 0 || s.Depth <= 0 || s.Channels < 1 || s.Channels > 4 || s.Type.Size() == 0 {
		return fmt.Errorf("%w: %dx%dx%d, %d channels of %s", ErrInvalidSurface, s.Width, s.Height, s.Depth, s.Channels, s.Type)
	}
	if want := s.PlaneSize() * s.Depth; len(s.Pix) != want {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSurface, len(s.Pix), want)
	}

	return nil
}

// Image returns the first depth slice as an image.
func (s *Surface) Image() (image.Image, error) {
	return s.SliceImage(0)
}

// SliceImage returns depth slice z as an image. 8-bit surfaces become
// *image.Gray (1 channel) or *image.NRGBA, 16-bit surfaces *image.Gray16
// or *image.NRGBA64. Float surfaces are clamped to [0, 1] into
// *image.NRGBA64.
func (s *Surface) SliceImage(z int) (image.Image, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if z < 0 || z >= s.Depth {
		return nil, fmt.Errorf("%w: slice %d of %d", ErrInvalidSurface, z, s.Depth)
	}

	plane := s.Pix[z*s.PlaneSize() : (z+1)*s.PlaneSize()]
	rect := image.Rect(0, 0, s.Width, s.Height)
	n := s.Width * s.Height

	switch s.Type {
	case TypeUint8:
		if s.Channels == 1 {
			img := image.NewGray(rect)
			copy(img.Pix, plane)
			return img, nil
		}
		img := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			src := plane[i*s.Channels : (i+1)*s.Channels]
			dst := img.Pix[i*4 : i*4+4]
			switch s.Channels {
			case 2:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
			case 3:
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
			default:
				copy(dst, src)
			}
		}
		return img, nil

	case TypeUint16:
		// image.Gray16 and image.NRGBA64 store big-endian samples.
		be := make([]byte, len(plane))
		copy(be, plane)
		if err := endian.SwapBuffer(be, 2); err != nil {
			return nil, err
		}
		if s.Channels == 1 {
			img := image.NewGray16(rect)
			copy(img.Pix, be)
			return img, nil
		}
		img := image.NewNRGBA64(rect)
		for i := 0; i < n; i++ {
			src := be[i*s.Channels*2 : (i+1)*s.Channels*2]
			dst := img.Pix[i*8 : i*8+8]
			switch s.Channels {
			case 2:
				copy(dst[0:2], src[0:2])
				copy(dst[2:4], src[0:2])
				copy(dst[4:6], src[0:2])
				copy(dst[6:8], src[2:4])
			case 3:
				copy(dst[0:6], src[0:6])
				dst[6], dst[7] = 0xff, 0xff
			default:
				copy(dst, src)
			}
		}
		return img, nil

	case TypeFloat32:
		img := image.NewNRGBA64(rect)
		for i := 0; i < n; i++ {
			var c [4]uint16
			c[3] = 0xffff
			for ch := 0; ch < s.Channels; ch++ {
				off := (i*s.Channels + ch) * 4
				c[ch] = unitToUint16(math.Float32frombits(binary.LittleEndian.Uint32(plane[off:])))
			}
			switch s.Channels {
			case 1:
				c[1], c[2] = c[0], c[0]
			case 2:
				c[3] = c[1]
				c[1], c[2] = c[0], c[0]
			}
			img.SetNRGBA64(i%s.Width, i/s.Width, color.NRGBA64{R: c[0], G: c[1], B: c[2], A: c[3]})
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: type %s", ErrInvalidSurface, s.Type)
}

// unitToUint16 maps [0, 1] to [0, 65535], clamping outside values and NaN.
func unitToUint16(f float32) uint16 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 0xffff
	}

	return uint16(f*65535 + 0.5)
}

// SurfaceFromImage converts img to an 8-bit RGBA surface with straight
// (non-premultiplied) alpha.
func SurfaceFromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	s, err := NewSurface(b.Dx(), b.Dy(), 1, 4, TypeUint8)
	if err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	stride := s.Stride()
	for y := 0; y < s.Height; y++ {
		off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
		copy(s.Pix[y*stride:(y+1)*stride], nrgba.Pix[off:off+stride])
	}

	return s, nil
}

// toRGBA8 returns the surface as 8-bit RGBA texels, converting from other
// channel counts and element types. Wider types keep their high byte.
func (s *Surface) toRGBA8() ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Type == TypeUint8 && s.Channels == 4 {
		return s.Pix, nil
	}

	n := s.Width * s.Height * s.Depth
	out := make([]byte, n*4)
	size := s.Type.Size()
	for i := 0; i < n; i++ {
		var c [4]uint8
		c[3] = 0xff
		for ch := 0; ch < s.Channels; ch++ {
			off := (i*s.Channels + ch) * size
			switch s.Type {
			case TypeUint8:
				c[ch] = s.Pix[off]
			case TypeUint16:
				c[ch] = s.Pix[off+1]
			case TypeFloat32:
				c[ch] = uint8(unitToUint16(math.Float32frombits(binary.LittleEndian.Uint32(s.Pix[off:]))) >> 8)
			}
		}
		switch s.Channels {
		case 1:
			c[1], c[2] = c[0], c[0]
		case 2:
			c[3] = c[1]
			c[1], c[2] = c[0], c[0]
		}
		copy(out[i*4:], c[:])
	}

	return out, nil
}
