package dds

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
)

// bcnFormat maps the formats whose block layout bcn produces unchanged.
func bcnFormat(f PixFormat) bcn.Format {
	switch f {
	case FormatDXT1:
		return bcn.FormatDXT1
	case FormatDXT3:
		return bcn.FormatDXT3
	case FormatDXT5:
		return bcn.FormatDXT5
	case FormatATI1N:
		return bcn.FormatBC4
	default:
		return bcn.FormatUnknown
	}
}

// compressBCn encodes a single slice surface with the bcn encoder.
func compressBCn(s *Surface, f PixFormat, opts *bcn.EncodeOptions) ([]byte, error) {
	format := bcnFormat(f)
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: bcn encoding of %s", ErrUnsupported, f)
	}
	if s.Depth != 1 {
		return nil, fmt.Errorf("%w: bcn encoding of volume textures", ErrUnsupported)
	}

	rgba, err := s.toRGBA8()
	if err != nil {
		return nil, err
	}
	img := &image.NRGBA{
		Pix:    rgba,
		Stride: s.Width * 4,
		Rect:   image.Rect(0, 0, s.Width, s.Height),
	}

	data, _, _, err := bcn.EncodeImageWithOptions(img, format, opts)
	if err != nil {
		return nil, err
	}

	want, err := DXTCSize(f, s.Width, s.Height, 1)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: bcn produced %d bytes, want %d", ErrMipmapSizeMismatch, len(data), want)
	}

	return data, nil
}

// compressSurface encodes one level. A kept DXTC payload of format f is
// reused as is; otherwise bcn is preferred when useBCn is set, falling back
// to the built-in compressor.
func compressSurface(s *Surface, f PixFormat, useBCn bool, opts *bcn.EncodeOptions) ([]byte, error) {
	if len(s.DXTC) > 0 && s.DXTCFormat == f {
		if want, err := DXTCSize(f, s.Width, s.Height, s.Depth); err == nil && len(s.DXTC) == want {
			return s.DXTC, nil
		}
	}

	if useBCn && bcnFormat(f) != bcn.FormatUnknown && s.Depth == 1 {
		if data, err := compressBCn(s, f, opts); err == nil {
			return data, nil
		}
	}

	return Compress(s, f)
}
