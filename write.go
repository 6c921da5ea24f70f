package dds

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"golang.org/x/sync/errgroup"
)

// EncodeOptions configures texture encoding. The zero value writes a
// plain DDS with BGRA8 texels and a full mip chain.
type EncodeOptions struct {
	// Format is the stored pixel format. Supported: ARGB (BGRA8), RGB (BGR8),
	// DXT1..DXT5, RXGB, ATI1N and 3DC.
	Format PixFormat
	// MaxMipMaps limits the generated mip chain; 0 means full chain.
	MaxMipMaps int
	// UseBCn encodes DXT1, DXT3, DXT5 and ATI1N levels with the bcn
	// encoder, falling back to the built-in compressor on failure.
	UseBCn bool
	// BCn are passed to the bcn encoder (e.g. QualityLevel, Workers).
	BCn *bcn.EncodeOptions
	// Workers limits parallel level compression; 0 means no limit.
	Workers int
	// EDDS writes the Enfusion container: tagged header and a block table.
	EDDS bool
	// Compress stores EDDS levels as LZ4 where it pays off; false stores
	// COPY blocks.
	Compress bool
}

// Encode writes img as a single face texture with a mip chain generated
// from it. Nil opts uses the zero EncodeOptions.
func Encode(w io.Writer, img image.Image, opts *EncodeOptions) error {
	if opts == nil {
		opts = &EncodeOptions{}
	}

	mips, err := generateMipmaps(img, opts.MaxMipMaps)
	if err != nil {
		return err
	}

	return EncodeTexture(w, &Texture{Faces: []*Face{{Mipmaps: mips}}}, opts)
}

// EncodeTexture writes every face and level of t. Six faces covering all
// cube sides are written as a cubemap. Texture.Header and Texture.Format
// are ignored; the header is built from the surfaces and opts.
func EncodeTexture(w io.Writer, t *Texture, opts *EncodeOptions) error {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	if t == nil {
		return ErrEmptyTexture
	}

	faces, cubeFlags, err := cubemapInfo(t.Faces)
	if err != nil {
		return err
	}
	if cubeFlags != 0 && opts.EDDS {
		return fmt.Errorf("%w: EDDS cubemap", ErrUnsupported)
	}

	format := opts.Format
	if !format.IsCompressed() && format != FormatARGB && format != FormatRGB {
		return fmt.Errorf("%w: cannot encode %s", ErrInvalidFormat, format)
	}

	top, err := checkMipChain(faces)
	if err != nil {
		return err
	}
	levels := len(faces[0].Mipmaps)

	header, err := newHeader(headerSpec{
		format:    format,
		width:     top.Width,
		height:    top.Height,
		depth:     top.Depth,
		levels:    levels,
		hasAlpha:  format == FormatARGB,
		cubeFlags: cubeFlags,
		enfusion:  opts.EDDS,
	})
	if err != nil {
		return err
	}

	payloads := make([][][]byte, len(faces))
	g := new(errgroup.Group)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for fi, face := range faces {
		payloads[fi] = make([][]byte, levels)
		for i, s := range face.Mipmaps {
			g.Go(func() error {
				data, err := compressSurface(s, format, opts.UseBCn, opts.BCn)
				if err != nil {
					return fmt.Errorf("%w: face %d mipmap %d: %v", ErrCompressMipmap, fi, i, err)
				}
				payloads[fi][i] = data
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, header); err != nil {
		return err
	}

	if opts.EDDS {
		if err := writeEDDSLevels(bw, payloads[0], opts.Compress, opts.Workers); err != nil {
			return err
		}
	} else {
		for fi := range payloads {
			for i, data := range payloads[fi] {
				if _, err := bw.Write(data); err != nil {
					return fmt.Errorf("%w: face %d mipmap %d: %v", ErrWriteLevel, fi, i, err)
				}
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteLevel, err)
	}

	return nil
}

// checkMipChain verifies that every face holds the same halving chain and
// returns the top level.
func checkMipChain(faces []*Face) (*Surface, error) {
	for _, face := range faces {
		if face == nil || len(face.Mipmaps) == 0 || face.Mipmaps[0] == nil {
			return nil, ErrEmptyTexture
		}
	}
	top := faces[0].Mipmaps[0]

	for fi, face := range faces {
		if len(face.Mipmaps) != len(faces[0].Mipmaps) {
			return nil, fmt.Errorf("%w: face %d has %d levels", ErrFaceMismatch, fi, len(face.Mipmaps))
		}
		for i, s := range face.Mipmaps {
			if err := s.validate(); err != nil {
				return nil, fmt.Errorf("face %d mipmap %d: %w", fi, i, err)
			}
			if s.Width != mipDimension(top.Width, i) ||
				s.Height != mipDimension(top.Height, i) ||
				s.Depth != mipDimension(top.Depth, i) {
				return nil, fmt.Errorf("%w: face %d mipmap %d is %dx%dx%d", ErrMipmapSizeMismatch,
					fi, i, s.Width, s.Height, s.Depth)
			}
		}
	}

	return top, nil
}

// Write writes img to path as a BGRA8 DDS file with a full mip chain.
func Write(img image.Image, path string) error {
	return WriteWithOptions(img, path, nil)
}

// WriteWithOptions writes img to path with the given options.
func WriteWithOptions(img image.Image, path string, opts *EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	if err := Encode(f, img, opts); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	return nil
}

// WriteTexture writes every face and level of t to path.
func WriteTexture(t *Texture, path string, opts *EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	if err := EncodeTexture(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	return nil
}
