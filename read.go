package dds

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// DecodeOptions configures texture decoding.
type DecodeOptions struct {
	// KeepDXTC stores the compressed payload of block formats on each
	// decoded surface.
	KeepDXTC bool
	// MaxLevels limits the decoded mip levels per face; 0 decodes all.
	MaxLevels int
	// Workers limits parallel level decoding; 0 means no limit.
	Workers int
}

// levelJob is one stored level waiting to be decoded.
type levelJob struct {
	face, level int
	w, h, d     int
	data        []byte
}

// Decode reads a DDS or EDDS texture with all faces and mip levels.
// Nil opts decodes every level.
func Decode(r io.Reader, opts *DecodeOptions) (*Texture, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	br := bufio.NewReader(r)
	header, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if err := header.Check(); err != nil {
		return nil, err
	}

	format, _, err := DecodePixelFormat(header)
	if err != nil {
		return nil, err
	}

	width, err := intFromU32(header.Width)
	if err != nil {
		return nil, err
	}
	height, err := intFromU32(header.Height)
	if err != nil {
		return nil, err
	}
	depth := 1
	if header.IsVolume() {
		if depth, err = intFromU32(header.Depth); err != nil {
			return nil, err
		}
	}

	sides := []uint32{0}
	if header.IsCubemap() {
		sides = cubeSides(header.Caps2)
		if len(sides) == 0 {
			return nil, fmt.Errorf("%w: cubemap without faces", ErrInvalidHeader)
		}
	}

	levels := header.LevelCount()
	keep := levels
	if opts.MaxLevels > 0 && opts.MaxLevels < keep {
		keep = opts.MaxLevels
	}

	sizes := make([]int, levels)
	for i := range sizes {
		sizes[i], err = levelSize(format, header.PixelFormat,
			mipDimension(width, i), mipDimension(height, i), mipDimension(depth, i))
		if err != nil {
			return nil, err
		}
	}

	tex := &Texture{Header: header, Format: format, Faces: make([]*Face, len(sides))}
	var jobs []levelJob

	if peek, _ := br.Peek(4); header.IsEnfusion() && isEDDSTable(peek) {
		if header.IsCubemap() {
			return nil, fmt.Errorf("%w: EDDS cubemap", ErrUnsupported)
		}
		raw, err := readEDDSLevels(br, sizes)
		if err != nil {
			return nil, err
		}
		tex.Faces[0] = &Face{Mipmaps: make([]*Surface, keep)}
		for i := 0; i < keep; i++ {
			jobs = append(jobs, newLevelJob(0, i, width, height, depth, raw[i]))
		}
	} else {
		for fi, side := range sides {
			tex.Faces[fi] = &Face{Side: side, Mipmaps: make([]*Surface, keep)}
			for i := 0; i < levels; i++ {
				if i >= keep {
					if _, err := io.CopyN(io.Discard, br, int64(sizes[i])); err != nil {
						return nil, fmt.Errorf("%w: face %d mipmap %d: %v", ErrReadLevel, fi, i, err)
					}
					continue
				}

				data, err := readExactly(br, sizes[i])
				if err != nil {
					return nil, fmt.Errorf("%w: face %d mipmap %d: %v", ErrReadLevel, fi, i, err)
				}
				jobs = append(jobs, newLevelJob(fi, i, width, height, depth, data))
			}
		}
	}

	g := new(errgroup.Group)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for _, job := range jobs {
		g.Go(func() error {
			s, err := decompressLevel(job.data, format, header.PixelFormat, job.w, job.h, job.d)
			if err != nil {
				return fmt.Errorf("%w: face %d mipmap %d: %v", ErrDecompressLevel, job.face, job.level, err)
			}
			if opts.KeepDXTC && format.IsCompressed() {
				s.DXTC = job.data
				s.DXTCFormat = format
			}
			tex.Faces[job.face].Mipmaps[job.level] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tex, nil
}

// readExactly reads n bytes from r. The buffer grows with the data read,
// not with n.
func readExactly(r io.Reader, n int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, len(data), n)
	}

	return data, nil
}

func newLevelJob(face, level, width, height, depth int, data []byte) levelJob {
	return levelJob{
		face:  face,
		level: level,
		w:     mipDimension(width, level),
		h:     mipDimension(height, level),
		d:     mipDimension(depth, level),
		data:  data,
	}
}

// DecodeConfig reads the image size and colour model without decoding
// texel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	if err := header.Check(); err != nil {
		return image.Config{}, err
	}

	format, _, err := DecodePixelFormat(header)
	if err != nil {
		return image.Config{}, err
	}

	width, err := intFromU32(header.Width)
	if err != nil {
		return image.Config{}, err
	}
	height, err := intFromU32(header.Height)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      width,
		Height:     height,
		ColorModel: colorModel(format, header.PixelFormat),
	}, nil
}

// colorModel returns the model of the images produced for format f.
func colorModel(f PixFormat, pf PixelFormat) color.Model {
	channels, typ := surfaceLayout(f, pf)
	switch {
	case typ == TypeUint8 && channels == 1:
		return color.GrayModel
	case typ == TypeUint8:
		return color.NRGBAModel
	case typ == TypeUint16 && channels == 1:
		return color.Gray16Model
	default:
		return color.NRGBA64Model
	}
}

// DecodeImage decodes the top level of the first face (the first slice of
// volume textures).
func DecodeImage(r io.Reader) (image.Image, error) {
	tex, err := Decode(r, &DecodeOptions{MaxLevels: 1})
	if err != nil {
		return nil, err
	}

	return tex.Faces[0].Mipmaps[0].Image()
}

// ReadConfig reads DDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(f)
}

// Read reads and decodes the top level of a DDS or EDDS file.
func Read(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeImage(f)
}

// ReadTexture reads every face and level of a DDS or EDDS file.
func ReadTexture(path string, opts *DecodeOptions) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, opts)
}
