package dds

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/woozymasta/bcn"
)

func TestBCnFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   PixFormat
		want bcn.Format
	}{
		{FormatDXT1, bcn.FormatDXT1},
		{FormatDXT3, bcn.FormatDXT3},
		{FormatDXT5, bcn.FormatDXT5},
		{FormatATI1N, bcn.FormatBC4},
		{Format3DC, bcn.FormatUnknown},
		{FormatRXGB, bcn.FormatUnknown},
		{FormatARGB, bcn.FormatUnknown},
	}
	for _, tc := range tests {
		if got := bcnFormat(tc.in); got != tc.want {
			t.Errorf("bcnFormat(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompressBCn(t *testing.T) {
	t.Parallel()

	src := newTestSurface(t, 16, 16, gradient)
	opts := &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelFast}

	for _, f := range []PixFormat{FormatDXT1, FormatDXT5} {
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()

			data, err := compressBCn(src, f, opts)
			if err != nil {
				t.Fatalf("compressBCn: %v", err)
			}
			got, err := Decompress(data, f, 16, 16, 1)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if e := meanError(t, src, got, 3); e > 16 {
				t.Fatalf("mean error %.2f", e)
			}
		})
	}

	if _, err := compressBCn(src, Format3DC, opts); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for 3DC, got %v", err)
	}

	vol, err := NewSurface(4, 4, 2, 4, TypeUint8)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if _, err := compressBCn(vol, FormatDXT1, opts); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for volume, got %v", err)
	}
}

func TestCompressSurfaceFallback(t *testing.T) {
	t.Parallel()

	src := newTestSurface(t, 8, 8, gradient)
	for _, f := range []PixFormat{Format3DC, FormatRXGB, FormatARGB} {
		want, err := Compress(src, f)
		if err != nil {
			t.Fatalf("Compress(%s): %v", f, err)
		}
		got, err := compressSurface(src, f, true, nil)
		if err != nil {
			t.Fatalf("compressSurface(%s): %v", f, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s did not use the built-in compressor", f)
		}
	}
}

// Blocks from the built-in compressor decode the same with bcn.
func TestBuiltinBlocksDecodeWithBCn(t *testing.T) {
	t.Parallel()

	src := newTestSurface(t, 16, 16, gradient)
	for _, f := range []PixFormat{FormatDXT1, FormatDXT5} {
		data, err := Compress(src, f)
		if err != nil {
			t.Fatalf("Compress(%s): %v", f, err)
		}
		ours, err := Decompress(data, f, 16, 16, 1)
		if err != nil {
			t.Fatalf("Decompress(%s): %v", f, err)
		}

		var theirs image.Image
		theirs, err = bcn.DecodeImageWithOptions(data, 16, 16, bcnFormat(f), nil)
		if err != nil {
			t.Fatalf("bcn decode %s: %v", f, err)
		}
		if theirs.Bounds().Dx() != 16 || theirs.Bounds().Dy() != 16 {
			t.Fatalf("bcn decoded %v", theirs.Bounds())
		}

		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				r, g, b, _ := theirs.At(x, y).RGBA()
				px := texelAt(ours, x, y)
				for c, v := range []uint32{r >> 8, g >> 8, b >> 8} {
					if d := int(v) - int(px[c]); d > 4 || d < -4 {
						t.Fatalf("%s texel (%d,%d) channel %d: bcn %d, ours %d", f, x, y, c, v, px[c])
					}
				}
			}
		}
	}
}

func TestGenerateMipmaps(t *testing.T) {
	t.Parallel()

	img := testImage(16, 8)

	mips, err := generateMipmaps(img, 0)
	if err != nil {
		t.Fatalf("generateMipmaps: %v", err)
	}
	if len(mips) != 5 {
		t.Fatalf("generated %d levels, want 5", len(mips))
	}
	for i, s := range mips {
		if s.Width != mipDimension(16, i) || s.Height != mipDimension(8, i) {
			t.Fatalf("level %d is %dx%d", i, s.Width, s.Height)
		}
	}

	mips, err = generateMipmaps(img, 2)
	if err != nil {
		t.Fatalf("generateMipmaps: %v", err)
	}
	if len(mips) != 2 {
		t.Fatalf("generated %d levels, want 2", len(mips))
	}
}

func TestMipLevelCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, d int
		want    int
	}{
		{1, 1, 1, 1},
		{2, 1, 1, 2},
		{256, 256, 1, 9},
		{8, 2, 1, 4},
		{4, 4, 16, 5},
		{5, 3, 1, 3},
	}
	for _, tc := range tests {
		if got := mipLevelCount(tc.w, tc.h, tc.d); got != tc.want {
			t.Errorf("mipLevelCount(%d, %d, %d) = %d, want %d", tc.w, tc.h, tc.d, got, tc.want)
		}
	}

	if mipDimension(5, 1) != 2 || mipDimension(5, 3) != 1 || mipDimension(1, 10) != 1 {
		t.Fatalf("mipDimension halving wrong")
	}
}
