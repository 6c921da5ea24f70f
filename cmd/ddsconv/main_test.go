package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woozymasta/dds"
)

// resetFlags restores flag defaults and silences the logger.
func resetFlags() {
	logger = zap.NewNop()
	verbose, workers = false, 0
	decodeLevel, decodeFace, decodeSlice = 0, 0, 0
	encodeFormat, encodeMipmaps = "argb", 0
	encodeBCn, encodeFast, encodeEDDS, encodeCompress = false, false, false, true
}

func writePNG(t *testing.T, dir string, w, h int) (string, *image.NRGBA) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}

	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	return path, img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, img := writePNG(t, dir, 8, 8)
	cmd := &cobra.Command{}

	texPath := filepath.Join(dir, "out.dds")
	encodeMipmaps = 1
	require.NoError(t, runEncode(cmd, []string{in, texPath}))

	outPath := filepath.Join(dir, "out.png")
	require.NoError(t, runDecode(cmd, []string{texPath, outPath}))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	got, err := png.Decode(f)
	require.NoError(t, err)

	require.Equal(t, img.Bounds(), got.Bounds())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, img.NRGBAAt(x, y), color.NRGBAModel.Convert(got.At(x, y)), "texel (%d,%d)", x, y)
		}
	}
}

func TestInfo(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, _ := writePNG(t, dir, 16, 16)
	cmd := &cobra.Command{}

	texPath := filepath.Join(dir, "albedo.edds")
	encodeFormat = "dxt5"
	require.NoError(t, runEncode(cmd, []string{in, texPath}))

	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runInfo(cmd, []string{texPath}))

	text := out.String()
	assert.Contains(t, text, "container:  EDDS")
	assert.Contains(t, text, "format:     DXT5")
	assert.Contains(t, text, "fourcc:     DXT5")
	assert.Contains(t, text, "size:       16x16")
	assert.Contains(t, text, "mipmaps:    5")
	assert.Contains(t, text, "top level:  256 bytes")

	assert.ErrorIs(t, runInfo(cmd, []string{filepath.Join(dir, "missing.dds")}), dds.ErrOpenFile)
	assert.ErrorIs(t, runInfo(cmd, []string{in}), dds.ErrInvalidMagic)
}

func TestFlipTwiceRestoresFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, _ := writePNG(t, dir, 16, 8)
	cmd := &cobra.Command{}

	for _, name := range []string{"tex.dds", "tex.edds"} {
		orig := filepath.Join(dir, name)
		encodeFormat, encodeMipmaps = "dxt1", 2
		require.NoError(t, runEncode(cmd, []string{in, orig}))

		once := filepath.Join(dir, "once_"+name)
		twice := filepath.Join(dir, "twice_"+name)
		require.NoError(t, runFlip(cmd, []string{orig, once}))
		require.NoError(t, runFlip(cmd, []string{once, twice}))

		want, err := os.ReadFile(orig)
		require.NoError(t, err)
		flipped, err := os.ReadFile(once)
		require.NoError(t, err)
		got, err := os.ReadFile(twice)
		require.NoError(t, err)

		assert.NotEqual(t, want, flipped, name)
		assert.Equal(t, want, got, name)
	}
}

func TestFlipUncompressed(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, img := writePNG(t, dir, 4, 4)
	cmd := &cobra.Command{}

	texPath := filepath.Join(dir, "tex.dds")
	encodeMipmaps = 1
	require.NoError(t, runEncode(cmd, []string{in, texPath}))

	flipped := filepath.Join(dir, "flipped.dds")
	require.NoError(t, runFlip(cmd, []string{texPath, flipped}))

	got, err := dds.Read(flipped)
	require.NoError(t, err)
	nrgba, ok := got.(*image.NRGBA)
	require.True(t, ok, "got %T", got)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, img.NRGBAAt(x, 3-y), nrgba.NRGBAAt(x, y))
		}
	}
}

func TestInvertAlphaTwice(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, _ := writePNG(t, dir, 8, 8)
	cmd := &cobra.Command{}

	orig := filepath.Join(dir, "tex.dds")
	encodeFormat = "dxt5"
	require.NoError(t, runEncode(cmd, []string{in, orig}))

	once := filepath.Join(dir, "once.dds")
	twice := filepath.Join(dir, "twice.dds")
	require.NoError(t, runInvertAlpha(cmd, []string{orig, once}))
	require.NoError(t, runInvertAlpha(cmd, []string{once, twice}))

	want, err := os.ReadFile(orig)
	require.NoError(t, err)
	got, err := os.ReadFile(twice)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	argb := filepath.Join(dir, "argb.dds")
	encodeFormat = "argb"
	require.NoError(t, runEncode(cmd, []string{in, argb}))
	assert.ErrorIs(t, runInvertAlpha(cmd, []string{argb, once}), dds.ErrInvalidFormat)
}

func TestCommandErrors(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	in, _ := writePNG(t, dir, 4, 4)
	cmd := &cobra.Command{}

	encodeFormat = "bogus"
	assert.ErrorIs(t, runEncode(cmd, []string{in, filepath.Join(dir, "x.dds")}), dds.ErrInvalidFormat)

	encodeFormat = "dxt1"
	texPath := filepath.Join(dir, "tex.dds")
	require.NoError(t, runEncode(cmd, []string{in, texPath}))

	decodeLevel = 10
	assert.Error(t, runDecode(cmd, []string{texPath, filepath.Join(dir, "x.png")}))
	decodeLevel, decodeFace = 0, 3
	assert.Error(t, runDecode(cmd, []string{texPath, filepath.Join(dir, "x.png")}))
	decodeFace, decodeSlice = 0, 1
	assert.ErrorIs(t, runDecode(cmd, []string{texPath, filepath.Join(dir, "x.png")}), dds.ErrInvalidSurface)
	decodeSlice = -1
	assert.Error(t, runDecode(cmd, []string{texPath, filepath.Join(dir, "x.png")}))
}

func TestStorableFormat(t *testing.T) {
	tests := []struct {
		in   dds.PixFormat
		want dds.PixFormat
	}{
		{dds.FormatDXT1, dds.FormatDXT1},
		{dds.Format3DC, dds.Format3DC},
		{dds.FormatRGB, dds.FormatRGB},
		{dds.FormatLuminance, dds.FormatARGB},
		{dds.FormatA32B32G32R32F, dds.FormatARGB},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, storableFormat(tc.in), tc.in.String())
	}
}
