package dds

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/woozymasta/bcn"
)

// benchMainFlowImage builds a deterministic image used by IO benchmarks.
func benchMainFlowImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Deterministic pattern with mixed low/high frequencies.
			img.Set(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),        //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff),       //nolint:gosec // bounded by mask
				B: uint8((x ^ y ^ (x >> 2)) & 0xff), //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}
	return img
}

// benchMainFlowOptionsDXT5 defines a representative EDDS DXT5 configuration.
func benchMainFlowOptionsDXT5(useBCn bool) *EncodeOptions {
	return &EncodeOptions{
		Format:   FormatDXT5,
		UseBCn:   useBCn,
		EDDS:     true,
		Compress: true,
		BCn: &bcn.EncodeOptions{
			QualityLevel: bcn.QualityLevelFast,
		},
	}
}

// benchMainFlowOptionsARGB defines a representative EDDS BGRA8 configuration.
func benchMainFlowOptionsARGB() *EncodeOptions {
	return &EncodeOptions{
		Format:   FormatARGB,
		EDDS:     true,
		Compress: true,
	}
}

// benchMainFlowInputPath prepares a benchmark file for read benchmarks.
func benchMainFlowInputPath(b *testing.B, img image.Image, opts *EncodeOptions) string {
	b.Helper()

	path := filepath.Join(b.TempDir(), "main_flow_input.edds")
	if err := WriteWithOptions(img, path, opts); err != nil {
		b.Fatalf("prepare input file: %v", err)
	}

	return path
}

// benchMainFlowPayloads pre-encodes mip payloads used by container-only benchmarks.
func benchMainFlowPayloads(b *testing.B, img image.Image, format PixFormat) [][]byte {
	b.Helper()

	mips, err := generateMipmaps(img, 0)
	if err != nil {
		b.Fatalf("prepare mipmaps: %v", err)
	}

	payloads := make([][]byte, len(mips))
	for i, mip := range mips {
		data, err := Compress(mip, format)
		if err != nil {
			b.Fatalf("prepare payloads (mipmap %d): %v", i, err)
		}

		payloads[i] = data
	}

	return payloads
}

// benchPayloadBytes computes total payload bytes for throughput reporting.
func benchPayloadBytes(payloads [][]byte) int64 {
	var total int64
	for _, p := range payloads {
		total += int64(len(p))
	}

	return total
}

func BenchmarkMainFlowWriteDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "main_flow_write_dxt5.edds")

	for _, useBCn := range []bool{false, true} {
		name := "builtin"
		if useBCn {
			name = "bcn"
		}
		opts := benchMainFlowOptionsDXT5(useBCn)

		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(img.Pix)))
			b.ResetTimer()

			for b.Loop() {
				if err := WriteWithOptions(img, path, opts); err != nil {
					b.Fatalf("write: %v", err)
				}
			}
		})
	}
}

func BenchmarkMainFlowWriteARGB(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "main_flow_write_argb.edds")
	opts := benchMainFlowOptionsARGB()

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if err := WriteWithOptions(img, path, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkContainerWriteLevelsDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	payloads := benchMainFlowPayloads(b, img, FormatDXT5)
	payloadBytes := benchPayloadBytes(payloads)

	b.Run("COPY", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(payloadBytes)
		b.ResetTimer()

		for b.Loop() {
			var buf bytes.Buffer
			if err := writeEDDSLevels(&buf, payloads, false, 0); err != nil {
				b.Fatalf("write levels (COPY): %v", err)
			}
		}
	})

	b.Run("LZ4", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(payloadBytes)
		b.ResetTimer()

		for b.Loop() {
			var buf bytes.Buffer
			if err := writeEDDSLevels(&buf, payloads, true, 0); err != nil {
				b.Fatalf("write levels (LZ4): %v", err)
			}
		}
	})
}

func BenchmarkMainFlowReadDXT5(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := benchMainFlowInputPath(b, img, benchMainFlowOptionsDXT5(false))

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if _, err := Read(path); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

func BenchmarkMainFlowReadARGB(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	path := benchMainFlowInputPath(b, img, benchMainFlowOptionsARGB())

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))
	b.ResetTimer()

	for b.Loop() {
		if _, err := Read(path); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

func BenchmarkFlipDXTC(b *testing.B) {
	img := benchMainFlowImage(1024, 1024)
	data, err := CompressImage(img, FormatDXT5)
	if err != nil {
		b.Fatalf("compress: %v", err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for b.Loop() {
		if err := FlipDXTC(data, FormatDXT5, 1024, 1024, 1); err != nil {
			b.Fatalf("flip: %v", err)
		}
	}
}
