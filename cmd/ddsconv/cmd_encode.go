package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/woozymasta/bcn"
	"go.uber.org/zap"

	"github.com/woozymasta/dds"
)

var (
	encodeFormat   string
	encodeMipmaps  int
	encodeBCn      bool
	encodeFast     bool
	encodeEDDS     bool
	encodeCompress bool
)

// encodeCmd writes an image as a texture
var encodeCmd = &cobra.Command{
	Use:   "encode [in.png] [out.dds]",
	Short: "Encode a PNG, JPEG or DDS image as DDS or EDDS",
	Long: `Encodes an image with a generated mip chain.

Examples:
  ddsconv encode -f dxt5 albedo.png albedo.dds
  ddsconv encode -f dxt1 --bcn --fast albedo.png albedo.edds`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	format, err := dds.ParsePixFormat(encodeFormat)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", dds.ErrOpenFile, in, err)
	}
	img, kind, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("decode %q: %w", in, err)
	}
	logger.Debug("input decoded", zap.String("in", in), zap.String("kind", kind), zap.Stringer("bounds", img.Bounds()))

	opts := &dds.EncodeOptions{
		Format:     format,
		MaxMipMaps: encodeMipmaps,
		UseBCn:     encodeBCn,
		Workers:    workers,
		EDDS:       encodeEDDS || strings.EqualFold(filepath.Ext(out), ".edds"),
		Compress:   encodeCompress,
	}
	if encodeFast {
		opts.BCn = &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelFast, Workers: workers}
	}

	if err := dds.WriteWithOptions(img, out, opts); err != nil {
		return err
	}

	logger.Info("encoded",
		zap.String("in", in),
		zap.String("out", out),
		zap.Stringer("format", format),
		zap.Bool("edds", opts.EDDS),
		zap.Bool("bcn", opts.UseBCn))

	return nil
}
