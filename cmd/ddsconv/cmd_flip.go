package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/dds"
)

// flipCmd mirrors a texture vertically
var flipCmd = &cobra.Command{
	Use:   "flip [in] [out]",
	Short: "Flip every face and level vertically",
	Long: `Mirrors a texture top to bottom. Block compressed levels are flipped
without recompression when their height is a multiple of four.`,
	Args: cobra.ExactArgs(2),
	RunE: runFlip,
}

// invertAlphaCmd inverts the alpha of DXT3 and DXT5 textures
var invertAlphaCmd = &cobra.Command{
	Use:   "invert-alpha [in] [out]",
	Short: "Replace alpha a with 255-a in a DXT3 or DXT5 texture",
	Args:  cobra.ExactArgs(2),
	RunE:  runInvertAlpha,
}

func runFlip(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	tex, err := dds.ReadTexture(in, &dds.DecodeOptions{KeepDXTC: true, Workers: workers})
	if err != nil {
		return err
	}

	reused := 0
	for fi, face := range tex.Faces {
		for i, s := range face.Mipmaps {
			if err := s.Flip(); err != nil {
				return fmt.Errorf("face %d mipmap %d: %w", fi, i, err)
			}
			if s.DXTC != nil {
				reused++
			}
		}
	}

	opts := rewriteOptions(tex)
	if err := dds.WriteTexture(tex, out, opts); err != nil {
		return err
	}

	logger.Info("flipped",
		zap.String("in", in),
		zap.String("out", out),
		zap.Stringer("format", opts.Format),
		zap.Int("kept_payloads", reused))

	return nil
}

func runInvertAlpha(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	tex, err := dds.ReadTexture(in, &dds.DecodeOptions{KeepDXTC: true, Workers: workers})
	if err != nil {
		return err
	}
	if tex.Format != dds.FormatDXT3 && tex.Format != dds.FormatDXT5 {
		return fmt.Errorf("%w: %s has no invertible alpha blocks", dds.ErrInvalidFormat, tex.Format)
	}

	for fi, face := range tex.Faces {
		for i, s := range face.Mipmaps {
			if err := dds.InvertDXTCAlpha(s.DXTC, tex.Format, s.Width, s.Height, s.Depth); err != nil {
				return fmt.Errorf("face %d mipmap %d: %w", fi, i, err)
			}
			inverted, err := dds.Decompress(s.DXTC, tex.Format, s.Width, s.Height, s.Depth)
			if err != nil {
				return fmt.Errorf("face %d mipmap %d: %w", fi, i, err)
			}
			inverted.DXTC, inverted.DXTCFormat = s.DXTC, tex.Format
			face.Mipmaps[i] = inverted
		}
	}

	if err := dds.WriteTexture(tex, out, rewriteOptions(tex)); err != nil {
		return err
	}

	logger.Info("alpha inverted", zap.String("in", in), zap.String("out", out), zap.Stringer("format", tex.Format))

	return nil
}
