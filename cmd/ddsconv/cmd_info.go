package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/dds"
)

// infoCmd prints the header of a texture
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Print header information of a DDS or EDDS file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", dds.ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	h, err := dds.ReadHeader(f)
	if err != nil {
		return err
	}
	if err := h.Check(); err != nil {
		return err
	}
	format, size, err := dds.DecodePixelFormat(h)
	if err != nil {
		return err
	}
	logger.Debug("header read",
		zap.String("path", path),
		zap.Uint32("flags", h.Flags),
		zap.Uint32("pf_flags", h.PixelFormat.Flags),
		zap.Uint32("caps1", h.Caps1),
		zap.Uint32("caps2", h.Caps2))

	container := "DDS"
	if h.IsEnfusion() {
		container = "EDDS"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:       %s\n", path)
	fmt.Fprintf(out, "container:  %s\n", container)
	fmt.Fprintf(out, "format:     %s\n", format)
	if h.PixelFormat.Flags&dds.PFFourCC != 0 {
		fmt.Fprintf(out, "fourcc:     %s\n", dds.FourCCString(h.PixelFormat.FourCC))
	} else {
		fmt.Fprintf(out, "bits:       %d (r %08x g %08x b %08x a %08x)\n", h.PixelFormat.RGBBitCount,
			h.PixelFormat.RBitMask, h.PixelFormat.GBitMask, h.PixelFormat.BBitMask, h.PixelFormat.ABitMask)
	}
	fmt.Fprintf(out, "size:       %dx%d\n", h.Width, h.Height)
	if h.IsVolume() {
		fmt.Fprintf(out, "depth:      %d\n", h.Depth)
	}
	if h.IsCubemap() {
		faces := 0
		for _, side := range dds.CubemapDirections {
			if h.Caps2&side != 0 {
				faces++
			}
		}
		fmt.Fprintf(out, "cubemap:    %d faces\n", faces)
	}
	fmt.Fprintf(out, "mipmaps:    %d\n", h.LevelCount())
	fmt.Fprintf(out, "top level:  %d bytes\n", size)

	return nil
}
