package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/woozymasta/dds"
)

var (
	// Global flags
	verbose bool
	workers int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ddsconv",
	Short: "Inspect, convert and edit DDS and EDDS textures",
	Long: `ddsconv reads and writes DirectDraw Surface textures and the Enfusion
EDDS variant (LZ4 compressed mip levels).

Supported stored formats: BGRA8, BGR8, DXT1-DXT5, RXGB, ATI1N (BC4) and 3Dc.
Float, luminance and 16-bit files can be inspected and decoded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "j", 0, "Parallel level workers (0: unlimited)")

	decodeCmd.Flags().IntVar(&decodeLevel, "level", 0, "Mip level to export")
	decodeCmd.Flags().IntVar(&decodeFace, "face", 0, "Cubemap face to export (file order)")
	decodeCmd.Flags().IntVar(&decodeSlice, "slice", 0, "Volume slice to export")

	encodeCmd.Flags().StringVarP(&encodeFormat, "format", "f", "argb", "Stored format (argb, rgb, dxt1..dxt5, rxgb, ati1n, 3dc)")
	encodeCmd.Flags().IntVarP(&encodeMipmaps, "mipmaps", "m", 0, "Maximum mip levels (0: full chain)")
	encodeCmd.Flags().BoolVar(&encodeBCn, "bcn", false, "Compress DXT1/DXT3/DXT5/ATI1N with the bcn encoder")
	encodeCmd.Flags().BoolVar(&encodeFast, "fast", false, "Use the fastest bcn quality level")
	encodeCmd.Flags().BoolVar(&encodeEDDS, "edds", false, "Write an EDDS container (implied by the .edds extension)")
	encodeCmd.Flags().BoolVar(&encodeCompress, "compress", true, "LZ4 compress EDDS levels")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(flipCmd)
	rootCmd.AddCommand(invertAlphaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// storableFormat returns f when it can be written back, BGRA8 otherwise.
func storableFormat(f dds.PixFormat) dds.PixFormat {
	if f.IsCompressed() || f == dds.FormatARGB || f == dds.FormatRGB {
		return f
	}
	return dds.FormatARGB
}

// rewriteOptions keeps the container of the source texture.
func rewriteOptions(tex *dds.Texture) *dds.EncodeOptions {
	return &dds.EncodeOptions{
		Format:   storableFormat(tex.Format),
		Workers:  workers,
		EDDS:     tex.Header.IsEnfusion() && !tex.IsCubemap(),
		Compress: true,
	}
}
