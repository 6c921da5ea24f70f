package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/dds"
)

var (
	decodeLevel int
	decodeFace  int
	decodeSlice int
)

// decodeCmd exports one level of a texture as PNG
var decodeCmd = &cobra.Command{
	Use:   "decode [in.dds] [out.png]",
	Short: "Decode a texture level to PNG",
	Long: `Decodes one mip level of a DDS or EDDS file and writes it as PNG.

Examples:
  ddsconv decode texture.edds texture.png
  ddsconv decode --level 2 --face 4 sky.dds sky_pz_2.png`,
	Args: cobra.ExactArgs(2),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	if decodeLevel < 0 || decodeFace < 0 || decodeSlice < 0 {
		return fmt.Errorf("level, face and slice must not be negative")
	}

	tex, err := dds.ReadTexture(in, &dds.DecodeOptions{MaxLevels: decodeLevel + 1, Workers: workers})
	if err != nil {
		return err
	}
	if decodeFace >= len(tex.Faces) {
		return fmt.Errorf("face %d out of range: texture has %d", decodeFace, len(tex.Faces))
	}
	mips := tex.Faces[decodeFace].Mipmaps
	if decodeLevel >= len(mips) {
		return fmt.Errorf("level %d out of range: texture has %d", decodeLevel, len(mips))
	}

	s := mips[decodeLevel]
	img, err := s.SliceImage(decodeSlice)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", dds.ErrCreateFile, out, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", dds.ErrCreateFile, out, err)
	}

	logger.Info("decoded",
		zap.String("in", in),
		zap.String("out", out),
		zap.Stringer("format", tex.Format),
		zap.Int("level", decodeLevel),
		zap.Int("width", s.Width),
		zap.Int("height", s.Height))

	return nil
}
