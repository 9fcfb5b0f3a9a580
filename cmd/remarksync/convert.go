package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mightytreefolk/ReMarkSync/internal/convert"
	"github.com/mightytreefolk/ReMarkSync/internal/lines"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert .rm/.lines files to .excalidraw documents",
	Long: `Convert decodes each given stroke file and writes the Excalidraw
document next to it (or into --out). Files are processed independently:
one file failing to decode does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "", "output directory (default: alongside each input)")
	convertCmd.Flags().Float64("scale", 0, "stroke width scale (default 0.5)")
	convertCmd.Flags().Bool("include-eraser", false, "keep eraser strokes in the output")
	convertCmd.Flags().Bool("flatten-layers", false, "do not group strokes by source layer")
	convertCmd.Flags().String("styles", "", "YAML style sheet overriding pen/color defaults")
	convertCmd.Flags().String("background", "", "PNG or JPEG page background to embed behind the strokes")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := convert.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	if bgPath, _ := cmd.Flags().GetString("background"); bgPath != "" {
		bg, err := loadBackground(bgPath)
		if err != nil {
			return err
		}
		opts.Background = bg
	}

	outDir, _ := cmd.Flags().GetString("out")
	conv := convert.New()

	failed := 0
	for _, path := range args {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		target := strings.TrimSuffix(path, filepath.Ext(path)) + ".excalidraw"
		if outDir != "" {
			target = filepath.Join(outDir, base+".excalidraw")
		}

		if err := convertFile(conv, opts, path, target); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", base, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "converted: %s -> %s\n", base, target)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func convertFile(conv *convert.Converter, opts convert.Options, path, target string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	nb, err := lines.Decode(data)
	if err != nil {
		return err
	}
	out, err := conv.Convert(nb, opts).Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(target, out, 0o644)
}

// loadBackground reads a raster file and measures it without a full
// decode; the payload is embedded as-is.
func loadBackground(path string) (*convert.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading background: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("measuring background %s: %w", path, err)
	}

	mime := "image/png"
	if format == "jpeg" {
		mime = "image/jpeg"
	}
	return &convert.Image{
		Data:     data,
		MimeType: mime,
		Width:    float64(cfg.Width),
		Height:   float64(cfg.Height),
	}, nil
}
