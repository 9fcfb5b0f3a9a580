package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mightytreefolk/ReMarkSync/internal/lines"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Decode a .rm/.lines file and report its structure",
	Long: `Inspect decodes a stroke file without converting it and prints the
detected format revision, per-layer stroke and point counts, and the
pens used. With --json the full decoded stroke model is emitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "emit the decoded stroke model as JSON")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	nb, err := lines.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(nb)
	}

	fmt.Printf("format:  version %d\n", nb.Version)
	fmt.Printf("layers:  %d\n", len(nb.Layers))
	fmt.Printf("strokes: %d\n", nb.StrokeCount())

	pens := make(map[string]int)
	for li, layer := range nb.Layers {
		points := 0
		for _, s := range layer.Strokes {
			points += len(s.Points)
			pens[s.Pen.String()]++
		}
		fmt.Printf("  layer %d: %d strokes, %d points\n", li, len(layer.Strokes), points)
	}

	names := make([]string, 0, len(pens))
	for name := range pens {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("pen %s: %d strokes\n", name, pens[name])
	}
	return nil
}
