package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mightytreefolk/ReMarkSync/internal/convert"
	"github.com/mightytreefolk/ReMarkSync/internal/syncer"
	"github.com/mightytreefolk/ReMarkSync/internal/syncstate"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror a reMarkable document tree into an .excalidraw tree",
	Long: `Sync discovers documents under the source tree, converts the pages
whose modification times changed since the last run, and writes the
results into the output tree, preserving the device's folder hierarchy.
Sync state lives in a SQLite database under the output directory.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("source", "", "root of the copied reMarkable tree")
	syncCmd.Flags().String("out", "", "root of the output tree")
	syncCmd.Flags().Bool("force", false, "re-convert every page regardless of sync state")
	syncCmd.Flags().Float64("scale", 0, "stroke width scale (default 0.5)")
	syncCmd.Flags().Bool("include-eraser", false, "keep eraser strokes in the output")
	syncCmd.Flags().Bool("flatten-layers", false, "do not group strokes by source layer")
	syncCmd.Flags().String("styles", "", "YAML style sheet overriding pen/color defaults")

	rootCmd.AddCommand(syncCmd)
}

// stateDir returns where the sync database lives for an output tree.
func stateDir(outDir string) string {
	return filepath.Join(outDir, ".remarksync")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.Sync.SourceDir
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Sync.OutputDir
	}
	if source == "" || out == "" {
		return fmt.Errorf("source and output directories required: pass --source/--out or set sync.source_dir/sync.output_dir")
	}

	convertCfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := convert.OptionsFromConfig(convertCfg)
	if err != nil {
		return err
	}

	store, err := syncstate.Open(stateDir(out))
	if err != nil {
		return err
	}
	defer store.Close()

	force, _ := cmd.Flags().GetBool("force")
	s := &syncer.Syncer{
		Store:     store,
		Converter: convert.New(),
		Options:   opts,
		Force:     force,
	}

	result, err := s.Sync(cmd.Context(), source, out, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed", result.Failed)
	}
	return nil
}
