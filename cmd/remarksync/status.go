package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mightytreefolk/ReMarkSync/internal/syncstate"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the pages recorded in the sync state",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("out", "", "root of the output tree holding the sync state")
	statusCmd.Flags().Bool("json", false, "emit JSON instead of text")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Sync.OutputDir
	}
	if out == "" {
		return fmt.Errorf("output directory required: pass --out or set sync.output_dir")
	}

	store, err := syncstate.Open(stateDir(out))
	if err != nil {
		return err
	}
	defer store.Close()

	pages, err := store.Pages(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	if len(pages) == 0 {
		fmt.Println("no pages synced yet")
		return nil
	}
	for _, p := range pages {
		fmt.Printf("%s  %s -> %s\n", p.SyncedAt.Format(time.RFC3339), p.SourcePath, p.OutputPath)
	}
	fmt.Printf("\n%d page(s) tracked\n", len(pages))
	return nil
}
