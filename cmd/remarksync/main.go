// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the remarksync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the remarksync CLI.
var rootCmd = &cobra.Command{
	Use:   "remarksync",
	Short: "Convert reMarkable notebooks to Excalidraw documents",
	Long: `remarksync decodes reMarkable .lines/.rm stroke files (format revisions
3, 5 and 6) and converts them into .excalidraw drawing documents.

Use convert for individual files, sync to mirror a copied device tree
into an output tree (re-converting only the pages that changed), and
inspect to examine a file without converting it.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./remarksync.yaml or ~/.config/remarksync/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("remarksync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "remarksync"))
		}
	}

	defaults := types.DefaultConvertConfig()
	viper.SetDefault("convert.preserve_layers", defaults.PreserveLayers)
	viper.SetDefault("convert.include_eraser", defaults.IncludeEraser)
	viper.SetDefault("convert.stroke_width_scale", defaults.StrokeWidthScale)

	viper.SetEnvPrefix("REMARKSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the resolved viper state (config file,
// environment, defaults) into the typed configuration.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// convertConfig resolves the conversion settings: config file and
// environment first, explicit command-line flags on top.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	full, err := loadConfig()
	if err != nil {
		return types.ConvertConfig{}, err
	}
	cfg := full.Convert

	if cmd.Flags().Changed("flatten-layers") {
		flatten, _ := cmd.Flags().GetBool("flatten-layers")
		cfg.PreserveLayers = !flatten
	}
	if cmd.Flags().Changed("include-eraser") {
		cfg.IncludeEraser, _ = cmd.Flags().GetBool("include-eraser")
	}
	if cmd.Flags().Changed("scale") {
		cfg.StrokeWidthScale, _ = cmd.Flags().GetFloat64("scale")
	}
	if cmd.Flags().Changed("styles") {
		cfg.StylesPath, _ = cmd.Flags().GetString("styles")
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
