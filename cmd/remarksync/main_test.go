package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigBindsTypedStructs(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("convert.preserve_layers", false)
	viper.Set("convert.include_eraser", true)
	viper.Set("convert.stroke_width_scale", 0.75)
	viper.Set("convert.styles_path", "/etc/remarksync/styles.yaml")
	viper.Set("sync.source_dir", "/mnt/device")
	viper.Set("sync.output_dir", "/srv/drawings")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Convert.PreserveLayers {
		t.Error("Convert.PreserveLayers = true, want false")
	}
	if !cfg.Convert.IncludeEraser {
		t.Error("Convert.IncludeEraser = false, want true")
	}
	if cfg.Convert.StrokeWidthScale != 0.75 {
		t.Errorf("Convert.StrokeWidthScale = %v, want 0.75", cfg.Convert.StrokeWidthScale)
	}
	if cfg.Convert.StylesPath != "/etc/remarksync/styles.yaml" {
		t.Errorf("Convert.StylesPath = %q", cfg.Convert.StylesPath)
	}
	if cfg.Sync.SourceDir != "/mnt/device" {
		t.Errorf("Sync.SourceDir = %q, want /mnt/device", cfg.Sync.SourceDir)
	}
	if cfg.Sync.OutputDir != "/srv/drawings" {
		t.Errorf("Sync.OutputDir = %q, want /srv/drawings", cfg.Sync.OutputDir)
	}
}

func TestConvertConfigFlagOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("convert.preserve_layers", true)
	viper.Set("convert.stroke_width_scale", 0.5)

	cmd := convertCmd
	require := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	require(cmd.Flags().Set("flatten-layers", "true"))
	require(cmd.Flags().Set("scale", "1.25"))
	defer func() {
		cmd.Flags().Set("flatten-layers", "false")
		cmd.Flags().Set("scale", "0")
	}()

	cfg, err := convertConfig(cmd)
	if err != nil {
		t.Fatalf("convertConfig: %v", err)
	}
	if cfg.PreserveLayers {
		t.Error("PreserveLayers = true, want false after --flatten-layers")
	}
	if cfg.StrokeWidthScale != 1.25 {
		t.Errorf("StrokeWidthScale = %v, want flag value 1.25", cfg.StrokeWidthScale)
	}
}
