package types

// ConvertConfig holds the user-tunable settings for stroke-to-element
// conversion.
type ConvertConfig struct {
	// PreserveLayers groups strokes from the same source layer under a
	// shared Excalidraw group id (default true).
	PreserveLayers bool `json:"preserve_layers" yaml:"preserve_layers" mapstructure:"preserve_layers"`

	// IncludeEraser keeps eraser-tool strokes in the output
	// (default false).
	IncludeEraser bool `json:"include_eraser" yaml:"include_eraser" mapstructure:"include_eraser"`

	// StrokeWidthScale is a global multiplier applied on top of the
	// per-pen width multipliers (default 0.5, sensible range 0.25-2.0).
	StrokeWidthScale float64 `json:"stroke_width_scale" yaml:"stroke_width_scale" mapstructure:"stroke_width_scale"`

	// StylesPath optionally points at a YAML style sheet overriding the
	// built-in pen and color tables.
	StylesPath string `json:"styles_path,omitempty" yaml:"styles_path,omitempty" mapstructure:"styles_path"`
}

// DefaultConvertConfig returns the conversion defaults.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		PreserveLayers:   true,
		IncludeEraser:    false,
		StrokeWidthScale: 0.5,
	}
}

// SyncConfig holds settings for the batch sync pipeline.
type SyncConfig struct {
	// SourceDir is the root of the copied reMarkable document tree.
	SourceDir string `json:"source_dir" yaml:"source_dir" mapstructure:"source_dir"`

	// OutputDir is the root of the mirrored .excalidraw tree. The
	// sync-state database lives under it.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// Config groups all tool configuration for the CLI.
type Config struct {
	Convert ConvertConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Sync    SyncConfig    `json:"sync" yaml:"sync" mapstructure:"sync"`
}
