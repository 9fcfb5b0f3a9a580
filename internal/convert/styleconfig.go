// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// styleFile is the on-disk YAML representation of style overrides. Pens
// and colors are keyed by name; absent fields keep their defaults.
type styleFile struct {
	Pens   map[string]penOverride `yaml:"pens"`
	Colors map[string]string      `yaml:"colors"`
}

type penOverride struct {
	WidthMultiplier   *float64 `yaml:"width_multiplier"`
	PressureSensitive *bool    `yaml:"pressure_sensitive"`
	Opacity           *int     `yaml:"opacity"`
	Roughness         *int     `yaml:"roughness"`
	StrokeStyle       *string  `yaml:"stroke_style"`
	SimulatePressure  *bool    `yaml:"simulate_pressure"`
}

// penNames maps an override key to every tool id it covers; most tools
// have an old and a new firmware id.
var penNames = map[string][]types.Pen{
	"paintbrush":        {types.PenBrush1, types.PenBrush2},
	"pencil":            {types.PenPencil1, types.PenPencil2},
	"ballpoint":         {types.PenBallpoint1, types.PenBallpoint2},
	"marker":            {types.PenMarker1, types.PenMarker2},
	"fineliner":         {types.PenFineliner1, types.PenFineliner2},
	"highlighter":       {types.PenHighlighter1, types.PenHighlighter2},
	"eraser":            {types.PenEraser},
	"mechanical-pencil": {types.PenMechanicalPencil1, types.PenMechanicalPencil2},
	"erase-area":        {types.PenEraseArea},
	"calligraphy":       {types.PenCalligraphy},
}

var colorNames = map[string]types.Color{
	"black":        types.ColorBlack,
	"gray":         types.ColorGray,
	"white":        types.ColorWhite,
	"yellow":       types.ColorYellow,
	"green":        types.ColorGreen,
	"pink":         types.ColorPink,
	"blue":         types.ColorBlue,
	"red":          types.ColorRed,
	"gray-overlap": types.ColorGrayOverlap,
}

// LoadStyleSheet reads a YAML style file and applies it on top of the
// built-in tables. Unknown pen or color names are an error so typos do
// not silently leave the defaults in place.
func LoadStyleSheet(path string) (*StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style sheet: %w", err)
	}

	var file styleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing style sheet %s: %w", path, err)
	}

	sheet := DefaultStyles()

	for name, override := range file.Pens {
		pens, ok := penNames[name]
		if !ok {
			return nil, fmt.Errorf("style sheet %s: unknown pen %q", path, name)
		}
		for _, pen := range pens {
			style := sheet.Pen(pen)
			override.apply(&style)
			sheet.pens[pen] = style
		}
	}

	for name, hex := range file.Colors {
		color, ok := colorNames[name]
		if !ok {
			return nil, fmt.Errorf("style sheet %s: unknown color %q", path, name)
		}
		sheet.colors[color] = hex
	}

	return sheet, nil
}

func (o penOverride) apply(style *PenStyle) {
	if o.WidthMultiplier != nil {
		style.WidthMultiplier = *o.WidthMultiplier
	}
	if o.PressureSensitive != nil {
		style.PressureSensitive = *o.PressureSensitive
	}
	if o.Opacity != nil {
		style.Opacity = *o.Opacity
	}
	if o.Roughness != nil {
		style.Roughness = *o.Roughness
	}
	if o.StrokeStyle != nil {
		style.StrokeStyle = *o.StrokeStyle
	}
	if o.SimulatePressure != nil {
		style.SimulatePressure = *o.SimulatePressure
	}
}
