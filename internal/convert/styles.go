// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// PenStyle describes how strokes drawn with one tool are rendered.
type PenStyle struct {
	// WidthMultiplier scales the stroke's base width before the
	// user-facing scale is applied.
	WidthMultiplier float64

	// PressureSensitive selects whether the decoded per-point pressure
	// is carried into the output or replaced by a uniform value.
	PressureSensitive bool

	Opacity     int // 0-100
	Roughness   int
	StrokeStyle string

	// SimulatePressure asks the renderer to synthesize pressure from
	// drawing speed instead of the pressure array.
	SimulatePressure bool
}

// fallbackPenStyle is used for tool ids outside the known set. The
// mapping is total: unknown pens degrade to this, never to an error.
var fallbackPenStyle = PenStyle{
	WidthMultiplier:   1.0,
	PressureSensitive: true,
	Opacity:           100,
	Roughness:         1,
	StrokeStyle:       "solid",
	SimulatePressure:  false,
}

// fallbackColor is used for palette indexes outside the known set.
const fallbackColor = "#000000"

func defaultPenStyles() map[types.Pen]PenStyle {
	ballpoint := PenStyle{WidthMultiplier: 0.8, PressureSensitive: true, Opacity: 100, StrokeStyle: "solid"}
	fineliner := PenStyle{WidthMultiplier: 0.6, Opacity: 100, StrokeStyle: "solid"}
	marker := PenStyle{WidthMultiplier: 1.8, Opacity: 100, StrokeStyle: "solid"}
	highlighter := PenStyle{WidthMultiplier: 3.0, Opacity: 30, StrokeStyle: "solid"}
	pencil := PenStyle{WidthMultiplier: 0.7, PressureSensitive: true, Opacity: 80, Roughness: 1, StrokeStyle: "solid"}
	mechanical := PenStyle{WidthMultiplier: 0.5, PressureSensitive: true, Opacity: 70, Roughness: 1, StrokeStyle: "solid"}
	brush := PenStyle{WidthMultiplier: 1.5, PressureSensitive: true, Opacity: 100, StrokeStyle: "solid", SimulatePressure: true}
	calligraphy := PenStyle{WidthMultiplier: 1.2, PressureSensitive: true, Opacity: 100, StrokeStyle: "solid"}
	eraser := PenStyle{WidthMultiplier: 2.0, Opacity: 100, StrokeStyle: "solid"}

	return map[types.Pen]PenStyle{
		types.PenBallpoint1:        ballpoint,
		types.PenBallpoint2:        ballpoint,
		types.PenFineliner1:        fineliner,
		types.PenFineliner2:        fineliner,
		types.PenMarker1:           marker,
		types.PenMarker2:           marker,
		types.PenHighlighter1:      highlighter,
		types.PenHighlighter2:      highlighter,
		types.PenPencil1:           pencil,
		types.PenPencil2:           pencil,
		types.PenMechanicalPencil1: mechanical,
		types.PenMechanicalPencil2: mechanical,
		types.PenBrush1:            brush,
		types.PenBrush2:            brush,
		types.PenCalligraphy:       calligraphy,
		types.PenEraser:            eraser,
		types.PenEraseArea:         eraser,
	}
}

func defaultPalette() map[types.Color]string {
	return map[types.Color]string{
		types.ColorBlack:       "#000000",
		types.ColorGray:        "#808080",
		types.ColorWhite:       "#ffffff",
		types.ColorYellow:      "#f5d94e",
		types.ColorGreen:       "#3cb371",
		types.ColorPink:        "#ff70c8",
		types.ColorBlue:        "#4a7bd8",
		types.ColorRed:         "#d84a4a",
		types.ColorGrayOverlap: "#bfbfbf",
	}
}

// StyleSheet is a total mapping from pen and color ids to rendering
// characteristics. Lookups never fail; ids outside the tables resolve
// to the fallbacks.
type StyleSheet struct {
	pens   map[types.Pen]PenStyle
	colors map[types.Color]string
}

// DefaultStyles returns the built-in pen and color tables.
func DefaultStyles() *StyleSheet {
	return &StyleSheet{pens: defaultPenStyles(), colors: defaultPalette()}
}

// Pen resolves a tool id to its rendering style.
func (s *StyleSheet) Pen(p types.Pen) PenStyle {
	if style, ok := s.pens[p]; ok {
		return style
	}
	return fallbackPenStyle
}

// Color resolves a palette index to a display color.
func (s *StyleSheet) Color(c types.Color) string {
	if hex, ok := s.colors[c]; ok {
		return hex
	}
	return fallbackColor
}
