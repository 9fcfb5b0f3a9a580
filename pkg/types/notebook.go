// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared stroke model produced by the .lines
// decoder and consumed by the Excalidraw converter, plus the
// configuration structs bound by the CLI.
package types

// Version identifies the on-disk revision of a .lines/.rm file.
type Version int

const (
	VersionUnknown Version = 0
	Version3       Version = 3
	Version5       Version = 5
	Version6       Version = 6
)

// Pen is the drawing tool recorded with a stroke. The set is open:
// values outside the named constants are preserved as-is and resolve to
// a default style downstream.
type Pen int32

// Tool ids as written by the device. Firmware 2.x re-numbered the
// tools, so most appear twice.
const (
	PenBrush1            Pen = 0
	PenPencil1           Pen = 1
	PenBallpoint1        Pen = 2
	PenMarker1           Pen = 3
	PenFineliner1        Pen = 4
	PenHighlighter1      Pen = 5
	PenEraser            Pen = 6
	PenMechanicalPencil1 Pen = 7
	PenEraseArea         Pen = 8
	PenBrush2            Pen = 12
	PenMechanicalPencil2 Pen = 13
	PenPencil2           Pen = 14
	PenBallpoint2        Pen = 15
	PenMarker2           Pen = 16
	PenFineliner2        Pen = 17
	PenHighlighter2      Pen = 18
	PenCalligraphy       Pen = 21
)

// IsEraser reports whether the pen is one of the two eraser variants.
func (p Pen) IsEraser() bool {
	return p == PenEraser || p == PenEraseArea
}

func (p Pen) String() string {
	switch p {
	case PenBrush1, PenBrush2:
		return "paintbrush"
	case PenPencil1, PenPencil2:
		return "pencil"
	case PenBallpoint1, PenBallpoint2:
		return "ballpoint"
	case PenMarker1, PenMarker2:
		return "marker"
	case PenFineliner1, PenFineliner2:
		return "fineliner"
	case PenHighlighter1, PenHighlighter2:
		return "highlighter"
	case PenEraser:
		return "eraser"
	case PenMechanicalPencil1, PenMechanicalPencil2:
		return "mechanical-pencil"
	case PenEraseArea:
		return "erase-area"
	case PenCalligraphy:
		return "calligraphy"
	default:
		return "unknown"
	}
}

// Color is the palette index recorded with a stroke. Open enumeration,
// same contract as Pen.
type Color int32

const (
	ColorBlack       Color = 0
	ColorGray        Color = 1
	ColorWhite       Color = 2
	ColorYellow      Color = 3
	ColorGreen       Color = 4
	ColorPink        Color = 5
	ColorBlue        Color = 6
	ColorRed         Color = 7
	ColorGrayOverlap Color = 8
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorGray:
		return "gray"
	case ColorWhite:
		return "white"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorPink:
		return "pink"
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorGrayOverlap:
		return "gray-overlap"
	default:
		return "unknown"
	}
}

// Point is one sampled location along a stroke, in device coordinates
// with the origin at the top left. Pressure, width and speed are
// normalized to [0,1]; direction is in degrees [0,360].
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Pressure  float64 `json:"pressure"`
	Width     float64 `json:"width"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// Stroke is one continuous pen gesture.
type Stroke struct {
	Pen   Pen   `json:"pen"`
	Color Color `json:"color"`

	// Width is the base thickness in format units, before any
	// display-unit scaling.
	Width float64 `json:"width"`

	Points []Point `json:"points"`

	// LayerIndex is a back-reference to the containing layer within
	// the notebook that produced the stroke.
	LayerIndex int `json:"layer_index"`
}

// Layer is an ordered group of strokes, composited bottom to top.
type Layer struct {
	Strokes []Stroke `json:"strokes"`
}

// Notebook is one decoded page: its layers plus the detected format
// version.
type Notebook struct {
	Version Version `json:"version"`
	Layers  []Layer `json:"layers"`
}

// StrokeCount returns the total number of strokes across all layers.
func (n *Notebook) StrokeCount() int {
	total := 0
	for _, l := range n.Layers {
		total += len(l.Strokes)
	}
	return total
}
