// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns decoded notebooks into Excalidraw scenes. A
// conversion is a pure function of the notebook and options apart from
// the injected id, seed and clock generators, which tests replace with
// deterministic stand-ins.
package convert

import (
	"encoding/base64"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mightytreefolk/ReMarkSync/internal/excalidraw"
	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// Stroke widths outside this range render degenerately in Excalidraw.
const (
	minStrokeWidth = 1
	maxStrokeWidth = 16
)

// Image is a raster page background attached by the caller before
// conversion. Width and Height are the native pixel dimensions.
type Image struct {
	Data     []byte
	MimeType string
	Width    float64
	Height   float64
}

// Options holds the per-conversion configuration.
type Options struct {
	// PreserveLayers groups all strokes from one source layer under a
	// shared group id.
	PreserveLayers bool

	// IncludeEraser keeps eraser-tool strokes; by default they are
	// silently dropped before element creation.
	IncludeEraser bool

	// StrokeWidthScale is the user-facing width multiplier applied on
	// top of the per-pen multipliers.
	StrokeWidthScale float64

	// Source is recorded in the scene's source field.
	Source string

	// Styles overrides the built-in pen/color tables; nil means
	// DefaultStyles.
	Styles *StyleSheet

	// Background, when set, is prepended as a locked image element so
	// strokes draw on top of it.
	Background *Image
}

// DefaultOptions returns the documented conversion defaults.
func DefaultOptions() Options {
	return Options{
		PreserveLayers:   true,
		IncludeEraser:    false,
		StrokeWidthScale: 0.5,
		Source:           "remarksync",
	}
}

// OptionsFromConfig builds Options from the CLI configuration, loading
// the style sheet when one is configured.
func OptionsFromConfig(cfg types.ConvertConfig) (Options, error) {
	opts := DefaultOptions()
	opts.PreserveLayers = cfg.PreserveLayers
	opts.IncludeEraser = cfg.IncludeEraser
	if cfg.StrokeWidthScale > 0 {
		opts.StrokeWidthScale = cfg.StrokeWidthScale
	}
	if cfg.StylesPath != "" {
		sheet, err := LoadStyleSheet(cfg.StylesPath)
		if err != nil {
			return Options{}, err
		}
		opts.Styles = sheet
	}
	return opts, nil
}

// Converter produces Excalidraw scenes. The three function fields are
// the only sources of nondeterminism in a conversion.
type Converter struct {
	NewID   func() string
	NewSeed func() int64
	Now     func() time.Time
}

// New returns a Converter backed by UUID ids and math/rand seeds.
func New() *Converter {
	return &Converter{
		NewID:   uuid.NewString,
		NewSeed: func() int64 { return rand.Int63n(1 << 31) },
		Now:     time.Now,
	}
}

// Convert builds a complete scene from a decoded notebook. It has no
// failure path for well-formed input: empty strokes are skipped,
// eraser strokes are dropped per the options, and unknown pen or color
// ids resolve to fallback styles.
func (c *Converter) Convert(nb *types.Notebook, opts Options) *excalidraw.Scene {
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	scale := opts.StrokeWidthScale
	if scale <= 0 {
		scale = DefaultOptions().StrokeWidthScale
	}

	scene := excalidraw.NewScene(opts.Source)
	now := c.Now().UnixMilli()

	if opts.Background != nil {
		c.addBackground(scene, opts.Background, now)
	}

	// One shared group id per source layer, scoped to this call.
	layerGroups := make(map[int]string)

	for _, layer := range nb.Layers {
		for _, stroke := range layer.Strokes {
			if len(stroke.Points) == 0 {
				continue
			}
			if !opts.IncludeEraser && stroke.Pen.IsEraser() {
				continue
			}

			groupIDs := []string{}
			if opts.PreserveLayers {
				id, ok := layerGroups[stroke.LayerIndex]
				if !ok {
					id = c.NewID()
					layerGroups[stroke.LayerIndex] = id
				}
				groupIDs = []string{id}
			}

			scene.Elements = append(scene.Elements,
				c.strokeElement(stroke, styles, scale, groupIDs, now))
		}
	}

	return scene
}

func (c *Converter) strokeElement(stroke types.Stroke, styles *StyleSheet, scale float64, groupIDs []string, now int64) *excalidraw.Freedraw {
	style := styles.Pen(stroke.Pen)
	color := styles.Color(stroke.Color)
	width := clamp(stroke.Width*style.WidthMultiplier*scale, minStrokeWidth, maxStrokeWidth)

	// Excalidraw wants element-local coordinates: translate every point
	// to be relative to the bounding box's top-left corner.
	minX, minY := stroke.Points[0].X, stroke.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range stroke.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	points := make([][]float64, len(stroke.Points))
	pressures := make([]float64, len(stroke.Points))
	for i, p := range stroke.Points {
		points[i] = []float64{p.X - minX, p.Y - minY}
		if style.PressureSensitive {
			pressures[i] = clamp(p.Pressure, 0, 1)
		} else {
			pressures[i] = 0.5
		}
	}

	return &excalidraw.Freedraw{
		ElementBase: excalidraw.ElementBase{
			ID:              c.NewID(),
			Type:            excalidraw.TypeFreedraw,
			X:               minX,
			Y:               minY,
			Width:           maxX - minX,
			Height:          maxY - minY,
			StrokeColor:     color,
			BackgroundColor: "transparent",
			FillStyle:       "solid",
			StrokeWidth:     width,
			StrokeStyle:     style.StrokeStyle,
			Roughness:       style.Roughness,
			Opacity:         style.Opacity,
			GroupIDs:        groupIDs,
			Seed:            c.NewSeed(),
			Version:         1,
			VersionNonce:    c.NewSeed(),
			Updated:         now,
		},
		Points:           points,
		Pressures:        pressures,
		SimulatePressure: style.SimulatePressure,
	}
}

// addBackground records the raster payload in the embedded-file table
// and prepends a locked, non-interactive image element at the origin.
func (c *Converter) addBackground(scene *excalidraw.Scene, img *Image, now int64) {
	fileID := c.NewID()
	scene.Files[fileID] = excalidraw.BinaryFile{
		MimeType: img.MimeType,
		ID:       fileID,
		DataURL:  "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		Created:  now,
	}

	scene.Elements = append(scene.Elements, &excalidraw.Image{
		ElementBase: excalidraw.ElementBase{
			ID:              c.NewID(),
			Type:            excalidraw.TypeImage,
			X:               0,
			Y:               0,
			Width:           img.Width,
			Height:          img.Height,
			StrokeColor:     "transparent",
			BackgroundColor: "transparent",
			FillStyle:       "solid",
			StrokeWidth:     1,
			StrokeStyle:     "solid",
			Roughness:       1,
			Opacity:         100,
			GroupIDs:        []string{},
			Seed:            c.NewSeed(),
			Version:         1,
			VersionNonce:    c.NewSeed(),
			Updated:         now,
			Locked:          true,
		},
		Status: "saved",
		FileID: fileID,
		Scale:  [2]float64{1, 1},
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
