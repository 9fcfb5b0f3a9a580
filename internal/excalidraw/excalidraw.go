// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package excalidraw models the .excalidraw document format. The JSON
// shape is a compatibility contract with the Excalidraw application and
// is reproduced field for field, including the null sentinels; nothing
// here may be renamed or omitted without breaking consumers.
package excalidraw

import (
	"encoding/json"
)

// Scene-level constants required by the format.
const (
	SceneType    = "excalidraw"
	SceneVersion = 2

	DefaultViewBackground = "#ffffff"
	DefaultFontFamily     = 1

	TypeFreedraw = "freedraw"
	TypeImage    = "image"
)

// Scene is a complete .excalidraw document: the ordered element list,
// display defaults, and the embedded-file table for raster payloads.
// A Scene is assembled once and never mutated after being returned.
type Scene struct {
	Type     string                `json:"type"`
	Version  int                   `json:"version"`
	Source   string                `json:"source"`
	Elements []Element             `json:"elements"`
	AppState AppState              `json:"appState"`
	Files    map[string]BinaryFile `json:"files"`
}

// AppState carries the global display defaults.
type AppState struct {
	ViewBackgroundColor   string `json:"viewBackgroundColor"`
	CurrentItemFontFamily int    `json:"currentItemFontFamily"`
}

// BinaryFile is one entry in the embedded-file table.
type BinaryFile struct {
	MimeType string `json:"mimeType"`
	ID       string `json:"id"`
	DataURL  string `json:"dataURL"`
	Created  int64  `json:"created"`
}

// Element is either a *Freedraw or an *Image.
type Element interface {
	element()
}

// ElementBase holds the fields common to every element. The pointer
// and RawMessage fields marshal as the null sentinels the format
// requires when left unset.
type ElementBase struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	X               float64         `json:"x"`
	Y               float64         `json:"y"`
	Width           float64         `json:"width"`
	Height          float64         `json:"height"`
	Angle           float64         `json:"angle"`
	StrokeColor     string          `json:"strokeColor"`
	BackgroundColor string          `json:"backgroundColor"`
	FillStyle       string          `json:"fillStyle"`
	StrokeWidth     float64         `json:"strokeWidth"`
	StrokeStyle     string          `json:"strokeStyle"`
	Roughness       int             `json:"roughness"`
	Opacity         int             `json:"opacity"`
	GroupIDs        []string        `json:"groupIds"`
	FrameID         *string         `json:"frameId"`
	Roundness       json.RawMessage `json:"roundness"`
	Seed            int64           `json:"seed"`
	Version         int             `json:"version"`
	VersionNonce    int64           `json:"versionNonce"`
	IsDeleted       bool            `json:"isDeleted"`
	BoundElements   json.RawMessage `json:"boundElements"`
	Updated         int64           `json:"updated"`
	Link            *string         `json:"link"`
	Locked          bool            `json:"locked"`
}

// Freedraw is one hand-drawn stroke: a polyline of points relative to
// the element's bounding-box origin, with a per-point pressure array.
type Freedraw struct {
	ElementBase
	Points             [][]float64     `json:"points"`
	Pressures          []float64       `json:"pressures"`
	SimulatePressure   bool            `json:"simulatePressure"`
	LastCommittedPoint json.RawMessage `json:"lastCommittedPoint"`
}

func (*Freedraw) element() {}

// Image is an embedded raster element referencing a BinaryFile by id.
type Image struct {
	ElementBase
	Status string     `json:"status"`
	FileID string     `json:"fileId"`
	Scale  [2]float64 `json:"scale"`
}

func (*Image) element() {}

// NewScene returns an empty document carrying the format constants and
// display defaults. Elements and Files start non-nil so an empty scene
// marshals as [] and {} rather than null.
func NewScene(source string) *Scene {
	return &Scene{
		Type:     SceneType,
		Version:  SceneVersion,
		Source:   source,
		Elements: []Element{},
		AppState: AppState{
			ViewBackgroundColor:   DefaultViewBackground,
			CurrentItemFontFamily: DefaultFontFamily,
		},
		Files: map[string]BinaryFile{},
	}
}

// Marshal serializes the scene the way the Excalidraw app writes its
// own files: two-space indentation, trailing newline.
func (s *Scene) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
