// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lines

import (
	"fmt"

	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// Sanity ceilings for count fields. These guard against corrupt files
// driving unbounded allocation; they are well above anything the device
// produces and are not format limits.
const (
	maxLayers  = 100
	maxStrokes = 100000
	maxPoints  = 100000
)

// Per-record sizes, used to validate counts against the remaining
// buffer before allocating.
const (
	pointSizeV3V5 = 6 * 4 // six packed float32 per point
	strokeHeadV3  = 5 * 4 // pen, color, reserved, width, point count
	strokeHeadV5  = 6 * 4 // v5 adds one reserved field
	layerHeadV3V5 = 4     // stroke count
)

// decodeFixed parses the revision 3/5 body: a layer count, then nested
// fixed-size stroke and point records. The two revisions share the
// layout except for one extra reserved field in the v5 stroke header.
// The first structural failure aborts the whole decode.
func decodeFixed(r *reader, version types.Version) ([]types.Layer, error) {
	layerCount, err := r.readInt32()
	if err != nil {
		return nil, decodeErr("reading layer count", r.off).wrap(err)
	}
	if layerCount < 0 || layerCount > maxLayers {
		return nil, decodeErr(fmt.Sprintf("implausible layer count %d", layerCount), r.off-4)
	}
	if int(layerCount)*layerHeadV3V5 > r.remaining() {
		return nil, decodeErr(fmt.Sprintf("layer count %d exceeds remaining data", layerCount), r.off-4)
	}

	layers := make([]types.Layer, 0, layerCount)
	for li := 0; li < int(layerCount); li++ {
		layer, err := decodeLayer(r, version, li)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func decodeLayer(r *reader, version types.Version, layerIndex int) (types.Layer, error) {
	strokeCount, err := r.readInt32()
	if err != nil {
		return types.Layer{}, &DecodeError{
			Msg: "reading stroke count", Offset: r.off, Layer: layerIndex, Stroke: -1, Err: err,
		}
	}

	headSize := strokeHeadV3
	if version == types.Version5 {
		headSize = strokeHeadV5
	}

	if strokeCount < 0 || strokeCount > maxStrokes {
		return types.Layer{}, &DecodeError{
			Msg:    fmt.Sprintf("implausible stroke count %d", strokeCount),
			Offset: r.off - 4, Layer: layerIndex, Stroke: -1,
		}
	}
	if int(strokeCount)*headSize > r.remaining() {
		return types.Layer{}, &DecodeError{
			Msg:    fmt.Sprintf("stroke count %d exceeds remaining data", strokeCount),
			Offset: r.off - 4, Layer: layerIndex, Stroke: -1,
		}
	}

	strokes := make([]types.Stroke, 0, strokeCount)
	for si := 0; si < int(strokeCount); si++ {
		stroke, err := decodeStroke(r, version, layerIndex)
		if err != nil {
			return types.Layer{}, &DecodeError{
				Msg: "reading stroke", Offset: r.off, Layer: layerIndex, Stroke: si, Err: err,
			}
		}
		strokes = append(strokes, stroke)
	}
	return types.Layer{Strokes: strokes}, nil
}

func decodeStroke(r *reader, version types.Version, layerIndex int) (types.Stroke, error) {
	pen, err := r.readInt32()
	if err != nil {
		return types.Stroke{}, fmt.Errorf("pen id: %w", err)
	}
	color, err := r.readInt32()
	if err != nil {
		return types.Stroke{}, fmt.Errorf("color id: %w", err)
	}
	if err := r.skip(4); err != nil { // reserved
		return types.Stroke{}, fmt.Errorf("reserved field: %w", err)
	}
	width, err := r.readFloat32()
	if err != nil {
		return types.Stroke{}, fmt.Errorf("base width: %w", err)
	}
	if version == types.Version5 {
		if err := r.skip(4); err != nil { // second reserved field, v5 only
			return types.Stroke{}, fmt.Errorf("reserved field: %w", err)
		}
	}

	pointCount, err := r.readInt32()
	if err != nil {
		return types.Stroke{}, fmt.Errorf("point count: %w", err)
	}
	if pointCount < 0 || pointCount > maxPoints {
		return types.Stroke{}, fmt.Errorf("implausible point count %d", pointCount)
	}
	if int(pointCount)*pointSizeV3V5 > r.remaining() {
		return types.Stroke{}, fmt.Errorf("point count %d exceeds remaining data", pointCount)
	}

	points := make([]types.Point, 0, pointCount)
	for i := 0; i < int(pointCount); i++ {
		p, err := decodePointV3V5(r)
		if err != nil {
			return types.Stroke{}, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}

	return types.Stroke{
		Pen:        types.Pen(pen),
		Color:      types.Color(color),
		Width:      float64(width),
		Points:     points,
		LayerIndex: layerIndex,
	}, nil
}

// decodePointV3V5 reads one 24-byte point record. Field order on the
// wire is x, y, speed, direction, width, pressure; note this differs
// from the revision 6 point record.
func decodePointV3V5(r *reader) (types.Point, error) {
	var vals [6]float32
	for i := range vals {
		v, err := r.readFloat32()
		if err != nil {
			return types.Point{}, err
		}
		vals[i] = v
	}
	return types.Point{
		X:         float64(vals[0]),
		Y:         float64(vals[1]),
		Speed:     float64(vals[2]),
		Direction: float64(vals[3]),
		Width:     float64(vals[4]),
		Pressure:  float64(vals[5]),
	}, nil
}

// wrap attaches a cause to a DecodeError built by decodeErr.
func (e *DecodeError) wrap(err error) *DecodeError {
	e.Err = err
	return e
}
