// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lines

import (
	"encoding/binary"
	"fmt"

	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

const (
	// blockTypeLine marks a line-definition block in the revision 6
	// block stream. Other block types (layer metadata, grouping, text)
	// are skipped by their declared length.
	blockTypeLine = 5

	// maxBlockLen is an absolute ceiling on a declared block length.
	maxBlockLen = 10_000_000
)

// Wire types carried in the low 4 bits of a field tag.
const (
	wireByte1  = 0x1 // one byte
	wireByte4  = 0x4 // four bytes
	wireByte8  = 0x8 // eight bytes
	wireLength = 0xC // uint32 length followed by that many bytes
	wireID     = 0xF // two varuints (CRDT identifier pair)
)

// Field indexes recognized inside a line-definition block.
const (
	fieldPen       = 1 // tool id, wireByte4
	fieldColor     = 2 // color id, wireByte4
	fieldThickness = 3 // thickness scale, wireByte8 float64
	fieldStartLen  = 4 // starting length, wireByte4 float32, unused
	fieldPoints    = 5 // point run, wireLength
	fieldTimestamp = 6 // CRDT id, skipped
	fieldMoveID    = 7 // CRDT id, skipped
)

// pointSizeV6 is the fixed size of one packed point record inside a
// points sub-block.
const pointSizeV6 = 14

// decodeBlocks scans the revision 6 block stream following the header
// and collects every decodable line-definition block into a single
// synthetic layer. A block whose declared length is zero, larger than
// the remaining buffer, or past the sanity ceiling is treated as
// corrupt: the scan resynchronizes by advancing exactly one byte, so a
// single damaged length field does not lose the rest of the stream.
// Blocks that fail to parse internally are dropped, never fatal.
func decodeBlocks(buf []byte, start int) types.Layer {
	var strokes []types.Stroke

	off := start
	for off+8 <= len(buf) {
		length := int(binary.LittleEndian.Uint32(buf[off:]))
		blockType := binary.LittleEndian.Uint32(buf[off+4:])

		if length <= 0 || length > maxBlockLen || off+8+length > len(buf) {
			off++
			continue
		}

		if blockType == blockTypeLine {
			if stroke, err := decodeLineBlock(buf[off+8 : off+8+length]); err == nil {
				strokes = append(strokes, *stroke)
			}
		}
		off += 8 + length
	}

	return types.Layer{Strokes: strokes}
}

// decodeLineBlock parses the tagged fields of one line-definition
// block. Every field, recognized or not, is consumed according to its
// wire type so that unknown field indexes added by newer firmware never
// desynchronize the cursor.
func decodeLineBlock(payload []byte) (*types.Stroke, error) {
	r := newReader(payload)
	stroke := &types.Stroke{LayerIndex: 0}

	for r.remaining() > 0 {
		tag, err := r.readVaruint()
		if err != nil {
			return nil, err
		}
		wire := tag & 0xf
		field := tag >> 4

		switch wire {
		case wireByte1:
			if _, err := r.readByte(); err != nil {
				return nil, err
			}
		case wireByte4:
			v, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			switch field {
			case fieldPen:
				stroke.Pen = types.Pen(int32(v))
			case fieldColor:
				stroke.Color = types.Color(int32(v))
			case fieldStartLen:
				// Starting length, read and discarded.
			}
		case wireByte8:
			v, err := r.readFloat64()
			if err != nil {
				return nil, err
			}
			if field == fieldThickness {
				stroke.Width = v
			}
		case wireLength:
			n, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			sub, err := r.readBytes(int(n))
			if err != nil {
				return nil, err
			}
			if field == fieldPoints {
				points, err := decodePointRun(sub)
				if err != nil {
					return nil, err
				}
				stroke.Points = points
			}
		case wireID:
			// Two varuints; covers fieldTimestamp, fieldMoveID and any
			// future identifier field.
			if _, err := r.readVaruint(); err != nil {
				return nil, err
			}
			if _, err := r.readVaruint(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown wire type %#x at offset %d", wire, r.off)
		}
	}

	return stroke, nil
}

// decodePointRun unpacks a flat run of 14-byte point records:
// x float32, y float32, speed uint16, width uint16, direction uint8,
// pressure uint8. The integer channels are normalized to [0,1] (or
// degrees for direction) on the way out.
func decodePointRun(b []byte) ([]types.Point, error) {
	if len(b)%pointSizeV6 != 0 {
		return nil, fmt.Errorf("point run length %d is not a multiple of %d", len(b), pointSizeV6)
	}
	count := len(b) / pointSizeV6
	if count > maxPoints {
		return nil, fmt.Errorf("implausible point count %d", count)
	}

	r := newReader(b)
	points := make([]types.Point, 0, count)
	for i := 0; i < count; i++ {
		x, err := r.readFloat32()
		if err != nil {
			return nil, err
		}
		y, err := r.readFloat32()
		if err != nil {
			return nil, err
		}
		speed, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		width, err := r.readUint16()
		if err != nil {
			return nil, err
		}
		direction, err := r.readByte()
		if err != nil {
			return nil, err
		}
		pressure, err := r.readByte()
		if err != nil {
			return nil, err
		}

		points = append(points, types.Point{
			X:         float64(x),
			Y:         float64(y),
			Speed:     float64(speed) / 65535,
			Width:     float64(width) / 65535,
			Direction: float64(direction) * 360 / 255,
			Pressure:  float64(pressure) / 255,
		})
	}
	return points, nil
}
