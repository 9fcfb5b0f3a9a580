// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lines decodes the reMarkable .lines/.rm binary page format
// (revisions 3, 5 and 6) into the shared stroke model. Decoding is a
// pure function of the input bytes: no I/O, no mutation of the buffer,
// and no panics on malformed input.
package lines

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// Sentinel errors distinguishing the header-level failure modes.
// An unrecognized revision number is reported separately from a missing
// or truncated magic string because the operator remedy differs.
var (
	ErrInvalidHeader      = errors.New("invalid .lines header")
	ErrUnsupportedVersion = errors.New("unsupported .lines version")
)

// DecodeError is the structured failure returned by Decode. Offset is
// the byte position where decoding failed, or -1 when unknown. Layer
// and Stroke identify the failing record for revision 3/5 inputs, or
// are -1 when not applicable.
type DecodeError struct {
	Msg    string
	Offset int
	Layer  int
	Stroke int
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Layer >= 0 {
		fmt.Fprintf(&b, " (layer %d", e.Layer)
		if e.Stroke >= 0 {
			fmt.Fprintf(&b, ", stroke %d", e.Stroke)
		}
		b.WriteString(")")
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(msg string, offset int) *DecodeError {
	return &DecodeError{Msg: msg, Offset: offset, Layer: -1, Stroke: -1}
}

const (
	magicPrefix = "reMarkable .lines file, version="

	headerLenV3 = 33 // magic + single version digit
	headerLenV5 = 43 // magic + digit + 10 bytes of padding
	headerLenV6 = 43
)

// Decode parses one page of stroke data. It detects the format revision
// from the header and dispatches to the matching decoder. Revision 3/5
// inputs fail on the first structural error; revision 6 inputs are
// decoded best-effort, dropping individual corrupt blocks.
func Decode(buf []byte) (*types.Notebook, error) {
	version, headerLen, err := detectVersion(buf)
	if err != nil {
		return nil, err
	}

	r := newReader(buf)
	if err := r.skip(headerLen); err != nil {
		return nil, &DecodeError{
			Msg: "invalid header: buffer shorter than header", Offset: len(buf),
			Layer: -1, Stroke: -1, Err: ErrInvalidHeader,
		}
	}

	switch version {
	case types.Version3, types.Version5:
		layers, err := decodeFixed(r, version)
		if err != nil {
			return nil, err
		}
		return &types.Notebook{Version: version, Layers: layers}, nil
	case types.Version6:
		return &types.Notebook{
			Version: version,
			Layers:  []types.Layer{decodeBlocks(buf, headerLen)},
		}, nil
	default:
		// detectVersion only returns the three versions above.
		return nil, decodeErr(fmt.Sprintf("unreachable version %d", version), 0)
	}
}

// headerPadding follows the version digit in revision 5 and 6 headers.
const headerPadding = "          "

// detectVersion reads up to the first 43 bytes as text and classifies
// the buffer three ways: a supported revision (returned with its header
// length), a recognized magic with an unsupported revision number
// (ErrUnsupportedVersion, naming the number), or no recognized header
// at all (ErrInvalidHeader). The three supported headers are matched
// literally before any number parsing: the revision 3 header has no
// padding, so the byte after its version digit is already body data
// and may itself be an ASCII digit.
func detectVersion(buf []byte) (types.Version, int, error) {
	if len(buf) < headerLenV3 {
		return types.VersionUnknown, 0, &DecodeError{
			Msg:    fmt.Sprintf("invalid header: buffer too small (%d bytes)", len(buf)),
			Offset: 0, Layer: -1, Stroke: -1, Err: ErrInvalidHeader,
		}
	}

	n := len(buf)
	if n > headerLenV6 {
		n = headerLenV6
	}
	text := string(buf[:n])

	if !strings.HasPrefix(text, magicPrefix) {
		return types.VersionUnknown, 0, &DecodeError{
			Msg: "invalid header: magic string not found", Offset: 0,
			Layer: -1, Stroke: -1, Err: ErrInvalidHeader,
		}
	}

	tail := text[len(magicPrefix):]
	switch {
	case tail[0] == '3':
		return types.Version3, headerLenV3, nil
	case strings.HasPrefix(tail, "5"+headerPadding):
		return types.Version5, headerLenV5, nil
	case strings.HasPrefix(tail, "6"+headerPadding):
		return types.Version6, headerLenV6, nil
	}

	// Unrecognized revision: parse the number for the error message.
	digits := tail
	if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = digits[:i]
	}
	version, err := strconv.Atoi(digits)
	if err != nil {
		return types.VersionUnknown, 0, &DecodeError{
			Msg: "invalid header: no version number after magic", Offset: len(magicPrefix),
			Layer: -1, Stroke: -1, Err: ErrInvalidHeader,
		}
	}
	if version == 5 || version == 6 {
		// A known revision whose padding is missing or truncated.
		return types.VersionUnknown, 0, &DecodeError{
			Msg:    fmt.Sprintf("invalid header: version %d header truncated or malformed", version),
			Offset: len(magicPrefix), Layer: -1, Stroke: -1, Err: ErrInvalidHeader,
		}
	}
	return types.VersionUnknown, 0, &DecodeError{
		Msg:    fmt.Sprintf("unsupported version %d", version),
		Offset: len(magicPrefix), Layer: -1, Stroke: -1, Err: ErrUnsupportedVersion,
	}
}
