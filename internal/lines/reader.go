// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lines

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a bounds-checked cursor over an immutable byte buffer. All
// multi-byte reads are little-endian. Every primitive either advances
// the offset or returns an error naming the offset where the buffer ran
// out; the underlying buffer is never modified.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// remaining returns the number of unread bytes.
func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) eof(n int) error {
	return fmt.Errorf("need %d bytes at offset %d, %d remain", n, r.off, r.remaining())
}

// readBytes returns the next n bytes as a sub-slice of the buffer. The
// caller must not modify the result.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, r.eof(n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// skip advances the cursor by n bytes.
func (r *reader) skip(n int) error {
	if n < 0 || r.remaining() < n {
		return r.eof(n)
	}
	r.off += n
	return nil
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, r.eof(1)
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readInt32() (int32, error) {
	v, err := r.readUint32()
	return int32(v), err
}

func (r *reader) readFloat32() (float32, error) {
	v, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *reader) readFloat64() (float64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readVaruint decodes a little-endian base-128 varuint: 7 data bits per
// byte, high bit set while more bytes follow. Accumulation past 64 bits
// wraps silently; hostile inputs terminate at buffer end either way.
func (r *reader) readVaruint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, fmt.Errorf("varuint: %w", err)
		}
		if shift < 64 {
			v |= uint64(b&0x7f) << shift
		}
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}
