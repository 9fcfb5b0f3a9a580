// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lines

import (
	"testing"
)

func TestReaderPrimitives(t *testing.T) {
	// 0x3f800000 is float32(1.0); trailing bytes exercise readBytes.
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x00, 0x00, 0x80, 0x3f, 0xaa, 0xbb}
	r := newReader(buf)

	v32, err := r.readUint32()
	if err != nil {
		t.Fatalf("readUint32: %v", err)
	}
	if v32 != 0x04030201 {
		t.Errorf("readUint32 = %#x, want 0x04030201", v32)
	}

	f, err := r.readFloat32()
	if err != nil {
		t.Fatalf("readFloat32: %v", err)
	}
	if f != 1.0 {
		t.Errorf("readFloat32 = %v, want 1.0", f)
	}

	rest, err := r.readBytes(2)
	if err != nil {
		t.Fatalf("readBytes: %v", err)
	}
	if rest[0] != 0xaa || rest[1] != 0xbb {
		t.Errorf("readBytes = %x, want aabb", rest)
	}

	if r.remaining() != 0 {
		t.Errorf("remaining = %d, want 0", r.remaining())
	}
	if _, err := r.readByte(); err == nil {
		t.Error("readByte past end should fail")
	}
}

func TestReaderBoundsChecks(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(*reader) error
	}{
		{"uint32 short", []byte{1, 2, 3}, func(r *reader) error { _, err := r.readUint32(); return err }},
		{"uint16 short", []byte{1}, func(r *reader) error { _, err := r.readUint16(); return err }},
		{"float64 short", []byte{1, 2, 3, 4, 5, 6, 7}, func(r *reader) error { _, err := r.readFloat64(); return err }},
		{"byte empty", nil, func(r *reader) error { _, err := r.readByte(); return err }},
		{"bytes negative", []byte{1}, func(r *reader) error { _, err := r.readBytes(-1); return err }},
		{"skip past end", []byte{1, 2}, func(r *reader) error { return r.skip(3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.read(newReader(tt.buf)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestReadVaruint(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want uint64
	}{
		{"single byte", []byte{0x05}, 5},
		{"zero", []byte{0x00}, 0},
		{"boundary 127", []byte{0x7f}, 127},
		{"two bytes", []byte{0x80, 0x01}, 128},
		{"three bytes", []byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReader(tt.buf)
			got, err := r.readVaruint()
			if err != nil {
				t.Fatalf("readVaruint: %v", err)
			}
			if got != tt.want {
				t.Errorf("readVaruint = %d, want %d", got, tt.want)
			}
			if r.remaining() != 0 {
				t.Errorf("remaining = %d, want 0", r.remaining())
			}
		})
	}
}

func TestReadVaruintTruncated(t *testing.T) {
	// Continuation bit set on the last byte: the buffer ends mid-value.
	r := newReader([]byte{0x80, 0x80})
	if _, err := r.readVaruint(); err == nil {
		t.Error("truncated varuint should fail")
	}
}

func TestReaderDoesNotMutateBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	want := append([]byte(nil), buf...)

	r := newReader(buf)
	r.readUint32()
	r.readFloat32()

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("buffer mutated at index %d", i)
		}
	}
}
