// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/mightytreefolk/ReMarkSync/internal/excalidraw"
	"github.com/mightytreefolk/ReMarkSync/internal/lines"
	"github.com/mightytreefolk/ReMarkSync/pkg/types"
)

// testConverter returns a Converter with deterministic generators.
func testConverter() *Converter {
	ids, seeds := 0, int64(0)
	return &Converter{
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%04d", ids)
		},
		NewSeed: func() int64 {
			seeds += 1000
			return seeds
		},
		Now: func() time.Time {
			return time.Unix(1700000000, 0).UTC()
		},
	}
}

func stroke(pen types.Pen, color types.Color, width float64, layer int, pts ...[2]float64) types.Stroke {
	points := make([]types.Point, len(pts))
	for i, p := range pts {
		points[i] = types.Point{X: p[0], Y: p[1], Pressure: 0.8}
	}
	return types.Stroke{Pen: pen, Color: color, Width: width, Points: points, LayerIndex: layer}
}

func notebook(layers ...types.Layer) *types.Notebook {
	return &types.Notebook{Version: types.Version5, Layers: layers}
}

func freedraws(scene *excalidraw.Scene) []*excalidraw.Freedraw {
	var out []*excalidraw.Freedraw
	for _, el := range scene.Elements {
		if fd, ok := el.(*excalidraw.Freedraw); ok {
			out = append(out, fd)
		}
	}
	return out
}

func TestWidthClampMonotonic(t *testing.T) {
	conv := testConverter()
	opts := DefaultOptions()

	prev := 0.0
	for _, base := range []float64{0.1, 0.5, 1, 2, 4, 8, 16, 32, 64, 1000} {
		nb := notebook(types.Layer{Strokes: []types.Stroke{
			stroke(types.PenBallpoint1, types.ColorBlack, base, 0, [2]float64{0, 0}, [2]float64{1, 1}),
		}})
		fd := freedraws(conv.Convert(nb, opts))[0]

		if fd.StrokeWidth < minStrokeWidth || fd.StrokeWidth > maxStrokeWidth {
			t.Errorf("base %v: width %v outside [%d,%d]", base, fd.StrokeWidth, minStrokeWidth, maxStrokeWidth)
		}
		if fd.StrokeWidth < prev {
			t.Errorf("base %v: width %v decreased from %v", base, fd.StrokeWidth, prev)
		}
		prev = fd.StrokeWidth
	}
	if prev != maxStrokeWidth {
		t.Errorf("largest base width should hit the clamp ceiling, got %v", prev)
	}
}

func TestBoundingBoxInvariant(t *testing.T) {
	conv := testConverter()
	nb := notebook(types.Layer{Strokes: []types.Stroke{
		stroke(types.PenBallpoint1, types.ColorBlack, 2, 0,
			[2]float64{-5, 12}, [2]float64{30, -7}, [2]float64{8, 40}),
	}})

	fd := freedraws(conv.Convert(nb, DefaultOptions()))[0]

	if fd.X != -5 || fd.Y != -7 {
		t.Errorf("element origin = (%v,%v), want (-5,-7)", fd.X, fd.Y)
	}
	if fd.Width != 35 || fd.Height != 47 {
		t.Errorf("element size = (%v,%v), want (35,47)", fd.Width, fd.Height)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range fd.Points {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
	}
	if minX != 0 || minY != 0 {
		t.Errorf("min relative point = (%v,%v), want (0,0)", minX, minY)
	}
}

func TestEraserFiltering(t *testing.T) {
	nb := notebook(types.Layer{Strokes: []types.Stroke{
		stroke(types.PenEraser, types.ColorBlack, 2, 0, [2]float64{0, 0}),
		stroke(types.PenEraseArea, types.ColorBlack, 2, 0, [2]float64{1, 1}),
	}})

	t.Run("dropped by default", func(t *testing.T) {
		scene := testConverter().Convert(nb, DefaultOptions())
		if len(scene.Elements) != 0 {
			t.Errorf("elements = %d, want 0", len(scene.Elements))
		}
	})

	t.Run("background survives eraser-only document", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Background = &Image{Data: []byte{1, 2, 3}, MimeType: "image/png", Width: 100, Height: 200}
		scene := testConverter().Convert(nb, opts)
		if len(scene.Elements) != 1 {
			t.Fatalf("elements = %d, want only the background image", len(scene.Elements))
		}
		if _, ok := scene.Elements[0].(*excalidraw.Image); !ok {
			t.Errorf("element type = %T, want *excalidraw.Image", scene.Elements[0])
		}
	})

	t.Run("kept when configured", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IncludeEraser = true
		scene := testConverter().Convert(nb, opts)
		if len(scene.Elements) != 2 {
			t.Errorf("elements = %d, want 2", len(scene.Elements))
		}
	})
}

func TestEmptyStrokesSkipped(t *testing.T) {
	nb := notebook(types.Layer{Strokes: []types.Stroke{
		{Pen: types.PenBallpoint1, Width: 2}, // zero points
		stroke(types.PenBallpoint1, types.ColorBlack, 2, 0, [2]float64{0, 0}),
	}})
	scene := testConverter().Convert(nb, DefaultOptions())
	if len(scene.Elements) != 1 {
		t.Errorf("elements = %d, want 1 (empty stroke skipped)", len(scene.Elements))
	}
}

func TestLayerGrouping(t *testing.T) {
	nb := notebook(
		types.Layer{Strokes: []types.Stroke{
			stroke(types.PenBallpoint1, types.ColorBlack, 2, 0, [2]float64{0, 0}),
			stroke(types.PenBallpoint1, types.ColorBlack, 2, 0, [2]float64{1, 1}),
		}},
		types.Layer{Strokes: []types.Stroke{
			stroke(types.PenBallpoint1, types.ColorBlack, 2, 1, [2]float64{2, 2}),
		}},
	)

	t.Run("preserved layers share a group id", func(t *testing.T) {
		fds := freedraws(testConverter().Convert(nb, DefaultOptions()))
		if len(fds) != 3 {
			t.Fatalf("elements = %d, want 3", len(fds))
		}
		if len(fds[0].GroupIDs) != 1 || len(fds[1].GroupIDs) != 1 {
			t.Fatal("layer strokes should carry one group id")
		}
		if fds[0].GroupIDs[0] != fds[1].GroupIDs[0] {
			t.Error("strokes in the same layer should share a group id")
		}
		if fds[0].GroupIDs[0] == fds[2].GroupIDs[0] {
			t.Error("strokes in different layers should not share a group id")
		}
	})

	t.Run("flattened layers carry no groups", func(t *testing.T) {
		opts := DefaultOptions()
		opts.PreserveLayers = false
		for _, fd := range freedraws(testConverter().Convert(nb, opts)) {
			if len(fd.GroupIDs) != 0 {
				t.Errorf("groupIds = %v, want empty", fd.GroupIDs)
			}
		}
	})
}

func TestUnknownPenAndColorFallBack(t *testing.T) {
	nb := notebook(types.Layer{Strokes: []types.Stroke{
		stroke(types.Pen(999), types.Color(999), 2, 0, [2]float64{0, 0}),
	}})
	fd := freedraws(testConverter().Convert(nb, DefaultOptions()))[0]

	if fd.StrokeColor != "#000000" {
		t.Errorf("StrokeColor = %q, want black fallback", fd.StrokeColor)
	}
	if fd.Opacity != 100 || fd.Roughness != 1 || fd.StrokeStyle != "solid" {
		t.Errorf("style = opacity %d roughness %d %q, want fallback 100/1/solid",
			fd.Opacity, fd.Roughness, fd.StrokeStyle)
	}
	// Fallback is pressure-sensitive: the decoded pressure carries over.
	if fd.Pressures[0] != 0.8 {
		t.Errorf("Pressures[0] = %v, want decoded 0.8", fd.Pressures[0])
	}
}

func TestUniformPressureForNonSensitivePens(t *testing.T) {
	nb := notebook(types.Layer{Strokes: []types.Stroke{
		stroke(types.PenFineliner2, types.ColorBlack, 2, 0, [2]float64{0, 0}, [2]float64{1, 1}),
	}})
	fd := freedraws(testConverter().Convert(nb, DefaultOptions()))[0]
	for i, p := range fd.Pressures {
		if p != 0.5 {
			t.Errorf("Pressures[%d] = %v, want uniform 0.5", i, p)
		}
	}
}

func TestPressureClamped(t *testing.T) {
	nb := notebook(types.Layer{Strokes: []types.Stroke{{
		Pen: types.PenBallpoint1, Width: 2,
		Points: []types.Point{{X: 0, Y: 0, Pressure: 1.7}, {X: 1, Y: 1, Pressure: -0.2}},
	}}})
	fd := freedraws(testConverter().Convert(nb, DefaultOptions()))[0]
	if fd.Pressures[0] != 1 || fd.Pressures[1] != 0 {
		t.Errorf("Pressures = %v, want clamped to [0,1]", fd.Pressures)
	}
}

func TestBackgroundImageElement(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = &Image{Data: []byte("pngbytes"), MimeType: "image/png", Width: 1404, Height: 1872}

	nb := notebook(types.Layer{Strokes: []types.Stroke{
		stroke(types.PenBallpoint1, types.ColorBlack, 2, 0, [2]float64{0, 0}),
	}})
	scene := testConverter().Convert(nb, opts)

	if len(scene.Elements) != 2 {
		t.Fatalf("elements = %d, want image + stroke", len(scene.Elements))
	}
	img, ok := scene.Elements[0].(*excalidraw.Image)
	if !ok {
		t.Fatal("background image must be the first element")
	}
	if !img.Locked {
		t.Error("background image must be locked")
	}
	if img.X != 0 || img.Y != 0 || img.Width != 1404 || img.Height != 1872 {
		t.Errorf("image geometry = (%v,%v,%v,%v), want origin + native size", img.X, img.Y, img.Width, img.Height)
	}
	if img.Status != "saved" || img.Scale != [2]float64{1, 1} {
		t.Errorf("image status/scale = %q/%v, want saved/[1 1]", img.Status, img.Scale)
	}

	file, ok := scene.Files[img.FileID]
	if !ok {
		t.Fatalf("file table missing id %q", img.FileID)
	}
	if file.MimeType != "image/png" || file.ID != img.FileID {
		t.Errorf("file entry = %+v, want matching mime and id", file)
	}
	if want := "data:image/png;base64,"; len(file.DataURL) <= len(want) || file.DataURL[:len(want)] != want {
		t.Errorf("DataURL = %q, want base64 data URL", file.DataURL)
	}
}

func TestConvertIdempotent(t *testing.T) {
	nb := notebook(
		types.Layer{Strokes: []types.Stroke{
			stroke(types.PenFineliner1, types.ColorBlack, 2, 0, [2]float64{0, 0}, [2]float64{10, 0}),
			stroke(types.PenMarker2, types.ColorRed, 4, 0, [2]float64{5, 5}),
		}},
	)

	first, err := testConverter().Convert(nb, DefaultOptions()).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := testConverter().Convert(nb, DefaultOptions()).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical inputs and generators should produce byte-identical output")
	}
}

// TestDecodeConvertPipeline runs the full byte-buffer-to-scene path on a
// synthetic revision 5 page.
func TestDecodeConvertPipeline(t *testing.T) {
	buf := buildV5Page(t,
		int32(types.PenFineliner1), int32(types.ColorBlack), 2.0,
		[][2]float64{{0, 0}, {10, 0}, {10, 10}})

	nb, err := lines.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(nb.Layers) != 1 || len(nb.Layers[0].Strokes) != 1 || len(nb.Layers[0].Strokes[0].Points) != 3 {
		t.Fatal("decoded structure mismatch")
	}

	scene := testConverter().Convert(nb, DefaultOptions())
	fds := freedraws(scene)
	if len(fds) != 1 {
		t.Fatalf("elements = %d, want 1", len(fds))
	}

	fd := fds[0]
	if fd.StrokeColor != "#000000" {
		t.Errorf("StrokeColor = %q, want #000000", fd.StrokeColor)
	}
	// clamp(2.0 * 0.6 * 0.5, 1, 16) = 1
	if fd.StrokeWidth != 1 {
		t.Errorf("StrokeWidth = %v, want 1", fd.StrokeWidth)
	}
	want := [][]float64{{0, 0}, {10, 0}, {10, 10}}
	for i, p := range fd.Points {
		if p[0] != want[i][0] || p[1] != want[i][1] {
			t.Errorf("Points[%d] = %v, want %v", i, p, want[i])
		}
	}
}

// buildV5Page assembles a one-layer, one-stroke revision 5 buffer.
func buildV5Page(t *testing.T, pen, color int32, width float32, pts [][2]float64) []byte {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("reMarkable .lines file, version=5")
	b.Write(bytes.Repeat([]byte{' '}, 10))

	u32 := func(v uint32) {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], v)
		b.Write(tmp[:])
	}
	f32 := func(v float32) { u32(math.Float32bits(v)) }

	u32(1) // layer count
	u32(1) // stroke count
	u32(uint32(pen))
	u32(uint32(color))
	u32(0) // reserved
	f32(width)
	u32(0) // second reserved field
	u32(uint32(len(pts)))
	for _, p := range pts {
		f32(float32(p[0]))
		f32(float32(p[1]))
		f32(0)   // speed
		f32(0)   // direction
		f32(0)   // width
		f32(0.9) // pressure
	}
	return b.Bytes()
}
