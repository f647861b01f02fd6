package canvas

import (
	"bytes"
	"math"
	"testing"

	"github.com/poolreview/poolreview/pkg/pool"
)

func TestPlacementTransform(t *testing.T) {
	p := pool.Coord{X: 10, Y: 0}
	tests := []struct {
		name string
		pl   Placement
		want pool.Coord
	}{
		{"identity", Placement{}, pool.Coord{X: 10, Y: 0}},
		{"rot90", Placement{Angle: 90}, pool.Coord{X: 0, Y: 10}},
		{"rot180", Placement{Angle: 180}, pool.Coord{X: -10, Y: 0}},
		{"rot270", Placement{Angle: 270}, pool.Coord{X: 0, Y: -10}},
		{"mirror", Placement{Mirror: true}, pool.Coord{X: -10, Y: 0}},
		{"mirror rot90", Placement{Angle: 90, Mirror: true}, pool.Coord{X: 0, Y: -10}},
		{"shift", Placement{Shift: pool.Coord{X: 5, Y: 7}}, pool.Coord{X: 15, Y: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pl.Transform(p); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInkExtentsLine(t *testing.T) {
	r := NewRecorder()
	r.Line(pool.Coord{}, pool.Coord{X: 10 * pool.MM, Y: 10 * pool.MM}, pool.MM/10, CapRound)
	ext := r.Recording().InkExtents()

	if ext.Empty() {
		t.Fatal("extents empty for a drawn line")
	}
	// 10 mm maps to 200 device units plus half the stroke on each side.
	wantSpan := 200.0 + 2.0
	if math.Abs(ext.Width()-wantSpan) > 1e-9 || math.Abs(ext.Height()-wantSpan) > 1e-9 {
		t.Errorf("extents = %+v, want %v span", ext, wantSpan)
	}
	// Pool Y up becomes device Y down.
	if ext.Y1 > 1.1 {
		t.Errorf("upward line should end above the origin row, extents %+v", ext)
	}
}

func TestInkExtentsIncludesStrokeWidth(t *testing.T) {
	thin := NewRecorder()
	thin.Line(pool.Coord{}, pool.Coord{X: pool.MM, Y: 0}, pool.MM/10, CapRound)
	thick := NewRecorder()
	thick.Line(pool.Coord{}, pool.Coord{X: pool.MM, Y: 0}, pool.MM, CapRound)

	if thick.Recording().InkExtents().Height() <= thin.Recording().InkExtents().Height() {
		t.Error("wider stroke must grow the extents")
	}
}

func TestHairlineFloor(t *testing.T) {
	r := NewRecorder()
	r.Line(pool.Coord{}, pool.Coord{X: pool.MM, Y: 0}, 0, CapRound)
	if r.Recording().InkExtents().Height() <= 0 {
		t.Error("zero-width line must still have ink")
	}
}

func TestEmptyRecording(t *testing.T) {
	r := NewRecorder()
	rec := r.Recording()
	if !rec.Empty() {
		t.Fatal("new recording should be empty")
	}
	if ext := rec.InkExtents(); !ext.Empty() {
		t.Errorf("extents = %+v", ext)
	}

	dc := Rasterize(rec, 1, 0)
	if dc.Width() != 1 || dc.Height() != 1 {
		t.Errorf("empty raster = %dx%d, want 1x1", dc.Width(), dc.Height())
	}
	if _, err := EncodePNG(dc); err != nil {
		t.Fatal(err)
	}
}

func TestRasterizeSize(t *testing.T) {
	r := NewRecorder()
	r.Line(pool.Coord{}, pool.Coord{X: 10 * pool.MM, Y: 0}, pool.MM/10, CapRound)
	rec := r.Recording()

	// 10 mm line: 202 device units of ink plus 25 per side of margin.
	dc := Rasterize(rec, 1, pool.MM+pool.MM/4)
	if dc.Width() != 252 {
		t.Errorf("width = %d, want 252", dc.Width())
	}

	dc = Rasterize(rec, 5, 0)
	if got := dc.Width(); got != 5*202 {
		t.Errorf("scaled width = %d, want %d", got, 5*202)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	draw := func() []byte {
		r := NewRecorder()
		r.Line(pool.Coord{}, pool.Coord{X: 2 * pool.MM, Y: pool.MM}, pool.MM/5, CapRound)
		r.Polygon([]pool.Coord{
			{X: 0, Y: 0}, {X: pool.MM, Y: 0}, {X: pool.MM, Y: pool.MM},
		})
		r.Text(pool.Coord{X: 0, Y: -pool.MM}, 0, pool.MM/2, "REF")
		data, err := EncodePNG(Rasterize(r.Recording(), 1, pool.MM))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	if !bytes.Equal(draw(), draw()) {
		t.Error("identical recordings must rasterize byte-identically")
	}
}

func TestPlacementAppliesToOps(t *testing.T) {
	plain := NewRecorder()
	plain.Line(pool.Coord{}, pool.Coord{X: pool.MM, Y: 0}, pool.MM/10, CapRound)

	rot := NewRecorder()
	rot.SetPlacement(Placement{Angle: 90})
	rot.Line(pool.Coord{}, pool.Coord{X: pool.MM, Y: 0}, pool.MM/10, CapRound)

	pw := plain.Recording().InkExtents()
	rw := rot.Recording().InkExtents()
	if math.Abs(pw.Width()-rw.Height()) > 1e-9 || math.Abs(pw.Height()-rw.Width()) > 1e-9 {
		t.Errorf("rotated extents %+v should transpose %+v", rw, pw)
	}
}

func TestTextExtents(t *testing.T) {
	r := NewRecorder()
	r.Text(pool.Coord{}, 0, pool.MM, "AB\nCDEF")
	ext := r.Recording().InkExtents()
	if ext.Empty() {
		t.Fatal("text should contribute ink")
	}
	// Four glyphs of the longest line at 20 device units height.
	if want := textAspect * 20 * 4; math.Abs(ext.Width()-want) > 1e-9 {
		t.Errorf("width = %v, want %v", ext.Width(), want)
	}
	if want := 2 * 20.0; math.Abs(ext.Height()-want) > 1e-9 {
		t.Errorf("height = %v, want %v", ext.Height(), want)
	}
}

// A text rotated a quarter turn swaps its estimated box edges.
func TestTextExtentsRotated(t *testing.T) {
	flat := NewRecorder()
	flat.Text(pool.Coord{}, 0, pool.MM, "ABCD")
	rot := NewRecorder()
	rot.Text(pool.Coord{}, 90, pool.MM, "ABCD")

	fe := flat.Recording().InkExtents()
	re := rot.Recording().InkExtents()
	if math.Abs(fe.Width()-re.Height()) > 1e-9 || math.Abs(fe.Height()-re.Width()) > 1e-9 {
		t.Errorf("rotated extents %+v should transpose %+v", re, fe)
	}
}

// The placement rotation carries into recorded text angles, so a
// rotated instance of a text-only drawing transposes like line art.
func TestTextFollowsPlacementRotation(t *testing.T) {
	plain := NewRecorder()
	plain.Text(pool.Coord{}, 0, pool.MM, "WIDE TEXT")

	rot := NewRecorder()
	rot.SetPlacement(Placement{Angle: 90})
	rot.Text(pool.Coord{}, 0, pool.MM, "WIDE TEXT")

	pe := plain.Recording().InkExtents()
	re := rot.Recording().InkExtents()
	if math.Abs(pe.Width()-re.Height()) > 1e-9 || math.Abs(pe.Height()-re.Width()) > 1e-9 {
		t.Errorf("rotated extents %+v should transpose %+v", re, pe)
	}
}
