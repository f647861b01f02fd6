// Package canvas records drawing primitives in device space and
// rasterizes them into pixel buffers sized to their ink extents.
//
// Record coordinates are pool nanometers with Y pointing up. The
// recorder applies a fixed canvas-lifetime transform at emission, a
// uniform scale with a Y flip, so a recording holds device-space
// primitives only and replay is a plain iteration.
package canvas

import (
	"math"
	"strings"

	"github.com/poolreview/poolreview/pkg/pool"
)

// unitScale converts pool nanometers to device units. One millimeter
// maps to 20 device units.
const unitScale = 2e-5

// minStrokeWidth is the hairline floor in pool units (0.1 mm). Zero
// width primitives would otherwise vanish from the raster.
const minStrokeWidth = pool.MM / 10

// textAspect estimates glyph advance as a fraction of the text height.
const textAspect = 0.6

// Cap selects the stroke endpoint shape.
type Cap int

const (
	CapRound Cap = iota
	CapButt
)

// Placement positions a record instance: mirror across the Y axis,
// then rotate counterclockwise, then shift.
type Placement struct {
	Shift  pool.Coord
	Angle  int // degrees, multiples of 90
	Mirror bool
}

// Transform applies the placement to a point in pool units.
func (pl Placement) Transform(c pool.Coord) pool.Coord {
	x, y := c.X, c.Y
	if pl.Mirror {
		x = -x
	}
	switch ((pl.Angle % 360) + 360) % 360 {
	case 90:
		x, y = -y, x
	case 180:
		x, y = -x, -y
	case 270:
		x, y = y, -x
	}
	return pool.Coord{X: x + pl.Shift.X, Y: y + pl.Shift.Y}
}

// strokePath is one recorded path in device units. Filled paths are
// implicitly closed.
type strokePath struct {
	pts    [][2]float64
	width  float64
	cap    Cap
	filled bool
}

// textRun is one recorded text in device units. The position is the
// anchor of the first line; lines stack downward before the run is
// rotated about the anchor by angle (radians, Y-down).
type textRun struct {
	x, y   float64
	angle  float64
	height float64
	lines  []string
}

// corners returns the run's box corners relative to the anchor, rotated
// into device space. w is the longest line's estimated advance.
func (t textRun) corners() [][2]float64 {
	w := 0.0
	for _, line := range t.lines {
		w = math.Max(w, textAspect*t.height*float64(len([]rune(line))))
	}
	h := t.height * float64(len(t.lines))
	return t.rotate([][2]float64{
		{0, -t.height}, {w, -t.height}, {w, -t.height + h}, {0, -t.height + h},
	})
}

// rotate maps anchor-relative points through the run's rotation.
func (t textRun) rotate(pts [][2]float64) [][2]float64 {
	sin, cos := math.Sincos(t.angle)
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p[0]*cos - p[1]*sin, p[0]*sin + p[1]*cos}
	}
	return out
}

// Extents is a device-space bounding box. X1/Y1 are exclusive maxima.
type Extents struct {
	X0, Y0, X1, Y1 float64
}

func (e Extents) Width() float64  { return e.X1 - e.X0 }
func (e Extents) Height() float64 { return e.Y1 - e.Y0 }
func (e Extents) Empty() bool     { return e.X1 <= e.X0 || e.Y1 <= e.Y0 }

func (e *Extents) add(x, y, pad float64) {
	e.X0 = math.Min(e.X0, x-pad)
	e.Y0 = math.Min(e.Y0, y-pad)
	e.X1 = math.Max(e.X1, x+pad)
	e.Y1 = math.Max(e.Y1, y+pad)
}

// Recording is an append-only device-space primitive log.
type Recording struct {
	paths []strokePath
	texts []textRun

	ext      Extents
	extValid bool
}

// Empty reports whether nothing was recorded.
func (r *Recording) Empty() bool {
	return len(r.paths) == 0 && len(r.texts) == 0
}

// InkExtents returns the tight device-unit bounding box over all
// primitives, stroke width and caps included. Computed once, then
// cached; recordings are not appended to after handoff.
func (r *Recording) InkExtents() Extents {
	if r.extValid {
		return r.ext
	}
	ext := Extents{
		X0: math.Inf(1), Y0: math.Inf(1),
		X1: math.Inf(-1), Y1: math.Inf(-1),
	}
	for _, p := range r.paths {
		pad := 0.0
		if !p.filled {
			pad = p.width / 2
		}
		for _, pt := range p.pts {
			ext.add(pt[0], pt[1], pad)
		}
	}
	for _, t := range r.texts {
		for _, c := range t.corners() {
			ext.add(t.x+c[0], t.y+c[1], 0)
		}
	}
	if ext.Empty() {
		ext = Extents{}
	}
	r.ext = ext
	r.extValid = true
	return ext
}

// Recorder emits primitives into a Recording, applying the current
// placement and the fixed unit transform.
type Recorder struct {
	rec *Recording
	pl  Placement
}

func NewRecorder() *Recorder {
	return &Recorder{rec: &Recording{}}
}

// SetPlacement installs the placement applied to subsequent ops.
func (r *Recorder) SetPlacement(pl Placement) { r.pl = pl }

// Placement returns the current placement.
func (r *Recorder) Placement() Placement { return r.pl }

// Recording hands out the primitive log. The recorder must not be
// used afterwards.
func (r *Recorder) Recording() *Recording { return r.rec }

// device maps a pool point through the placement and the unit
// transform. The Y flip puts the pool's up direction at the top of the
// raster.
func (r *Recorder) device(c pool.Coord) (float64, float64) {
	t := r.pl.Transform(c)
	return float64(t.X) * unitScale, -float64(t.Y) * unitScale
}

// Line records a stroked segment. Widths below the hairline floor are
// clamped.
func (r *Recorder) Line(p0, p1 pool.Coord, width int64, lineCap Cap) {
	if width < minStrokeWidth {
		width = minStrokeWidth
	}
	x0, y0 := r.device(p0)
	x1, y1 := r.device(p1)
	r.rec.paths = append(r.rec.paths, strokePath{
		pts:   [][2]float64{{x0, y0}, {x1, y1}},
		width: float64(width) * unitScale,
		cap:   lineCap,
	})
}

// Polygon records a filled polygon. Degenerate inputs with fewer than
// three vertices are dropped.
func (r *Recorder) Polygon(pts []pool.Coord) {
	if len(pts) < 3 {
		return
	}
	dev := make([][2]float64, len(pts))
	for i, p := range pts {
		x, y := r.device(p)
		dev[i] = [2]float64{x, y}
	}
	r.rec.paths = append(r.rec.paths, strokePath{pts: dev, filled: true})
}

// Text records a text run anchored at pos, rotated by angle degrees
// counterclockwise in pool space. Newlines split the run into stacked
// lines. The raster draws an outline placeholder instead of glyphs;
// extents still account for the estimated, rotated ink.
func (r *Recorder) Text(pos pool.Coord, angle int, height int64, s string) {
	if s == "" || height <= 0 {
		return
	}
	x, y := r.device(pos)
	r.rec.texts = append(r.rec.texts, textRun{
		x: x, y: y,
		angle:  r.deviceAngle(angle),
		height: float64(height) * unitScale,
		lines:  strings.Split(s, "\n"),
	})
}

// deviceAngle folds the placement into a text angle and converts to
// Y-down radians. The Y-axis mirror reflects the baseline direction
// before the placement rotation applies.
func (r *Recorder) deviceAngle(angle int) float64 {
	a := angle
	if r.pl.Mirror {
		a = 180 - a
	}
	a += r.pl.Angle
	a = ((a % 360) + 360) % 360
	return -float64(a) * math.Pi / 180
}
