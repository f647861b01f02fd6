// Package render turns pool records into preview images for the
// report. Symbols render once, or once per orientation when they carry
// per-orientation text placements; packages render once at a higher
// magnification.
package render

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/canvas"
	"github.com/poolreview/poolreview/pkg/pool"
)

const (
	// symbolMargin is the clear border around symbol previews, 1.25 mm.
	symbolMargin = pool.MM + pool.MM/4
	symbolScale  = 1

	packageMargin = 0
	packageScale  = 5

	// referenceDesignator substitutes the $RD placeholder on packages.
	referenceDesignator = "M1234"
)

// Image is one rendered preview: the file name the report links and
// the encoded PNG bytes.
type Image struct {
	Name string
	Data []byte
}

// Options adjust the raster geometry. The zero value keeps the
// defaults: unit magnification and the per-record margins.
type Options struct {
	// Scale multiplies the per-record base magnification. Zero or
	// negative keeps the base.
	Scale float64

	// Margin replaces the per-record margin (pool units) when positive.
	Margin int64
}

func (o Options) scale(base float64) float64 {
	if o.Scale > 0 {
		return base * o.Scale
	}
	return base
}

func (o Options) margin(def int64) int64 {
	if o.Margin > 0 {
		return o.Margin
	}
	return def
}

// Orientation is one of the eight symbol display orientations.
type Orientation struct {
	Angle  int
	Mirror bool
}

// Orientations lists the render sweep in report order: normal before
// mirrored, angles ascending.
var Orientations = []Orientation{
	{0, false}, {90, false}, {180, false}, {270, false},
	{0, true}, {90, true}, {180, true}, {270, true},
}

// Label returns the human heading for the orientation.
func (o Orientation) Label() string {
	side := "Normal"
	if o.Mirror {
		side = "Mirrored"
	}
	return fmt.Sprintf("%s %d°", side, o.Angle)
}

// suffix is the image-name fragment encoding the orientation.
func (o Orientation) suffix() string {
	side := "n"
	if o.Mirror {
		side = "m"
	}
	return fmt.Sprintf("_%s%d", side, o.Angle)
}

// SymbolImageName returns the preview file name for one orientation of
// a symbol. Symbols without per-orientation text placements use the
// bare name.
func SymbolImageName(id uuid.UUID, o *Orientation) string {
	if o == nil {
		return fmt.Sprintf("sym_%s.png", id)
	}
	return fmt.Sprintf("sym_%s%s.png", id, o.suffix())
}

// PackageImageName returns the preview file name for a package.
func PackageImageName(id uuid.UUID) string {
	return fmt.Sprintf("pkg_%s.png", id)
}

// record replays a drawing into the recorder under the given placement.
// expand rewrites text content before recording.
func record(r *canvas.Recorder, d *pool.Drawing, pl canvas.Placement, expand func(string) string) {
	r.SetPlacement(pl)
	for _, l := range d.Lines {
		r.Line(l.From, l.To, l.Width, canvas.CapRound)
	}
	for _, p := range d.Polygons {
		r.Polygon(p.Vertices)
	}
	for _, t := range d.Texts {
		s := t.Text
		if expand != nil {
			s = expand(s)
		}
		r.Text(t.Position, t.Angle, t.Size, s)
	}
}

// symbolText expands the schematic value placeholder so previews show
// the space the group and tag lines will occupy.
func symbolText(s string) string {
	if s == "$VALUE" {
		return "$VALUE\nGroup\nTag"
	}
	return s
}

// packageText substitutes the reference-designator placeholder with a
// representative value.
func packageText(s string) string {
	if s == "$RD" {
		return referenceDesignator
	}
	return s
}

// Symbol renders a symbol's previews. One image for plain symbols;
// eight for symbols with per-orientation text placements.
func Symbol(sym *pool.Symbol, opts Options) ([]Image, error) {
	scale := opts.scale(symbolScale)
	margin := opts.margin(symbolMargin)
	if !sym.TextPlacements {
		img, err := renderOne(&sym.Drawing, canvas.Placement{}, scale, margin, symbolText)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", sym.UUID, err)
		}
		return []Image{{Name: SymbolImageName(sym.UUID, nil), Data: img}}, nil
	}

	out := make([]Image, 0, len(Orientations))
	for _, o := range Orientations {
		pl := canvas.Placement{Angle: o.Angle, Mirror: o.Mirror}
		img, err := renderOne(&sym.Drawing, pl, scale, margin, symbolText)
		if err != nil {
			return nil, fmt.Errorf("symbol %s %s: %w", sym.UUID, o.Label(), err)
		}
		out = append(out, Image{Name: SymbolImageName(sym.UUID, &o), Data: img})
	}
	return out, nil
}

// Package renders a package preview: pads as filled rectangles over
// the drawing primitives.
func Package(pkg *pool.Package, opts Options) (Image, error) {
	r := canvas.NewRecorder()
	record(r, &pkg.Drawing, canvas.Placement{}, packageText)

	// Pads draw in a stable order so the primitive log, and with it the
	// PNG, is reproducible.
	pads := make([]*pool.Pad, 0, len(pkg.Pads))
	for _, pad := range pkg.Pads {
		pads = append(pads, pad)
	}
	slices.SortFunc(pads, func(a, b *pool.Pad) int {
		return slices.Compare(a.UUID[:], b.UUID[:])
	})
	for _, pad := range pads {
		recordPad(r, pad)
	}

	data, err := canvas.EncodePNG(canvas.Rasterize(r.Recording(), opts.scale(packageScale), opts.margin(packageMargin)))
	if err != nil {
		return Image{}, fmt.Errorf("package %s: %w", pkg.UUID, err)
	}
	return Image{Name: PackageImageName(pkg.UUID), Data: data}, nil
}

// recordPad draws one pad as a filled rectangle around its position.
// Pads without explicit size get a nominal square so they stay
// visible.
func recordPad(r *canvas.Recorder, pad *pool.Pad) {
	sx, sy := pad.SizeX, pad.SizeY
	if sx <= 0 {
		sx = pool.MM
	}
	if sy <= 0 {
		sy = pool.MM
	}
	hx, hy := sx/2, sy/2
	c := pad.Position
	r.Polygon([]pool.Coord{
		{X: c.X - hx, Y: c.Y - hy},
		{X: c.X + hx, Y: c.Y - hy},
		{X: c.X + hx, Y: c.Y + hy},
		{X: c.X - hx, Y: c.Y + hy},
	})
}

func renderOne(d *pool.Drawing, pl canvas.Placement, scale float64, margin int64, expand func(string) string) ([]byte, error) {
	r := canvas.NewRecorder()
	record(r, d, pl, expand)
	return canvas.EncodePNG(canvas.Rasterize(r.Recording(), scale, margin))
}
