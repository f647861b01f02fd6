package canvas

import (
	"bytes"
	"math"
	"os"

	"github.com/gogpu/gg"
)

// Rasterize draws a recording into a pixel buffer sized to its ink
// extents, magnified by scale, with margin (pool units) of clear space
// on every side. The origin is offset so the extents' minimum corner
// lands just inside the margin. Ink is black on a transparent
// background. An empty recording yields a 1x1 buffer rather than an
// error so callers can treat every record uniformly.
func Rasterize(rec *Recording, scale float64, margin int64) *gg.Context {
	ext := rec.InkExtents()
	m := float64(margin) * unitScale

	w := int(math.Ceil((ext.Width() + 2*m) * scale))
	h := int(math.Ceil((ext.Height() + 2*m) * scale))
	if rec.Empty() || w < 1 || h < 1 {
		return gg.NewContext(1, 1)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)

	// Device-to-pixel mapping done by hand so stroke widths scale with
	// the image rather than depending on the context matrix.
	px := func(x, y float64) (float64, float64) {
		return (x - ext.X0 + m) * scale, (y - ext.Y0 + m) * scale
	}

	for _, p := range rec.paths {
		for i, pt := range p.pts {
			x, y := px(pt[0], pt[1])
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if p.filled {
			dc.ClosePath()
			dc.Fill()
			continue
		}
		dc.SetLineWidth(p.width * scale)
		if p.cap == CapButt {
			dc.SetLineCap(gg.LineCapButt)
		} else {
			dc.SetLineCap(gg.LineCapRound)
		}
		dc.Stroke()
	}

	// Text placeholders: one outlined box per line, hairline stroke.
	hairline := float64(minStrokeWidth) * unitScale * scale
	dc.SetLineWidth(hairline)
	dc.SetLineCap(gg.LineCapButt)
	for _, t := range rec.texts {
		for i, line := range t.lines {
			lw := textAspect * t.height * float64(len([]rune(line)))
			if lw <= 0 {
				continue
			}
			top := -t.height + float64(i)*t.height
			corners := t.rotate([][2]float64{
				{0, top}, {lw, top}, {lw, top + t.height}, {0, top + t.height},
			})
			for j, c := range corners {
				x, y := px(t.x+c[0], t.y+c[1])
				if j == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			dc.Stroke()
		}
	}
	return dc
}

// EncodePNG serializes a rasterized buffer.
func EncodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG writes a rasterized buffer to path.
func WritePNG(dc *gg.Context, path string) error {
	data, err := EncodePNG(dc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
