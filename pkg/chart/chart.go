// Package chart draws DC sweep curves with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/edp1096/toy-circuit/pkg/analysis"
)

type Quantity int

const (
	Power Quantity = iota
	Current
	VoltageDrop
)

func (q Quantity) String() string {
	switch q {
	case Current:
		return "Current (A)"
	case VoltageDrop:
		return "Voltage (V)"
	default:
		return "Power (W)"
	}
}

func (q Quantity) of(rd analysis.Reading) float64 {
	switch q {
	case Current:
		return rd.Current
	case VoltageDrop:
		return rd.VoltageDrop
	default:
		return rd.Power()
	}
}

var (
	curveColor  = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	markerColor = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
)

// XYs extracts one quantity of component id over a sweep. Points whose
// circuit did not solve are skipped.
func XYs(points []analysis.SweepPoint, id string, q Quantity) plotter.XYs {
	xys := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		if p.Result == nil || !p.Result.OK() {
			continue
		}
		rd, ok := p.Result.Reading(id)
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: p.Value, Y: q.of(rd)})
	}
	return xys
}

// Peak returns the sweep point with the largest quantity.
func Peak(xys plotter.XYs) (plotter.XY, bool) {
	if len(xys) == 0 {
		return plotter.XY{}, false
	}
	best := plotter.XY{Y: math.Inf(-1)}
	for _, xy := range xys {
		if xy.Y > best.Y {
			best = xy
		}
	}
	return best, true
}

// Sweep plots quantity q of component id against the swept value.
func Sweep(points []analysis.SweepPoint, swept, id string, q Quantity) (*plot.Plot, error) {
	xys := XYs(points, id, q)
	if len(xys) == 0 {
		return nil, fmt.Errorf("no solvable points for %s", id)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s of %s", q, id)
	p.X.Label.Text = swept
	p.Y.Label.Text = q.String()
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("creating line: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = curveColor
	p.Add(line)
	p.Legend.Add(id, line)

	return p, nil
}

// Mark highlights the current operating point on p.
func Mark(p *plot.Plot, x, y float64) error {
	s, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
	if err != nil {
		return fmt.Errorf("creating marker: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Color = markerColor
	p.Add(s)
	return nil
}

// Render writes p in format (png, svg, pdf...) at 16x10 cm.
func Render(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(16*vg.Centimeter, 10*vg.Centimeter, format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}
