// Package render plots fuzzy variables and simulation results. It only
// reads copies of engine state and never influences a computation.
package render

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"example.com/fuzzy-control/core/control"
	"example.com/fuzzy-control/core/membership"
	"example.com/fuzzy-control/core/variable"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

func xys(u membership.Universe, m membership.Set) plotter.XYs {
	pts := make(plotter.XYs, u.Len())
	for i := range pts {
		pts[i].X = u.At(i)
		pts[i].Y = m[i]
	}
	return pts
}

func newPlot(title, xlabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "membership"
	p.Y.Min, p.Y.Max = 0, 1.05
	p.Legend.Top = true
	return p
}

func addTerms(p *plot.Plot, v *variable.Variable, faint bool) error {
	u := v.Universe()
	for i, label := range v.Terms() {
		m, _ := v.Term(label)
		l, err := plotter.NewLine(xys(u, m))
		if err != nil {
			return err
		}
		l.LineStyle.Color = plotutil.Color(i)
		if faint {
			l.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		}
		p.Add(l)
		p.Legend.Add(label, l)
	}
	return nil
}

// Variable plots every term of v into path. The image format follows the
// file extension.
func Variable(v *variable.Variable, path string) error {
	p := newPlot(v.String(), v.Name())
	if err := addTerms(p, v, false); err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// Output plots the aggregated set of consequent name over its terms, with
// the crisp output marked when defuzzification succeeded.
func Output(sim *control.Simulation, name string, path string) error {
	v, ok := sim.System().Variable(name)
	if !ok || v.Kind() != variable.Consequent {
		return &control.UnknownVariableError{Name: name}
	}
	agg, err := sim.Aggregated(name)
	if err != nil {
		return err
	}
	x, err := sim.Output(name)
	var oe *control.OutputError
	if err != nil && !errors.As(err, &oe) {
		return err
	}

	title := fmt.Sprintf("%s (no output)", name)
	if err == nil {
		title = fmt.Sprintf("%s = %.4g", name, x)
	}
	p := newPlot(title, name)
	if err := addTerms(p, v, true); err != nil {
		return err
	}
	area, err := plotter.NewLine(xys(v.Universe(), agg))
	if err != nil {
		return err
	}
	area.LineStyle.Width = vg.Points(1.5)
	area.FillColor = plotutil.Color(len(v.Terms()))
	p.Add(area)
	p.Legend.Add("aggregated", area)

	if oe == nil {
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: 1}})
		if err != nil {
			return err
		}
		marker.LineStyle.Width = vg.Points(2)
		p.Add(marker)
		p.Legend.Add("output", marker)
	}
	return p.Save(width, height, path)
}
