// Package profile charts how every hinge of a rig swings across the fold
// range.
package profile

import (
	"bytes"
	"fmt"
	"math"

	"github.com/chazu/jaring/pkg/rig"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one hinge's angle in degrees sampled across fold values.
type Series struct {
	Hinge  string
	Points plotter.XYs
}

// Sample evaluates every hinge swing at n+1 evenly spaced fold values.
// The rig itself is not posed.
func Sample(r *rig.Rig, n int) ([]Series, error) {
	if n < 1 {
		return nil, fmt.Errorf("profile: need at least one interval, got %d", n)
	}
	var out []Series
	for _, h := range r.Hinges() {
		pts := make(plotter.XYs, n+1)
		for i := 0; i <= n; i++ {
			v := float64(i) / float64(n)
			pts[i].X = v
			pts[i].Y = h.Swing.At(v) * 180 / math.Pi
		}
		out = append(out, Series{Hinge: h.Name, Points: pts})
	}
	return out, nil
}

// Plot builds a line chart of every hinge's swing.
func Plot(r *rig.Rig, n int) (*plot.Plot, error) {
	series, err := Sample(r, n)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s hinge angles", r.Name)
	p.X.Label.Text = "fold"
	p.Y.Label.Text = "angle (degrees)"
	p.X.Min, p.X.Max = 0, 1
	p.Add(plotter.NewGrid())

	for i, s := range series {
		line, err := plotter.NewLine(s.Points)
		if err != nil {
			return nil, fmt.Errorf("profile: hinge %s: %w", s.Hinge, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(s.Hinge, line)
	}
	return p, nil
}

// Save writes the chart to path. The format follows the file extension.
func Save(p *plot.Plot, path string, widthIn, heightIn float64) error {
	if err := p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("profile: save %s: %w", path, err)
	}
	return nil
}

// PNG renders the chart to PNG bytes.
func PNG(p *plot.Plot, widthIn, heightIn float64) ([]byte, error) {
	wt, err := p.WriterTo(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return buf.Bytes(), nil
}
