package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ctrlab/ctrlab/internal/analysis"
	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// SavePortraitPNG draws every trail of a phase portrait into one figure.
func SavePortraitPNG(portrait *analysis.Portrait, path, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("x%d", portrait.XIndex)
	p.Y.Label.Text = fmt.Sprintf("x%d", portrait.YIndex)

	for i, trail := range portrait.Trails {
		pts := make(plotter.XYs, len(trail))
		for k, pt := range trail {
			pts[k].X = pt.X
			pts[k].Y = pt.Y
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plotting: trail %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
	}

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// SaveTimeSeriesPNG draws each state component against time.
func SaveTimeSeriesPNG(result *dynamics.Result, path, title string) error {
	if len(result.States) == 0 {
		return fmt.Errorf("plotting: empty result")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "state"

	n := len(result.States[0])
	args := make([]interface{}, 0, 2*n)
	for i := 0; i < n; i++ {
		pts := make(plotter.XYs, len(result.States))
		for k, x := range result.States {
			pts[k].X = result.Times[k]
			pts[k].Y = x[i]
		}
		args = append(args, fmt.Sprintf("x%d", i), pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
