package exercise

import (
	"context"
	"math"
	"time"

	"github.com/ctrlab/ctrlab/internal/analysis"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/plant"
)

func init() {
	Register("phase-portrait", func() Exercise { return &PhasePortrait{} })
}

// PhasePortrait charts the Van der Pol flow from a grid of initial
// conditions and verifies that every trajectory settles onto the limit
// cycle, with the Poincaré return map converging to a fixed point.
type PhasePortrait struct{}

func (e *PhasePortrait) Name() string { return "phase-portrait" }

func (e *PhasePortrait) Description() string {
	return "Van der Pol phase portrait: grid of flows onto the limit cycle"
}

func (e *PhasePortrait) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Exercise: e.Name()}

	vdp := plant.NewVanDerPol()
	integ := integrators.NewRK4()

	// skip the unstable origin; every other grid point flows to the cycle
	var inits []struct{ x, y float64 }
	for _, x := range []float64{-3, -1, 1, 3} {
		for _, y := range []float64{-3, 0, 3} {
			inits = append(inits, struct{ x, y float64 }{x, y})
		}
	}

	settled := 0
	for _, ic := range inits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		points, err := analysis.Trajectory(vdp, integ, []float64{ic.x, ic.y}, 0, 1, 0.01, 60)
		if err != nil {
			return nil, err
		}
		// amplitude over the final stretch should match the cycle
		amp := 0.0
		for _, p := range points[len(points)-700:] {
			if a := math.Abs(p.X); a > amp {
				amp = a
			}
		}
		if math.Abs(amp-2.0) < 0.1 {
			settled++
		}
	}
	report.checkClose("trajectories reaching the cycle", float64(settled), float64(len(inits)), 0)

	// stroboscope the upward x1 = 0 crossings
	section, err := analysis.PoincareSection(vdp, integrators.NewRK4(), []float64{2, 0}, 0, 0, 0, 1, 0.001, 60)
	if err != nil {
		return nil, err
	}
	report.checkTrue("poincare section has crossings", len(section) >= 5)
	if len(section) >= 2 {
		last, prev := section[len(section)-1], section[len(section)-2]
		report.checkBelow("poincare fixed point residual", math.Abs(last.Y-prev.Y), 1e-3)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}
