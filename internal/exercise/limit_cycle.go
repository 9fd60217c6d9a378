package exercise

import (
	"context"
	"math"
	"time"

	"github.com/ctrlab/ctrlab/internal/analysis"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/plant"
	"github.com/ctrlab/ctrlab/internal/trajopt"
)

func init() {
	Register("limit-cycle", func() Exercise { return &LimitCycle{} })
}

// LimitCycle solves for the Van der Pol periodic orbit by collocation and
// cross-checks the period against the dominant frequency of a long
// simulation. Two independent methods landing on the same number is the
// whole exercise.
type LimitCycle struct{}

func (e *LimitCycle) Name() string { return "limit-cycle" }

func (e *LimitCycle) Description() string {
	return "find the Van der Pol limit cycle by collocation, verify its period spectrally"
}

func (e *LimitCycle) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Exercise: e.Name()}

	vdp := plant.NewVanDerPol()
	cycle, err := trajopt.FindLimitCycle(vdp, trajopt.CircleGuess(2, 80), 2*math.Pi, trajopt.Options{PhaseIndex: 1})
	if err != nil {
		return nil, err
	}
	report.checkClose("collocation period", cycle.Period, 6.66, 0.3)
	report.checkClose("orbit amplitude", cycle.Amplitude(0), 2.0, 0.1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// spectral estimate from a long settled trajectory
	dt := 0.05
	points, err := analysis.Trajectory(vdp, integrators.NewRK4(), []float64{2, 0}, 0, 1, dt, float64(4096)*dt)
	if err != nil {
		return nil, err
	}
	samples := make([]float64, len(points))
	for i, p := range points {
		samples[i] = p.X
	}
	period, err := analysis.DominantPeriod(samples, dt)
	if err != nil {
		return nil, err
	}
	report.checkClose("spectral period", period, 6.66, 0.3)
	report.checkBelow("method disagreement", math.Abs(period-cycle.Period), 0.3)

	report.Elapsed = time.Since(start)
	return report, nil
}
