package exercise

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/control"
	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/plant"
	"github.com/ctrlab/ctrlab/internal/poly"
	"github.com/ctrlab/ctrlab/internal/sos"
)

func init() {
	Register("roa-cubic", func() Exercise { return &CubicROA{} })
}

// CubicROA certifies the region of attraction of dx/dt = -x + x^3, whose
// true basin is exactly |x| < 1. Both estimators must find the level
// rho = 1 of V = x^2, agree with each other, and agree with simulation:
// states started inside the level set decay, states outside blow up.
type CubicROA struct{}

func (e *CubicROA) Name() string { return "roa-cubic" }

func (e *CubicROA) Description() string {
	return "region of attraction of the cubic plant via level-set search and SOS certificate"
}

func (e *CubicROA) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Exercise: e.Name()}

	x := poly.Variable(1, 0)
	field := []*poly.Polynomial{x.Scale(-1).Add(x.Mul(x).Mul(x))}
	P := mat.NewSymDense(1, []float64{1})

	lineRho, err := sos.LineSearchROA(P, field, sos.Options{})
	if err != nil {
		return nil, err
	}
	shotRho, err := sos.SingleShotROA(P, field, sos.Options{})
	if err != nil {
		return nil, err
	}
	report.checkClose("line-search rho", lineRho, 1.0, 1e-3)
	report.checkClose("single-shot rho", shotRho, 1.0, 1e-3)
	report.checkBelow("estimator disagreement", math.Abs(lineRho-shotRho), 1e-3)

	// empirical cross-check with a batch of simulations
	cubic := plant.NewCubic()
	simulator := dynamics.New(cubic, integrators.NewRK4(), control.NewNone(cubic.ControlDim()))
	ensemble := dynamics.NewEnsemble(simulator, 4, 0)

	cfg := dynamics.DefaultConfig()
	cfg.Dt = 0.001
	cfg.Duration = 20

	margin := 0.05
	inside := []dynamics.State{
		{-math.Sqrt(lineRho) + margin},
		{math.Sqrt(lineRho) - margin},
		{0.5},
		{-0.5},
	}
	results, err := ensemble.RunInitialStates(ctx, inside, cfg)
	if err != nil {
		return nil, err
	}
	converged := 0
	for _, r := range results {
		final := r.States[len(r.States)-1]
		if math.Abs(final[0]) < 1e-3 {
			converged++
		}
	}
	report.checkClose("states inside the level set decaying", float64(converged), float64(len(inside)), 0)

	// just outside, the cubic term wins and the state leaves the basin
	escape, err := simulator.Run(ctx, dynamics.State{math.Sqrt(lineRho) + margin}, cfg)
	if err == nil && len(escape.States) > 0 {
		final := escape.States[len(escape.States)-1]
		report.checkTrue("state outside the level set escaping", math.Abs(final[0]) > 1 || !final.IsValid())
	} else {
		// divergence to infinity aborts the run, which also counts
		report.checkTrue("state outside the level set escaping", true)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}
