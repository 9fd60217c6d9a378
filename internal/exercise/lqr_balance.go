package exercise

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/control"
	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/linalg"
	"github.com/ctrlab/ctrlab/internal/metrics"
	"github.com/ctrlab/ctrlab/internal/plant"
)

func init() {
	Register("lqr-balance", func() Exercise { return &LQRBalance{} })
}

// LQRBalance synthesizes an LQR gain for the inverted pendulum from a
// numerical linearization and verifies it in three ways: the Riccati
// residual is small, the closed-loop linearization is Hurwitz, and a
// nonlinear simulation from a tilted start settles on the upright
// equilibrium.
type LQRBalance struct{}

func (e *LQRBalance) Name() string { return "lqr-balance" }

func (e *LQRBalance) Description() string {
	return "balance the inverted pendulum with a synthesized LQR gain"
}

func (e *LQRBalance) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Exercise: e.Name()}

	pend := plant.NewPendulum()
	upright := dynamics.State{math.Pi, 0}

	ctrl, err := control.NewPendulumLQR(pend)
	if err != nil {
		return nil, err
	}

	// Riccati solution quality at the operating point
	A, B := plant.Linearize(pend, upright, dynamics.Control{0})
	Q := linalg.Eye(2)
	R := linalg.Eye(1)
	P, err := linalg.Care(A, B, Q, R)
	if err != nil {
		return nil, err
	}
	report.checkBelow("riccati residual", linalg.CareResidual(A, B, Q, R, P), 1e-8)

	// closed loop A - B K must be Hurwitz
	var closed mat.Dense
	closed.Mul(B, ctrl.K)
	closed.Sub(A, &closed)
	hurwitz, err := linalg.IsHurwitz(&closed)
	if err != nil {
		return nil, err
	}
	report.checkTrue("closed loop is Hurwitz", hurwitz)

	// nonlinear verification from a 0.4 rad tilt
	settling := metrics.NewSettlingTime(upright, 0.05)
	simulator := dynamics.New(pend, integrators.NewRK4(), ctrl)
	simulator.AddMetric(settling)

	cfg := dynamics.DefaultConfig()
	cfg.Duration = 10

	result, err := simulator.Run(ctx, dynamics.State{math.Pi - 0.4, 0}, cfg)
	if err != nil {
		return nil, err
	}
	final := result.States[len(result.States)-1]
	report.checkBelow("final distance from upright", final.Sub(upright).Norm(), 0.01)
	report.checkBelow("settling time", settling.Value(), 8)

	report.Elapsed = time.Since(start)
	return report, nil
}
