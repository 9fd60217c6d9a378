package exercise

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/plant"
	"github.com/ctrlab/ctrlab/internal/sysid"
)

func init() {
	Register("sysid-linear", func() Exercise { return &SysIDLinear{} })
}

// SysIDLinear identifies a damped spring-mass model from derivative
// observations three ways: least squares, minimax, and least absolute
// deviations. On clean data all three must recover the true matrix; after
// corrupting a few samples the L1 fit must stay put while least squares
// drifts.
type SysIDLinear struct{}

func (e *SysIDLinear) Name() string { return "sysid-linear" }

func (e *SysIDLinear) Description() string {
	return "identify a linear model by convex regression in three norms"
}

func (e *SysIDLinear) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{Exercise: e.Name()}

	spring := plant.NewDampedSpring(1, 4, 0.5)
	truth := mat.NewDense(2, 2, []float64{0, 1, -4, -0.5})

	states := sysid.RandomStates(2, 60, 2.0, 3)
	data, err := sysid.Observe(spring, states, nil)
	if err != nil {
		return nil, err
	}

	dist := func(f *sysid.Fit) float64 {
		var diff mat.Dense
		diff.Sub(f.A, truth)
		return mat.Norm(&diff, 2)
	}

	ls, err := sysid.LeastSquares(data)
	if err != nil {
		return nil, err
	}
	linf, err := sysid.LInfinity(data)
	if err != nil {
		return nil, err
	}
	l1, err := sysid.L1(data)
	if err != nil {
		return nil, err
	}
	report.checkBelow("least-squares recovery error", dist(ls), 1e-6)
	report.checkBelow("minimax recovery error", dist(linf), 1e-6)
	report.checkBelow("l1 recovery error", dist(l1), 1e-6)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// inject gross outliers into a few derivative observations
	for _, k := range []int{5, 23, 48} {
		data.Y.Set(k, 1, data.Y.At(k, 1)+30)
	}
	l1Dirty, err := sysid.L1(data)
	if err != nil {
		return nil, err
	}
	lsDirty, err := sysid.LeastSquares(data)
	if err != nil {
		return nil, err
	}
	report.checkBelow("l1 error under outliers", dist(l1Dirty), 1e-6)
	report.checkTrue("least squares pulled by outliers", dist(lsDirty) > 10*dist(l1Dirty))

	report.Elapsed = time.Since(start)
	return report, nil
}
