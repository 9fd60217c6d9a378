package control

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/linalg"
	"github.com/ctrlab/ctrlab/internal/plant"
)

// LQR applies state feedback u = -K (x - target).
type LQR struct {
	K      *mat.Dense
	Target dynamics.State
}

func NewLQR(k *mat.Dense, target dynamics.State) *LQR {
	return &LQR{K: k, Target: target}
}

func (l *LQR) Compute(x dynamics.State, t float64) dynamics.Control {
	m, n := l.K.Dims()
	u := make(dynamics.Control, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n && j < len(x); j++ {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			u[i] -= l.K.At(i, j) * (x[j] - target)
		}
	}
	return u
}

// Synthesize linearizes the plant about (x0, u0) and solves the Riccati
// equation for the optimal gain. The returned controller regulates the plant
// to x0.
func Synthesize(dyn dynamics.System, x0 dynamics.State, u0 dynamics.Control, Q, R mat.Matrix) (*LQR, error) {
	A, B := plant.Linearize(dyn, x0, u0)
	K, err := linalg.LQR(A, B, Q, R)
	if err != nil {
		return nil, err
	}
	return NewLQR(K, x0.Clone()), nil
}

// NewPendulumLQR synthesizes a gain that balances the pendulum upright
// (theta = pi) with identity state cost and unit input cost.
func NewPendulumLQR(p *plant.Pendulum) (*LQR, error) {
	Q := linalg.Eye(2)
	R := mat.NewDense(1, 1, []float64{1})
	return Synthesize(p, dynamics.State{math.Pi, 0}, dynamics.Control{0}, Q, R)
}

// NewCartPoleLQR synthesizes a balancing gain about the upright origin.
func NewCartPoleLQR(c *plant.CartPole) (*LQR, error) {
	Q := linalg.Eye(4)
	R := mat.NewDense(1, 1, []float64{1})
	return Synthesize(c, dynamics.State{0, 0, 0, 0}, dynamics.Control{0}, Q, R)
}
