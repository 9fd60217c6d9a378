package sysid

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Observe evaluates the vector field at each state/control pair and packs
// the results as regression data. controls may be nil when the system takes
// no input.
func Observe(sys dynamics.System, states []dynamics.State, controls []dynamics.Control) (*Samples, error) {
	m := len(states)
	if m == 0 {
		return nil, fmt.Errorf("sysid: no states to observe")
	}
	if controls != nil && len(controls) != m {
		return nil, fmt.Errorf("sysid: %d states but %d controls", m, len(controls))
	}
	n := sys.StateDim()
	p := sys.ControlDim()
	if controls == nil {
		// autonomous observation: fit xdot = A x only
		p = 0
	}

	X := mat.NewDense(m, n, nil)
	Y := mat.NewDense(m, n, nil)
	var U *mat.Dense
	if p > 0 {
		U = mat.NewDense(m, p, nil)
	}
	for k, x := range states {
		if len(x) != n {
			return nil, fmt.Errorf("sysid: state %d has dimension %d, want %d", k, len(x), n)
		}
		var u dynamics.Control
		if controls != nil {
			u = controls[k]
		}
		dx := sys.Derive(x, u, 0)
		for i := 0; i < n; i++ {
			X.Set(k, i, x[i])
			Y.Set(k, i, dx[i])
		}
		if U != nil {
			for j := 0; j < p; j++ {
				U.Set(k, j, u[j])
			}
		}
	}
	return NewSamples(X, U, Y)
}

// AddNoise perturbs the observed derivatives in place with zero-mean
// Gaussian measurement noise of the given standard deviation. The state and
// control columns are left untouched; only Y is measured.
func (s *Samples) AddNoise(sigma float64, seed int64) {
	if sigma <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	r, c := s.Y.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			s.Y.Set(i, j, s.Y.At(i, j)+sigma*rng.NormFloat64())
		}
	}
}

// RandomStates draws m states uniformly from [-scale, scale]^n with a
// fixed seed, for building identification data sets.
func RandomStates(n, m int, scale float64, seed int64) []dynamics.State {
	rng := rand.New(rand.NewSource(seed))
	states := make([]dynamics.State, m)
	for k := range states {
		x := make(dynamics.State, n)
		for i := range x {
			x[i] = scale * (2*rng.Float64() - 1)
		}
		states[k] = x
	}
	return states
}
