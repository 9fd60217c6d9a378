// Package trajopt finds periodic orbits of autonomous systems by direct
// collocation. The orbit is discretized on a closed trapezoidal mesh, the
// period enters as an extra unknown, and a phase condition pins the
// otherwise-free time shift. The resulting square root-finding problem is
// solved with a damped Newton iteration and a finite-difference Jacobian.
package trajopt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Options tunes the collocation solve.
type Options struct {
	// MaxIter bounds the Newton iterations.
	MaxIter int
	// Tol is the convergence threshold on the max-norm of the defects.
	Tol float64
	// PhaseIndex selects the state component pinned to zero at the first
	// mesh point, removing the time-shift freedom of a periodic orbit.
	PhaseIndex int
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = 50
	}
	if o.Tol <= 0 {
		o.Tol = 1e-9
	}
	return o
}

// Cycle is a converged periodic orbit: Points mesh states over one period.
type Cycle struct {
	States []dynamics.State
	Period float64
}

// Amplitude returns the largest absolute value of state component i over
// the mesh.
func (c *Cycle) Amplitude(i int) float64 {
	amp := 0.0
	for _, x := range c.States {
		if v := math.Abs(x[i]); v > amp {
			amp = v
		}
	}
	return amp
}

// CircleGuess seeds a planar solve with points on a circle of the given
// radius, a common starting orbit when nothing better is known.
func CircleGuess(radius float64, points int) []dynamics.State {
	states := make([]dynamics.State, points)
	for k := range states {
		a := 2 * math.Pi * float64(k) / float64(points)
		states[k] = dynamics.State{radius * math.Cos(a), -radius * math.Sin(a)}
	}
	return states
}

// FindLimitCycle solves for a periodic orbit near the given mesh guess.
// The unknowns are all mesh states plus the period; the equations are the
// trapezoidal defects between consecutive mesh points (wrapping around)
// and the phase condition. Non-convergence is reported as an error.
func FindLimitCycle(sys dynamics.System, guess []dynamics.State, periodGuess float64, opt Options) (*Cycle, error) {
	opt = opt.withDefaults()
	N := len(guess)
	n := sys.StateDim()
	if N < 3 {
		return nil, fmt.Errorf("trajopt: need at least 3 mesh points, got %d", N)
	}
	if periodGuess <= 0 {
		return nil, fmt.Errorf("trajopt: period guess must be positive, got %g", periodGuess)
	}
	if opt.PhaseIndex < 0 || opt.PhaseIndex >= n {
		return nil, fmt.Errorf("trajopt: phase index %d out of range for dimension %d", opt.PhaseIndex, n)
	}

	nz := N*n + 1
	z := make([]float64, nz)
	for k, x := range guess {
		if len(x) != n {
			return nil, fmt.Errorf("trajopt: guess state %d has dimension %d, want %d", k, len(x), n)
		}
		copy(z[k*n:(k+1)*n], x)
	}
	z[nz-1] = periodGuess

	residual := func(z, F []float64) {
		T := z[nz-1]
		h := T / float64(N)
		xk := make(dynamics.State, n)
		xn := make(dynamics.State, n)
		for k := 0; k < N; k++ {
			next := (k + 1) % N
			copy(xk, z[k*n:(k+1)*n])
			copy(xn, z[next*n:(next+1)*n])
			fk := sys.Derive(xk, nil, 0)
			fn := sys.Derive(xn, nil, 0)
			for i := 0; i < n; i++ {
				F[k*n+i] = xn[i] - xk[i] - 0.5*h*(fk[i]+fn[i])
			}
		}
		F[nz-1] = z[opt.PhaseIndex]
	}

	F := make([]float64, nz)
	residual(z, F)
	norm := maxAbs(F)

	Fp := make([]float64, nz)
	zTrial := make([]float64, nz)
	J := mat.NewDense(nz, nz, nil)

	for iter := 0; iter < opt.MaxIter; iter++ {
		if norm < opt.Tol {
			return extract(z, N, n), nil
		}

		// forward-difference Jacobian
		for j := 0; j < nz; j++ {
			eps := 1e-7 * (1 + math.Abs(z[j]))
			copy(zTrial, z)
			zTrial[j] += eps
			residual(zTrial, Fp)
			for i := 0; i < nz; i++ {
				J.Set(i, j, (Fp[i]-F[i])/eps)
			}
		}

		step := mat.NewVecDense(nz, nil)
		rhs := mat.NewVecDense(nz, nil)
		for i := 0; i < nz; i++ {
			rhs.SetVec(i, -F[i])
		}
		if err := step.SolveVec(J, rhs); err != nil {
			return nil, fmt.Errorf("trajopt: singular collocation Jacobian at iteration %d: %w", iter, err)
		}

		// backtracking line search on the residual norm
		alpha := 1.0
		improved := false
		for alpha >= 1.0/1024 {
			copy(zTrial, z)
			for i := 0; i < nz; i++ {
				zTrial[i] += alpha * step.AtVec(i)
			}
			residual(zTrial, Fp)
			if trial := maxAbs(Fp); trial < norm {
				copy(z, zTrial)
				copy(F, Fp)
				norm = trial
				improved = true
				break
			}
			alpha /= 2
		}
		if !improved {
			return nil, fmt.Errorf("trajopt: line search stalled at residual %g", norm)
		}
		if z[nz-1] <= 0 {
			return nil, fmt.Errorf("trajopt: period collapsed to %g", z[nz-1])
		}
	}
	if norm < opt.Tol {
		return extract(z, N, n), nil
	}
	return nil, fmt.Errorf("trajopt: no convergence after %d iterations, residual %g", opt.MaxIter, norm)
}

func extract(z []float64, N, n int) *Cycle {
	c := &Cycle{States: make([]dynamics.State, N), Period: z[N*n]}
	for k := 0; k < N; k++ {
		x := make(dynamics.State, n)
		copy(x, z[k*n:(k+1)*n])
		c.States[k] = x
	}
	return c
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
