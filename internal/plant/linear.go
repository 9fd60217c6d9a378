package plant

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Linear is a linear time-invariant plant dx/dt = A x + B u over gonum
// matrices. It is the ground-truth system for the identification exercise
// and the target model class for its regressors.
type Linear struct {
	A *mat.Dense
	B *mat.Dense
}

// NewLinear copies A and B. B may be nil for an autonomous system.
func NewLinear(A, B mat.Matrix) (*Linear, error) {
	n, m := A.Dims()
	if n != m {
		return nil, fmt.Errorf("plant: A must be square, got %dx%d", n, m)
	}
	l := &Linear{A: mat.DenseCopyOf(A)}
	if B != nil {
		bn, _ := B.Dims()
		if bn != n {
			return nil, fmt.Errorf("plant: B rows (%d) must match A (%d): %w", bn, n, dynamics.ErrDimensionMismatch)
		}
		l.B = mat.DenseCopyOf(B)
	}
	return l, nil
}

// NewDampedSpring returns the spring-mass-damper plant
// [pos' vel'] = [vel, (-k pos - c vel + u)/m] in Linear form.
func NewDampedSpring(m, k, c float64) *Linear {
	A := mat.NewDense(2, 2, []float64{0, 1, -k / m, -c / m})
	B := mat.NewDense(2, 1, []float64{0, 1 / m})
	return &Linear{A: A, B: B}
}

func (l *Linear) StateDim() int {
	n, _ := l.A.Dims()
	return n
}

func (l *Linear) ControlDim() int {
	if l.B == nil {
		return 0
	}
	_, m := l.B.Dims()
	return m
}

func (l *Linear) Derive(x dynamics.State, u dynamics.Control, t float64) dynamics.State {
	n := l.StateDim()
	dx := make(dynamics.State, n)

	xv := mat.NewVecDense(n, x)
	out := mat.NewVecDense(n, dx)
	out.MulVec(l.A, xv)

	if l.B != nil && len(u) > 0 {
		m := l.ControlDim()
		uv := mat.NewVecDense(m, u)
		var bu mat.VecDense
		bu.MulVec(l.B, uv)
		out.AddVec(out, &bu)
	}

	return dx
}
