package plant

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Linearize computes the Jacobians A = df/dx and B = df/du of a plant at the
// operating point (x0, u0) by central differences. The result feeds LQR gain
// synthesis and local stability checks.
func Linearize(dyn dynamics.System, x0 dynamics.State, u0 dynamics.Control) (A, B *mat.Dense) {
	n := dyn.StateDim()
	m := dyn.ControlDim()
	const h = 1e-6

	A = mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		xp := x0.Clone()
		xm := x0.Clone()
		xp[j] += h
		xm[j] -= h

		fp := dyn.Derive(xp, u0, 0)
		fm := dyn.Derive(xm, u0, 0)
		for i := 0; i < n; i++ {
			A.Set(i, j, (fp[i]-fm[i])/(2*h))
		}
	}

	if m == 0 {
		return A, nil
	}

	B = mat.NewDense(n, m, nil)
	for j := 0; j < m; j++ {
		up := make(dynamics.Control, m)
		um := make(dynamics.Control, m)
		copy(up, u0)
		copy(um, u0)
		up[j] += h
		um[j] -= h

		fp := dyn.Derive(x0, up, 0)
		fm := dyn.Derive(x0, um, 0)
		for i := 0; i < n; i++ {
			B.Set(i, j, (fp[i]-fm[i])/(2*h))
		}
	}

	return A, B
}
