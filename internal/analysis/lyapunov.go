package analysis

import (
	"math"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// LyapunovExponent estimates the largest Lyapunov exponent by the
// trajectory-separation method: integrate a nearby pair, accumulate the
// log of their divergence rate, and renormalize the separation before it
// saturates. Negative means the flow contracts, positive indicates chaos.
func LyapunovExponent(
	dyn dynamics.System,
	integ dynamics.Integrator,
	x0 dynamics.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	ctrl := make(dynamics.Control, dyn.ControlDim())
	sumLog := 0.0
	count := 0

	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, ctrl, t, dt)
		xp = integ.Step(dyn, xp, ctrl, t, dt)

		sep := x.Sub(xp).Norm()
		if sep <= 0 {
			break // trajectories collapsed below machine precision
		}
		sumLog += math.Log(sep / d0)
		count++

		// renormalize every step so the pair stays in the linear regime
		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
