package plant

import (
	"fmt"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = mu(1 - x^2)y - x
//
// For mu > 0 every nonzero trajectory converges to a stable limit cycle, the
// target orbit of the limit-cycle exercise. Time-reversed (mu < 0) the origin
// is attracting and the cycle bounds its region of attraction.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1.0}
}

func (v *VanDerPol) StateDim() int   { return 2 }
func (v *VanDerPol) ControlDim() int { return 0 }

func (v *VanDerPol) Derive(state dynamics.State, _ dynamics.Control, _ float64) dynamics.State {
	x, y := state[0], state[1]

	dx := y
	dy := v.Mu*(1-x*x)*y - x

	return dynamics.State{dx, dy}
}

func (v *VanDerPol) DefaultState() dynamics.State {
	return dynamics.State{2.0, 0.0}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return fmt.Errorf("unknown param: %s", name)
	}
	v.Mu = value
	return nil
}
