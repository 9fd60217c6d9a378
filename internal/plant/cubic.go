package plant

import (
	"fmt"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Cubic is the scalar system dx/dt = -x + a*x^3. With a = 1 the origin is
// locally stable and the region of attraction is exactly |x| < 1, which makes
// it the reference plant for the Lyapunov certificate exercises: every
// estimator should recover the level set rho = 1 of V = x^2.
type Cubic struct {
	A float64
}

func NewCubic() *Cubic {
	return &Cubic{A: 1.0}
}

func (c *Cubic) StateDim() int   { return 1 }
func (c *Cubic) ControlDim() int { return 0 }

func (c *Cubic) Derive(x dynamics.State, _ dynamics.Control, _ float64) dynamics.State {
	return dynamics.State{-x[0] + c.A*x[0]*x[0]*x[0]}
}

func (c *Cubic) GetParams() map[string]float64 {
	return map[string]float64{"a": c.A}
}

func (c *Cubic) SetParam(name string, value float64) error {
	if name != "a" {
		return fmt.Errorf("unknown param: %s", name)
	}
	c.A = value
	return nil
}
