package plant

import (
	"fmt"
	"math"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// CartPole is the classic cart-and-pole balancing plant.
// State: [pos, vel, theta, omega] with theta = 0 upright.
type CartPole struct {
	CartMass   float64
	PoleMass   float64
	PoleLength float64
	Gravity    float64
}

func NewCartPole() *CartPole {
	return &CartPole{
		CartMass:   1.0,
		PoleMass:   0.1,
		PoleLength: 1.0,
		Gravity:    9.81,
	}
}

func (c *CartPole) StateDim() int   { return 4 }
func (c *CartPole) ControlDim() int { return 1 }

func (c *CartPole) Derive(x dynamics.State, u dynamics.Control, t float64) dynamics.State {
	vel := x[1]
	theta := x[2]
	omega := x[3]

	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}

	mc := c.CartMass
	mp := c.PoleMass
	l := c.PoleLength
	g := c.Gravity

	sint := math.Sin(theta)
	cost := math.Cos(theta)

	temp := (force + mp*l*omega*omega*sint) / (mc + mp)
	thetaacc := (g*sint - cost*temp) / (l * (4.0/3.0 - mp*cost*cost/(mc+mp)))
	xacc := temp - mp*l*thetaacc*cost/(mc+mp)

	return dynamics.State{vel, xacc, omega, thetaacc}
}

func (c *CartPole) GetParams() map[string]float64 {
	return map[string]float64{
		"cart_mass":   c.CartMass,
		"pole_mass":   c.PoleMass,
		"pole_length": c.PoleLength,
		"gravity":     c.Gravity,
	}
}

func (c *CartPole) SetParam(name string, value float64) error {
	switch name {
	case "cart_mass":
		if value <= 0 {
			return fmt.Errorf("cart_mass must be positive, got %g: %w", value, dynamics.ErrParameterBounds)
		}
		c.CartMass = value
	case "pole_mass":
		if value <= 0 {
			return fmt.Errorf("pole_mass must be positive, got %g: %w", value, dynamics.ErrParameterBounds)
		}
		c.PoleMass = value
	case "pole_length":
		if value <= 0 {
			return fmt.Errorf("pole_length must be positive, got %g: %w", value, dynamics.ErrParameterBounds)
		}
		c.PoleLength = value
	case "gravity":
		c.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
