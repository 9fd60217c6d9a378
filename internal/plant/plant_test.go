package plant

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()

	dx := p.Derive(dynamics.State{0, 0}, dynamics.Control{0}, 0)
	if dx[0] != 0 || dx[1] != 0 {
		t.Errorf("hanging equilibrium should have zero derivative, got %v", dx)
	}

	dx = p.Derive(dynamics.State{math.Pi, 0}, dynamics.Control{0}, 0)
	if math.Abs(dx[1]) > 1e-12 {
		t.Errorf("upright equilibrium should have zero angular acceleration, got %v", dx[1])
	}
}

func TestPendulumEnergyAtRest(t *testing.T) {
	p := NewPendulum()

	if e := p.Energy(dynamics.State{0, 0}); e != 0 {
		t.Errorf("energy at rest should be 0, got %f", e)
	}

	e := p.Energy(dynamics.State{math.Pi, 0})
	expected := p.Mass * p.Gravity * p.Length * 2
	if math.Abs(e-expected) > 1e-12 {
		t.Errorf("upright energy: expected %f, got %f", expected, e)
	}
}

func TestCubicFlowDirections(t *testing.T) {
	c := NewCubic()

	// inside |x| < 1 the flow points towards the origin
	dx := c.Derive(dynamics.State{0.5}, nil, 0)
	if dx[0] >= 0 {
		t.Errorf("expected contraction at x=0.5, got dx=%f", dx[0])
	}

	// outside it diverges
	dx = c.Derive(dynamics.State{1.5}, nil, 0)
	if dx[0] <= 0 {
		t.Errorf("expected divergence at x=1.5, got dx=%f", dx[0])
	}
}

func TestVanDerPolOrigin(t *testing.T) {
	v := NewVanDerPol()
	dx := v.Derive(dynamics.State{0, 0}, nil, 0)
	if dx[0] != 0 || dx[1] != 0 {
		t.Errorf("origin should be an equilibrium, got %v", dx)
	}
}

func TestLinearDerive(t *testing.T) {
	sys := NewDampedSpring(1.0, 4.0, 0.5)

	dx := sys.Derive(dynamics.State{1, 0}, dynamics.Control{0}, 0)
	if dx[0] != 0 {
		t.Errorf("expected dpos = vel = 0, got %f", dx[0])
	}
	if math.Abs(dx[1]-(-4.0)) > 1e-12 {
		t.Errorf("expected dvel = -k*pos = -4, got %f", dx[1])
	}

	dx = sys.Derive(dynamics.State{0, 0}, dynamics.Control{2}, 0)
	if math.Abs(dx[1]-2.0) > 1e-12 {
		t.Errorf("expected dvel = u/m = 2, got %f", dx[1])
	}
}

func TestNewLinearValidation(t *testing.T) {
	if _, err := NewLinear(mat.NewDense(2, 3, nil), nil); err == nil {
		t.Error("expected error for non-square A")
	}
	if _, err := NewLinear(mat.NewDense(2, 2, nil), mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected error for mismatched B")
	}
}

func TestLinearizeMatchesLinearPlant(t *testing.T) {
	sys := NewDampedSpring(2.0, 3.0, 0.7)

	A, B := Linearize(sys, dynamics.State{0, 0}, dynamics.Control{0})

	if !mat.EqualApprox(A, sys.A, 1e-5) {
		t.Errorf("linearized A mismatch:\ngot %v\nwant %v", mat.Formatted(A), mat.Formatted(sys.A))
	}
	if !mat.EqualApprox(B, sys.B, 1e-5) {
		t.Errorf("linearized B mismatch:\ngot %v\nwant %v", mat.Formatted(B), mat.Formatted(sys.B))
	}
}

func TestLinearizePendulumUpright(t *testing.T) {
	p := NewPendulum()
	A, B := Linearize(p, dynamics.State{math.Pi, 0}, dynamics.Control{0})

	// about upright: dtheta' = omega, domega' = +g/l*theta_dev - b/(ml^2)*omega + u/(ml^2)
	gl := p.Gravity / p.Length
	if math.Abs(A.At(1, 0)-gl) > 1e-4 {
		t.Errorf("expected A[1,0] ~ g/l = %f, got %f", gl, A.At(1, 0))
	}
	if math.Abs(A.At(0, 1)-1) > 1e-6 {
		t.Errorf("expected A[0,1] = 1, got %f", A.At(0, 1))
	}
	if math.Abs(B.At(1, 0)-1/(p.Mass*p.Length*p.Length)) > 1e-4 {
		t.Errorf("unexpected B[1,0]: %f", B.At(1, 0))
	}
}

func TestTunableParams(t *testing.T) {
	var plants = []struct {
		name  string
		p     dynamics.Tunable
		param string
	}{
		{"pendulum", NewPendulum(), "mass"},
		{"vanderpol", NewVanDerPol(), "mu"},
		{"cubic", NewCubic(), "a"},
		{"cartpole", NewCartPole(), "pole_mass"},
	}

	for _, tt := range plants {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.SetParam(tt.param, 2.5); err != nil {
				t.Fatalf("SetParam failed: %v", err)
			}
			if got := tt.p.GetParams()[tt.param]; got != 2.5 {
				t.Errorf("expected %s = 2.5, got %f", tt.param, got)
			}
			if err := tt.p.SetParam("bogus", 1); err == nil {
				t.Error("expected error for unknown param")
			}
		})
	}
}

func TestParamBounds(t *testing.T) {
	plants := []struct {
		name  string
		p     dynamics.Tunable
		param string
	}{
		{"pendulum", NewPendulum(), "mass"},
		{"pendulum", NewPendulum(), "length"},
		{"cartpole", NewCartPole(), "cart_mass"},
		{"cartpole", NewCartPole(), "pole_length"},
	}

	for _, tt := range plants {
		t.Run(tt.name+"/"+tt.param, func(t *testing.T) {
			err := tt.p.SetParam(tt.param, 0)
			if !errors.Is(err, dynamics.ErrParameterBounds) {
				t.Errorf("got %v, want ErrParameterBounds", err)
			}
		})
	}
}
