package integrators

import (
	"math"
	"testing"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// harmonic oscillator: x'' = -x, exact solution cos(t) from x0={1,0}
type oscillator struct{}

func (o *oscillator) Derive(x dynamics.State, u dynamics.Control, t float64) dynamics.State {
	return dynamics.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamics.State{1.0, 0.0}
	u := dynamics.Control{}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConvergence(t *testing.T) {
	dyn := &oscillator{}
	integ := NewEuler()

	run := func(dt float64) float64 {
		x := dynamics.State{1.0, 0.0}
		u := dynamics.Control{}
		steps := int(1.0 / dt)
		for i := 0; i < steps; i++ {
			x = integ.Step(dyn, x, u, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Cos(1.0))
	}

	coarse := run(0.01)
	fine := run(0.001)

	// first order: error should drop roughly 10x with a 10x smaller step
	if fine >= coarse {
		t.Errorf("euler error did not shrink with dt: coarse=%.3e fine=%.3e", coarse, fine)
	}
}

func TestRK45AdaptiveStep(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK45()

	x := dynamics.State{1.0, 0.0}
	u := dynamics.Control{}

	xNew, dtNew, err := integ.StepAdaptive(dyn, x, u, 0, 0.1, 1e-8)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if dtNew <= 0 {
		t.Errorf("expected positive suggested dt, got %f", dtNew)
	}

	expected := math.Cos(0.1)
	if math.Abs(xNew[0]-expected) > 1e-6 {
		t.Errorf("RK45 step inaccurate: got %.8f, expected %.8f", xNew[0], expected)
	}
}

func TestRK45ShrinksStepOnTightTolerance(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK45()

	x := dynamics.State{1.0, 0.0}
	u := dynamics.Control{}

	_, dtLoose, _ := integ.StepAdaptive(dyn, x, u, 0, 0.5, 1e-3)
	_, dtTight, _ := integ.StepAdaptive(dyn, x, u, 0, 0.5, 1e-12)

	if dtTight >= dtLoose {
		t.Errorf("tighter tolerance should suggest smaller step: loose=%f tight=%f", dtLoose, dtTight)
	}
}
