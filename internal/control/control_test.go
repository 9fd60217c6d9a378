package control

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/plant"
)

func TestNone(t *testing.T) {
	ctrl := NewNone(2)
	u := ctrl.Compute(dynamics.State{1.0, 2.0}, 0.0)

	if len(u) != 2 {
		t.Errorf("expected 2 controls, got %d", len(u))
	}
	for i, v := range u {
		if v != 0 {
			t.Errorf("control[%d] should be 0, got %f", i, v)
		}
	}
}

func TestPID(t *testing.T) {
	ctrl := NewPID(10.0, 0.1, 5.0, 0.0)
	u := ctrl.Compute(dynamics.State{1.0, 0.0}, 0.0)
	if len(u) != 1 {
		t.Fatalf("expected 1 control, got %d", len(u))
	}
	if u[0] >= 0 {
		t.Error("PID should output negative control for positive error")
	}
}

func TestPIDReset(t *testing.T) {
	ctrl := NewPID(1.0, 1.0, 0.0, 0.0)
	ctrl.Compute(dynamics.State{1.0, 0.0}, 0.0)
	ctrl.Compute(dynamics.State{1.0, 0.0}, 0.1)

	if ctrl.integral == 0 {
		t.Error("expected accumulated integral")
	}

	ctrl.Reset()
	if ctrl.integral != 0 || !ctrl.first {
		t.Error("reset should clear internal state")
	}
}

func TestLQRZeroAtTarget(t *testing.T) {
	k := mat.NewDense(1, 2, []float64{1.0, 2.0})
	ctrl := NewLQR(k, dynamics.State{0, 0})

	u := ctrl.Compute(dynamics.State{0.0, 0.0}, 0.0)
	if u[0] != 0 {
		t.Errorf("expected zero control at target, got %f", u[0])
	}

	u = ctrl.Compute(dynamics.State{1.0, 0.0}, 0.0)
	if u[0] == 0 {
		t.Error("expected non-zero control away from target")
	}
}

func TestPendulumLQRBalancesUpright(t *testing.T) {
	p := plant.NewPendulum()

	ctrl, err := NewPendulumLQR(p)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}

	sim := dynamics.New(p, integrators.NewRK4(), ctrl)
	x0 := dynamics.State{math.Pi - 0.3, 0}

	result, err := sim.Run(context.Background(), x0, dynamics.Config{Dt: 0.01, Duration: 10.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.States[len(result.States)-1]
	if math.Abs(final[0]-math.Pi) > 0.01 {
		t.Errorf("pendulum not balanced: theta = %f, want ~pi", final[0])
	}
	if math.Abs(final[1]) > 0.01 {
		t.Errorf("pendulum still moving: omega = %f", final[1])
	}
}

func TestCartPoleLQRBalances(t *testing.T) {
	c := plant.NewCartPole()

	ctrl, err := NewCartPoleLQR(c)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}

	sim := dynamics.New(c, integrators.NewRK4(), ctrl)
	x0 := dynamics.State{0, 0, 0.1, 0}

	result, err := sim.Run(context.Background(), x0, dynamics.Config{Dt: 0.01, Duration: 15.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.States[len(result.States)-1]
	if math.Abs(final[2]) > 0.02 {
		t.Errorf("pole not balanced: theta = %f", final[2])
	}
}
