package metrics

import (
	"math"
	"testing"

	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/plant"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(dynamics.State{0}, dynamics.Control{2}, 0)
	m.Observe(dynamics.State{0}, dynamics.Control{-4}, 0.1)
	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("effort = %g, want 3", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1.0)
	m.Observe(dynamics.State{0.5, 0.5}, nil, 0)
	m.Observe(dynamics.State{2.0, 0.0}, nil, 0.1)
	m.Observe(dynamics.State{0.1, 0.1}, nil, 0.2)
	if got := m.Value(); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Errorf("stability = %g, want 2/3", got)
	}
}

func TestEnergyDrift(t *testing.T) {
	p := plant.NewPendulum()
	m := NewEnergyDrift(p)

	x := dynamics.State{math.Pi / 4, 0}
	m.Observe(x, nil, 0)
	if m.Value() != 0 {
		t.Errorf("drift after priming = %g, want 0", m.Value())
	}

	m.Observe(dynamics.State{math.Pi / 4, 0.1}, nil, 0.1)
	if m.Value() <= 0 {
		t.Error("expected positive drift after energy change")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(dynamics.State{0, 0}, 0.1)

	m.Observe(dynamics.State{1, 0}, nil, 0)
	if !math.IsNaN(m.Value()) {
		t.Error("expected NaN before settling")
	}

	m.Observe(dynamics.State{0.05, 0}, nil, 1)
	m.Observe(dynamics.State{0.02, 0}, nil, 2)
	if got := m.Value(); got != 1 {
		t.Errorf("settling time = %g, want 1", got)
	}

	// leaving the band discards the earlier candidate
	m.Observe(dynamics.State{0.5, 0}, nil, 3)
	m.Observe(dynamics.State{0.01, 0}, nil, 4)
	if got := m.Value(); got != 4 {
		t.Errorf("settling time after excursion = %g, want 4", got)
	}
}
