package dynamics

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decayDynamics struct{}

func (d *decayDynamics) Derive(x State, u Control, t float64) State {
	return State{-x[0]}
}

func (d *decayDynamics) StateDim() int   { return 1 }
func (d *decayDynamics) ControlDim() int { return 0 }

type eulerStep struct{}

func (e *eulerStep) Step(dyn System, x State, u Control, t, dt float64) State {
	dx := dyn.Derive(x, u, t)
	result := make(State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

type zeroController struct{}

func (z *zeroController) Compute(x State, t float64) Control {
	return Control{}
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	cfg := Config{Dt: 0.1, Duration: 1.0}
	x0 := State{1.0}

	result, err := sim.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	finalState := result.States[len(result.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
}

func TestSimulatorDoesNotMutateInitialState(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	x0 := State{1.0}
	_, err := sim.Run(context.Background(), x0, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if x0[0] != 1.0 {
		t.Errorf("x0 was mutated: %v", x0)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"adaptive without tolerance", Config{Dt: 0.1, Duration: 1.0, Adaptive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), State{1.0}, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorCancellation(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, State{1.0}, Config{Dt: 0.001, Duration: 100.0})
	if err == nil {
		t.Error("expected context error after cancellation")
	}
}

type blowupDynamics struct{}

func (b *blowupDynamics) Derive(x State, u Control, t float64) State {
	return State{math.NaN()}
}

func (b *blowupDynamics) StateDim() int   { return 1 }
func (b *blowupDynamics) ControlDim() int { return 0 }

func TestSimulatorValidateState(t *testing.T) {
	sim := New(&blowupDynamics{}, &eulerStep{}, &zeroController{})

	cfg := Config{Dt: 0.1, Duration: 1.0, ValidateState: true}
	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected a recorded error for NaN state")
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Errorf("recorded error %v should wrap ErrInvalidState", result.Errors[0])
	}
	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 0 {
		t.Errorf("recorded error should carry step context: %v", result.Errors[0])
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected run to stop on first invalid step, took %d", result.StepsTaken)
	}
}

type explodeDynamics struct{}

func (e *explodeDynamics) Derive(x State, u Control, t float64) State {
	return State{x[0] * x[0]}
}

func (e *explodeDynamics) StateDim() int   { return 1 }
func (e *explodeDynamics) ControlDim() int { return 0 }

func TestSimulatorDivergenceStopsRun(t *testing.T) {
	sim := New(&explodeDynamics{}, &eulerStep{}, &zeroController{})

	cfg := Config{Dt: 1.0, Duration: 200.0, ValidateState: true}
	result, err := sim.Run(context.Background(), State{2.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected a recorded error for a diverging state")
	}
	if !errors.Is(result.Errors[0], ErrUnstable) {
		t.Errorf("recorded error %v should wrap ErrUnstable", result.Errors[0])
	}
	if result.StepsTaken >= 200 {
		t.Error("diverging run should stop early")
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	_, err := sim.Run(context.Background(), State{1.0, 2.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestAdaptiveStepTooSmall(t *testing.T) {
	sim := New(&explodeDynamics{}, &eulerStep{}, &zeroController{})

	cfg := Config{
		Dt:        0.1,
		Duration:  1.0,
		Adaptive:  true,
		Tolerance: 1e-300,
		MinDt:     0.05,
		MaxDt:     0.1,
	}
	result, err := sim.Run(context.Background(), State{2.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	found := false
	for _, e := range result.Errors {
		if errors.Is(e, ErrStepTooSmall) {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected a recorded ErrStepTooSmall once dt hit the floor")
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "mean_x0" }
func (c *countMetric) Observe(x State, u Control, t float64) {
	c.count++
	c.sum += x[0]
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() {
	c.count = 0
	c.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})

	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["mean_x0"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestEnsembleMetricsPerRun(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})
	ens := NewEnsemble(sim, 8, 0)
	ens.AddMetricFactory(func() Metric { return &countMetric{} })

	results, err := ens.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}

	// identical initial conditions, so every run must report the same value
	want := results[0].Metrics["mean_x0"]
	for i, r := range results {
		got, ok := r.Metrics["mean_x0"]
		if !ok {
			t.Fatalf("run %d: metric missing from result", i)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("run %d: metric value %v, want %v", i, got, want)
		}
	}
}

func TestEnsembleRunInitialStates(t *testing.T) {
	sim := New(&decayDynamics{}, &eulerStep{}, &zeroController{})
	ens := NewEnsemble(sim, 0, 0)

	states := []State{{1.0}, {2.0}, {-3.0}}
	results, err := ens.RunInitialStates(context.Background(), states, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		final := r.States[len(r.States)-1][0]
		if math.Abs(final) >= math.Abs(states[i][0]) {
			t.Errorf("run %d: decay system should contract, x0=%v final=%v", i, states[i][0], final)
		}
	}
}
