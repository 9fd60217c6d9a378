package trajopt

import (
	"math"
	"testing"

	"github.com/ctrlab/ctrlab/internal/plant"
)

func TestVanDerPolLimitCycle(t *testing.T) {
	vdp := plant.NewVanDerPol()
	guess := CircleGuess(2, 80)
	cycle, err := FindLimitCycle(vdp, guess, 2*math.Pi, Options{PhaseIndex: 1})
	if err != nil {
		t.Fatalf("FindLimitCycle: %v", err)
	}

	// mu = 1: period about 6.66, amplitude just above 2
	if cycle.Period < 6.2 || cycle.Period > 7.2 {
		t.Errorf("period = %g, want about 6.66", cycle.Period)
	}
	if amp := cycle.Amplitude(0); amp < 1.9 || amp > 2.1 {
		t.Errorf("amplitude = %g, want about 2.0", amp)
	}

	// phase condition pins the first mesh point
	if v := math.Abs(cycle.States[0][1]); v > 1e-8 {
		t.Errorf("phase component not pinned: %g", v)
	}
}

func TestLimitCycleRefinesWithMesh(t *testing.T) {
	vdp := plant.NewVanDerPol()

	coarse, err := FindLimitCycle(vdp, CircleGuess(2, 30), 2*math.Pi, Options{PhaseIndex: 1})
	if err != nil {
		t.Fatalf("coarse solve: %v", err)
	}
	fine, err := FindLimitCycle(vdp, CircleGuess(2, 120), 2*math.Pi, Options{PhaseIndex: 1})
	if err != nil {
		t.Fatalf("fine solve: %v", err)
	}
	if math.Abs(coarse.Period-fine.Period) > 0.1 {
		t.Errorf("mesh refinement moved the period too much: %g vs %g", coarse.Period, fine.Period)
	}
}

func TestFindLimitCycleValidation(t *testing.T) {
	vdp := plant.NewVanDerPol()
	if _, err := FindLimitCycle(vdp, CircleGuess(2, 2), 2*math.Pi, Options{PhaseIndex: 1}); err == nil {
		t.Error("expected an error for a 2-point mesh")
	}
	if _, err := FindLimitCycle(vdp, CircleGuess(2, 40), -1, Options{}); err == nil {
		t.Error("expected an error for a negative period guess")
	}
	if _, err := FindLimitCycle(vdp, CircleGuess(2, 40), 2*math.Pi, Options{PhaseIndex: 5}); err == nil {
		t.Error("expected an error for an out-of-range phase index")
	}
}
