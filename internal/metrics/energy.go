package metrics

import (
	"math"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// EnergyDrift measures how far a conservative plant's energy wanders from
// its initial value, the standard check on integrator quality. The plant
// supplies its own energy function through dynamics.Hamiltonian.
type EnergyDrift struct {
	name    string
	plant   dynamics.Hamiltonian
	initial float64
	drift   float64
	primed  bool
}

func NewEnergyDrift(plant dynamics.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", plant: plant}
}

func (e *EnergyDrift) Name() string {
	return e.name
}

func (e *EnergyDrift) Observe(x dynamics.State, u dynamics.Control, t float64) {
	energy := e.plant.Energy(x)
	if !e.primed {
		e.initial = energy
		e.primed = true
		return
	}
	if d := math.Abs(energy - e.initial); d > e.drift {
		e.drift = d
	}
}

// Value returns the worst absolute deviation from the initial energy.
func (e *EnergyDrift) Value() float64 {
	return e.drift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.drift = 0
	e.primed = false
}
