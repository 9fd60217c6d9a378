// Package metrics collects per-step summaries during a simulation run.
// Each metric implements dynamics.Metric and is fed by the simulator's
// observation hook.
package metrics

import (
	"math"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// ControlEffort tracks the mean absolute actuation over a run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamics.State, u dynamics.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
