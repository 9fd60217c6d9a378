package metrics

import (
	"math"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// SettlingTime records the earliest time after which the state stayed
// within tolerance of the target for the rest of the run. Leaving the band
// resets the candidate time.
type SettlingTime struct {
	name      string
	target    dynamics.State
	tolerance float64
	settledAt float64
	settled   bool
	lastTime  float64
}

func NewSettlingTime(target dynamics.State, tolerance float64) *SettlingTime {
	return &SettlingTime{name: "settling_time", target: target, tolerance: tolerance}
}

func (s *SettlingTime) Name() string {
	return s.name
}

func (s *SettlingTime) Observe(x dynamics.State, u dynamics.Control, t float64) {
	s.lastTime = t
	if x.Sub(s.target).Norm() <= s.tolerance {
		if !s.settled {
			s.settledAt = t
			s.settled = true
		}
		return
	}
	s.settled = false
}

// Value returns the settling time, or NaN if the run never settled.
func (s *SettlingTime) Value() float64 {
	if !s.settled {
		return math.NaN()
	}
	return s.settledAt
}

func (s *SettlingTime) Reset() {
	s.settledAt = 0
	s.settled = false
	s.lastTime = 0
}
