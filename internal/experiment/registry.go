// Package experiment maps the CLI's string names onto plants, integrators,
// controllers, and default metrics.
package experiment

import (
	"fmt"
	"sort"

	"github.com/ctrlab/ctrlab/internal/control"
	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/metrics"
	"github.com/ctrlab/ctrlab/internal/plant"
)

type Registry struct {
	models      map[string]func() dynamics.System
	integrators map[string]func() dynamics.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() dynamics.System),
		integrators: make(map[string]func() dynamics.Integrator),
	}

	r.models["pendulum"] = func() dynamics.System { return plant.NewPendulum() }
	r.models["vanderpol"] = func() dynamics.System { return plant.NewVanDerPol() }
	r.models["cartpole"] = func() dynamics.System { return plant.NewCartPole() }
	r.models["cubic"] = func() dynamics.System { return plant.NewCubic() }
	r.models["spring"] = func() dynamics.System { return plant.NewDampedSpring(1, 4, 0.5) }

	r.integrators["euler"] = func() dynamics.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamics.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamics.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetModel(name string) (dynamics.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, r.ListModels())
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamics.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// GetController builds a controller for the given plant. LQR gains are
// synthesized on the fly from a linearization, so only plants with a known
// operating point support them.
func (r *Registry) GetController(name string, dyn dynamics.System, params map[string]float64) (dynamics.Controller, error) {
	switch name {
	case "", "none":
		dim := int(params["dim"])
		if dim == 0 {
			dim = dyn.ControlDim()
		}
		return control.NewNone(dim), nil
	case "pid":
		return control.NewPID(params["kp"], params["ki"], params["kd"], params["target"]), nil
	case "lqr":
		switch p := dyn.(type) {
		case *plant.Pendulum:
			return control.NewPendulumLQR(p)
		case *plant.CartPole:
			return control.NewCartPoleLQR(p)
		default:
			return nil, fmt.Errorf("lqr synthesis not available for this model")
		}
	default:
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics assembles the standard per-run metric set; plants with a
// conserved energy also get a drift monitor.
func (r *Registry) DefaultMetrics(dyn dynamics.System) []dynamics.Metric {
	set := []dynamics.Metric{
		metrics.NewStability(10.0),
		metrics.NewControlEffort(),
	}
	if h, ok := dyn.(dynamics.Hamiltonian); ok {
		set = append(set, metrics.NewEnergyDrift(h))
	}
	return set
}
