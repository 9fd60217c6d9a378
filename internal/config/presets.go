package config

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			State: []float64{0.2, 0.0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			State: []float64{2.5, 0.0},
		},
		"swingup": {
			Model: "pendulum", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 15.0,
			State: []float64{2.8, 0.0},
		},
	},
	"vanderpol": {
		"cycle": {
			Model: "vanderpol", Integrator: "rk4", Dt: 0.01, Duration: 30.0,
			State: []float64{2.0, 0.0},
		},
		"inner": {
			Model: "vanderpol", Integrator: "rk4", Dt: 0.01, Duration: 40.0,
			State: []float64{0.1, 0.0},
		},
		"outer": {
			Model: "vanderpol", Integrator: "rk45", Dt: 0.01, Duration: 40.0,
			State: []float64{4.0, 0.0},
		},
	},
	"cartpole": {
		"balance": {
			Model: "cartpole", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 30.0,
			State: []float64{0.0, 0.0, 0.1, 0.0},
		},
		"recover": {
			Model: "cartpole", Integrator: "rk4", Controller: "lqr", Dt: 0.01, Duration: 30.0,
			State: []float64{0.0, 0.0, 0.5, 0.0},
		},
		"freefall": {
			Model: "cartpole", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			State: []float64{0.0, 0.0, 0.1, 0.0},
		},
	},
	"cubic": {
		"inside": {
			Model: "cubic", Integrator: "rk4", Dt: 0.001, Duration: 10.0,
			State: []float64{0.9},
		},
		"boundary": {
			Model: "cubic", Integrator: "rk45", Dt: 0.001, Duration: 5.0,
			State: []float64{0.999},
		},
	},
	"spring": {
		"bounce": {
			Model: "spring", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			State: []float64{2.0, 0.0},
		},
	},
}

func GetPreset(model, name string) *Config {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	return group[name]
}

func ListPresets(model string) []string {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
