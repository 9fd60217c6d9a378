// Package dynamics provides the simulation primitives the course exercises
// are built on.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of controlled ODEs:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dx/dt = f(x, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Controller]: feedback controller interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn := plant.NewPendulum()
//	integ := integrators.NewRK4()
//	sim := dynamics.New(dyn, integ, control.NewNone(dyn.ControlDim()))
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel sweeps over seeds or
// initial conditions, use [Ensemble], which gives every run its own
// simulator.
package dynamics
