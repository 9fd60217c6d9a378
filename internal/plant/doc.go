// Package plant holds the small ODE models the course exercises study:
// pendulum, cart-pole, Van der Pol oscillator, the scalar cubic system and
// linear state-space plants. Every model implements dynamics.System; models
// with tunable parameters also implement dynamics.Tunable.
package plant
