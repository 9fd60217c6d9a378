// Package analysis characterizes simulated dynamics: phase portraits and
// vector fields, Poincaré sections, Lyapunov exponents, and spectral
// period estimates.
package analysis
