// Package exercise defines the course lab exercises: self-contained,
// gradable experiments that exercise simulation, stability analysis,
// identification, and trajectory optimization. Each exercise runs its
// experiment and reports a list of named checks; the grader scores them.
package exercise

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// Check is one pass/fail assertion inside an exercise, with the measured
// value kept for the report.
type Check struct {
	Name   string  `yaml:"name"`
	Passed bool    `yaml:"passed"`
	Got    float64 `yaml:"got"`
	Want   float64 `yaml:"want"`
	Tol    float64 `yaml:"tol"`
}

// Report is the outcome of one exercise run.
type Report struct {
	Exercise string        `yaml:"exercise"`
	Checks   []Check       `yaml:"checks"`
	Elapsed  time.Duration `yaml:"elapsed"`
}

// Score is the fraction of checks that passed.
func (r *Report) Score() float64 {
	if len(r.Checks) == 0 {
		return 0
	}
	passed := 0
	for _, c := range r.Checks {
		if c.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(r.Checks))
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return len(r.Checks) > 0
}

// checkClose appends a tolerance check on a measured value.
func (r *Report) checkClose(name string, got, want, tol float64) {
	r.Checks = append(r.Checks, Check{
		Name:   name,
		Passed: !math.IsNaN(got) && math.Abs(got-want) <= tol,
		Got:    got,
		Want:   want,
		Tol:    tol,
	})
}

// checkBelow appends an upper-bound check.
func (r *Report) checkBelow(name string, got, bound float64) {
	r.Checks = append(r.Checks, Check{
		Name:   name,
		Passed: !math.IsNaN(got) && got <= bound,
		Got:    got,
		Want:   bound,
	})
}

// checkTrue appends a boolean check.
func (r *Report) checkTrue(name string, ok bool) {
	got := 0.0
	if ok {
		got = 1.0
	}
	r.Checks = append(r.Checks, Check{Name: name, Passed: ok, Got: got, Want: 1})
}

// Exercise is a runnable lab assignment.
type Exercise interface {
	Name() string
	Description() string
	Run(ctx context.Context) (*Report, error)
}

var registry = map[string]func() Exercise{}

// Register adds an exercise constructor under its name. Duplicate names
// panic at init time.
func Register(name string, create func() Exercise) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("exercise: duplicate registration of %q", name))
	}
	registry[name] = create
}

// Get builds the named exercise.
func Get(name string) (Exercise, error) {
	create, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("exercise: unknown exercise %q", name)
	}
	return create(), nil
}

// List returns the registered names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
