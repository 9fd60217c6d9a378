// Package grader runs exercises, scores their reports, and persists the
// results for the course records.
package grader

import (
	"context"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ctrlab/ctrlab/internal/exercise"
)

// Entry is the graded outcome of one exercise.
type Entry struct {
	Exercise string           `yaml:"exercise"`
	Score    float64          `yaml:"score"`
	Passed   bool             `yaml:"passed"`
	Elapsed  time.Duration    `yaml:"elapsed"`
	Error    string           `yaml:"error,omitempty"`
	Checks   []exercise.Check `yaml:"checks,omitempty"`
}

// Summary is a full grading session.
type Summary struct {
	Timestamp time.Time `yaml:"timestamp"`
	Entries   []Entry   `yaml:"entries"`
	Total     float64   `yaml:"total"`
}

// Grade runs each named exercise in order. A failing or erroring exercise
// scores zero but never aborts the session; only context cancellation
// does.
func Grade(ctx context.Context, names []string) (*Summary, error) {
	summary := &Summary{Timestamp: time.Now()}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ex, err := exercise.Get(name)
		if err != nil {
			summary.Entries = append(summary.Entries, Entry{Exercise: name, Error: err.Error()})
			continue
		}

		report, err := ex.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			summary.Entries = append(summary.Entries, Entry{Exercise: name, Error: err.Error()})
			continue
		}

		summary.Entries = append(summary.Entries, Entry{
			Exercise: name,
			Score:    report.Score(),
			Passed:   report.Passed(),
			Elapsed:  report.Elapsed,
			Checks:   report.Checks,
		})
	}

	for _, e := range summary.Entries {
		summary.Total += e.Score
	}
	if len(summary.Entries) > 0 {
		summary.Total /= float64(len(summary.Entries))
	}
	return summary, nil
}

// Save writes the session as YAML.
func (s *Summary) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved session.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
