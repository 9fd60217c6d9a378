package grader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))
)

// Render formats a grading session as a bordered terminal table.
func Render(s *Summary) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-18s %7s %6s %10s", "EXERCISE", "SCORE", "PASS", "ELAPSED")))
	sb.WriteRune('\n')

	for _, e := range s.Entries {
		status := passStyle.Render("ok")
		if !e.Passed {
			status = failStyle.Render("FAIL")
		}
		sb.WriteString(fmt.Sprintf("%-18s %6.0f%% %6s %10s", e.Exercise, e.Score*100, status, e.Elapsed.Round(1e6)))
		sb.WriteRune('\n')
		if e.Error != "" {
			sb.WriteString(subtleStyle.Render("  error: " + e.Error))
			sb.WriteRune('\n')
		}
		for _, c := range e.Checks {
			if c.Passed {
				continue
			}
			sb.WriteString(subtleStyle.Render(fmt.Sprintf("  failed: %s (got %.4g, want %.4g)", c.Name, c.Got, c.Want)))
			sb.WriteRune('\n')
		}
	}

	sb.WriteString(headerStyle.Render(fmt.Sprintf("total: %.0f%%", s.Total*100)))
	return panelStyle.Render(sb.String())
}
