// Package plotting renders simulation output: quick asciigraph panels for
// the terminal and gonum/plot PNGs for reports.
package plotting

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// TimeSeries renders one asciigraph panel per state component.
func TimeSeries(result *dynamics.Result, width, height int) string {
	if len(result.States) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}

	var sb strings.Builder
	n := len(result.States[0])
	for i := 0; i < n; i++ {
		data := make([]float64, len(result.States))
		for k, x := range result.States {
			data[k] = x[i]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("x%d over time", i)),
		)
		sb.WriteString(graph)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Series renders a single named series.
func Series(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
