package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

// Point is a sample in a 2D projection of phase space.
type Point struct{ X, Y float64 }

// Portrait holds one or more trajectories projected onto a pair of state
// components, plus an optional vector-field grid.
type Portrait struct {
	XIndex, YIndex int
	Trails         [][]Point
}

// Trajectory integrates from x0 and records the (xIdx, yIdx) projection.
func Trajectory(
	dyn dynamics.System,
	integ dynamics.Integrator,
	x0 dynamics.State,
	xIdx, yIdx int,
	dt, duration float64,
) ([]Point, error) {
	if xIdx >= len(x0) || yIdx >= len(x0) {
		return nil, fmt.Errorf("analysis: projection indices (%d,%d) out of range for dimension %d", xIdx, yIdx, len(x0))
	}
	if dt <= 0 || duration <= 0 {
		return nil, fmt.Errorf("analysis: dt and duration must be positive")
	}

	steps := int(math.Round(duration / dt))
	points := make([]Point, 0, steps)
	x := x0.Clone()
	ctrl := make(dynamics.Control, dyn.ControlDim())
	for k := 0; k < steps; k++ {
		x = integ.Step(dyn, x, ctrl, float64(k)*dt, dt)
		points = append(points, Point{X: x[xIdx], Y: x[yIdx]})
	}
	return points, nil
}

// PortraitFromGrid integrates one trajectory per initial condition. This is
// the standard way to chart basins: seed a grid, watch where flows settle.
func PortraitFromGrid(
	dyn dynamics.System,
	integ dynamics.Integrator,
	inits []dynamics.State,
	xIdx, yIdx int,
	dt, duration float64,
) (*Portrait, error) {
	p := &Portrait{XIndex: xIdx, YIndex: yIdx}
	for _, x0 := range inits {
		trail, err := Trajectory(dyn, integ, x0, xIdx, yIdx, dt, duration)
		if err != nil {
			return nil, err
		}
		p.Trails = append(p.Trails, trail)
	}
	return p, nil
}

// GridInitialStates lays out a uniform nx-by-ny grid of planar initial
// conditions over the given rectangle.
func GridInitialStates(xMin, xMax, yMin, yMax float64, nx, ny int) []dynamics.State {
	states := make([]dynamics.State, 0, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			fx, fy := 0.5, 0.5
			if nx > 1 {
				fx = float64(i) / float64(nx-1)
			}
			if ny > 1 {
				fy = float64(j) / float64(ny-1)
			}
			states = append(states, dynamics.State{
				xMin + fx*(xMax-xMin),
				yMin + fy*(yMax-yMin),
			})
		}
	}
	return states
}

// ToASCII renders the portrait on a character canvas with axes. Bounds are
// taken from the data with a 10% margin.
func (p *Portrait) ToASCII(width, height int) string {
	var all []Point
	for _, trail := range p.Trails {
		all = append(all, trail...)
	}
	if len(all) == 0 {
		return ""
	}

	minX, maxX := all[0].X, all[0].X
	minY, maxY := all[0].Y, all[0].Y
	for _, pt := range all {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range all {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// VectorField samples the flow direction on a uniform grid and renders each
// cell as a directional glyph.
func VectorField(dyn dynamics.System, xMin, xMax, yMin, yMax float64, nx, ny int) string {
	glyphs := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	ctrl := make(dynamics.Control, dyn.ControlDim())

	var sb strings.Builder
	for j := ny - 1; j >= 0; j-- {
		for i := 0; i < nx; i++ {
			x := xMin + (float64(i)+0.5)/float64(nx)*(xMax-xMin)
			y := yMin + (float64(j)+0.5)/float64(ny)*(yMax-yMin)
			dx := dyn.Derive(dynamics.State{x, y}, ctrl, 0)
			mag := math.Hypot(dx[0], dx[1])
			if mag < 1e-12 {
				sb.WriteRune('·')
				continue
			}
			angle := math.Atan2(dx[1], dx[0])
			octant := (int(math.Round(angle/(math.Pi/4))) + 8) % 8
			sb.WriteRune(glyphs[octant])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records the projected state each time a chosen component
// crosses a threshold in the positive direction. Crossings are located by
// linear interpolation between steps.
func PoincareSection(
	dyn dynamics.System,
	integ dynamics.Integrator,
	x0 dynamics.State,
	crossIdx int,
	threshold float64,
	recordX, recordY int,
	dt, duration float64,
) ([]Point, error) {
	n := len(x0)
	if crossIdx >= n || recordX >= n || recordY >= n {
		return nil, fmt.Errorf("analysis: section indices out of range for dimension %d", n)
	}

	var points []Point
	x := x0.Clone()
	ctrl := make(dynamics.Control, dyn.ControlDim())
	prev := x[crossIdx]
	prevState := x.Clone()

	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, ctrl, t, dt)
		curr := x[crossIdx]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			points = append(points, Point{
				X: prevState[recordX] + frac*(x[recordX]-prevState[recordX]),
				Y: prevState[recordY] + frac*(x[recordY]-prevState[recordY]),
			})
		}
		prev = curr
		copy(prevState, x)
	}
	return points, nil
}
