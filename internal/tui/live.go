// Package tui is a live terminal view of a running simulation: a phase
// plane on a character canvas, a sparkline of the first state component,
// and the usual play/pause/reset keys.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ctrlab/ctrlab/internal/dynamics"
)

const (
	canvasWidth     = 70
	canvasHeight    = 20
	historyCapacity = 400
	stepsPerFrame   = 4
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type TickMsg time.Time

// Model drives the live view. The plotted plane is the (x0, x1)
// projection of the state, with fixed bounds chosen at construction.
type Model struct {
	dyn     dynamics.System
	integ   dynamics.Integrator
	ctrl    dynamics.Controller
	name    string
	state   dynamics.State
	initial dynamics.State
	t, dt   float64
	bound   float64
	running bool
	history []float64
	trail   [][2]float64
}

// NewModel sets up a paused-at-start live view. bound is the half-width of
// the plotted square.
func NewModel(dyn dynamics.System, integ dynamics.Integrator, ctrl dynamics.Controller, x0 dynamics.State, dt, bound float64, name string) Model {
	return Model{
		dyn:     dyn,
		integ:   integ,
		ctrl:    ctrl,
		name:    name,
		state:   x0.Clone(),
		initial: x0.Clone(),
		dt:      dt,
		bound:   bound,
		running: true,
		history: make([]float64, 0, historyCapacity),
		trail:   make([][2]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.history = m.history[:0]
			m.trail = m.trail[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < stepsPerFrame; i++ {
		var u dynamics.Control
		if m.ctrl != nil {
			u = m.ctrl.Compute(m.state, m.t)
		} else {
			u = make(dynamics.Control, m.dyn.ControlDim())
		}
		m.state = m.integ.Step(m.dyn, m.state, u, m.t, m.dt)
		m.t += m.dt
	}
	if !m.state.IsValid() {
		m.running = false
		return
	}

	m.history = append(m.history, m.state[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	if len(m.state) >= 2 {
		m.trail = append(m.trail, [2]float64{m.state[0], m.state[1]})
		if len(m.trail) > historyCapacity {
			m.trail = m.trail[1:]
		}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  t=%.2f", m.name, m.t)))
	sb.WriteRune('\n')

	sb.WriteString(m.renderPlane())
	sb.WriteRune('\n')

	for i, v := range m.state {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("x%d=% .4f  ", i, v)))
	}
	sb.WriteRune('\n')

	if len(m.history) >= 2 {
		sb.WriteString(graphStyle.Render(asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption("x0 history"),
		)))
		sb.WriteRune('\n')
	}

	status := "running"
	if !m.running {
		status = "paused"
	}
	sb.WriteString(helpStyle.Render(fmt.Sprintf("[%s]  space pause · r reset · q quit", status)))
	return sb.String()
}

func (m Model) renderPlane() string {
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	plot := func(x, y float64, c rune) {
		col := int((x + m.bound) / (2 * m.bound) * float64(canvasWidth-1))
		row := canvasHeight - 1 - int((y+m.bound)/(2*m.bound)*float64(canvasHeight-1))
		if row >= 0 && row < canvasHeight && col >= 0 && col < canvasWidth {
			canvas[row][col] = c
		}
	}

	for _, p := range m.trail {
		plot(p[0], p[1], '·')
	}
	if len(m.state) >= 2 {
		plot(m.state[0], m.state[1], '●')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
