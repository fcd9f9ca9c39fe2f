package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model runs the simulation frame-by-frame and renders a side (XY) view
// of the bodies with a height trace for the first body.
type Model struct {
	simulator *sim.Simulator
	sceneName string
	dt        float64
	t         float64

	groundHeight  float64
	groundEnabled bool
	bodyRadius    float64

	canvas  *Canvas
	running bool
	lastErr error

	discontinuities int
	heightHistory   []float64
	energy          *metrics.KineticEnergy

	initial dynamo.State

	// world window of the side view
	worldXMin, worldXMax float64
	worldYMin, worldYMax float64
}

func NewModel(s *sim.Simulator, sceneName string, dt, groundHeight, bodyRadius float64, groundEnabled bool) (Model, error) {
	initial, err := s.System().Encode()
	if err != nil {
		return Model{}, err
	}

	return Model{
		simulator:     s,
		sceneName:     sceneName,
		dt:            dt,
		groundHeight:  groundHeight,
		groundEnabled: groundEnabled,
		bodyRadius:    bodyRadius,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		heightHistory: make([]float64, 0, historyCapacity),
		energy:        metrics.NewKineticEnergy(s.System().Bodies),
		initial:       initial,
		worldXMin:     -5,
		worldXMax:     5,
		worldYMin:     groundHeight - 1,
		worldYMax:     groundHeight + 9,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	x, t, resolved, err := m.simulator.StepFrame(m.t, m.dt)
	if err != nil {
		m.lastErr = err
		m.running = false
		return
	}
	m.t = t
	m.discontinuities += resolved

	m.energy.Observe(x, t)

	if len(x) > 1 {
		m.heightHistory = append(m.heightHistory, x[1])
		if len(m.heightHistory) > historyCapacity {
			m.heightHistory = m.heightHistory[1:]
		}
	}
}

func (m *Model) reset() {
	if err := m.simulator.System().Decode(m.initial); err != nil {
		m.lastErr = err
		return
	}
	m.t = 0
	m.discontinuities = 0
	m.heightHistory = m.heightHistory[:0]
	m.energy.Reset()
	m.lastErr = nil
	m.running = true
}

// project maps world coordinates to canvas sub-pixel coordinates.
func (m *Model) project(wx, wy float64) (int, int) {
	cw := float64(m.canvas.Width * 2)
	ch := float64(m.canvas.Height * 4)
	px := (wx - m.worldXMin) / (m.worldXMax - m.worldXMin) * cw
	py := ch - (wy-m.worldYMin)/(m.worldYMax-m.worldYMin)*ch
	return int(px), int(py)
}

func (m *Model) draw() {
	m.canvas.Clear()

	if m.groundEnabled {
		gx0, gy := m.project(m.worldXMin, m.groundHeight)
		gx1, _ := m.project(m.worldXMax, m.groundHeight)
		m.canvas.DrawLine(gx0, gy, gx1, gy)
	}

	subPerUnit := float64(m.canvas.Width*2) / (m.worldXMax - m.worldXMin)
	for _, b := range m.simulator.System().Bodies {
		if b.IsStatic() {
			continue
		}
		cx, cy := m.project(b.X[0], b.X[1])
		m.canvas.DrawCircle(cx, cy, m.bodyRadius*subPerUnit)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sceneName)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.heightHistory) > 1 {
		chart := asciigraph.Plot(m.heightHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Height"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Kinetic energy") + valueStyle.Render(fmt.Sprintf("%.3f", m.energy.Value())) + "\n")
	s.WriteString(labelStyle.Render("Impulses") + valueStyle.Render(fmt.Sprintf("%d", m.discontinuities)) + "\n")

	bodies := 0
	for _, b := range m.simulator.System().Bodies {
		if !b.IsStatic() {
			bodies++
		}
	}
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", bodies)) + "\n")

	if m.lastErr != nil {
		s.WriteString("\n" + errStyle.Render(m.lastErr.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause  R:Reset  Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run launches the live view and blocks until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
