package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

const (
	canvasCols      = 60
	canvasRows      = 22
	historyCapacity = 600
	trailCapacity   = 150
	frameRate       = 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one experiment in real time and draws it. Reset rebuilds the
// experiment from its configuration, so every restart gets a fresh body.
type Model struct {
	cfg  *config.Config
	opts []sim.Option

	sim   *sim.Simulator
	scene *Scene

	canvas        *Canvas
	stepsPerFrame int
	running       bool
	showHelp      bool
	selected      int

	last    sim.StepRecord
	stepped bool
	trail   []dynamo.Vec
	forces  map[string][]float64
	err     error
}

// NewModel builds the experiment described by cfg.
func NewModel(cfg *config.Config, opts ...sim.Option) (Model, error) {
	m := Model{
		cfg:     cfg,
		opts:    opts,
		canvas:  NewCanvas(canvasCols, canvasRows),
		running: true,
	}
	m.stepsPerFrame = max(1, int(math.Ceil(1.0/frameRate/cfg.Dt)))
	if err := m.build(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) build() error {
	exp, err := m.cfg.Build()
	if err != nil {
		return err
	}
	s, err := exp.Simulator(m.opts...)
	if err != nil {
		return err
	}

	anchors := make(map[string]dynamo.Vec, len(exp.Cables))
	for tag, c := range exp.Cables {
		anchors[tag] = c.Anchor()
	}
	scene := NewScene(s.Tags(), anchors)
	if m.scene != nil {
		scene.Camera, scene.Zoom = m.scene.Camera, m.scene.Zoom
	}

	m.sim, m.scene = s, scene
	m.last, m.stepped, m.err = sim.StepRecord{}, false, nil
	m.trail = make([]dynamo.Vec, 0, trailCapacity)
	m.forces = make(map[string][]float64, len(s.Tags()))
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and advances the simulator on each tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.build(); err != nil {
				m.err = err
			}
		case "tab":
			m.selected = (m.selected + 1) % len(m.sim.Tags())
		case "left", "h":
			m.scene.Camera.Rotate(-0.1, 0)
		case "right", "l":
			m.scene.Camera.Rotate(0.1, 0)
		case "up", "k":
			m.scene.Camera.Rotate(0, 0.1)
		case "down", "j":
			m.scene.Camera.Rotate(0, -0.1)
		case "+", "=":
			m.scene.ZoomIn()
		case "-", "_":
			m.scene.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to stepsPerFrame steps. A finished or failed run stays
// on its last frame.
func (m *Model) advance() {
	if m.err != nil || m.sim.Phase() == sim.Completed {
		return
	}
	for i := 0; i < m.stepsPerFrame; i++ {
		rec, err := m.sim.Step(context.Background())
		if errors.Is(err, dynamo.ErrCompleted) {
			return
		}
		if err != nil {
			m.err = err
			return
		}
		m.record(rec)
	}
}

func (m *Model) record(rec sim.StepRecord) {
	m.last, m.stepped = rec, true
	m.trail = appendCapped(m.trail, m.sim.Body().Pos(), trailCapacity)
	for tag, f := range rec.Forces {
		m.forces[tag] = appendCapped(m.forces[tag], f, historyCapacity)
	}
}

func appendCapped[T any](xs []T, x T, limit int) []T {
	xs = append(xs, x)
	if len(xs) > limit {
		xs = xs[len(xs)-limit:]
	}
	return xs
}

// Done reports whether the run has finished or failed.
func (m Model) Done() bool {
	return m.err != nil || m.sim.Phase() == sim.Completed
}

func (m Model) Err() error { return m.err }

func (m Model) slack() map[string]bool {
	out := make(map[string]bool, len(m.last.Forces))
	if !m.stepped {
		return out
	}
	for tag, f := range m.last.Forces {
		out[tag] = f <= m.cfg.SlackThreshold
	}
	return out
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.sim.Phase() == sim.Completed:
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the scene and the stats panel.
func (m Model) View() string {
	body := m.sim.Body()
	slack := m.slack()
	m.scene.Render(m.canvas, body.Pos(), m.trail, slack)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	step := 0
	if m.stepped {
		step = m.last.Step + 1
	}
	frac := float64(step) / float64(m.cfg.Steps)
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", float64(step)*m.cfg.Dt)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d/%d ", step, m.cfg.Steps)) + ProgressBar(frac, 16) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(formatVec(body.Pos())) + "\n")
	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(formatVec(body.Vel())) + "\n")
	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(wrap(m.err.Error(), 40)) + "\n")
	}

	s.WriteString("\nCABLES\n")
	tags := m.sim.Tags()
	for i, tag := range tags {
		force := m.last.Forces[tag]
		state := TautStyle.Render("taut ")
		if slack[tag] {
			state = SlackStyle.Render("slack")
		}
		line := fmt.Sprintf("%-6s %10.3f u=%.3f", tag, force, m.last.Controls[tag])
		if i == m.selected {
			s.WriteString(selectedStyle.Render("> "+line) + " " + state + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + " " + state + "\n")
		}
	}

	if len(tags) > 0 {
		tag := tags[m.selected%len(tags)]
		if hist := m.forces[tag]; len(hist) > 1 {
			chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("force "+tag))
			s.WriteString("\n" + chart + "\n")
			s.WriteString(Sparkline(hist, 30) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nTab:Cable ←→↑↓:Rotate +/-:Zoom ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space        Pause/Resume
  R            Rebuild and restart
  Tab          Select next cable
  Arrows/hjkl  Rotate 3D view
  +/-          Zoom
  ?            Toggle this help
  Q            Quit
`

func formatVec(v dynamo.Vec) string {
	parts := make([]string, 0, v.Dim())
	for _, x := range v.Components() {
		parts = append(parts, fmt.Sprintf("%.3f", x))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
