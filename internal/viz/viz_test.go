package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

func countDots(s string) int {
	n := 0
	for _, r := range s {
		if r > brailleBlank && r <= brailleBlank+0xff {
			for bits := r - brailleBlank; bits > 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func TestCanvas_DotAndClear(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetBounds(0, 0, 1, 1)
	c.Dot(0.5, 0.5)
	if got := countDots(c.String()); got != 1 {
		t.Fatalf("expected 1 dot, got %d", got)
	}
	c.Clear()
	if got := countDots(c.String()); got != 0 {
		t.Errorf("expected blank canvas, got %d dots", got)
	}
}

func TestCanvas_OutOfBoundsIgnored(t *testing.T) {
	c := NewCanvas(4, 4)
	c.SetBounds(0, 0, 1, 1)
	c.Dot(-10, -10)
	c.Dot(10, 10)
	if got := countDots(c.String()); got != 0 {
		t.Errorf("expected no dots, got %d", got)
	}
}

func TestCanvas_DashedLineHasFewerDots(t *testing.T) {
	solid := NewCanvas(20, 5)
	solid.SetBounds(0, 0, 1, 1)
	solid.Line(0, 0.5, 1, 0.5, false)

	dashed := NewCanvas(20, 5)
	dashed.SetBounds(0, 0, 1, 1)
	dashed.Line(0, 0.5, 1, 0.5, true)

	s, d := countDots(solid.String()), countDots(dashed.String())
	if s == 0 || d == 0 || d >= s {
		t.Errorf("expected 0 < dashed < solid, got dashed=%d solid=%d", d, s)
	}
}

func TestCanvas_DegenerateBounds(t *testing.T) {
	c := NewCanvas(4, 4)
	c.SetBounds(2, 2, 2, 2)
	c.Dot(2, 2)
	if got := countDots(c.String()); got != 1 {
		t.Errorf("expected 1 dot, got %d", got)
	}
}

func TestCamera_Project(t *testing.T) {
	cam := &Camera{}
	tests := []struct {
		name string
		v    dynamo.Vec
		x, y float64
	}{
		{"1D", dynamo.MustVec(3), 3, 0},
		{"2D", dynamo.MustVec(1, 2), 1, 2},
		{"3D front", dynamo.MustVec(1, 5, 2), 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cam.Project(tt.v)
			if math.Abs(x-tt.x) > 1e-12 || math.Abs(y-tt.y) > 1e-12 {
				t.Errorf("got (%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestCamera_PitchClamped(t *testing.T) {
	cam := NewCamera()
	cam.Rotate(0, 10)
	if cam.Pitch != math.Pi/2 {
		t.Errorf("expected pitch clamped to pi/2, got %v", cam.Pitch)
	}
}

func TestScene_Render(t *testing.T) {
	anchors := map[string]dynamo.Vec{
		"a": dynamo.MustVec(-1, 1),
		"b": dynamo.MustVec(1, 1),
	}
	scene := NewScene([]string{"a", "b"}, anchors)
	c := NewCanvas(30, 10)
	scene.Render(c, dynamo.MustVec(0, 0), []dynamo.Vec{dynamo.MustVec(0.1, 0.1)}, nil)
	if countDots(c.String()) == 0 {
		t.Error("expected a drawn scene")
	}
}

func TestCoordinateLabel(t *testing.T) {
	tests := []struct {
		dim, i int
		want   string
	}{
		{1, 0, "pos x"},
		{1, 1, "vel x"},
		{3, 2, "pos z"},
		{3, 4, "vel y"},
	}
	for _, tt := range tests {
		if got := CoordinateLabel(tt.dim, tt.i); got != tt.want {
			t.Errorf("CoordinateLabel(%d, %d) = %q, want %q", tt.dim, tt.i, got, tt.want)
		}
	}
}

func sampleResult() *sim.Result {
	return &sim.Result{
		Dim:    dynamo.Dim1,
		Tags:   []string{"a", "b"},
		States: []dynamo.State{{0, 1}, {0.1, 1}, {0.2, 0.9}},
		Forces: []map[string]float64{{"a": 1, "b": 0}, {"a": 2, "b": 0.5}},
		Times:  []float64{0, 0.1, 0.2},
	}
}

func TestPlots(t *testing.T) {
	r := sampleResult()
	if out := PlotCoordinate(r, 0); !strings.Contains(out, "pos x over time") {
		t.Errorf("missing caption in %q", out)
	}
	if out := PlotForces(r, nil); !strings.Contains(out, "cable force: a, b") {
		t.Errorf("missing caption in %q", out)
	}
	if out := PlotEnsemble([]*sim.Result{r, r}, 1); !strings.Contains(out, "vel x, 2 runs") {
		t.Errorf("missing caption in %q", out)
	}
	if out := PlotSeries(nil, "empty"); out != "" {
		t.Errorf("expected empty plot, got %q", out)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("got %q", got)
	}
	out := Sparkline([]float64{1, 2, 3, 4, 5, 6}, 3)
	if !strings.Contains(out, "█") {
		t.Errorf("expected the maximum block in %q", out)
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(0.5, 4); got != "██░░" {
		t.Errorf("got %q", got)
	}
	if got := ProgressBar(2, 2); got != "██" {
		t.Errorf("got %q", got)
	}
}

func liveModel(t *testing.T, steps int) Model {
	t.Helper()
	cfg := config.GetPreset("line")
	cfg.Steps = steps
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_StepsOnTick(t *testing.T) {
	m := liveModel(t, 3)
	m = update(m, TickMsg{})
	if m.stepsPerFrame != 2 {
		t.Fatalf("expected 2 steps per frame at dt=0.01, got %d", m.stepsPerFrame)
	}
	if !m.stepped || m.last.Step != 1 {
		t.Fatalf("expected two steps, got stepped=%v step=%d", m.stepped, m.last.Step)
	}
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}
	if !m.Done() || m.Err() != nil {
		t.Errorf("expected a finished run, done=%v err=%v", m.Done(), m.Err())
	}
	if len(m.forces["x"]) != 3 {
		t.Errorf("expected 3 recorded forces, got %d", len(m.forces["x"]))
	}
	if !strings.Contains(m.View(), "LINE") {
		t.Error("view is missing the experiment name")
	}
}

func TestModel_PauseAndReset(t *testing.T) {
	m := liveModel(t, 10)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = update(m, TickMsg{})
	if m.stepped {
		t.Fatal("paused model should not step")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	if !m.stepped {
		t.Fatal("expected steps after resume")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.stepped || len(m.trail) != 0 {
		t.Error("reset should clear the history")
	}
	if m.sim.Phase() != sim.Initialized {
		t.Errorf("expected a fresh simulator, got %v", m.sim.Phase())
	}
}

func TestModel_Quit(t *testing.T) {
	m := liveModel(t, 10)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
