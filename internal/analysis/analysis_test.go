package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
)

func TestSlackIntervals(t *testing.T) {
	forces := []map[string]float64{
		{"a": 1, "b": 0},
		{"a": 0, "b": 0},
		{"a": 0, "b": 2},
		{"a": 3, "b": 1e-11},
		{"a": 0, "b": 1e-11},
	}
	tags := []string{"a", "b", "c"}

	got := SlackIntervals(forces, tags, 1e-10)

	want := map[string][]Interval{
		"a": {{1, 3}, {4, 5}},
		"b": {{0, 2}, {3, 5}},
		"c": {{0, 5}},
	}
	for tag, ivs := range want {
		if len(got[tag]) != len(ivs) {
			t.Errorf("%s: got %v, want %v", tag, got[tag], ivs)
			continue
		}
		for i := range ivs {
			if got[tag][i] != ivs[i] {
				t.Errorf("%s[%d] = %v, want %v", tag, i, got[tag][i], ivs[i])
			}
		}
	}

	counts := SlackCounts(forces, tags, 1e-10)
	if counts["a"] != 3 || counts["b"] != 4 || counts["c"] != 5 {
		t.Errorf("SlackCounts = %v", counts)
	}
	if !AnySlack(forces, []string{"a"}, 1e-10) {
		t.Error("AnySlack missed slack steps")
	}
	if AnySlack(forces[:1], []string{"a"}, 1e-10) {
		t.Error("AnySlack reported a taut cable")
	}
	if (Interval{Start: 2, End: 7}).Len() != 5 {
		t.Error("Interval.Len")
	}
}

func TestExitedBox(t *testing.T) {
	states := []dynamo.State{
		{0.5, 0.3, 0.8, -1, 0.3, -6},
		{0.49, 0.3, 0.74, -1, 0.3, -6},
		{0.48, 0.3, -0.02, -1, 0.3, -6},
	}

	step, err := ExitedBox(states, dynamo.Dim3, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if step != 2 {
		t.Errorf("ExitedBox = %d, want 2", step)
	}

	step, _ = ExitedBox(states[:2], dynamo.Dim3, 0, 1)
	if step != -1 {
		t.Errorf("ExitedBox inside = %d, want -1", step)
	}

	if _, err := ExitedBox(states, dynamo.Dim2, 0, 1); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestEquilibriumError(t *testing.T) {
	states := []dynamo.State{{3, 4, 0, 0}, {0, 0, 1, 1}}
	errs, err := EquilibriumError(states, dynamo.MustVec(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if errs[0] != 5 || errs[1] != 0 {
		t.Errorf("EquilibriumError = %v, want [5 0]", errs)
	}
}

func lyapunovSystem(t *testing.T, barV float64) (*physics.PointMass, map[string]*cable.Cable, map[string]control.Controller) {
	t.Helper()
	body, err := physics.NewPointMass3D(1, 0, dynamo.MustVec(2, 0, 0), dynamo.MustVec(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	c, err := cable.New(cable.PiecewiseLinear3D, cable.Params{K: 4, C: 1}, dynamo.MustVec(0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	return body,
		map[string]*cable.Cable{"a": c},
		map[string]control.Controller{"a": control.NewAffineFeedback(0.5, 1, barV)}
}

func TestLyapunovHistory(t *testing.T) {
	body, cables, ctrls := lyapunovSystem(t, 0.5)

	// s = 0.5ℓ, so V = ½|v|² + 4ℓ²/4.
	states := []dynamo.State{
		{2, 0, 0, 1, 0, 0},
		{1, 0, 0, 0, 0, 0},
	}
	v, err := LyapunovHistory(states, body, cables, ctrls)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v[0]-4.5) > 1e-12 || math.Abs(v[1]-1) > 1e-12 {
		t.Errorf("LyapunovHistory = %v, want [4.5 1]", v)
	}
	if inc := Increases(v, 1e-9); len(inc) != 0 {
		t.Errorf("Increases = %v, want none", inc)
	}
	if inc := Increases([]float64{1, 2, 1, 3}, 0); len(inc) != 2 || inc[1] != 2 {
		t.Errorf("Increases = %v, want [0 2]", inc)
	}
}

func TestLyapunovHistory_Errors(t *testing.T) {
	body, cables, ctrls := lyapunovSystem(t, 2)
	states := []dynamo.State{{1, 0, 0, 0, 0, 0}}
	if _, err := LyapunovHistory(states, body, cables, ctrls); !errors.Is(err, dynamo.ErrSlackCable) {
		t.Errorf("expected ErrSlackCable, got %v", err)
	}

	ctrls["a"] = control.NewOpenLoop(0)
	if _, err := LyapunovHistory(states, body, cables, ctrls); !errors.Is(err, dynamo.ErrUnsupportedLaw) {
		t.Errorf("expected ErrUnsupportedLaw, got %v", err)
	}
}

func TestPhasePortrait(t *testing.T) {
	result := &sim.Result{
		Dim: dynamo.Dim2,
		States: []dynamo.State{
			{1, 2, 3, 4},
			{-1, 0, 0, -2},
			{0, math.NaN(), 1, 1},
		},
	}

	p, err := PhasePortrait(result, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Points) != 3 || p.Points[0] != (Point{X: 2, Y: 4}) {
		t.Errorf("unexpected points %v", p.Points)
	}

	art := PhasePortraitToASCII(p, 20, 8)
	if lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n"); len(lines) != 8 {
		t.Errorf("expected 8 rows, got %d", len(lines))
	}
	if !strings.Contains(art, "•") {
		t.Error("no points drawn")
	}

	if _, err := PhasePortrait(result, 2); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
