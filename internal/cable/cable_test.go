package cable

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cablesim/internal/dynamo"
)

const tol = 1e-12

func mustCable(t *testing.T, law Law, k, c float64, anchor ...float64) *Cable {
	t.Helper()
	cb, err := New(law, Params{K: k, C: c}, dynamo.MustVec(anchor...))
	if err != nil {
		t.Fatalf("New(%v): %v", law, err)
	}
	return cb
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		law    Law
		params Params
		anchor dynamo.Vec
		want   error
	}{
		{"negative k", Linear, Params{K: -1, C: 1}, dynamo.MustVec(0), dynamo.ErrParameterBounds},
		{"negative c", Linear, Params{K: 1, C: -1}, dynamo.MustVec(0), dynamo.ErrParameterBounds},
		{"NaN k", HybridLinear, Params{K: math.NaN(), C: 1}, dynamo.MustVec(0), dynamo.ErrParameterBounds},
		{"2D piecewise", PiecewiseLinear3D, Params{K: 1, C: 1}, dynamo.MustVec(0, 0), dynamo.ErrDimensionMismatch},
		{"empty anchor", Linear, Params{K: 1, C: 1}, dynamo.Vec{}, dynamo.ErrDimensionMismatch},
		{"unknown law", Law(42), Params{K: 1, C: 1}, dynamo.MustVec(0), dynamo.ErrUnsupportedLaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.law, tt.params, tt.anchor)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParamsFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]float64
		want error
	}{
		{"complete", map[string]float64{"k": 300, "c": 50}, nil},
		{"extra entries", map[string]float64{"k": 1, "c": 1, "l0": 2}, nil},
		{"missing k", map[string]float64{"c": 1}, dynamo.ErrMissingParam},
		{"missing c", map[string]float64{"k": 1}, dynamo.ErrMissingParam},
		{"negative", map[string]float64{"k": 1, "c": -2}, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParamsFromMap(tt.in)
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLaw(t *testing.T) {
	for _, name := range ListLaws() {
		l, err := ParseLaw(name)
		if err != nil {
			t.Fatalf("ParseLaw(%q): %v", name, err)
		}
		if l.String() != name {
			t.Errorf("round trip %q -> %q", name, l.String())
		}
	}
	if _, err := ParseLaw("bungee"); !errors.Is(err, dynamo.ErrUnsupportedLaw) {
		t.Errorf("expected ErrUnsupportedLaw, got %v", err)
	}
}

func TestScalarForce_Laws(t *testing.T) {
	// k=2, c=1 throughout; fs = 2(ℓ-u), fd = ℓ̇.
	tests := []struct {
		name                string
		length, rate, u     float64
		lin, hyb, split, pw float64
	}{
		{"both positive", 3, 1, 1, 5, 5, 5, 5},
		{"spring positive damping negative", 3, -1, 1, 3, 3, 4, 3},
		{"damping dominates negative", 3, -10, 1, -6, 0, 4, 0},
		{"spring negative damping positive", 1, 3, 2, 1, 1, 0, 1},
		{"both negative", 1, -1, 2, -3, 0, 0, 0},
		{"spring boundary", 2, 1, 2, 1, 1, 1, 1},
		{"total boundary", 3, -4, 1, 0, 0, 4, 0},
	}

	cables := map[Law]*Cable{
		Linear:            mustCable(t, Linear, 2, 1, 0, 0, 0),
		HybridLinear:      mustCable(t, HybridLinear, 2, 1, 0, 0, 0),
		HybridSplitLinear: mustCable(t, HybridSplitLinear, 2, 1, 0, 0, 0),
		PiecewiseLinear3D: mustCable(t, PiecewiseLinear3D, 2, 1, 0, 0, 0),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := map[Law]float64{
				Linear:            tt.lin,
				HybridLinear:      tt.hyb,
				HybridSplitLinear: tt.split,
				PiecewiseLinear3D: tt.pw,
			}
			for law, w := range want {
				got := cables[law].ScalarForce(tt.length, tt.rate, tt.u)
				if math.Abs(got-w) > tol {
					t.Errorf("%v: ScalarForce(%g, %g, %g) = %g, want %g", law, tt.length, tt.rate, tt.u, got, w)
				}
			}
		})
	}
}

func TestScalarForce_RectifiedNeverNegative(t *testing.T) {
	for _, law := range []Law{HybridLinear, HybridSplitLinear, PiecewiseLinear3D} {
		cb := mustCable(t, law, 150, 50, 0, 0, 0)
		for length := 0.0; length <= 3; length += 0.25 {
			for rate := -5.0; rate <= 5; rate += 0.5 {
				if f := cb.ScalarForce(length, rate, 1.5); f < 0 {
					t.Errorf("%v: negative force %g at ℓ=%g ℓ̇=%g", law, f, length, rate)
				}
			}
		}
	}
}

func TestScalarForce_HybridsAgreeWithLinear(t *testing.T) {
	lin := mustCable(t, Linear, 300, 50, 0)
	hyb := mustCable(t, HybridLinear, 300, 50, 0)
	split := mustCable(t, HybridSplitLinear, 300, 50, 0)

	for length := 1.0; length <= 4; length += 0.5 {
		for rate := 0.0; rate <= 2; rate += 0.25 {
			want := lin.ScalarForce(length, rate, 1)
			if got := hyb.ScalarForce(length, rate, 1); math.Abs(got-want) > tol {
				t.Errorf("hybrid_linear ℓ=%g ℓ̇=%g: %g != %g", length, rate, got, want)
			}
			if got := split.ScalarForce(length, rate, 1); math.Abs(got-want) > tol {
				t.Errorf("hybrid_split_linear ℓ=%g ℓ̇=%g: %g != %g", length, rate, got, want)
			}
		}
	}
}

func TestScalarForce_LeftContinuous(t *testing.T) {
	// At the boundary the value equals the non-negative branch, which is
	// also the limit from the tensioned side.
	cb := mustCable(t, HybridSplitLinear, 10, 2, 0)
	at := cb.ScalarForce(1, 3, 1)
	near := cb.ScalarForce(1+1e-9, 3, 1)
	if at != 6 {
		t.Errorf("boundary value = %g, want 6", at)
	}
	if math.Abs(near-at) > 1e-6 {
		t.Errorf("discontinuous from the tensioned side: %g vs %g", near, at)
	}
}

func TestHybridSplit_SlackInterval(t *testing.T) {
	cb := mustCable(t, HybridSplitLinear, 100, 10, 0, 0)
	for length := 0.1; length < 1.0; length += 0.01 {
		for _, rate := range []float64{-3, 0, 3} {
			if f := cb.ScalarForce(length, rate, 1.0); f != 0 {
				t.Errorf("slack cable ℓ=%g ℓ̇=%g produced %g", length, rate, f)
			}
		}
	}
}

func TestGeometry(t *testing.T) {
	cb := mustCable(t, Linear, 1, 1, 6, 8)
	p := dynamo.MustVec(3, 4)

	length, err := cb.Length(p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(length-5) > tol {
		t.Errorf("Length = %g, want 5", length)
	}

	unit, err := cb.UnitDirection(p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(unit.At(0)+0.6) > tol || math.Abs(unit.At(1)+0.8) > tol {
		t.Errorf("UnitDirection = %v, want [-0.6 -0.8]", unit)
	}

	tests := []struct {
		name string
		v    dynamo.Vec
		want float64
	}{
		{"toward anchor", dynamo.MustVec(0.6, 0.8), -1},
		{"away from anchor", dynamo.MustVec(-1.2, -1.6), 2},
		{"perpendicular", dynamo.MustVec(0.8, -0.6), 0},
		{"at rest", dynamo.MustVec(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := cb.LengthRate(p, tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(rate-tt.want) > tol {
				t.Errorf("LengthRate = %g, want %g", rate, tt.want)
			}
		})
	}
}

func TestGeometry_Idempotent(t *testing.T) {
	cb := mustCable(t, PiecewiseLinear3D, 300, 50, 0, 10, 10)
	p := dynamo.MustVec(0.1, 0.5, 2.0)
	v := dynamo.MustVec(0.5, 0.8, -0.1)

	r1, _ := cb.LengthRate(p, v)
	l1, _ := cb.Length(p)
	l2, _ := cb.Length(p)
	r2, _ := cb.LengthRate(p, v)

	if l1 != l2 || r1 != r2 {
		t.Errorf("geometry depends on call order: %g/%g %g/%g", l1, l2, r1, r2)
	}
	if cb.Anchor().At(2) != 10 || cb.Params().K != 300 {
		t.Error("query mutated the cable")
	}
}

func TestGeometry_Errors(t *testing.T) {
	cb := mustCable(t, Linear, 1, 1, 1, 2, 3)

	if _, err := cb.UnitDirection(dynamo.MustVec(1, 2, 3)); !errors.Is(err, dynamo.ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
	if _, err := cb.Evaluate(dynamo.MustVec(1, 2, 3), dynamo.MustVec(0, 0, 0), 0); !errors.Is(err, dynamo.ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry from Evaluate, got %v", err)
	}
	if length, err := cb.Length(dynamo.MustVec(1, 2, 3)); err != nil || length != 0 {
		t.Errorf("Length at anchor = %g, %v", length, err)
	}
	if _, err := cb.Length(dynamo.MustVec(1, 2)); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := cb.LengthRate(dynamo.MustVec(0, 0, 0), dynamo.MustVec(1)); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	cb := mustCable(t, Linear, 1, 1, 2)
	s, err := cb.Evaluate(dynamo.MustVec(1.5), dynamo.MustVec(0.25), 0)
	if err != nil {
		t.Fatal(err)
	}

	// Point is left of the anchor: unit = -1, rate = -0.25.
	if s.Length != 0.5 || s.LengthRate != -0.25 {
		t.Errorf("geometry = (%g, %g), want (0.5, -0.25)", s.Length, s.LengthRate)
	}
	if s.Force != 0.25 {
		t.Errorf("Force = %g, want 0.25", s.Force)
	}
	if s.Vector.At(0) != -0.25 {
		t.Errorf("Vector = %v, want [-0.25]", s.Vector)
	}

	v, err := cb.VectorForce(dynamo.MustVec(1.5), dynamo.MustVec(0.25), 0)
	if err != nil || v.At(0) != s.Vector.At(0) {
		t.Errorf("VectorForce = %v, %v", v, err)
	}
	if s.Slack(1e-10) {
		t.Error("tensioned sample reported slack")
	}
}

func TestConservativeForce(t *testing.T) {
	cb := mustCable(t, HybridLinear, 4, 100, 0)
	if got := cb.ConservativeForce(3, 1); got != 8 {
		t.Errorf("ConservativeForce = %g, want 8", got)
	}
	if got := cb.ConservativeForce(1, 3); got != 0 {
		t.Errorf("slack ConservativeForce = %g, want 0", got)
	}
}

func TestEnergyHelpers(t *testing.T) {
	cb := mustCable(t, PiecewiseLinear3D, 4, 1, 0, 0, 0)

	e, err := cb.PotentialEnergy(0.5)
	if err != nil || e != 0.5 {
		t.Errorf("PotentialEnergy(0.5) = %g, %v; want 0.5", e, err)
	}
	for _, s := range []float64{0, -1} {
		if _, err := cb.PotentialEnergy(s); !errors.Is(err, dynamo.ErrSlackCable) {
			t.Errorf("PotentialEnergy(%g): expected ErrSlackCable, got %v", s, err)
		}
	}

	// s = 2 - (0.5(2-1) + 0.5) = 1; U = 4/(2·0.5) · 1 = 4.
	if got := ClosedLoopStretch(2, 0.5, 1, 0.5); got != 1 {
		t.Errorf("ClosedLoopStretch = %g, want 1", got)
	}
	u, err := cb.ClosedLoopPotential(2, 0.5, 1, 0.5)
	if err != nil || math.Abs(u-4) > tol {
		t.Errorf("ClosedLoopPotential = %g, %v; want 4", u, err)
	}
	if _, err := cb.ClosedLoopPotential(2, 0.5, 1, 2); !errors.Is(err, dynamo.ErrSlackCable) {
		t.Errorf("expected ErrSlackCable, got %v", err)
	}
	if _, err := cb.ClosedLoopPotential(2, 1, 1, 0.5); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	lin := mustCable(t, Linear, 4, 1, 0, 0, 0)
	if _, err := lin.PotentialEnergy(1); !errors.Is(err, dynamo.ErrUnsupportedLaw) {
		t.Errorf("expected ErrUnsupportedLaw, got %v", err)
	}
}
