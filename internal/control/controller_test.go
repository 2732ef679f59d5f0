package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cablesim/internal/dynamo"
)

func TestOpenLoop(t *testing.T) {
	c := NewOpenLoop(1.25)
	for _, length := range []float64{0, 1, 100, -3} {
		if got := c.Control(length); got != 1.25 {
			t.Errorf("Control(%g) = %g, want 1.25", length, got)
		}
	}
}

func TestAffineFeedback(t *testing.T) {
	tests := []struct {
		name                string
		kappa, barEll, barV float64
		length              float64
		want                float64
	}{
		{"at equilibrium", 0.95, 0.7433, 0.6919, 0.7433, 0.6919},
		{"stretched", 0.5, 1, 0.8, 3, 1.8},
		{"compressed", 0.5, 1, 0.8, 0, 0.3},
		{"zero gain", 0, 1, 0.8, 5, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAffineFeedback(tt.kappa, tt.barEll, tt.barV)
			if got := c.Control(tt.length); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Control(%g) = %g, want %g", tt.length, got, tt.want)
			}
		})
	}
}

func TestAffineFeedback_Stateless(t *testing.T) {
	c := NewAffineFeedback(0.92, 0.3905, 0.3355)
	first := c.Control(0.5)
	c.Control(10)
	c.Control(-10)
	if c.Control(0.5) != first {
		t.Error("output depends on previous calls")
	}
}

func TestFromParams(t *testing.T) {
	c, err := FromParams(TypeAffine, map[string]float64{"kappa": 0.9, "bar_ell": 1, "bar_v": 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != TypeAffine || c.GetParams()["kappa"] != 0.9 {
		t.Errorf("unexpected controller %s %v", c.Name(), c.GetParams())
	}

	c, err = FromParams(TypeOpenLoop, map[string]float64{"bar_v": 2})
	if err != nil {
		t.Fatal(err)
	}
	if c.Control(7) != 2 {
		t.Errorf("open loop returned %g", c.Control(7))
	}

	if _, err := FromParams(TypeAffine, map[string]float64{"kappa": 0.9}); !errors.Is(err, dynamo.ErrMissingParam) {
		t.Errorf("expected ErrMissingParam, got %v", err)
	}
	if _, err := FromParams("pid", nil); err == nil {
		t.Error("expected error for unknown type")
	}
}
