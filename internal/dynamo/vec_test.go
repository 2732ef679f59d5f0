package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestNewVec(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		dim  Dim
		err  bool
	}{
		{"empty", nil, 0, true},
		{"1D", []float64{2}, Dim1, false},
		{"2D", []float64{3, 4}, Dim2, false},
		{"3D", []float64{1, 2, 3}, Dim3, false},
		{"4D", []float64{1, 2, 3, 4}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVec(tt.xs...)
			if tt.err {
				if !errors.Is(err, ErrDimensionMismatch) {
					t.Errorf("expected ErrDimensionMismatch, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Dim() != tt.dim {
				t.Errorf("Dim() = %v, want %v", v.Dim(), tt.dim)
			}
			if len(v.Components()) != len(tt.xs) {
				t.Errorf("Components() = %v, want %v", v.Components(), tt.xs)
			}
		})
	}
}

func TestVec_Algebra(t *testing.T) {
	a := MustVec(3, 4)
	b := MustVec(1, -1)

	if got := a.Norm(); got != 5 {
		t.Errorf("Norm() = %f, want 5", got)
	}
	if got := a.Dot(b); got != -1 {
		t.Errorf("Dot() = %f, want -1", got)
	}
	sum := a.Add(b)
	if sum.At(0) != 4 || sum.At(1) != 3 {
		t.Errorf("Add() = %v", sum)
	}
	diff := a.Sub(b)
	if diff.At(0) != 2 || diff.At(1) != 5 {
		t.Errorf("Sub() = %v", diff)
	}
	if n := a.Neg(); n.At(0) != -3 || n.Dim() != Dim2 {
		t.Errorf("Neg() = %v", n)
	}
	if w := a.With(1, 7); w.At(1) != 7 || a.At(1) != 4 {
		t.Errorf("With() = %v, receiver %v", w, a)
	}
}

func TestVec_OneDimensionalNorm(t *testing.T) {
	v := MustVec(-2.5)
	if v.Norm() != 2.5 {
		t.Errorf("expected norm 2.5, got %f", v.Norm())
	}
}

func TestVec_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mixed dimensions")
		}
	}()
	MustVec(1, 2).Add(MustVec(1, 2, 3))
}

func TestVec_IsFinite(t *testing.T) {
	if !MustVec(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if MustVec(1, math.NaN()).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestVec_ScaleByInfKeepsPaddingZero(t *testing.T) {
	v := MustVec(2).Scale(math.Inf(1))
	if !math.IsInf(v.At(0), 1) {
		t.Errorf("At(0) = %v, want +Inf", v.At(0))
	}
	if r := v.R3(); r.Y != 0 || r.Z != 0 {
		t.Errorf("padding = (%v, %v), want zero", r.Y, r.Z)
	}
}
