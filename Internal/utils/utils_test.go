package utils

import "testing"

func TestAbs(t *testing.T) {
	if Abs(-2.5) != 2.5 || Abs(2.5) != 2.5 || Abs(0) != 0 {
		t.Error("Abs returned a wrong value")
	}
}

func TestMax(t *testing.T) {
	if got := Max(1, 3, 2); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := Max(-5); got != -5 {
		t.Errorf("expected -5, got %v", got)
	}
	if got := Max(); got != 0 {
		t.Errorf("expected 0 for no values, got %v", got)
	}
}

func TestAverage(t *testing.T) {
	if got := Average([]float64{1, 2, 3}); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := Average(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.5, 1},
	}
	for _, tc := range tests {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
