package mathutil

import (
	"math"
	"testing"
)

func TestCalculatePercentage(t *testing.T) {
	if got := CalculatePercentage(25, 200); got != 12.5 {
		t.Errorf("CalculatePercentage(25, 200) = %v, expected 12.5", got)
	}
	if got := CalculatePercentage(25, 0); got != 0 {
		t.Errorf("CalculatePercentage with zero total = %v, expected 0", got)
	}
}

func TestPartsToPercent(t *testing.T) {
	tests := []struct {
		parts    int
		expected float64
	}{
		{0, 0},
		{75, 7.5},
		{425, 42.5},
		{1000, 100},
	}

	for _, tt := range tests {
		if got := PartsToPercent(tt.parts); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("PartsToPercent(%d) = %v, expected %v", tt.parts, got, tt.expected)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b int
		div  int
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{-1, 2, -1},
		{6, 3, 2},
		{-6, 3, -2},
		{0, 5, 0},
		{-5, 4, -2},
	}

	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, expected %d", tt.a, tt.b, got, tt.div)
		}
	}
}

func TestAbsInt(t *testing.T) {
	if AbsInt(-3) != 3 || AbsInt(3) != 3 || AbsInt(0) != 0 {
		t.Error("AbsInt returned an unexpected value")
	}
}
