package dsp

import (
	"math"
	"testing"
)

func TestColorIndex(t *testing.T) {
	tests := []struct {
		p   float32
		idx uint8
	}{
		{0, 0},
		{0.99, 0},
		{-5, 0},
		{float32(math.NaN()), 0},
		{1, 1},
		{254.9, 254},
		{255, 255},
		{256, 0},
		{300, 44},
		{65537, 1},
		{1e12, 255},
		{float32(math.Inf(1)), 255},
	}
	for _, tt := range tests {
		if idx := ColorIndex(tt.p); idx != tt.idx {
			t.Errorf("ColorIndex(%g): expected %d, got %d", tt.p, tt.idx, idx)
		}
	}
}

func TestPower(t *testing.T) {
	if p := Power(complex(3, 4)); p != 25 {
		t.Fatalf("expected 25, got %g", p)
	}
	if p := Power(complex(-3, -4)); p != 25 {
		t.Fatalf("expected 25, got %g", p)
	}
}

func TestPeakBin(t *testing.T) {
	idx, p := PeakBin([]complex64{1, complex(0, 3), 2})
	if idx != 1 || p != 9 {
		t.Fatalf("expected bin 1 power 9, got %d %g", idx, p)
	}
}
