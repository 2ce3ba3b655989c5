package nav

import (
	"math"
	"testing"
)

func TestHeadingError(t *testing.T) {
	tests := []struct {
		current  float64
		target   float64
		expected float64
	}{
		{10, 10, 0},
		{350, 10, -20}, // twenty degrees short across the wrap, not 340
		{355, 10, -15},
		{10, 350, 20},
		{0, 0, 0},
		{90, 0, 90},
		{0, 90, -90},
		{0, 180, -180},
		{359.5, 0.5, -1},
	}

	for _, tt := range tests {
		got := HeadingError(tt.current, tt.target)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("HeadingError(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.expected)
		}
	}
}

func TestHeadingError_SweepAcrossWrap(t *testing.T) {
	// heading sweeps counter-clockwise from 350 through 0 toward 10;
	// the error magnitude must shrink monotonically to zero
	last := math.Inf(1)
	for h := 350.0; h != 10; h = NormalizeHeading(h + 1) {
		err := HeadingError(h, 10)
		if math.Abs(err) > 20+1e-9 {
			t.Fatalf("HeadingError(%v, 10) = %v, magnitude above 20", h, err)
		}
		if math.Abs(err) >= last {
			t.Fatalf("error magnitude did not shrink at heading %v: %v", h, err)
		}
		last = math.Abs(err)
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
		{725, 5},
		{359.9, 359.9},
	}

	for _, tt := range tests {
		got := NormalizeHeading(tt.in)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}
