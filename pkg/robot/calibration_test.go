package robot

import (
	"math"
	"testing"

	"github.com/drawbotic/navigation/pkg/nav"
)

func TestParseCalibrationKind(t *testing.T) {
	for _, k := range AllCalibrationKinds() {
		got, err := ParseCalibrationKind(string(k))
		if err != nil {
			t.Errorf("ParseCalibrationKind(%q) error: %v", k, err)
		}
		if got != k {
			t.Errorf("ParseCalibrationKind(%q) = %q", k, got)
		}
	}

	if _, err := ParseCalibrationKind("sideways"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestCalibrationKind_Params(t *testing.T) {
	tests := []struct {
		kind     CalibrationKind
		expected nav.Params
	}{
		{CalibrateForward, nav.Forward{DistanceMM: 500}},
		{CalibrateLeftTurn, nav.ArcTurn{RadiusMM: 150, AngleDeg: 500}},
		{CalibrateRightTurn, nav.ArcTurn{RadiusMM: 150, AngleDeg: -500}},
		{CalibrateLeftRotate, nav.Rotate{AngleDeg: 500}},
		{CalibrateRightRotate, nav.Rotate{AngleDeg: -500}},
	}

	for _, tt := range tests {
		got := tt.kind.Params(500, 150)
		if got != tt.expected {
			t.Errorf("%s.Params() = %#v, want %#v", tt.kind, got, tt.expected)
		}
	}
}

func TestRefit(t *testing.T) {
	tests := []struct {
		kind      CalibrationKind
		commanded float64
		measured  float64
		expected  float64
	}{
		{CalibrateForward, 1000, 980, 1000.0 / 980},
		{CalibrateLeftTurn, 360, 372, 360.0 / 372},
		{CalibrateRightRotate, 90, 90, 1},
	}

	for _, tt := range tests {
		c := nav.DefaultCalibration()
		if err := Refit(&c, tt.kind, tt.commanded, tt.measured); err != nil {
			t.Fatalf("Refit(%s) error: %v", tt.kind, err)
		}
		got, err := Factor(c, tt.kind)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Refit(%s) factor = %f, want %f", tt.kind, got, tt.expected)
		}
	}
}

func TestRefit_OnlyTouchesOneFactor(t *testing.T) {
	c := nav.DefaultCalibration()
	if err := Refit(&c, CalibrateLeftRotate, 90, 100); err != nil {
		t.Fatal(err)
	}
	if c.Forward != 1 || c.LeftTurn != 1 || c.RightTurn != 1 || c.RightRotate != 1 {
		t.Errorf("unexpected factors changed: %+v", c)
	}
	if math.Abs(c.LeftRotate-0.9) > 1e-9 {
		t.Errorf("LeftRotate = %f, want 0.9", c.LeftRotate)
	}
}

func TestRefit_Compounds(t *testing.T) {
	c := nav.DefaultCalibration()
	Refit(&c, CalibrateForward, 100, 50)
	Refit(&c, CalibrateForward, 100, 50)
	if math.Abs(c.Forward-4) > 1e-9 {
		t.Errorf("Forward = %f, want 4", c.Forward)
	}
}

func TestRefit_Invalid(t *testing.T) {
	c := nav.DefaultCalibration()
	if err := Refit(&c, CalibrateForward, 0, 10); err == nil {
		t.Error("expected error for zero commanded")
	}
	if err := Refit(&c, CalibrateForward, 10, -1); err == nil {
		t.Error("expected error for negative measured")
	}
	if err := Refit(&c, "diagonal", 10, 10); err == nil {
		t.Error("expected error for unknown kind")
	}
	if c != nav.DefaultCalibration() {
		t.Errorf("calibration modified on error: %+v", c)
	}
}
