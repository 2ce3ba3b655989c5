package robot

import (
	"fmt"

	"github.com/drawbotic/navigation/pkg/nav"
)

// CalibrationKind names one of the per-direction correction factors.
type CalibrationKind string

const (
	CalibrateForward     CalibrationKind = "forward"
	CalibrateLeftTurn    CalibrationKind = "left-turn"
	CalibrateRightTurn   CalibrationKind = "right-turn"
	CalibrateLeftRotate  CalibrationKind = "left-rotate"
	CalibrateRightRotate CalibrationKind = "right-rotate"
)

// AllCalibrationKinds returns every calibration kind.
func AllCalibrationKinds() []CalibrationKind {
	return []CalibrationKind{
		CalibrateForward,
		CalibrateLeftTurn,
		CalibrateRightTurn,
		CalibrateLeftRotate,
		CalibrateRightRotate,
	}
}

// ParseCalibrationKind validates a calibration kind name.
func ParseCalibrationKind(s string) (CalibrationKind, error) {
	for _, k := range AllCalibrationKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown calibration kind %q", s)
}

// Params returns the primitive that exercises this factor for amount
// millimetres (forward) or degrees (turns and rotations).
func (k CalibrationKind) Params(amount, arcRadiusMM float64) nav.Params {
	switch k {
	case CalibrateLeftTurn:
		return nav.ArcTurn{RadiusMM: arcRadiusMM, AngleDeg: amount}
	case CalibrateRightTurn:
		return nav.ArcTurn{RadiusMM: arcRadiusMM, AngleDeg: -amount}
	case CalibrateLeftRotate:
		return nav.Rotate{AngleDeg: amount}
	case CalibrateRightRotate:
		return nav.Rotate{AngleDeg: -amount}
	default:
		return nav.Forward{DistanceMM: amount}
	}
}

func factorOf(c *nav.Calibration, k CalibrationKind) (*float64, error) {
	switch k {
	case CalibrateForward:
		return &c.Forward, nil
	case CalibrateLeftTurn:
		return &c.LeftTurn, nil
	case CalibrateRightTurn:
		return &c.RightTurn, nil
	case CalibrateLeftRotate:
		return &c.LeftRotate, nil
	case CalibrateRightRotate:
		return &c.RightRotate, nil
	default:
		return nil, fmt.Errorf("unknown calibration kind %q", k)
	}
}

// Factor returns the current factor for k.
func Factor(c nav.Calibration, k CalibrationKind) (float64, error) {
	f, err := factorOf(&c, k)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Refit updates the factor for k after a move commanded as commanded
// (mm or degrees) was measured to cover measured. Encoder targets scale
// linearly with the factor.
func Refit(c *nav.Calibration, k CalibrationKind, commanded, measured float64) error {
	if commanded <= 0 || measured <= 0 {
		return fmt.Errorf("commanded and measured must be positive, got %v and %v", commanded, measured)
	}
	f, err := factorOf(c, k)
	if err != nil {
		return err
	}
	if *f <= 0 {
		*f = 1
	}
	*f *= commanded / measured
	return nil
}
