// Package robot provides the hardware adapter for the drawing robot: a CAN
// motor driver with encoder and heading feedback, and a feetech servo that
// lifts the pen.
package robot

import "github.com/drawbotic/navigation/pkg/nav"

// MotorName identifies a drive motor.
type MotorName string

// Drive motors. The right wheel is the navigator's reference motor.
const (
	RightWheel MotorName = "right_wheel"
	LeftWheel  MotorName = "left_wheel"
)

// AllMotors returns all motor names in navigator index order.
func AllMotors() []MotorName {
	return []MotorName{
		RightWheel,
		LeftWheel,
	}
}

// NameOf returns the name of a navigator motor index.
func NameOf(m nav.Motor) MotorName {
	if m == nav.Motor2 {
		return LeftWheel
	}
	return RightWheel
}

func motorSlot(m nav.Motor) int {
	if m == nav.Motor2 {
		return 1
	}
	return 0
}
