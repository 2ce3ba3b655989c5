package nav

// Motor selects one of the two drive motors.
// Motor1 is the right wheel and the reference motor for straight travel;
// Motor2 is the left wheel.
type Motor int

const (
	Motor1 Motor = 1
	Motor2 Motor = 2
)

// Hardware is the capability set the navigator drives.
//
// EncoderDelta is a destructive read: each call returns the ticks counted
// since the previous read or reset for that motor.
type Hardware interface {
	SetMotorSpeed(m Motor, power float64)
	EncoderDelta(m Motor) int
	ResetEncoderDeltas()
	// Heading returns the current heading in degrees, [0, 360),
	// increasing counter-clockwise.
	Heading() float64
	SetPen(down bool)
}
