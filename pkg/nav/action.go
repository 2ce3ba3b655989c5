package nav

import (
	"fmt"
	"time"
)

// Kind identifies the primitive an action performs.
type Kind int

const (
	KindForward Kind = iota + 1
	KindArcTurn
	KindRotate
	KindStop
	KindPenUp
	KindPenDown
)

func (k Kind) String() string {
	switch k {
	case KindForward:
		return "forward"
	case KindArcTurn:
		return "arc"
	case KindRotate:
		return "rotate"
	case KindStop:
		return "stop"
	case KindPenUp:
		return "pen_up"
	case KindPenDown:
		return "pen_down"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Params is the primitive-specific payload of an action.
type Params interface {
	Kind() Kind
}

// Forward drives straight ahead.
type Forward struct {
	DistanceMM float64
}

// ArcTurn follows an arc of RadiusMM for AngleDeg degrees.
// A positive angle turns counter-clockwise, a negative angle clockwise.
type ArcTurn struct {
	RadiusMM float64
	AngleDeg float64
}

// Rotate spins on the spot. A positive angle is counter-clockwise.
type Rotate struct {
	AngleDeg float64
}

// Stop holds both motors at zero for Duration.
type Stop struct {
	Duration time.Duration
}

// Pen raises or lowers the pen.
type Pen struct {
	Down bool
}

func (Forward) Kind() Kind { return KindForward }
func (ArcTurn) Kind() Kind { return KindArcTurn }
func (Rotate) Kind() Kind  { return KindRotate }
func (Stop) Kind() Kind    { return KindStop }

func (p Pen) Kind() Kind {
	if p.Down {
		return KindPenDown
	}
	return KindPenUp
}

// Action is a queued motion primitive together with its feedback state.
// Params never change after creation; progress and followSpeed are owned
// by the controller that runs the action.
type Action struct {
	Params Params

	// followSpeed is the commanded power of the secondary motor.
	followSpeed float64
	// progress is ticks (forward), degrees (arc, rotate by encoder)
	// or milliseconds (stop).
	progress float64
	// finalHeading is bound when a heading-mode rotation becomes the head.
	finalHeading float64
	bound        bool
}

// Kind returns the primitive type of the action.
func (a *Action) Kind() Kind {
	return a.Params.Kind()
}

// Progress returns the accumulated progress in the unit of the action's kind.
func (a *Action) Progress() float64 {
	return a.progress
}

// FollowSpeed returns the current secondary motor power.
func (a *Action) FollowSpeed() float64 {
	return a.followSpeed
}

func (a *Action) String() string {
	switch p := a.Params.(type) {
	case Forward:
		return fmt.Sprintf("forward %.1fmm", p.DistanceMM)
	case ArcTurn:
		return fmt.Sprintf("arc r=%.1fmm %.1f°", p.RadiusMM, p.AngleDeg)
	case Rotate:
		return fmt.Sprintf("rotate %.1f°", p.AngleDeg)
	case Stop:
		return fmt.Sprintf("stop %s", p.Duration)
	default:
		return a.Kind().String()
	}
}

// addProgress accumulates a non-negative contribution.
func (a *Action) addProgress(v float64) {
	if v > 0 {
		a.progress += v
	}
}
