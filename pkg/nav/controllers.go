package nav

import (
	"math"
	"time"
)

// dispatch runs one control step of a and reports whether it finished.
func (n *Navigator) dispatch(a *Action, elapsed time.Duration) bool {
	switch p := a.Params.(type) {
	case Forward:
		return n.driveForward(a, p)
	case ArcTurn:
		return n.arcTurn(a, p)
	case Rotate:
		if n.cfg.UseHeading {
			return n.rotateHeading(a)
		}
		return n.rotateEncoder(a, p)
	case Stop:
		return n.stop(a, p, elapsed)
	case Pen:
		n.hw.SetPen(p.Down)
		return true
	default:
		return true
	}
}

func (n *Navigator) forwardTarget(p Forward) float64 {
	return p.DistanceMM * n.cfg.Geometry.TicksPerMM * n.cfg.Calibration.Forward
}

// correct feeds the wheel synchronization error into the follow speed.
func (n *Navigator) correct(a *Action, err float64) {
	a.followSpeed = clampPower(a.followSpeed + err*n.cfg.CorrectionGain)
}

func (n *Navigator) minPower() float64 {
	return math.Min(n.cfg.MinPower, n.speed)
}

func (n *Navigator) readDeltas() (d1, d2 float64) {
	d1 = float64(n.hw.EncoderDelta(Motor1))
	d2 = float64(n.hw.EncoderDelta(Motor2))
	return d1, d2
}

// driveForward keeps Motor2 matched to Motor1 until Motor1 has covered the
// target tick count. Power tapers as the target approaches.
func (n *Navigator) driveForward(a *Action, p Forward) bool {
	target := n.forwardTarget(p)
	remaining := target - a.progress
	if remaining <= 0 {
		return true
	}
	power := clamp(n.speed*remaining*n.cfg.ForwardGain, n.minPower(), n.speed)

	d1, d2 := n.readDeltas()
	n.correct(a, d1-d2)

	scale := n.rampScale(a, target)
	n.hw.SetMotorSpeed(Motor1, clampPower(power*scale))
	n.hw.SetMotorSpeed(Motor2, clampPower(a.followSpeed*scale))

	a.addProgress(d1)
	return a.progress >= target
}

// arcTurn drives the outer wheel at base speed and the inner wheel at the
// radius ratio of it. Progress is degrees swept by the outer wheel.
func (n *Navigator) arcTurn(a *Action, p ArcTurn) bool {
	target := math.Abs(p.AngleDeg)
	if a.progress >= target {
		return true
	}
	bot := n.cfg.Geometry.BotRadiusMM
	outerR := p.RadiusMM + bot
	innerR := p.RadiusMM - bot
	multiplier := innerR / outerR

	// counter-clockwise: the right wheel (Motor1) is on the outside
	outer, inner := Motor1, Motor2
	cal := n.cfg.Calibration.LeftTurn
	d1, d2 := n.readDeltas()
	dOuter, dInner := d1, d2
	if p.AngleDeg < 0 {
		outer, inner = Motor2, Motor1
		cal = n.cfg.Calibration.RightTurn
		dOuter, dInner = d2, d1
	}

	n.correct(a, dOuter*multiplier-dInner)

	scale := n.rampScale(a, target)
	n.hw.SetMotorSpeed(outer, clampPower(n.speed*scale))
	n.hw.SetMotorSpeed(inner, clampPower(a.followSpeed*multiplier*scale))

	a.addProgress(n.sweptDegrees(dOuter, outerR, cal))
	return a.progress >= target
}

// rotateEncoder spins the wheels in opposite directions, counting degrees
// from the leading wheel's ticks.
func (n *Navigator) rotateEncoder(a *Action, p Rotate) bool {
	target := math.Abs(p.AngleDeg)
	if a.progress >= target {
		return true
	}
	d1, d2 := n.readDeltas()
	d1, d2 = math.Abs(d1), math.Abs(d2)

	lead, follow := Motor1, Motor2
	dLead, dFollow := d1, d2
	cal := n.cfg.Calibration.LeftRotate
	if p.AngleDeg < 0 {
		lead, follow = Motor2, Motor1
		dLead, dFollow = d2, d1
		cal = n.cfg.Calibration.RightRotate
	}

	n.correct(a, dLead-dFollow)
	n.hw.SetMotorSpeed(lead, clampPower(n.speed))
	n.hw.SetMotorSpeed(follow, clampPower(-a.followSpeed))

	a.addProgress(n.sweptDegrees(dLead, n.cfg.Geometry.BotRadiusMM, cal))
	return a.progress >= target
}

// rotateHeading turns toward the heading bound at activation, slowing in
// proportion to the remaining error.
func (n *Navigator) rotateHeading(a *Action) bool {
	if !a.bound {
		n.activate(a)
	}
	err := HeadingError(n.hw.Heading(), a.finalHeading)
	n.headingError = err
	if math.Abs(err) < n.cfg.HeadingTolerance {
		return true
	}
	power := clamp(n.speed*n.cfg.RotateGain*math.Abs(err), n.minPower(), n.speed)
	if err > 0 {
		// past the target counter-clockwise: turn clockwise
		n.hw.SetMotorSpeed(Motor1, -power)
		n.hw.SetMotorSpeed(Motor2, power)
	} else {
		n.hw.SetMotorSpeed(Motor1, power)
		n.hw.SetMotorSpeed(Motor2, -power)
	}
	return false
}

// stop holds the motors at zero until the duration has elapsed.
func (n *Navigator) stop(a *Action, p Stop, elapsed time.Duration) bool {
	target := durationMS(p.Duration)
	if a.progress >= target {
		return true
	}
	n.hw.SetMotorSpeed(Motor1, 0)
	n.hw.SetMotorSpeed(Motor2, 0)
	a.addProgress(durationMS(elapsed))
	return a.progress >= target
}

// sweptDegrees converts wheel ticks on a circle of radiusMM to degrees.
func (n *Navigator) sweptDegrees(ticks, radiusMM, cal float64) float64 {
	return 180 * ticks / (math.Pi * n.cfg.Geometry.TicksPerMM * radiusMM * cal)
}
