package nav

import "math"

// needsRest reports whether a neighbouring action of kind k expects the
// robot to be at or near standstill. Zero means no neighbour.
func needsRest(k Kind) bool {
	return k == 0 || k == KindStop || k == KindRotate
}

// rampScale returns the power scale for the head action a at its current
// progress. Power ramps up over the first RampRatio of target after a
// standstill neighbour and down over the last RampRatio before one.
func (n *Navigator) rampScale(a *Action, target float64) float64 {
	if n.cfg.RampRatio <= 0 || target <= 0 {
		return 1
	}
	window := n.cfg.RampRatio * target
	scale := 1.0
	if needsRest(n.lastKind) && a.progress < window {
		scale = math.Min(scale, a.progress/window)
	}
	var nextKind Kind
	if next := n.queue.At(1); next != nil {
		nextKind = next.Kind()
	}
	if remaining := target - a.progress; needsRest(nextKind) && remaining < window {
		scale = math.Min(scale, remaining/window)
	}
	floor := math.Min(n.cfg.MinPower/n.speed, 1)
	return clamp(scale, floor, 1)
}
