package nav

import "math"

// NormalizeHeading maps any angle into [0, 360).
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// HeadingError returns the signed shortest angle from target to current,
// in [-180, 180). Positive means current lies counter-clockwise of target.
func HeadingError(current, target float64) float64 {
	return NormalizeHeading(current-target+540) - 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampPower limits a motor command to [-1, 1].
func clampPower(p float64) float64 {
	return clamp(p, -1, 1)
}
