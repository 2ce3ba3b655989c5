package nav

import "time"

// Default tunables.
const (
	DefaultBaseSpeed        = 0.1
	DefaultCorrectionGain   = 0.015
	DefaultUpdateInterval   = time.Millisecond
	DefaultMinPower         = 0.05
	DefaultForwardGain      = 0.1
	DefaultRotateGain       = 0.05
	DefaultHeadingTolerance = 0.3 // degrees
	DefaultTicksPerMM       = 4.0
	DefaultBotRadiusMM      = 37.5
)

// Geometry describes the drive base.
type Geometry struct {
	// TicksPerMM is the number of encoder ticks per millimetre of wheel travel.
	TicksPerMM float64 `json:"ticks_per_mm"`
	// BotRadiusMM is half the distance between the two wheels.
	BotRadiusMM float64 `json:"bot_radius_mm"`
}

// Calibration holds dead-reckoning correction factors, one per direction.
type Calibration struct {
	Forward     float64 `json:"forward"`
	LeftTurn    float64 `json:"left_turn"`
	RightTurn   float64 `json:"right_turn"`
	LeftRotate  float64 `json:"left_rotate"`
	RightRotate float64 `json:"right_rotate"`
}

// DefaultCalibration returns unit factors.
func DefaultCalibration() Calibration {
	return Calibration{Forward: 1, LeftTurn: 1, RightTurn: 1, LeftRotate: 1, RightRotate: 1}
}

// Config holds the navigation tunables.
type Config struct {
	BaseSpeed      float64
	CorrectionGain float64
	UpdateInterval time.Duration
	// UseHeading selects heading-sensor rotations instead of encoder counting.
	UseHeading       bool
	MinPower         float64
	ForwardGain      float64
	RotateGain       float64
	HeadingTolerance float64
	// RampRatio is the fraction of a forward or arc target spent ramping
	// power near a standstill neighbour. Zero disables ramping.
	RampRatio   float64
	Geometry    Geometry
	Calibration Calibration
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		BaseSpeed:        DefaultBaseSpeed,
		CorrectionGain:   DefaultCorrectionGain,
		UpdateInterval:   DefaultUpdateInterval,
		UseHeading:       true,
		MinPower:         DefaultMinPower,
		ForwardGain:      DefaultForwardGain,
		RotateGain:       DefaultRotateGain,
		HeadingTolerance: DefaultHeadingTolerance,
		Geometry: Geometry{
			TicksPerMM:  DefaultTicksPerMM,
			BotRadiusMM: DefaultBotRadiusMM,
		},
		Calibration: DefaultCalibration(),
	}
}

// withDefaults replaces unusable values with their defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if !validSpeed(c.BaseSpeed) {
		c.BaseSpeed = d.BaseSpeed
	}
	if c.CorrectionGain < 0 {
		c.CorrectionGain = d.CorrectionGain
	}
	if c.UpdateInterval < 0 {
		c.UpdateInterval = d.UpdateInterval
	}
	if c.MinPower <= 0 || c.MinPower > 1 {
		c.MinPower = d.MinPower
	}
	if c.ForwardGain <= 0 {
		c.ForwardGain = d.ForwardGain
	}
	if c.RotateGain <= 0 {
		c.RotateGain = d.RotateGain
	}
	if c.HeadingTolerance <= 0 {
		c.HeadingTolerance = d.HeadingTolerance
	}
	if c.RampRatio < 0 || c.RampRatio > 0.5 {
		c.RampRatio = 0
	}
	if c.Geometry.TicksPerMM <= 0 {
		c.Geometry.TicksPerMM = d.Geometry.TicksPerMM
	}
	if c.Geometry.BotRadiusMM <= 0 {
		c.Geometry.BotRadiusMM = d.Geometry.BotRadiusMM
	}
	c.Calibration = c.Calibration.withDefaults()
	return c
}

func (c Calibration) withDefaults() Calibration {
	fix := func(v *float64) {
		if *v <= 0 {
			*v = 1
		}
	}
	fix(&c.Forward)
	fix(&c.LeftTurn)
	fix(&c.RightTurn)
	fix(&c.LeftRotate)
	fix(&c.RightRotate)
	return c
}

func validSpeed(s float64) bool {
	return s > 0 && s < 1
}
