// Package sim provides a kinematic differential-drive robot that satisfies
// nav.Hardware, for running drawing programs without hardware.
package sim

import (
	"math"
	"sync"
	"time"

	"github.com/drawbotic/navigation/pkg/nav"
)

// DefaultMaxSpeedMMps is the wheel surface speed at full power.
const DefaultMaxSpeedMMps = 200.0

// Config describes the simulated robot.
type Config struct {
	MaxSpeedMMps float64
	Geometry     nav.Geometry
	// Bias scales each wheel's speed by 1+Bias, indexed Motor1 then Motor2.
	Bias [2]float64
}

// DefaultConfig returns an unbiased robot with the navigator's default geometry.
func DefaultConfig() Config {
	return Config{
		MaxSpeedMMps: DefaultMaxSpeedMMps,
		Geometry:     nav.DefaultConfig().Geometry,
	}
}

// Point is a position in millimetres.
type Point struct {
	X, Y float64
}

// Pose is the robot's position and heading in degrees, counter-clockwise
// from the +X axis.
type Pose struct {
	Point
	Heading float64
}

// Robot is a simulated drawing robot.
type Robot struct {
	mu  sync.Mutex
	cfg Config

	powers  [2]float64
	ticks   [2]float64
	pose    Pose
	theta   float64 // radians, unwrapped
	penDown bool
	strokes [][]Point
	elapsed time.Duration
}

var _ nav.Hardware = (*Robot)(nil)

// New creates a robot at the origin facing +X.
func New(cfg Config) *Robot {
	d := DefaultConfig()
	if cfg.MaxSpeedMMps <= 0 {
		cfg.MaxSpeedMMps = d.MaxSpeedMMps
	}
	if cfg.Geometry.TicksPerMM <= 0 {
		cfg.Geometry.TicksPerMM = d.Geometry.TicksPerMM
	}
	if cfg.Geometry.BotRadiusMM <= 0 {
		cfg.Geometry.BotRadiusMM = d.Geometry.BotRadiusMM
	}
	return &Robot{cfg: cfg}
}

func slot(m nav.Motor) int {
	if m == nav.Motor2 {
		return 1
	}
	return 0
}

// SetMotorSpeed sets one wheel's power, clamped to [-1, 1].
func (r *Robot) SetMotorSpeed(m nav.Motor, power float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.powers[slot(m)] = math.Max(-1, math.Min(1, power))
}

// EncoderDelta returns whole ticks since the last read; the fraction carries over.
func (r *Robot) EncoderDelta(m nav.Motor) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slot(m)
	whole := math.Trunc(r.ticks[i])
	r.ticks[i] -= whole
	return int(whole)
}

// ResetEncoderDeltas drops pending ticks on both wheels.
func (r *Robot) ResetEncoderDeltas() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = [2]float64{}
}

// Heading returns the heading in degrees, counter-clockwise positive.
func (r *Robot) Heading() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pose.Heading
}

// SetPen raises or lowers the pen. Lowering it starts a new stroke.
func (r *Robot) SetPen(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if down && !r.penDown {
		r.strokes = append(r.strokes, []Point{r.pose.Point})
	}
	r.penDown = down
}

// Advance integrates the wheel motion over dt.
func (r *Robot) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := dt.Seconds()
	dist := [2]float64{}
	for i := range dist {
		dist[i] = r.powers[i] * r.cfg.MaxSpeedMMps * (1 + r.cfg.Bias[i]) * s
		r.ticks[i] += dist[i] * r.cfg.Geometry.TicksPerMM
	}

	// Motor1 is the right wheel
	dTheta := (dist[0] - dist[1]) / (2 * r.cfg.Geometry.BotRadiusMM)
	d := (dist[0] + dist[1]) / 2
	mid := r.theta + dTheta/2
	r.pose.X += d * math.Cos(mid)
	r.pose.Y += d * math.Sin(mid)
	r.theta += dTheta
	r.pose.Heading = nav.NormalizeHeading(r.theta * 180 / math.Pi)
	r.elapsed += dt

	if r.penDown && d != 0 {
		last := len(r.strokes) - 1
		r.strokes[last] = append(r.strokes[last], r.pose.Point)
	}
}

// Pose returns the current pose.
func (r *Robot) Pose() Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pose
}

// Power returns the power last commanded for m.
func (r *Robot) Power(m nav.Motor) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.powers[slot(m)]
}

// PenDown reports the pen state.
func (r *Robot) PenDown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.penDown
}

// Strokes returns a copy of the lines drawn so far, one per pen-down period.
func (r *Robot) Strokes() [][]Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]Point, len(r.strokes))
	for i, s := range r.strokes {
		out[i] = append([]Point(nil), s...)
	}
	return out
}

// Elapsed returns the total simulated time.
func (r *Robot) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}
