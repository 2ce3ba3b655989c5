// Package nav sequences motion primitives for a two-wheel differential-drive
// robot and keeps the wheels synchronized from encoder and heading feedback.
//
// A Navigator owns a queue of actions. Callers enqueue primitives and call
// Tick periodically with the elapsed time; the head action is advanced by
// its controller and retired once it reports completion. A Navigator is not
// safe for concurrent use: queue mutation and ticking must be serialized by
// the caller (see package drive).
package nav

import (
	"math"
	"time"
)

// Navigator is the motion executor.
type Navigator struct {
	hw    Hardware
	cfg   Config
	speed float64

	queue Queue
	bank  time.Duration

	// lastKind is the kind of the most recently retired action, or zero
	// when the robot started from rest.
	lastKind     Kind
	completed    int
	headingError float64
}

// New creates a navigator driving hw. Unusable config values fall back to
// their defaults.
func New(hw Hardware, cfg Config) *Navigator {
	cfg = cfg.withDefaults()
	return &Navigator{
		hw:    hw,
		cfg:   cfg,
		speed: cfg.BaseSpeed,
	}
}

// Config returns the effective configuration.
func (n *Navigator) Config() Config {
	c := n.cfg
	c.BaseSpeed = n.speed
	return c
}

// BaseSpeed returns the current base motor power.
func (n *Navigator) BaseSpeed() float64 {
	return n.speed
}

// SetBaseSpeed sets the base motor power. Values outside (0, 1) are ignored.
func (n *Navigator) SetBaseSpeed(s float64) {
	if validSpeed(s) {
		n.speed = s
	}
}

// Len returns the number of queued actions, including the active one.
func (n *Navigator) Len() int {
	return n.queue.Len()
}

// Clear discards every queued action, including the active one.
// Motor state is left untouched; command zero power separately to halt.
func (n *Navigator) Clear() {
	n.queue.Clear()
	n.lastKind = 0
}

// Pending returns the payloads of the queued actions in execution order.
func (n *Navigator) Pending() []Params {
	actions := n.queue.Actions()
	out := make([]Params, len(actions))
	for i, a := range actions {
		out[i] = a.Params
	}
	return out
}

// Tick advances the navigator by elapsed time. Control runs only once at
// least the configured update interval has been banked. A Stop action is
// credited with the whole banked time, which equals elapsed whenever
// elapsed reaches the interval on its own.
func (n *Navigator) Tick(elapsed time.Duration) {
	if elapsed > 0 {
		n.bank += elapsed
	}
	if n.bank < n.cfg.UpdateInterval {
		return
	}
	banked := n.bank
	n.bank = 0

	a := n.queue.Front()
	if a == nil {
		return
	}
	if n.dispatch(a, banked) {
		n.retire()
	}
}

// retire removes the finished head action and prepares its successor.
func (n *Navigator) retire() {
	done := n.queue.PopFront()
	n.lastKind = done.Kind()
	n.completed++

	// the successor is referenced to the heading it starts from, even if
	// it was bound earlier and then displaced by a front insertion
	if next := n.queue.Front(); next != nil {
		next.bound = false
		n.activate(next)
	}

	// every action starts from a clean encoder baseline
	n.hw.ResetEncoderDeltas()

	if n.queue.Len() == 0 {
		n.hw.SetMotorSpeed(Motor1, 0)
		n.hw.SetMotorSpeed(Motor2, 0)
		n.lastKind = 0
	}
}

// activate binds the target heading of a heading-mode rotation that has
// reached the head of the queue and is not yet bound.
func (n *Navigator) activate(a *Action) {
	if a == nil || !n.cfg.UseHeading {
		return
	}
	r, ok := a.Params.(Rotate)
	if !ok || a.bound {
		return
	}
	heading := n.hw.Heading()
	a.finalHeading = NormalizeHeading(heading + r.AngleDeg)
	a.bound = true
	n.headingError = HeadingError(heading, a.finalHeading)
}

// Status is a snapshot of the executor.
type Status struct {
	Active       bool
	Kind         Kind
	Action       string
	Progress     float64
	Target       float64
	FollowSpeed  float64
	HeadingError float64
	BaseSpeed    float64
	Queued       int
	Completed    int
}

// Status returns a snapshot of the executor state.
func (n *Navigator) Status() Status {
	s := Status{
		BaseSpeed: n.speed,
		Queued:    n.queue.Len(),
		Completed: n.completed,
	}
	a := n.queue.Front()
	if a == nil {
		return s
	}
	s.Active = true
	s.Kind = a.Kind()
	s.Action = a.String()
	s.Progress = a.progress
	s.Target = n.target(a)
	s.FollowSpeed = a.followSpeed
	if r, ok := a.Params.(Rotate); ok && n.cfg.UseHeading {
		s.Progress = math.Max(0, math.Abs(r.AngleDeg)-math.Abs(n.headingError))
		s.HeadingError = n.headingError
	}
	return s
}

// target returns the completion threshold of an action in its progress unit.
func (n *Navigator) target(a *Action) float64 {
	switch p := a.Params.(type) {
	case Forward:
		return n.forwardTarget(p)
	case ArcTurn:
		return math.Abs(p.AngleDeg)
	case Rotate:
		return math.Abs(p.AngleDeg)
	case Stop:
		return durationMS(p.Duration)
	default:
		return 0
	}
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
