// Package drive runs a navigator on a fixed-rate control loop.
package drive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drawbotic/navigation/pkg/nav"
)

// State is a snapshot published after every control step.
type State struct {
	Status    nav.Status
	Power1    float64
	Power2    float64
	Heading   float64
	PenDown   bool
	Timestamp time.Time
	Error     error
}

// Config holds configuration for the controller.
type Config struct {
	Hardware nav.Hardware
	Nav      nav.Config
	Hz       int
}

// Controller owns a navigator and ticks it from a ticker. Queue mutation
// from other goroutines goes through With so it is serialized with Tick.
type Controller struct {
	hw  nav.Hardware
	nav *nav.Navigator
	hz  int

	mu        sync.Mutex
	running   bool
	announced int
	lastErr   error
	stateCh   chan State
	logCh     chan string
}

// NewController creates a controller around cfg.Hardware.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Hardware == nil {
		return nil, errors.New("no hardware")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	return &Controller{
		hw:      cfg.Hardware,
		nav:     nav.New(cfg.Hardware, cfg.Nav),
		hz:      cfg.Hz,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 64),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// With runs fn with exclusive access to the navigator.
func (c *Controller) With(fn func(n *nav.Navigator)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.nav)
}

// Status returns the navigator's current status.
func (c *Controller) Status() nav.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Status()
}

// Idle reports whether the action queue is empty.
func (c *Controller) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Len() == 0
}

// Halt discards every queued action, stops the motors and drops any
// encoder ticks counted so far.
func (c *Controller) Halt() {
	c.mu.Lock()
	n := c.nav.Len()
	c.nav.Clear()
	c.hw.SetMotorSpeed(nav.Motor1, 0)
	c.hw.SetMotorSpeed(nav.Motor2, 0)
	c.hw.ResetEncoderDeltas()
	c.mu.Unlock()
	c.log("Halted, %d actions discarded", n)
}

// Start runs the control loop until ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Navigator started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case now := <-ticker.C:
			c.step(now.Sub(last))
			last = now
		}
	}
}

type advancer interface {
	Advance(dt time.Duration)
}

type powerReporter interface {
	Power(m nav.Motor) float64
}

type penReporter interface {
	PenDown() bool
}

type errReporter interface {
	Err() error
}

func (c *Controller) step(elapsed time.Duration) {
	if sim, ok := c.hw.(advancer); ok {
		sim.Advance(elapsed)
	}

	c.mu.Lock()
	before := c.nav.Status()
	c.nav.Tick(elapsed)
	after := c.nav.Status()
	c.mu.Unlock()

	if after.Completed > before.Completed {
		c.log("Finished %s", before.Action)
		if !after.Active {
			c.log("Queue drained after %d actions", after.Completed)
		}
	}
	if after.Active && c.announced != after.Completed+1 {
		c.announced = after.Completed + 1
		c.log("Started %s", after.Action)
	}

	s := State{
		Status:    after,
		Heading:   c.hw.Heading(),
		Timestamp: time.Now(),
	}
	if p, ok := c.hw.(powerReporter); ok {
		s.Power1 = p.Power(nav.Motor1)
		s.Power2 = p.Power(nav.Motor2)
	}
	if p, ok := c.hw.(penReporter); ok {
		s.PenDown = p.PenDown()
	}
	if e, ok := c.hw.(errReporter); ok {
		if err := e.Err(); err != nil {
			s.Error = err
			if err != c.lastErr {
				c.lastErr = err
				c.log("Hardware error: %v", err)
			}
		}
	}
	c.sendState(s)
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.hw.SetMotorSpeed(nav.Motor1, 0)
	c.hw.SetMotorSpeed(nav.Motor2, 0)
	c.mu.Unlock()
	c.log("Navigator stopped")
}
