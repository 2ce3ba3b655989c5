package robot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/drawbotic/navigation/pkg/nav"
)

// commandTimeout bounds a single motor or pen command.
const commandTimeout = 50 * time.Millisecond

// Driver commands both wheel powers and reports the heading.
type Driver interface {
	SetPowers(ctx context.Context, power1, power2 float64) error
	Heading() float64
}

// PenLift raises or lowers the pen.
type PenLift interface {
	Set(ctx context.Context, down bool) error
}

// Base adapts the motor driver, encoder feedback and pen lift to
// nav.Hardware. The navigator interface has no error returns, so the
// first failure is kept and reported by Err.
type Base struct {
	drive Driver
	enc   *Encoders
	pen   PenLift

	mu      sync.Mutex
	powers  [2]float64
	penDown bool
	err     error
	closers []io.Closer
}

var _ nav.Hardware = (*Base)(nil)

// NewBase builds a base from its parts. pen may be nil when no pen servo
// is fitted.
func NewBase(drive Driver, enc *Encoders, pen PenLift) *Base {
	return &Base{drive: drive, enc: enc, pen: pen}
}

// Open connects to the CAN motor driver and, if configured, the pen servo.
func Open(ctx context.Context, cfg *Config) (*Base, error) {
	enc := NewEncoders()
	drive, err := DialCAN(ctx, cfg.Drive, enc)
	if err != nil {
		return nil, err
	}

	var pen PenLift
	closers := []io.Closer{drive}
	if cfg.Pen.IsConfigured() {
		p, err := OpenPen(ctx, cfg.Pen)
		if err != nil {
			drive.Close()
			return nil, err
		}
		pen = p
		closers = append(closers, p)
	}

	b := NewBase(drive, enc, pen)
	b.closers = closers
	return b, nil
}

// SetMotorSpeed sets one motor's power and transmits both.
func (b *Base) SetMotorSpeed(m nav.Motor, power float64) {
	b.mu.Lock()
	b.powers[motorSlot(m)] = power
	p1, p2 := b.powers[0], b.powers[1]
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	b.record(b.drive.SetPowers(ctx, p1, p2))
}

// Power returns the last power commanded for m.
func (b *Base) Power(m nav.Motor) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.powers[motorSlot(m)]
}

// EncoderDelta returns the ticks counted for m since the last read or reset.
func (b *Base) EncoderDelta(m nav.Motor) int {
	return b.enc.Delta(m)
}

// ResetEncoderDeltas zeroes both encoder accumulators.
func (b *Base) ResetEncoderDeltas() {
	b.enc.Reset()
}

// Heading returns the latest heading reported by the driver.
func (b *Base) Heading() float64 {
	return b.drive.Heading()
}

// SetPen moves the pen. Without a pen servo only the state is recorded.
func (b *Base) SetPen(down bool) {
	b.mu.Lock()
	b.penDown = down
	b.mu.Unlock()

	if b.pen == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b.record(b.pen.Set(ctx, down))
}

// PenDown reports the last commanded pen state.
func (b *Base) PenDown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.penDown
}

// Err returns the first command or feedback error seen.
func (b *Base) Err() error {
	b.mu.Lock()
	err := b.err
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if e, ok := b.drive.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

func (b *Base) record(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

// Close zeroes both motors, raises the pen and closes the hardware.
func (b *Base) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var errs []error
	if err := b.drive.SetPowers(ctx, 0, 0); err != nil {
		errs = append(errs, fmt.Errorf("zero motors: %w", err))
	}
	if b.pen != nil {
		if err := b.pen.Set(ctx, false); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
