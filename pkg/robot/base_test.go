package robot

import (
	"context"
	"errors"
	"testing"

	"github.com/drawbotic/navigation/pkg/nav"
)

type fakeDriver struct {
	frames  [][2]float64
	heading float64
	err     error
}

func (f *fakeDriver) SetPowers(_ context.Context, p1, p2 float64) error {
	f.frames = append(f.frames, [2]float64{p1, p2})
	return f.err
}

func (f *fakeDriver) Heading() float64 { return f.heading }

type fakePen struct {
	moves []bool
	err   error
}

func (f *fakePen) Set(_ context.Context, down bool) error {
	f.moves = append(f.moves, down)
	return f.err
}

func TestBase_SetMotorSpeedSendsBoth(t *testing.T) {
	drv := &fakeDriver{}
	b := NewBase(drv, NewEncoders(), nil)

	b.SetMotorSpeed(nav.Motor1, 0.3)
	b.SetMotorSpeed(nav.Motor2, -0.2)

	want := [][2]float64{{0.3, 0}, {0.3, -0.2}}
	if len(drv.frames) != len(want) {
		t.Fatalf("frames = %v, want %v", drv.frames, want)
	}
	for i := range want {
		if drv.frames[i] != want[i] {
			t.Errorf("frame %d = %v, want %v", i, drv.frames[i], want[i])
		}
	}
	if b.Power(nav.Motor2) != -0.2 {
		t.Errorf("Power(Motor2) = %v", b.Power(nav.Motor2))
	}
}

func TestBase_EncodersAndHeading(t *testing.T) {
	enc := NewEncoders()
	b := NewBase(&fakeDriver{heading: 123}, enc, nil)

	enc.Update(nav.Motor1, 0)
	enc.Update(nav.Motor1, 40)
	if d := b.EncoderDelta(nav.Motor1); d != 40 {
		t.Errorf("EncoderDelta = %d, want 40", d)
	}

	enc.Update(nav.Motor2, 0)
	enc.Update(nav.Motor2, 9)
	b.ResetEncoderDeltas()
	if d := b.EncoderDelta(nav.Motor2); d != 0 {
		t.Errorf("EncoderDelta after reset = %d, want 0", d)
	}
	if b.Heading() != 123 {
		t.Errorf("Heading() = %v, want 123", b.Heading())
	}
}

func TestBase_Pen(t *testing.T) {
	pen := &fakePen{}
	b := NewBase(&fakeDriver{}, NewEncoders(), pen)

	b.SetPen(true)
	b.SetPen(false)
	if len(pen.moves) != 2 || !pen.moves[0] || pen.moves[1] {
		t.Errorf("pen moves = %v", pen.moves)
	}
	if b.PenDown() {
		t.Error("PenDown() should be false")
	}

	// no servo fitted: state still tracked
	b = NewBase(&fakeDriver{}, NewEncoders(), nil)
	b.SetPen(true)
	if !b.PenDown() {
		t.Error("PenDown() should be true")
	}
}

func TestBase_StickyError(t *testing.T) {
	first := errors.New("bus off")
	drv := &fakeDriver{err: first}
	b := NewBase(drv, NewEncoders(), nil)

	if b.Err() != nil {
		t.Fatalf("Err() = %v before any command", b.Err())
	}
	b.SetMotorSpeed(nav.Motor1, 0.1)
	drv.err = errors.New("later")
	b.SetMotorSpeed(nav.Motor1, 0.2)

	if !errors.Is(b.Err(), first) {
		t.Errorf("Err() = %v, want %v", b.Err(), first)
	}
}

func TestBase_CloseZeroesMotors(t *testing.T) {
	drv := &fakeDriver{}
	pen := &fakePen{}
	b := NewBase(drv, NewEncoders(), pen)
	b.SetMotorSpeed(nav.Motor1, 0.5)

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	last := drv.frames[len(drv.frames)-1]
	if last != [2]float64{0, 0} {
		t.Errorf("last frame = %v, want zeros", last)
	}
	if len(pen.moves) != 1 || pen.moves[0] {
		t.Errorf("pen should be raised on close, moves = %v", pen.moves)
	}
}
