package robot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// OpenBus opens a feetech serial bus at the STS baud rate.
func OpenBus(port string) (*feetech.Bus, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}
	return bus, nil
}

// penServo is the part of *feetech.Servo the pen uses.
type penServo interface {
	SetPosition(ctx context.Context, position int) error
	Disable(ctx context.Context) error
}

// Pen lifts and lowers the pen with a single position-mode servo.
type Pen struct {
	bus   io.Closer
	servo penServo
	cfg   PenConfig
}

// OpenPen opens the pen servo bus, checks the servo answers and enables torque.
func OpenPen(ctx context.Context, cfg PenConfig) (*Pen, error) {
	bus, err := OpenBus(cfg.Port)
	if err != nil {
		return nil, err
	}

	found, err := bus.Scan(ctx, cfg.ID, cfg.ID)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("scan pen servo: %w", err)
	}
	if len(found) == 0 {
		bus.Close()
		return nil, fmt.Errorf("pen servo %d not found on %s", cfg.ID, cfg.Port)
	}

	servo := feetech.NewServo(bus, found[0].ID, found[0].Model)
	if err := servo.Enable(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable pen servo: %w", err)
	}

	return &Pen{bus: bus, servo: servo, cfg: cfg}, nil
}

// Set moves the pen to its down or up position.
func (p *Pen) Set(ctx context.Context, down bool) error {
	if err := p.servo.SetPosition(ctx, p.cfg.Position(down)); err != nil {
		return fmt.Errorf("move pen: %w", err)
	}
	return nil
}

// Close releases torque and closes the bus.
func (p *Pen) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var errs []error
	if err := p.servo.Disable(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disable pen servo: %w", err))
	}
	if err := p.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	return errors.Join(errs...)
}
