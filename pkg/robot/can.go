package robot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/drawbotic/navigation/pkg/nav"
)

// powerScale converts a [-1, 1] power to the driver's int16 command.
const powerScale = 1000

// EncodeMotorFrame packs both motor powers into a command frame.
func EncodeMotorFrame(id uint32, power1, power2 float64) can.Frame {
	f := can.Frame{ID: id, Length: 4}
	binary.LittleEndian.PutUint16(f.Data[0:2], uint16(scalePower(power1)))
	binary.LittleEndian.PutUint16(f.Data[2:4], uint16(scalePower(power2)))
	return f
}

func scalePower(p float64) int16 {
	if math.IsNaN(p) {
		return 0
	}
	p = math.Max(-1, math.Min(1, p))
	return int16(math.Round(p * powerScale))
}

// DecodeMotorFrame unpacks a command frame built by EncodeMotorFrame.
func DecodeMotorFrame(f can.Frame) (power1, power2 float64, ok bool) {
	if f.Length < 4 {
		return 0, 0, false
	}
	p1 := int16(binary.LittleEndian.Uint16(f.Data[0:2]))
	p2 := int16(binary.LittleEndian.Uint16(f.Data[2:4]))
	return float64(p1) / powerScale, float64(p2) / powerScale, true
}

// EncodeEncoderFrame packs two absolute wheel counts.
func EncodeEncoderFrame(id uint32, count1, count2 int32) can.Frame {
	f := can.Frame{ID: id, Length: 8}
	binary.LittleEndian.PutUint32(f.Data[0:4], uint32(count1))
	binary.LittleEndian.PutUint32(f.Data[4:8], uint32(count2))
	return f
}

// DecodeEncoderFrame unpacks absolute wheel counts.
func DecodeEncoderFrame(f can.Frame) (count1, count2 int32, ok bool) {
	if f.Length < 8 {
		return 0, 0, false
	}
	count1 = int32(binary.LittleEndian.Uint32(f.Data[0:4]))
	count2 = int32(binary.LittleEndian.Uint32(f.Data[4:8]))
	return count1, count2, true
}

// EncodeHeadingFrame packs a heading in centidegrees.
func EncodeHeadingFrame(id uint32, heading float64) can.Frame {
	f := can.Frame{ID: id, Length: 2}
	cd := uint16(math.Round(nav.NormalizeHeading(heading)*100)) % 36000
	binary.LittleEndian.PutUint16(f.Data[0:2], cd)
	return f
}

// DecodeHeadingFrame unpacks a heading in degrees.
func DecodeHeadingFrame(f can.Frame) (float64, bool) {
	if f.Length < 2 {
		return 0, false
	}
	cd := binary.LittleEndian.Uint16(f.Data[0:2])
	return nav.NormalizeHeading(float64(cd) / 100), true
}

// CANDrive talks to the motor driver over SocketCAN. Encoder frames feed
// an Encoders accumulator; heading frames update the latest heading.
type CANDrive struct {
	cfg DriveConfig
	enc *Encoders

	txConn net.Conn
	tx     *socketcan.Transmitter
	rxConn net.Conn
	rx     *socketcan.Receiver

	mu      sync.Mutex
	heading float64
	rxErr   error
	done    chan struct{}
}

// DialCAN opens the CAN interface and starts receiving feedback.
func DialCAN(ctx context.Context, cfg DriveConfig, enc *Encoders) (*CANDrive, error) {
	txConn, err := socketcan.DialContext(ctx, "can", cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial: %w", err)
	}
	rxConn, err := socketcan.DialContext(ctx, "can", cfg.Interface)
	if err != nil {
		txConn.Close()
		return nil, fmt.Errorf("socketcan dial: %w", err)
	}

	d := &CANDrive{
		cfg:    cfg,
		enc:    enc,
		txConn: txConn,
		tx:     socketcan.NewTransmitter(txConn),
		rxConn: rxConn,
		rx:     socketcan.NewReceiver(rxConn),
		done:   make(chan struct{}),
	}
	go d.receiveLoop()
	return d, nil
}

// SetPowers transmits a motor command frame.
func (d *CANDrive) SetPowers(ctx context.Context, power1, power2 float64) error {
	frame := EncodeMotorFrame(d.cfg.MotorFrameID, power1, power2)
	if err := d.tx.TransmitFrame(ctx, frame); err != nil {
		return fmt.Errorf("transmit motor frame: %w", err)
	}
	return nil
}

// Heading returns the most recent heading report.
func (d *CANDrive) Heading() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heading
}

// Err returns the error that ended the receive loop, if any.
func (d *CANDrive) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rxErr
}

// Close stops the receive loop and closes both sockets.
func (d *CANDrive) Close() error {
	errTx := d.txConn.Close()
	errRx := d.rxConn.Close()
	<-d.done
	return errors.Join(errTx, errRx)
}

func (d *CANDrive) receiveLoop() {
	defer close(d.done)
	for d.rx.Receive() {
		d.handle(d.rx.Frame())
	}
	if err := d.rx.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		d.mu.Lock()
		d.rxErr = fmt.Errorf("receive: %w", err)
		d.mu.Unlock()
	}
}

func (d *CANDrive) handle(f can.Frame) {
	switch f.ID {
	case d.cfg.EncoderFrameID:
		c1, c2, ok := DecodeEncoderFrame(f)
		if !ok {
			return
		}
		d.enc.Update(nav.Motor1, c1)
		d.enc.Update(nav.Motor2, c2)
	case d.cfg.HeadingFrameID:
		h, ok := DecodeHeadingFrame(f)
		if !ok {
			return
		}
		d.mu.Lock()
		d.heading = h
		d.mu.Unlock()
	}
}
