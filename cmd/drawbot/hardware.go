package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/drawbotic/navigation/pkg/drive"
	"github.com/drawbotic/navigation/pkg/nav"
	"github.com/drawbotic/navigation/pkg/robot"
	"github.com/drawbotic/navigation/pkg/sim"
)

// loadConfig reads drawbot.json. The simulator runs on defaults when
// there is no config file.
func loadConfig(simulate bool) (*robot.Config, error) {
	if simulate && !robot.ConfigExists() {
		cfg := robot.DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg, err := robot.LoadConfig()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no configuration found, run 'drawbot setup' first")
		}
		return nil, err
	}
	return cfg, nil
}

// openHardware returns the simulator or the real robot base and a function
// that releases it.
func openHardware(ctx context.Context, cfg *robot.Config, simulate bool) (nav.Hardware, func() error, error) {
	if simulate {
		r := sim.New(sim.Config{
			MaxSpeedMMps: sim.DefaultMaxSpeedMMps,
			Geometry:     cfg.Navigation.Geometry,
		})
		return r, func() error { return nil }, nil
	}
	base, err := robot.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open robot: %w", err)
	}
	return base, base.Close, nil
}

func newController(cfg *robot.Config, hw nav.Hardware, hz int) (*drive.Controller, error) {
	return drive.NewController(drive.Config{
		Hardware: hw,
		Nav:      cfg.NavConfig(),
		Hz:       hz,
	})
}

// runPlain prints controller logs until the queue drains or ctx ends.
func runPlain(ctx context.Context, ctrl *drive.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ctrl.Logs():
			fmt.Println(msg)
		case s := <-ctrl.States():
			if s.Status.Queued == 0 {
				drainLogs(ctrl)
				return
			}
		}
	}
}

func drainLogs(ctrl *drive.Controller) {
	for {
		select {
		case msg := <-ctrl.Logs():
			fmt.Println(msg)
		default:
			return
		}
	}
}
