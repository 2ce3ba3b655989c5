package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/drawbotic/navigation/pkg/nav"
	"github.com/drawbotic/navigation/pkg/robot"
)

type CalibrateCommand struct {
	Kind   string  `long:"kind" required:"yes" choice:"forward" choice:"left-turn" choice:"right-turn" choice:"left-rotate" choice:"right-rotate" description:"Primitive to calibrate"`
	Amount float64 `long:"amount" default:"500" description:"Distance in mm (forward) or angle in degrees"`
	Radius float64 `long:"radius" default:"150" description:"Arc radius in mm for turns"`
	Sim    bool    `long:"sim" description:"Run on the simulated robot"`
	Hz     int     `long:"hz" default:"100" description:"Control loop frequency"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	kind, err := robot.ParseCalibrationKind(c.Kind)
	if err != nil {
		return err
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	cfg, err := loadConfig(c.Sim)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	hw, closeHW, err := openHardware(ctx, cfg, c.Sim)
	if err != nil {
		log.Fatalf("Failed to open hardware: %v", err)
	}
	defer closeHW()

	// disable heading feedback so rotations are measured by the encoders
	// the factors apply to
	navCfg := *cfg
	navCfg.Navigation.UseIMU = false
	ctrl, err := newController(&navCfg, hw, c.Hz)
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	params := kind.Params(c.Amount, c.Radius)
	ctrl.With(func(n *nav.Navigator) {
		n.Enqueue(params, false)
	})

	fmt.Println(headerStyle.Render("drawbot calibrate " + string(kind)))
	fmt.Printf("Mark the start position, then watch the robot perform %s %+v.\n\n", params.Kind(), params)

	ctrlCtx, stop := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ctrl.Start(ctrlCtx)
	}()
	runPlain(ctx, ctrl)
	stop()
	<-stopped
	if ctx.Err() != nil {
		return ctx.Err()
	}

	unit := "degrees"
	if kind == robot.CalibrateForward {
		unit = "mm"
	}

	var measuredText string
	var save bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Measured result in %s", unit)).
				Description(fmt.Sprintf("Commanded %.1f %s", c.Amount, unit)).
				Value(&measuredText).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Save the corrected factor?").
				Affirmative("Save").
				Negative("Discard").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	measured, _ := strconv.ParseFloat(strings.TrimSpace(measuredText), 64)
	before, _ := robot.Factor(cfg.Calibration, kind)
	if err := robot.Refit(&cfg.Calibration, kind, c.Amount, measured); err != nil {
		return err
	}
	after, _ := robot.Factor(cfg.Calibration, kind)
	fmt.Printf("%s factor: %.4f -> %.4f\n", kind, before, after)

	if !save {
		fmt.Println(dimStyle.Render("Not saved."))
		return nil
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(successStyle.Render("Saved to " + robot.DefaultConfigFile))
	return nil
}
