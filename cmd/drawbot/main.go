package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Run       RunCommand       `command:"run" description:"Run a Lua drawing program"`
	Setup     SetupCommand     `command:"setup" description:"Find the pen servo and record its positions"`
	Calibrate CalibrateCommand `command:"calibrate" alias:"cal" description:"Measure and correct one motion primitive"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "drawbot - motion sequencer for a two-wheel drawing robot"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
