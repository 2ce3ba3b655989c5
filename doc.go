// Package navigation is the motion sequencer for a two-wheel drawing robot.
//
// Drawing programs are small Lua scripts that queue straight lines, arcs,
// rotations, pauses and pen moves. The navigator runs them one at a time,
// keeping the wheels in step from encoder feedback and turning to a heading
// bound when each rotation starts.
//
// # Installation
//
//	go install github.com/drawbotic/navigation/cmd/drawbot@latest
//
// # Usage
//
// Find the pen servo and record its positions:
//
//	drawbot setup
//
// Try a program on the simulator, then on the robot:
//
//	drawbot run --sim square.lua
//	drawbot run square.lua
//
// Correct a primitive after measuring it:
//
//	drawbot calibrate --kind left-rotate --amount 360
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/drawbot: CLI with run, setup and calibrate commands
//   - pkg/nav: Action queue, motion executor and primitive controllers
//   - pkg/robot: CAN drive base, pen servo, configuration and calibration
//   - pkg/sim: Simulated robot for testing programs without hardware
//   - pkg/drive: Fixed-rate control loop around a navigator
//   - pkg/script: Lua drawing programs
package navigation
