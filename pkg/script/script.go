// Package script compiles Lua drawing programs into navigator actions.
//
// A program calls global functions to describe the drawing:
//
//	speed(0.2)
//	pen_down()
//	for i = 1, 4 do
//	  forward(100)
//	  rotate(90)
//	end
//	pen_up()
//
// Every motion function takes an optional trailing boolean that inserts
// the action at the front of the queue instead of the back.
package script

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shopify/go-lua"

	"github.com/drawbotic/navigation/pkg/nav"
)

// Step is one recorded call. A nil Params is a base speed change.
type Step struct {
	Params  nav.Params
	AtFront bool
	Speed   float64
}

func (s Step) String() string {
	if s.Params == nil {
		return fmt.Sprintf("speed %.2f", s.Speed)
	}
	return s.Params.Kind().String()
}

// Program is a compiled drawing program.
type Program struct {
	Name  string
	Steps []Step
}

// Target receives a program's actions. *nav.Navigator satisfies it.
type Target interface {
	Enqueue(p nav.Params, atFront bool)
	SetBaseSpeed(s float64)
}

// Apply replays the program onto t in order.
func (p *Program) Apply(t Target) {
	for _, s := range p.Steps {
		if s.Params == nil {
			t.SetBaseSpeed(s.Speed)
			continue
		}
		t.Enqueue(s.Params, s.AtFront)
	}
}

// Actions returns the number of queued actions the program produces.
func (p *Program) Actions() int {
	n := 0
	for _, s := range p.Steps {
		if s.Params != nil {
			n++
		}
	}
	return n
}

// Load runs the Lua file at path and returns the recorded program.
func Load(path string) (*Program, error) {
	prog := &Program{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	state := newState(prog)
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	return prog, nil
}

// LoadString runs src and returns the recorded program.
func LoadString(name, src string) (*Program, error) {
	prog := &Program{Name: name}
	state := newState(prog)
	if err := lua.LoadString(state, src); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	return prog, nil
}

func newState(prog *Program) *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	record := func(p nav.Params, atFront bool) {
		prog.Steps = append(prog.Steps, Step{Params: p, AtFront: atFront})
	}

	state.Register("forward", func(state *lua.State) int {
		mm := lua.CheckNumber(state, 1)
		lua.ArgumentCheck(state, mm > 0, 1, "distance must be positive")
		record(nav.Forward{DistanceMM: mm}, state.ToBoolean(2))
		return 0
	})
	state.Register("arc", func(state *lua.State) int {
		radius := lua.CheckNumber(state, 1)
		angle := lua.CheckNumber(state, 2)
		lua.ArgumentCheck(state, radius > 0, 1, "radius must be positive")
		record(nav.ArcTurn{RadiusMM: radius, AngleDeg: angle}, state.ToBoolean(3))
		return 0
	})
	state.Register("rotate", func(state *lua.State) int {
		angle := lua.CheckNumber(state, 1)
		record(nav.Rotate{AngleDeg: angle}, state.ToBoolean(2))
		return 0
	})
	state.Register("stop", func(state *lua.State) int {
		ms := lua.CheckNumber(state, 1)
		lua.ArgumentCheck(state, ms >= 0, 1, "duration must not be negative")
		d := time.Duration(ms * float64(time.Millisecond))
		record(nav.Stop{Duration: d}, state.ToBoolean(2))
		return 0
	})
	state.Register("pen_down", func(state *lua.State) int {
		record(nav.Pen{Down: true}, state.ToBoolean(1))
		return 0
	})
	state.Register("pen_up", func(state *lua.State) int {
		record(nav.Pen{Down: false}, state.ToBoolean(1))
		return 0
	})
	state.Register("speed", func(state *lua.State) int {
		s := lua.CheckNumber(state, 1)
		lua.ArgumentCheck(state, s > 0 && s < 1, 1, "speed must be between 0 and 1")
		prog.Steps = append(prog.Steps, Step{Speed: s})
		return 0
	})

	return state
}
