package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drawbotic/navigation/pkg/nav"
)

type recorder struct {
	params []nav.Params
	front  []bool
	speeds []float64
}

func (r *recorder) Enqueue(p nav.Params, atFront bool) {
	r.params = append(r.params, p)
	r.front = append(r.front, atFront)
}

func (r *recorder) SetBaseSpeed(s float64) {
	r.speeds = append(r.speeds, s)
}

func TestLoadString_Square(t *testing.T) {
	src := `
speed(0.2)
pen_down()
for i = 1, 4 do
  forward(100)
  rotate(90)
end
pen_up()
`
	prog, err := LoadString("square", src)
	if err != nil {
		t.Fatalf("LoadString error: %v", err)
	}
	if prog.Actions() != 10 {
		t.Errorf("Actions() = %d, want 10", prog.Actions())
	}

	rec := &recorder{}
	prog.Apply(rec)
	if len(rec.speeds) != 1 || rec.speeds[0] != 0.2 {
		t.Errorf("speeds = %v, want [0.2]", rec.speeds)
	}
	if rec.params[0] != (nav.Pen{Down: true}) {
		t.Errorf("first action = %#v", rec.params[0])
	}
	if rec.params[1] != (nav.Forward{DistanceMM: 100}) {
		t.Errorf("second action = %#v", rec.params[1])
	}
	if rec.params[2] != (nav.Rotate{AngleDeg: 90}) {
		t.Errorf("third action = %#v", rec.params[2])
	}
	if rec.params[9] != (nav.Pen{Down: false}) {
		t.Errorf("last action = %#v", rec.params[9])
	}
}

func TestLoadString_AllPrimitives(t *testing.T) {
	prog, err := LoadString("all", `
arc(150, -45)
stop(250)
forward(10, true)
pen_up(true)
`)
	if err != nil {
		t.Fatalf("LoadString error: %v", err)
	}

	want := []Step{
		{Params: nav.ArcTurn{RadiusMM: 150, AngleDeg: -45}},
		{Params: nav.Stop{Duration: 250 * time.Millisecond}},
		{Params: nav.Forward{DistanceMM: 10}, AtFront: true},
		{Params: nav.Pen{Down: false}, AtFront: true},
	}
	if len(prog.Steps) != len(want) {
		t.Fatalf("steps = %v, want %v", prog.Steps, want)
	}
	for i := range want {
		if prog.Steps[i] != want[i] {
			t.Errorf("step %d = %#v, want %#v", i, prog.Steps[i], want[i])
		}
	}
}

func TestLoadString_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `forward(`},
		{"negative distance", `forward(-5)`},
		{"missing argument", `rotate()`},
		{"bad speed", `speed(1.5)`},
		{"zero radius", `arc(0, 90)`},
		{"negative stop", `stop(-1)`},
		{"runtime", `error("boom")`},
	}

	for _, tt := range tests {
		if _, err := LoadString(tt.name, tt.src); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.lua")
	if err := os.WriteFile(path, []byte("pen_down()\nforward(50)\npen_up()\n"), 0644); err != nil {
		t.Fatal(err)
	}

	prog, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if prog.Name != "line" {
		t.Errorf("Name = %q, want line", prog.Name)
	}
	if prog.Actions() != 3 {
		t.Errorf("Actions() = %d, want 3", prog.Actions())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProgram_ApplyToNavigator(t *testing.T) {
	prog, err := LoadString("front", `
forward(100)
forward(200)
rotate(45, true)
speed(0.3)
`)
	if err != nil {
		t.Fatal(err)
	}

	n := nav.New(nopHardware{}, nav.DefaultConfig())
	prog.Apply(n)

	pending := n.Pending()
	if len(pending) != 3 {
		t.Fatalf("pending = %v", pending)
	}
	if pending[0] != (nav.Rotate{AngleDeg: 45}) {
		t.Errorf("front = %#v, want rotate 45", pending[0])
	}
	if n.BaseSpeed() != 0.3 {
		t.Errorf("BaseSpeed() = %v, want 0.3", n.BaseSpeed())
	}
}

type nopHardware struct{}

func (nopHardware) SetMotorSpeed(nav.Motor, float64) {}
func (nopHardware) EncoderDelta(nav.Motor) int       { return 0 }
func (nopHardware) ResetEncoderDeltas()              {}
func (nopHardware) Heading() float64                 { return 0 }
func (nopHardware) SetPen(bool)                      {}
