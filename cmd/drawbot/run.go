package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/drawbotic/navigation/pkg/drive"
	"github.com/drawbotic/navigation/pkg/nav"
	"github.com/drawbotic/navigation/pkg/robot"
	"github.com/drawbotic/navigation/pkg/script"
	"github.com/drawbotic/navigation/pkg/sim"
)

type RunCommand struct {
	Sim   bool `long:"sim" description:"Run on the simulated robot"`
	Hz    int  `long:"hz" default:"100" description:"Control loop frequency"`
	Plain bool `long:"plain" description:"Print log lines instead of the dashboard"`

	Args struct {
		Script string `positional-arg-name:"SCRIPT" required:"yes"`
	} `positional-args:"yes"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	statusHeight = 6 // status table
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Wheel colors
var motorColors = map[robot.MotorName]string{
	robot.RightWheel: "208", // orange
	robot.LeftWheel:  "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type runModel struct {
	ctrl     *drive.Controller
	name     string
	chart    *streamlinechart.Model
	width    int // terminal width
	height   int // terminal height
	logs     []string
	state    drive.State
	done     bool
	quitting bool
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg drive.State
type logMsg string

func waitForState(ctrl *drive.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *drive.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - statusHeight - footerHeight - borderSize
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialRunModel(ctrl *drive.Controller, name string) runModel {
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(-1, 1),
	)
	for _, wheel := range robot.AllMotors() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(motorColors[wheel]))
		chart.SetDataSetStyles(string(wheel), runes.ThinLineStyle, style)
	}

	return runModel{
		ctrl:  ctrl,
		name:  name,
		chart: &chart,
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "h", " ":
			m.ctrl.Halt()
		}

	case stateMsg:
		state := drive.State(msg)
		// freeze the chart once the queue has drained
		if state.Status.Active {
			m.chart.PushDataSet(string(robot.NameOf(nav.Motor1)), state.Power1)
			m.chart.PushDataSet(string(robot.NameOf(nav.Motor2)), state.Power2)
			m.chart.DrawAll()
		}
		m.state = state
		m.done = state.Status.Queued == 0
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Drawing stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("drawbot " + m.name))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.done {
		sb.WriteString(doneStyle.Render("  done"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	sb.WriteString(renderStatus(m.state))
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'h' to halt, 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range robot.AllMotors() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(motorColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+string(name))
	}
	return strings.Join(items, "  ")
}

func renderStatus(s drive.State) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	st := s.Status
	action := "idle"
	progress := "-"
	if st.Active {
		action = st.Action
		progress = fmt.Sprintf("%.1f / %.1f", st.Progress, st.Target)
	}
	pen := "up"
	if s.PenDown {
		pen = "down"
	}
	row := []string{
		action,
		progress,
		fmt.Sprintf("%.3f", st.FollowSpeed),
		fmt.Sprintf("%.1f°", s.Heading),
		pen,
		fmt.Sprintf("%.2f", st.BaseSpeed),
		fmt.Sprintf("%d", st.Queued),
		fmt.Sprintf("%d", st.Completed),
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(statusStyle).
		Headers("Action", "Progress", "Follow", "Heading", "Pen", "Speed", "Queued", "Done").
		Rows(row).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.Sim)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	prog, err := script.Load(c.Args.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", c.Args.Script, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	hw, closeHW, err := openHardware(ctx, cfg, c.Sim)
	if err != nil {
		log.Fatalf("Failed to open hardware: %v", err)
	}
	defer closeHW()

	ctrl, err := newController(cfg, hw, c.Hz)
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}
	ctrl.With(func(n *nav.Navigator) {
		prog.Apply(n)
	})

	ctrlCtx, stop := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := ctrl.Start(ctrlCtx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	if c.Plain {
		fmt.Printf("Running %s: %d actions\n", prog.Name, prog.Actions())
		runPlain(ctx, ctrl)
	} else {
		p := tea.NewProgram(initialRunModel(ctrl, prog.Name), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatalf("Error running program: %v", err)
		}
	}

	stop()
	<-stopped

	if r, ok := hw.(*sim.Robot); ok {
		pose := r.Pose()
		fmt.Printf("Simulated %s: %d strokes, ended at (%.1f, %.1f) heading %.1f°\n",
			r.Elapsed(), len(r.Strokes()), pose.X, pose.Y, pose.Heading)
	}
	return nil
}
