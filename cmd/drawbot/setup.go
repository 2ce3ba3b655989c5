package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/drawbotic/navigation/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// maxPenServoID bounds the bus scan.
const maxPenServoID = 20

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("drawbot setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━"))
	fmt.Println()

	config := robot.DefaultConfig()
	if robot.ConfigExists() {
		existing, err := robot.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config = existing
	}

	// Step 1: CAN interface
	askInterface(&config.Drive)

	// Step 2: pen servo
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Pen servo ━━━"))
	fmt.Println()
	candidates := findServos()
	if len(candidates) == 0 {
		fmt.Println("No feetech servos found. The pen lift will be disabled.")
		config.Pen.Port = ""
	} else {
		choice := choosePenServo(candidates)
		if choice.port == "" {
			config.Pen.Port = ""
		} else {
			config.Pen.Port = choice.port
			config.Pen.ID = choice.servo.ID
			recordPenPositions(choice, &config.Pen)
		}
	}

	if err := config.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", robot.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Draw with: " + headerStyle.Render("drawbot run square.lua"))

	return nil
}

func askInterface(drive *robot.DriveConfig) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CAN interface").
				Description("The socketcan interface of the motor driver").
				Value(&drive.Interface).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("interface name required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
}

type servoInfo struct {
	port  string
	servo feetech.FoundServo
}

func findServos() []servoInfo {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []servoInfo
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, err := robot.OpenBus(port)
		if err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		servos, err := bus.Scan(ctx, 1, maxPenServoID)
		cancel()
		bus.Close()
		if err != nil {
			continue
		}

		for _, s := range servos {
			fmt.Printf("  Found servo %d on %s\n", s.ID, port)
			found = append(found, servoInfo{port: port, servo: s})
		}
	}
	return found
}

func choosePenServo(candidates []servoInfo) servoInfo {
	options := make([]huh.Option[int], 0, len(candidates)+1)
	for i, c := range candidates {
		options = append(options, huh.NewOption(fmt.Sprintf("Servo %d on %s", c.servo.ID, c.port), i))
	}
	options = append(options, huh.NewOption("No pen servo", -1))

	choice := 0
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which servo lifts the pen?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	if choice < 0 {
		return servoInfo{}
	}
	return candidates[choice]
}

func recordPenPositions(info servoInfo, pen *robot.PenConfig) {
	bus, err := robot.OpenBus(info.port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to pen servo: %v\n", err)
		os.Exit(1)
	}
	defer bus.Close()

	servo := feetech.NewServo(bus, info.servo.ID, info.servo.Model)

	// torque off so the pen arm can be moved by hand
	ctx := context.Background()
	servo.Disable(ctx)

	fmt.Println("Move the pen arm by hand. Press Enter to record each position.")
	fmt.Println()

	pen.UpPosition = capturePosition(servo, "pen up", pen.UpPosition)
	pen.DownPosition = capturePosition(servo, "pen down", pen.DownPosition)

	// check both positions under torque
	if err := servo.Enable(ctx); err == nil {
		moveTimeMs := 500
		for _, pos := range []int{pen.DownPosition, pen.UpPosition} {
			servo.SetPositionWithTime(ctx, pos, moveTimeMs)
			time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
		}
		servo.Disable(ctx)
	}

	fmt.Printf("Pen up at %d, down at %d\n", pen.UpPosition, pen.DownPosition)
}

func capturePosition(servo *feetech.Servo, label string, current int) int {
	p := tea.NewProgram(positionModel{servo: servo, label: label, position: current})
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording position: %v\n", err)
		os.Exit(1)
	}
	return final.(positionModel).position
}

// positionModel shows the live servo position until Enter is pressed.
type positionModel struct {
	servo    *feetech.Servo
	label    string
	position int
	err      error
	quitting bool
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m positionModel) Init() tea.Cmd {
	return tick()
}

func (m positionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		pos, err := m.servo.Position(context.Background())
		m.err = err
		if err == nil {
			m.position = pos
		}
		return m, tick()
	}

	return m, nil
}

func (m positionModel) View() string {
	if m.quitting {
		return ""
	}

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableErrorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	status := "ok"
	if m.err != nil {
		status = m.err.Error()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Position", "Current", "Status").
		Rows([]string{m.label, fmt.Sprintf("%d", m.position), status}).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 2 && m.err != nil {
				return tableErrorStyle
			}
			return tableCurrentStyle
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Move to %s and press Enter", m.label)))
	return sb.String()
}
