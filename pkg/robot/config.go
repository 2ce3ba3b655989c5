package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/drawbotic/navigation/pkg/nav"
)

const DefaultConfigFile = "drawbot.json"

// Config holds the robot configuration
type Config struct {
	Drive       DriveConfig      `json:"drive"`
	Pen         PenConfig        `json:"pen"`
	Navigation  NavigationConfig `json:"navigation"`
	Calibration nav.Calibration  `json:"calibration"`
}

// DriveConfig describes the CAN motor driver
type DriveConfig struct {
	Interface      string `json:"interface" env:"DRAWBOT_CAN_INTERFACE"`
	MotorFrameID   uint32 `json:"motor_frame_id" env:"DRAWBOT_MOTOR_FRAME_ID"`
	EncoderFrameID uint32 `json:"encoder_frame_id" env:"DRAWBOT_ENCODER_FRAME_ID"`
	HeadingFrameID uint32 `json:"heading_frame_id" env:"DRAWBOT_HEADING_FRAME_ID"`
}

// PenConfig describes the pen lift servo
type PenConfig struct {
	Port         string `json:"port" env:"DRAWBOT_PEN_PORT"`
	ID           int    `json:"id" env:"DRAWBOT_PEN_ID"`
	UpPosition   int    `json:"up_position"`
	DownPosition int    `json:"down_position"`
}

// IsConfigured returns true if a pen servo port is set
func (p *PenConfig) IsConfigured() bool {
	return p.Port != ""
}

// Position returns the servo position for the requested pen state
func (p PenConfig) Position(down bool) int {
	if down {
		return p.DownPosition
	}
	return p.UpPosition
}

// NavigationConfig holds the navigator tunables
type NavigationConfig struct {
	BaseSpeed        float64      `json:"base_speed" env:"DRAWBOT_SPEED"`
	CorrectionGain   float64      `json:"correction_gain" env:"DRAWBOT_CORRECTION_GAIN"`
	UpdateIntervalMS float64      `json:"update_interval_ms" env:"DRAWBOT_UPDATE_INTERVAL_MS"`
	UseIMU           bool         `json:"use_imu" env:"DRAWBOT_USE_IMU"`
	MinPower         float64      `json:"min_power"`
	ForwardGain      float64      `json:"forward_gain"`
	RotateGain       float64      `json:"rotate_gain"`
	HeadingTolerance float64      `json:"heading_tolerance_deg"`
	RampRatio        float64      `json:"ramp_ratio" env:"DRAWBOT_RAMP_RATIO"`
	Geometry         nav.Geometry `json:"geometry"`
}

// DefaultConfig returns a configuration with stock values
func DefaultConfig() *Config {
	d := nav.DefaultConfig()
	return &Config{
		Drive: DriveConfig{
			Interface:      "can0",
			MotorFrameID:   0x200,
			EncoderFrameID: 0x280,
			HeadingFrameID: 0x290,
		},
		Pen: PenConfig{
			ID:           1,
			UpPosition:   2048,
			DownPosition: 1700,
		},
		Navigation: NavigationConfig{
			BaseSpeed:        d.BaseSpeed,
			CorrectionGain:   d.CorrectionGain,
			UpdateIntervalMS: float64(d.UpdateInterval) / float64(time.Millisecond),
			UseIMU:           d.UseHeading,
			MinPower:         d.MinPower,
			ForwardGain:      d.ForwardGain,
			RotateGain:       d.RotateGain,
			HeadingTolerance: d.HeadingTolerance,
			RampRatio:        d.RampRatio,
			Geometry:         d.Geometry,
		},
		Calibration: d.Calibration,
	}
}

// NavConfig converts the file representation into navigator tunables
func (c *Config) NavConfig() nav.Config {
	n := c.Navigation
	return nav.Config{
		BaseSpeed:        n.BaseSpeed,
		CorrectionGain:   n.CorrectionGain,
		UpdateInterval:   time.Duration(n.UpdateIntervalMS * float64(time.Millisecond)),
		UseHeading:       n.UseIMU,
		MinPower:         n.MinPower,
		ForwardGain:      n.ForwardGain,
		RotateGain:       n.RotateGain,
		HeadingTolerance: n.HeadingTolerance,
		RampRatio:        n.RampRatio,
		Geometry:         n.Geometry,
		Calibration:      c.Calibration,
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Values missing
// from the file keep their defaults; DRAWBOT_* environment variables
// override both.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DRAWBOT_* environment variables
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
