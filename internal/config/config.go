// Package config provides YAML-based game tuning and the persisted device
// settings for the handheld runtime.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned (wrapped) when a configuration cannot describe a playable field.
var ErrInvalid = errors.New("invalid config")

// GameConfig contains all tuning for the paddle game.
type GameConfig struct {
	Field    FieldConfig    `yaml:"field"`
	Ball     BallConfig     `yaml:"ball"`
	Platform PlatformConfig `yaml:"platform"`
	Opponent OpponentConfig `yaml:"opponent"`
	Input    InputConfig    `yaml:"input"`
	Timing   TimingConfig   `yaml:"timing"`
	Network  NetworkConfig  `yaml:"network"`
	Feedback FeedbackConfig `yaml:"feedback"`
}

// FieldConfig defines the playfield in display pixels.
type FieldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
}

// BallConfig defines ball size and speeds.
type BallConfig struct {
	Radius          float64 `yaml:"radius"`
	StartVelX       float64 `yaml:"start_vel_x"`
	StartVelY       float64 `yaml:"start_vel_y"`
	BounceIncrement float64 `yaml:"bounce_increment"` // added to |vx| and |vy| on every wall hit
	RelaunchBonus   float64 `yaml:"relaunch_bonus"`   // added to start_vel_x on the first hit after a reset
}

// PlatformConfig defines the paddles.
type PlatformConfig struct {
	Width          float64 `yaml:"width"`
	Thickness      float64 `yaml:"thickness"`
	Step           float64 `yaml:"step"`
	MaxPoints      int     `yaml:"max_points"`
	CornerTransfer float64 `yaml:"corner_transfer"`
	CornerMinSpeed float64 `yaml:"corner_min_speed"`
}

// OpponentConfig tunes the scripted single-player opponent.
type OpponentConfig struct {
	DeadZone float64 `yaml:"dead_zone"`
	Step     float64 `yaml:"step"`
}

// InputConfig defines button debouncing windows in milliseconds.
type InputConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
	HoldMs     int `yaml:"hold_ms"`
}

// TimingConfig defines game loop cadences in milliseconds.
type TimingConfig struct {
	TickMs       int `yaml:"tick_ms"`
	ShowPointsMs int `yaml:"show_points_ms"`
}

// NetworkConfig defines the radio protocol cadences.
type NetworkConfig struct {
	SendIntervalMs      int  `yaml:"send_interval_ms"`
	HandshakeIntervalMs int  `yaml:"handshake_interval_ms"`
	MaxSendFailures     int  `yaml:"max_send_failures"`
	Symmetric           bool `yaml:"symmetric"` // client transmits too
}

// FeedbackConfig defines haptic and tone parameters.
type FeedbackConfig struct {
	WallVibrateMs       int   `yaml:"wall_vibrate_ms"`
	PointVibrateMs      int   `yaml:"point_vibrate_ms"`
	DisconnectVibrateMs int   `yaml:"disconnect_vibrate_ms"`
	Intensity           uint8 `yaml:"intensity"`
	WallToneHz          int   `yaml:"wall_tone_hz"`
	WallToneMs          int   `yaml:"wall_tone_ms"`
}

// Ms converts a millisecond config value to a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Validate checks that the geometry and cadences describe a playable game.
func (c GameConfig) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("%w: field must have positive size", ErrInvalid)
	case c.Field.Width > 255:
		return fmt.Errorf("%w: field width %v does not fit the snapshot platform byte", ErrInvalid, c.Field.Width)
	case c.Ball.Radius <= 0:
		return fmt.Errorf("%w: ball radius must be positive", ErrInvalid)
	case c.Platform.Width <= 0 || c.Platform.Width >= c.Field.Width-2*c.Field.WallThickness:
		return fmt.Errorf("%w: platform width %v does not fit the field", ErrInvalid, c.Platform.Width)
	case c.Platform.MaxPoints <= 0 || c.Platform.MaxPoints > 255:
		return fmt.Errorf("%w: max_points must be in 1..255", ErrInvalid)
	case c.Input.DebounceMs <= 0 || c.Input.HoldMs <= c.Input.DebounceMs:
		return fmt.Errorf("%w: hold_ms must exceed debounce_ms", ErrInvalid)
	case c.Timing.TickMs <= 0:
		return fmt.Errorf("%w: tick_ms must be positive", ErrInvalid)
	case c.Network.SendIntervalMs <= 0 || c.Network.MaxSendFailures <= 0:
		return fmt.Errorf("%w: network cadence and failure threshold must be positive", ErrInvalid)
	}
	return nil
}
