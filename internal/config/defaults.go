package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// DefaultGameConfig returns the stock handheld tuning.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Field: FieldConfig{
			Width:         128,
			Height:        160,
			WallThickness: 1,
		},
		Ball: BallConfig{
			Radius:          2,
			StartVelX:       1.5,
			StartVelY:       1.5,
			BounceIncrement: 0.07,
			RelaunchBonus:   0.5,
		},
		Platform: PlatformConfig{
			Width:          16,
			Thickness:      1,
			Step:           2,
			MaxPoints:      100,
			CornerTransfer: 0.25,
			CornerMinSpeed: 1.5,
		},
		Opponent: OpponentConfig{
			DeadZone: 3,
			Step:     2,
		},
		Input: InputConfig{
			DebounceMs: 20,
			HoldMs:     400,
		},
		Timing: TimingConfig{
			TickMs:       25,
			ShowPointsMs: 1500,
		},
		Network: NetworkConfig{
			SendIntervalMs:      100,
			HandshakeIntervalMs: 1000,
			MaxSendFailures:     10,
			Symmetric:           false,
		},
		Feedback: FeedbackConfig{
			WallVibrateMs:       20,
			PointVibrateMs:      300,
			DisconnectVibrateMs: 10000,
			Intensity:           255,
			WallToneHz:          200,
			WallToneMs:          50,
		},
	}
}

// DefaultSettings returns factory settings: console 0, feedback off.
func DefaultSettings() Settings {
	return Settings{}
}

// GetDefaultYAML returns the embedded default YAML for the named file
// ("pong" or "settings").
func GetDefaultYAML(name string) []byte {
	switch name {
	case "pong":
		return defaultPongYAML
	case "settings":
		return defaultSettingsYAML
	default:
		return nil
	}
}
