package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the persisted console settings. The game runtime only reads
// them; the settings command is the sole writer.
type Settings struct {
	DeviceID   uint8 `yaml:"device_id"`  // 0 hosts, 1 joins
	Vibrations bool  `yaml:"vibrations"` // haptics enabled
	Sound      bool  `yaml:"sound"`      // tones enabled
}

// Validate checks the device identity.
func (s Settings) Validate() error {
	if s.DeviceID > 1 {
		return fmt.Errorf("%w: device_id must be 0 or 1, got %d", ErrInvalid, s.DeviceID)
	}
	return nil
}

// DefaultSettingsPath returns ~/.brickgame/settings.yaml, or a relative
// settings.yaml when the home directory is unavailable.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(home, ".brickgame", "settings.yaml")
}

// LoadSettings reads settings from path (DefaultSettingsPath when empty).
// A missing file yields the embedded factory settings.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = DefaultSettingsPath()
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(defaultSettingsYAML, &s); err != nil {
		s = DefaultSettings()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("config: cannot read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: cannot parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config: settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes settings to path (DefaultSettingsPath when empty),
// creating the parent directory if needed.
func SaveSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if path == "" {
		path = DefaultSettingsPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: cannot encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: cannot write settings %s: %w", path, err)
	}
	return nil
}
