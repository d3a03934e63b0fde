package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadGame loads the game tuning.
// Search order: customPath -> ~/.brickgame/configs/pong.yaml -> ./configs/pong.yaml -> embedded default.
// Files are layered over the defaults, so a partial file only overrides the keys it names.
func LoadGame(customPath string) (GameConfig, error) {
	cfg := embeddedGameConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("pong.yaml"), filepath.Join("configs", "pong.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := embeddedGameConfig()
		if err := yaml.Unmarshal(data, &candidate); err != nil {
			continue
		}
		if candidate.Validate() == nil {
			return candidate, nil
		}
	}

	return cfg, nil
}

// embeddedGameConfig parses the embedded YAML, falling back to the
// hardcoded defaults if the embed is unusable.
func embeddedGameConfig() GameConfig {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(defaultPongYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultGameConfig()
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".brickgame", "configs", filename)
}
