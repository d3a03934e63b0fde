package core

import "time"

// RuntimeConfig is what the platform layer hands to the game loop driver.
type RuntimeConfig struct {
	ScreenW      int           // Terminal width in characters
	ScreenH      int           // Terminal height in characters
	PollInterval time.Duration // How often the driver runs one loop iteration
	Seed         int64         // RNG seed for simulated radio loss (0 = time based)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
// A 5ms poll keeps the 25ms physics tick and 20ms debounce window resolvable.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		PollInterval: 5 * time.Millisecond,
		Seed:         0,
	}
}
