// Package input turns raw button samples into debounced click and hold events.
package input

import (
	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
)

// Timing holds the debounce windows in counter units.
type Timing struct {
	Debounce core.Millis // minimum time a sample must be stable
	Hold     core.Millis // stable-pressed time after which a press is a hold
}

// TimingFromConfig converts the configured windows.
func TimingFromConfig(cfg config.InputConfig) Timing {
	return Timing{
		Debounce: core.Millis(cfg.DebounceMs), //nolint:gosec // validated positive
		Hold:     core.Millis(cfg.HoldMs),     //nolint:gosec // validated positive
	}
}

// DefaultTiming returns the 20ms/400ms windows of the handheld.
func DefaultTiming() Timing {
	return TimingFromConfig(config.DefaultGameConfig().Input)
}

// Channel is the debounce state of one button.
//
// A press must stay stable past the debounce window before its release can
// report a click, and a click is reported at most once per press. A press
// stable past the hold window reports a hold on every poll and suppresses
// the click for that press.
type Channel struct {
	timing     Timing
	last       bool        // last raw sample, true = pressed
	lastChange core.Millis // when the raw sample last changed
	consumed   bool        // the current press has already produced its event
}

// NewChannel creates a released channel. It starts consumed, so a channel
// that has never seen a press cannot report a click.
func NewChannel(timing Timing) *Channel {
	return &Channel{
		timing:   timing,
		consumed: true,
	}
}

// Poll feeds one raw sample taken at now and returns the resulting event.
func (c *Channel) Poll(pressed bool, now core.Millis) core.Event {
	if pressed != c.last {
		c.lastChange = now
	}
	c.last = pressed

	stable := now.Since(c.lastChange)

	if stable > c.timing.Hold && pressed {
		c.consumed = true
		return core.EventHold
	}

	if stable > c.timing.Debounce && stable < c.timing.Hold {
		if !c.consumed && !pressed {
			c.consumed = true
			return core.EventClick
		}
		if pressed {
			c.consumed = false
		}
	}

	return core.EventNone
}

// Pressed returns the last raw sample seen by Poll.
func (c *Channel) Pressed() bool {
	return c.last
}
