package tui

import (
	"time"

	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/input"
)

// Terminals report key presses (and auto-repeats) but no releases, so a key
// holds its button down for a short pulse. Steering buttons get a longer
// pulse that bridges the gap between auto-repeats.
const (
	DefaultTapPulse   = 80 * time.Millisecond
	DefaultSteerPulse = 160 * time.Millisecond
)

// KeyPins turns key presses into button levels. Not thread-safe; it lives
// on the Bubble Tea update goroutine together with the controller.
type KeyPins struct {
	clock core.Clock
	tap   core.Millis
	steer core.Millis
	down  [core.ButtonCount]bool
	until [core.ButtonCount]core.Millis
}

var _ input.PinReader = (*KeyPins)(nil)

// NewKeyPins creates released pins using the default pulses.
func NewKeyPins(clock core.Clock) *KeyPins {
	return &KeyPins{
		clock: clock,
		tap:   core.MillisOf(DefaultTapPulse),
		steer: core.MillisOf(DefaultSteerPulse),
	}
}

// Press holds b down for one pulse, extending a pulse already running.
func (p *KeyPins) Press(b core.Button) {
	if b < 0 || b >= core.ButtonCount {
		return
	}
	pulse := p.tap
	if b == core.ButtonLeft || b == core.ButtonRight {
		pulse = p.steer
	}
	p.down[b] = true
	p.until[b] = p.clock.Now() + pulse
}

// Pressed reports whether b's pulse is still running.
func (p *KeyPins) Pressed(b core.Button) bool {
	if b < 0 || b >= core.ButtonCount || !p.down[b] {
		return false
	}
	if p.clock.Now().Reached(p.until[b]) {
		p.down[b] = false
		return false
	}
	return true
}

// ReleaseAll drops every running pulse.
func (p *KeyPins) ReleaseAll() {
	p.down = [core.ButtonCount]bool{}
}
