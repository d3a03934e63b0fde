package input

import (
	"github.com/vovakirdan/brickgame/internal/core"
)

// PinReader samples the raw level of a button. True means pressed.
type PinReader interface {
	Pressed(b core.Button) bool
}

// PinFunc adapts a function to PinReader.
type PinFunc func(b core.Button) bool

// Pressed calls f(b).
func (f PinFunc) Pressed(b core.Button) bool { return f(b) }

// State owns the debounce channels of every button. It is built once and
// passed to whoever reads buttons; there is no package-level registry.
type State struct {
	pins     PinReader
	clock    core.Clock
	channels [core.ButtonCount]*Channel
}

// NewState creates the channels for all buttons.
func NewState(pins PinReader, clock core.Clock, timing Timing) *State {
	s := &State{pins: pins, clock: clock}
	for _, b := range core.Buttons() {
		s.channels[b] = NewChannel(timing)
	}
	return s
}

// Poll samples the button and returns its debounced event.
func (s *State) Poll(b core.Button) core.Event {
	if b < 0 || b >= core.ButtonCount {
		return core.EventNone
	}
	return s.channels[b].Poll(s.pins.Pressed(b), s.clock.Now())
}

// Clicked reports whether polling b yields a click.
func (s *State) Clicked(b core.Button) bool {
	return s.Poll(b) == core.EventClick
}

// Raw returns the unfiltered pin level, for continuous controls like
// platform steering.
func (s *State) Raw(b core.Button) bool {
	if b < 0 || b >= core.ButtonCount {
		return false
	}
	return s.pins.Pressed(b)
}
