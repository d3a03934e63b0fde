// Package game runs one paddle match: it reads the buttons, ticks the
// physics, exchanges snapshots with the other console and decides when the
// match is over. Controller.Step runs one loop iteration; the caller owns
// the loop.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/brickgame/internal/netsync"
)

// Mode selects who the opponent is.
type Mode int

const (
	ModeSingle   Mode = iota // scripted opponent
	ModeNetwork              // another console over the radio
	ModeTraining             // full-width wall instead of an opponent
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeNetwork:
		return "network"
	case ModeTraining:
		return "training"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-easy", "easy":
		return ModeSingle, nil
	case "network", "multi":
		return ModeNetwork, nil
	case "training":
		return ModeTraining, nil
	default:
		return 0, fmt.Errorf("game: unknown mode %q", s)
	}
}

// State is the controller's position in the match lifecycle.
type State int

const (
	StateSetup        State = iota
	StateHandshake          // waiting for the other console
	StatePlaying            // rally in progress
	StatePointScored        // rally continues with the score overlay shown
	StateEnded              // summary shown, waiting for acknowledgement
	StateDisconnected       // link lost, waiting for acknowledgement
	StateExited             // done
	StateCancelled          // pairing aborted before the match started
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateHandshake:
		return "handshake"
	case StatePlaying:
		return "playing"
	case StatePointScored:
		return "point-scored"
	case StateEnded:
		return "ended"
	case StateDisconnected:
		return "disconnected"
	case StateExited:
		return "exited"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Finished reports whether the controller will not change state again.
func (s State) Finished() bool {
	return s == StateExited || s == StateCancelled
}

// EndReason says why a match stopped.
type EndReason string

const (
	EndNone         EndReason = ""
	EndQuit         EndReason = "quit"
	EndMatchOver    EndReason = "match_over"
	EndDisconnected EndReason = "disconnected"
	EndCancelled    EndReason = "cancelled"
)

// Result summarises a match for the history.
type Result struct {
	Mode     Mode
	Role     netsync.Role
	Started  bool // false when pairing never completed
	Scored   int  // balls the opponent let through
	Conceded int  // balls this console let through
	Reason   EndReason
	Duration time.Duration
}
