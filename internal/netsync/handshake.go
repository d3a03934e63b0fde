package netsync

import (
	"encoding/binary"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/radio"
)

// HandshakeState is the progress of pairing two consoles.
type HandshakeState int

const (
	HandshakeIdle HandshakeState = iota
	HandshakeWaiting
	HandshakeConnected
	HandshakeCancelled
)

// String returns a human-readable name for the state.
func (s HandshakeState) String() string {
	switch s {
	case HandshakeIdle:
		return "idle"
	case HandshakeWaiting:
		return "waiting"
	case HandshakeConnected:
		return "connected"
	case HandshakeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handshake pairs two consoles. The host listens until any nonzero payload
// arrives; the client sends its clock every interval until a write is
// acknowledged. Step is called once per loop iteration.
type Handshake struct {
	role     Role
	link     radio.Link
	interval core.Millis
	logger   *log.Logger

	state    HandshakeState
	lastSent core.Millis
	sentOnce bool
	attempts int
}

// NewHandshake creates an idle handshake.
func NewHandshake(role Role, link radio.Link, interval core.Millis, logger *log.Logger) *Handshake {
	return &Handshake{
		role:     role,
		link:     link,
		interval: interval,
		logger:   logger,
	}
}

// State returns the current state.
func (h *Handshake) State() HandshakeState {
	return h.state
}

// Attempts returns how many pairing writes the client has made.
func (h *Handshake) Attempts() int {
	return h.attempts
}

// Step advances the handshake and returns the new state.
func (h *Handshake) Step(now core.Millis) HandshakeState {
	switch h.state {
	case HandshakeIdle:
		h.start()
	case HandshakeConnected, HandshakeCancelled:
		return h.state
	}

	if h.role == RoleHost {
		h.listen()
	} else {
		h.call(now)
	}
	return h.state
}

func (h *Handshake) start() {
	h.link.PowerUp()
	if h.role == RoleHost {
		h.link.StartListening()
	} else {
		h.link.StopListening()
	}
	h.state = HandshakeWaiting
	h.logger.Info("waiting for other console", "role", h.role)
}

func (h *Handshake) listen() {
	if !h.link.Available() {
		return
	}
	buf := make([]byte, max(h.link.PayloadSize(), radio.DefaultPayloadSize))
	n := h.link.Read(buf)
	for _, b := range buf[:n] {
		if b != 0 {
			h.state = HandshakeConnected
			h.logger.Info("console joined")
			return
		}
	}
	h.logger.Debug("ignored empty pairing payload", "bytes", n)
}

func (h *Handshake) call(now core.Millis) {
	if h.sentOnce && now.Since(h.lastSent) <= h.interval {
		return
	}
	h.sentOnce = true
	h.lastSent = now
	h.attempts++

	// The host ignores all-zero payloads, so never send a zero stamp.
	stamp := uint32(now)
	if stamp == 0 {
		stamp = 1
	}
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, stamp)

	if h.link.Write(payload) {
		h.state = HandshakeConnected
		h.logger.Info("joined host", "attempts", h.attempts)
		return
	}
	h.logger.Debug("host not answering", "attempts", h.attempts)
}

// Cancel aborts pairing and powers the radio down.
func (h *Handshake) Cancel() {
	if h.state == HandshakeConnected {
		return
	}
	h.link.PowerDown()
	h.state = HandshakeCancelled
	h.logger.Info("pairing cancelled")
}
