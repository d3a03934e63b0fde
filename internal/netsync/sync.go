package netsync

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/radio"
)

// SendResult is the outcome of one Send call.
type SendResult int

const (
	SendSkipped      SendResult = iota // link already disconnected, nothing written
	SendOK                             // peer acknowledged
	SendFailed                         // not acknowledged, still connected
	SendDisconnected                   // this failure crossed the threshold
)

// String returns a human-readable name for the result.
func (r SendResult) String() string {
	switch r {
	case SendSkipped:
		return "skipped"
	case SendOK:
		return "ok"
	case SendFailed:
		return "failed"
	case SendDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Update is what a received snapshot changes locally, already mirrored into
// this console's frame.
type Update struct {
	PlatformX    float64
	Score        int
	ScoreChanged bool
	ApplyBall    bool
	BallX, BallY float64
	BallVX       float64
	BallVY       float64
}

// Sync runs the steady-state exchange of a networked match.
//
// The transmitting side sends its platform and ball every send interval and
// counts consecutive unacknowledged writes; at the threshold the link is
// declared lost, the radio is powered down and nothing is sent again.
// Received snapshots overwrite state last-writer-wins.
type Sync struct {
	role          Role
	link          radio.Link
	codec         Codec
	field         Field
	platformWidth float64
	interval      core.Millis
	maxFailures   int
	symmetric     bool
	logger        *log.Logger

	lastSend     core.Millis
	failures     int
	disconnected bool
	onceMore     bool
	remoteScore  int

	sent, failed, received, dropped int
}

// NewSync creates the exchange for a paired link.
func NewSync(cfg config.GameConfig, role Role, link radio.Link, logger *log.Logger) *Sync {
	return &Sync{
		role:          role,
		link:          link,
		field:         Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		platformWidth: cfg.Platform.Width,
		interval:      core.Millis(cfg.Network.SendIntervalMs), //nolint:gosec // validated positive
		maxFailures:   cfg.Network.MaxSendFailures,
		symmetric:     cfg.Network.Symmetric,
		logger:        logger,
		onceMore:      true,
		remoteScore:   cfg.Platform.MaxPoints,
	}
}

// Start prepares the link for snapshots: fixed payload size, empty queues,
// receiver on.
func (s *Sync) Start(now core.Millis) {
	s.link.SetPayloadSize(SnapshotSize)
	s.link.Flush()
	s.link.StartListening()
	s.lastSend = now
	s.logger.Debug("sync started", "role", s.role, "symmetric", s.symmetric)
}

// Transmits reports whether this console sends snapshots at all.
func (s *Sync) Transmits() bool {
	return s.role == RoleHost || s.symmetric
}

// PeerTransmits reports whether the other console sends snapshots.
func (s *Sync) PeerTransmits() bool {
	return s.role == RoleClient || s.symmetric
}

// Due reports whether a send should happen now.
func (s *Sync) Due(now core.Millis) bool {
	return !s.disconnected && s.Transmits() && now.Since(s.lastSend) > s.interval
}

// Send writes one snapshot.
func (s *Sync) Send(now core.Millis, snap Snapshot) SendResult {
	if s.disconnected {
		return SendSkipped
	}

	s.link.StopListening()
	ok := s.link.Write(s.codec.Encode(snap))
	if ok {
		s.failures = 0
		s.sent++
	} else {
		s.failures++
		s.failed++
		s.logger.Debug("snapshot not acknowledged", "failures", s.failures)
	}

	if s.failures >= s.maxFailures {
		s.disconnected = true
		s.link.PowerDown()
		s.logger.Warn("link lost", "failures", s.failures, "sent", s.sent)
		return SendDisconnected
	}

	s.link.StartListening()
	s.lastSend = now
	if ok {
		return SendOK
	}
	return SendFailed
}

// Receive drains one waiting snapshot, if any.
//
// The ball is taken from the peer while the peer's ball heads toward the
// peer's own platform, where the peer is authoritative, and once more on the
// first snapshot after it turns back. Mirrored into this frame that is a ball
// moving away from the local platform; the local side dead-reckons the ball
// coming toward it. Receiving also pulls the next send
// forward by half an interval so the two consoles interleave.
func (s *Sync) Receive(now core.Millis) (Update, bool) {
	if s.disconnected || !s.link.Available() {
		return Update{}, false
	}

	buf := make([]byte, 2*SnapshotSize)
	n := s.link.Read(buf)
	snap, err := s.codec.Decode(buf[:n])
	if err != nil {
		s.dropped++
		s.logger.Debug("dropped payload", "err", err)
		return Update{}, false
	}
	s.received++

	r := Mirror(snap, s.field, s.platformWidth)
	u := Update{
		PlatformX: r.PlatformX,
		Score:     r.Score,
	}
	if r.Score != s.remoteScore {
		s.remoteScore = r.Score
		u.ScoreChanged = true
	}

	if snap.BallVY > 0 || s.onceMore {
		s.onceMore = snap.BallVY > 0
		u.ApplyBall = true
		u.BallX, u.BallY = r.BallX, r.BallY
		u.BallVX, u.BallVY = r.BallVX, r.BallVY
	}

	s.lastSend = now - s.interval/2
	return u, true
}

// Disconnected reports whether the link has been declared lost.
func (s *Sync) Disconnected() bool {
	return s.disconnected
}

// Failures returns the current run of unacknowledged sends.
func (s *Sync) Failures() int {
	return s.failures
}

// Stats returns counters for the session log.
func (s *Sync) Stats() (sent, failed, received, dropped int) {
	return s.sent, s.failed, s.received, s.dropped
}

// Stop powers the radio down at the end of a match.
func (s *Sync) Stop() {
	s.link.PowerDown()
}
