package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/feedback"
	"github.com/vovakirdan/brickgame/internal/input"
	"github.com/vovakirdan/brickgame/internal/netsync"
	"github.com/vovakirdan/brickgame/internal/physics"
	"github.com/vovakirdan/brickgame/internal/radio"
)

// ErrNoLink is returned when a network match is requested without a radio.
var ErrNoLink = errors.New("game: network mode needs a radio link")

// Options wire a controller to its collaborators.
type Options struct {
	Config   config.GameConfig
	Settings config.Settings
	Mode     Mode
	Input    *input.State
	Clock    core.Clock
	Display  Display
	Feedback feedback.Output // nil for none; gated by Settings
	Link     radio.Link      // required for ModeNetwork
	Logger   *log.Logger     // nil discards
}

// Controller drives one match from setup to exit.
type Controller struct {
	cfg      config.GameConfig
	mode     Mode
	role     netsync.Role
	deviceID uint8
	in       *input.State
	clock    core.Clock
	fb       feedback.Output
	link     radio.Link
	draw     renderer
	logger   *log.Logger

	state  State
	hs     *netsync.Handshake
	m      *match
	result Result
}

// match is the state of a running match.
type match struct {
	cfg    *config.GameConfig
	engine *physics.Engine
	sync   *netsync.Sync

	ticked     bool
	lastTick   core.Millis
	pointsAt   core.Millis
	startedAt  core.Millis
	tickEvery  core.Millis
	showPoints core.Millis
}

// New creates a controller in StateSetup.
func New(opts Options) (*Controller, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if opts.Input == nil || opts.Clock == nil || opts.Display == nil {
		return nil, errors.New("game: input, clock and display are required")
	}
	if opts.Mode == ModeNetwork && opts.Link == nil {
		return nil, ErrNoLink
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := opts.Feedback
	if out == nil {
		out = feedback.Nop{}
	}

	c := &Controller{
		cfg:      opts.Config,
		mode:     opts.Mode,
		role:     netsync.RoleFromDevice(opts.Settings.DeviceID),
		deviceID: opts.Settings.DeviceID,
		in:       opts.Input,
		clock:    opts.Clock,
		fb:       feedback.NewGate(opts.Settings, out),
		link:     opts.Link,
		logger:   logger,
		state:    StateSetup,
	}
	c.draw = newRenderer(opts.Display, c.cfg.Field.Width, c.cfg.Field.Height, c.cfg.Field.WallThickness)
	c.result = Result{Mode: c.mode, Role: c.role}
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the match mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Role returns this console's network role.
func (c *Controller) Role() netsync.Role {
	return c.role
}

// Result returns the match summary. It is complete once the state is
// StateEnded, StateDisconnected, StateExited or StateCancelled.
func (c *Controller) Result() Result {
	return c.result
}

// Engine returns the running simulation, or nil before the match starts.
func (c *Controller) Engine() *physics.Engine {
	if c.m == nil {
		return nil
	}
	return c.m.engine
}

// Step runs one loop iteration and returns the resulting state.
func (c *Controller) Step() State {
	now := c.clock.Now()

	switch c.state {
	case StateSetup:
		c.setup(now)
	case StateHandshake:
		c.handshake(now)
	case StatePlaying, StatePointScored:
		c.play(now)
	case StateEnded:
		esc := c.in.Poll(core.ButtonEsc) == core.EventClick
		left := c.in.Poll(core.ButtonLeft) == core.EventClick
		if esc || left {
			c.exit()
		}
	case StateDisconnected:
		if c.in.Poll(core.ButtonEsc) == core.EventClick {
			c.exit()
		}
	}

	return c.state
}

func (c *Controller) setup(now core.Millis) {
	if c.mode != ModeNetwork {
		c.startMatch(now)
		return
	}

	interval := core.Millis(c.cfg.Network.HandshakeIntervalMs) //nolint:gosec // config values are small
	c.hs = netsync.NewHandshake(c.role, c.link, interval, c.logger)
	c.draw.waiting(c.deviceID)
	c.state = StateHandshake
	c.handshake(now)
}

func (c *Controller) handshake(now core.Millis) {
	if c.hs.Step(now) == netsync.HandshakeConnected {
		c.startMatch(now)
		return
	}

	esc := c.in.Poll(core.ButtonEsc) == core.EventClick
	left := c.in.Poll(core.ButtonLeft) == core.EventClick
	if esc || left {
		c.hs.Cancel()
		c.state = StateCancelled
		c.result.Reason = EndCancelled
	}
}

func (c *Controller) startMatch(now core.Millis) {
	m := &match{
		cfg:        &c.cfg,
		engine:     physics.NewEngine(c.cfg),
		startedAt:  now,
		tickEvery:  core.Millis(c.cfg.Timing.TickMs),       //nolint:gosec // validated positive
		showPoints: core.Millis(c.cfg.Timing.ShowPointsMs), //nolint:gosec // validated positive
	}

	switch c.mode {
	case ModeTraining:
		m.engine.SetupTraining()
		m.engine.ServeLocal()
	case ModeNetwork:
		if c.role == netsync.RoleClient {
			m.engine.ServeRemote()
		} else {
			m.engine.ServeLocal()
		}
		m.sync = netsync.NewSync(c.cfg, c.role, c.link, c.logger)
		m.sync.Start(now)
	default:
		m.engine.ServeLocal()
	}

	c.m = m
	c.state = StatePlaying
	c.result.Started = true
	c.draw.frame(m, false)
	c.logger.Info("match started", "mode", c.mode, "role", c.role)
}

func (c *Controller) play(now core.Millis) {
	m := c.m

	if !m.ticked || now.Since(m.lastTick) > m.tickEvery {
		m.ticked = true
		m.lastTick = now
		c.tick(now)
		if c.state == StateDisconnected {
			return
		}
	}

	if m.sync != nil {
		if u, ok := m.sync.Receive(now); ok {
			c.apply(u, now)
		}
	}

	if c.in.Poll(core.ButtonEsc) == core.EventClick {
		c.end(now, EndQuit)
		return
	}
	if m.engine.MatchOver() {
		c.end(now, EndMatchOver)
	}
}

// tick is one fast physics step: overlay timeout, collisions, ball, local
// steering, opponent, frame, and the rate-limited send.
func (c *Controller) tick(now core.Millis) {
	m := c.m
	e := m.engine

	if c.state == StatePointScored && now.Since(m.pointsAt) >= m.showPoints {
		c.state = StatePlaying
	}

	// without a two-way exchange neither side hears about the other's edge
	checkRemote := c.mode != ModeNetwork || !m.sync.Transmits() || !m.sync.PeerTransmits()
	res := e.Resolve(checkRemote)
	for _, hit := range []physics.Hit{res.Local, res.Remote} {
		if hit == physics.HitConceded {
			c.showPoints(now)
			c.vibrate(c.cfg.Feedback.PointVibrateMs)
		}
	}
	if res.Scored() {
		c.logger.Debug("point", "score", scoreLine(m))
	}
	if res.Contact() {
		c.bump()
	}

	if e.Ball.Tick() {
		c.bump()
	}

	e.Local.Steer(c.in.Raw(core.ButtonLeft), c.in.Raw(core.ButtonRight))
	if c.mode == ModeSingle {
		e.Remote.Track(e.Ball)
	}

	c.draw.frame(m, c.state == StatePointScored)

	if m.sync != nil && m.sync.Due(now) {
		snap := netsync.NewSnapshot(e.Local.X, e.Local.Points, e.Ball.X, e.Ball.Y, e.Ball.VX, e.Ball.VY)
		if m.sync.Send(now, snap) == netsync.SendDisconnected {
			c.disconnect(now)
		}
	}
}

// apply takes a received snapshot into the local simulation.
func (c *Controller) apply(u netsync.Update, now core.Millis) {
	e := c.m.engine
	e.Remote.X = u.PlatformX
	e.Remote.Points = u.Score
	if u.ScoreChanged {
		c.showPoints(now)
	}
	if u.ApplyBall {
		e.Ball.Set(u.BallX, u.BallY, u.BallVX, u.BallVY)
	}
}

func (c *Controller) showPoints(now core.Millis) {
	c.state = StatePointScored
	c.m.pointsAt = now
}

// bump is the short buzz and click of the ball touching a wall or platform.
func (c *Controller) bump() {
	c.vibrate(c.cfg.Feedback.WallVibrateMs)
	c.fb.Tone(c.cfg.Feedback.WallToneHz, config.Ms(c.cfg.Feedback.WallToneMs))
}

func (c *Controller) vibrate(ms int) {
	c.fb.Vibrate(config.Ms(ms), c.cfg.Feedback.Intensity)
}

func (c *Controller) end(now core.Millis, reason EndReason) {
	c.vibrate(c.cfg.Feedback.DisconnectVibrateMs)
	if c.m.sync != nil {
		c.m.sync.Stop()
	}

	title := "Game ended"
	if reason == EndMatchOver {
		title = "Match over"
	}
	c.draw.summary(title, c.m)
	c.finish(now, reason)
	c.state = StateEnded
}

func (c *Controller) disconnect(now core.Millis) {
	c.vibrate(c.cfg.Feedback.DisconnectVibrateMs)
	c.draw.summary("Disconnected", c.m)
	c.finish(now, EndDisconnected)
	c.state = StateDisconnected
}

func (c *Controller) finish(now core.Millis, reason EndReason) {
	m := c.m
	c.result.Reason = reason
	c.result.Scored = m.engine.Remote.Conceded()
	c.result.Conceded = m.engine.Local.Conceded()
	c.result.Duration = now.Since(m.startedAt).Duration()

	fields := []any{"reason", reason, "score", scoreLine(m), "duration", c.result.Duration}
	if m.sync != nil {
		sent, failed, received, dropped := m.sync.Stats()
		fields = append(fields, "sent", sent, "failed", failed, "received", received, "dropped", dropped)
	}
	if reason == EndDisconnected {
		c.logger.Warn("match ended", fields...)
		return
	}
	c.logger.Info("match ended", fields...)
}

func (c *Controller) exit() {
	c.fb.Vibrate(0, 0)
	c.state = StateExited
}
