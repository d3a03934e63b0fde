package physics

import (
	"github.com/vovakirdan/brickgame/internal/config"
)

// Resolution is what one collision pass did to the two platforms.
type Resolution struct {
	Local  Hit
	Remote Hit
}

// Contact reports whether the ball bounced off either platform.
func (r Resolution) Contact() bool {
	return r.Local.Contact() || r.Remote.Contact()
}

// Scored reports whether either platform conceded.
func (r Resolution) Scored() bool {
	return r.Local == HitConceded || r.Remote == HitConceded
}

// Engine owns the ball and both platforms.
type Engine struct {
	Ball   Ball
	Local  Platform // bottom edge, steered by this console
	Remote Platform // top edge, the opponent

	cfg *config.GameConfig
}

// NewEngine creates a centred setup with full points. The ball starts with
// the start velocity; call Serve before the first tick.
func NewEngine(cfg config.GameConfig) *Engine {
	c := &cfg
	return &Engine{
		Ball:   NewBall(c),
		Local:  NewPlatform(c, c.Field.Height-c.Platform.Thickness),
		Remote: NewPlatform(c, 0),
		cfg:    c,
	}
}

// Config returns the tuning the engine runs with.
func (e *Engine) Config() config.GameConfig {
	return *e.cfg
}

// SetupTraining stretches the remote platform across the whole field so
// every ball comes back.
func (e *Engine) SetupTraining() {
	e.Remote.X = 0
	e.Remote.Width = e.cfg.Field.Width
}

// serveSpeed is the vertical speed of a freshly served ball; the first
// platform contact doubles it.
func (e *Engine) serveSpeed() float64 {
	return e.cfg.Ball.StartVelY / 2
}

// ServeLocal resets the ball moving toward the local platform.
func (e *Engine) ServeLocal() {
	e.Ball.Reset(e.serveSpeed())
}

// ServeRemote resets the ball moving toward the remote platform.
func (e *Engine) ServeRemote() {
	e.Ball.Reset(-e.serveSpeed())
}

// Resolve checks the ball against the local platform and, when checkRemote
// is set, against the remote one. A conceding platform loses a point and
// the ball is served back toward it.
func (e *Engine) Resolve(checkRemote bool) Resolution {
	var res Resolution

	res.Local = e.Ball.Collide(e.Local)
	if res.Local == HitConceded {
		e.Local.Concede()
		e.ServeLocal()
	}

	if checkRemote {
		res.Remote = e.Ball.Collide(e.Remote)
		if res.Remote == HitConceded {
			e.Remote.Concede()
			e.ServeRemote()
		}
	}

	return res
}

// MatchOver reports whether either platform has run out of points.
func (e *Engine) MatchOver() bool {
	return e.Local.Points <= 0 || e.Remote.Points <= 0
}
