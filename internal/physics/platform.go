package physics

import (
	"math"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
)

// Platform is a paddle on the top or bottom edge. Points count down from
// the maximum; each conceded ball costs one.
type Platform struct {
	X, Y   float64
	Width  float64
	Points int

	cfg *config.GameConfig
}

// NewPlatform creates a centred platform at row y with full points.
func NewPlatform(cfg *config.GameConfig, y float64) Platform {
	return Platform{
		X:      cfg.Field.Width/2 - cfg.Platform.Width/2,
		Y:      y,
		Width:  cfg.Platform.Width,
		Points: cfg.Platform.MaxPoints,
		cfg:    cfg,
	}
}

// minX and maxX keep the platform clear of both side walls.
func (p *Platform) minX() float64 {
	return p.cfg.Field.WallThickness + 1
}

func (p *Platform) maxX() float64 {
	return math.Max(p.minX(), p.cfg.Field.Width-p.cfg.Field.WallThickness-1-p.Width)
}

// Steer moves the platform one step from the raw direction controls. Left
// wins when both are held. It reports whether the platform moved.
func (p *Platform) Steer(left, right bool) bool {
	var dx float64
	switch {
	case left:
		dx = -p.cfg.Platform.Step
	case right:
		dx = p.cfg.Platform.Step
	default:
		return false
	}
	return p.moveTo(p.X + dx)
}

// Track steps the scripted opponent toward the ball while the ball is
// coming at it. The platform's left edge chases the ball with a small dead
// zone, so it tends to meet the ball on its leading half.
func (p *Platform) Track(b Ball) bool {
	if b.VY >= 0 {
		return false
	}

	movement := math.Trunc(b.X - p.X)
	dz, step := p.cfg.Opponent.DeadZone, p.cfg.Opponent.Step
	switch {
	case movement > dz:
		return p.moveTo(p.X + step)
	case movement < dz:
		return p.moveTo(p.X - step)
	}
	return false
}

// SetX places the platform, clamped to the walls.
func (p *Platform) SetX(x float64) {
	p.moveTo(x)
}

func (p *Platform) moveTo(x float64) bool {
	x = core.ClampF(x, p.minX(), p.maxX())
	if x == p.X {
		return false
	}
	p.X = x
	return true
}

// Concede takes one point; it never drops below zero.
func (p *Platform) Concede() {
	if p.Points > 0 {
		p.Points--
	}
}

// Conceded returns how many balls the platform has let through.
func (p *Platform) Conceded() int {
	return p.cfg.Platform.MaxPoints - p.Points
}
