// Package physics simulates the ball and the two platforms on the handheld's
// portrait playfield. The local platform sits on the bottom edge and the
// remote one on the top edge; Y grows downward.
package physics

import (
	"math"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
)

// Hit is the outcome of checking the ball against one platform.
type Hit int

const (
	HitNone     Hit = iota // ball is not near the platform
	HitFlat                // ball span inside the platform span
	HitCorner              // ball span partly over the platform
	HitMiss                // ball passed beside the platform, still in the field
	HitConceded            // ball left the field past the platform
)

// String returns a human-readable name for the hit.
func (h Hit) String() string {
	switch h {
	case HitNone:
		return "None"
	case HitFlat:
		return "Flat"
	case HitCorner:
		return "Corner"
	case HitMiss:
		return "Miss"
	case HitConceded:
		return "Conceded"
	default:
		return "Unknown"
	}
}

// Contact reports whether the ball bounced off the platform.
func (h Hit) Contact() bool {
	return h == HitFlat || h == HitCorner
}

// Ball is the ball state. Speeds only grow during a rally; Reset is the
// only way to slow it down.
type Ball struct {
	X, Y   float64
	VX, VY float64

	cfg *config.GameConfig
}

// NewBall creates a ball at the field centre moving with the start velocity.
func NewBall(cfg *config.GameConfig) Ball {
	b := Ball{cfg: cfg}
	b.Reset(cfg.Ball.StartVelY)
	b.VX = cfg.Ball.StartVelX
	return b
}

// Set replaces position and velocity, keeping the ball's tuning.
func (b *Ball) Set(x, y, vx, vy float64) {
	b.X, b.Y, b.VX, b.VY = x, y, vx, vy
}

// Reset puts the ball back to the field centre with no horizontal speed and
// the given signed vertical speed.
func (b *Ball) Reset(vy float64) {
	r := b.cfg.Ball.Radius
	b.X = b.cfg.Field.Width/2 - r/2
	b.Y = b.cfg.Field.Height/2 - r/2
	b.VX = 0
	b.VY = vy
}

// Tick resolves wall contact, moves the ball one step and keeps it off the
// side walls. It reports whether a wall was hit.
func (b *Ball) Tick() bool {
	hit := b.wallCollision()

	b.X += b.VX
	b.Y += b.VY

	r, wall := b.cfg.Ball.Radius, b.cfg.Field.WallThickness
	b.X = core.ClampF(b.X, r+wall, b.cfg.Field.Width-r-wall)

	return hit
}

// wallCollision forces the horizontal velocity away from a touched side wall
// and speeds the ball up on both axes.
func (b *Ball) wallCollision() bool {
	r, wall := b.cfg.Ball.Radius, b.cfg.Field.WallThickness

	switch {
	case b.X-r <= wall+1:
		b.VX = math.Abs(b.VX)
	case b.X+r >= b.cfg.Field.Width-1-wall:
		b.VX = -math.Abs(b.VX)
	default:
		return false
	}

	b.speedUp(b.cfg.Ball.BounceIncrement)
	return true
}

func (b *Ball) speedUp(inc float64) {
	b.VX = core.WithMagnitude(b.VX, math.Abs(b.VX)+inc)
	b.VY = core.WithMagnitude(b.VY, math.Abs(b.VY)+inc)
}

// Collide checks the ball against p and applies any bounce.
//
// Only a ball within one diameter of the platform's surface is considered.
// A flat hit wins over a corner hit; a ball beside the platform is a miss
// until it crosses the far edge of the field, which concedes the point. A
// ball already past the band on the outside has crossed it too.
func (b *Ball) Collide(p Platform) Hit {
	r := b.cfg.Ball.Radius

	below := b.Y-2*r > p.Y+b.cfg.Platform.Thickness
	above := b.Y+2*r < p.Y
	if below || above {
		// a fast ball can step over the band entirely
		bottom := p.Y > b.cfg.Field.Height/2
		if (below && bottom) || (above && !bottom) {
			return HitConceded
		}
		return HitNone
	}

	if b.X-r >= p.X && b.X+r <= p.X+p.Width {
		b.bounce(p)
		return HitFlat
	}

	if b.X+r >= p.X && b.X-r <= p.X+p.Width {
		b.cornerTransfer(p)
		b.bounce(p)
		return HitCorner
	}

	if b.Y >= b.cfg.Field.Height-1 || b.Y <= 0 {
		return HitConceded
	}
	return HitMiss
}

// CheckPlatformCollision is Collide reduced to "no point conceded".
func (b *Ball) CheckPlatformCollision(p Platform) bool {
	return b.Collide(p) != HitConceded
}

// cornerTransfer moves a fixed amount of speed between the axes. On the
// leading half of the platform horizontal speed turns into vertical speed,
// on the trailing half the other way round. The donor axis must be at least
// the minimum speed.
func (b *Ball) cornerTransfer(p Platform) {
	amount := b.cfg.Platform.CornerTransfer
	minSpeed := b.cfg.Platform.CornerMinSpeed
	vx, vy := math.Abs(b.VX), math.Abs(b.VY)

	if b.X < p.X+p.Width/2 {
		if vx >= minSpeed {
			vx -= amount
			vy += amount
		}
	} else if vy >= minSpeed {
		vy -= amount
		vx += amount
	}

	b.VX = core.WithMagnitude(b.VX, vx)
	b.VY = core.WithMagnitude(b.VY, vy)
}

// bounce sends the ball back toward the other half of the field. A freshly
// served ball (no horizontal speed) is relaunched at full speed: sideways
// away from the half the platform is in, with its vertical speed doubled.
func (b *Ball) bounce(p Platform) {
	if b.Y > b.cfg.Field.Height/2 {
		b.VY = -math.Abs(b.VY)
	} else {
		b.VY = math.Abs(b.VY)
	}

	if b.VX != 0 {
		return
	}

	launch := b.cfg.Ball.StartVelX + b.cfg.Ball.RelaunchBonus
	centre := (b.cfg.Field.Width - 2*b.cfg.Field.WallThickness) / 2
	if p.X+p.Width/2 > centre {
		b.VX = -launch
	} else {
		b.VX = launch
	}
	b.VY *= 2
}
