package netsync

// Field is the playfield size both consoles share.
type Field struct {
	Width, Height float64
}

// Remote is a received snapshot expressed in the receiver's frame.
type Remote struct {
	PlatformX      float64
	Score          int
	BallX, BallY   float64
	BallVX, BallVY float64
}

// Mirror turns the sender's snapshot into the receiver's frame. The two
// consoles face each other, so the field is rotated half a turn: positions
// are reflected on both axes and velocities negated. The platform is
// reflected by its far edge so it keeps covering the same span.
func Mirror(s Snapshot, field Field, platformWidth float64) Remote {
	return Remote{
		PlatformX: field.Width - float64(s.PlatformX) - platformWidth,
		Score:     int(s.Score),
		BallX:     field.Width - s.BallX,
		BallY:     field.Height - s.BallY,
		BallVX:    -s.BallVX,
		BallVY:    -s.BallVY,
	}
}
