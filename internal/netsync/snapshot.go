// Package netsync keeps two consoles' matches in step over a radio link:
// role assignment, the handshake, the snapshot wire format and the
// steady-state send/receive cycle with link-failure detection.
package netsync

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// SnapshotSize is the encoded size of a Snapshot in bytes.
const SnapshotSize = 4*8 + 1 + 1

// ErrPayloadSize is returned when a payload is not exactly SnapshotSize bytes.
var ErrPayloadSize = errors.New("netsync: payload size mismatch")

// Snapshot is the sender's half of the match, in the sender's own frame.
//
// Wire layout, little-endian, no header and no version byte:
//
//	offset  size  field
//	0       8     BallX      float64
//	8       8     BallY      float64
//	16      8     BallVX     float64
//	24      8     BallVY     float64
//	32      1     PlatformX  uint8
//	33      1     Score      uint8 (sender's remaining points)
//
// Both consoles must run the same build; a layout change is not detectable
// on the wire.
type Snapshot struct {
	BallX, BallY   float64
	BallVX, BallVY float64
	PlatformX      uint8
	Score          uint8
}

// Codec encodes and decodes snapshots.
type Codec struct{}

// Encode returns the wire form of s.
func (Codec) Encode(s Snapshot) []byte {
	buf := make([]byte, SnapshotSize)
	le := binary.LittleEndian
	le.PutUint64(buf[0:], math.Float64bits(s.BallX))
	le.PutUint64(buf[8:], math.Float64bits(s.BallY))
	le.PutUint64(buf[16:], math.Float64bits(s.BallVX))
	le.PutUint64(buf[24:], math.Float64bits(s.BallVY))
	buf[32] = s.PlatformX
	buf[33] = s.Score
	return buf
}

// Decode parses a payload. Anything but exactly SnapshotSize bytes is rejected.
func (Codec) Decode(p []byte) (Snapshot, error) {
	if len(p) != SnapshotSize {
		return Snapshot{}, fmt.Errorf("%w: got %d bytes, expected %d", ErrPayloadSize, len(p), SnapshotSize)
	}
	le := binary.LittleEndian
	return Snapshot{
		BallX:     math.Float64frombits(le.Uint64(p[0:])),
		BallY:     math.Float64frombits(le.Uint64(p[8:])),
		BallVX:    math.Float64frombits(le.Uint64(p[16:])),
		BallVY:    math.Float64frombits(le.Uint64(p[24:])),
		PlatformX: p[32],
		Score:     p[33],
	}, nil
}

// NewSnapshot builds a snapshot from the local platform and ball. The
// platform position and points are truncated to bytes.
func NewSnapshot(platformX float64, points int, ballX, ballY, ballVX, ballVY float64) Snapshot {
	return Snapshot{
		BallX:     ballX,
		BallY:     ballY,
		BallVX:    ballVX,
		BallVY:    ballVY,
		PlatformX: toByte(platformX),
		Score:     toByte(float64(points)),
	}
}

func toByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}
