// Package radio provides the packet links two consoles talk over.
//
// A Link behaves like a small packet transceiver with hardware acknowledgement:
// Write reports whether the peer received the frame, received frames wait in
// a three-slot FIFO, and a powered-down radio neither sends nor receives.
// Calls are bounded in time and never block indefinitely.
package radio

import "errors"

const (
	// DefaultPayloadSize is the payload size a fresh link is configured with.
	DefaultPayloadSize = 32

	// FIFODepth is the number of received frames a link buffers.
	FIFODepth = 3
)

var (
	// ErrChannelBusy is returned when two consoles already share a channel.
	ErrChannelBusy = errors.New("radio: channel busy")

	// ErrClosed is returned by operations on a closed link.
	ErrClosed = errors.New("radio: link closed")
)

// Link is the transceiver used by the handshake and the match sync.
type Link interface {
	// Write sends one frame and reports whether the peer acknowledged it.
	Write(p []byte) bool

	// Available reports whether a received frame is waiting.
	Available() bool

	// Read pops the oldest received frame into p and returns the number of
	// bytes copied. It returns 0 when nothing is waiting.
	Read(p []byte) int

	PayloadSize() int
	SetPayloadSize(n int)

	PowerUp()
	PowerDown()
	StartListening()
	StopListening()

	// Flush drops everything queued for receive.
	Flush()
}

// fifo is a bounded frame queue. When full, the oldest frame is dropped so
// the newest state always gets through.
type fifo struct {
	frames [][]byte
}

func (f *fifo) push(p []byte) {
	frame := make([]byte, len(p))
	copy(frame, p)
	if len(f.frames) >= FIFODepth {
		f.frames = f.frames[1:]
	}
	f.frames = append(f.frames, frame)
}

func (f *fifo) pop(p []byte) int {
	if len(f.frames) == 0 {
		return 0
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return copy(p, frame)
}

func (f *fifo) len() int {
	return len(f.frames)
}

func (f *fifo) reset() {
	f.frames = nil
}
