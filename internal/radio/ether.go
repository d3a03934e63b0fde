package radio

import (
	"math/rand"
	"sync"
)

// EtherOptions configure an in-process medium.
type EtherOptions struct {
	Loss float64 // probability in [0,1) that a frame is lost in the air
	Seed int64   // RNG seed for losses
}

// Ether is an in-process medium joining exactly two endpoints. Endpoints may
// be driven from different goroutines.
type Ether struct {
	mu   sync.Mutex
	opts EtherOptions
	rng  *rand.Rand
	ends [2]*Endpoint
}

// NewEther creates a medium with two idle endpoints.
func NewEther(opts EtherOptions) *Ether {
	e := &Ether{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)), //nolint:gosec // loss simulation
	}
	for i := range e.ends {
		e.ends[i] = &Endpoint{ether: e, index: i, payloadSize: DefaultPayloadSize}
	}
	return e
}

// Ends returns both endpoints.
func (e *Ether) Ends() (*Endpoint, *Endpoint) {
	return e.ends[0], e.ends[1]
}

// Endpoint is one console's view of an Ether. It implements Link.
type Endpoint struct {
	ether       *Ether
	index       int
	powered     bool
	listening   bool
	payloadSize int
	rx          fifo
	sent        int
	failed      int
}

var _ Link = (*Endpoint)(nil)

// Slot returns the endpoint's index on its medium, 0 or 1. Sessions sharing
// an Air channel use it as their device identity.
func (p *Endpoint) Slot() int {
	return p.index
}

func (p *Endpoint) peer() *Endpoint {
	return p.ether.ends[1-p.index]
}

// Write delivers p to the peer if both radios are up, the peer listens and
// the frame survives the configured loss.
func (p *Endpoint) Write(data []byte) bool {
	e := p.ether
	e.mu.Lock()
	defer e.mu.Unlock()

	ok := p.deliver(data)
	if ok {
		p.sent++
	} else {
		p.failed++
	}
	return ok
}

func (p *Endpoint) deliver(data []byte) bool {
	if !p.powered || len(data) == 0 {
		return false
	}
	peer := p.peer()
	if !peer.powered || !peer.listening {
		return false
	}
	if p.ether.opts.Loss > 0 && p.ether.rng.Float64() < p.ether.opts.Loss {
		return false
	}
	peer.rx.push(data)
	return true
}

// Available reports whether a frame is waiting.
func (p *Endpoint) Available() bool {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	return p.powered && p.rx.len() > 0
}

// Read pops the oldest frame.
func (p *Endpoint) Read(buf []byte) int {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	if !p.powered {
		return 0
	}
	return p.rx.pop(buf)
}

// PayloadSize returns the configured payload size.
func (p *Endpoint) PayloadSize() int {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	return p.payloadSize
}

// SetPayloadSize sets the payload size.
func (p *Endpoint) SetPayloadSize(n int) {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.payloadSize = n
}

// PowerUp turns the radio on.
func (p *Endpoint) PowerUp() {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.powered = true
}

// PowerDown turns the radio off and loses anything buffered.
func (p *Endpoint) PowerDown() {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.powered = false
	p.listening = false
	p.rx.reset()
}

// StartListening enables receive.
func (p *Endpoint) StartListening() {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.listening = true
}

// StopListening disables receive; buffered frames stay readable.
func (p *Endpoint) StopListening() {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.listening = false
}

// Flush drops buffered frames.
func (p *Endpoint) Flush() {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	p.rx.reset()
}

// Stats returns how many writes were acknowledged and how many failed.
func (p *Endpoint) Stats() (sent, failed int) {
	p.ether.mu.Lock()
	defer p.ether.mu.Unlock()
	return p.sent, p.failed
}
