package radio

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Frame types on the wire. Every datagram is [type][seq][payload...].
const (
	frameData byte = 0x01
	frameAck  byte = 0x02

	frameHeader = 2
	maxDatagram = 512
)

// DefaultAckTimeout bounds how long Write waits for the peer's ack.
const DefaultAckTimeout = 15 * time.Millisecond

// UDPOptions configure a datagram link between two consoles.
type UDPOptions struct {
	Listen     string        // local address, e.g. ":7400"
	Peer       string        // peer address, e.g. "192.168.1.20:7400"
	AckTimeout time.Duration // zero means DefaultAckTimeout
	Logger     *log.Logger   // nil discards
}

// UDPLink emulates the acknowledged radio over UDP: the receiver acks every
// data frame it accepts into its FIFO, and Write succeeds only on that ack.
type UDPLink struct {
	conn       *net.UDPConn
	ackTimeout time.Duration
	logger     *log.Logger

	mu          sync.Mutex
	peer        *net.UDPAddr
	powered     bool
	listening   bool
	payloadSize int
	rx          fifo
	seq         byte

	acks      chan byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ Link = (*UDPLink)(nil)

// DialUDP binds the local address and starts the receive loop.
func DialUDP(opts UDPOptions) (*UDPLink, error) {
	laddr, err := net.ResolveUDPAddr("udp", opts.Listen)
	if err != nil {
		return nil, fmt.Errorf("radio: cannot resolve listen address %q: %w", opts.Listen, err)
	}
	peer, err := net.ResolveUDPAddr("udp", opts.Peer)
	if err != nil {
		return nil, fmt.Errorf("radio: cannot resolve peer address %q: %w", opts.Peer, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("radio: cannot listen on %s: %w", opts.Listen, err)
	}

	if opts.AckTimeout <= 0 {
		opts.AckTimeout = DefaultAckTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l := &UDPLink{
		conn:        conn,
		peer:        peer,
		ackTimeout:  opts.AckTimeout,
		logger:      logger,
		payloadSize: DefaultPayloadSize,
		acks:        make(chan byte, 8),
		done:        make(chan struct{}),
	}
	l.wg.Add(1)
	go l.readLoop()
	return l, nil
}

// LocalAddr returns the bound address.
func (l *UDPLink) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// SetPeer points the link at another address.
func (l *UDPLink) SetPeer(addr string) error {
	peer, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("radio: cannot resolve peer address %q: %w", addr, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.peer = peer
	return nil
}

func (l *UDPLink) readLoop() {
	defer l.wg.Done()
	buf := make([]byte, maxDatagram)

	for {
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-l.done:
				return
			default:
			}
			l.logger.Debug("udp read failed", "err", err)
			continue
		}
		if n < frameHeader {
			l.logger.Debug("short datagram", "from", addr, "bytes", n)
			continue
		}

		switch buf[0] {
		case frameData:
			if l.accept(buf[frameHeader:n]) {
				if _, err := l.conn.WriteToUDP([]byte{frameAck, buf[1]}, addr); err != nil {
					l.logger.Debug("ack failed", "to", addr, "err", err)
				}
			}
		case frameAck:
			select {
			case l.acks <- buf[1]:
			default:
			}
		default:
			l.logger.Debug("unknown frame", "from", addr, "type", buf[0])
		}
	}
}

func (l *UDPLink) accept(payload []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.powered || !l.listening {
		return false
	}
	l.rx.push(payload)
	return true
}

// Write sends one data frame and waits up to the ack timeout for its ack.
func (l *UDPLink) Write(p []byte) bool {
	l.mu.Lock()
	if !l.powered || len(p) == 0 || len(p) > maxDatagram-frameHeader {
		l.mu.Unlock()
		return false
	}
	l.seq++
	seq := l.seq
	peer := l.peer
	l.mu.Unlock()

	// Acks for earlier frames that arrived too late are stale now
	for drained := false; !drained; {
		select {
		case <-l.acks:
		default:
			drained = true
		}
	}

	frame := make([]byte, 0, frameHeader+len(p))
	frame = append(frame, frameData, seq)
	frame = append(frame, p...)
	if _, err := l.conn.WriteToUDP(frame, peer); err != nil {
		l.logger.Debug("udp write failed", "to", peer, "err", err)
		return false
	}

	timer := time.NewTimer(l.ackTimeout)
	defer timer.Stop()
	for {
		select {
		case got := <-l.acks:
			if got == seq {
				return true
			}
		case <-timer.C:
			return false
		case <-l.done:
			return false
		}
	}
}

// Available reports whether a frame is waiting.
func (l *UDPLink) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.powered && l.rx.len() > 0
}

// Read pops the oldest frame.
func (l *UDPLink) Read(p []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.powered {
		return 0
	}
	return l.rx.pop(p)
}

// PayloadSize returns the configured payload size.
func (l *UDPLink) PayloadSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payloadSize
}

// SetPayloadSize sets the payload size.
func (l *UDPLink) SetPayloadSize(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payloadSize = n
}

// PowerUp turns the link on.
func (l *UDPLink) PowerUp() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.powered = true
}

// PowerDown turns the link off and drops buffered frames.
func (l *UDPLink) PowerDown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.powered = false
	l.listening = false
	l.rx.reset()
}

// StartListening enables receive.
func (l *UDPLink) StartListening() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listening = true
}

// StopListening disables receive.
func (l *UDPLink) StopListening() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listening = false
}

// Flush drops buffered frames.
func (l *UDPLink) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rx.reset()
}

// Close stops the receive loop and releases the socket.
func (l *UDPLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.conn.Close()
		l.wg.Wait()
	})
	if err != nil {
		return fmt.Errorf("radio: cannot close link: %w", err)
	}
	return nil
}
