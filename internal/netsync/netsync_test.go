package netsync

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/radio"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// scriptedLink acknowledges writes according to a script and records calls.
type scriptedLink struct {
	results   []bool // consumed per write; false once exhausted
	writes    int
	powered   bool
	listening bool
	size      int
	rx        [][]byte
}

func (l *scriptedLink) Write(p []byte) bool {
	l.writes++
	if len(l.results) == 0 {
		return false
	}
	ok := l.results[0]
	l.results = l.results[1:]
	return ok
}

func (l *scriptedLink) Available() bool { return len(l.rx) > 0 }

func (l *scriptedLink) Read(p []byte) int {
	if len(l.rx) == 0 {
		return 0
	}
	n := copy(p, l.rx[0])
	l.rx = l.rx[1:]
	return n
}

func (l *scriptedLink) PayloadSize() int     { return l.size }
func (l *scriptedLink) SetPayloadSize(n int) { l.size = n }
func (l *scriptedLink) PowerUp()             { l.powered = true }
func (l *scriptedLink) PowerDown()           { l.powered = false; l.listening = false }
func (l *scriptedLink) StartListening()      { l.listening = true }
func (l *scriptedLink) StopListening()       { l.listening = false }
func (l *scriptedLink) Flush()               { l.rx = nil }

var _ radio.Link = (*scriptedLink)(nil)

func TestCodecRoundTrip(t *testing.T) {
	var c Codec
	in := Snapshot{BallX: 63.25, BallY: -4.5, BallVX: -2.07, BallVY: 1.57, PlatformX: 110, Score: 97}

	buf := c.Encode(in)
	if len(buf) != SnapshotSize || SnapshotSize != 34 {
		t.Fatalf("Encode() length = %d, expected 34", len(buf))
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])); got != in.BallX {
		t.Errorf("bytes 0..8 = %v, expected BallX %v", got, in.BallX)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])); got != in.BallVY {
		t.Errorf("bytes 24..32 = %v, expected BallVY %v", got, in.BallVY)
	}
	if buf[32] != 110 || buf[33] != 97 {
		t.Errorf("trailer = %v, expected [110 97]", buf[32:])
	}

	out, err := c.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if out != in {
		t.Errorf("Decode() = %+v, expected %+v", out, in)
	}
}

func TestCodecRejectsWrongSize(t *testing.T) {
	var c Codec
	for _, n := range []int{0, 4, 33, 35, 68} {
		if _, err := c.Decode(make([]byte, n)); !errors.Is(err, ErrPayloadSize) {
			t.Errorf("Decode(%d bytes) = %v, expected ErrPayloadSize", n, err)
		}
	}
}

func TestNewSnapshotTruncates(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		points    int
		wantX     uint8
		wantScore uint8
	}{
		{"in range", 56, 100, 56, 100},
		{"fractional", 56.9, 3, 56, 3},
		{"negative", -4, -1, 0, 0},
		{"too large", 300, 1000, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshot(tt.x, tt.points, 1, 2, 3, 4)
			if s.PlatformX != tt.wantX || s.Score != tt.wantScore {
				t.Errorf("NewSnapshot() = %d/%d, expected %d/%d", s.PlatformX, s.Score, tt.wantX, tt.wantScore)
			}
		})
	}
}

func TestMirror(t *testing.T) {
	field := Field{Width: 128, Height: 160}

	r := Mirror(Snapshot{BallX: 10, BallY: 20, BallVX: 1.5, BallVY: -2, PlatformX: 2, Score: 42}, field, 16)
	if r.PlatformX != 110 {
		t.Errorf("PlatformX = %v, expected 110", r.PlatformX)
	}
	if r.BallX != 118 || r.BallY != 140 || r.BallVX != -1.5 || r.BallVY != 2 {
		t.Errorf("ball = (%v, %v, %v, %v), expected (118, 140, -1.5, 2)", r.BallX, r.BallY, r.BallVX, r.BallVY)
	}
	if r.Score != 42 {
		t.Errorf("Score = %d, expected 42", r.Score)
	}

	// A centred platform stays centred
	if r := Mirror(Snapshot{PlatformX: 56}, field, 16); r.PlatformX != 56 {
		t.Errorf("centred PlatformX = %v, expected 56", r.PlatformX)
	}

	// Mirroring back restores the ball
	back := Mirror(Snapshot{BallX: r.BallX, BallY: r.BallY, BallVX: r.BallVX, BallVY: r.BallVY}, field, 16)
	if back.BallX != 10 || back.BallY != 20 || back.BallVX != 1.5 || back.BallVY != -2 {
		t.Errorf("double mirror = %+v, expected original ball", back)
	}
}

func TestRoleFromDevice(t *testing.T) {
	tests := []struct {
		id   uint8
		want Role
	}{
		{0, RoleHost},
		{1, RoleClient},
		{7, RoleClient},
	}
	for _, tt := range tests {
		if got := RoleFromDevice(tt.id); got != tt.want {
			t.Errorf("RoleFromDevice(%d) = %v, expected %v", tt.id, got, tt.want)
		}
	}
}

func TestHandshakePairs(t *testing.T) {
	hostLink, clientLink := radio.NewEther(radio.EtherOptions{}).Ends()
	host := NewHandshake(RoleHost, hostLink, 1000, testLogger())
	client := NewHandshake(RoleClient, clientLink, 1000, testLogger())

	// Client calls before the host is up
	if got := client.Step(0); got != HandshakeWaiting {
		t.Fatalf("client Step(0) = %v, expected waiting", got)
	}
	if client.Step(500) != HandshakeWaiting || client.Step(1000) != HandshakeWaiting {
		t.Fatal("client connected without a host")
	}
	if client.Attempts() != 1 {
		t.Errorf("Attempts() = %d within one interval, expected 1", client.Attempts())
	}
	client.Step(1001)
	if client.Attempts() != 2 {
		t.Errorf("Attempts() = %d after the interval, expected 2", client.Attempts())
	}

	if got := host.Step(1200); got != HandshakeWaiting {
		t.Fatalf("host Step() = %v, expected waiting", got)
	}

	client.Step(1500)
	if client.State() != HandshakeWaiting {
		t.Fatal("client retried before the interval elapsed")
	}
	if got := client.Step(2002); got != HandshakeConnected {
		t.Fatalf("client Step(2002) = %v, expected connected", got)
	}
	if got := host.Step(2003); got != HandshakeConnected {
		t.Fatalf("host Step() = %v, expected connected", got)
	}

	// Connected is final
	host.Cancel()
	if host.State() != HandshakeConnected {
		t.Errorf("Cancel() after connect changed state to %v", host.State())
	}
}

func TestHandshakeHostIgnoresZeroPayload(t *testing.T) {
	hostLink, peer := radio.NewEther(radio.EtherOptions{}).Ends()
	host := NewHandshake(RoleHost, hostLink, 1000, testLogger())
	host.Step(0)

	peer.PowerUp()
	if !peer.Write([]byte{0, 0, 0, 0}) {
		t.Fatal("Write() to listening host failed")
	}
	if got := host.Step(10); got != HandshakeWaiting {
		t.Errorf("host Step() on zero payload = %v, expected waiting", got)
	}

	peer.Write([]byte{0, 1, 0, 0})
	if got := host.Step(20); got != HandshakeConnected {
		t.Errorf("host Step() on nonzero payload = %v, expected connected", got)
	}
}

func TestHandshakeClientZeroClock(t *testing.T) {
	hostLink, clientLink := radio.NewEther(radio.EtherOptions{}).Ends()
	host := NewHandshake(RoleHost, hostLink, 1000, testLogger())
	client := NewHandshake(RoleClient, clientLink, 1000, testLogger())

	host.Step(0)
	client.Step(0)
	if got := host.Step(0); got != HandshakeConnected {
		t.Errorf("host Step() after a stamp taken at 0 = %v, expected connected", got)
	}
}

func TestHandshakeCancel(t *testing.T) {
	link := &scriptedLink{}
	h := NewHandshake(RoleClient, link, 1000, testLogger())
	h.Step(0)
	if !link.powered {
		t.Fatal("radio not powered during handshake")
	}

	h.Cancel()
	if link.powered {
		t.Error("radio still powered after Cancel()")
	}
	if got := h.Step(5000); got != HandshakeCancelled {
		t.Errorf("Step() after Cancel() = %v, expected cancelled", got)
	}
	if link.writes != 1 {
		t.Errorf("writes = %d, expected no writes after Cancel()", link.writes)
	}
}

func newTestSync(role Role, link radio.Link, symmetric bool) *Sync {
	cfg := config.DefaultGameConfig()
	cfg.Network.Symmetric = symmetric
	return NewSync(cfg, role, link, testLogger())
}

func TestSyncDisconnectsAfterExactlyTenFailures(t *testing.T) {
	link := &scriptedLink{powered: true}
	s := newTestSync(RoleHost, link, false)
	s.Start(0)

	transitions := 0
	now := core.Millis(0)
	for i := 1; i <= 15; i++ {
		now += 101
		res := s.Send(now, Snapshot{})
		switch {
		case i < 10:
			if res != SendFailed || s.Disconnected() {
				t.Fatalf("send %d = %v (disconnected %v), expected failed", i, res, s.Disconnected())
			}
		case i == 10:
			if res != SendDisconnected || !s.Disconnected() {
				t.Fatalf("send 10 = %v, expected disconnected", res)
			}
		default:
			if res != SendSkipped {
				t.Fatalf("send %d = %v, expected skipped", i, res)
			}
		}
		if res == SendDisconnected {
			transitions++
		}
	}

	if transitions != 1 {
		t.Errorf("disconnect transitions = %d, expected 1", transitions)
	}
	if link.writes != 10 {
		t.Errorf("writes = %d, expected 10", link.writes)
	}
	if link.powered {
		t.Error("radio still powered after disconnect")
	}
	if s.Due(now + 1000) {
		t.Error("Due() = true after disconnect")
	}
	if _, ok := s.Receive(now); ok {
		t.Error("Receive() = true after disconnect")
	}
}

func TestSyncSuccessResetsFailures(t *testing.T) {
	results := make([]bool, 0, 19)
	for i := 0; i < 9; i++ {
		results = append(results, false)
	}
	results = append(results, true)
	for i := 0; i < 9; i++ {
		results = append(results, false)
	}
	link := &scriptedLink{results: results}
	s := newTestSync(RoleHost, link, false)
	s.Start(0)

	for i := range results {
		s.Send(core.Millis(i*101), Snapshot{})
	}
	if s.Disconnected() {
		t.Error("Disconnected() = true, expected the success to reset the count")
	}
	if s.Failures() != 9 {
		t.Errorf("Failures() = %d, expected 9", s.Failures())
	}
	if !link.listening {
		t.Error("receiver not resumed after send")
	}
	if sent, failed, _, _ := s.Stats(); sent != 1 || failed != 18 {
		t.Errorf("Stats() = %d/%d, expected 1/18", sent, failed)
	}
}

func TestSyncDue(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		symmetric bool
		want      bool
	}{
		{"host", RoleHost, false, true},
		{"client", RoleClient, false, false},
		{"symmetric client", RoleClient, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSync(tt.role, &scriptedLink{}, tt.symmetric)
			s.Start(1000)
			if s.Due(1100) {
				t.Error("Due() at exactly one interval = true, expected false")
			}
			if got := s.Due(1101); got != tt.want {
				t.Errorf("Due() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestSyncPeerTransmits(t *testing.T) {
	tests := []struct {
		role      Role
		symmetric bool
		transmits bool
		peer      bool
	}{
		{RoleHost, false, true, false},
		{RoleClient, false, false, true},
		{RoleHost, true, true, true},
		{RoleClient, true, true, true},
	}

	for _, tt := range tests {
		s := newTestSync(tt.role, &scriptedLink{}, tt.symmetric)
		if got := s.Transmits(); got != tt.transmits {
			t.Errorf("%v symmetric=%v: Transmits() = %v, expected %v", tt.role, tt.symmetric, got, tt.transmits)
		}
		if got := s.PeerTransmits(); got != tt.peer {
			t.Errorf("%v symmetric=%v: PeerTransmits() = %v, expected %v", tt.role, tt.symmetric, got, tt.peer)
		}
	}
}

func TestSyncStartConfiguresLink(t *testing.T) {
	link := &scriptedLink{rx: [][]byte{{1, 2, 3, 4}}}
	s := newTestSync(RoleClient, link, false)
	s.Start(0)

	if link.size != SnapshotSize {
		t.Errorf("payload size = %d, expected %d", link.size, SnapshotSize)
	}
	if len(link.rx) != 0 {
		t.Error("stale handshake frame survived Start()")
	}
	if !link.listening {
		t.Error("receiver off after Start()")
	}
}

func TestSyncReceive(t *testing.T) {
	var c Codec
	link := &scriptedLink{powered: true}
	s := newTestSync(RoleClient, link, false)
	s.Start(0)

	send := func(vy float64, score uint8) {
		link.rx = append(link.rx, c.Encode(Snapshot{BallX: 10, BallY: 20, BallVX: 1, BallVY: vy, PlatformX: 2, Score: score}))
	}

	steps := []struct {
		vy          float64
		score       uint8
		wantApply   bool
		wantChanged bool
	}{
		{-1, 100, true, false}, // first snapshot always applies
		{-1, 100, false, false}, // mirrored, coming at us: dead-reckoned
		{1, 99, true, true},     // heading to the sender's platform
		{1, 99, true, false},
		{-1, 99, true, false}, // one more after it turns
		{-1, 98, false, true},
		{1, 98, true, false},
	}

	for i, st := range steps {
		send(st.vy, st.score)
		u, ok := s.Receive(core.Millis(i * 10))
		if !ok {
			t.Fatalf("step %d: Receive() = false", i)
		}
		if u.ApplyBall != st.wantApply {
			t.Errorf("step %d: ApplyBall = %v, expected %v", i, u.ApplyBall, st.wantApply)
		}
		if u.ScoreChanged != st.wantChanged {
			t.Errorf("step %d: ScoreChanged = %v, expected %v", i, u.ScoreChanged, st.wantChanged)
		}
		if u.PlatformX != 110 || u.Score != int(st.score) {
			t.Errorf("step %d: platform/score = %v/%d, expected 110/%d", i, u.PlatformX, u.Score, st.score)
		}
		if u.ApplyBall && (u.BallX != 118 || u.BallY != 140 || u.BallVX != -1 || u.BallVY != -st.vy) {
			t.Errorf("step %d: ball = %+v, expected mirrored", i, u)
		}
	}

	if _, ok := s.Receive(100); ok {
		t.Error("Receive() with nothing waiting = true")
	}
}

func TestSyncReceiveDropsWrongSize(t *testing.T) {
	link := &scriptedLink{}
	s := newTestSync(RoleClient, link, false)
	s.Start(0)

	link.rx = append(link.rx, []byte{1, 2, 3, 4}, make([]byte, SnapshotSize+1))
	for i := 0; i < 2; i++ {
		if _, ok := s.Receive(10); ok {
			t.Errorf("Receive() of malformed payload %d = true", i)
		}
	}
	if _, _, received, dropped := s.Stats(); received != 0 || dropped != 2 {
		t.Errorf("received/dropped = %d/%d, expected 0/2", received, dropped)
	}

	// The grace flag is untouched by dropped payloads
	var c Codec
	link.rx = append(link.rx, c.Encode(Snapshot{BallVY: -1}))
	if u, ok := s.Receive(20); !ok || !u.ApplyBall {
		t.Errorf("Receive() after drops = %+v/%v, expected ball applied", u, ok)
	}
}

func TestSyncReceivePullsSendForward(t *testing.T) {
	var c Codec
	link := &scriptedLink{}
	s := newTestSync(RoleClient, link, true)
	s.Start(0)

	link.rx = append(link.rx, c.Encode(Snapshot{}))
	s.Receive(200)
	if s.Due(250) {
		t.Error("Due() half an interval after receive = true, expected false")
	}
	if !s.Due(251) {
		t.Error("Due() past half an interval after receive = false, expected true")
	}
}

func TestSyncOverEther(t *testing.T) {
	hostLink, clientLink := radio.NewEther(radio.EtherOptions{}).Ends()
	hostLink.PowerUp()
	clientLink.PowerUp()

	host := newTestSync(RoleHost, hostLink, false)
	client := newTestSync(RoleClient, clientLink, false)
	host.Start(0)
	client.Start(0)

	if res := host.Send(101, NewSnapshot(56, 100, 63, 79, 0, 0.75)); res != SendOK {
		t.Fatalf("Send() = %v, expected ok", res)
	}
	u, ok := client.Receive(102)
	if !ok {
		t.Fatal("Receive() = false after acknowledged send")
	}
	if u.PlatformX != 56 || !u.ApplyBall || u.BallX != 65 || u.BallY != 81 || u.BallVY != -0.75 {
		t.Errorf("Receive() = %+v, expected mirrored centre serve", u)
	}

	client.Stop()
	for i := 0; i < 10; i++ {
		host.Send(core.Millis(200+i*101), Snapshot{})
	}
	if !host.Disconnected() {
		t.Error("host still connected after the client powered down")
	}
}
