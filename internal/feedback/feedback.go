// Package feedback routes vibration and tone requests from the game to
// whatever the console has: a motor and a buzzer on the handheld, a
// flashing border and the terminal bell on a desktop.
package feedback

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
)

// Indefinite vibrates until the next Vibrate call replaces it.
const Indefinite = time.Duration(math.MaxInt64)

// Haptics drives the vibration motor.
type Haptics interface {
	Vibrate(d time.Duration, intensity uint8)
}

// Tone drives the buzzer.
type Tone interface {
	Tone(freqHz int, d time.Duration)
}

// Output is a device with both.
type Output interface {
	Haptics
	Tone
}

// Nop ignores everything.
type Nop struct{}

func (Nop) Vibrate(time.Duration, uint8) {}
func (Nop) Tone(int, time.Duration)      {}

// Gate forwards to out only what the settings enable.
type Gate struct {
	settings config.Settings
	out      Output
}

// NewGate wraps out with the vibration and sound switches of s.
func NewGate(s config.Settings, out Output) *Gate {
	return &Gate{settings: s, out: out}
}

// Vibrate forwards when vibrations are enabled.
func (g *Gate) Vibrate(d time.Duration, intensity uint8) {
	if g.settings.Vibrations {
		g.out.Vibrate(d, intensity)
	}
}

// Tone forwards when sound is enabled.
func (g *Gate) Tone(freqHz int, d time.Duration) {
	if g.settings.Sound {
		g.out.Tone(freqHz, d)
	}
}

// Pulse remembers when the current vibration and tone end, so a renderer can
// show them. Thread-safe.
type Pulse struct {
	clock core.Clock

	mu        sync.Mutex
	vibrating bool
	forever   bool
	vibEnd    core.Millis
	intensity uint8
	toneEnd   core.Millis
	toneOn    bool
	rings     int
}

// NewPulse creates a quiet pulse on clock.
func NewPulse(clock core.Clock) *Pulse {
	return &Pulse{clock: clock}
}

// Vibrate starts a vibration, replacing any running one. A zero duration
// or intensity stops it.
func (p *Pulse) Vibrate(d time.Duration, intensity uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.vibrating = d > 0 && intensity > 0
	p.intensity = intensity
	p.forever = d == Indefinite
	if p.forever {
		return
	}
	p.vibEnd = p.clock.Now() + core.MillisOf(d)
}

// Tone starts a tone.
func (p *Pulse) Tone(_ int, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.toneOn = d > 0
	p.toneEnd = p.clock.Now() + core.MillisOf(d)
	p.rings++
}

// Vibrating reports whether a vibration is running and its intensity.
func (p *Pulse) Vibrating() (bool, uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.vibrating {
		return false, 0
	}
	if !p.forever && p.clock.Now().Reached(p.vibEnd) {
		p.vibrating = false
		return false, 0
	}
	return true, p.intensity
}

// Sounding reports whether a tone is playing.
func (p *Pulse) Sounding() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.toneOn && p.clock.Now().Reached(p.toneEnd) {
		p.toneOn = false
	}
	return p.toneOn
}

// TakeRings returns how many tones started since the last call.
func (p *Pulse) TakeRings() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.rings
	p.rings = 0
	return n
}

// Stop ends any vibration and tone.
func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vibrating = false
	p.toneOn = false
}

// LogSink writes every request to a logger at debug level.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Vibrate(d time.Duration, intensity uint8) {
	if d == Indefinite {
		s.Logger.Debug("vibrate", "duration", "indefinite", "intensity", intensity)
		return
	}
	s.Logger.Debug("vibrate", "duration", d, "intensity", intensity)
}

func (s LogSink) Tone(freqHz int, d time.Duration) {
	s.Logger.Debug("tone", "hz", freqHz, "duration", d)
}

// Tee sends every request to all outputs.
type Tee []Output

func (t Tee) Vibrate(d time.Duration, intensity uint8) {
	for _, o := range t {
		o.Vibrate(d, intensity)
	}
}

func (t Tee) Tone(freqHz int, d time.Duration) {
	for _, o := range t {
		o.Tone(freqHz, d)
	}
}

// Call is one recorded request.
type Call struct {
	Vibrate   bool // false for a tone
	Duration  time.Duration
	Intensity uint8
	FreqHz    int
}

// Recorder keeps every request, for replays and tests.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) Vibrate(d time.Duration, intensity uint8) {
	r.Calls = append(r.Calls, Call{Vibrate: true, Duration: d, Intensity: intensity})
}

func (r *Recorder) Tone(freqHz int, d time.Duration) {
	r.Calls = append(r.Calls, Call{Duration: d, FreqHz: freqHz})
}

// Vibrations returns the recorded vibration durations in order.
func (r *Recorder) Vibrations() []time.Duration {
	var out []time.Duration
	for _, c := range r.Calls {
		if c.Vibrate {
			out = append(out, c.Duration)
		}
	}
	return out
}

// Tones returns how many tones were recorded.
func (r *Recorder) Tones() int {
	n := 0
	for _, c := range r.Calls {
		if !c.Vibrate {
			n++
		}
	}
	return n
}
