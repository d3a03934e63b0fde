package feedback

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
)

func TestGate(t *testing.T) {
	tests := []struct {
		name      string
		settings  config.Settings
		wantVibes int
		wantTones int
	}{
		{"all off", config.Settings{}, 0, 0},
		{"vibrations only", config.Settings{Vibrations: true}, 1, 0},
		{"sound only", config.Settings{Sound: true}, 0, 1},
		{"all on", config.Settings{Vibrations: true, Sound: true}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			g := NewGate(tt.settings, rec)
			g.Vibrate(20*time.Millisecond, 255)
			g.Tone(200, 50*time.Millisecond)

			if got := len(rec.Vibrations()); got != tt.wantVibes {
				t.Errorf("vibrations = %d, expected %d", got, tt.wantVibes)
			}
			if got := rec.Tones(); got != tt.wantTones {
				t.Errorf("tones = %d, expected %d", got, tt.wantTones)
			}
		})
	}
}

func TestPulse(t *testing.T) {
	clock := core.NewManualClock(1000)
	p := NewPulse(clock)

	if on, _ := p.Vibrating(); on {
		t.Fatal("Vibrating() = true before any request")
	}

	p.Vibrate(300*time.Millisecond, 200)
	clock.Advance(299)
	if on, level := p.Vibrating(); !on || level != 200 {
		t.Errorf("Vibrating() = %v/%d, expected true/200", on, level)
	}
	clock.Advance(1)
	if on, _ := p.Vibrating(); on {
		t.Error("Vibrating() = true after the duration")
	}

	p.Vibrate(Indefinite, 255)
	clock.Advance(1 << 20)
	if on, _ := p.Vibrating(); !on {
		t.Error("indefinite vibration stopped on its own")
	}
	p.Vibrate(0, 255)
	if on, _ := p.Vibrating(); on {
		t.Error("zero-length Vibrate() did not stop the motor")
	}

	p.Tone(200, 50*time.Millisecond)
	p.Tone(200, 50*time.Millisecond)
	if !p.Sounding() {
		t.Error("Sounding() = false right after Tone()")
	}
	clock.Advance(50)
	if p.Sounding() {
		t.Error("Sounding() = true after the duration")
	}
	if got := p.TakeRings(); got != 2 {
		t.Errorf("TakeRings() = %d, expected 2", got)
	}
	if got := p.TakeRings(); got != 0 {
		t.Errorf("second TakeRings() = %d, expected 0", got)
	}

	p.Vibrate(Indefinite, 255)
	p.Stop()
	if on, _ := p.Vibrating(); on {
		t.Error("Vibrating() = true after Stop()")
	}
}

func TestTeeAndLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	rec := &Recorder{}
	out := Tee{rec, LogSink{Logger: logger}, Nop{}}
	out.Vibrate(Indefinite, 255)
	out.Tone(200, 50*time.Millisecond)

	if len(rec.Calls) != 2 {
		t.Errorf("recorded %d calls, expected 2", len(rec.Calls))
	}
	logged := buf.String()
	if !strings.Contains(logged, "indefinite") || !strings.Contains(logged, "tone") {
		t.Errorf("log = %q, expected vibrate and tone entries", logged)
	}
}
