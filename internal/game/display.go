package game

import (
	"fmt"

	"github.com/vovakirdan/brickgame/internal/core"
)

// Display is the screen the game draws on, in field pixels.
type Display interface {
	FillScreen(c core.Color)
	FillRect(x, y, w, h int, c core.Color)
	DrawRect(x, y, w, h int, c core.Color)
	DrawCircle(x, y, r int, c core.Color)
	DrawVLine(x, y, h int, c core.Color)
	Text(x, y int, s string, c core.Color)
}

// Glyph size of the display font in pixels, including spacing.
const (
	GlyphWidth  = 6
	GlyphHeight = 8
)

// Layout of the text screens.
const (
	overlayY     = 75
	titleX       = 10
	titleY       = 10
	summaryY     = 55
	summaryX     = 20
	waitingY     = 20
	waitingLineH = GlyphHeight + 1
)

// renderer draws match frames and text screens.
type renderer struct {
	d      Display
	width  int
	height int
	wall   int
}

func newRenderer(d Display, width, height, wall float64) renderer {
	return renderer{d: d, width: int(width), height: int(height), wall: int(wall)}
}

func (r renderer) centered(s string, y int, c core.Color) {
	x := r.width/2 - GlyphWidth*len(s)/2
	r.d.Text(max(x, 0), y, s, c)
}

func (r renderer) field() {
	r.d.DrawVLine(0, 0, r.height, core.ColorWhite)
	r.d.DrawVLine(r.width-1, 0, r.height, core.ColorWhite)
}

// frame redraws the whole field.
func (r renderer) frame(m *match, overlay bool) {
	r.d.FillScreen(core.ColorBlack)
	r.field()

	p := m.engine.Local
	thick := int(m.cfg.Platform.Thickness)
	r.d.FillRect(int(p.X), int(p.Y), int(p.Width), thick, core.ColorWhite)
	p = m.engine.Remote
	r.d.FillRect(int(p.X), int(p.Y), int(p.Width), thick, core.ColorWhite)

	b := m.engine.Ball
	r.d.DrawCircle(int(b.X), int(b.Y), int(m.cfg.Ball.Radius), core.ColorWhite)

	if overlay {
		r.points(m)
	}
}

// points draws the score line in the middle of the field.
func (r renderer) points(m *match) {
	r.d.FillRect(r.wall, overlayY, r.width-2*r.wall, GlyphHeight, core.ColorBlack)
	r.centered(scoreLine(m), overlayY, core.ColorWhite)
}

func scoreLine(m *match) string {
	return fmt.Sprintf("You %d - %d other", m.engine.Remote.Conceded(), m.engine.Local.Conceded())
}

// summary is the final screen after a quit, a finished match or a lost link.
func (r renderer) summary(title string, m *match) {
	r.d.FillScreen(core.ColorBlack)
	r.d.Text(titleX, titleY, title, core.ColorYellow)
	r.d.Text(summaryX, summaryY, "Final score was", core.ColorWhite)
	r.points(m)
}

// waiting is the pairing screen.
func (r renderer) waiting(deviceID uint8) {
	r.d.FillScreen(core.ColorBlack)
	r.d.Text(titleX, 0, "Pong", core.ColorWhite)
	r.d.Text(0, waitingY, "Waiting for other", core.ColorWhite)
	r.d.Text(0, waitingY+waitingLineH, "player to join...", core.ColorWhite)
	r.d.Text(0, waitingY+3*waitingLineH, fmt.Sprintf("This is console #%d", deviceID), core.ColorWhite)
}
