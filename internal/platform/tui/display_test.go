package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/brickgame/internal/core"
)

func TestPixelDisplayCells(t *testing.T) {
	tests := []struct {
		w, h   int
		cw, ch int
	}{
		{128, 160, 64, 40},
		{3, 5, 2, 2},
		{2, 4, 1, 1},
	}

	for _, tc := range tests {
		d := NewPixelDisplay(tc.w, tc.h)
		cw, ch := d.Cells()
		if cw != tc.cw || ch != tc.ch {
			t.Errorf("Cells() for %dx%d = %dx%d, expected %dx%d", tc.w, tc.h, cw, ch, tc.cw, tc.ch)
		}
	}
}

func TestPixelDisplayDrawing(t *testing.T) {
	d := NewPixelDisplay(16, 16)

	d.FillRect(2, 3, 4, 2, core.ColorRed)
	if got := d.At(2, 3); got != core.ColorRed {
		t.Errorf("At(2,3) = %v, expected red", got)
	}
	if got := d.At(6, 3); got != core.ColorBlack {
		t.Errorf("At(6,3) = %v, expected black", got)
	}
	if got := d.At(-1, 99); got != core.ColorBlack {
		t.Errorf("At() outside = %v, expected black", got)
	}

	d.DrawRect(0, 0, 16, 16, core.ColorWhite)
	for _, p := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}, {7, 0}, {0, 7}} {
		if got := d.At(p[0], p[1]); got != core.ColorWhite {
			t.Errorf("border At(%d,%d) = %v, expected white", p[0], p[1], got)
		}
	}

	d.DrawCircle(8, 8, 2, core.ColorGreen)
	for _, p := range [][2]int{{10, 8}, {6, 8}, {8, 10}, {8, 6}} {
		if got := d.At(p[0], p[1]); got != core.ColorGreen {
			t.Errorf("circle At(%d,%d) = %v, expected green", p[0], p[1], got)
		}
	}
	if got := d.At(8, 8); got != core.ColorBlack {
		t.Errorf("circle centre = %v, expected black", got)
	}

	d.FillScreen(core.ColorBlack)
	if got := d.At(0, 0); got != core.ColorBlack {
		t.Errorf("At(0,0) after FillScreen = %v, expected black", got)
	}
}

func TestFillRectDropsCoveredText(t *testing.T) {
	d := NewPixelDisplay(128, 160)
	d.Text(10, 10, "Hi", core.ColorWhite)
	d.Text(10, 100, "Keep", core.ColorWhite)

	d.FillRect(0, 0, 128, 50, core.ColorBlack)

	texts := d.Texts()
	if len(texts) != 1 || texts[0] != "Keep" {
		t.Errorf("Texts() = %v, expected [Keep]", texts)
	}

	d.FillScreen(core.ColorBlack)
	if len(d.Texts()) != 0 {
		t.Errorf("Texts() after FillScreen = %v, expected none", d.Texts())
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	d := NewPixelDisplay(8, 8)
	s := core.NewScreen(4, 2)

	d.FillRect(0, 0, 2, 2, core.ColorWhite) // cell (0,0) top
	d.FillRect(2, 2, 2, 2, core.ColorRed)   // cell (1,0) bottom
	d.FillRect(4, 0, 2, 4, core.ColorBlue)  // cell (2,0) both
	d.FillRect(6, 0, 2, 2, core.ColorGreen) // cell (3,0) top over
	d.FillRect(6, 2, 2, 2, core.ColorRed)   // ...a red bottom

	d.Render(s)

	tests := []struct {
		x      int
		rune   rune
		fg, bg core.Color
	}{
		{0, '▀', core.ColorWhite, core.ColorBlack},
		{1, '▄', core.ColorRed, core.ColorBlack},
		{2, '█', core.ColorBlue, core.ColorBlack},
		{3, '▀', core.ColorGreen, core.ColorRed},
	}
	for _, tc := range tests {
		c := s.GetCell(tc.x, 0)
		if c.Rune != tc.rune || c.Fg != tc.fg || c.Bg != tc.bg {
			t.Errorf("cell %d = %q %v/%v, expected %q %v/%v", tc.x, c.Rune, c.Fg, c.Bg, tc.rune, tc.fg, tc.bg)
		}
	}
	if c := s.GetCell(0, 1); c.Rune != ' ' {
		t.Errorf("empty cell = %q, expected space", c.Rune)
	}
}

func TestRenderCentresText(t *testing.T) {
	d := NewPixelDisplay(128, 160)
	cw, ch := d.Cells()
	s := core.NewScreen(cw, ch)

	// "Pong" drawn from pixel 52 spans 52..76, centred on pixel 64.
	d.Text(52, 40, "Pong", core.ColorWhite)
	d.Render(s)

	row := s.Row(11)
	if !strings.Contains(row, "Pong") {
		t.Fatalf("row 11 = %q, expected it to contain Pong", row)
	}
	if col := strings.Index(row, "Pong"); col != 30 {
		t.Errorf("Pong starts at column %d, expected 30", col)
	}
}

func TestRenderKeepsTextOnScreen(t *testing.T) {
	d := NewPixelDisplay(32, 16)
	cw, ch := d.Cells()
	s := core.NewScreen(cw, ch)

	d.Text(28, 0, "Edge", core.ColorWhite)
	d.Render(s)

	if got := s.Row(1); !strings.HasSuffix(got, "Edge") {
		t.Errorf("row 1 = %q, expected the text clamped to the right edge", got)
	}
}
