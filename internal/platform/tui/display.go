package tui

import (
	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/game"
)

// Pixels covered by one terminal cell. Each cell shows two stacked half
// blocks, each half summarising a 2x2 pixel square.
const (
	cellPxW = 2
	cellPxH = 4
)

// PixelDisplay is a framebuffer the game draws on in field pixels, with a
// separate text layer so glyphs stay readable at terminal resolution.
type PixelDisplay struct {
	width  int
	height int
	pix    []core.Color
	texts  []textRun
}

var _ game.Display = (*PixelDisplay)(nil)

type textRun struct {
	x, y int
	s    string
	c    core.Color
}

// NewPixelDisplay creates a black display of width x height pixels.
func NewPixelDisplay(width, height int) *PixelDisplay {
	return &PixelDisplay{
		width:  width,
		height: height,
		pix:    make([]core.Color, width*height),
	}
}

// Cells returns the terminal size needed to show the whole display.
func (d *PixelDisplay) Cells() (w, h int) {
	return (d.width + cellPxW - 1) / cellPxW, (d.height + cellPxH - 1) / cellPxH
}

// At returns the pixel color, black outside the display.
func (d *PixelDisplay) At(x, y int) core.Color {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return core.ColorBlack
	}
	return d.pix[y*d.width+x]
}

func (d *PixelDisplay) set(x, y int, c core.Color) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.pix[y*d.width+x] = c
}

// FillScreen paints every pixel and drops all text.
func (d *PixelDisplay) FillScreen(c core.Color) {
	for i := range d.pix {
		d.pix[i] = c
	}
	d.texts = d.texts[:0]
}

// FillRect paints a solid rectangle and drops text underneath it.
func (d *PixelDisplay) FillRect(x, y, w, h int, c core.Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			d.set(px, py, c)
		}
	}

	area := core.NewRect(x, y, w, h)
	kept := d.texts[:0]
	for _, t := range d.texts {
		tw := len(t.s) * game.GlyphWidth
		covered := area.Contains(t.x, t.y) && area.Contains(t.x+tw-1, t.y+game.GlyphHeight-1)
		if !covered {
			kept = append(kept, t)
		}
	}
	d.texts = kept
}

// DrawRect paints a rectangle outline.
func (d *PixelDisplay) DrawRect(x, y, w, h int, c core.Color) {
	for px := x; px < x+w; px++ {
		d.set(px, y, c)
		d.set(px, y+h-1, c)
	}
	d.DrawVLine(x, y, h, c)
	d.DrawVLine(x+w-1, y, h, c)
}

// DrawVLine paints a vertical line of h pixels going down from (x, y).
func (d *PixelDisplay) DrawVLine(x, y, h int, c core.Color) {
	for py := y; py < y+h; py++ {
		d.set(x, py, c)
	}
}

// DrawCircle paints a circle outline with the midpoint algorithm.
func (d *PixelDisplay) DrawCircle(x0, y0, r int, c core.Color) {
	if r <= 0 {
		d.set(x0, y0, c)
		return
	}
	x, y := r, 0
	e := 1 - r
	for x >= y {
		d.set(x0+x, y0+y, c)
		d.set(x0+y, y0+x, c)
		d.set(x0-y, y0+x, c)
		d.set(x0-x, y0+y, c)
		d.set(x0-x, y0-y, c)
		d.set(x0-y, y0-x, c)
		d.set(x0+y, y0-x, c)
		d.set(x0+x, y0-y, c)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

// Text queues a string whose glyph box starts at pixel (x, y).
func (d *PixelDisplay) Text(x, y int, s string, c core.Color) {
	d.texts = append(d.texts, textRun{x: x, y: y, s: s, c: c})
}

// Texts returns the queued strings in drawing order.
func (d *PixelDisplay) Texts() []string {
	out := make([]string, len(d.texts))
	for i, t := range d.texts {
		out[i] = t.s
	}
	return out
}

// Render composes pixels and text into s, which should be at least Cells() big.
func (d *PixelDisplay) Render(s *core.Screen) {
	s.Clear()
	cw, ch := d.Cells()
	for cy := range ch {
		for cx := range cw {
			top := d.lit(cx*cellPxW, cy*cellPxH)
			bottom := d.lit(cx*cellPxW, cy*cellPxH+cellPxH/2)
			s.SetCell(cx, cy, halfBlock(top, bottom))
		}
	}

	// A glyph is three cells of pixels wide but one rune wide, so each string
	// is centred on the pixel span it would cover.
	for _, t := range d.texts {
		n := len([]rune(t.s))
		mid := (t.x + n*game.GlyphWidth/2) / cellPxW
		row := (t.y + game.GlyphHeight/2) / cellPxH
		s.DrawText(core.Clamp(mid-n/2, 0, max(cw-n, 0)), row, t.s, t.c)
	}
}

// lit returns the first non-black color of the 2x2 square at (x, y).
func (d *PixelDisplay) lit(x, y int) core.Color {
	for dy := range 2 {
		for dx := range 2 {
			if c := d.At(x+dx, y+dy); c != core.ColorBlack {
				return c
			}
		}
	}
	return core.ColorBlack
}

func halfBlock(top, bottom core.Color) core.Cell {
	switch {
	case top == core.ColorBlack && bottom == core.ColorBlack:
		return core.Cell{Rune: ' ', Fg: core.ColorWhite, Bg: core.ColorBlack}
	case top == bottom:
		return core.Cell{Rune: '█', Fg: top, Bg: core.ColorBlack}
	case bottom == core.ColorBlack:
		return core.Cell{Rune: '▀', Fg: top, Bg: core.ColorBlack}
	case top == core.ColorBlack:
		return core.Cell{Rune: '▄', Fg: bottom, Bg: core.ColorBlack}
	default:
		return core.Cell{Rune: '▀', Fg: top, Bg: bottom}
	}
}
