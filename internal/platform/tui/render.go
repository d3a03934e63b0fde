package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickgame/internal/core"
)

// palette maps logical colors to ANSI colors.
var palette = map[core.Color]lipgloss.Color{
	core.ColorBlack:  lipgloss.Color("0"),
	core.ColorWhite:  lipgloss.Color("15"),
	core.ColorRed:    lipgloss.Color("9"),
	core.ColorGreen:  lipgloss.Color("10"),
	core.ColorBlue:   lipgloss.Color("12"),
	core.ColorYellow: lipgloss.Color("11"),
	core.ColorGray:   lipgloss.Color("245"),
}

type colorPair struct {
	fg, bg core.Color
}

// cellStyles holds one style per foreground/background pair. It is built
// once so concurrent sessions only read it.
var cellStyles = buildCellStyles()

func buildCellStyles() map[colorPair]lipgloss.Style {
	styles := make(map[colorPair]lipgloss.Style, len(palette)*len(palette))
	for fg, fgc := range palette {
		for bg, bgc := range palette {
			styles[colorPair{fg, bg}] = lipgloss.NewStyle().Foreground(fgc).Background(bgc)
		}
	}
	return styles
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			pair := colorPair{cell.Fg, cell.Bg}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (colorPair{cell.Fg, cell.Bg}) != pair {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := cellStyles[pair]
			if !ok {
				style = cellStyles[colorPair{core.ColorWhite, core.ColorBlack}]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
