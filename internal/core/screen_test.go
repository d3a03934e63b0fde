package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(64, 40)

	if s.Width() != 64 {
		t.Errorf("Width() = %d, expected 64", s.Width())
	}
	if s.Height() != 40 {
		t.Errorf("Height() = %d, expected 40", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.GetCell(x, y).Rune != ' ' {
				t.Fatalf("New screen should be blank, got %q at (%d, %d)", s.GetCell(x, y).Rune, x, y)
			}
		}
	}
}

func TestScreenSetCellOutOfBounds(t *testing.T) {
	s := NewScreen(4, 2)

	// Should not panic
	s.SetCell(-1, 0, Cell{Rune: 'X'})
	s.SetCell(4, 0, Cell{Rune: 'X'})
	s.SetCell(0, 2, Cell{Rune: 'X'})

	if got := s.GetCell(10, 10); got.Rune != ' ' {
		t.Errorf("GetCell out of bounds = %q, expected space", got.Rune)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawText(8, 1, "Hello", ColorYellow)

	if got := s.Row(1); got != "        He" {
		t.Errorf("Row(1) = %q, expected clipped text", got)
	}
	if c := s.GetCell(8, 1); c.Fg != ColorYellow {
		t.Errorf("text color = %v, expected yellow", c.Fg)
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.SetCell(0, 0, Cell{Rune: 'A'})
	s.SetCell(2, 1, Cell{Rune: 'B'})

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("String() has %d lines, expected 2", len(lines))
	}
	if lines[0] != "A  " || lines[1] != "  B" {
		t.Errorf("String() = %q", s.String())
	}

	s.Clear()
	if s.Row(0) != "   " {
		t.Errorf("Clear() left %q", s.Row(0))
	}
}
