// Package core provides the small shared vocabulary of the handheld runtime:
// the wraparound-safe millisecond clock, buttons and debounced events,
// logical colors, geometry helpers and a cell screen buffer.
// It has no external dependencies so the game logic stays pure and testable.
package core

import "math"

// Rect is an axis-aligned rectangle in display pixels.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Sign returns -1 for negative values and 1 otherwise (zero counts as positive).
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// WithMagnitude returns |mag| carrying the sign of v (zero counts as positive).
func WithMagnitude(v, mag float64) float64 {
	return Sign(v) * math.Abs(mag)
}
