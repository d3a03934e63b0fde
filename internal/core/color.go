package core

// Color is a logical display color. Display adapters map it to whatever
// pixel format the panel or terminal uses.
type Color uint8

// Colors used by the game. ColorBlack erases.
const (
	ColorBlack Color = iota
	ColorWhite
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorGray
)

// String returns a human-readable name for the color.
func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorWhite:
		return "white"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorGray:
		return "gray"
	default:
		return "unknown"
	}
}
