package core

// Button identifies one physical button on the handheld.
type Button int

// Buttons in pin order. ButtonCount is the number of buttons.
const (
	ButtonOK Button = iota
	ButtonEsc
	ButtonMenu
	ButtonUp
	ButtonRight
	ButtonDown
	ButtonLeft
	ButtonCount
)

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonOK:
		return "OK"
	case ButtonEsc:
		return "Esc"
	case ButtonMenu:
		return "Menu"
	case ButtonUp:
		return "Up"
	case ButtonRight:
		return "Right"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Buttons returns all buttons in pin order.
func Buttons() []Button {
	out := make([]Button, 0, ButtonCount)
	for b := ButtonOK; b < ButtonCount; b++ {
		out = append(out, b)
	}
	return out
}

// Event is the debounced result of polling one button.
type Event int

const (
	EventNone  Event = iota // nothing to report
	EventClick              // pressed and released, reported once
	EventHold               // held past the hold threshold, reported on every poll
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case EventClick:
		return "Click"
	case EventHold:
		return "Hold"
	default:
		return "Unknown"
	}
}
