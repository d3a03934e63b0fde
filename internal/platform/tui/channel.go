package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const maxChannelLen = 12

// ChannelModel asks for the radio channel two SSH players meet on. Both
// players type the same code; the first to tune in hosts.
type ChannelModel struct {
	input    string
	err      string
	width    int
	height   int
	chosen   bool
	back     bool
	quitting bool
}

// NewChannelModel creates a prompt prefilled with code.
func NewChannelModel(code string, width, height int) ChannelModel {
	if len(code) > maxChannelLen {
		code = code[:maxChannelLen]
	}
	return ChannelModel{
		input:  strings.ToUpper(code),
		width:  width,
		height: height,
	}
}

// Init initializes the prompt.
func (m ChannelModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ChannelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m ChannelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch k {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.back = true
		return m, nil
	case "enter":
		if m.input != "" {
			m.chosen = true
			m.err = ""
		}
		return m, nil
	case "backspace":
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	}

	if len(k) == 1 && len(m.input) < maxChannelLen {
		c := strings.ToUpper(k)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			m.input += string(c)
			m.err = ""
		}
	}
	return m, nil
}

// Reject reopens the prompt with an error, e.g. when the channel is full.
func (m *ChannelModel) Reject(err error) {
	m.chosen = false
	m.err = err.Error()
}

// View renders the prompt.
func (m ChannelModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("MULTIPLAYER"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter a channel code and share it with your opponent:", m.width))
	b.WriteString("\n\n")

	code := m.input
	if len(code) < maxChannelLen {
		code += "_" + strings.Repeat(" ", maxChannelLen-len(m.input)-1)
	}
	b.WriteString(centerText(cursorStyle.Render(fmt.Sprintf("[ %s ]", code)), m.width))
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.err), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText(helpBarStyle.Render("enter: tune in  •  esc: back"), m.width))

	return b.String()
}

// Code returns the entered channel once confirmed, or "".
func (m ChannelModel) Code() string {
	if !m.chosen {
		return ""
	}
	return m.input
}

// BackToMenu returns true if user wants to go back to menu.
func (m ChannelModel) BackToMenu() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m ChannelModel) IsQuitting() bool {
	return m.quitting
}
