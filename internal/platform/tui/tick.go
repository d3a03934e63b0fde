// Package tui runs the handheld in a terminal: a pixel display drawn with
// half-block characters, the keyboard as button pins, a mode menu, the match
// history and an SSH server that hosts one console per session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to run one loop iteration.
type TickMsg time.Time

// tickCmd schedules the next loop iteration.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
