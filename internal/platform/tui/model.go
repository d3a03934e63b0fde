package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/core"
	"github.com/vovakirdan/brickgame/internal/feedback"
	"github.com/vovakirdan/brickgame/internal/game"
	"github.com/vovakirdan/brickgame/internal/input"
	"github.com/vovakirdan/brickgame/internal/radio"
	"github.com/vovakirdan/brickgame/internal/storage"
)

// GameOptions configure one console in a terminal.
type GameOptions struct {
	Config   config.GameConfig
	Settings config.Settings
	Mode     game.Mode
	Link     radio.Link     // required for game.ModeNetwork
	Store    *storage.Store // nil disables the history
	Logger   *log.Logger    // nil discards
	Clock    core.Clock     // nil uses the system clock
	Poll     time.Duration  // loop interval; zero uses core.DefaultConfig
}

// GameModel is the Bubble Tea model running one match.
type GameModel struct {
	ctrl    *game.Controller
	display *PixelDisplay
	screen  *core.Screen
	pins    *KeyPins
	pulse   *feedback.Pulse
	keys    GameKeyMap
	help    help.Model
	store   *storage.Store
	logger  *log.Logger
	poll    time.Duration

	quitOnExit bool
	saved      bool
	done       bool
	quitting   bool
}

// NewGameModel wires a controller to the terminal.
func NewGameModel(opts GameOptions) (GameModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.NewSystemClock()
	}
	poll := opts.Poll
	if poll <= 0 {
		poll = core.DefaultConfig().PollInterval
	}

	display := NewPixelDisplay(int(opts.Config.Field.Width), int(opts.Config.Field.Height))
	pins := NewKeyPins(clock)
	pulse := feedback.NewPulse(clock)

	ctrl, err := game.New(game.Options{
		Config:   opts.Config,
		Settings: opts.Settings,
		Mode:     opts.Mode,
		Input:    input.NewState(pins, clock, input.TimingFromConfig(opts.Config.Input)),
		Clock:    clock,
		Display:  display,
		Feedback: feedback.Tee{pulse, feedback.LogSink{Logger: logger}},
		Link:     opts.Link,
		Logger:   logger,
	})
	if err != nil {
		return GameModel{}, fmt.Errorf("tui: %w", err)
	}

	cw, ch := display.Cells()
	return GameModel{
		ctrl:    ctrl,
		display: display,
		screen:  core.NewScreen(cw, ch),
		pins:    pins,
		pulse:   pulse,
		keys:    DefaultGameKeyMap(),
		help:    help.New(),
		store:   opts.Store,
		logger:  logger,
		poll:    poll,
	}, nil
}

// Init starts the loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.poll)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.pulse.Stop()
			return m, tea.Quit
		}
		if b, ok := m.keys.Button(msg); ok {
			m.pins.Press(b)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleTick runs one controller iteration.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	state := m.ctrl.Step()
	if !state.Finished() {
		return m, tickCmd(m.poll)
	}

	m.done = true
	m.pulse.Stop()
	m.save()
	if m.quitOnExit {
		return m, tea.Quit
	}
	return m, nil
}

// save writes the finished match to the history once.
func (m *GameModel) save() {
	res := m.ctrl.Result()
	if m.saved || m.store == nil || !res.Started {
		return
	}
	m.saved = true
	if _, err := m.store.SaveMatch(recordOf(res)); err != nil {
		m.logger.Warn("could not save match", "error", err)
	}
}

// recordOf converts a match result to a history record.
func recordOf(res game.Result) storage.MatchRecord {
	r := storage.MatchRecord{
		Mode:      res.Mode.String(),
		Scored:    res.Scored,
		Conceded:  res.Conceded,
		EndReason: string(res.Reason),
		Duration:  res.Duration,
	}
	if res.Mode == game.ModeNetwork {
		r.Role = res.Role.String()
	}
	return r
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	buzzStyle   = frameStyle.BorderForeground(lipgloss.Color("11"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the display, a status line and the key help.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.display.Render(m.screen)
	style := frameStyle
	if on, _ := m.pulse.Vibrating(); on {
		style = buzzStyle
	}

	status := fmt.Sprintf("%s · %s", m.ctrl.Mode(), m.ctrl.State())
	if m.ctrl.Mode() == game.ModeNetwork {
		status = fmt.Sprintf("%s · %s · %s", m.ctrl.Mode(), m.ctrl.Role(), m.ctrl.State())
	}
	if m.pulse.Sounding() {
		status += " ♪"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		style.Render(RenderScreen(m.screen)),
		statusStyle.Render(status),
		m.help.View(m.keys),
	)
}

// Done reports whether the match has exited or was cancelled.
func (m GameModel) Done() bool {
	return m.done
}

// IsQuitting returns true if the user asked to leave the program.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Result returns the match summary.
func (m GameModel) Result() game.Result {
	return m.ctrl.Result()
}

// RunGame plays one match in the terminal and returns its result.
func RunGame(opts GameOptions) (game.Result, error) {
	model, err := NewGameModel(opts)
	if err != nil {
		return game.Result{}, err
	}
	model.quitOnExit = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return game.Result{}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return game.Result{}, errors.New("tui: unexpected model")
	}
	return m.Result(), nil
}
