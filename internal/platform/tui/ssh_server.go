package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/game"
	"github.com/vovakirdan/brickgame/internal/radio"
	"github.com/vovakirdan/brickgame/internal/storage"
)

// DefaultChannel is the channel offered when the SSH command names none.
const DefaultChannel = "LOBBY"

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.brickgame/host_key.
	HostKeyPath string

	// DBPath is the path to the history database. Empty disables it.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game tunes every match; Settings supplies feedback toggles. The device
	// id is assigned per session by the channel slot.
	Game     config.GameConfig
	Settings config.Settings

	// Loss and Seed simulate an unreliable radio between sessions.
	Loss float64
	Seed int64

	// Logger receives server and match logs; nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath(),
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultGameConfig(),
		Settings:    config.Settings{Vibrations: true, Sound: true},
	}
}

// SSHServer wraps a Wish SSH server whose sessions can pair over radio
// channels.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	air    *radio.Air
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "brickgame-ssh",
		})
	}

	var store *storage.Store
	if cfg.DBPath != "" {
		var err error
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open history database", "error", err)
			// Continue without history
			store = nil
		}
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		air:    radio.NewAir(radio.EtherOptions{Loss: cfg.Loss, Seed: cfg.Seed}),
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".brickgame", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	channel := DefaultChannel
	if args := sshSession.Command(); len(args) > 0 {
		channel = ChannelName(args[0])
	}

	link := &sessionLink{}
	go func() {
		<-sshSession.Context().Done()
		link.drop()
	}()

	model := newSessionModel(SessionOptions{
		Game:     s.config.Game,
		Settings: s.config.Settings,
		Store:    s.store,
		Air:      s.air,
		Channel:  channel,
		Logger:   s.logger.With("user", sshSession.User()),
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
	}, link)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionLink holds the radio endpoint a session has tuned to, so that it is
// released whether the match ends or the connection drops.
type sessionLink struct {
	mu      sync.Mutex
	release func()
}

func (l *sessionLink) set(release func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.release = release
}

func (l *sessionLink) drop() {
	l.mu.Lock()
	release := l.release
	l.release = nil
	l.mu.Unlock()
	if release != nil {
		release()
	}
}

// SessionOptions configure one SSH session.
type SessionOptions struct {
	Game     config.GameConfig
	Settings config.Settings
	Store    *storage.Store
	Air      *radio.Air
	Channel  string
	Logger   *log.Logger
	Width    int
	Height   int
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenChannel
	screenGame
	screenHistory
)

// SessionModel manages the SSH session flow: menu -> (channel) -> game or
// history -> menu. This is the top-level model used for SSH sessions.
type SessionModel struct {
	opts     SessionOptions
	link     *sessionLink
	screen   sessionScreen
	menu     MenuModel
	channel  ChannelModel
	history  HistoryModel
	game     *GameModel
	quitting bool
}

// newSessionModel creates a new session model. link may be nil.
func newSessionModel(opts SessionOptions, link *sessionLink) SessionModel {
	if link == nil {
		link = &sessionLink{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts: opts,
		link: link,
		menu: NewMenuModel("Multiplayer", opts.Width, opts.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch m.screen {
	case screenChannel:
		return m.updateChannel(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu resets the menu and shows it.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.game = nil
	m.menu = NewMenuModel("Multiplayer", m.opts.Width, m.opts.Height)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.link.drop()
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		return m.quit()
	}

	selected := m.menu.Selected()
	switch {
	case selected == nil:
		return m, cmd
	case selected.History:
		m.history = NewHistoryModel(m.opts.Store, m.opts.Width, m.opts.Height)
		m.screen = screenHistory
		return m, m.history.Init()
	case selected.Mode == game.ModeNetwork:
		m.channel = NewChannelModel(m.opts.Channel, m.opts.Width, m.opts.Height)
		m.screen = screenChannel
		return m, m.channel.Init()
	default:
		return m.startGame(selected.Mode, nil, m.opts.Settings)
	}
}

// updateChannel tunes to the entered channel once it is confirmed.
func (m SessionModel) updateChannel(msg tea.Msg) (tea.Model, tea.Cmd) {
	newChannel, cmd := m.channel.Update(msg)
	if channelModel, ok := newChannel.(ChannelModel); ok {
		m.channel = channelModel
	}

	switch {
	case m.channel.IsQuitting():
		return m.quit()
	case m.channel.BackToMenu():
		return m.toMenu()
	}

	code := m.channel.Code()
	if code == "" {
		return m, cmd
	}
	if m.opts.Air == nil {
		m.channel.Reject(errors.New("multiplayer is disabled"))
		return m, nil
	}

	ep, release, err := m.opts.Air.Tune(code)
	if err != nil {
		m.channel.Reject(err)
		return m, nil
	}
	m.link.set(release)
	m.opts.Channel = code

	settings := m.opts.Settings
	settings.DeviceID = uint8(ep.Slot())
	m.opts.Logger.Info("tuned in", "channel", code, "device", settings.DeviceID)
	return m.startGame(game.ModeNetwork, ep, settings)
}

// startGame switches to a new match.
func (m SessionModel) startGame(mode game.Mode, link radio.Link, settings config.Settings) (tea.Model, tea.Cmd) {
	gm, err := NewGameModel(GameOptions{
		Config:   m.opts.Game,
		Settings: settings,
		Mode:     mode,
		Link:     link,
		Store:    m.opts.Store,
		Logger:   m.opts.Logger,
	})
	if err != nil {
		m.link.drop()
		m.opts.Logger.Error("could not start match", "error", err)
		return m.toMenu()
	}

	m.game = &gm
	m.screen = screenGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		return m.quit()
	}
	if m.game.Done() {
		m.link.drop()
		return m.toMenu()
	}

	return m, cmd
}

// updateHistory handles updates when browsing the history.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newHistory, cmd := m.history.Update(msg)
	if historyModel, ok := newHistory.(HistoryModel); ok {
		m.history = historyModel
	}

	switch {
	case m.history.IsQuitting():
		return m.quit()
	case m.history.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenChannel:
		return m.channel.View()
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
	case screenHistory:
		return m.history.View()
	}
	return m.menu.View()
}

// ChannelName normalizes a user supplied channel code.
func ChannelName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultChannel
	}
	return s
}
