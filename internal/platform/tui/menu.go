package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickgame/internal/game"
)

// MenuItem is one entry of the mode menu.
type MenuItem struct {
	Title   string
	Mode    game.Mode
	History bool // opens the match history instead of a match
}

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected *MenuItem
}

// NetworkTitle names the multiplayer entry after the console's role, the way
// the handheld menu does.
func NetworkTitle(deviceID uint8) string {
	if deviceID == 0 {
		return "Host multi"
	}
	return "Join multi"
}

// NewMenuModel creates a new menu model. networkTitle labels the
// multiplayer entry.
func NewMenuModel(networkTitle string, width, height int) MenuModel {
	h := help.New()
	h.Width = width

	return MenuModel{
		items: []MenuItem{
			{Title: "Single easy", Mode: game.ModeSingle},
			{Title: networkTitle, Mode: game.ModeNetwork},
			{Title: "Training", Mode: game.ModeTraining},
			{Title: "History", History: true},
		},
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit

	case key.Matches(msg, m.keys.History):
		m.selected = &MenuItem{Title: "History", History: true}
		return m, tea.Quit
	}

	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  P O N G  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(subtitleStyle.Render("Choose a mode"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = cursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpBarStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Mode    game.Mode
	History bool
	Quit    bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(networkTitle string, width, height int) (MenuResult, error) {
	model := NewMenuModel(networkTitle, width, height)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Quit: true}, nil
	}

	return MenuResult{
		Mode:    m.Selected().Mode,
		History: m.Selected().History,
	}, nil
}
