package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickgame/internal/storage"
)

const maxHistory = 100

// historyFilters are the tabs of the history screen; "" is every mode.
var historyFilters = []string{"", "single", "network", "training"}

// HistoryModel is the Bubble Tea model for the match history.
type HistoryModel struct {
	store     *storage.Store
	filter    int
	records   []storage.MatchRecord
	stats     map[string]*storage.ModeStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      MenuKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a history screen showing every mode.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.Width = width

	m := HistoryModel{
		store:  store,
		keys:   DefaultMenuKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Mode", Width: 9},
		{Title: "Role", Width: 7},
		{Title: "Score", Width: 9},
		{Title: "End", Width: 12},
		{Title: "Time", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the records of the current filter.
func (m *HistoryModel) load() {
	m.records, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		m.records, m.loadErr = m.store.RecentMatches(historyFilters[m.filter], maxHistory)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.Stats()
		}
	}

	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		role := r.Role
		if role == "" {
			role = "-"
		}
		rows[i] = table.Row{
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			r.Mode,
			role,
			fmt.Sprintf("%d - %d", r.Scored, r.Conceded),
			r.EndReason,
			r.Duration.Round(time.Second).String(),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.filter = (m.filter + 1) % len(historyFilters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.filter = (m.filter + len(historyFilters) - 1) % len(historyFilters)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
)

func filterTitle(f string) string {
	if f == "" {
		return "all"
	}
	return f
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(centerText(titleStyle.Render("MATCH HISTORY"), m.width))
	b.WriteString("\n\n")

	tabs := make([]string, len(historyFilters))
	for i, f := range historyFilters {
		if i == m.filter {
			tabs[i] = activeTabStyle.Render(filterTitle(f))
		} else {
			tabs[i] = tabStyle.Render(filterTitle(f))
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(boxStyle.Render(m.tableContent()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(subtitleStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")
	b.WriteString(helpBarStyle.Render(m.help.ShortHelpView([]key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Next, m.keys.Back, m.keys.Quit,
	})))

	return b.String()
}

func (m HistoryModel) tableContent() string {
	switch {
	case m.store == nil:
		return emptyStyle.Render("History is disabled.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the history:\n" + m.loadErr.Error())
	case len(m.records) == 0:
		return emptyStyle.Render("No matches recorded yet.\nPlay one from the menu!")
	}
	return m.table.View()
}

// summary totals the stats of the modes under the current filter.
func (m HistoryModel) summary() string {
	var total storage.ModeStats
	for mode, s := range m.stats {
		if f := historyFilters[m.filter]; f != "" && f != mode {
			continue
		}
		total.Matches += s.Matches
		total.Wins += s.Wins
		total.Scored += s.Scored
		total.Conceded += s.Conceded
	}
	return fmt.Sprintf("%d matches · %d won · %d scored · %d conceded",
		total.Matches, total.Wins, total.Scored, total.Conceded)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
