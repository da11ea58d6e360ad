package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridworld/internal/scenario"
	"github.com/vovakirdan/gridworld/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show scenario list sidebar
	sidebarWidth       = 24  // Width of scenario list sidebar
	maxEpisodes        = 100 // Max episodes to load
)

// ScoreboardModel is the Bubble Tea model for the best-episodes screen.
type ScoreboardModel struct {
	scenarios   []scenario.Scenario
	cursor      int // Currently selected scenario index
	store       EpisodeStore
	episodes    []storage.Episode
	table       table.Model
	help        help.Model
	keys        KeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if the viewer pressed back (not quit)
	showSidebar bool // Whether to show the scenario list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(scenarios []scenario.Scenario, store EpisodeStore, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		scenarios:   scenarios,
		store:       store,
		keys:        DefaultKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	if len(m.scenarios) > 0 {
		m.loadEpisodes(m.scenarios[0].ID)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Reward", Width: 10},
		{Title: "Ticks", Width: 7},
		{Title: "End", Width: 9},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

// loadEpisodes loads the best episodes of the given scenario.
func (m *ScoreboardModel) loadEpisodes(id string) {
	m.episodes = nil
	if m.store != nil {
		if episodes, err := m.store.TopEpisodes(id, maxEpisodes); err == nil {
			m.episodes = episodes
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current episodes.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		end := "stopped"
		if e.Terminal {
			end = "terminal"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%g", e.Reward),
			fmt.Sprintf("%d", e.Ticks),
			end,
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Right):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scenarios)
				m.loadEpisodes(m.scenarios[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Left):
			if len(m.scenarios) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scenarios)) % len(m.scenarios)
				m.loadEpisodes(m.scenarios[m.cursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "BEST EPISODES"
	if len(m.scenarios) > 0 {
		title = fmt.Sprintf("BEST EPISODES - %s", m.scenarios[m.cursor].Name)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(scoreboardHelp{m.keys})))

	return b.String()
}

// renderWideLayout renders the scoreboard with a sidebar for scenario selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scenarios\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, sc := range m.scenarios {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = titleStyle
		}
		sidebar.WriteString(style.Render(cursor + truncate(sc.Name, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		boardStyle.Padding(0, 1).Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the scoreboard with the current scenario above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.scenarios) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.scenarios[m.cursor].Name), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(boardStyle.Padding(0, 1).Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.episodes) == 0 {
		return dimStyle.Italic(true).Padding(2, 4).
			Render("No episodes recorded yet.\nRun a scenario to fill this table!")
	}
	return m.table.View()
}

// Episodes returns the episodes shown for the selected scenario.
func (m ScoreboardModel) Episodes() []storage.Episode {
	return m.episodes
}

// IsGoingBack returns true if the viewer wants to go back to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the viewer wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
