package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/scenario"
)

// MenuModel is the Bubble Tea model for the scenario picker.
type MenuModel struct {
	items          []scenario.Scenario
	cursor         int
	width          int
	height         int
	best           map[string]float64 // Best recorded reward per scenario ID
	config         core.RuntimeConfig
	keys           KeyMap
	help           help.Model
	quitting       bool
	selected       *scenario.Scenario // Set when the viewer picks a scenario
	openScoreboard bool               // True if the viewer pressed Tab for scores
}

// NewMenuModel creates a new menu model. store may be nil.
func NewMenuModel(items []scenario.Scenario, store EpisodeStore, cfg core.RuntimeConfig) MenuModel {
	best := make(map[string]float64)
	if store != nil {
		for _, sc := range items {
			if top, err := store.TopEpisodes(sc.ID, 1); err == nil && len(top) > 0 {
				best[sc.ID] = top[0].Reward
			}
		}
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		best:   best,
		config: cfg,
		keys:   DefaultKeyMap(),
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
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
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
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  G R I D W O R L D  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scenario", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(dimStyle.Render("No scenarios found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s (%dx%d)", cursor, item.Name, item.Width, item.Height)
		if best, ok := m.best[item.ID]; ok {
			line += dimStyle.Render(fmt.Sprintf("  best %g", best))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		if desc := strings.TrimSpace(m.items[m.cursor].Description); desc != "" {
			b.WriteString("\n")
			b.WriteString(centerText(dimStyle.Render(desc), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(menuHelp{m.keys}), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scenario, or nil if none selected.
func (m MenuModel) Selected() *scenario.Scenario {
	return m.selected
}

// IsQuitting returns true if the viewer requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if the viewer requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
