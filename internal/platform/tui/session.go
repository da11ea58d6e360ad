package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/scenario"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewEpisode
	viewScoreboard
)

// SessionModel manages the full viewer flow: menu -> episode -> menu, with
// the scoreboard reachable from the menu. It is the top-level model for SSH
// sessions and for local runs without a scenario argument.
type SessionModel struct {
	scenarios  []scenario.Scenario
	store      EpisodeStore
	config     core.RuntimeConfig
	logger     *log.Logger
	maxTicks   int
	view       sessionView
	menu       MenuModel
	episode    *Model
	scoreboard *ScoreboardModel
	err        error
	quitting   bool
}

// NewSessionModel creates a new session model. store and logger may be nil.
func NewSessionModel(scenarios []scenario.Scenario, store EpisodeStore, cfg core.RuntimeConfig, logger *log.Logger, maxTicks int) SessionModel {
	return SessionModel{
		scenarios: scenarios,
		store:     store,
		config:    cfg,
		logger:    logger,
		maxTicks:  maxTicks,
		menu:      NewMenuModel(scenarios, store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewEpisode:
		return m.updateEpisode(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.scenarios, m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		m.view = viewScoreboard
		return m, sb.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		opts := []ModelOption{WithBack(), WithMaxTicks(m.maxTicks)}
		if m.store != nil {
			opts = append(opts, WithStore(m.store))
		}
		if m.logger != nil {
			opts = append(opts, WithLogger(m.logger))
		}

		episode, err := NewModel(*selected, m.config, opts...)
		if err != nil {
			// The menu stays up with the error shown.
			m.err = err
			m.menu = NewMenuModel(m.scenarios, m.store, m.config)
			return m, nil
		}
		m.err = nil
		m.episode = &episode
		m.view = viewEpisode
		return m, m.episode.Init()
	}

	return m, cmd
}

// updateEpisode handles updates when an episode is on screen.
func (m SessionModel) updateEpisode(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.episode.Update(msg)
	if episode, ok := newModel.(Model); ok {
		m.episode = &episode
	}

	if m.episode.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.episode.BackToMenu() {
		m.episode = nil
		m.toMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is on screen.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		m.toMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// toMenu rebuilds the menu so best rewards are fresh.
func (m *SessionModel) toMenu() {
	m.menu = NewMenuModel(m.scenarios, m.store, m.config)
	m.view = viewMenu
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.view == viewEpisode && m.episode != nil:
		return m.episode.View()
	case m.view == viewScoreboard && m.scoreboard != nil:
		return m.scoreboard.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(errorStyle.Render(m.err.Error()), m.config.ScreenW)
	}
	return view
}

// RunSession runs the menu-driven flow on the local terminal.
func RunSession(scenarios []scenario.Scenario, store EpisodeStore, cfg core.RuntimeConfig, logger *log.Logger, maxTicks int) error {
	p := tea.NewProgram(
		NewSessionModel(scenarios, store, cfg, logger, maxTicks),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
