package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/engine"
	"github.com/vovakirdan/gridworld/internal/scenario"
	"github.com/vovakirdan/gridworld/internal/storage"
)

// Delay bounds for the speed keys.
const (
	minDelay = 10 * time.Millisecond
	maxDelay = 2 * time.Second
)

// EpisodeStore is the part of storage.Store the UI needs.
type EpisodeStore interface {
	SaveEpisode(e storage.Episode) (int64, error)
	TopEpisodes(scenario string, limit int) ([]storage.Episode, error)
}

// Model is the Bubble Tea model for watching one scenario's episodes.
// Each restart builds a fresh world from the scenario.
type Model struct {
	scenario scenario.Scenario
	store    EpisodeStore
	config   core.RuntimeConfig
	logger   *log.Logger
	maxTicks int

	engine *engine.Engine
	seed   int64
	gen    int // Replaced on restart and resume to drop stale ticks
	screen *core.Screen

	keys      KeyMap
	help      help.Model
	paused    bool
	saved     bool // Whether the current episode has been recorded
	err       error
	canGoBack bool
	quitting  bool
	back      bool
}

// ModelOption customizes a Model.
type ModelOption func(*Model)

// WithStore records finished episodes in store.
func WithStore(store EpisodeStore) ModelOption {
	return func(m *Model) { m.store = store }
}

// WithLogger sets the logger the engine reports to.
func WithLogger(logger *log.Logger) ModelOption {
	return func(m *Model) { m.logger = logger }
}

// WithMaxTicks stops each episode after n ticks.
func WithMaxTicks(n int) ModelOption {
	return func(m *Model) { m.maxTicks = n }
}

// WithBack lets the viewer leave the episode with the Back key.
func WithBack() ModelOption {
	return func(m *Model) { m.canGoBack = true }
}

// NewModel creates a model and builds the first episode of sc.
func NewModel(sc scenario.Scenario, cfg core.RuntimeConfig, opts ...ModelOption) (Model, error) {
	m := Model{
		scenario: sc,
		config:   cfg,
		logger:   log.New(io.Discard),
		screen:   core.NewScreen(1, 1),
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Width = cfg.ScreenW

	if err := m.reset(cfg.ResolveSeed()); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reset builds a fresh world with the given seed.
func (m *Model) reset(seed int64) error {
	state, err := m.scenario.Build(seed)
	if err != nil {
		return err
	}
	m.seed = seed
	m.engine = engine.New(state, engine.Config{
		Delay:    m.config.Delay,
		MaxTicks: m.maxTicks,
		Logger:   m.logger.With("scenario", m.scenario.ID, "seed", seed),
	})
	m.gen = nextGen()
	m.saved = false
	m.err = nil
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.Delay, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveEpisode()
		m.quitting = true
		return m, tea.Quit

	case m.canGoBack && key.Matches(msg, m.keys.Back):
		m.saveEpisode()
		m.back = true
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused && m.running() {
			// A tick scheduled before the pause may still be in flight.
			m.gen = nextGen()
			return m, tickCmd(m.config.Delay, m.gen)
		}
		return m, nil

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.step()
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.saveEpisode()
		seed := time.Now().UnixNano()
		if m.config.Seed != 0 {
			// A fixed seed replays the same episode.
			seed = m.config.Seed
		}
		if err := m.reset(seed); err != nil {
			m.err = err
			return m, nil
		}
		if m.paused {
			return m, nil
		}
		return m, tickCmd(m.config.Delay, m.gen)

	case key.Matches(msg, m.keys.Faster):
		m.config.Delay = max(m.config.Delay/2, minDelay)
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.config.Delay = min(max(m.config.Delay*2, minDelay), maxDelay)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// handleTick advances the engine by one tick.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.paused || !m.running() {
		return m, nil
	}

	m.step()
	if !m.running() {
		return m, nil
	}
	return m, tickCmd(m.config.Delay, m.gen)
}

// step runs one engine tick and records the episode when it ends.
func (m *Model) step() {
	if !m.running() {
		return
	}
	if err := m.engine.Tick(); err != nil {
		m.err = err
		m.logger.Error("episode aborted", "scenario", m.scenario.ID, "error", err)
		return
	}
	if !m.running() {
		m.saveEpisode()
	}
}

// running reports whether the current episode can still tick.
func (m Model) running() bool {
	if m.err != nil || m.engine.Phase() == engine.PhaseTerminated {
		return false
	}
	return m.maxTicks <= 0 || m.engine.Ticks() < m.maxTicks
}

// saveEpisode records the current episode once. Episodes that never ticked
// or were aborted by an error are not recorded.
func (m *Model) saveEpisode() {
	if m.saved || m.store == nil || m.err != nil || m.engine.Ticks() == 0 {
		return
	}
	m.saved = true

	out := m.engine.Outcome()
	_, err := m.store.SaveEpisode(storage.Episode{
		Scenario: m.scenario.ID,
		Seed:     m.seed,
		Ticks:    out.Ticks,
		Reward:   out.Reward,
		Terminal: out.Terminal,
	})
	if err != nil {
		m.logger.Warn("could not save episode", "scenario", m.scenario.ID, "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.hud())
	b.WriteString("\n")
	banner := ""
	if m.engine.Phase() == engine.PhaseTerminated {
		banner = "THE END"
	}
	b.WriteString(boardStyle.Render(RenderBoard(m.engine.State(), m.screen, banner)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(episodeHelp{KeyMap: m.keys, canGoBack: m.canGoBack}))
	return b.String()
}

// hud renders the status line above the board.
func (m Model) hud() string {
	out := m.engine.Outcome()

	status := "running"
	switch {
	case m.err != nil:
		status = "aborted"
	case out.Terminal:
		status = "terminal"
	case !m.running():
		status = "tick limit"
	case m.paused:
		status = "paused"
	}

	reward := fmt.Sprintf("%g", out.Reward)
	switch {
	case out.Reward > 0:
		reward = rewardUpStyle.Render(reward)
	case out.Reward < 0:
		reward = rewardDownStyle.Render(reward)
	}

	return fmt.Sprintf("%s  %s  tick %d  reward %s  %s",
		titleStyle.Render(m.scenario.Name),
		dimStyle.Render(fmt.Sprintf("seed %d", m.seed)),
		out.Ticks,
		reward,
		dimStyle.Render(fmt.Sprintf("[%s, %v]", status, m.config.Delay)),
	)
}

// Outcome returns the current episode summary.
func (m Model) Outcome() engine.Outcome {
	return m.engine.Outcome()
}

// Err returns the error that aborted the current episode, if any.
func (m Model) Err() error {
	return m.err
}

// IsQuitting returns true if the viewer requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the viewer requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts a Bubble Tea program watching sc.
func Run(sc scenario.Scenario, cfg core.RuntimeConfig, opts ...ModelOption) (engine.Outcome, error) {
	model, err := NewModel(sc, cfg, opts...)
	if err != nil {
		return engine.Outcome{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return engine.Outcome{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Outcome(), fm.Err()
	}
	return engine.Outcome{}, nil
}
