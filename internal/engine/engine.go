// Package engine drives a world.State tick by tick: every occupied object
// cell acts once per tick, the state is handed to a renderer, and the loop
// pauses before the next tick until the episode ends.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridworld/internal/world"
)

// Renderer draws a read-only view of the state.
type Renderer interface {
	Render(s *world.State) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(s *world.State) error

// Render implements Renderer.
func (f RendererFunc) Render(s *world.State) error { return f(s) }

// Phase is the engine's lifecycle state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseTerminated
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Config controls an engine run.
type Config struct {
	Renderer Renderer      // Optional; nil skips rendering
	Delay    time.Duration // Pause after each rendered tick
	MaxTicks int           // Stop Run after this many ticks; 0 means no limit
	Logger   *log.Logger   // Optional; nil discards log output
}

// Outcome summarizes an episode so far.
type Outcome struct {
	Ticks    int
	Reward   float64
	Terminal bool
}

// Engine runs one episode of a world.
type Engine struct {
	state  *world.State
	cfg    Config
	logger *log.Logger
	phase  Phase
	ticks  int
}

// New creates an engine for the given state.
func New(state *world.State, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{
		state:  state,
		cfg:    cfg,
		logger: logger,
	}
	if state.Terminal {
		e.phase = PhaseTerminated
	}
	return e
}

// State returns the world the engine is driving.
func (e *Engine) State() *world.State {
	return e.state
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Ticks returns the number of ticks processed.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Outcome returns the episode summary.
func (e *Engine) Outcome() Outcome {
	return Outcome{
		Ticks:    e.ticks,
		Reward:   e.state.Reward,
		Terminal: e.state.Terminal,
	}
}

type placement struct {
	at      world.Coord
	entity  world.Entity
	version uint64
}

// snapshot captures object positions at the start of a tick, row-major,
// so entities moving or disappearing mid-tick do not disturb the order.
func (e *Engine) snapshot() []placement {
	placements := make([]placement, 0, e.state.Objects.Len())
	for at, ent := range e.state.Objects.All() {
		placements = append(placements, placement{at: at, entity: ent, version: e.state.Objects.Version(at)})
	}
	return placements
}

// Tick lets every object that was present at the start of the tick act once.
//
// An object is skipped if its cell was rewritten or cleared before its turn
// comes, since the cell then no longer holds it. Entities are never compared.
// A Terminate signal, or any collision that ends the episode, stops the
// tick and moves the engine to PhaseTerminated. An error from an action
// aborts the tick and is returned; the phase is left unchanged.
// Tick does nothing once the engine is terminated.
func (e *Engine) Tick() error {
	if e.phase == PhaseTerminated {
		return nil
	}
	if e.state.Terminal {
		e.phase = PhaseTerminated
		return nil
	}

	cause := ""
	for _, p := range e.snapshot() {
		if e.state.Objects.Version(p.at) != p.version {
			continue
		}

		sig, err := p.entity.Act(e.state, p.at)
		if err != nil {
			return fmt.Errorf("engine: tick %d: act at %v: %w", e.ticks+1, p.at, err)
		}
		if sig == world.Terminate {
			e.state.End()
			cause = fmt.Sprintf("%T at %v signalled termination", p.entity, p.at)
			break
		}
		if e.state.Terminal {
			cause = fmt.Sprintf("collision during %T's action at %v", p.entity, p.at)
			break
		}
	}
	e.ticks++

	e.logger.Debug("tick", "tick", e.ticks, "reward", e.state.Reward, "objects", e.state.Objects.Len())

	if e.state.Terminal {
		e.phase = PhaseTerminated
		e.logger.Info("episode terminated", "ticks", e.ticks, "reward", e.state.Reward, "cause", cause)
	}
	return nil
}

// Render hands the current state to the configured renderer, if any.
func (e *Engine) Render() error {
	if e.cfg.Renderer == nil {
		return nil
	}
	if err := e.cfg.Renderer.Render(e.state); err != nil {
		return fmt.Errorf("engine: render: %w", err)
	}
	return nil
}

// Step runs one tick and renders the result.
func (e *Engine) Step() error {
	if err := e.Tick(); err != nil {
		return err
	}
	return e.Render()
}

// Run steps the engine, pausing Delay between ticks, until the episode
// terminates, MaxTicks is reached, or ctx is cancelled. The final state is
// always rendered before Run returns nil on termination.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("episode started",
		"columns", e.state.Columns(),
		"rows", e.state.Rows(),
		"objects", e.state.Objects.Len(),
		"delay", e.cfg.Delay,
	)

	if e.phase == PhaseTerminated {
		return e.Render()
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if err := e.Step(); err != nil {
			return err
		}
		if e.phase == PhaseTerminated {
			return nil
		}
		if e.cfg.MaxTicks > 0 && e.ticks >= e.cfg.MaxTicks {
			e.logger.Info("tick limit reached", "ticks", e.ticks, "reward", e.state.Reward)
			return nil
		}

		timer.Reset(e.cfg.Delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
