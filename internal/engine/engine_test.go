package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/gridworld/internal/world"
)

// actor counts its actions and returns a scripted signal.
type actor struct {
	world.Base
	acts   int
	signal world.Signal
	err    error
}

func (a *actor) Act(*world.State, world.Coord) (world.Signal, error) {
	a.acts++
	return a.signal, a.err
}

// walker moves by a fixed offset on every action.
type walker struct {
	world.Base
	dx, dy int
	acts   int
}

func (w *walker) Act(s *world.State, at world.Coord) (world.Signal, error) {
	w.acts++
	s.Move(at, at.Add(w.dx, w.dy))
	return world.Continue, nil
}

// countdown terminates after a fixed number of actions.
type countdown struct {
	world.Base
	left int
}

func (c *countdown) Act(*world.State, world.Coord) (world.Signal, error) {
	c.left--
	if c.left <= 0 {
		return world.Terminate, nil
	}
	return world.Continue, nil
}

// peeker reads outside the grid, which is a programming error.
type peeker struct{ world.Base }

func (peeker) Act(s *world.State, at world.Coord) (world.Signal, error) {
	_, err := s.Tiles.Get(at.Add(-1, 0))
	return world.Continue, err
}

// trap ends the episode when crossed but lets the mover through.
type trap struct{ world.Base }

func (trap) Collide(_ world.Entity, s *world.State, _ world.Coord) bool {
	s.End()
	return true
}

// tagged is a value-type entity that cannot be compared with ==.
type tagged struct {
	world.Base
	tags []string
	acts *int
}

func (g tagged) Act(*world.State, world.Coord) (world.Signal, error) {
	*g.acts++
	return world.Continue, nil
}

// hopActs counts actions of hopper, which has no room for its own counter.
var hopActs int

// hopper is a zero-size entity that steps right on every action.
type hopper struct{ world.Base }

func (h *hopper) Act(s *world.State, at world.Coord) (world.Signal, error) {
	hopActs++
	s.Move(at, at.Add(1, 0))
	return world.Continue, nil
}

func newState(t *testing.T, cols, rows int) *world.State {
	t.Helper()
	return world.NewState(cols, rows, nil, 1)
}

func put(t *testing.T, g *world.Grid[world.Entity], c world.Coord, e world.Entity) {
	t.Helper()
	if err := g.Set(c, e); err != nil {
		t.Fatalf("Set(%v) failed: %v", c, err)
	}
}

func TestTickActsOncePerObject(t *testing.T) {
	s := newState(t, 3, 3)
	a, b := &actor{}, &actor{}
	put(t, s.Objects, world.C(2, 2), a)
	put(t, s.Objects, world.C(0, 1), b)

	e := New(s, Config{})
	for range 3 {
		if err := e.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}

	if a.acts != 3 || b.acts != 3 {
		t.Errorf("acts = %d, %d; expected 3, 3", a.acts, b.acts)
	}
	if e.Ticks() != 3 || e.Phase() != PhaseRunning {
		t.Errorf("Ticks() = %d, Phase() = %v; expected 3, Running", e.Ticks(), e.Phase())
	}
}

func TestTickUsesSnapshot(t *testing.T) {
	s := newState(t, 4, 1)
	w := &walker{dx: 2}
	put(t, s.Objects, world.C(0, 0), w)

	e := New(s, Config{})
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	// The walker lands on a cell later in row-major order but must not act
	// twice in the same tick.
	if w.acts != 1 {
		t.Errorf("walker acted %d times, expected 1", w.acts)
	}
	if got, _, _ := s.Objects.Lookup(world.C(2, 0)); got != w {
		t.Error("walker should be at (2,0)")
	}
}

func TestTickSkipsRemovedObjects(t *testing.T) {
	s := newState(t, 2, 1)
	w := &walker{dx: 1}
	victim := &actor{}
	put(t, s.Objects, world.C(0, 0), w)
	put(t, s.Objects, world.C(1, 0), victim)

	e := New(s, Config{})
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	if victim.acts != 0 {
		t.Errorf("object replaced earlier in the tick acted %d times", victim.acts)
	}
}

func TestTickWithValueEntities(t *testing.T) {
	s := newState(t, 2, 1)
	acts := 0
	put(t, s.Objects, world.C(0, 0), tagged{tags: []string{"a"}, acts: &acts})
	put(t, s.Objects, world.C(1, 0), tagged{tags: []string{"b"}, acts: &acts})

	e := New(s, Config{})
	for range 2 {
		if err := e.Tick(); err != nil {
			t.Fatalf("Tick() failed: %v", err)
		}
	}
	if acts != 4 {
		t.Errorf("acts = %d, expected 4", acts)
	}
}

func TestTickSkipsOverwrittenZeroSizeObjects(t *testing.T) {
	hopActs = 0
	s := newState(t, 3, 1)
	put(t, s.Objects, world.C(0, 0), &hopper{})
	put(t, s.Objects, world.C(1, 0), &hopper{})

	// The first hopper lands on the second; whatever the pointers compare
	// as, the cell was rewritten and the entry for it must be skipped.
	e := New(s, Config{})
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if hopActs != 1 {
		t.Errorf("hopActs = %d, expected 1", hopActs)
	}
	if s.Objects.Len() != 1 {
		t.Errorf("Objects.Len() = %d, expected 1", s.Objects.Len())
	}
}

func TestTerminationSignalStopsTick(t *testing.T) {
	s := newState(t, 3, 1)
	first := &actor{}
	stopper := &actor{signal: world.Terminate}
	last := &actor{}
	put(t, s.Objects, world.C(0, 0), first)
	put(t, s.Objects, world.C(1, 0), stopper)
	put(t, s.Objects, world.C(2, 0), last)

	renders := 0
	e := New(s, Config{Renderer: RendererFunc(func(*world.State) error {
		renders++
		return nil
	})})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !s.Terminal {
		t.Error("state should be terminal")
	}
	if e.Phase() != PhaseTerminated {
		t.Errorf("Phase() = %v, expected Terminated", e.Phase())
	}
	if first.acts != 1 || stopper.acts != 1 {
		t.Errorf("acts = %d, %d; expected 1, 1", first.acts, stopper.acts)
	}
	if last.acts != 0 {
		t.Errorf("entity after the terminating one acted %d times", last.acts)
	}
	if renders != 1 {
		t.Errorf("rendered %d times, expected exactly one final render", renders)
	}
	if out := e.Outcome(); out.Ticks != 1 || !out.Terminal {
		t.Errorf("Outcome() = %+v, expected 1 tick, terminal", out)
	}
}

func TestRunUntilCountdown(t *testing.T) {
	s := newState(t, 1, 1)
	put(t, s.Objects, world.C(0, 0), &countdown{left: 4})

	renders := 0
	e := New(s, Config{
		Delay: time.Millisecond,
		Renderer: RendererFunc(func(*world.State) error {
			renders++
			return nil
		}),
	})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if e.Ticks() != 4 {
		t.Errorf("Ticks() = %d, expected 4", e.Ticks())
	}
	if renders != 4 {
		t.Errorf("rendered %d times, expected 4", renders)
	}

	// Terminated is absorbing.
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if e.Ticks() != 4 {
		t.Error("Tick after termination should do nothing")
	}
}

func TestCollisionTerminatesEngine(t *testing.T) {
	s := newState(t, 3, 2)
	w := &walker{dx: 2}
	later := &actor{}
	put(t, s.Objects, world.C(0, 0), w)
	put(t, s.Tiles, world.C(1, 0), trap{})
	put(t, s.Objects, world.C(0, 1), later)

	e := New(s, Config{})
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if e.Phase() != PhaseTerminated {
		t.Errorf("Phase() = %v, expected Terminated", e.Phase())
	}
	if later.acts != 0 {
		t.Error("actions after a terminating collision should be skipped")
	}
}

func TestRunMaxTicks(t *testing.T) {
	s := newState(t, 2, 2)
	a := &actor{}
	put(t, s.Objects, world.C(1, 1), a)

	e := New(s, Config{MaxTicks: 5})
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if a.acts != 5 || e.Phase() != PhaseRunning {
		t.Errorf("acts = %d, Phase() = %v; expected 5, Running", a.acts, e.Phase())
	}
}

func TestRunCancelled(t *testing.T) {
	s := newState(t, 1, 1)
	put(t, s.Objects, world.C(0, 0), &actor{})

	ctx, cancel := context.WithCancel(context.Background())
	e := New(s, Config{
		Delay: time.Hour,
		Renderer: RendererFunc(func(*world.State) error {
			cancel()
			return nil
		}),
	})

	err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if e.Ticks() != 1 {
		t.Errorf("Ticks() = %d, expected 1", e.Ticks())
	}
}

func TestBoundsErrorPropagates(t *testing.T) {
	s := newState(t, 2, 1)
	put(t, s.Objects, world.C(0, 0), peeker{})

	renders := 0
	e := New(s, Config{Renderer: RendererFunc(func(*world.State) error {
		renders++
		return nil
	})})

	err := e.Run(context.Background())
	if !errors.Is(err, world.ErrOutOfBounds) {
		t.Fatalf("Run() error = %v, expected ErrOutOfBounds", err)
	}
	var be *world.BoundsError
	if !errors.As(err, &be) || be.At != world.C(-1, 0) {
		t.Errorf("expected BoundsError at (-1,0), got %v", err)
	}
	if renders != 0 {
		t.Error("a bounds violation should stop before rendering")
	}
	if s.Terminal {
		t.Error("a bounds violation is not a termination")
	}
}

func TestActionErrorIsWrapped(t *testing.T) {
	s := newState(t, 1, 1)
	boom := errors.New("boom")
	put(t, s.Objects, world.C(0, 0), &actor{err: boom})

	e := New(s, Config{})
	if err := e.Tick(); !errors.Is(err, boom) {
		t.Errorf("Tick() error = %v, expected to wrap %v", err, boom)
	}
}

func TestRenderErrorStopsRun(t *testing.T) {
	s := newState(t, 1, 1)
	put(t, s.Objects, world.C(0, 0), &actor{})
	broken := errors.New("terminal gone")

	e := New(s, Config{Renderer: RendererFunc(func(*world.State) error { return broken })})
	if err := e.Run(context.Background()); !errors.Is(err, broken) {
		t.Errorf("Run() error = %v, expected %v", err, broken)
	}
}

func TestNewOnTerminalState(t *testing.T) {
	s := newState(t, 1, 1)
	a := &actor{}
	put(t, s.Objects, world.C(0, 0), a)
	s.End()

	renders := 0
	e := New(s, Config{Renderer: RendererFunc(func(*world.State) error {
		renders++
		return nil
	})})
	if e.Phase() != PhaseTerminated {
		t.Fatalf("Phase() = %v, expected Terminated", e.Phase())
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.acts != 0 || renders != 1 {
		t.Errorf("acts = %d, renders = %d; expected 0, 1", a.acts, renders)
	}
}
