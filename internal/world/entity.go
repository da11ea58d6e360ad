package world

import "github.com/vovakirdan/gridworld/internal/core"

// Signal is what an entity's action tells the engine.
type Signal int

const (
	// Continue lets the tick go on.
	Continue Signal = iota
	// Terminate ends the episode: the engine marks the state terminal and
	// skips the remaining actions of the tick.
	Terminate
)

// String returns a human-readable name for the signal.
func (s Signal) String() string {
	switch s {
	case Continue:
		return "Continue"
	case Terminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// Entity is anything that can be placed on the tile or object grid.
//
// Entities placed in the object grid must be comparable; pointer types are
// the norm, since the engine checks that an occupant is still in its cell
// before letting it act.
type Entity interface {
	// Glyph returns the presentation symbol. A zero rune is invisible.
	Glyph() core.Cell

	// Act runs the entity's behavior for one tick. at is the entity's
	// current position. Returning Terminate ends the episode; a non-nil
	// error (such as a *BoundsError) aborts the simulation.
	Act(s *State, at Coord) (Signal, error)

	// Collide decides whether other may enter or cross at. It may change
	// the state and other as a side effect regardless of the result.
	Collide(other Entity, s *State, at Coord) bool
}

// Base provides the default behavior: invisible, idle and passable.
// Embed it and override what differs.
type Base struct{}

// Glyph implements Entity.
func (Base) Glyph() core.Cell { return core.Cell{} }

// Act implements Entity.
func (Base) Act(*State, Coord) (Signal, error) { return Continue, nil }

// Collide implements Entity.
func (Base) Collide(Entity, *State, Coord) bool { return true }

// Traits describe how an entity interacts with terrain and other entities.
type Traits struct {
	Swims   bool // may cross water
	Forages bool // collects food rewards
	Wild    bool // kept off fields; harms what it runs into
}

// Traited is implemented by entities that have non-zero Traits.
type Traited interface {
	Traits() Traits
}

// TraitsOf returns e's traits, or the zero Traits if e declares none.
func TraitsOf(e Entity) Traits {
	if t, ok := e.(Traited); ok {
		return t.Traits()
	}
	return Traits{}
}

// Mortal is implemented by entities that can be killed by hazards.
type Mortal interface {
	Kill(s *State)
}
