// Package world holds the simulation state of a grid world: a background
// tile grid, a foreground object grid, the episode's reward and terminal
// flag, and the collision-driven movement algorithm.
//
// Nothing here locks; a State must only be touched by the goroutine that
// runs its engine.
package world

import (
	"math/rand"

	"github.com/vovakirdan/gridworld/internal/core"
)

// State is the complete world at a point in time.
type State struct {
	Tiles   *Grid[Entity] // Background; unset cells read as the default tile
	Objects *Grid[Entity] // Foreground; unset cells are empty

	Reward   float64 // Accumulated reward, changed additively by entities
	Terminal bool    // Once true the episode is over and moves fail
	Focus    Coord   // Tracked position other entities may target

	Rand *rand.Rand // Source of randomness for entity behavior
}

// NewState creates a world of the given size. defaultTile may be nil, in
// which case unset tiles are treated as absent.
func NewState(columns, rows int, defaultTile Entity, seed int64) *State {
	tiles := NewGrid[Entity](columns, rows)
	if defaultTile != nil {
		tiles = NewGridWithDefault[Entity](columns, rows, defaultTile)
	}
	return &State{
		Tiles:   tiles,
		Objects: NewGrid[Entity](columns, rows),
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

// Columns returns the world width.
func (s *State) Columns() int {
	return s.Objects.Columns()
}

// Rows returns the world height.
func (s *State) Rows() int {
	return s.Objects.Rows()
}

// AddReward adds delta to the accumulated reward.
func (s *State) AddReward(delta float64) {
	s.Reward += delta
}

// End marks the episode as terminal.
func (s *State) End() {
	s.Terminal = true
}

// Move walks the object at from toward to, one cell per step on both axes
// at once, and reports whether it arrived.
//
// The target is clamped into the grid first, so moving off the edge moves
// toward the boundary instead. Every visited cell is checked against its
// tile and then its occupant; the first Collide that returns false stops the
// walk and leaves the mover at from. Side effects of the collisions made so
// far are kept either way.
//
// Move fails without changes when the episode is terminal, when from holds
// no object, or when the clamped target equals from.
func (s *State) Move(from, to Coord) bool {
	if s.Terminal {
		return false
	}
	mover, ok, err := s.Objects.Lookup(from)
	if err != nil || !ok {
		return false
	}
	target := s.Objects.Clamp(to)
	if target == from {
		return false
	}

	pos := from
	for pos != target {
		pos.X += core.Sign(target.X - pos.X)
		pos.Y += core.Sign(target.Y - pos.Y)

		// pos is always between from and target, both in bounds.
		if tile, _ := s.Tiles.Get(pos); tile != nil && !tile.Collide(mover, s, pos) {
			return false
		}
		if other, present, _ := s.Objects.Lookup(pos); present && other != nil && !other.Collide(mover, s, pos) {
			return false
		}
	}

	s.Objects.clear(from)
	s.Objects.put(target, mover)
	return true
}

// Glyph returns what should be drawn at c: the object if any, otherwise the
// tile (explicit or default). The zero Cell means nothing is visible.
func (s *State) Glyph(c Coord) core.Cell {
	if o, ok, err := s.Objects.Lookup(c); err == nil && ok && o != nil {
		if g := o.Glyph(); g.Rune != 0 {
			return g
		}
	}
	if t, err := s.Tiles.Get(c); err == nil && t != nil {
		return t.Glyph()
	}
	return core.Cell{}
}
