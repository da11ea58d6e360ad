package entities

import (
	"fmt"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/world"
)

// Monster chases the world's focus and kills mortal entities it meets.
type Monster struct {
	Intelligence float64 // Probability of chasing instead of stepping at random
}

// NewMonster creates a monster with the given intelligence.
func NewMonster(intelligence float64) (*Monster, error) {
	if intelligence < 0 || intelligence > 1 {
		return nil, fmt.Errorf("monster: intelligence must be in [0, 1], got %v", intelligence)
	}
	return &Monster{Intelligence: intelligence}, nil
}

// Glyph implements world.Entity.
func (m *Monster) Glyph() core.Cell {
	return core.Cell{Rune: 'M', Color: core.ColorBrightRed}
}

// Traits implements world.Traited.
func (m *Monster) Traits() world.Traits {
	return world.Traits{Wild: true}
}

// Act steps toward the focus along the axis with the larger distance, or in
// a random direction when the monster is not paying attention.
func (m *Monster) Act(s *world.State, at world.Coord) (world.Signal, error) {
	var dx, dy int
	if s.Rand.Float64() < m.Intelligence {
		chaseX := s.Focus.X - at.X
		chaseY := s.Focus.Y - at.Y
		if core.Abs(chaseX) > core.Abs(chaseY) {
			dx = core.Sign(chaseX)
		} else {
			dy = core.Sign(chaseY)
		}
	} else {
		d := world.Directions[s.Rand.Intn(len(world.Directions))]
		dx, dy = d.DX, d.DY
	}
	s.Move(at, at.Add(dx, dy))
	return world.Continue, nil
}

// Collide never lets anything through; mortals that try are killed.
func (m *Monster) Collide(other world.Entity, s *world.State, _ world.Coord) bool {
	if mortal, ok := other.(world.Mortal); ok {
		mortal.Kill(s)
		s.AddReward(DeathPenalty)
	}
	return false
}
