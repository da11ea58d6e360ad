package entities

import (
	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/world"
)

// KitKat rewards foragers that reach it. Whatever lands on it eats it.
type KitKat struct {
	world.Base
	Deliciousness float64
}

// Glyph implements world.Entity.
func (k *KitKat) Glyph() core.Cell {
	return core.Cell{Rune: '%', Color: core.ColorBrightYellow}
}

// Collide grants the reward to foragers and lets everything through.
func (k *KitKat) Collide(other world.Entity, s *world.State, _ world.Coord) bool {
	if world.TraitsOf(other).Forages {
		s.AddReward(k.Deliciousness)
	}
	return true
}
