package entities

import (
	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/world"
)

// Water drowns mortals that cannot swim and only lets swimmers through.
type Water struct{ world.Base }

func (*Water) Glyph() core.Cell { return core.Cell{Rune: '~', Color: core.ColorBlue} }

func (*Water) Collide(other world.Entity, s *world.State, _ world.Coord) bool {
	if world.TraitsOf(other).Swims {
		return true
	}
	if mortal, ok := other.(world.Mortal); ok {
		mortal.Kill(s)
		s.AddReward(DeathPenalty)
	}
	return false
}

// Forest is decoration; everything may pass.
type Forest struct{ world.Base }

func (*Forest) Glyph() core.Cell { return core.Cell{Rune: '♣', Color: core.ColorGreen} }

// Field is open ground that keeps wild entities out.
type Field struct{ world.Base }

func (*Field) Glyph() core.Cell { return core.Cell{Rune: '·', Color: core.ColorGray} }

func (*Field) Collide(other world.Entity, _ *world.State, _ world.Coord) bool {
	return !world.TraitsOf(other).Wild
}

// Wall blocks everything.
type Wall struct{ world.Base }

func (*Wall) Glyph() core.Cell { return core.Cell{Rune: '#', Color: core.ColorWhite} }

func (*Wall) Collide(world.Entity, *world.State, world.Coord) bool { return false }
