// Package entities provides the stock entity kinds: a wandering agent that
// burns energy, a monster that hunts it, food, and a handful of terrain
// tiles. Each kind registers itself with the registry in init().
package entities

import (
	"fmt"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/world"
)

// DeathPenalty is added to the reward when a mortal entity dies.
const DeathPenalty = -100

// Agent wanders at random and loses energy as time passes.
// The episode ends when its energy runs out.
type Agent struct {
	Energy     int     // Remaining energy; 0 means dead
	MaxEnergy  int     // Energy at spawn, used for the glyph
	Metabolism float64 // Probability of losing one energy per tick
}

// NewAgent creates an agent with the given energy and metabolism.
func NewAgent(energy int, metabolism float64) (*Agent, error) {
	if energy <= 0 {
		return nil, fmt.Errorf("agent: energy must be positive, got %d", energy)
	}
	if metabolism < 0 || metabolism > 1 {
		return nil, fmt.Errorf("agent: metabolism must be in [0, 1], got %v", metabolism)
	}
	return &Agent{Energy: energy, MaxEnergy: energy, Metabolism: metabolism}, nil
}

// Glyph shows the agent colored by how much energy is left.
func (a *Agent) Glyph() core.Cell {
	switch {
	case a.Energy <= 0:
		return core.Cell{Rune: 'x', Color: core.ColorRed}
	case a.Energy*3 <= a.MaxEnergy:
		return core.Cell{Rune: '@', Color: core.ColorOrange}
	case a.Energy < a.MaxEnergy:
		return core.Cell{Rune: '@', Color: core.ColorYellow}
	default:
		return core.Cell{Rune: '@', Color: core.ColorBrightGreen}
	}
}

// Traits implements world.Traited.
func (a *Agent) Traits() world.Traits {
	return world.Traits{Forages: true}
}

// Alive reports whether the agent still has energy.
func (a *Agent) Alive() bool {
	return a.Energy > 0
}

// Kill drains the agent and ends the episode.
func (a *Agent) Kill(s *world.State) {
	a.Energy = 0
	s.End()
}

// Act burns energy and takes one random step. A successful step moves the
// world's focus along with the agent.
func (a *Agent) Act(s *world.State, at world.Coord) (world.Signal, error) {
	if s.Rand.Float64() < a.Metabolism {
		a.Energy--
	}
	if a.Energy <= 0 {
		a.Energy = 0
		s.AddReward(DeathPenalty)
		return world.Terminate, nil
	}

	d := world.Directions[s.Rand.Intn(len(world.Directions))]
	target := at.Step(d)
	if s.Move(at, target) {
		s.Focus = s.Objects.Clamp(target)
	}
	return world.Continue, nil
}

// Collide keeps the agent's cell to itself. Wild entities running into it
// kill it.
func (a *Agent) Collide(other world.Entity, s *world.State, _ world.Coord) bool {
	if world.TraitsOf(other).Wild && a.Alive() {
		a.Kill(s)
		s.AddReward(DeathPenalty)
	}
	return false
}
