package entities

import (
	"github.com/vovakirdan/gridworld/internal/registry"
	"github.com/vovakirdan/gridworld/internal/world"
)

// Default construction parameters.
const (
	DefaultEnergy        = 3
	DefaultMetabolism    = 0.1
	DefaultIntelligence  = 0.5
	DefaultDeliciousness = 100
)

func init() {
	registry.Register(registry.KindInfo{
		Kind:        "agent",
		Layer:       registry.LayerObject,
		Description: "wanders at random, starves when energy runs out (energy, metabolism)",
	}, func(p registry.Params) (world.Entity, error) {
		a, err := NewAgent(p.Int("energy", DefaultEnergy), p.Float("metabolism", DefaultMetabolism))
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	registry.Register(registry.KindInfo{
		Kind:        "monster",
		Layer:       registry.LayerObject,
		Description: "chases the focus and kills what it touches (intelligence)",
	}, func(p registry.Params) (world.Entity, error) {
		m, err := NewMonster(p.Float("intelligence", DefaultIntelligence))
		if err != nil {
			return nil, err
		}
		return m, nil
	})

	registry.Register(registry.KindInfo{
		Kind:        "kitkat",
		Layer:       registry.LayerObject,
		Description: "rewards foragers that reach it (deliciousness)",
	}, func(p registry.Params) (world.Entity, error) {
		return &KitKat{Deliciousness: p.Float("deliciousness", DefaultDeliciousness)}, nil
	})

	registry.Register(registry.KindInfo{
		Kind:        "water",
		Layer:       registry.LayerTile,
		Description: "drowns mortals that cannot swim",
	}, func(registry.Params) (world.Entity, error) { return &Water{}, nil })

	registry.Register(registry.KindInfo{
		Kind:        "forest",
		Layer:       registry.LayerTile,
		Description: "decoration",
	}, func(registry.Params) (world.Entity, error) { return &Forest{}, nil })

	registry.Register(registry.KindInfo{
		Kind:        "field",
		Layer:       registry.LayerTile,
		Description: "open ground that keeps wild entities out",
	}, func(registry.Params) (world.Entity, error) { return &Field{}, nil })

	registry.Register(registry.KindInfo{
		Kind:        "wall",
		Layer:       registry.LayerTile,
		Description: "blocks everything",
	}, func(registry.Params) (world.Entity, error) { return &Wall{}, nil })
}
