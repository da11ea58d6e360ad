// Package scenario describes starting worlds in YAML files and builds
// world.States from them. Entity kinds are resolved through the registry,
// so the package that registers them must be linked into the binary.
package scenario

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/registry"
	"github.com/vovakirdan/gridworld/internal/world"
)

// ErrNotFound is returned when no scenario has the requested ID.
var ErrNotFound = errors.New("scenario: not found")

// Placement puts fresh entities of one kind into every cell of Area.
type Placement struct {
	Kind   string
	Area   core.Rect
	Params registry.Params
	Focus  bool // Object placements only: start the state's focus here
}

// Scenario is a parsed starting world.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Width       int
	Height      int
	DefaultTile string
	Tiles       []Placement
	Objects     []Placement
	FilePath    string // Empty for built-ins
}

// Build creates a fresh state for one episode. Every call creates new
// entities, so states built from the same scenario share nothing.
func (sc Scenario) Build(seed int64) (*world.State, error) {
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("scenario %s: invalid size %dx%d", sc.ID, sc.Width, sc.Height)
	}

	var def world.Entity
	if sc.DefaultTile != "" {
		e, err := create(sc.DefaultTile, nil, registry.LayerTile)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: default tile: %w", sc.ID, err)
		}
		def = e
	}
	s := world.NewState(sc.Width, sc.Height, def, seed)

	// Every placement must fit before any of them is expanded into cells.
	for i, p := range sc.Tiles {
		if err := sc.fits(p); err != nil {
			return nil, fmt.Errorf("scenario %s: tiles[%d]: %w", sc.ID, i, err)
		}
	}
	for i, p := range sc.Objects {
		if err := sc.fits(p); err != nil {
			return nil, fmt.Errorf("scenario %s: objects[%d]: %w", sc.ID, i, err)
		}
	}

	for i, p := range sc.Tiles {
		if p.Focus {
			return nil, fmt.Errorf("scenario %s: tiles[%d]: focus is only valid on objects", sc.ID, i)
		}
		for _, c := range p.cells() {
			e, err := create(p.Kind, p.Params, registry.LayerTile)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: tiles[%d]: %w", sc.ID, i, err)
			}
			if err := s.Tiles.Set(c, e); err != nil {
				return nil, fmt.Errorf("scenario %s: tiles[%d]: %w", sc.ID, i, err)
			}
		}
	}

	focused := false
	for i, p := range sc.Objects {
		cells := p.cells()
		if p.Focus {
			if len(cells) != 1 {
				return nil, fmt.Errorf("scenario %s: objects[%d]: focus needs a single cell", sc.ID, i)
			}
			if focused {
				return nil, fmt.Errorf("scenario %s: objects[%d]: more than one focus", sc.ID, i)
			}
			focused = true
			s.Focus = cells[0]
		}
		for _, c := range cells {
			if _, taken, err := s.Objects.Lookup(c); err != nil {
				return nil, fmt.Errorf("scenario %s: objects[%d]: %w", sc.ID, i, err)
			} else if taken {
				return nil, fmt.Errorf("scenario %s: objects[%d]: cell %v already occupied", sc.ID, i, c)
			}
			e, err := create(p.Kind, p.Params, registry.LayerObject)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: objects[%d]: %w", sc.ID, i, err)
			}
			if err := s.Objects.Set(c, e); err != nil {
				return nil, fmt.Errorf("scenario %s: objects[%d]: %w", sc.ID, i, err)
			}
		}
	}

	return s, nil
}

// fits reports a BoundsError for the first corner of p's area that lies
// outside the scenario.
func (sc Scenario) fits(p Placement) error {
	corners := []world.Coord{
		world.C(p.Area.X, p.Area.Y),
		world.C(p.Area.Right()-1, p.Area.Bottom()-1),
	}
	for _, c := range corners {
		if c.X < 0 || c.X >= sc.Width || c.Y < 0 || c.Y >= sc.Height {
			return &world.BoundsError{At: c, Columns: sc.Width, Rows: sc.Height}
		}
	}
	return nil
}

// create instantiates kind and checks it belongs on the given layer.
func create(kind string, p registry.Params, layer registry.Layer) (world.Entity, error) {
	if info, ok := registry.Lookup(kind); ok && info.Layer != "" && info.Layer != layer {
		return nil, fmt.Errorf("kind %q is a %s, not a %s", kind, info.Layer, layer)
	}
	return registry.Create(kind, p)
}
