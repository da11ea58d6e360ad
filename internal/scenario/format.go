package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/registry"
	"github.com/vovakirdan/gridworld/internal/world"
)

// YAMLScenario is the on-disk structure of a scenario file.
type YAMLScenario struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Size        YAMLSize        `yaml:"size"`
	DefaultTile string          `yaml:"default_tile,omitempty"`
	Tiles       []YAMLPlacement `yaml:"tiles,omitempty"`
	Objects     []YAMLPlacement `yaml:"objects,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPoint is a single cell.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLRect is a block of cells.
type YAMLRect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPlacement puts one kind at a cell, or fills a rectangle with it.
type YAMLPlacement struct {
	Kind   string             `yaml:"kind"`
	At     *YAMLPoint         `yaml:"at,omitempty"`
	Rect   *YAMLRect          `yaml:"rect,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
	Focus  bool               `yaml:"focus,omitempty"`
}

// Parse decodes a scenario file. It checks the shape of the file but not
// whether the kinds exist or the placements fit; Build does that.
func Parse(data []byte) (Scenario, error) {
	var ys YAMLScenario
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Scenario{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ys.ID == "" {
		return Scenario{}, fmt.Errorf("missing id")
	}
	if ys.Size.W <= 0 || ys.Size.H <= 0 {
		return Scenario{}, fmt.Errorf("invalid size %dx%d", ys.Size.W, ys.Size.H)
	}

	sc := Scenario{
		ID:          ys.ID,
		Name:        ys.Name,
		Description: ys.Description,
		Width:       ys.Size.W,
		Height:      ys.Size.H,
		DefaultTile: ys.DefaultTile,
	}
	if sc.Name == "" {
		sc.Name = sc.ID
	}

	var err error
	if sc.Tiles, err = placements(ys.Tiles, "tiles"); err != nil {
		return Scenario{}, err
	}
	if sc.Objects, err = placements(ys.Objects, "objects"); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func placements(in []YAMLPlacement, section string) ([]Placement, error) {
	out := make([]Placement, 0, len(in))
	for i, yp := range in {
		if yp.Kind == "" {
			return nil, fmt.Errorf("%s[%d]: missing kind", section, i)
		}
		p := Placement{
			Kind:   yp.Kind,
			Params: registry.Params(yp.Params),
			Focus:  yp.Focus,
		}
		switch {
		case yp.At != nil && yp.Rect != nil:
			return nil, fmt.Errorf("%s[%d]: both at and rect given", section, i)
		case yp.At != nil:
			p.Area = core.NewRect(yp.At.X, yp.At.Y, 1, 1)
		case yp.Rect != nil:
			if yp.Rect.W <= 0 || yp.Rect.H <= 0 {
				return nil, fmt.Errorf("%s[%d]: empty rect", section, i)
			}
			p.Area = core.NewRect(yp.Rect.X, yp.Rect.Y, yp.Rect.W, yp.Rect.H)
		default:
			return nil, fmt.Errorf("%s[%d]: needs at or rect", section, i)
		}
		out = append(out, p)
	}
	return out, nil
}

// cells lists the coordinates a placement covers, row-major.
func (p Placement) cells() []world.Coord {
	out := make([]world.Coord, 0, p.Area.W*p.Area.H)
	for y := p.Area.Y; y < p.Area.Bottom(); y++ {
		for x := p.Area.X; x < p.Area.Right(); x++ {
			out = append(out, world.C(x, y))
		}
	}
	return out
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
