package world

import (
	"fmt"
	"iter"

	"github.com/vovakirdan/gridworld/internal/core"
)

// Grid is a bounded, sparse 2D container. Only explicitly set cells are
// stored; reads of unset in-bounds cells return the grid's default (or the
// zero value of T when the grid has none).
type Grid[T any] struct {
	columns    int
	rows       int
	cells      map[Coord]T
	def        T
	hasDefault bool

	writes   uint64           // Total writes, the source of cell versions
	versions map[Coord]uint64 // Version of each cell's last write
}

// NewGrid creates an empty grid without a default value.
// It panics if either dimension is not positive.
func NewGrid[T any](columns, rows int) *Grid[T] {
	if columns <= 0 || rows <= 0 {
		panic(fmt.Sprintf("world: invalid grid size %dx%d", columns, rows))
	}
	return &Grid[T]{
		columns: columns,
		rows:    rows,
		cells:    make(map[Coord]T),
		versions: make(map[Coord]uint64),
	}
}

// NewGridWithDefault creates an empty grid whose unset cells read as def.
func NewGridWithDefault[T any](columns, rows int, def T) *Grid[T] {
	g := NewGrid[T](columns, rows)
	g.def = def
	g.hasDefault = true
	return g
}

// Columns returns the width of the grid.
func (g *Grid[T]) Columns() int {
	return g.columns
}

// Rows returns the height of the grid.
func (g *Grid[T]) Rows() int {
	return g.rows
}

// Default returns the default value and whether the grid has one.
func (g *Grid[T]) Default() (T, bool) {
	return g.def, g.hasDefault
}

// Len returns the number of populated cells.
func (g *Grid[T]) Len() int {
	return len(g.cells)
}

// InBounds reports whether c lies inside the grid.
func (g *Grid[T]) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.columns && c.Y >= 0 && c.Y < g.rows
}

func (g *Grid[T]) check(c Coord) error {
	if !g.InBounds(c) {
		return &BoundsError{At: c, Columns: g.columns, Rows: g.rows}
	}
	return nil
}

// Get returns the value stored at c, or the default if the cell is unset.
func (g *Grid[T]) Get(c Coord) (T, error) {
	v, _, err := g.Lookup(c)
	return v, err
}

// Lookup is like Get but also reports whether a value is stored at c.
func (g *Grid[T]) Lookup(c Coord) (T, bool, error) {
	if err := g.check(c); err != nil {
		var zero T
		return zero, false, err
	}
	if v, ok := g.cells[c]; ok {
		return v, true, nil
	}
	return g.def, false, nil
}

// Set stores v at c, replacing any existing value.
func (g *Grid[T]) Set(c Coord, v T) error {
	if err := g.check(c); err != nil {
		return err
	}
	g.put(c, v)
	return nil
}

// Remove clears c. Removing an empty cell is a no-op.
func (g *Grid[T]) Remove(c Coord) error {
	if err := g.check(c); err != nil {
		return err
	}
	g.clear(c)
	return nil
}

// Version returns a number that changes every time c is set or cleared, so
// callers can tell whether a cell was rewritten without comparing values.
// Cells never written report 0.
func (g *Grid[T]) Version(c Coord) uint64 {
	return g.versions[c]
}

func (g *Grid[T]) put(c Coord, v T) {
	g.cells[c] = v
	g.writes++
	g.versions[c] = g.writes
}

func (g *Grid[T]) clear(c Coord) {
	if _, ok := g.cells[c]; !ok {
		return
	}
	delete(g.cells, c)
	g.writes++
	g.versions[c] = g.writes
}

// Clamp projects any coordinate onto the nearest in-bounds coordinate,
// clamping each axis independently.
func (g *Grid[T]) Clamp(c Coord) Coord {
	return Coord{
		X: core.Clamp(c.X, 0, g.columns-1),
		Y: core.Clamp(c.Y, 0, g.rows-1),
	}
}

// All yields populated cells in row-major order. Each call starts a fresh
// pass; cells set or removed during a pass are seen if not yet visited.
func (g *Grid[T]) All() iter.Seq2[Coord, T] {
	return func(yield func(Coord, T) bool) {
		for y := range g.rows {
			for x := range g.columns {
				c := Coord{X: x, Y: y}
				v, ok := g.cells[c]
				if !ok {
					continue
				}
				if !yield(c, v) {
					return
				}
			}
		}
	}
}
