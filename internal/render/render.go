// Package render turns a world.State into something a person can look at:
// a plain Unicode table for logs and pipes, or a colored core.Screen for the
// terminal UI.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/world"
)

// CellWidth is the number of screen columns one world cell takes in Draw.
// Terminal characters are about twice as tall as they are wide.
const CellWidth = 2

// Empty is what Text prints for a cell with nothing visible in it. It is a
// full-width space, as wide as the glyphs it stands in for.
const Empty = '　'

// separator is the rune Text draws its horizontal rules with.
const separator = '－'

// layer fills buf with the glyphs of every entity in g.
func layer(buf [][]core.Cell, g *world.Grid[world.Entity]) {
	for at, e := range g.All() {
		if e == nil {
			continue
		}
		if c := e.Glyph(); c.Rune != 0 {
			buf[at.Y][at.X] = c
		}
	}
}

// glyphs resolves what is visible in each cell: the object if there is one,
// otherwise the explicit or default tile.
func glyphs(s *world.State) [][]core.Cell {
	buf := make([][]core.Cell, s.Rows())
	var fill core.Cell
	if def, ok := s.Tiles.Default(); ok && def != nil {
		fill = def.Glyph()
	}
	for y := range buf {
		buf[y] = make([]core.Cell, s.Columns())
		for x := range buf[y] {
			buf[y][x] = fill
		}
	}
	layer(buf, s.Tiles)
	layer(buf, s.Objects)
	return buf
}

// Text renders the state as a table: one |a|b|c| line per row, with rules
// of 2*(columns-1) full-width dashes above, between and below the rows.
// Row 0 comes first.
func Text(s *world.State) string {
	rule := strings.Repeat(string(separator), 2*(s.Columns()-1))

	var sb strings.Builder
	sb.WriteString(rule)
	for _, row := range glyphs(s) {
		sb.WriteString("\n|")
		for _, c := range row {
			r := c.Rune
			if r == 0 {
				r = Empty
			}
			sb.WriteRune(r)
			sb.WriteRune('|')
		}
		sb.WriteByte('\n')
		sb.WriteString(rule)
	}
	return sb.String()
}

// Draw paints the state into scr with its top-left corner at (x, y). Each
// world cell covers CellWidth columns; the glyph goes in the first one.
// Parts that do not fit are clipped.
func Draw(s *world.State, scr *core.Screen, x, y int) {
	for row, cells := range glyphs(s) {
		for col, c := range cells {
			if c.Rune == 0 {
				continue
			}
			scr.SetCell(x+col*CellWidth, y+row, c)
		}
	}
}

// Size returns the screen area Draw needs for s.
func Size(s *world.State) (w, h int) {
	return s.Columns() * CellWidth, s.Rows()
}

// Writer prints every frame as a Text table followed by a status line.
type Writer struct {
	W io.Writer
}

// Render implements engine.Renderer.
func (w Writer) Render(s *world.State) error {
	status := "running"
	if s.Terminal {
		status = "terminal"
	}
	_, err := fmt.Fprintf(w.W, "%s\nreward: %g  %s\n\n", Text(s), s.Reward, status)
	return err
}
