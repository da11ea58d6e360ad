package world

import "fmt"

// Coord is an integer position on the grid.
// X grows to the right; Y grows with the row index.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is a unit step on one axis.
type Direction struct {
	Name   string
	DX, DY int
}

// Directions lists the four unit steps in a fixed order.
var Directions = []Direction{
	{Name: "left", DX: -1, DY: 0},
	{Name: "up", DX: 0, DY: 1},
	{Name: "right", DX: 1, DY: 0},
	{Name: "down", DX: 0, DY: -1},
}

// Step returns the coordinate one step in direction d.
func (c Coord) Step(d Direction) Coord {
	return c.Add(d.DX, d.DY)
}
