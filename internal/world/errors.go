package world

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is wrapped by every BoundsError.
var ErrOutOfBounds = errors.New("world: coordinate out of bounds")

// BoundsError reports a grid access outside [0, Columns) x [0, Rows).
// It indicates a programming error in the caller, not a runtime condition
// the simulation can recover from.
type BoundsError struct {
	At      Coord
	Columns int
	Rows    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("world: coordinate %v out of bounds for %dx%d grid", e.At, e.Columns, e.Rows)
}

// Unwrap lets errors.Is match ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
