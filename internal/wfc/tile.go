package wfc

import "github.com/reasv/wfctiled/internal/grid"

// PatternID identifies a deduplicated pattern within a Catalog.
type PatternID int

// Direction represents a cardinal direction in the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Offset returns the unit step for the direction.
func (d Direction) Offset() grid.Coord {
	switch d {
	case North:
		return grid.Coord{X: 0, Y: -1}
	case South:
		return grid.Coord{X: 0, Y: 1}
	case East:
		return grid.Coord{X: 1, Y: 0}
	case West:
		return grid.Coord{X: -1, Y: 0}
	}
	return grid.Coord{}
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}
