package wfc

import (
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/grid"
)

// ForbidInterface is the view of an in-progress wave handed to forbid
// strategies. Coordinates outside the wave fail with ErrOutOfBounds and a
// mutation that empties a cell fails with ErrContradiction.
type ForbidInterface interface {
	WaveSize() grid.Size
	ForbidPattern(at grid.Coord, id PatternID, rng *rand.Rand) error
	ForbidAllPatternsExcept(at grid.Coord, id PatternID, rng *rand.Rand) error
}

// ForbidPattern is a strategy that removes patterns from the wave before
// each solving step. Implementations must be idempotent.
type ForbidPattern interface {
	Forbid(fi ForbidInterface, rng *rand.Rand) error
}

// ForbidNothing leaves the wave untouched.
type ForbidNothing struct{}

// Forbid does nothing.
func (ForbidNothing) Forbid(ForbidInterface, *rand.Rand) error { return nil }

// ForbidFunc adapts a function to ForbidPattern.
type ForbidFunc func(fi ForbidInterface, rng *rand.Rand) error

// Forbid calls f.
func (f ForbidFunc) Forbid(fi ForbidInterface, rng *rand.Rand) error { return f(fi, rng) }
