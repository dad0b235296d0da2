package tilemap

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/wfc"
)

// ForceBorderForbid restricts the far bottom row and far right column of the
// output to the patterns rooted at the sample's bottom-right corner, so the
// generated map tiles against copies of itself without visible seams.
type ForceBorderForbid struct {
	allowed []wfc.PatternID
	offset  int
}

// NewForceBorderForbid reads the patterns rooted at the sample coordinate
// (W-offset, H-offset) where offset = k - k/2.
func NewForceBorderForbid(catalog Catalog, patternSize int) (*ForceBorderForbid, error) {
	if patternSize < 1 {
		return nil, fmt.Errorf("%w: pattern size %d", ErrOutOfRange, patternSize)
	}
	sample := catalog.SampleSize()
	if sample.W < patternSize || sample.H < patternSize {
		return nil, fmt.Errorf("%w: sample %s smaller than pattern size %d", ErrOutOfRange, sample, patternSize)
	}

	offset := patternSize - patternSize/2
	corner := grid.Coord{X: sample.W - offset, Y: sample.H - offset}
	ids, err := catalog.IDsAt(corner)
	if err != nil {
		return nil, fmt.Errorf("%w: corner %s: %v", ErrOutOfRange, corner, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no patterns rooted at corner %s", ErrOutOfRange, corner)
	}

	slices.Sort(ids)
	return &ForceBorderForbid{
		allowed: slices.Compact(ids),
		offset:  offset,
	}, nil
}

// AllowedPatterns returns the deduplicated corner patterns in ascending order.
func (f *ForceBorderForbid) AllowedPatterns() []wfc.PatternID {
	return slices.Clone(f.allowed)
}

// Ambiguous reports whether the corner holds more than one pattern. Forbid
// restricts each border cell to every allowed id in turn, so an ambiguous
// constraint empties the cell and every collapse contradicts.
func (f *ForceBorderForbid) Ambiguous() bool { return len(f.allowed) > 1 }

// Offset returns k - k/2.
func (f *ForceBorderForbid) Offset() int { return f.offset }

// Forbid restricts row H-offset for every x in [0, W) and column W-offset
// for every y in [0, W). The column scan is bounded by the output width, not
// its height, so non-square outputs cover that edge unevenly.
func (f *ForceBorderForbid) Forbid(fi wfc.ForbidInterface, rng *rand.Rand) error {
	size := fi.WaveSize()
	for x := 0; x < size.W; x++ {
		if err := f.restrict(fi, grid.Coord{X: x, Y: size.H - f.offset}, rng); err != nil {
			return err
		}
	}
	for y := 0; y < size.W; y++ {
		if err := f.restrict(fi, grid.Coord{X: size.W - f.offset, Y: y}, rng); err != nil {
			return err
		}
	}
	return nil
}

func (f *ForceBorderForbid) restrict(fi wfc.ForbidInterface, at grid.Coord, rng *rand.Rand) error {
	for _, id := range f.allowed {
		if err := fi.ForbidAllPatternsExcept(at, id, rng); err != nil {
			return err
		}
	}
	return nil
}
