package wfc

import (
	"encoding/binary"
	"fmt"

	"github.com/reasv/wfctiled/internal/grid"
)

// Catalog holds the overlapping patterns extracted from a sample grid. It is
// immutable once built and safe to share between concurrent runs.
type Catalog struct {
	sample       *grid.Grid[uint32]
	patternSize  int
	orientations []Orientation

	// patterns[id] is the k×k window in row-major order.
	patterns  [][]uint32
	frequency []int

	// ids holds, per sample coordinate, one pattern per orientation.
	ids *grid.Grid[[]PatternID]

	rules *Rules
}

// NewCatalog extracts every k×k window of sample (wrapping around the
// sample edges) under each orientation, deduplicates them, and counts how
// often each distinct pattern occurs. An empty orientation list means
// Original only.
func NewCatalog(sample *grid.Grid[uint32], patternSize int, orientations []Orientation) (*Catalog, error) {
	if patternSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPatternSize, patternSize)
	}
	if sample == nil || sample.Size().Area() == 0 {
		return nil, ErrEmptySample
	}
	if len(orientations) == 0 {
		orientations = []Orientation{Original}
	}

	c := &Catalog{
		sample:       sample,
		patternSize:  patternSize,
		orientations: append([]Orientation(nil), orientations...),
		ids:          grid.New[[]PatternID](sample.Size()),
	}

	index := make(map[string]PatternID)
	window := make([]uint32, patternSize*patternSize)
	size := sample.Size()

	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			for i := range window {
				wx, wy := i%patternSize, i/patternSize
				window[i] = sample.Get(size.Wrap(grid.Coord{X: x + wx, Y: y + wy}))
			}
			ids := make([]PatternID, 0, len(c.orientations))
			for _, o := range c.orientations {
				pattern := orient(window, patternSize, o)
				key := patternKey(pattern)
				id, ok := index[key]
				if !ok {
					id = PatternID(len(c.patterns))
					index[key] = id
					c.patterns = append(c.patterns, pattern)
					c.frequency = append(c.frequency, 0)
				}
				c.frequency[id]++
				ids = append(ids, id)
			}
			c.ids.Set(grid.Coord{X: x, Y: y}, ids)
		}
	}

	c.rules = newRules(c.patterns, patternSize)
	return c, nil
}

func orient(window []uint32, k int, o Orientation) []uint32 {
	out := make([]uint32, len(window))
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			sx, sy := o.source(k, x, y)
			out[y*k+x] = window[sy*k+sx]
		}
	}
	return out
}

func patternKey(pattern []uint32) string {
	buf := make([]byte, 4*len(pattern))
	for i, v := range pattern {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	return string(buf)
}

// Sample returns the grid the catalog was built from.
func (c *Catalog) Sample() *grid.Grid[uint32] { return c.sample }

// SampleSize returns the dimensions of the sample grid.
func (c *Catalog) SampleSize() grid.Size { return c.sample.Size() }

// PatternSize returns k.
func (c *Catalog) PatternSize() int { return c.patternSize }

// Orientations returns the orientations used during extraction.
func (c *Catalog) Orientations() []Orientation {
	return append([]Orientation(nil), c.orientations...)
}

// NumPatterns returns the number of distinct patterns.
func (c *Catalog) NumPatterns() int { return len(c.patterns) }

// Frequency returns how many times id was observed in the sample.
func (c *Catalog) Frequency(id PatternID) int { return c.frequency[id] }

// Pattern returns a copy of the k×k window for id.
func (c *Catalog) Pattern(id PatternID) []uint32 {
	return append([]uint32(nil), c.patterns[id]...)
}

// TopLeftValue returns the tile a collapsed cell holding id contributes to
// the output.
func (c *Catalog) TopLeftValue(id PatternID) uint32 { return c.patterns[id][0] }

// IDsAt returns the patterns rooted at a sample coordinate, one per
// orientation. The slice may contain duplicates.
func (c *Catalog) IDsAt(at grid.Coord) ([]PatternID, error) {
	ids, ok := c.ids.GetChecked(at)
	if !ok {
		return nil, fmt.Errorf("%w: %s outside sample %s", ErrOutOfBounds, at, c.SampleSize())
	}
	return append([]PatternID(nil), ids...), nil
}

// Rules returns the adjacency rules derived from pattern overlaps.
func (c *Catalog) Rules() *Rules { return c.rules }
