package wfc

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/grid"
)

var (
	ErrContradiction      = errors.New("wfc: contradiction - no valid patterns for cell")
	ErrOutOfBounds        = errors.New("wfc: coordinate out of bounds")
	ErrInvalidSize        = errors.New("wfc: invalid grid size")
	ErrInvalidPatternSize = errors.New("wfc: invalid pattern size")
	ErrUnknownPattern     = errors.New("wfc: unknown pattern id")
	ErrEmptySample        = errors.New("wfc: empty sample grid")
)

// Status reports the progress of a Run after a step.
type Status int

const (
	Incomplete Status = iota
	Complete
)

// String returns the string representation of a Status
func (s Status) String() string {
	if s == Complete {
		return "complete"
	}
	return "incomplete"
}

// Wave is the per-cell domain of still-possible patterns.
type Wave struct {
	size        grid.Size
	numPatterns int
	possible    []bool  // cell*numPatterns + pattern
	remaining   []int   // per cell
	support     []int32 // (cell*numPatterns + pattern)*4 + direction
	sumW        []float64
	sumWLogW    []float64
}

// Size returns the output dimensions.
func (w *Wave) Size() grid.Size { return w.size }

// Remaining returns how many patterns are still possible at c.
func (w *Wave) Remaining(c grid.Coord) int {
	return w.remaining[w.size.Index(c)]
}

// Possible reports whether id is still possible at c.
func (w *Wave) Possible(c grid.Coord, id PatternID) bool {
	return w.possible[w.size.Index(c)*w.numPatterns+int(id)]
}

// Chosen returns the single pattern left at c, if the cell has collapsed.
func (w *Wave) Chosen(c grid.Coord) (PatternID, bool) {
	cell := w.size.Index(c)
	if w.remaining[cell] != 1 {
		return 0, false
	}
	base := cell * w.numPatterns
	for t := 0; t < w.numPatterns; t++ {
		if w.possible[base+t] {
			return PatternID(t), true
		}
	}
	return 0, false
}

// Entropy returns the Shannon entropy of the cell's frequency-weighted domain.
func (w *Wave) Entropy(c grid.Coord) float64 {
	cell := w.size.Index(c)
	return entropy(w.sumW[cell], w.sumWLogW[cell])
}

func entropy(sumW, sumWLogW float64) float64 {
	if sumW <= 0 {
		return 0
	}
	return math.Log(sumW) - sumWLogW/sumW
}

type removal struct {
	cell    int
	pattern PatternID
}

// Run is a single collapse attempt over a fresh wave. It implements
// ForbidInterface so forbid strategies can restrict its cells.
type Run struct {
	catalog *Catalog
	wave    *Wave
	wrap    Wrap
	forbid  ForbidPattern

	weights    []float64
	logWeights []float64
	stack      []removal
}

// NewRun creates a wave where every pattern is possible in every cell and
// applies forbid once. A contradiction raised by forbid is returned.
func NewRun(catalog *Catalog, size grid.Size, wrap Wrap, forbid ForbidPattern, rng *rand.Rand) (*Run, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	if forbid == nil {
		forbid = ForbidNothing{}
	}

	n := catalog.NumPatterns()
	r := &Run{
		catalog:    catalog,
		wrap:       wrap,
		forbid:     forbid,
		weights:    make([]float64, n),
		logWeights: make([]float64, n),
	}

	var sumW, sumWLogW float64
	for t := 0; t < n; t++ {
		w := float64(catalog.Frequency(PatternID(t)))
		r.weights[t] = w
		r.logWeights[t] = w * math.Log(w)
		sumW += w
		sumWLogW += r.logWeights[t]
	}

	cells := size.Area()
	wave := &Wave{
		size:        size,
		numPatterns: n,
		possible:    make([]bool, cells*n),
		remaining:   make([]int, cells),
		support:     make([]int32, cells*n*4),
		sumW:        make([]float64, cells),
		sumWLogW:    make([]float64, cells),
	}
	rules := catalog.Rules()
	for cell := 0; cell < cells; cell++ {
		wave.remaining[cell] = n
		wave.sumW[cell] = sumW
		wave.sumWLogW[cell] = sumWLogW
		for t := 0; t < n; t++ {
			wave.possible[cell*n+t] = true
			for _, d := range AllDirections() {
				// Patterns in the cell opposite d that allow t here.
				count := len(rules.Compatible(PatternID(t), d.Opposite()))
				wave.support[(cell*n+t)*4+int(d)] = int32(count)
			}
		}
	}
	r.wave = wave

	if err := r.forbid.Forbid(r, rng); err != nil {
		return nil, err
	}
	return r, nil
}

// Wave exposes the current wave.
func (r *Run) Wave() *Wave { return r.wave }

// WaveSize returns the output dimensions.
func (r *Run) WaveSize() grid.Size { return r.wave.size }

// ForbidPattern removes id from the domain at c and propagates.
func (r *Run) ForbidPattern(c grid.Coord, id PatternID, _ *rand.Rand) error {
	cell, err := r.cellIndex(c, id)
	if err != nil {
		return err
	}
	if err := r.ban(cell, id); err != nil {
		return err
	}
	return r.propagate()
}

// ForbidAllPatternsExcept removes every pattern but id from the domain at c
// and propagates. It is a no-op when c already holds only id.
func (r *Run) ForbidAllPatternsExcept(c grid.Coord, id PatternID, _ *rand.Rand) error {
	cell, err := r.cellIndex(c, id)
	if err != nil {
		return err
	}
	for t := 0; t < r.wave.numPatterns; t++ {
		if PatternID(t) == id {
			continue
		}
		if err := r.ban(cell, PatternID(t)); err != nil {
			return err
		}
	}
	return r.propagate()
}

func (r *Run) cellIndex(c grid.Coord, id PatternID) (int, error) {
	if !r.wave.size.Contains(c) {
		return 0, fmt.Errorf("%w: %s outside wave %s", ErrOutOfBounds, c, r.wave.size)
	}
	if id < 0 || int(id) >= r.wave.numPatterns {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPattern, id)
	}
	return r.wave.size.Index(c), nil
}

// Step re-applies the forbid strategy, collapses the lowest-entropy
// undecided cell, and propagates the consequences.
func (r *Run) Step(rng *rand.Rand) (Status, error) {
	if err := r.forbid.Forbid(r, rng); err != nil {
		return Incomplete, err
	}

	cell, ok := r.observe(rng)
	if !ok {
		return Complete, nil
	}

	chosen := r.choose(cell, rng)
	for t := 0; t < r.wave.numPatterns; t++ {
		if PatternID(t) == chosen {
			continue
		}
		if err := r.ban(cell, PatternID(t)); err != nil {
			return Incomplete, err
		}
	}
	if err := r.propagate(); err != nil {
		return Incomplete, err
	}
	return Incomplete, nil
}

// Collapse steps until every cell holds exactly one pattern or a
// contradiction occurs.
func (r *Run) Collapse(rng *rand.Rand) error {
	for {
		status, err := r.Step(rng)
		if err != nil {
			return err
		}
		if status == Complete {
			return nil
		}
	}
}

// observe picks the undecided cell with the lowest entropy. A little noise
// from rng breaks ties.
func (r *Run) observe(rng *rand.Rand) (int, bool) {
	best := -1
	bestEntropy := math.Inf(1)
	for cell, remaining := range r.wave.remaining {
		if remaining <= 1 {
			continue
		}
		e := entropy(r.wave.sumW[cell], r.wave.sumWLogW[cell]) + 1e-6*rng.Float64()
		if e < bestEntropy {
			bestEntropy = e
			best = cell
		}
	}
	return best, best >= 0
}

// choose draws one of the cell's remaining patterns weighted by frequency.
func (r *Run) choose(cell int, rng *rand.Rand) PatternID {
	n := r.wave.numPatterns
	base := cell * n
	total := 0
	for t := 0; t < n; t++ {
		if r.wave.possible[base+t] {
			total += r.catalog.Frequency(PatternID(t))
		}
	}
	pick := rng.IntN(total)
	last := PatternID(0)
	for t := 0; t < n; t++ {
		if !r.wave.possible[base+t] {
			continue
		}
		last = PatternID(t)
		pick -= r.catalog.Frequency(last)
		if pick < 0 {
			return last
		}
	}
	return last
}

func (r *Run) ban(cell int, id PatternID) error {
	w := r.wave
	idx := cell*w.numPatterns + int(id)
	if !w.possible[idx] {
		return nil
	}
	w.possible[idx] = false
	w.remaining[cell]--
	w.sumW[cell] -= r.weights[id]
	w.sumWLogW[cell] -= r.logWeights[id]
	r.stack = append(r.stack, removal{cell: cell, pattern: id})

	if w.remaining[cell] == 0 {
		r.stack = r.stack[:0]
		c := grid.Coord{X: cell % w.size.W, Y: cell / w.size.W}
		return fmt.Errorf("%w at %s", ErrContradiction, c)
	}
	return nil
}

// propagate drains the removal stack, removing patterns that lost their
// last supporting neighbour in some direction.
func (r *Run) propagate() error {
	w := r.wave
	rules := r.catalog.Rules()
	for len(r.stack) > 0 {
		top := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]

		from := grid.Coord{X: top.cell % w.size.W, Y: top.cell / w.size.W}
		for _, d := range AllDirections() {
			to, ok := r.wrap.normalize(w.size, from.Add(d.Offset()))
			if !ok {
				continue
			}
			neighbor := w.size.Index(to)
			for _, t := range rules.Compatible(top.pattern, d) {
				idx := (neighbor*w.numPatterns+int(t))*4 + int(d)
				w.support[idx]--
				if w.support[idx] == 0 {
					if err := r.ban(neighbor, t); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
