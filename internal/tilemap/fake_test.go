package tilemap

import (
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/wfc"
)

// fakeCatalog roots the same ids at every sample coordinate and maps each
// id to id+100.
type fakeCatalog struct {
	size grid.Size
	ids  []wfc.PatternID
}

func (c fakeCatalog) SampleSize() grid.Size { return c.size }

func (c fakeCatalog) IDsAt(at grid.Coord) ([]wfc.PatternID, error) {
	if !c.size.Contains(at) {
		return nil, wfc.ErrOutOfBounds
	}
	return append([]wfc.PatternID(nil), c.ids...), nil
}

func (c fakeCatalog) TopLeftValue(id wfc.PatternID) uint32 { return uint32(id) + 100 }

// forbidCall records a single ForbidAllPatternsExcept invocation.
type forbidCall struct {
	at grid.Coord
	id wfc.PatternID
}

// recordingInterface is a ForbidInterface that remembers calls and keeps a
// per-cell domain so repeated restrictions can be checked.
type recordingInterface struct {
	size    grid.Size
	calls   []forbidCall
	domains map[grid.Coord]map[wfc.PatternID]bool
	fail    error
}

func newRecordingInterface(size grid.Size, ids ...wfc.PatternID) *recordingInterface {
	fi := &recordingInterface{size: size, domains: make(map[grid.Coord]map[wfc.PatternID]bool)}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			d := make(map[wfc.PatternID]bool)
			for _, id := range ids {
				d[id] = true
			}
			fi.domains[grid.Coord{X: x, Y: y}] = d
		}
	}
	return fi
}

func (fi *recordingInterface) WaveSize() grid.Size { return fi.size }

func (fi *recordingInterface) ForbidPattern(at grid.Coord, id wfc.PatternID, _ *rand.Rand) error {
	delete(fi.domains[at], id)
	return nil
}

func (fi *recordingInterface) ForbidAllPatternsExcept(at grid.Coord, id wfc.PatternID, _ *rand.Rand) error {
	fi.calls = append(fi.calls, forbidCall{at: at, id: id})
	if fi.fail != nil {
		return fi.fail
	}
	domain, ok := fi.domains[at]
	if !ok {
		return wfc.ErrOutOfBounds
	}
	for other := range domain {
		if other != id {
			delete(domain, other)
		}
	}
	if !domain[id] {
		return wfc.ErrContradiction
	}
	return nil
}

// stubEngine fails the first failures attempts with a contradiction and then
// completes with every cell holding id 1.
type stubEngine struct {
	failures   int
	attempts   int
	attemptErr error
	draws      []uint64
}

func (e *stubEngine) Catalog() Catalog {
	return fakeCatalog{size: grid.Size{W: 2, H: 2}, ids: []wfc.PatternID{1}}
}

func (e *stubEngine) NewAttempt(size grid.Size, _ wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (Attempt, error) {
	e.attempts++
	if e.attemptErr != nil {
		return nil, e.attemptErr
	}
	return &stubAttempt{engine: e, size: size, fail: e.attempts <= e.failures}, nil
}

type stubAttempt struct {
	engine *stubEngine
	size   grid.Size
	fail   bool
}

func (a *stubAttempt) Step(rng *rand.Rand) (wfc.Status, error) {
	a.engine.draws = append(a.engine.draws, rng.Uint64())
	if a.fail {
		return wfc.Incomplete, wfc.ErrContradiction
	}
	return wfc.Complete, nil
}

func (a *stubAttempt) Wave() Wave { return stubWave{size: a.size} }

type stubWave struct {
	size grid.Size
}

func (w stubWave) Size() grid.Size { return w.size }

func (w stubWave) Chosen(grid.Coord) (wfc.PatternID, bool) { return 1, true }
