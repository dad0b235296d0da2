package tilemap

import (
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/wfc"
)

// Catalog is the read-only view of a pattern catalog the orchestrator and
// boundary constraint need.
type Catalog interface {
	SampleSize() grid.Size
	IDsAt(at grid.Coord) ([]wfc.PatternID, error)
	TopLeftValue(id wfc.PatternID) uint32
}

// Wave is the in-progress cell domain of an attempt.
type Wave interface {
	Size() grid.Size
	Chosen(at grid.Coord) (wfc.PatternID, bool)
}

// Attempt is a single collapse over a fresh wave.
type Attempt interface {
	Step(rng *rand.Rand) (wfc.Status, error)
	Wave() Wave
}

// Engine builds attempts over a fixed catalog. Errors returned from
// NewAttempt or Step that wrap wfc.ErrContradiction are retried by the
// orchestrator; anything else aborts.
type Engine interface {
	Catalog() Catalog
	NewAttempt(size grid.Size, wrap wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (Attempt, error)
}

type overlappingEngine struct {
	catalog *wfc.Catalog
}

// NewOverlappingEngine extracts the overlapping patterns of sample and
// returns an engine backed by the wfc solver.
func NewOverlappingEngine(sample *grid.Grid[uint32], patternSize int, orientations []wfc.Orientation) (Engine, error) {
	catalog, err := wfc.NewCatalog(sample, patternSize, orientations)
	if err != nil {
		return nil, err
	}
	return &overlappingEngine{catalog: catalog}, nil
}

func (e *overlappingEngine) Catalog() Catalog { return e.catalog }

func (e *overlappingEngine) NewAttempt(size grid.Size, wrap wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (Attempt, error) {
	run, err := wfc.NewRun(e.catalog, size, wrap, forbid, rng)
	if err != nil {
		return nil, err
	}
	return runAttempt{run: run}, nil
}

type runAttempt struct {
	run *wfc.Run
}

func (a runAttempt) Step(rng *rand.Rand) (wfc.Status, error) { return a.run.Step(rng) }

func (a runAttempt) Wave() Wave { return a.run.Wave() }

// WFCCatalog returns the concrete catalog behind an engine built by
// NewOverlappingEngine, or nil for other engines.
func WFCCatalog(e Engine) *wfc.Catalog {
	if oe, ok := e.(*overlappingEngine); ok {
		return oe.catalog
	}
	return nil
}
