package tilemap

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/logger"
	"github.com/reasv/wfctiled/internal/wfc"
)

// TilePattern holds a sample tile map and the overlapping patterns extracted
// from it, and generates new maps with the same local structure.
//
// A TilePattern is immutable; concurrent RunCollapse calls are safe as long
// as each supplies its own rng and forbid strategy.
type TilePattern struct {
	sample      *grid.Grid[uint32]
	patternSize int
	engine      Engine
}

// Report describes how a collapse went.
type Report struct {
	Attempts int
}

// New extracts k×k patterns from sample under the given orientations.
func New(sample *grid.Grid[uint32], patternSize int, orientations []wfc.Orientation) (*TilePattern, error) {
	engine, err := NewOverlappingEngine(sample, patternSize, orientations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return WithEngine(sample, patternSize, engine), nil
}

// FromSlice builds a pattern from row-major values.
func FromSlice(values []uint32, size grid.Size, patternSize int, orientations []wfc.Orientation) (*TilePattern, error) {
	sample, err := grid.FromSlice(size, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return New(sample, patternSize, orientations)
}

// FromCSV loads a sample from a headerless CSV file.
func FromCSV(path string, patternSize int, orientations []wfc.Orientation) (*TilePattern, error) {
	sample, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return New(sample, patternSize, orientations)
}

// FromReader reads a headerless CSV sample from r.
func FromReader(r io.Reader, patternSize int, orientations []wfc.Orientation) (*TilePattern, error) {
	sample, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return New(sample, patternSize, orientations)
}

// WithEngine wraps an already-built engine. Tests use it to inject fakes.
func WithEngine(sample *grid.Grid[uint32], patternSize int, engine Engine) *TilePattern {
	return &TilePattern{sample: sample, patternSize: patternSize, engine: engine}
}

// Sample returns the sample grid.
func (p *TilePattern) Sample() *grid.Grid[uint32] { return p.sample }

// PatternSize returns k.
func (p *TilePattern) PatternSize() int { return p.patternSize }

// Engine returns the engine the pattern collapses with.
func (p *TilePattern) Engine() Engine { return p.engine }

// Catalog returns the engine's catalog.
func (p *TilePattern) Catalog() Catalog { return p.engine.Catalog() }

// RunCollapse generates a size map, retrying up to retryTimes attempts.
func (p *TilePattern) RunCollapse(size grid.Size, retryTimes int, wrap wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (*grid.Grid[uint32], error) {
	out, _, err := p.RunCollapseReport(size, retryTimes, wrap, forbid, rng)
	return out, err
}

// RunCollapseReport is RunCollapse that also reports how many attempts were
// made. Attempts share rng, so attempt two continues where attempt one
// stopped. Contradictions are retried; any other error aborts at once.
func (p *TilePattern) RunCollapseReport(size grid.Size, retryTimes int, wrap wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (*grid.Grid[uint32], Report, error) {
	var report Report
	if size.W <= 0 || size.H <= 0 {
		return nil, report, fmt.Errorf("%w: output size %s", ErrInvalidArgument, size)
	}
	if retryTimes < 1 {
		return nil, report, fmt.Errorf("%w: retry count %d", ErrInvalidArgument, retryTimes)
	}
	if rng == nil {
		return nil, report, fmt.Errorf("%w: nil rng", ErrInvalidArgument)
	}
	if forbid == nil {
		forbid = wfc.ForbidNothing{}
	}

	var lastErr error
	for attempt := 1; attempt <= retryTimes; attempt++ {
		report.Attempts = attempt
		out, err := p.attempt(size, wrap, forbid, rng)
		if err == nil {
			logger.Info("Collapse succeeded", "size", size.String(), "attempts", attempt)
			return out, report, nil
		}
		if !errors.Is(err, wfc.ErrContradiction) {
			return nil, report, err
		}
		lastErr = err
		logger.Debug("Collapse attempt failed", "attempt", attempt, "of", retryTimes, "error", err)
	}

	logger.Info("Collapse failed", "size", size.String(), "attempts", retryTimes, "error", lastErr)
	return nil, report, &PropagationError{Attempts: retryTimes, Last: lastErr}
}

func (p *TilePattern) attempt(size grid.Size, wrap wfc.Wrap, forbid wfc.ForbidPattern, rng *rand.Rand) (*grid.Grid[uint32], error) {
	run, err := p.engine.NewAttempt(size, wrap, forbid, rng)
	if err != nil {
		return nil, err
	}
	for {
		status, err := run.Step(rng)
		if err != nil {
			return nil, err
		}
		if status == wfc.Complete {
			break
		}
	}

	wave := run.Wave()
	catalog := p.engine.Catalog()
	out := grid.New[uint32](size)
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			c := grid.Coord{X: x, Y: y}
			id, ok := wave.Chosen(c)
			if !ok {
				return nil, fmt.Errorf("%w: cell %s undecided after completion", wfc.ErrContradiction, c)
			}
			out.Set(c, catalog.TopLeftValue(id))
		}
	}
	return out, nil
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}
