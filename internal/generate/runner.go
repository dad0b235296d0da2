package generate

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/reasv/wfctiled/internal/config"
	"github.com/reasv/wfctiled/internal/database"
	"github.com/reasv/wfctiled/internal/export"
	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/logger"
	"github.com/reasv/wfctiled/internal/tilemap"
	"github.com/reasv/wfctiled/internal/wfc"
)

// Runner generates maps from one sample under one configuration.
// Run is safe for concurrent use.
type Runner struct {
	Pattern *tilemap.TilePattern
	Border  bool
	Journal *database.Database // nil disables journaling

	cfg     *config.GenerateConfig
	size    grid.Size
	wrap    wfc.Wrap
	tileset export.TileSet
}

// Result describes one generated map.
type Result struct {
	ID       string
	Job      Job
	Grid     *grid.Grid[uint32]
	Attempts int
	Digest   string
	Outputs  []string
	Err      error
}

// NewRunner validates cfg, loads the sample and opens the journal when it is
// enabled. With border set, the boundary constraint is built once here so a
// sample too small for the pattern size fails before any job runs.
func NewRunner(cfg *config.GenerateConfig) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	orientations, err := cfg.OrientationList()
	if err != nil {
		return nil, err
	}
	wrap, err := cfg.WrapMode()
	if err != nil {
		return nil, err
	}

	pattern, err := tilemap.FromCSV(cfg.Input, cfg.PatternSize, orientations)
	if err != nil {
		return nil, fmt.Errorf("loading sample %s: %w", cfg.Input, err)
	}
	if cfg.Border {
		border, err := tilemap.NewForceBorderForbid(pattern.Catalog(), cfg.PatternSize)
		if err != nil {
			return nil, err
		}
		if border.Ambiguous() {
			logger.Warning("Border corner holds several patterns; every attempt will contradict",
				"input", cfg.Input,
				"patterns", len(border.AllowedPatterns()),
				"orientations", cfg.Orientations)
		}
	}

	r := &Runner{
		Pattern: pattern,
		Border:  cfg.Border,
		cfg:     cfg,
		size:    cfg.OutputSize(),
		wrap:    wrap,
		tileset: export.TileSet{
			ImagePath: cfg.TileSet.Image,
			ImageSize: grid.Size{W: cfg.TileSet.ImageWidth, H: cfg.TileSet.ImageHeight},
			TileSize:  grid.Size{W: cfg.TileSet.TileWidth, H: cfg.TileSet.TileHeight},
			TileCount: cfg.TileSet.TileCount,
			Columns:   cfg.TileSet.Columns,
		},
	}

	if cfg.Journal.Enabled {
		db, err := database.OpenWithConfig(cfg.Journal.Database)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		r.Journal = db
	}

	sample := pattern.Sample().Size()
	logger.Info("Sample loaded",
		"input", cfg.Input,
		"sample", sample.String(),
		"pattern_size", cfg.PatternSize,
		"border", cfg.Border)
	return r, nil
}

// Close releases the journal.
func (r *Runner) Close() error {
	if r.Journal == nil {
		return nil
	}
	return r.Journal.Close()
}

// Run generates one map. Each call owns its rng and boundary constraint.
// The returned Result is non-nil even on failure so callers can report the
// attempts made.
func (r *Runner) Run(job Job) (*Result, error) {
	result := &Result{ID: uuid.NewString(), Job: job}
	log := logger.With("job", job.Index, "seed", job.Seed)

	err := r.run(job, result)
	result.Err = err
	if err != nil {
		log.Warn("Map generation failed", "attempts", result.Attempts, "error", err)
	} else {
		log.Info("Map generated", "attempts", result.Attempts, "digest", result.Digest, "outputs", result.Outputs)
	}

	if jerr := r.record(result); jerr != nil {
		if err == nil {
			err = jerr
			result.Err = err
		}
		log.Error("Failed to record run", "error", jerr)
	}
	return result, err
}

func (r *Runner) run(job Job, result *Result) error {
	rng := tilemap.NewRand(job.Seed)

	var forbid wfc.ForbidPattern = wfc.ForbidNothing{}
	if r.Border {
		border, err := tilemap.NewForceBorderForbid(r.Pattern.Catalog(), r.Pattern.PatternSize())
		if err != nil {
			return err
		}
		forbid = border
	}

	out, report, err := r.Pattern.RunCollapseReport(r.size, r.cfg.Retries, r.wrap, forbid, rng)
	result.Attempts = report.Attempts
	if err != nil {
		return err
	}
	result.Grid = out
	result.Digest = Digest(out)

	return r.export(out, job.Outputs, result)
}

func (r *Runner) export(out *grid.Grid[uint32], outputs config.OutputsConfig, result *Result) error {
	writers := []struct {
		path string
		save func(string) error
	}{
		{outputs.CSV, func(p string) error { return export.SaveCSV(p, out) }},
		{outputs.Image, func(p string) error { return export.SaveImage(p, out) }},
		{outputs.Tiled, func(p string) error { return export.SaveTiled(p, out, r.tileset) }},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
			return fmt.Errorf("%w: %v", tilemap.ErrIO, err)
		}
		if err := w.save(w.path); err != nil {
			return err
		}
		result.Outputs = append(result.Outputs, w.path)
	}
	return nil
}

func (r *Runner) record(result *Result) error {
	if r.Journal == nil {
		return nil
	}

	sample := r.Pattern.Sample().Size()
	run := &database.Run{
		ID:           result.ID,
		InputPath:    r.cfg.Input,
		SampleWidth:  sample.W,
		SampleHeight: sample.H,
		PatternSize:  r.Pattern.PatternSize(),
		OutputWidth:  r.size.W,
		OutputHeight: r.size.H,
		Wrap:         r.wrap.String(),
		Seed:         result.Job.Seed,
		Retries:      r.cfg.Retries,
		Attempts:     result.Attempts,
		Border:       r.Border,
		Status:       database.StatusSucceeded,
		Digest:       result.Digest,
	}
	if result.Err != nil {
		run.Status = database.StatusFailed
		run.Error = result.Err.Error()
	}
	return r.Journal.RecordRun(run)
}

// Digest returns the hex BLAKE2b-256 of the grid's dimensions and values.
func Digest(g *grid.Grid[uint32]) string {
	h, _ := blake2b.New256(nil)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(g.Width()))
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], uint32(g.Height()))
	h.Write(buf[:])
	for _, v := range g.Cells() {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
