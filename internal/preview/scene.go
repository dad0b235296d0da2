package preview

import (
	"image"
	"math/rand/v2"

	"github.com/reasv/wfctiled/internal/export"
	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/logger"
	"github.com/reasv/wfctiled/internal/tilemap"
	"github.com/reasv/wfctiled/internal/wfc"
)

// Scene generates the map shown by the viewer. Each Regenerate call draws a
// new seed from the scene's own stream so the sequence of maps is
// reproducible from the starting seed.
type Scene struct {
	Pattern *tilemap.TilePattern
	Size    grid.Size
	Wrap    wfc.Wrap
	Border  bool
	Retries int

	seeds *rand.Rand
	seed  uint64
	pix   *image.RGBA
}

// NewScene returns a scene whose first map uses seed.
func NewScene(pattern *tilemap.TilePattern, size grid.Size, wrap wfc.Wrap, border bool, retries int, seed uint64) *Scene {
	return &Scene{
		Pattern: pattern,
		Size:    size,
		Wrap:    wrap,
		Border:  border,
		Retries: retries,
		seeds:   tilemap.NewRand(seed),
		seed:    seed,
	}
}

// Seed returns the seed of the current map.
func (s *Scene) Seed() uint64 { return s.seed }

// Image returns the current map as pixels, or nil before the first
// successful generation.
func (s *Scene) Image() *image.RGBA { return s.pix }

// Generate collapses a map for the current seed.
func (s *Scene) Generate() error {
	var forbid wfc.ForbidPattern = wfc.ForbidNothing{}
	if s.Border {
		border, err := tilemap.NewForceBorderForbid(s.Pattern.Catalog(), s.Pattern.PatternSize())
		if err != nil {
			return err
		}
		forbid = border
	}

	out, report, err := s.Pattern.RunCollapseReport(s.Size, s.Retries, s.Wrap, forbid, tilemap.NewRand(s.seed))
	if err != nil {
		logger.Warning("Preview generation failed", "seed", s.seed, "attempts", report.Attempts, "error", err)
		return err
	}
	s.pix = export.ToImage(out)
	return nil
}

// Regenerate advances to the next seed and generates again.
func (s *Scene) Regenerate() error {
	s.seed = s.seeds.Uint64()
	return s.Generate()
}
