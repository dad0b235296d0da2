package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reasv/wfctiled/internal/config"
	"github.com/reasv/wfctiled/internal/generate"
	"github.com/reasv/wfctiled/internal/logger"
	"github.com/reasv/wfctiled/internal/tilemap"
)

type generateOptions struct {
	configPath   string
	input        string
	patternSize  int
	orientations []string
	width        int
	height       int
	retries      int
	wrap         string
	seed         uint64
	border       bool
	count        int
	workers      int
	csv          string
	image        string
	tmx          string
	tileset      config.TileSetConfig
	journal      string
	manifest     string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one or more maps from a sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a generate config file")
	f.StringVar(&opts.input, "input", "", "Sample tile map (headerless CSV)")
	f.IntVar(&opts.patternSize, "pattern-size", 0, "Pattern edge length k")
	f.StringSliceVar(&opts.orientations, "orientation", nil, "Pattern orientation to extract (repeatable, or \"all\")")
	f.IntVar(&opts.width, "width", 0, "Output width in tiles")
	f.IntVar(&opts.height, "height", 0, "Output height in tiles")
	f.IntVar(&opts.retries, "retries", 0, "Collapse attempts before giving up")
	f.StringVar(&opts.wrap, "wrap", "", "Toroidal output axes: none, x, y or xy")
	f.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	f.BoolVar(&opts.border, "border", false, "Force the far edges to the sample's corner patterns")
	f.IntVar(&opts.count, "count", 0, "Number of maps to generate")
	f.IntVar(&opts.workers, "workers", 0, "Maps generated concurrently")
	f.StringVar(&opts.csv, "csv", "", "Write each map as CSV to this path")
	f.StringVar(&opts.image, "image", "", "Write each map as an image (.png, .bmp, .tif)")
	f.StringVar(&opts.tmx, "tmx", "", "Write each map as a Tiled TMX file")
	f.StringVar(&opts.tileset.Image, "tileset-image", "", "Tileset image referenced by TMX output")
	f.IntVar(&opts.tileset.ImageWidth, "tileset-image-width", 0, "Tileset image width in pixels")
	f.IntVar(&opts.tileset.ImageHeight, "tileset-image-height", 0, "Tileset image height in pixels")
	f.IntVar(&opts.tileset.TileWidth, "tileset-tile-width", 0, "Tile width in pixels")
	f.IntVar(&opts.tileset.TileHeight, "tileset-tile-height", 0, "Tile height in pixels")
	f.IntVar(&opts.tileset.TileCount, "tileset-tile-count", 0, "Number of tiles in the tileset")
	f.IntVar(&opts.tileset.Columns, "tileset-columns", 0, "Tile columns in the tileset image")
	f.StringVar(&opts.journal, "journal", "", "Record runs in this SQLite journal")
	f.StringVar(&opts.manifest, "manifest", "", "Write a YAML manifest of the batch to this path")
	return cmd
}

// resolve loads the config file and overlays every flag the user set.
func (o *generateOptions) resolve(cmd *cobra.Command) (*config.GenerateConfig, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("input", func() { cfg.Input = o.input })
	set("pattern-size", func() { cfg.PatternSize = o.patternSize })
	set("orientation", func() { cfg.Orientations = o.orientations })
	set("width", func() { cfg.Output.Width = o.width })
	set("height", func() { cfg.Output.Height = o.height })
	set("retries", func() { cfg.Retries = o.retries })
	set("wrap", func() { cfg.Wrap = o.wrap })
	set("seed", func() { cfg.Seed = o.seed })
	set("border", func() { cfg.Border = o.border })
	set("count", func() { cfg.Count = o.count })
	set("workers", func() { cfg.Workers = o.workers })
	set("csv", func() { cfg.Outputs.CSV = o.csv })
	set("image", func() { cfg.Outputs.Image = o.image })
	set("tmx", func() { cfg.Outputs.Tiled = o.tmx })
	set("tileset-image", func() { cfg.TileSet.Image = o.tileset.Image })
	set("tileset-image-width", func() { cfg.TileSet.ImageWidth = o.tileset.ImageWidth })
	set("tileset-image-height", func() { cfg.TileSet.ImageHeight = o.tileset.ImageHeight })
	set("tileset-tile-width", func() { cfg.TileSet.TileWidth = o.tileset.TileWidth })
	set("tileset-tile-height", func() { cfg.TileSet.TileHeight = o.tileset.TileHeight })
	set("tileset-tile-count", func() { cfg.TileSet.TileCount = o.tileset.TileCount })
	set("tileset-columns", func() { cfg.TileSet.Columns = o.tileset.Columns })
	set("journal", func() {
		cfg.Journal.Enabled = true
		cfg.Journal.Database.Driver = "sqlite"
		cfg.Journal.Database.SQLitePath = o.journal
	})
	set("manifest", func() { cfg.Manifest = o.manifest })

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.GenerateConfig) error {
	runner, err := generate.NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	jobs := generate.JobsFromConfig(cfg, cfg.Count)
	results, runErr := generate.RunBatch(cmd.Context(), runner, jobs, cfg.Workers)

	printResults(cmd.OutOrStdout(), results)

	if cfg.Manifest != "" {
		if err := generate.WriteManifest(cfg.Manifest, results); err != nil {
			logger.Error("Failed to write manifest", "path", cfg.Manifest, "error", err)
			if runErr == nil {
				return err
			}
		}
	}

	var perr *tilemap.PropagationError
	if errors.As(runErr, &perr) {
		return fmt.Errorf("no valid map after %d attempts: %w", perr.Attempts, runErr)
	}
	return runErr
}

func printResults(w io.Writer, results []*generate.Result) {
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Err != nil {
			fmt.Fprintf(w, "map %d  seed %d  FAILED after %d attempts: %v\n", r.Job.Index, r.Job.Seed, r.Attempts, r.Err)
			continue
		}
		fmt.Fprintf(w, "map %d  seed %d  attempts %d  digest %s\n", r.Job.Index, r.Job.Seed, r.Attempts, r.Digest[:16])
		for _, out := range r.Outputs {
			fmt.Fprintf(w, "  wrote %s\n", out)
		}
	}
}
