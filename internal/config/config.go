package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/reasv/wfctiled/internal/database"
	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/wfc"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// GenerateConfig holds the settings for one generate invocation.
type GenerateConfig struct {
	// Input is the sample tile map, a headerless CSV of tile values.
	Input string `yaml:"input"`

	// PatternSize is the edge length k of the overlapping patterns.
	PatternSize int `yaml:"pattern_size"`

	// Orientations lists the pattern symmetries to extract ("original",
	// "cw90", ..., or "all").
	Orientations []string `yaml:"orientations"`

	Output OutputConfig `yaml:"output"`

	// Retries is the number of collapse attempts before giving up.
	Retries int `yaml:"retries"`

	// Wrap selects the toroidal axes of the output: none, x, y or xy.
	Wrap string `yaml:"wrap"`

	// Seed feeds the random generator. 0 picks a time-based seed.
	Seed uint64 `yaml:"seed"`

	// Border forces the far edges of the output to the sample's corner
	// patterns so the map tiles seamlessly.
	Border bool `yaml:"border"`

	// Count is the number of maps to generate; job i uses Seed+i.
	Count int `yaml:"count"`

	// Workers bounds how many maps are generated concurrently.
	Workers int `yaml:"workers"`

	Outputs  OutputsConfig `yaml:"outputs"`
	TileSet  TileSetConfig `yaml:"tileset"`
	Journal  JournalConfig `yaml:"journal"`
	Manifest string        `yaml:"manifest"`
}

// OutputConfig is the size of the generated map in tiles.
type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// OutputsConfig names the files written for each map. Empty paths are skipped.
type OutputsConfig struct {
	CSV   string `yaml:"csv"`
	Image string `yaml:"image"`
	Tiled string `yaml:"tiled"`
}

// TileSetConfig describes the sprite sheet referenced by Tiled output.
type TileSetConfig struct {
	Image       string `yaml:"image"`
	ImageWidth  int    `yaml:"image_width"`
	ImageHeight int    `yaml:"image_height"`
	TileWidth   int    `yaml:"tile_width"`
	TileHeight  int    `yaml:"tile_height"`
	TileCount   int    `yaml:"tile_count"`
	Columns     int    `yaml:"columns"`
}

// JournalConfig controls recording of runs in the database.
type JournalConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Database database.Config `yaml:",inline"`
}

// DefaultConfig returns a GenerateConfig with the stock settings.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		PatternSize:  2,
		Orientations: []string{"original"},
		Output:       OutputConfig{Width: 48, Height: 48},
		Retries:      10,
		Wrap:         "xy",
		Count:        1,
		Workers:      runtime.NumCPU(),
		TileSet: TileSetConfig{
			TileWidth:  32,
			TileHeight: 32,
		},
		Journal: JournalConfig{
			Database: database.DefaultConfig("data/journal.db"),
		},
	}
}

// LoadConfig loads generation settings from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GenerateConfig, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// OutputSize returns the configured output dimensions.
func (c *GenerateConfig) OutputSize() grid.Size {
	return grid.Size{W: c.Output.Width, H: c.Output.Height}
}

// WrapMode parses Wrap.
func (c *GenerateConfig) WrapMode() (wfc.Wrap, error) {
	return wfc.ParseWrap(c.Wrap)
}

// OrientationList parses Orientations.
func (c *GenerateConfig) OrientationList() ([]wfc.Orientation, error) {
	return wfc.ParseOrientations(c.Orientations)
}

// Validate reports the first invalid setting.
func (c *GenerateConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}

	switch {
	case c.Input == "":
		return invalid("input is required")
	case c.PatternSize < 1:
		return invalid("pattern_size must be at least 1, got %d", c.PatternSize)
	case c.Output.Width < 1 || c.Output.Height < 1:
		return invalid("output size must be positive, got %dx%d", c.Output.Width, c.Output.Height)
	case c.Retries < 1:
		return invalid("retries must be at least 1, got %d", c.Retries)
	case c.Count < 1:
		return invalid("count must be at least 1, got %d", c.Count)
	case c.Workers < 1:
		return invalid("workers must be at least 1, got %d", c.Workers)
	}

	if _, err := c.WrapMode(); err != nil {
		return invalid("%v", err)
	}
	if _, err := c.OrientationList(); err != nil {
		return invalid("%v", err)
	}

	if c.Outputs.Tiled != "" {
		ts := c.TileSet
		switch {
		case ts.Image == "":
			return invalid("tileset.image is required for tiled output")
		case ts.TileWidth < 1 || ts.TileHeight < 1:
			return invalid("tileset tile size must be positive")
		case ts.ImageWidth < 1 || ts.ImageHeight < 1:
			return invalid("tileset image size must be positive")
		case ts.TileCount < 1 || ts.Columns < 1:
			return invalid("tileset tile_count and columns must be positive")
		}
	}

	if c.Journal.Enabled {
		switch database.DialectType(c.Journal.Database.Driver) {
		case database.DialectSQLite:
			if c.Journal.Database.SQLitePath == "" {
				return invalid("journal.sqlite_path is required for the sqlite driver")
			}
		case database.DialectPostgres:
			if c.Journal.Database.Postgres.Database == "" {
				return invalid("journal.postgres.database is required for the postgres driver")
			}
		default:
			return invalid("journal.driver must be sqlite or postgres, got %q", c.Journal.Database.Driver)
		}
	}

	return nil
}
