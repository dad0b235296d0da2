package generate

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/reasv/wfctiled/internal/config"
)

// Job is one map to generate: a seed and the files to write it to.
type Job struct {
	Index   int
	Seed    uint64
	Outputs config.OutputsConfig
}

// JobsFromConfig expands cfg into count jobs. Job i uses cfg.Seed+i, and when
// count > 1 every output path gets a _NNN suffix before its extension. A zero
// seed is replaced with one derived from the current time.
func JobsFromConfig(cfg *config.GenerateConfig, count int) []Job {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	jobs := make([]Job, count)
	for i := range jobs {
		outputs := cfg.Outputs
		if count > 1 {
			outputs = config.OutputsConfig{
				CSV:   suffixed(outputs.CSV, i),
				Image: suffixed(outputs.Image, i),
				Tiled: suffixed(outputs.Tiled, i),
			}
		}
		jobs[i] = Job{Index: i, Seed: seed + uint64(i), Outputs: outputs}
	}
	return jobs
}

// suffixed turns "maps/out.csv" into "maps/out_007.csv" for i = 7.
func suffixed(path string, i int) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}
