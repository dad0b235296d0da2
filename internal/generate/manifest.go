package generate

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reasv/wfctiled/internal/tilemap"
)

// manifestYAML is the on-disk run summary.
type manifestYAML struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Maps        yaml.Node `yaml:"maps"`
}

// WriteManifest writes a YAML summary of results to path. Nil results (jobs
// that never started) are skipped.
func WriteManifest(path string, results []*Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", tilemap.ErrIO, err)
	}
	if err := EncodeManifest(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", tilemap.ErrIO, path, err)
	}
	return nil
}

// EncodeManifest writes the manifest for results to w.
func EncodeManifest(w io.Writer, results []*Result) error {
	count := 0
	for _, r := range results {
		if r != nil {
			count++
		}
	}
	fmt.Fprintf(w, "# wfctiled run manifest\n")
	fmt.Fprintf(w, "# Maps: %d\n\n", count)

	manifest := &manifestYAML{
		GeneratedAt: time.Now().UTC(),
		Maps:        mapsNode(results),
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("%w: encoding manifest: %v", tilemap.ErrIO, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: encoding manifest: %v", tilemap.ErrIO, err)
	}
	return nil
}

// mapsNode renders results as a sequence with a fixed key order per entry.
func mapsNode(results []*Result) yaml.Node {
	node := yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range results {
		if r == nil {
			continue
		}
		entry := &yaml.Node{Kind: yaml.MappingNode}
		addStringField(entry, "id", r.ID)
		addIntField(entry, "index", int64(r.Job.Index))
		addScalarField(entry, "seed", strconv.FormatUint(r.Job.Seed, 10), "!!int")
		addIntField(entry, "attempts", int64(r.Attempts))
		if r.Err != nil {
			addStringField(entry, "status", "failed")
			addStringField(entry, "error", r.Err.Error())
		} else {
			addStringField(entry, "status", "succeeded")
			addStringField(entry, "digest", r.Digest)
		}
		if len(r.Outputs) > 0 {
			addSequenceField(entry, "outputs", r.Outputs)
		}
		node.Content = append(node.Content, entry)
	}
	return node
}

func addStringField(node *yaml.Node, key, value string) {
	addScalarField(node, key, value, "!!str")
}

func addIntField(node *yaml.Node, key string, value int64) {
	addScalarField(node, key, strconv.FormatInt(value, 10), "!!int")
}

func addScalarField(node *yaml.Node, key, value, tag string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
	)
}

func addSequenceField(node *yaml.Node, key string, values []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: v, Tag: "!!str"})
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		seq,
	)
}
