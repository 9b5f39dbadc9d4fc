package diagnostics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GroundTruthEntry is one expected item. In YAML an entry is either a bare
// string or a mapping with name and count.
type GroundTruthEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// UnmarshalYAML accepts both "Wrench" and {name: Wrench, count: 2}.
func (e *GroundTruthEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Name = value.Value
		e.Count = 1
		return nil
	}
	type plain GroundTruthEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Count <= 0 {
		p.Count = 1
	}
	*e = GroundTruthEntry(p)
	return nil
}

// GroundTruth is the known-correct inventory for one screenshot.
type GroundTruth struct {
	Items []GroundTruthEntry `yaml:"items"`
}

// ExpectedNames expands the ground truth into the flat name list the
// analyzer consumes: an entry with count N contributes N names.
func (g GroundTruth) ExpectedNames() []string {
	out := []string{}
	for _, e := range g.Items {
		n := e.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, e.Name)
		}
	}
	return out
}

// LoadGroundTruth reads a ground-truth YAML file: either a bare sequence of
// entries or a mapping with an items key.
func LoadGroundTruth(path string) (GroundTruth, error) {
	var gt GroundTruth
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided ground-truth path is expected
	if err != nil {
		return gt, fmt.Errorf("failed to read ground truth: %w", err)
	}

	if err := yaml.Unmarshal(data, &gt); err != nil || len(gt.Items) == 0 {
		var entries []GroundTruthEntry
		if err2 := yaml.Unmarshal(data, &entries); err2 != nil {
			if err == nil {
				err = err2
			}
			return gt, fmt.Errorf("failed to parse ground truth %s: %w", path, err)
		}
		gt.Items = entries
	}
	if len(gt.Items) == 0 {
		return gt, fmt.Errorf("ground truth %s contains no items", path)
	}
	return gt, nil
}
