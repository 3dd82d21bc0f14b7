package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a codec conformance scenario.
// A scenario names a schema directory and a list of cases; each case
// constructs an instance from field values and checks its encoding,
// round trip, and hash tree root.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// fixture name when the scenario runs under RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario covers.
	Description string `yaml:"description,omitempty"`

	// Schemas is the schema directory, relative to the scenario file.
	Schemas string `yaml:"schemas"`

	// Cases lists the encodings to verify, in order.
	Cases []Case `yaml:"cases"`

	// dir is the directory the scenario file was loaded from.
	dir string
}

// Case is a single construct-encode-decode check within a scenario.
type Case struct {
	// Type is the record type name to instantiate.
	Type string `yaml:"type"`

	// Values maps field names to plain Go values, as decoded from YAML.
	Values map[string]any `yaml:"values"`

	// Encoded, when set, is the expected serialization as 0x-prefixed hex.
	Encoded string `yaml:"encoded,omitempty"`

	// Root, when set, is the expected hash tree root as 0x-prefixed hex.
	Root string `yaml:"root,omitempty"`
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("harness: parsing scenario %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("harness: scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarios loads every .yaml scenario under dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("harness: reading scenario dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("missing name")
	}
	if sc.Schemas == "" {
		return fmt.Errorf("missing schemas directory")
	}
	if len(sc.Cases) == 0 {
		return fmt.Errorf("no cases")
	}
	for i, c := range sc.Cases {
		if c.Type == "" {
			return fmt.Errorf("case %d: missing type", i)
		}
	}
	return nil
}

// SchemaDir resolves the scenario's schema directory against the
// scenario file location.
func (sc *Scenario) SchemaDir() string {
	if filepath.IsAbs(sc.Schemas) || sc.dir == "" {
		return sc.Schemas
	}
	return filepath.Join(sc.dir, sc.Schemas)
}
