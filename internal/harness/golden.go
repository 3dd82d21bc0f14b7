package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes the scenario at path and pins the result
// against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, path string) *Result {
	t.Helper()

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("loading scenario: %v", err)
	}
	res, err := Run(sc)
	if err != nil {
		t.Fatalf("running scenario: %v", err)
	}

	snapshot, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		t.Fatalf("marshaling result: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, sc.Name, snapshot)
	return res
}
