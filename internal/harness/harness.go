// Package harness runs YAML-driven codec conformance scenarios.
//
// A scenario loads a schema directory, constructs record instances from
// declared field values, and verifies serialization, round trips, and
// hash tree roots against declared expectations. Results serialize
// deterministically so they can be pinned with golden fixtures.
package harness

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sszkit/sszkit/internal/record"
	"github.com/sszkit/sszkit/internal/schemadef"
	"github.com/sszkit/sszkit/internal/value"
)

// Result captures the outcome of running a scenario.
type Result struct {
	Scenario string       `json:"scenario"`
	Cases    []CaseResult `json:"cases"`
}

// CaseResult records the observed encoding for one case.
type CaseResult struct {
	Type    string `json:"type"`
	Encoded string `json:"encoded"`
	Length  int    `json:"length"`
	Root    string `json:"root"`
}

// Run executes a scenario: every case is constructed, serialized,
// decoded back, and hashed. Declared expectations are checked and the
// first failure aborts the run.
func Run(sc *Scenario) (*Result, error) {
	set, err := schemadef.LoadDir(sc.SchemaDir())
	if err != nil {
		return nil, fmt.Errorf("harness: loading schemas for %s: %w", sc.Name, err)
	}

	res := &Result{Scenario: sc.Name, Cases: make([]CaseResult, 0, len(sc.Cases))}
	for i, c := range sc.Cases {
		cr, err := runCase(set, c)
		if err != nil {
			return nil, fmt.Errorf("harness: %s case %d (%s): %w", sc.Name, i, c.Type, err)
		}
		res.Cases = append(res.Cases, cr)
	}
	return res, nil
}

func runCase(set *schemadef.Set, c Case) (CaseResult, error) {
	t, ok := set.Lookup(c.Type)
	if !ok {
		return CaseResult{}, fmt.Errorf("unknown type %q", c.Type)
	}

	inst, err := buildInstance(t, c.Values)
	if err != nil {
		return CaseResult{}, err
	}

	encoded, err := t.Serialize(inst)
	if err != nil {
		return CaseResult{}, fmt.Errorf("serialize: %w", err)
	}
	encodedHex := "0x" + hex.EncodeToString(encoded)
	if c.Encoded != "" && !strings.EqualFold(c.Encoded, encodedHex) {
		return CaseResult{}, fmt.Errorf("encoding mismatch: want %s, got %s", c.Encoded, encodedHex)
	}

	decoded, err := t.DeserializeInstance(encoded)
	if err != nil {
		return CaseResult{}, fmt.Errorf("decode: %w", err)
	}
	if !inst.Equal(decoded) {
		return CaseResult{}, fmt.Errorf("round trip produced a different instance")
	}

	root, err := inst.Root()
	if err != nil {
		return CaseResult{}, fmt.Errorf("hash tree root: %w", err)
	}
	rootHex := "0x" + hex.EncodeToString(root[:])
	if c.Root != "" && !strings.EqualFold(c.Root, rootHex) {
		return CaseResult{}, fmt.Errorf("root mismatch: want %s, got %s", c.Root, rootHex)
	}

	return CaseResult{
		Type:    c.Type,
		Encoded: encodedHex,
		Length:  len(encoded),
		Root:    rootHex,
	}, nil
}

func buildInstance(t *record.Type, raw map[string]any) (*record.Instance, error) {
	kwargs := make(map[string]value.Value, len(raw))
	for name, rv := range raw {
		v, err := value.FromGo(rv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		kwargs[name] = v
	}
	return t.New(nil, kwargs)
}
