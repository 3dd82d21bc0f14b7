package schemadef

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
)

// Schema files declare record types under a top-level "record" struct:
//
//	record: Checkpoint: {
//		fields: [
//			{name: "epoch", codec: "uint64"},
//			{name: "root",  codec: "bytes32"},
//		]
//	}
//	record: SignedCheckpoint: {
//		inherits: ["Checkpoint"]
//		reserved: ["signature_domain"]
//	}
//
// A definition either lists its own fields or names ancestors to
// inherit them from. Files spanning one schema share a package clause
// so CUE unifies them into a single instance.

// LoadDir parses every CUE file in dir into type definitions, in
// source order, and compiles them into a Set.
func LoadDir(dir string) (*Set, error) {
	defs, err := ParseDir(dir)
	if err != nil {
		return nil, err
	}
	return CompileDefs(defs)
}

// ParseDir parses the CUE files in dir into raw type definitions
// without compiling them.
func ParseDir(dir string) ([]TypeDef, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("schema directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning schema directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return parseDefs(v)
}

// findCUEFiles lists .cue files directly under dir.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// parseDefs extracts type definitions from the built CUE value, in
// declaration order.
func parseDefs(v cue.Value) ([]TypeDef, error) {
	recVal := v.LookupPath(cue.ParsePath("record"))
	if !recVal.Exists() {
		return nil, fmt.Errorf("schema files declare no top-level \"record\" struct")
	}
	iter, err := recVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []TypeDef
	for iter.Next() {
		def, err := parseDef(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("schema files declare no record types")
	}
	return defs, nil
}

func parseDef(name string, v cue.Value) (TypeDef, error) {
	def := TypeDef{Name: name, Pos: v.Pos()}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if fieldsVal.Exists() {
		iter, err := fieldsVal.List()
		if err != nil {
			return def, &DefError{Type: name, Field: "fields", Message: "must be a list", Pos: fieldsVal.Pos()}
		}
		def.Fields = []FieldSpec{}
		for iter.Next() {
			fv := iter.Value()
			fieldName, err := stringAt(fv, "name")
			if err != nil {
				return def, &DefError{Type: name, Field: "fields", Message: err.Error(), Pos: fv.Pos()}
			}
			codec, err := stringAt(fv, "codec")
			if err != nil {
				return def, &DefError{Type: name, Field: fieldName, Message: err.Error(), Pos: fv.Pos()}
			}
			def.Fields = append(def.Fields, FieldSpec{Name: fieldName, Codec: codec, Pos: fv.Pos()})
		}
	}

	var err error
	if def.Inherits, err = stringListAt(v, "inherits"); err != nil {
		return def, &DefError{Type: name, Field: "inherits", Message: err.Error(), Pos: v.Pos()}
	}
	if def.Reserved, err = stringListAt(v, "reserved"); err != nil {
		return def, &DefError{Type: name, Field: "reserved", Message: err.Error(), Pos: v.Pos()}
	}

	if def.Fields == nil && len(def.Inherits) == 0 {
		return def, &DefError{
			Type:    name,
			Message: "definition needs a fields list or ancestors to inherit from",
			Pos:     v.Pos(),
		}
	}
	return def, nil
}

func stringAt(v cue.Value, path string) (string, error) {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return "", fmt.Errorf("%s is required", path)
	}
	s, err := sv.String()
	if err != nil {
		return "", fmt.Errorf("%s must be a string: %v", path, err)
	}
	return s, nil
}

func stringListAt(v cue.Value, path string) ([]string, error) {
	lv := v.LookupPath(cue.ParsePath(path))
	if !lv.Exists() {
		return nil, nil
	}
	iter, err := lv.List()
	if err != nil {
		return nil, fmt.Errorf("%s must be a list of strings: %v", path, err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("%s must be a list of strings: %v", path, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &DefError{Type: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
