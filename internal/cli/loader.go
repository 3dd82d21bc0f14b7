package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sszkit/sszkit/internal/schemadef"
)

// LoadError represents an error that occurred during schema loading,
// tagged with a CLI error code.
type LoadError struct {
	Code    string
	Message string
	Def     *schemadef.DefError // underlying definition error, if any
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	if e.Def != nil {
		return e.Def
	}
	return nil
}

// loadSchemaSet loads and compiles the schema directory, converting
// failures into coded LoadErrors for uniform CLI reporting.
func loadSchemaSet(dir string) (*schemadef.Set, int, *LoadError) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	fileCount, err := countCUEFiles(dir)
	if err != nil {
		return nil, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if fileCount == 0 {
		return nil, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	set, err := schemadef.LoadDir(dir)
	if err != nil {
		var defErr *schemadef.DefError
		if errors.As(err, &defErr) {
			return nil, fileCount, &LoadError{Code: ErrCodeSchema, Message: defErr.Error(), Def: defErr}
		}
		return nil, fileCount, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}
	return set, fileCount, nil
}

// countCUEFiles counts .cue files directly under dir.
func countCUEFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		n++
	}
	return n, nil
}

// lookupType resolves a type name in the loaded set.
func lookupType(set *schemadef.Set, name string) *LoadError {
	if _, ok := set.Lookup(name); ok {
		return nil
	}
	return &LoadError{
		Code:    ErrCodeUnknownType,
		Message: fmt.Sprintf("unknown type %q (loaded: %s)", name, strings.Join(set.Names(), ", ")),
	}
}

// outputLoadError reports a LoadError and returns the command-level
// exit error.
func outputLoadError(formatter *OutputFormatter, loadErr *LoadError) error {
	var details interface{}
	if loadErr.Def != nil && loadErr.Def.Pos.IsValid() {
		details = fmt.Sprintf("%s:%d:%d",
			filepath.Base(loadErr.Def.Pos.Filename()),
			loadErr.Def.Pos.Line(),
			loadErr.Def.Pos.Column())
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message), nil)
}
