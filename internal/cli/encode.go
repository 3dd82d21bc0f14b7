package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sszkit/sszkit/internal/record"
	"github.com/sszkit/sszkit/internal/value"
)

// EncodeResult holds the encoded byte string for one value.
type EncodeResult struct {
	Type    string `json:"type"`
	Encoded string `json:"encoded"`
	Length  int    `json:"length"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <schema-dir> <type> <values-file>",
		Short: "Encode a YAML value file as a byte string",
		Long: `Encode field values against a compiled record type.

The values file is a YAML mapping from field names to values. Byte
fields take 0x-prefixed hex strings, lists take YAML sequences.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runEncode(opts *RootOptions, schemaDir, typeName, valuesPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, _, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}
	if lookupErr := lookupType(set, typeName); lookupErr != nil {
		return outputLoadError(formatter, lookupErr)
	}
	t, _ := set.Lookup(typeName)

	inst, buildErr := buildInstanceFromYAML(t, valuesPath)
	if buildErr != nil {
		return outputLoadError(formatter, buildErr)
	}

	encoded, err := t.Serialize(inst)
	if err != nil {
		_ = formatter.Error(ErrCodeConstruct, fmt.Sprintf("encoding %s: %v", typeName, err), nil)
		return WrapExitError(ExitCommandError, "encoding failed", err)
	}

	result := &EncodeResult{
		Type:    typeName,
		Encoded: "0x" + hex.EncodeToString(encoded),
		Length:  len(encoded),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s\n", result.Encoded)
	formatter.VerboseLog("%d byte(s)", result.Length)
	return nil
}

// buildInstanceFromYAML reads a YAML mapping of field values and
// constructs an instance of t from it.
func buildInstanceFromYAML(t *record.Type, path string) (*record.Instance, *LoadError) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("values file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeBadInput, Message: fmt.Sprintf("reading values file: %v", err)}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeBadInput, Message: fmt.Sprintf("parsing values file: %v", err)}
	}

	kwargs := make(map[string]value.Value, len(raw))
	for name, rv := range raw {
		v, err := value.FromGo(rv)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadInput, Message: fmt.Sprintf("field %q: %v", name, err)}
		}
		kwargs[name] = v
	}

	inst, err := t.New(nil, kwargs)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConstruct, Message: fmt.Sprintf("constructing %s: %v", t.Name(), err)}
	}
	return inst, nil
}
