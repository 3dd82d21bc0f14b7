package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DecodeResult holds the decoded field values for one byte string.
type DecodeResult struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
	Length int            `json:"length"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <schema-dir> <type> <hex>",
		Short: "Decode a byte string into field values",
		Long: `Decode a hex-encoded byte string against a compiled record type.

The byte string must consume exactly; trailing bytes are an error.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runDecode(opts *RootOptions, schemaDir, typeName, hexStr string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, _, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}
	if lookupErr := lookupType(set, typeName); lookupErr != nil {
		return outputLoadError(formatter, lookupErr)
	}
	t, _ := set.Lookup(typeName)

	data, err := decodeHexArg(hexStr)
	if err != nil {
		_ = formatter.Error(ErrCodeBadInput, fmt.Sprintf("parsing hex input: %v", err), nil)
		return WrapExitError(ExitCommandError, "parsing hex input", err)
	}

	inst, err := t.DeserializeInstance(data)
	if err != nil {
		_ = formatter.Error(ErrCodeDecode, fmt.Sprintf("decoding %s: %v", typeName, err), nil)
		return WrapExitError(ExitFailure, "decoding failed", err)
	}

	result := &DecodeResult{
		Type:   typeName,
		Fields: inst.GoMap(),
		Length: len(data),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	out, err := yaml.Marshal(result.Fields)
	if err != nil {
		return WrapExitError(ExitCommandError, "rendering decoded fields", err)
	}
	fmt.Fprint(formatter.Writer, string(out))
	formatter.VerboseLog("%d byte(s) consumed", result.Length)
	return nil
}

// decodeHexArg parses a hex string argument, with or without the 0x
// prefix.
func decodeHexArg(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}
