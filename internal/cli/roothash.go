package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sszkit/sszkit/internal/record"
)

// RootHashResult holds the hash tree root of one value.
type RootHashResult struct {
	Type string `json:"type"`
	Root string `json:"root"`
}

// NewRootHashCommand creates the root command, which computes the
// hash tree root of a value.
func NewRootHashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root <schema-dir> <type> <values-file|0xhex>",
		Short: "Compute the hash tree root of a value",
		Long: `Compute the hash tree root of a value against a compiled record type.

The value is given either as a YAML values file or as a 0x-prefixed
hex encoding, which is decoded first.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRootHash(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runRootHash(opts *RootOptions, schemaDir, typeName, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, _, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}
	if lookupErr := lookupType(set, typeName); lookupErr != nil {
		return outputLoadError(formatter, lookupErr)
	}
	t, _ := set.Lookup(typeName)

	var inst *record.Instance
	if strings.HasPrefix(input, "0x") {
		data, err := hex.DecodeString(strings.TrimPrefix(input, "0x"))
		if err != nil {
			_ = formatter.Error(ErrCodeBadInput, fmt.Sprintf("parsing hex input: %v", err), nil)
			return WrapExitError(ExitCommandError, "parsing hex input", err)
		}
		inst, err = t.DeserializeInstance(data)
		if err != nil {
			_ = formatter.Error(ErrCodeDecode, fmt.Sprintf("decoding %s: %v", typeName, err), nil)
			return WrapExitError(ExitFailure, "decoding failed", err)
		}
	} else {
		var buildErr *LoadError
		inst, buildErr = buildInstanceFromYAML(t, input)
		if buildErr != nil {
			return outputLoadError(formatter, buildErr)
		}
	}

	root, err := inst.Root()
	if err != nil {
		_ = formatter.Error(ErrCodeConstruct, fmt.Sprintf("hashing %s: %v", typeName, err), nil)
		return WrapExitError(ExitCommandError, "hashing failed", err)
	}

	result := &RootHashResult{
		Type: typeName,
		Root: "0x" + hex.EncodeToString(root[:]),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s\n", result.Root)
	return nil
}
