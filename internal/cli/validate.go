package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ValidationResult holds the outcome of schema validation.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	FileCount int      `json:"file_count"`
	TypeCount int      `json:"type_count"`
	Types     []string `json:"types,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate CUE schemas without emitting output",
		Long: `Validate CUE record definitions.

Checks field declarations, inheritance and codec expressions, and
reports the first definition error with its source position.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, fileCount, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		// Definition errors are validation failures; path and load
		// problems are command errors.
		if loadErr.Code != ErrCodeSchema {
			return outputLoadError(formatter, loadErr)
		}
		return outputValidateFailure(formatter, loadErr)
	}

	result := &ValidationResult{
		Valid:     true,
		FileCount: fileCount,
		TypeCount: set.Len(),
		Types:     set.Names(),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d type(s) valid across %d file(s)\n", result.TypeCount, result.FileCount)
	for _, name := range result.Types {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	return nil
}

// outputValidateFailure reports a definition error with exit code 1.
func outputValidateFailure(formatter *OutputFormatter, loadErr *LoadError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitFailure, loadErr.Message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	if loadErr.Def != nil && loadErr.Def.Pos.IsValid() {
		fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
			filepath.Base(loadErr.Def.Pos.Filename()),
			loadErr.Def.Pos.Line(),
			loadErr.Def.Pos.Column())
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", loadErr.Code, loadErr.Message)
	return NewExitError(ExitFailure, loadErr.Message)
}
