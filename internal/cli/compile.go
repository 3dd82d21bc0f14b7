package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sszkit/sszkit/internal/record"
	"github.com/sszkit/sszkit/internal/schemadef"
	"github.com/sszkit/sszkit/internal/sedes"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// FieldSummary describes one declared field of a compiled type.
type FieldSummary struct {
	Name  string `json:"name"`
	Codec string `json:"codec"`
	Slot  string `json:"slot"`
}

// TypeSummary describes one compiled record type.
type TypeSummary struct {
	Name       string         `json:"name"`
	Fields     []FieldSummary `json:"fields,omitempty"`
	HasFields  bool           `json:"has_fields"`
	Static     bool           `json:"static"`
	StaticSize int            `json:"static_size,omitempty"`
	SchemaHash string         `json:"schema_hash,omitempty"`
}

// CompilationResult holds the compiled type summaries.
type CompilationResult struct {
	Types []TypeSummary `json:"types"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir>",
		Short: "Compile CUE schemas to record types",
		Long: `Compile CUE record definitions into type descriptors.

The compiler parses CUE files, validates field declarations, allocates
storage slots and reports each type's layout and schema hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, fileCount, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", fileCount, schemaDir)

	result := &CompilationResult{Types: summarizeSet(set)}
	for _, ts := range result.Types {
		formatter.VerboseLog("Compiled type: %s", ts.Name)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// summarizeSet builds summaries for every type in the set, in
// declaration order.
func summarizeSet(set *schemadef.Set) []TypeSummary {
	summaries := make([]TypeSummary, 0, set.Len())
	for _, name := range set.Names() {
		t, _ := set.Lookup(name)
		summaries = append(summaries, summarizeType(t))
	}
	return summaries
}

func summarizeType(t *record.Type) TypeSummary {
	ts := TypeSummary{Name: t.Name(), HasFields: t.HasFields()}
	if !t.HasFields() {
		return ts
	}

	desc := t.Descriptor()
	for i, f := range desc.Fields {
		ts.Fields = append(ts.Fields, FieldSummary{
			Name:  f.Name,
			Codec: sedes.Name(f.Codec),
			Slot:  desc.StorageSlots[i],
		})
	}
	ts.SchemaHash = t.SchemaHash()
	ts.Static = t.IsStaticSized()
	if ts.Static {
		size, err := t.StaticSize()
		if err == nil {
			ts.StaticSize = size
		}
	}
	return ts
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d type(s)\n\n", len(result.Types))

	for _, ts := range result.Types {
		if !ts.HasFields {
			fmt.Fprintf(formatter.Writer, "%s: no fields declared\n\n", ts.Name)
			continue
		}
		size := "dynamic"
		if ts.Static {
			size = fmt.Sprintf("%d byte(s)", ts.StaticSize)
		}
		fmt.Fprintf(formatter.Writer, "%s (%s)\n", ts.Name, size)
		for _, f := range ts.Fields {
			fmt.Fprintf(formatter.Writer, "  %s: %s  [slot %s]\n", f.Name, f.Codec, f.Slot)
		}
		fmt.Fprintf(formatter.Writer, "  hash: %s\n\n", ts.SchemaHash)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote descriptors to %s\n", outputFile)
	}

	return nil
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling descriptors: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
