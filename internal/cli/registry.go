package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sszkit/sszkit/internal/registry"
)

// RegistryOptions holds flags shared by the registry subcommands.
type RegistryOptions struct {
	*RootOptions
	DBPath string
}

// RegisterResult reports one registered type revision.
type RegisterResult struct {
	Name       string `json:"name"`
	RevisionID string `json:"revision_id"`
	SchemaHash string `json:"schema_hash"`
	Created    bool   `json:"created"`
}

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the schema revision registry",
		Long: `Persist compiled schema revisions in a SQLite registry.

Revisions are content-addressed by schema hash; re-registering an
unchanged type is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "sszkit.db", "registry database path")

	cmd.AddCommand(newRegistryRegisterCommand(opts))
	cmd.AddCommand(newRegistryListCommand(opts))
	cmd.AddCommand(newRegistryShowCommand(opts))

	return cmd
}

func newRegistryRegisterCommand(opts *RegistryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "register <schema-dir>",
		Short:         "Register compiled types as schema revisions",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryRegister(opts, args[0], cmd)
		},
	}
}

func runRegistryRegister(opts *RegistryOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	set, _, loadErr := loadSchemaSet(schemaDir)
	if loadErr != nil {
		return outputLoadError(formatter, loadErr)
	}

	reg, err := registry.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeRegistry, fmt.Sprintf("opening registry: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening registry", err)
	}
	defer reg.Close()

	results := make([]RegisterResult, 0, set.Len())
	for _, name := range set.Names() {
		t, _ := set.Lookup(name)
		if !t.HasFields() {
			formatter.VerboseLog("Skipping fieldless type: %s", name)
			continue
		}
		rev, created, err := reg.Register(cmd.Context(), t)
		if err != nil {
			_ = formatter.Error(ErrCodeRegistry, fmt.Sprintf("registering %s: %v", name, err), nil)
			return WrapExitError(ExitCommandError, "registering type", err)
		}
		results = append(results, RegisterResult{
			Name:       rev.Name,
			RevisionID: rev.RevisionID,
			SchemaHash: rev.SchemaHash,
			Created:    created,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	created := 0
	for _, r := range results {
		if r.Created {
			created++
		}
	}
	fmt.Fprintf(formatter.Writer, "✓ Registered %d type(s), %d new\n", len(results), created)
	for _, r := range results {
		marker := "="
		if r.Created {
			marker = "+"
		}
		fmt.Fprintf(formatter.Writer, "  %s %s  %s\n", marker, r.Name, r.SchemaHash)
	}
	return nil
}

func newRegistryListCommand(opts *RegistryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List registered schema revisions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryList(opts, cmd)
		},
	}
}

func runRegistryList(opts *RegistryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := registry.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeRegistry, fmt.Sprintf("opening registry: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening registry", err)
	}
	defer reg.Close()

	revs, err := reg.List(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeRegistry, fmt.Sprintf("listing revisions: %v", err), nil)
		return WrapExitError(ExitCommandError, "listing revisions", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(revs)
	}

	if len(revs) == 0 {
		fmt.Fprintln(formatter.Writer, "No revisions registered")
		return nil
	}
	for _, rev := range revs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %s\n",
			rev.RevisionID, rev.Name, rev.SchemaHash, rev.CreatedAt)
	}
	return nil
}

func newRegistryShowCommand(opts *RegistryOptions) *cobra.Command {
	var byHash string

	cmd := &cobra.Command{
		Use:           "show <name>",
		Short:         "Show the latest revision of a registered type",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runRegistryShow(opts, name, byHash, cmd)
		},
	}

	cmd.Flags().StringVar(&byHash, "hash", "", "look up by schema hash instead of name")

	return cmd
}

func runRegistryShow(opts *RegistryOptions, name, byHash string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if name == "" && byHash == "" {
		_ = formatter.Error(ErrCodeGeneric, "either a type name or --hash is required", nil)
		return NewExitError(ExitCommandError, "missing lookup key")
	}

	reg, err := registry.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeRegistry, fmt.Sprintf("opening registry: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening registry", err)
	}
	defer reg.Close()

	var rev registry.Revision
	if byHash != "" {
		rev, err = reg.GetByHash(cmd.Context(), byHash)
	} else {
		rev, err = reg.GetLatest(cmd.Context(), name)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("revision not found: %v", err), nil)
		return WrapExitError(ExitCommandError, "revision not found", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(rev)
	}

	fmt.Fprintf(formatter.Writer, "revision: %s\n", rev.RevisionID)
	fmt.Fprintf(formatter.Writer, "name:     %s\n", rev.Name)
	fmt.Fprintf(formatter.Writer, "hash:     %s\n", rev.SchemaHash)
	fmt.Fprintf(formatter.Writer, "created:  %s\n", rev.CreatedAt)
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, rev.Canonical)
	return nil
}
