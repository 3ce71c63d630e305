package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphiz/acts-as-union/internal/fixture"
	"github.com/metaphiz/acts-as-union/internal/store"
)

// IngestResult holds the ingest command's JSON payload.
type IngestResult struct {
	Collection string `json:"collection"`
	Inserted   int    `json:"inserted"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <fixture.yaml>...",
		Short: "Load collection fixtures into the database",
		Long: `Ingest reads YAML fixture files and appends their records to the named
collections in declared order. Records without an id are assigned a fresh
UUID. Re-ingesting an existing id replaces that record's fields in place.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runIngest(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.DBPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	var results []IngestResult
	for _, path := range paths {
		f, err := fixture.Load(path)
		if err != nil {
			if ferr := formatter.Error(ErrCodeGeneric, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, fmt.Sprintf("fixture %s", path), err)
		}

		if err := st.EnsureCollection(ctx, f.Collection); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("fixture %s", path), err)
		}
		recs := f.ToRecords()
		for _, rec := range recs {
			if err := st.Insert(ctx, f.Collection, rec); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("fixture %s", path), err)
			}
		}

		formatter.VerboseLog("ingested %d record(s) into %q", len(recs), f.Collection)
		results = append(results, IngestResult{Collection: f.Collection, Inserted: len(recs)})
	}

	if opts.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		if err := formatter.Success(fmt.Sprintf("%s: %d record(s)", r.Collection, r.Inserted)); err != nil {
			return err
		}
	}
	return nil
}
