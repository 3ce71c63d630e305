package cli

import (
	"github.com/spf13/cobra"

	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/union"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <union> <id>...",
		Short: "Look up records by identifier across a union view",
		Long: `Get probes every member collection of the named union for each
identifier, in the order given. The lookup is all-or-nothing: if any
requested identifier is in no member, the whole command fails and exits
non-zero, naming the requested identifiers.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]record.ID, 0, len(args)-1)
			for _, a := range args[1:] {
				ids = append(ids, record.ID(a))
			}
			return runGet(rootOpts, args[0], ids, cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, unionName string, ids []record.ID, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	env, err := openQueryEnv(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	view, err := env.resolveView(unionName)
	if err != nil {
		return err
	}

	recs, err := view.FindByIDs(cmd.Context(), ids...)
	if err != nil {
		if union.IsNotFound(err) {
			if ferr := formatter.Error(ErrCodeNoMatch, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitFailure, "get", err)
		}
		if ferr := formatter.Error(ErrCodeQueryFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "get", err)
	}

	return formatter.Records(recs)
}
