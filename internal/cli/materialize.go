package cli

import (
	"github.com/spf13/cobra"
)

// NewMaterializeCommand creates the materialize command.
func NewMaterializeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize <union>",
		Short: "Flatten a union view into one deduplicated record list",
		Long: `Materialize concatenates every member collection of the named union,
in declared order, and removes duplicates while preserving first-occurrence
order. The result reflects the collections' current contents; nothing is
cached between invocations.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialize(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runMaterialize(opts *RootOptions, unionName string, cmd *cobra.Command) error {
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

	recs, err := view.Materialize(cmd.Context())
	if err != nil {
		if ferr := formatter.Error(ErrCodeQueryFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "materialize", err)
	}

	formatter.VerboseLog("union %q: %d record(s)", unionName, len(recs))
	return formatter.Records(recs)
}
