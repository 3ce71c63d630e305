// Package cli implements the acts-as-union command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string // SQLite database holding the collections
	Views   string // directory of CUE union definitions
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the acts-as-union CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "actsunion",
		Short: "Virtual union views over record collections",
		Long: "actsunion queries several ordered record collections through one " +
			"named union view: lookups and filtered searches fan out to the " +
			"member collections and merge back in declared order.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the collections database")
	cmd.PersistentFlags().StringVar(&opts.Views, "views", "", "directory of CUE union definitions")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewMaterializeCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
