package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphiz/acts-as-union/internal/viewdef"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Unions int                       `json:"unions"`
	Errors []viewdef.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <views-dir>",
		Short: "Validate union definitions without querying",
		Long: `Validate CUE union definitions without opening a database.

Performs syntax checking and consistency checks (missing sources, duplicate
names) so malformed definitions fail fast during development.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, viewsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, err := LoadViewDefs(viewsDir)
	if err != nil {
		var code string
		if loadErr, ok := err.(*LoadError); ok {
			code = loadErr.Code
		} else {
			code = ErrCodeGeneric
		}
		if ferr := formatter.Error(code, err.Error(), nil); ferr != nil {
			return ferr
		}
		return NewExitError(ExitCommandError, err.Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, viewsDir)

	validationErrors := viewdef.Validate(loadResult.Defs)
	if len(validationErrors) > 0 {
		result := ValidationResult{
			Valid:  false,
			Unions: len(loadResult.Defs),
			Errors: validationErrors,
		}
		if opts.Format == "json" {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else {
			for _, verr := range validationErrors {
				formatter.VerboseLog("invalid: %s", verr.Error())
			}
			if err := formatter.Error(ErrCodeInvalidDef,
				validationErrors[0].Error(), validationErrors); err != nil {
				return err
			}
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	result := ValidationResult{Valid: true, Unions: len(loadResult.Defs)}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("valid: %d union definition(s)", result.Unions))
}
