package viewdef

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// Validation error codes (E100-E199)
const (
	ErrNameEmpty       = "E101" // union name is empty
	ErrNoSources       = "E102" // union has no sources
	ErrBlankSource     = "E103" // blank source name
	ErrDuplicateSource = "E104" // same source listed twice in one union
	ErrDuplicateUnion  = "E105" // same union name defined twice
)

// ValidationError represents a definition validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks compiled definitions against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(defs []Def) []ValidationError {
	var errs []ValidationError

	seenUnions := make(map[string]bool, len(defs))
	for _, def := range defs {
		field := "union." + def.Name

		// E101: name is required
		if strings.TrimSpace(def.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   "union",
				Message: "union name is required and must be non-empty",
				Code:    ErrNameEmpty,
			})
		}

		// E105: duplicate union name
		if seenUnions[def.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "union is defined more than once",
				Code:    ErrDuplicateUnion,
			})
		}
		seenUnions[def.Name] = true

		// E102: at least one source required
		if len(def.Sources) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".sources",
				Message: "at least one source is required",
				Code:    ErrNoSources,
			})
		}

		seenSources := make(map[string]bool, len(def.Sources))
		for i, s := range def.Sources {
			// E103: blank source name
			if strings.TrimSpace(s) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.sources[%d]", field, i),
					Message: "source name must be non-empty",
					Code:    ErrBlankSource,
				})
				continue
			}
			// E104: duplicate source within one union
			if seenSources[s] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.sources[%d]", field, i),
					Message: fmt.Sprintf("source %q listed more than once", s),
					Code:    ErrDuplicateSource,
				})
			}
			seenSources[s] = true
		}
	}

	return errs
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
