package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metaphiz/acts-as-union/query"
	"github.com/metaphiz/acts-as-union/record"
)

// FindOptions holds flags for the find command.
type FindOptions struct {
	Where []string // field=op:value predicates
	First bool     // return only the first match
	Limit int      // per-member result limit
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{}

	cmd := &cobra.Command{
		Use:   "find <union>",
		Short: "Run a filtered search across a union view",
		Long: `Find fans the query out to every member collection of the named union
and merges the results in member order.

Predicates use --where field=op:value with operators eq, neq, gt, gte, lt,
lte. Values are parsed as integers, then booleans, then strings:

  actsunion find orders --where status=eq:pending --where total=gte:100

With --first, only the match from the first member in declared order is
printed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "predicate as field=op:value (repeatable)")
	cmd.Flags().BoolVar(&opts.First, "first", false, "return only the first match in member order")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "per-member result limit (0 = no limit)")

	return cmd
}

func runFind(rootOpts *RootOptions, opts *FindOptions, unionName string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, err := parseWhere(opts.Where)
	if err != nil {
		if ferr := formatter.Error(ErrCodeBadQuery, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "parsing --where", err)
	}
	if opts.Limit > 0 {
		q = q.WithLimit(opts.Limit)
	}

	env, err := openQueryEnv(rootOpts)
	if err != nil {
		return err
	}
	defer env.Close()

	view, err := env.resolveView(unionName)
	if err != nil {
		return err
	}

	var recs []*record.Record
	if opts.First {
		rec, err := view.FindFirst(cmd.Context(), q)
		if err != nil {
			if ferr := formatter.Error(ErrCodeQueryFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "find first", err)
		}
		if rec != nil {
			recs = append(recs, rec)
		}
	} else {
		sub, err := view.FindAll(cmd.Context(), q)
		if err != nil {
			if ferr := formatter.Error(ErrCodeQueryFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "find all", err)
		}
		recs, err = sub.Materialize(cmd.Context())
		if err != nil {
			if ferr := formatter.Error(ErrCodeQueryFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "find all", err)
		}
	}

	formatter.VerboseLog("union %q: %d match(es)", unionName, len(recs))
	return formatter.Records(recs)
}

// parseWhere converts --where flags into a query.
// Each flag has the form field=op:value, e.g. status=eq:active.
func parseWhere(exprs []string) (query.Query, error) {
	preds := make([]query.Predicate, 0, len(exprs))
	for _, expr := range exprs {
		field, rest, ok := strings.Cut(expr, "=")
		if !ok || field == "" {
			return query.Query{}, fmt.Errorf("invalid --where %q: want field=op:value", expr)
		}
		opText, valText, ok := strings.Cut(rest, ":")
		if !ok {
			return query.Query{}, fmt.Errorf("invalid --where %q: want field=op:value", expr)
		}

		op, err := parseOp(opText)
		if err != nil {
			return query.Query{}, fmt.Errorf("invalid --where %q: %w", expr, err)
		}

		preds = append(preds, query.Predicate{Field: field, Op: op, Value: parseValue(valText)})
	}
	return query.New(preds...), nil
}

// parseOp maps the textual operator to a query operator.
func parseOp(s string) (query.Op, error) {
	switch s {
	case "eq":
		return query.OpEq, nil
	case "neq":
		return query.OpNeq, nil
	case "gt":
		return query.OpGt, nil
	case "gte":
		return query.OpGte, nil
	case "lt":
		return query.OpLt, nil
	case "lte":
		return query.OpLte, nil
	default:
		return "", fmt.Errorf("unknown operator %q (want eq|neq|gt|gte|lt|lte)", s)
	}
}

// parseValue types a predicate value: integer, then boolean, then string.
func parseValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
