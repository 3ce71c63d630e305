package cli

import (
	"io"

	"github.com/metaphiz/acts-as-union/internal/store"
	"github.com/metaphiz/acts-as-union/registry"
	"github.com/metaphiz/acts-as-union/source"
	"github.com/metaphiz/acts-as-union/union"
)

// queryEnv bundles the opened collections database and the compiled union
// registry for one command invocation.
type queryEnv struct {
	store *store.Store
	reg   *registry.Registry
}

// openQueryEnv opens the database and loads union definitions from the
// global --db and --views flags.
func openQueryEnv(opts *RootOptions) (*queryEnv, error) {
	if opts.DBPath == "" {
		return nil, NewExitError(ExitCommandError, "--db is required")
	}
	if opts.Views == "" {
		return nil, NewExitError(ExitCommandError, "--views is required")
	}

	loadResult, err := LoadViewDefs(opts.Views)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading union definitions", err)
	}

	reg, err := BuildRegistry(loadResult.Defs)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "building union registry", err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}

	return &queryEnv{store: st, reg: reg}, nil
}

// Close releases the database connection.
func (e *queryEnv) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// resolveView constructs a fresh union view for the named definition over
// the store's current collections.
func (e *queryEnv) resolveView(name string) (*union.View, error) {
	provider := registry.ProviderFunc(func(collection string) (source.Source, error) {
		return e.store.Collection(collection), nil
	})
	view, err := e.reg.Resolve(provider, name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolving union view", err)
	}
	return view, nil
}

// newFormatter builds the output formatter for a command.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut, // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
