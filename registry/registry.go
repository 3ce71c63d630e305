// Package registry attaches named union accessors to a host.
//
// A definition is two positional pieces of information: the union's name
// and the ordered list of member-set names it unions over. Resolving a
// definition against a Provider (the host) constructs a fresh union.View
// over the host's current member sets, one View per resolution, matching
// the fresh-per-evaluation lifecycle of union views.
package registry

import (
	"fmt"
	"sort"

	"github.com/metaphiz/acts-as-union/source"
	"github.com/metaphiz/acts-as-union/union"
)

// Provider supplies the current value of a named member set on a host.
//
// A Provider may return a nil source for a name it knows but currently has
// no collection for; nil members are dropped by union construction, so an
// absent member behaves identically to an omitted one.
type Provider interface {
	MemberSet(name string) (source.Source, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(name string) (source.Source, error)

// MemberSet implements Provider.
func (f ProviderFunc) MemberSet(name string) (source.Source, error) {
	return f(name)
}

// Registry holds named union definitions.
type Registry struct {
	defs map[string][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string][]string)}
}

// Define registers a union accessor under name over the given member-set
// names, in order. There are no configuration options beyond the two
// positional arguments.
//
// Fails if the name is blank, already defined, or the source list is empty.
func (r *Registry) Define(name string, sources ...string) error {
	if name == "" {
		return fmt.Errorf("union name must not be empty")
	}
	if _, dup := r.defs[name]; dup {
		return fmt.Errorf("union %q already defined", name)
	}
	if len(sources) == 0 {
		return fmt.Errorf("union %q: at least one source is required", name)
	}
	for _, s := range sources {
		if s == "" {
			return fmt.Errorf("union %q: source names must not be empty", name)
		}
	}
	owned := make([]string, len(sources))
	copy(owned, sources)
	r.defs[name] = owned
	return nil
}

// Sources returns the ordered member-set names of a definition.
func (r *Registry) Sources(name string) ([]string, error) {
	srcs, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("union %q not defined", name)
	}
	out := make([]string, len(srcs))
	copy(out, srcs)
	return out, nil
}

// Names returns all defined union names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve constructs a fresh union view for the named definition over the
// provider's current member sets, in the defined order.
//
// Provider errors propagate unchanged; nil member sets are dropped.
func (r *Registry) Resolve(p Provider, name string) (*union.View, error) {
	srcs, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("union %q not defined", name)
	}
	members := make([]source.Source, 0, len(srcs))
	for _, s := range srcs {
		m, err := p.MemberSet(s)
		if err != nil {
			return nil, fmt.Errorf("union %q: member set %q: %w", name, s, err)
		}
		members = append(members, m)
	}
	return union.New(members...), nil
}
