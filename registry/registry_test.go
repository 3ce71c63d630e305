package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaphiz/acts-as-union/record"
	"github.com/metaphiz/acts-as-union/source"
)

func TestDefine(t *testing.T) {
	r := New()
	require.NoError(t, r.Define("tasks", "call_backs", "call_back_recurrences"))

	srcs, err := r.Sources("tasks")
	require.NoError(t, err)
	assert.Equal(t, []string{"call_backs", "call_back_recurrences"}, srcs)
}

func TestDefine_Rejections(t *testing.T) {
	r := New()
	require.NoError(t, r.Define("tasks", "a"))

	assert.Error(t, r.Define("", "a"), "blank name")
	assert.Error(t, r.Define("tasks", "b"), "duplicate name")
	assert.Error(t, r.Define("empty"), "no sources")
	assert.Error(t, r.Define("blanksrc", "a", ""), "blank source name")
}

func TestSources_Unknown(t *testing.T) {
	_, err := New().Sources("ghost")
	assert.Error(t, err)
}

func TestNames_Sorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Define("zeta", "a"))
	require.NoError(t, r.Define("alpha", "a"))

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	a := record.New("a1", nil)
	b := record.New("b1", nil)
	sets := map[string]source.Source{
		"first":  source.NewMemory(a),
		"second": source.NewMemory(b),
	}
	provider := ProviderFunc(func(name string) (source.Source, error) {
		s, ok := sets[name]
		if !ok {
			return nil, fmt.Errorf("no member set %q", name)
		}
		return s, nil
	})

	r := New()
	require.NoError(t, r.Define("both", "first", "second"))

	v, err := r.Resolve(provider, "both")
	require.NoError(t, err)
	got, err := v.Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*record.Record{a, b}, got)

	// Each resolution is a fresh view over the provider's current sets.
	sets["first"] = source.NewMemory()
	v2, err := r.Resolve(provider, "both")
	require.NoError(t, err)
	got, err = v2.Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*record.Record{b}, got)
}

func TestResolve_NilMemberSetDropped(t *testing.T) {
	provider := ProviderFunc(func(name string) (source.Source, error) {
		if name == "absent" {
			return nil, nil
		}
		return source.NewMemory(record.New(record.ID(name), nil)), nil
	})

	r := New()
	require.NoError(t, r.Define("mixed", "present", "absent"))

	v, err := r.Resolve(provider, "mixed")
	require.NoError(t, err)
	assert.Len(t, v.Members(), 1)
}

func TestResolve_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("host not ready")
	provider := ProviderFunc(func(name string) (source.Source, error) {
		return nil, boom
	})

	r := New()
	require.NoError(t, r.Define("u", "s"))

	_, err := r.Resolve(provider, "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestResolve_Unknown(t *testing.T) {
	provider := ProviderFunc(func(name string) (source.Source, error) {
		return source.NewMemory(), nil
	})
	_, err := New().Resolve(provider, "ghost")
	assert.Error(t, err)
}
