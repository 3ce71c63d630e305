package viewdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	errs := Validate([]Def{
		{Name: "tasks", Sources: []string{"call_backs", "call_back_recurrences"}},
		{Name: "timeline", Sources: []string{"posts"}},
	})
	assert.Empty(t, errs)
}

func TestValidate_EmptyName(t *testing.T) {
	errs := Validate([]Def{{Name: "  ", Sources: []string{"a"}}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNameEmpty, errs[0].Code)
}

func TestValidate_NoSources(t *testing.T) {
	errs := Validate([]Def{{Name: "tasks"}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoSources, errs[0].Code)
	assert.Equal(t, "union.tasks.sources", errs[0].Field)
}

func TestValidate_BlankSource(t *testing.T) {
	errs := Validate([]Def{{Name: "tasks", Sources: []string{"a", ""}}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrBlankSource, errs[0].Code)
	assert.Equal(t, "union.tasks.sources[1]", errs[0].Field)
}

func TestValidate_DuplicateSource(t *testing.T) {
	errs := Validate([]Def{{Name: "tasks", Sources: []string{"a", "b", "a"}}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateSource, errs[0].Code)
	assert.Contains(t, errs[0].Message, `"a"`)
}

func TestValidate_DuplicateUnion(t *testing.T) {
	errs := Validate([]Def{
		{Name: "tasks", Sources: []string{"a"}},
		{Name: "tasks", Sources: []string{"b"}},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateUnion, errs[0].Code)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	errs := Validate([]Def{
		{Name: ""},
		{Name: "tasks", Sources: []string{"a", "a", " "}},
	})
	got := codes(errs)
	assert.Contains(t, got, ErrNameEmpty)
	assert.Contains(t, got, ErrNoSources)
	assert.Contains(t, got, ErrDuplicateSource)
	assert.Contains(t, got, ErrBlankSource)
}

func TestValidationError_Format(t *testing.T) {
	err := ValidationError{Field: "union.tasks", Message: "boom", Code: ErrDuplicateUnion}
	assert.Equal(t, "[E105] union.tasks: boom", err.Error())
}
