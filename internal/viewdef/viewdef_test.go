package viewdef

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileString(t *testing.T, src string) ([]Def, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return Compile(v)
}

func TestCompile_SingleUnion(t *testing.T) {
	defs, err := compileString(t, `
union: tasks: {
	sources: ["call_backs", "call_back_recurrences"]
}
`)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "tasks", defs[0].Name)
	assert.Equal(t, []string{"call_backs", "call_back_recurrences"}, defs[0].Sources)
}

func TestCompile_MultipleUnions(t *testing.T) {
	defs, err := compileString(t, `
union: {
	timeline: sources: ["posts", "comments"]
	tasks: sources: ["call_backs"]
}
`)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "timeline", defs[0].Name)
	assert.Equal(t, "tasks", defs[1].Name)
}

func TestCompile_NoUnionStruct(t *testing.T) {
	defs, err := compileString(t, `other: {a: 1}`)
	require.NoError(t, err)
	require.NotNil(t, defs)
	assert.Empty(t, defs)
}

func TestCompile_MissingSources(t *testing.T) {
	_, err := compileString(t, `
union: tasks: {
	note: "no sources here"
}
`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "union.tasks.sources", ce.Field)
	assert.Contains(t, ce.Message, "required")
}

func TestCompile_SourcesNotAList(t *testing.T) {
	_, err := compileString(t, `
union: tasks: {
	sources: "call_backs"
}
`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "list")
}

func TestCompile_SourceNamesMustBeStrings(t *testing.T) {
	_, err := compileString(t, `
union: tasks: {
	sources: [1, 2]
}
`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "strings")
}

func TestCompile_InvalidCUE(t *testing.T) {
	_, err := compileString(t, `union: tasks: sources: [`)
	assert.Error(t, err)
}
