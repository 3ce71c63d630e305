// Package viewdef compiles declarative union definitions from CUE into
// registry-ready definitions.
//
// A definition file declares named unions over ordered collection names:
//
//	union: timeline: {
//	    sources: ["posts", "comments", "reactions"]
//	}
//
// There are no configuration options beyond the union name and its ordered
// source list. Compilation is a pure translation; resolving source names to
// actual member sets happens later, at accessor invocation time.
package viewdef

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
)

// Def is one compiled union definition.
type Def struct {
	// Name is the union accessor name.
	Name string `json:"name"`

	// Sources is the ordered list of member collection names.
	Sources []string `json:"sources"`
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile parses every union definition under the "union" struct of a CUE
// value. Definitions are returned in lexical (CUE field) order.
func Compile(v cue.Value) ([]Def, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unions := v.LookupPath(cue.ParsePath("union"))
	if !unions.Exists() {
		return []Def{}, nil
	}

	iter, err := unions.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []Def
	for iter.Next() {
		def, err := compileDef(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if defs == nil {
		defs = []Def{}
	}
	return defs, nil
}

// compileDef parses one union definition struct.
func compileDef(name string, v cue.Value) (Def, error) {
	def := Def{Name: name}

	sourcesVal := v.LookupPath(cue.ParsePath("sources"))
	if !sourcesVal.Exists() {
		return Def{}, &CompileError{
			Field:   "union." + name + ".sources",
			Message: "sources is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := sourcesVal.List()
	if err != nil {
		return Def{}, &CompileError{
			Field:   "union." + name + ".sources",
			Message: fmt.Sprintf("sources must be a list: %v", err),
			Pos:     sourcesVal.Pos(),
		}
	}

	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return Def{}, &CompileError{
				Field:   "union." + name + ".sources",
				Message: fmt.Sprintf("source names must be strings: %v", err),
				Pos:     iter.Value().Pos(),
			}
		}
		def.Sources = append(def.Sources, s)
	}

	return def, nil
}
