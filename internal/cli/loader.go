package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/metaphiz/acts-as-union/internal/viewdef"
	"github.com/metaphiz/acts-as-union/registry"
)

// LoadResult contains the results of loading union definitions from a
// directory of CUE files.
type LoadResult struct {
	Defs      []viewdef.Def
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadViewDefs loads and compiles CUE union definitions from a directory.
func LoadViewDefs(dir string) (*LoadResult, error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("views directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing views directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	defs, err := viewdef.Compile(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	if len(defs) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no union definitions found"}
	}

	return &LoadResult{
		Defs:      defs,
		CUEValue:  value,
		FileCount: len(cueFiles),
	}, nil
}

// BuildRegistry converts loaded definitions into a registry, running
// validation first so malformed definitions fail before any query runs.
func BuildRegistry(defs []viewdef.Def) (*registry.Registry, error) {
	if verrs := viewdef.Validate(defs); len(verrs) > 0 {
		return nil, &LoadError{Code: ErrCodeInvalidDef, Message: verrs[0].Error()}
	}
	reg := registry.New()
	for _, def := range defs {
		if err := reg.Define(def.Name, def.Sources...); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidDef, Message: err.Error()}
		}
	}
	return reg, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a viewdef compile error to a LoadError with
// position info.
func convertCompileError(err error) *LoadError {
	var compileErr *viewdef.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeInvalidDef,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeInvalidDef  = "E007" // Invalid union definition

	// Query execution errors
	ErrCodeBadQuery    = "E010" // Malformed --where expression
	ErrCodeQueryFailed = "E011" // Member query fault
	ErrCodeNoMatch     = "E012" // Identifier lookup failed
)
