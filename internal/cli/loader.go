package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/finrel/internal/compiler"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading specs from a directory.
type LoadResult struct {
	Specs     *compiler.Specs
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during spec loading.
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

// LoadSpecs loads and compiles the CUE specs in a directory.
// If mode is LoadModeFailFast, returns at most one compile error.
// If mode is LoadModeCollectAll, returns all of them.
// A nil result means the directory could not be loaded at all.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		msg := fmt.Sprintf("loading CUE files: %v", inst.Err)
		if strings.Contains(msg, "no package name") {
			msg += " (every spec file needs a package clause, e.g. \"package specs\")"
		}
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: msg}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	specs, compileErrs := compiler.CompileAll(value)
	result := &LoadResult{
		Specs:     specs,
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
		if mode == LoadModeFailFast {
			return result, errs
		}
	}

	if len(specs.Schemas) == 0 && len(specs.Functions) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no schemas, instances or functions found in specs"})
	}
	return result, errs
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

// convertCompileError converts a compiler error to a LoadError with
// position info and a per-section code.
func convertCompileError(err error) *LoadError {
	code := ErrCodeGeneric
	context := ""
	var se *compiler.SectionError
	if errors.As(err, &se) {
		code = MapSectionToErrorCode(se.Path)
		context = se.Path + ": "
	}

	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return &LoadError{
			Code:    code,
			Message: fmt.Sprintf("%s%s: %s", context, ce.Field, ce.Message),
			Pos:     ce.Pos,
		}
	}
	if se != nil {
		return &LoadError{Code: code, Message: fmt.Sprintf("%s%v", context, se.Err)}
	}
	return &LoadError{Code: code, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Declaration errors
	ErrCodeSchema   = "E010" // Malformed schema
	ErrCodeInstance = "E011" // Malformed instance
	ErrCodeFunction = "E012" // Malformed function

	// Query errors
	ErrCodeUnknownName = "E020" // Instance or function not declared
	ErrCodeQuery       = "E021" // Query rejected (bad options, mismatched codomains)
)

// MapSectionToErrorCode maps a declaration path such as "instance.Triangle"
// to an error code.
func MapSectionToErrorCode(path string) string {
	section, _, _ := strings.Cut(path, ".")
	switch section {
	case "schema":
		return ErrCodeSchema
	case "instance":
		return ErrCodeInstance
	case "function":
		return ErrCodeFunction
	default:
		return ErrCodeGeneric
	}
}
