package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/schema"
)

// Specs holds every declaration compiled from one CUE value.
type Specs struct {
	Schemas   map[string]*schema.Schema
	Instances map[string]*acset.Structure
	Functions map[string]*finset.Vector
}

// NewSpecs returns empty Specs.
func NewSpecs() *Specs {
	return &Specs{
		Schemas:   make(map[string]*schema.Schema),
		Instances: make(map[string]*acset.Structure),
		Functions: make(map[string]*finset.Vector),
	}
}

// Instance returns the instance called name.
func (s *Specs) Instance(name string) (*acset.Structure, error) {
	st, ok := s.Instances[name]
	if !ok {
		return nil, fmt.Errorf("unknown instance %q", name)
	}
	return st, nil
}

// Function returns the function called name.
func (s *Specs) Function(name string) (*finset.Vector, error) {
	f, ok := s.Functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return f, nil
}

// Names returns the sorted keys of m.
func Names[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileAll compiles the schema, instance and function sections of v.
// Schemas compile first so instances can reference them. Errors are
// collected rather than stopping at the first one; each is wrapped with
// its path, e.g. "instance.Triangle".
func CompileAll(v cue.Value) (*Specs, []error) {
	specs := NewSpecs()
	var errs []error

	collect := func(section string, fn func(name string, fv cue.Value) error) {
		err := eachField(v, section, func(name string, fv cue.Value) error {
			if err := fn(name, fv); err != nil {
				errs = append(errs, &SectionError{Path: section + "." + name, Err: err})
			}
			return nil
		})
		if err != nil {
			errs = append(errs, &SectionError{Path: section, Err: err})
		}
	}

	collect("schema", func(name string, fv cue.Value) error {
		s, err := CompileSchema(fv)
		if err != nil {
			return err
		}
		specs.Schemas[name] = s
		return nil
	})
	collect("instance", func(name string, fv cue.Value) error {
		st, err := CompileInstance(fv, specs.Schemas)
		if err != nil {
			return err
		}
		specs.Instances[name] = st
		return nil
	})
	collect("function", func(name string, fv cue.Value) error {
		f, err := CompileFunction(fv)
		if err != nil {
			return err
		}
		specs.Functions[name] = f
		return nil
	})

	return specs, errs
}

// SectionError attaches the declaration path to a compile error.
type SectionError struct {
	Path string
	Err  error
}

func (e *SectionError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *SectionError) Unwrap() error { return e.Err }
