package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/finrel/internal/join"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE spec files declaring the schemas, instances and
	// functions the query refers to.
	Specs []string `yaml:"specs"`

	// Exactly one of Hom, Join or Colimit is set.
	Hom     *HomQuery     `yaml:"hom,omitempty"`
	Join    *JoinQuery    `yaml:"join,omitempty"`
	Colimit *ColimitQuery `yaml:"colimit,omitempty"`

	// Assertions validate the outcome of the query.
	Assertions []Assertion `yaml:"assertions"`
}

// HomQuery searches for homomorphisms between two instances.
type HomQuery struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// All enumerates every homomorphism. Otherwise the search stops at the
	// first one found.
	All bool `yaml:"all,omitempty"`

	Monic    []string               `yaml:"monic,omitempty"`
	MonicAll bool                   `yaml:"monic_all,omitempty"`
	Iso      []string               `yaml:"iso,omitempty"`
	IsoAll   bool                   `yaml:"iso_all,omitempty"`
	Initial  map[string]map[int]int `yaml:"initial,omitempty"`
}

// JoinQuery computes the limit of named functions sharing a codomain.
type JoinQuery struct {
	Functions []string `yaml:"functions"`

	// Algorithms to run and cross-check. Empty means all three.
	Algorithms []string `yaml:"algorithms,omitempty"`

	// Backends to run and cross-check: memory, sqlite. Empty means memory.
	Backends []string `yaml:"backends,omitempty"`
}

// ColimitQuery computes a colimit. Exactly one of Coequalize, Pushout,
// Coproduct or Sets is set; Edges goes with Sets.
type ColimitQuery struct {
	Coequalize []string `yaml:"coequalize,omitempty"`
	Pushout    []string `yaml:"pushout,omitempty"`
	Coproduct  []int    `yaml:"coproduct,omitempty"`

	// Sets are the sizes of a general diagram's objects, {1..n} each.
	Sets  []int         `yaml:"sets,omitempty"`
	Edges []DiagramEdge `yaml:"edges,omitempty"`
}

// DiagramEdge is a named function between two diagram objects, addressed
// by their 0-based position in Sets.
type DiagramEdge struct {
	Src      int    `yaml:"src"`
	Tgt      int    `yaml:"tgt"`
	Function string `yaml:"function"`
}

// Assertion validates the query outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "count": number of homomorphisms, tuples or classes
	// - "exists": whether anything was found
	// - "tuples": exact joined tuples
	// - "contains": a homomorphism with the given components was found
	// - "identity": the identity homomorphism was found
	// - "legs": exact colimit legs
	Type string `yaml:"type"`

	// Count is the expected number (used by count).
	Count int `yaml:"count,omitempty"`

	// Exists is the expected existence (used by exists).
	Exists *bool `yaml:"exists,omitempty"`

	// Tuples are the expected tuples (used by tuples).
	Tuples [][]int `yaml:"tuples,omitempty"`

	// Components maps object-type names to component values (used by contains).
	Components map[string][]int `yaml:"components,omitempty"`

	// Legs are the expected leg values per diagram object (used by legs).
	Legs [][]int `yaml:"legs,omitempty"`
}

// Assertion type constants.
const (
	AssertCount    = "count"
	AssertExists   = "exists"
	AssertTuples   = "tuples"
	AssertContains = "contains"
	AssertIdentity = "identity"
	AssertLegs     = "legs"
)

// Backend names for join scenarios.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Kind returns "hom", "join" or "colimit".
func (s *Scenario) Kind() string {
	switch {
	case s.Hom != nil:
		return "hom"
	case s.Join != nil:
		return "join"
	case s.Colimit != nil:
		return "colimit"
	default:
		return ""
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Spec paths are resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving spec paths against
// basePath. An empty basePath leaves spec paths unchanged.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if prev, ok := seen[sc.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", p, sc.Name, prev)
		}
		seen[sc.Name] = p
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}
	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	queries := 0
	for _, set := range []bool{s.Hom != nil, s.Join != nil, s.Colimit != nil} {
		if set {
			queries++
		}
	}
	if queries != 1 {
		return fmt.Errorf("exactly one of hom, join or colimit is required, got %d", queries)
	}

	switch {
	case s.Hom != nil:
		if s.Hom.From == "" || s.Hom.To == "" {
			return fmt.Errorf("hom: from and to are required")
		}
	case s.Join != nil:
		if len(s.Join.Functions) == 0 {
			return fmt.Errorf("join: functions list is required and must be non-empty")
		}
		for _, name := range s.Join.Algorithms {
			if _, err := join.ParseAlgorithm(name); err != nil {
				return fmt.Errorf("join: %w", err)
			}
		}
		for _, b := range s.Join.Backends {
			if b != BackendMemory && b != BackendSQLite {
				return fmt.Errorf("join: unknown backend %q", b)
			}
		}
	case s.Colimit != nil:
		if err := validateColimit(s.Colimit); err != nil {
			return fmt.Errorf("colimit: %w", err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, s.Kind(), &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateColimit(c *ColimitQuery) error {
	set := 0
	if c.Coequalize != nil {
		set++
		if len(c.Coequalize) != 2 {
			return fmt.Errorf("coequalize needs exactly two functions")
		}
	}
	if c.Pushout != nil {
		set++
		if len(c.Pushout) != 2 {
			return fmt.Errorf("pushout needs exactly two functions")
		}
	}
	if c.Coproduct != nil {
		set++
		for _, n := range c.Coproduct {
			if n < 0 {
				return fmt.Errorf("coproduct set sizes must be non-negative")
			}
		}
	}
	if c.Sets != nil {
		set++
		for _, n := range c.Sets {
			if n < 0 {
				return fmt.Errorf("set sizes must be non-negative")
			}
		}
		for i, e := range c.Edges {
			if e.Function == "" {
				return fmt.Errorf("edges[%d]: function is required", i)
			}
			if e.Src < 0 || e.Src >= len(c.Sets) || e.Tgt < 0 || e.Tgt >= len(c.Sets) {
				return fmt.Errorf("edges[%d]: %d -> %d is outside %d sets", i, e.Src, e.Tgt, len(c.Sets))
			}
		}
	} else if c.Edges != nil {
		return fmt.Errorf("edges need sets")
	}
	if set != 1 {
		return fmt.Errorf("exactly one of coequalize, pushout, coproduct or sets is required")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type and the
// scenario kind.
func validateAssertion(index int, kind string, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	only := func(kinds ...string) error {
		for _, k := range kinds {
			if k == kind {
				return nil
			}
		}
		return fmt.Errorf("assertions[%d]: %s does not apply to %s scenarios", index, a.Type, kind)
	}

	switch a.Type {
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertExists:
		if a.Exists == nil {
			return fmt.Errorf("assertions[%d]: exists is required for exists", index)
		}
		return only("hom", "join")
	case AssertTuples:
		return only("join")
	case AssertContains:
		if len(a.Components) == 0 {
			return fmt.Errorf("assertions[%d]: components are required for contains", index)
		}
		return only("hom")
	case AssertIdentity:
		return only("hom")
	case AssertLegs:
		return only("colimit")
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
