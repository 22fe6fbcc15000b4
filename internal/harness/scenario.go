// Package harness provides conformance testing for the completion
// engine: scenarios defined in YAML name a presentation, how to run
// it, and what the completed system must look like. Golden files hold
// the full rule listing for regression comparison.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance case: a presentation, run limits,
// and the expected shape of the completed system.
type Scenario struct {
	// Name uniquely identifies this scenario; also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Alphabet is the generator names, one rune per generator.
	Alphabet string `yaml:"alphabet"`

	// ContainsEmptyWord marks a monoid presentation.
	ContainsEmptyWord bool `yaml:"contains_empty_word,omitempty"`

	// Rules are the defining relations as [lhs, rhs] string pairs.
	Rules [][2]string `yaml:"rules"`

	// MaxRules bounds the run; 0 means unbounded.
	MaxRules int `yaml:"max_rules,omitempty"`

	// ByOverlapLength selects the round-based driving mode.
	ByOverlapLength bool `yaml:"by_overlap_length,omitempty"`

	// Rewriter selects the match strategy; empty means the default.
	Rewriter string `yaml:"rewriter,omitempty"`

	// Expect holds the assertions checked after the run.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the post-run assertion set. Nil pointers mean "not
// asserted".
type Expectation struct {
	Confluent   *bool   `yaml:"confluent,omitempty"`
	Finished    *bool   `yaml:"finished,omitempty"`
	ActiveRules *int    `yaml:"active_rules,omitempty"`
	Finite      *bool   `yaml:"finite,omitempty"`
	Size        *uint64 `yaml:"size,omitempty"`
	GraphNodes  *int    `yaml:"graph_nodes,omitempty"`
	GraphEdges  *int    `yaml:"graph_edges,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if s.Alphabet == "" {
		return nil, fmt.Errorf("scenario %s: alphabet is required", s.Name)
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario in a directory, sorted by
// file name for deterministic test order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	out := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
