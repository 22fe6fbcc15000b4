package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/kbend/internal/gilman"
	"github.com/roach88/kbend/internal/kb"
	"github.com/roach88/kbend/internal/present"
	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/words"
)

// Result captures the observable outcome of running a scenario.
type Result struct {
	Scenario *Scenario
	Engine   *kb.Engine
	Graph    *gilman.Graph

	Confluent   bool
	Finished    bool
	ActiveRules int
	Finite      bool
	Size        uint64 // semigroup element count when Finite
}

// Run executes a scenario: build the presentation, run completion
// with the scenario's limits, build the Gilman graph, and collect the
// observable outcome. Deterministic for a fixed scenario: the engine
// is single threaded and seeded only from the scenario.
func Run(scenario *Scenario) (*Result, error) {
	p, err := buildPresentation(scenario)
	if err != nil {
		return nil, err
	}

	opts := []kb.EngineOption{
		kb.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.MaxRules > 0 {
		opts = append(opts, kb.WithMaxRules(scenario.MaxRules))
	}
	if scenario.Rewriter != "" {
		strategy, err := rewrite.ParseStrategy(scenario.Rewriter)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		opts = append(opts, kb.WithRewriter(strategy))
	}

	eng, err := kb.New(p, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ctx := context.Background()
	if scenario.ByOverlapLength {
		err = eng.RunByOverlapLength(ctx)
	} else {
		err = eng.Run(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: run: %w", scenario.Name, err)
	}

	res := &Result{
		Scenario:    scenario,
		Engine:      eng,
		Confluent:   eng.Confluent(),
		Finished:    eng.Finished(),
		ActiveRules: eng.NumberOfActiveRules(),
	}
	if res.Confluent {
		res.Graph = gilman.Build(eng.Store(), p.Alphabet)
		size := res.Graph.Size()
		if size != gilman.Infinite {
			res.Finite = true
			res.Size = size
			if !p.ContainsEmptyWord {
				res.Size-- // the empty word is not an element of a semigroup
			}
		}
	}
	return res, nil
}

func buildPresentation(scenario *Scenario) (*present.Presentation, error) {
	p, err := present.FromString(scenario.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	p.ContainsEmptyWord = scenario.ContainsEmptyWord
	for i, pair := range scenario.Rules {
		lhs, err := p.Names.Parse(pair[0])
		if err != nil {
			return nil, fmt.Errorf("scenario %s: rule %d lhs: %w", scenario.Name, i, err)
		}
		rhs, err := p.Names.Parse(pair[1])
		if err != nil {
			return nil, fmt.Errorf("scenario %s: rule %d rhs: %w", scenario.Name, i, err)
		}
		p.AddRule(lhs, rhs)
	}
	return p, nil
}

// RuleListing renders the active rules as "lhs -> rhs" lines in
// creation order, using the scenario's alphabet. The listing is the
// golden-file payload: stable across runs of the same scenario.
func (r *Result) RuleListing() string {
	names := r.Engine.Presentation().Names
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario.Name)
	fmt.Fprintf(&b, "confluent: %t\n", r.Confluent)
	fmt.Fprintf(&b, "active_rules: %d\n", r.ActiveRules)
	b.WriteString("rules:\n")
	for _, rule := range r.Engine.ActiveRules() {
		fmt.Fprintf(&b, "  %s -> %s\n", formatWord(names, rule[0]), formatWord(names, rule[1]))
	}
	return b.String()
}

func formatWord(names *words.Alphabet, w words.Word) string {
	if len(w) == 0 {
		return "(empty)"
	}
	return names.Format(w)
}
