package kb

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/kbend/internal/rewrite"
)

// Defaults for the engine tunables. MaxInt stands in for "effectively
// unbounded" on the overlap and rule limits.
const (
	DefaultBatchSize               = 128
	DefaultCheckConfluenceInterval = 4096
	Unbounded                      = math.MaxInt
)

// OverlapPolicy selects the measure used to bound overlap exploration.
// For an overlap the two left hand sides factor as A·B and B·C with B
// the shared subword; the policy measures the overlap as the length of
// A·B·C, of AB plus BC, or of the longer of AB and BC. The choice
// affects exploration order and which limit fires first, never the
// logical result of a completed run.
type OverlapPolicy int

const (
	// OverlapABC measures the overlap word A·B·C itself.
	OverlapABC OverlapPolicy = iota
	// OverlapABBC measures the combined length of the two left hand sides.
	OverlapABBC
	// OverlapMaxABBC measures the longer of the two left hand sides.
	OverlapMaxABBC
)

// String returns the policy name.
func (p OverlapPolicy) String() string {
	switch p {
	case OverlapABC:
		return "ABC"
	case OverlapABBC:
		return "AB_BC"
	case OverlapMaxABBC:
		return "MAX_AB_BC"
	}
	return "unknown"
}

// ParseOverlapPolicy converts a policy name to an OverlapPolicy.
func ParseOverlapPolicy(name string) (OverlapPolicy, error) {
	switch name {
	case "ABC":
		return OverlapABC, nil
	case "AB_BC":
		return OverlapABBC, nil
	case "MAX_AB_BC":
		return OverlapMaxABBC, nil
	}
	return 0, fmt.Errorf("unknown overlap policy %q", name)
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithBatchSize sets how many derived rules accumulate before a batch
// flush. A value of 1 disables batching. Default 128.
func WithBatchSize(n int) EngineOption {
	return func(e *Engine) { e.batchSize = n }
}

// WithCheckConfluenceInterval sets how many overlaps are examined
// between confluence checks. Default 4096. The check is quadratic in
// the active rule count, which is why it is rate limited rather than
// run every step.
func WithCheckConfluenceInterval(n int) EngineOption {
	return func(e *Engine) { e.checkInterval = n }
}

// WithMaxOverlap bounds the overlap measure explored; overlaps above
// the bound are skipped. Skipping can leave the system non-confluent
// even after the run finishes. Default unbounded.
func WithMaxOverlap(n int) EngineOption {
	return func(e *Engine) { e.maxOverlap = n }
}

// WithMaxRules stops a run once the active rule count reaches n. A
// defined stopping state, not an error. Default unbounded.
func WithMaxRules(n int) EngineOption {
	return func(e *Engine) { e.maxRules = n }
}

// WithOverlapPolicy sets the overlap measure. Default OverlapABC.
func WithOverlapPolicy(p OverlapPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithRewriter selects the match-index strategy for the rule store.
// Default rewrite.RewriteTrie.
func WithRewriter(s rewrite.Strategy) EngineOption {
	return func(e *Engine) { e.strategy = s }
}

// WithLogger sets the logger for progress reporting. Default
// slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// BatchSize returns the current batch size.
func (e *Engine) BatchSize() int { return e.batchSize }

// CheckConfluenceInterval returns the current confluence interval.
func (e *Engine) CheckConfluenceInterval() int { return e.checkInterval }

// MaxOverlap returns the current overlap bound.
func (e *Engine) MaxOverlap() int { return e.maxOverlap }

// MaxRules returns the current active-rule limit.
func (e *Engine) MaxRules() int { return e.maxRules }

// OverlapPolicy returns the current overlap measure.
func (e *Engine) OverlapPolicy() OverlapPolicy { return e.policy }

// SetBatchSize adjusts the batch size between runs. Returns an error
// while a run is in progress or for n < 1.
func (e *Engine) SetBatchSize(n int) error {
	if err := e.checkPaused(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", n)
	}
	e.batchSize = n
	return nil
}

// SetCheckConfluenceInterval adjusts the confluence interval between runs.
func (e *Engine) SetCheckConfluenceInterval(n int) error {
	if err := e.checkPaused(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("check-confluence interval must be at least 1, got %d", n)
	}
	e.checkInterval = n
	return nil
}

// SetMaxOverlap adjusts the overlap bound between runs.
func (e *Engine) SetMaxOverlap(n int) error {
	if err := e.checkPaused(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("max overlap must be at least 1, got %d", n)
	}
	e.maxOverlap = n
	return nil
}

// SetMaxRules adjusts the active-rule limit between runs.
func (e *Engine) SetMaxRules(n int) error {
	if err := e.checkPaused(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("max rules must be at least 1, got %d", n)
	}
	e.maxRules = n
	return nil
}

// SetOverlapPolicy adjusts the overlap measure between runs.
func (e *Engine) SetOverlapPolicy(p OverlapPolicy) error {
	if err := e.checkPaused(); err != nil {
		return err
	}
	e.policy = p
	return nil
}

func (e *Engine) checkPaused() error {
	if e.runner.Running() {
		return fmt.Errorf("tunables may only change while the engine is paused")
	}
	return nil
}
