package kb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/kbend/internal/present"
	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/runner"
	"github.com/roach88/kbend/internal/words"
)

// pendingRule is a derived but not yet integrated equation. Pending
// rules accumulate into a batch before being promoted to active rules.
type pendingRule struct {
	u, v words.Word
}

// pairTask schedules the examination of overlaps between the left
// hand sides of an ordered pair of rules. Tasks referencing rules that
// were deactivated (or whose slots were reused) before examination are
// skipped.
type pairTask struct {
	first, second *rewrite.Rule
	gen1, gen2    uint64
}

// Engine runs Knuth-Bendix completion over a validated presentation.
//
// Construction seeds the rule store from the presentation's relations
// (each relation rewritten to normal form and oriented under the
// reduction order; trivial relations discarded), so ActiveRules is
// meaningful before the first run call.
//
// All loop state needed to resume a paused run lives on the Engine:
// the pending batch, the pair queue, the deferred pairs skipped by the
// overlap bound, and the counters. RunFor/RunUntil therefore resume at
// batch-flush granularity.
//
// Engine is exclusively owned by a single logical task. Reading while
// no run is in progress is safe; concurrent reads during Run are not
// supported.
type Engine struct {
	p      *present.Presentation
	store  *rewrite.Store
	runner *runner.Runner
	logger *slog.Logger

	batchSize     int
	checkInterval int
	maxOverlap    int
	maxRules      int
	policy        OverlapPolicy
	strategy      rewrite.Strategy

	pending  []pendingRule
	pairs    []pairTask
	deferred []pairTask // pairs with overlaps skipped by the bound
	round    int        // current by-overlap-length round, 0 when unused

	overlaps   uint64 // overlaps examined, all runs
	sinceCheck int    // overlaps since the last confluence check

	confluent      bool
	confluentAt    uint64 // store version when confluent was computed
	confluentValid bool
}

var _ runner.Controllable = (*Engine)(nil)

// New validates p, seeds an engine from its relations, and applies
// options. Validation failures surface immediately and leave no
// partial state behind.
func New(p *present.Presentation, opts ...EngineOption) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("seed presentation: %w", err)
	}

	e := &Engine{
		p:             p,
		logger:        slog.Default(),
		batchSize:     DefaultBatchSize,
		checkInterval: DefaultCheckConfluenceInterval,
		maxOverlap:    Unbounded,
		maxRules:      Unbounded,
		policy:        OverlapABC,
		strategy:      rewrite.RewriteTrie,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.batchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", e.batchSize)
	}
	if e.checkInterval < 1 {
		return nil, fmt.Errorf("check-confluence interval must be at least 1, got %d", e.checkInterval)
	}

	store, err := rewrite.NewStore(words.ShortLex{}, e.strategy)
	if err != nil {
		return nil, err
	}
	e.store = store
	e.runner = runner.New(e.logger)

	for _, rel := range p.Relations {
		e.pending = append(e.pending, pendingRule{u: rel.Left, v: rel.Right})
	}
	e.flushBatch()
	return e, nil
}

// Presentation returns the input presentation. The engine never
// mutates it.
func (e *Engine) Presentation() *present.Presentation { return e.p }

// Store exposes the rule store for read-only collaborators such as the
// Gilman-graph builder.
func (e *Engine) Store() *rewrite.Store { return e.store }

// Run executes completion until it finishes or a limit fires.
// Blocking; returns runner.ErrDead after Kill and runner.ErrRunning on
// overlapping run calls. Context cancellation stops the run at the
// next checkpoint, leaving it resumable.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.runner.Begin(); err != nil {
		return err
	}
	e.runner.End(e.complete(ctx))
	return nil
}

// RunFor runs until completion finishes or d elapses, whichever comes
// first. A subsequent run call resumes from the exact internal state
// left behind.
func (e *Engine) RunFor(ctx context.Context, d time.Duration) error {
	if err := e.runner.BeginFor(d); err != nil {
		return err
	}
	e.runner.End(e.complete(ctx))
	return nil
}

// RunUntil runs until completion finishes or pred returns true. The
// predicate is evaluated at the same checkpoints as the RunFor
// deadline: after each batch flush and each confluence check.
func (e *Engine) RunUntil(ctx context.Context, pred func() bool) error {
	if err := e.runner.BeginUntil(pred); err != nil {
		return err
	}
	e.runner.End(e.complete(ctx))
	return nil
}

// RunByOverlapLength drives the same completion loop in rounds of
// increasing overlap bound: round k only examines overlaps of measure
// at most k, moving to k+1 once the round converges. For presentations
// that terminate this gives a reproducible exploration order. A
// mutually exclusive driving mode with a caller-set WithMaxOverlap
// bound: the bound is managed by the rounds while this call runs and
// restored afterwards.
func (e *Engine) RunByOverlapLength(ctx context.Context) error {
	if err := e.runner.Begin(); err != nil {
		return err
	}
	saved := e.maxOverlap
	if e.round == 0 {
		e.round = 1
	}

	reason := runner.StopFinished
	for {
		e.maxOverlap = e.round
		reason = e.complete(ctx)
		if reason != runner.StopFinished {
			break
		}
		if len(e.deferred) == 0 {
			// Nothing was skipped: the round bound no longer cuts
			// anything off and the system is fully examined.
			break
		}
		if e.Confluent() {
			break
		}
		e.pairs = append(e.pairs, e.deferred...)
		e.deferred = nil
		e.round++
		e.logger.Debug("starting next overlap round", "round", e.round)
	}

	e.maxOverlap = saved
	e.runner.End(reason)
	return nil
}

// Kill requests cooperative cancellation. The flag is observed at the
// next checkpoint; a kill issued mid-step completes the current batch
// flush first, so the rule store is never left half-promoted. After
// the transition the engine is Dead and refuses further run calls.
func (e *Engine) Kill() { e.runner.Kill() }

// State returns the runner state.
func (e *Engine) State() runner.State { return e.runner.State() }

// Started reports whether any run call has been made.
func (e *Engine) Started() bool { return e.runner.Started() }

// Running reports whether a run call is executing.
func (e *Engine) Running() bool { return e.runner.Running() }

// Finished reports whether completion ran out of work: every overlap
// within the bound examined with nothing pending. Finished does not
// imply confluent when an overlap bound skipped pairs.
func (e *Engine) Finished() bool { return e.runner.Finished() }

// Stopped reports whether the engine is stopped or dead.
func (e *Engine) Stopped() bool { return e.runner.Stopped() }

// TimedOut reports whether the last run stopped on a RunFor deadline.
func (e *Engine) TimedOut() bool { return e.runner.TimedOut() }

// StoppedByPredicate reports whether a RunUntil predicate fired.
func (e *Engine) StoppedByPredicate() bool { return e.runner.StoppedByPredicate() }

// Dead reports whether the engine was killed.
func (e *Engine) Dead() bool { return e.runner.Dead() }

// StopReason returns why the last run call stopped.
func (e *Engine) StopReason() runner.StopReason { return e.runner.Reason() }

// ReportEvery enables periodic progress logging during runs. Purely
// observational; reporting never changes the outcome of a run.
func (e *Engine) ReportEvery(interval time.Duration) { e.runner.ReportEvery(interval) }

// OverlapsExamined returns the number of overlaps examined so far.
func (e *Engine) OverlapsExamined() uint64 { return e.overlaps }

// complete is the main loop. It consumes pair tasks, accumulates
// derived rules into the pending batch, flushes batches, and checks
// the stop conditions at flush and confluence-check boundaries only.
func (e *Engine) complete(ctx context.Context) runner.StopReason {
	for {
		if len(e.pairs) == 0 {
			// Drain whatever is left in the partial batch; flushing
			// can activate rules and enqueue fresh pairs.
			e.flushBatch()
			if e.store.NumberOfActiveRules() >= e.maxRules {
				return runner.StopLimit
			}
			if len(e.pairs) == 0 {
				e.logger.Debug("completion finished",
					"active_rules", e.store.NumberOfActiveRules(),
					"overlaps", e.overlaps,
				)
				return runner.StopFinished
			}
		}

		task := e.pairs[0]
		e.pairs = e.pairs[1:]
		if task.first.Generation() != task.gen1 || !task.first.Active() ||
			task.second.Generation() != task.gen2 || !task.second.Active() {
			continue
		}
		e.examinePair(task)

		if len(e.pending) >= e.batchSize {
			e.flushBatch()
			if reason := e.checkpoint(ctx); reason != runner.StopNone {
				return reason
			}
			if e.store.NumberOfActiveRules() >= e.maxRules {
				e.logger.Info("stopping: max rules reached",
					"active_rules", e.store.NumberOfActiveRules(),
					"max_rules", e.maxRules,
				)
				return runner.StopLimit
			}
		}

		if e.sinceCheck >= e.checkInterval {
			e.sinceCheck = 0
			e.flushBatch()
			if e.Confluent() {
				e.logger.Debug("completion finished: confluent",
					"active_rules", e.store.NumberOfActiveRules(),
				)
				return runner.StopFinished
			}
			if reason := e.checkpoint(ctx); reason != runner.StopNone {
				return reason
			}
		}
	}
}

// checkpoint consults the runner's stop conditions and the context.
// Called only at batch-flush and confluence-check boundaries.
func (e *Engine) checkpoint(ctx context.Context) runner.StopReason {
	e.runner.Report("knuth-bendix progress",
		"active_rules", e.store.NumberOfActiveRules(),
		"inactive_rules", e.store.NumberOfInactiveRules(),
		"pending", len(e.pending),
		"pairs", len(e.pairs),
		"overlaps", e.overlaps,
	)
	if reason := e.runner.Checkpoint(); reason != runner.StopNone {
		return reason
	}
	if ctx.Err() != nil {
		return runner.StopTimedOut
	}
	return runner.StopNone
}

// flushBatch integrates the pending batch into the active rule set.
//
// Each pending equation is rewritten under the rules promoted so far,
// which both deduplicates the batch and reduces its members against
// each other. Promoting a rule deactivates any active rule whose lhs
// it can reduce (the deactivated equation re-enters the batch) and
// re-reduces any rhs it makes stale, preserving the store invariant
// that every active rhs is irreducible under the other active rules.
func (e *Engine) flushBatch() {
	for len(e.pending) > 0 {
		pr := e.pending[0]
		e.pending = e.pending[1:]

		u := e.store.Rewrite(pr.u)
		v := e.store.Rewrite(pr.v)
		if u.Equal(v) {
			continue
		}

		r, err := e.store.AddRule(u, v)
		if err != nil {
			// Equal sides are caught above; nothing else can fail.
			continue
		}
		e.invalidateConfluence()
		e.integrate(r)
	}
}

// integrate runs the post-promotion bookkeeping for a newly active
// rule: subsumption of older rules, rhs re-reduction, and scheduling
// of the new rule's overlaps.
func (e *Engine) integrate(r *rewrite.Rule) {
	for _, other := range e.store.ActiveRules() {
		if other == r {
			continue
		}
		if other.LHS().Index(r.LHS()) >= 0 {
			// The new rule reduces this lhs: retire the rule and
			// re-derive whatever of it is still independent.
			lhs, rhs := other.LHS().Clone(), other.RHS().Clone()
			if err := e.store.Deactivate(other.ID()); err == nil {
				e.pending = append(e.pending, pendingRule{u: lhs, v: rhs})
			}
			continue
		}
		if other.RHS().Index(r.LHS()) >= 0 {
			e.store.SetRHS(other, e.store.Rewrite(other.RHS()))
		}
	}

	for _, other := range e.store.ActiveRules() {
		e.pairs = append(e.pairs, pairTask{
			first: r, gen1: r.Generation(),
			second: other, gen2: other.Generation(),
		})
		if other != r {
			e.pairs = append(e.pairs, pairTask{
				first: other, gen1: other.Generation(),
				second: r, gen2: r.Generation(),
			})
		}
	}
}

func (e *Engine) invalidateConfluence() {
	e.confluentValid = false
}
