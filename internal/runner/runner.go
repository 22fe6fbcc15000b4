// Package runner provides the shared execution-control contract for
// long-running, incremental computations: blocking runs, bounded runs
// that can be resumed, predicate-driven stops, and cooperative kill.
//
// Each algorithm engine embeds a *Runner and drives its own work loop;
// there is no shared mutable base object, just this common contract.
// Cancellation is advisory: the kill flag is observed only at the
// checkpoints the work loop chooses (for the completion engine, batch
// flush and confluence-check boundaries), never mid-step.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle position of a controllable computation.
type State int

const (
	// NeverRun means no run call has been made yet.
	NeverRun State = iota
	// Running means a run call is currently executing.
	Running
	// Stopped means the last run call returned; the Reason says why.
	// Unless the reason is Killed the computation may be resumed.
	Stopped
	// Dead is terminal: the computation was killed and refuses
	// further run calls.
	Dead
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NeverRun:
		return "never-run"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// StopReason records why a run call returned.
type StopReason int

const (
	// StopNone means the computation has not stopped yet.
	StopNone StopReason = iota
	// StopFinished means the computation ran to completion.
	StopFinished
	// StopTimedOut means a RunFor deadline elapsed.
	StopTimedOut
	// StopKilled means Kill was observed at a checkpoint.
	StopKilled
	// StopPredicate means a RunUntil predicate returned true.
	StopPredicate
	// StopLimit means an internal resource limit (such as a maximum
	// rule count) was reached. Not an error: a defined stopping state.
	StopLimit
)

// String returns the reason name.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopFinished:
		return "finished"
	case StopTimedOut:
		return "timed-out"
	case StopKilled:
		return "killed"
	case StopPredicate:
		return "predicate"
	case StopLimit:
		return "limit"
	}
	return "unknown"
}

// ErrDead is returned by run calls on a killed computation.
var ErrDead = errors.New("runner is dead")

// ErrRunning is returned when a run call overlaps another on the same
// instance. Concurrent run calls are a caller error, not a supported
// mode; one engine instance belongs to one logical task.
var ErrRunning = errors.New("runner is already running")

// Controllable is the capability contract implemented by every
// incremental engine in the library.
type Controllable interface {
	Run(ctx context.Context) error
	RunFor(ctx context.Context, d time.Duration) error
	RunUntil(ctx context.Context, pred func() bool) error
	Kill()
	State() State
	Finished() bool
	Stopped() bool
}

// Runner holds the state machine and stop conditions for one engine
// instance. The zero value is not usable; call New.
//
// Single logical thread of control: run calls must not overlap. Kill
// may be called from any goroutine; it sets a flag that the work loop
// observes at its next checkpoint.
type Runner struct {
	mu       sync.Mutex // guards state and reason
	state    State
	reason   StopReason
	killed   atomic.Bool
	deadline time.Time
	pred     func() bool
	started  time.Time

	reportEvery time.Duration
	lastReport  time.Time
	logger      *slog.Logger
}

// New creates a Runner in the NeverRun state logging progress through
// logger (nil means slog.Default).
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Begin transitions to Running for a plain Run call.
// Returns ErrDead if the runner was killed, ErrRunning on overlap.
func (r *Runner) Begin() error {
	return r.begin(time.Time{}, nil)
}

// BeginFor transitions to Running with a deadline d from now.
func (r *Runner) BeginFor(d time.Duration) error {
	return r.begin(time.Now().Add(d), nil)
}

// BeginUntil transitions to Running with a stopping predicate, checked
// at the same checkpoints as the deadline.
func (r *Runner) BeginUntil(pred func() bool) error {
	return r.begin(time.Time{}, pred)
}

func (r *Runner) begin(deadline time.Time, pred func() bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case Dead:
		return ErrDead
	case Running:
		return ErrRunning
	}
	r.state = Running
	r.reason = StopNone
	r.deadline = deadline
	r.pred = pred
	r.started = time.Now()
	r.lastReport = r.started
	return nil
}

// Checkpoint is called by the work loop at its suspension points. It
// returns a non-StopNone reason when the loop should stop: kill flag,
// elapsed deadline, or satisfied predicate, checked in that order.
func (r *Runner) Checkpoint() StopReason {
	if r.killed.Load() {
		return StopKilled
	}
	if !r.deadline.IsZero() && !time.Now().Before(r.deadline) {
		return StopTimedOut
	}
	if r.pred != nil && r.pred() {
		return StopPredicate
	}
	return StopNone
}

// End transitions out of Running with the given reason. A Killed
// reason — or a kill flag raised after the loop's last checkpoint —
// lands in Dead; everything else in Stopped, from which the
// computation may be resumed.
func (r *Runner) End(reason StopReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.killed.Load() {
		reason = StopKilled
	}
	r.reason = reason
	if reason == StopKilled {
		r.state = Dead
		return
	}
	r.state = Stopped
}

// Kill requests cooperative cancellation. Safe from any goroutine.
// The work loop observes it at its next checkpoint and transitions to
// Dead; if no run is in progress the transition happens immediately.
func (r *Runner) Kill() {
	r.killed.Store(true)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		r.state = Dead
		r.reason = StopKilled
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reason returns why the last run call stopped.
func (r *Runner) Reason() StopReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// Started reports whether any run call has been made.
func (r *Runner) Started() bool { return r.State() != NeverRun }

// Running reports whether a run call is executing now.
func (r *Runner) Running() bool { return r.State() == Running }

// Finished reports whether the computation ran to completion.
func (r *Runner) Finished() bool { return r.Reason() == StopFinished }

// Stopped reports whether the computation is stopped or dead.
func (r *Runner) Stopped() bool {
	s := r.State()
	return s == Stopped || s == Dead
}

// TimedOut reports whether the last run stopped on its deadline.
func (r *Runner) TimedOut() bool { return r.Reason() == StopTimedOut }

// StoppedByPredicate reports whether a RunUntil predicate fired.
func (r *Runner) StoppedByPredicate() bool { return r.Reason() == StopPredicate }

// Dead reports whether the runner was killed.
func (r *Runner) Dead() bool { return r.State() == Dead }

// ReportEvery enables periodic progress reports at the given interval.
// Zero disables reporting. Purely observational: reporting never
// affects the computation's outcome.
func (r *Runner) ReportEvery(interval time.Duration) {
	r.reportEvery = interval
}

// Report emits a progress record if the report interval has elapsed.
// The work loop calls it at checkpoints with whatever counters it
// wants logged.
func (r *Runner) Report(msg string, args ...any) {
	if r.reportEvery <= 0 {
		return
	}
	now := time.Now()
	if now.Sub(r.lastReport) < r.reportEvery {
		return
	}
	r.lastReport = now
	args = append(args, "elapsed", now.Sub(r.started).Round(time.Millisecond))
	r.logger.Info(msg, args...)
}
