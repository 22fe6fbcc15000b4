// Package kb implements incremental Knuth-Bendix completion for
// string-rewriting systems over a finite alphabet.
//
// Given a validated presentation, an Engine derives a terminating
// rewriting system equivalent to the input relations by repeatedly
// resolving critical pairs between overlapping rule left hand sides.
// If the process reaches a confluent system, normal forms decide the
// word problem; the process may run forever for some inputs, so every
// run can be bounded by time (RunFor), predicate (RunUntil), or
// resource limits (max rules, max overlap), and resumed later from
// exactly where it stopped.
//
// The engine is a single logical thread of control: no internal
// parallelism, and no two run calls on the same instance may overlap.
// Cancellation is cooperative, observed only at batch-flush and
// confluence-check boundaries, so the rule store is always left
// structurally consistent.
package kb
