// Package rewrite implements the oriented-rule store and the rewriter
// that reduces words to normal form under the active rules.
//
// Rules live in an arena of slots indexed by integer id. Deactivating a
// rule clears its active flag without freeing the slot; retired slot
// ids are recycled through a free list, so a rule's id is unique only
// while it is active. The store owns every Rule value; callers receive
// copies of rule words, never aliases into the arena.
package rewrite

import "github.com/roach88/kbend/internal/words"

// Rule is an oriented rewriting rule lhs -> rhs with lhs strictly
// greater than rhs under the store's reduction order.
//
// Invariant, maintained by the completion engine: the rhs of every
// active rule is irreducible under all other active rules. The lhs is
// never mutated after creation; a rule whose lhs becomes reducible is
// deactivated, not edited.
type Rule struct {
	id     int
	gen    uint64 // slot generation, bumped on reuse
	lhs    words.Word
	rhs    words.Word
	active bool
}

// ID returns the rule's slot id. Ids of retired rules may be reused.
func (r *Rule) ID() int { return r.id }

// LHS returns the left hand side. Callers must not mutate it.
func (r *Rule) LHS() words.Word { return r.lhs }

// RHS returns the right hand side. Callers must not mutate it.
func (r *Rule) RHS() words.Word { return r.rhs }

// Active reports whether the rule is part of the current system.
func (r *Rule) Active() bool { return r.active }

// Generation returns the slot's reuse counter. A caller holding a rule
// across store mutations can compare generations to detect that the
// slot now holds a different rule.
func (r *Rule) Generation() uint64 { return r.gen }

// ruleRef identifies a rule occupancy of a slot: the slot id plus the
// generation at creation time. A ref is stale once the slot is reused.
type ruleRef struct {
	slot int
	gen  uint64
}
