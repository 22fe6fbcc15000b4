package rewrite

import (
	"errors"
	"fmt"

	"github.com/roach88/kbend/internal/words"
)

// ErrTrivialRule is returned by AddRule when both sides are equal.
var ErrTrivialRule = errors.New("rule has equal sides")

// RuleOutOfRangeError reports a rule id that names no active rule.
type RuleOutOfRangeError struct {
	ID int
}

// Error implements the error interface.
func (e *RuleOutOfRangeError) Error() string {
	return fmt.Sprintf("RULE_OUT_OF_RANGE: no active rule with id %d", e.ID)
}

// Store holds the active and inactive rule set, the derived match
// index, and the constant-time counters over it.
//
// Store is not safe for concurrent mutation; the completion engine is
// its single writer. Reading while no run is in progress is safe.
type Store struct {
	order    words.ReductionOrder
	slots    []*Rule
	free     []int     // retired slot ids available for reuse
	seq      []ruleRef // creation order; stale refs skipped on iteration
	matcher  matcher
	active   int
	inactive int
	created  int
	maxLHS   int    // upper bound on active lhs length (monotone)
	version  uint64 // bumped on every mutation
}

// NewStore creates an empty store using the given reduction order and
// match strategy.
func NewStore(order words.ReductionOrder, strategy Strategy) (*Store, error) {
	s := &Store{order: order}
	switch strategy {
	case RewriteFromLeft:
		s.matcher = &linearMatcher{store: s}
	case RewriteTrie:
		s.matcher = &trieMatcher{store: s}
	default:
		return nil, fmt.Errorf("unknown rewriter strategy %q", strategy)
	}
	return s, nil
}

// Order returns the store's reduction order.
func (s *Store) Order() words.ReductionOrder { return s.order }

// Version returns a counter bumped on every mutation. Derived
// structures (the match index, cached confluence results) compare it
// to decide whether they are stale.
func (s *Store) Version() uint64 { return s.version }

// AddRule orients (lhs, rhs) under the reduction order, inserts the
// resulting rule, and returns it. The larger word becomes the left
// hand side. Returns ErrTrivialRule when the sides are equal.
func (s *Store) AddRule(lhs, rhs words.Word) (*Rule, error) {
	if lhs.Equal(rhs) {
		return nil, ErrTrivialRule
	}
	if s.order.Less(lhs, rhs) {
		lhs, rhs = rhs, lhs
	}

	var r *Rule
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]
		r = s.slots[slot]
		r.gen++
		r.lhs = lhs.Clone()
		r.rhs = rhs.Clone()
		r.active = true
		s.inactive--
	} else {
		r = &Rule{id: len(s.slots), lhs: lhs.Clone(), rhs: rhs.Clone(), active: true}
		s.slots = append(s.slots, r)
	}

	s.seq = append(s.seq, ruleRef{slot: r.id, gen: r.gen})
	s.active++
	s.created++
	if len(r.lhs) > s.maxLHS {
		s.maxLHS = len(r.lhs)
	}
	s.version++
	return r, nil
}

// Deactivate retires the rule with the given id in constant time. The
// slot is recycled through the free list, not physically overwritten
// until reused.
func (s *Store) Deactivate(id int) error {
	if id < 0 || id >= len(s.slots) || !s.slots[id].active {
		return &RuleOutOfRangeError{ID: id}
	}
	s.slots[id].active = false
	s.free = append(s.free, id)
	s.active--
	s.inactive++
	s.version++
	return nil
}

// SetRHS replaces a rule's right hand side in place. Used by the
// completion engine to keep right hand sides irreducible when a new
// rule makes an existing rhs stale. The lhs is never mutated.
func (s *Store) SetRHS(r *Rule, rhs words.Word) {
	r.rhs = rhs.Clone()
	s.version++
}

// EachActive calls fn for every active rule in creation order,
// stopping early if fn returns false. The sequence is lazy and
// restartable: each call walks the live creation log.
func (s *Store) EachActive(fn func(*Rule) bool) {
	for _, ref := range s.seq {
		r := s.slots[ref.slot]
		if r.gen != ref.gen || !r.active {
			continue
		}
		if !fn(r) {
			return
		}
	}
}

// ActiveRules returns a snapshot of the active rules in creation
// order. The returned slice is fresh; the *Rule values are the
// store's own and must not be mutated.
func (s *Store) ActiveRules() []*Rule {
	out := make([]*Rule, 0, s.active)
	s.EachActive(func(r *Rule) bool {
		out = append(out, r)
		return true
	})
	return out
}

// NumberOfActiveRules returns the active rule count. O(1).
func (s *Store) NumberOfActiveRules() int { return s.active }

// NumberOfInactiveRules returns the count of retired slots not yet
// reused. O(1).
func (s *Store) NumberOfInactiveRules() int { return s.inactive }

// TotalRulesCreated counts every rule ever constructed, including
// rules created into reused slots.
func (s *Store) TotalRulesCreated() int { return s.created }

// Rewrite reduces w to its normal form under the active rules by
// repeatedly replacing the leftmost occurrence of any active lhs with
// that rule's rhs. It never mutates w or the store.
//
// Termination relies on every rule satisfying lhs > rhs under the
// store's well-founded reduction order.
func (s *Store) Rewrite(w words.Word) words.Word {
	out := w.Clone()
	if out == nil {
		out = words.Empty()
	}
	start := 0
	for {
		rule, pos, ok := s.matcher.match(out, start)
		if !ok {
			return out
		}
		// Splice rhs over the matched lhs occurrence.
		tail := out[pos+len(rule.lhs):]
		next := make(words.Word, 0, pos+len(rule.rhs)+len(tail))
		next = append(next, out[:pos]...)
		next = append(next, rule.rhs...)
		next = append(next, tail...)
		out = next

		// New matches can only begin where the replacement changed
		// the word: at or after pos-maxLHS+1.
		start = pos - s.maxLHS + 1
		if start < 0 {
			start = 0
		}
	}
}

// IsIrreducible reports whether no active rule applies to w.
func (s *Store) IsIrreducible(w words.Word) bool {
	_, _, ok := s.matcher.match(w, 0)
	return !ok
}

// RewriterName returns the name of the configured match strategy.
func (s *Store) RewriterName() string { return s.matcher.name() }
