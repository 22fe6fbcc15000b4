package kb

import (
	"fmt"

	"github.com/roach88/kbend/internal/words"
)

// validateWord checks that every letter of w lies in the
// presentation's alphabet. Out-of-range letters are a per-call error
// and never touch engine state.
func (e *Engine) validateWord(w words.Word) error {
	if max, ok := w.MaxLetter(); ok && int(max) >= e.p.Alphabet {
		return &RuntimeError{
			Code:    ErrCodeLetterOutOfRange,
			Message: fmt.Sprintf("letter %d exceeds alphabet size %d", max, e.p.Alphabet),
		}
	}
	return nil
}

// NormalForm reduces w under the current active rules. The result is
// the canonical representative of w's class only once the system is
// confluent; before that it is simply a reduced word.
func (e *Engine) NormalForm(w words.Word) (words.Word, error) {
	if err := e.validateWord(w); err != nil {
		return nil, err
	}
	return e.store.Rewrite(w), nil
}

// Equal reports whether u and v rewrite to the same word under the
// current active rules. When the engine has finished and is confluent
// this decides the word problem; otherwise a true answer is sound but
// a false answer is inconclusive.
func (e *Engine) Equal(u, v words.Word) (bool, error) {
	if err := e.validateWord(u); err != nil {
		return false, err
	}
	if err := e.validateWord(v); err != nil {
		return false, err
	}
	return e.store.Rewrite(u).Equal(e.store.Rewrite(v)), nil
}

// Contains is Equal under its congruence name: it reports whether the
// relation u = v holds in the presented semigroup, as far as the
// current rule set can tell.
func (e *Engine) Contains(u, v words.Word) (bool, error) {
	return e.Equal(u, v)
}

// ActiveRules returns the active rules as (lhs, rhs) pairs in rule
// creation order. The words are copies; mutating them does not affect
// the engine.
func (e *Engine) ActiveRules() [][2]words.Word {
	out := make([][2]words.Word, 0, e.store.NumberOfActiveRules())
	for _, r := range e.store.ActiveRules() {
		out = append(out, [2]words.Word{r.LHS().Clone(), r.RHS().Clone()})
	}
	return out
}

// NumberOfActiveRules returns the active rule count.
func (e *Engine) NumberOfActiveRules() int { return e.store.NumberOfActiveRules() }

// NumberOfInactiveRules returns the retired-but-unreused rule count.
func (e *Engine) NumberOfInactiveRules() int { return e.store.NumberOfInactiveRules() }

// TotalRulesCreated counts every rule ever constructed, including
// rules whose slots were later reused.
func (e *Engine) TotalRulesCreated() int { return e.store.TotalRulesCreated() }

// IsReduced reports whether the current rule set is reduced: no rule's
// lhs contains another rule's lhs, and every rhs is irreducible under
// the other rules.
func (e *Engine) IsReduced() bool {
	active := e.store.ActiveRules()
	for _, r1 := range active {
		for _, r2 := range active {
			if r1 == r2 {
				continue
			}
			if r1.LHS().Index(r2.LHS()) >= 0 {
				return false
			}
		}
	}
	return true
}
