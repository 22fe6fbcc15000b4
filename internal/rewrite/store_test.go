package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kbend/internal/words"
)

func newTestStore(t *testing.T, strategy Strategy) *Store {
	t.Helper()
	s, err := NewStore(words.ShortLex{}, strategy)
	require.NoError(t, err)
	return s
}

func TestNewStore_UnknownStrategy(t *testing.T) {
	_, err := NewStore(words.ShortLex{}, Strategy("RewriteBackwards"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rewriter strategy")
}

func TestAddRule_OrientsUnderShortLex(t *testing.T) {
	s := newTestStore(t, RewriteTrie)

	// Passed smaller-first: the store must swap.
	r, err := s.AddRule(words.Word{0}, words.Word{0, 0})
	require.NoError(t, err)
	assert.True(t, r.LHS().Equal(words.Word{0, 0}))
	assert.True(t, r.RHS().Equal(words.Word{0}))
	assert.True(t, r.Active())

	// Equal length: lexicographically larger side becomes the lhs.
	r, err = s.AddRule(words.Word{1, 0}, words.Word{0, 1})
	require.NoError(t, err)
	assert.True(t, r.LHS().Equal(words.Word{1, 0}))
	assert.True(t, r.RHS().Equal(words.Word{0, 1}))
}

func TestAddRule_TrivialRule(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	_, err := s.AddRule(words.Word{0, 1}, words.Word{0, 1})
	assert.ErrorIs(t, err, ErrTrivialRule)
	assert.Equal(t, 0, s.NumberOfActiveRules())
}

func TestDeactivate_Counters(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	r1, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)
	_, err = s.AddRule(words.Word{1, 1}, words.Word{1})
	require.NoError(t, err)

	assert.Equal(t, 2, s.NumberOfActiveRules())
	assert.Equal(t, 0, s.NumberOfInactiveRules())
	assert.Equal(t, 2, s.TotalRulesCreated())

	require.NoError(t, s.Deactivate(r1.ID()))
	assert.False(t, r1.Active())
	assert.Equal(t, 1, s.NumberOfActiveRules())
	assert.Equal(t, 1, s.NumberOfInactiveRules())
	assert.Equal(t, 2, s.TotalRulesCreated())
}

func TestDeactivate_OutOfRange(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	r, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)

	var oor *RuleOutOfRangeError
	err = s.Deactivate(7)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 7, oor.ID)

	// Deactivating twice is also out of range: the id no longer names
	// an active rule.
	require.NoError(t, s.Deactivate(r.ID()))
	assert.Error(t, s.Deactivate(r.ID()))
}

func TestAddRule_ReusesRetiredSlots(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	r1, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)
	gen := r1.Generation()
	require.NoError(t, s.Deactivate(r1.ID()))

	r2, err := s.AddRule(words.Word{1, 1}, words.Word{1})
	require.NoError(t, err)
	assert.Equal(t, r1.ID(), r2.ID(), "retired slot is recycled")
	assert.Equal(t, gen+1, r2.Generation(), "reuse bumps the generation")
	assert.Equal(t, 1, s.NumberOfActiveRules())
	assert.Equal(t, 0, s.NumberOfInactiveRules())
	assert.Equal(t, 2, s.TotalRulesCreated())
}

func TestEachActive_SkipsStaleRefs(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	_, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)
	r2, err := s.AddRule(words.Word{1, 1}, words.Word{1})
	require.NoError(t, err)
	require.NoError(t, s.Deactivate(r2.ID()))
	r3, err := s.AddRule(words.Word{0, 1}, words.Word{1, 0})
	require.NoError(t, err)
	require.Equal(t, r2.ID(), r3.ID())

	var seen []words.Word
	s.EachActive(func(r *Rule) bool {
		seen = append(seen, r.LHS())
		return true
	})
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Equal(words.Word{0, 0}))
	assert.True(t, seen[1].Equal(words.Word{0, 1}), "reused slot appears at its new creation position")
}

func TestEachActive_StopsEarly(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	_, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)
	_, err = s.AddRule(words.Word{1, 1}, words.Word{1})
	require.NoError(t, err)

	calls := 0
	s.EachActive(func(*Rule) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestVersion_BumpsOnMutation(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	v0 := s.Version()

	r, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)
	v1 := s.Version()
	assert.Greater(t, v1, v0)

	s.SetRHS(r, words.Word{1})
	v2 := s.Version()
	assert.Greater(t, v2, v1)
	assert.True(t, r.RHS().Equal(words.Word{1}))

	require.NoError(t, s.Deactivate(r.ID()))
	assert.Greater(t, s.Version(), v2)
}

func TestRewrite(t *testing.T) {
	for _, strategy := range []Strategy{RewriteFromLeft, RewriteTrie} {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestStore(t, strategy)
			// aa -> a, bb -> b, ab -> ba over {a=0, b=1}.
			_, err := s.AddRule(words.Word{0, 0}, words.Word{0})
			require.NoError(t, err)
			_, err = s.AddRule(words.Word{1, 1}, words.Word{1})
			require.NoError(t, err)
			_, err = s.AddRule(words.Word{0, 1}, words.Word{1, 0})
			require.NoError(t, err)

			testCases := []struct {
				name string
				in   words.Word
				want words.Word
			}{
				{"already irreducible", words.Word{1, 0}, words.Word{1, 0}},
				{"empty word", words.Empty(), words.Empty()},
				{"single step", words.Word{0, 0}, words.Word{0}},
				{"cascade", words.Word{0, 0, 1, 1}, words.Word{1, 0}},
				{"replacement re-examined", words.Word{0, 1, 0}, words.Word{1, 0}},
			}
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					got := s.Rewrite(tc.in)
					assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
				})
			}
		})
	}
}

func TestRewrite_DoesNotMutateInput(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	_, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)

	in := words.Word{0, 0}
	_ = s.Rewrite(in)
	assert.True(t, in.Equal(words.Word{0, 0}))
}

func TestIsIrreducible(t *testing.T) {
	s := newTestStore(t, RewriteTrie)
	_, err := s.AddRule(words.Word{0, 0}, words.Word{0})
	require.NoError(t, err)

	assert.True(t, s.IsIrreducible(words.Word{0, 1, 0}))
	assert.False(t, s.IsIrreducible(words.Word{1, 0, 0}))
	assert.True(t, s.IsIrreducible(words.Empty()))
}
