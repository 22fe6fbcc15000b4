package gilman

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kbend/internal/kb"
	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/testutil"
	"github.com/roach88/kbend/internal/words"
)

func storeWithRules(t *testing.T, rules [][2]words.Word) *rewrite.Store {
	t.Helper()
	s, err := rewrite.NewStore(words.ShortLex{}, rewrite.RewriteTrie)
	require.NoError(t, err)
	for _, pair := range rules {
		_, err := s.AddRule(pair[0], pair[1])
		require.NoError(t, err)
	}
	return s
}

func TestBuild_SingleIdempotent(t *testing.T) {
	// aa -> a over a one-letter alphabet: nodes for the empty word and
	// "a", one edge, and exactly two accepted words.
	s := storeWithRules(t, [][2]words.Word{{{0, 0}, {0}}})
	g := Build(s, 1)

	assert.Equal(t, 2, g.NumberOfNodes())
	assert.Equal(t, 1, g.NumberOfEdges())
	assert.Equal(t, 0, g.InitialNode())
	assert.True(t, g.Acyclic())
	assert.Equal(t, uint64(2), g.Size())

	next, ok := g.Target(0, 0)
	require.True(t, ok)
	_, ok = g.Target(next, 0)
	assert.False(t, ok, "aa is reducible, so no second a-edge")
}

func TestBuild_FreeMonoid(t *testing.T) {
	s := storeWithRules(t, nil)
	g := Build(s, 2)

	assert.Equal(t, 1, g.NumberOfNodes())
	assert.Equal(t, 2, g.NumberOfEdges(), "both letters loop on the initial node")
	assert.False(t, g.Acyclic())
	assert.Equal(t, uint64(Infinite), g.Size())
}

func TestBuild_CommutingIdempotents(t *testing.T) {
	// aa -> a, bb -> b, ba -> ab: the normal forms are the empty word,
	// a, b, and ab.
	s := storeWithRules(t, [][2]words.Word{
		{{0, 0}, {0}},
		{{1, 1}, {1}},
		{{1, 0}, {0, 1}},
	})
	g := Build(s, 2)

	assert.Equal(t, 3, g.NumberOfNodes())
	assert.Equal(t, 3, g.NumberOfEdges())
	assert.True(t, g.Acyclic())
	assert.Equal(t, uint64(4), g.Size())
}

func TestBuild_TargetOutOfRange(t *testing.T) {
	s := storeWithRules(t, nil)
	g := Build(s, 1)
	_, ok := g.Target(-1, 0)
	assert.False(t, ok)
	_, ok = g.Target(99, 0)
	assert.False(t, ok)
}

func TestNodeLabels_AreCopies(t *testing.T) {
	s := storeWithRules(t, [][2]words.Word{{{0, 0}, {0}}})
	g := Build(s, 1)

	labels := g.NodeLabels()
	require.Len(t, labels, 2)
	assert.True(t, labels[0].Equal(words.Empty()))
	assert.True(t, labels[1].Equal(words.Word{0}))

	labels[1][0] = 9
	assert.True(t, g.NodeLabels()[1].Equal(words.Word{0}))
}

func TestNormalFormsUpTo_FreeMonoid(t *testing.T) {
	s := storeWithRules(t, nil)
	g := Build(s, 2)

	got := g.NormalFormsUpTo(2)
	want := []words.Word{
		{}, {0}, {1},
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "position %d: got %v want %v", i, got[i], want[i])
	}
}

func TestNormalFormsUpTo_StopsWhenLanguageExhausted(t *testing.T) {
	s := storeWithRules(t, [][2]words.Word{{{0, 0}, {0}}})
	g := Build(s, 1)

	got := g.NormalFormsUpTo(10)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(words.Empty()))
	assert.True(t, got[1].Equal(words.Word{0}))
}

// The completed system of 000 = 111 = 010101 = 2 with 2 adjoined as an
// identity has a Gilman graph of 9 nodes and 13 edges.
func TestBuild_CompletedAdjoinedIdentity(t *testing.T) {
	eng, err := kb.New(testutil.Adjoined3(), kb.WithLogger(testutil.Logger()))
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background()))
	require.True(t, eng.Confluent())

	g := Build(eng.Store(), eng.Presentation().Alphabet)
	assert.Equal(t, 9, g.NumberOfNodes())
	assert.Equal(t, 13, g.NumberOfEdges())
	assert.True(t, g.Acyclic())
}

// A4 presented as a monoid has 12 elements, each with one normal form.
func TestBuild_Alt4Size(t *testing.T) {
	eng, err := kb.New(testutil.Alt4(), kb.WithLogger(testutil.Logger()))
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background()))
	require.True(t, eng.Confluent())

	g := Build(eng.Store(), eng.Presentation().Alphabet)
	assert.True(t, g.Acyclic())
	assert.Equal(t, uint64(12), g.Size())
}
