// Package gilman builds the automaton recognizing the irreducible
// words of a rewriting system: its accepted paths from the initial
// node are exactly the normal forms.
//
// The graph is only meaningful for a confluent rule set. The builder
// does not enforce confluence before snapshotting the rules, since
// computing confluence can be as run-limited as completion itself;
// checking is the caller's responsibility.
package gilman

import (
	"math"

	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/words"
)

// Infinite is the Size result for a graph with a reachable cycle.
const Infinite = math.MaxUint64

// Graph is a deterministic finite automaton over the alphabet. Each
// node is identified with an irreducible word (a proper prefix of some
// rule's lhs, or the empty word for the initial node); an edge labeled
// a from node w leads to the node identified with the longest such
// suffix of w·a, and is absent when w·a is reducible.
//
// Graph owns its node and edge tables: it is a snapshot of the rule
// set at build time, not a view, and must be rebuilt if rules change.
type Graph struct {
	alphabet int
	labels   []words.Word // labels[i] is the word identifying node i
	edges    []map[words.Letter]int
	numEdges int
}

// Build snapshots the active rules of store into a Gilman graph over
// an alphabet of the given size.
func Build(store *rewrite.Store, alphabet int) *Graph {
	g := &Graph{alphabet: alphabet}

	// States are the proper prefixes of active left hand sides, plus
	// the empty word. All are irreducible: any reducible prefix would
	// make its rule's lhs reducible by another rule.
	index := make(map[string]int)
	add := func(w words.Word) int {
		key := wordKey(w)
		if id, ok := index[key]; ok {
			return id
		}
		id := len(g.labels)
		index[key] = id
		g.labels = append(g.labels, w.Clone())
		g.edges = append(g.edges, make(map[words.Letter]int))
		return id
	}

	add(words.Empty())
	store.EachActive(func(r *rewrite.Rule) bool {
		lhs := r.LHS()
		for i := 1; i < len(lhs); i++ {
			add(lhs[:i])
		}
		return true
	})

	// Transition: from state w on letter a, reject when some lhs is a
	// suffix of w·a (the extension is reducible), otherwise go to the
	// longest suffix of w·a that is itself a state.
	for id := range g.labels {
		w := g.labels[id]
		for a := words.Letter(0); int(a) < alphabet; a++ {
			ext := words.Concat(w, words.Word{a})
			if endsReducible(store, ext) {
				continue
			}
			g.edges[id][a] = longestSuffixState(index, ext)
			g.numEdges++
		}
	}
	return g
}

func wordKey(w words.Word) string {
	b := make([]byte, 0, len(w)*4)
	for _, a := range w {
		b = append(b, byte(a), byte(a>>8), byte(a>>16), byte(a>>24))
	}
	return string(b)
}

// endsReducible reports whether some active lhs is a suffix of w.
// Since every proper prefix of w is a state (hence irreducible), this
// is the only way w·a can become reducible.
func endsReducible(store *rewrite.Store, w words.Word) bool {
	reducible := false
	store.EachActive(func(r *rewrite.Rule) bool {
		if w.HasSuffix(r.LHS()) {
			reducible = true
			return false
		}
		return true
	})
	return reducible
}

func longestSuffixState(index map[string]int, w words.Word) int {
	for i := 0; i <= len(w); i++ {
		if id, ok := index[wordKey(w[i:])]; ok {
			return id
		}
	}
	// Unreachable: the empty suffix is always a state.
	return 0
}

// NumberOfNodes returns the node count, including the initial node.
func (g *Graph) NumberOfNodes() int { return len(g.labels) }

// NumberOfEdges returns the labeled edge count.
func (g *Graph) NumberOfEdges() int { return g.numEdges }

// InitialNode returns the id of the empty-word node.
func (g *Graph) InitialNode() int { return 0 }

// NodeLabels returns the irreducible word identifying each node, in
// node-id order. The slice and words are copies.
func (g *Graph) NodeLabels() []words.Word {
	out := make([]words.Word, len(g.labels))
	for i, w := range g.labels {
		out[i] = w.Clone()
	}
	return out
}

// Target returns the node reached from node via letter a, or false
// when no edge exists (the extension is not a normal form).
func (g *Graph) Target(node int, a words.Letter) (int, bool) {
	if node < 0 || node >= len(g.edges) {
		return 0, false
	}
	t, ok := g.edges[node][a]
	return t, ok
}

// Acyclic reports whether no node reachable from the initial node lies
// on a cycle (self-loops included). The recognized language, and hence
// the presented semigroup, is finite exactly when the graph is acyclic.
func (g *Graph) Acyclic() bool {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make([]int, len(g.labels))
	var visit func(int) bool
	visit = func(n int) bool {
		switch state[n] {
		case onStack:
			return false
		case done:
			return true
		}
		state[n] = onStack
		for _, t := range g.edges[n] {
			if !visit(t) {
				return false
			}
		}
		state[n] = done
		return true
	}
	return visit(0)
}

// Size counts the words the graph accepts: the number of irreducible
// words, which for a confluent system is the number of elements
// represented (including the empty word). Returns Infinite when the
// graph has a reachable cycle.
func (g *Graph) Size() uint64 {
	if !g.Acyclic() {
		return Infinite
	}
	// Paths from a node: the empty path plus one per outgoing edge
	// path extension. Acyclic, so memoization terminates.
	memo := make([]uint64, len(g.labels))
	seen := make([]bool, len(g.labels))
	var count func(int) uint64
	count = func(n int) uint64 {
		if seen[n] {
			return memo[n]
		}
		total := uint64(1)
		for _, t := range g.edges[n] {
			total += count(t)
		}
		seen[n] = true
		memo[n] = total
		return total
	}
	return count(0)
}

// NormalFormsUpTo enumerates the accepted words of length at most
// maxLen in shortlex order.
func (g *Graph) NormalFormsUpTo(maxLen int) []words.Word {
	type item struct {
		node int
		word words.Word
	}
	var out []words.Word
	frontier := []item{{node: 0, word: words.Empty()}}
	for depth := 0; depth <= maxLen; depth++ {
		var next []item
		for _, it := range frontier {
			out = append(out, it.word)
			if depth == maxLen {
				continue
			}
			for a := words.Letter(0); int(a) < g.alphabet; a++ {
				if t, ok := g.Target(it.node, a); ok {
					next = append(next, item{node: t, word: words.Concat(it.word, words.Word{a})})
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return out
}
