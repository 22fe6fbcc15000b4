package rewrite

import (
	"fmt"

	"github.com/roach88/kbend/internal/words"
)

// Strategy selects a match-index implementation. The two strategies
// produce identical matches on every input; they differ only in
// throughput. Selected at store construction, fixed thereafter.
type Strategy string

const (
	// RewriteFromLeft scans all active rules at each word position.
	RewriteFromLeft Strategy = "RewriteFromLeft"

	// RewriteTrie walks a prefix tree of active left hand sides.
	RewriteTrie Strategy = "RewriteTrie"
)

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case RewriteFromLeft, RewriteTrie:
		return Strategy(name), nil
	}
	return "", fmt.Errorf("unknown rewriter strategy %q", name)
}

// matcher finds rule applications in words.
//
// match returns the match at the leftmost position >= from. When
// several active rules match at that position the shortest lhs wins,
// ties broken by lowest rule id; both implementations observe the same
// tie-break so they are interchangeable.
type matcher interface {
	match(w words.Word, from int) (*Rule, int, bool)
	name() string
}

// linearMatcher is the RewriteFromLeft strategy: no index at all, a
// scan over the active rule list per word position.
type linearMatcher struct {
	store *Store
}

func (m *linearMatcher) name() string { return string(RewriteFromLeft) }

func (m *linearMatcher) match(w words.Word, from int) (*Rule, int, bool) {
	for pos := from; pos < len(w); pos++ {
		var best *Rule
		m.store.EachActive(func(r *Rule) bool {
			if !w[pos:].HasPrefix(r.lhs) {
				return true
			}
			if best == nil ||
				len(r.lhs) < len(best.lhs) ||
				(len(r.lhs) == len(best.lhs) && r.id < best.id) {
				best = r
			}
			return true
		})
		if best != nil {
			return best, pos, true
		}
	}
	return nil, 0, false
}

// trieMatcher is the RewriteTrie strategy: a prefix tree over active
// left hand sides, rebuilt lazily whenever the store has mutated. The
// tree is derived state, always reconstructible from the active rules.
type trieMatcher struct {
	store   *Store
	root    *trieNode
	builtAt uint64
	fresh   bool
}

type trieNode struct {
	children map[words.Letter]*trieNode
	terminal *Rule // rule whose lhs ends here, lowest id on duplicates
}

func (m *trieMatcher) name() string { return string(RewriteTrie) }

func (m *trieMatcher) rebuild() {
	m.root = &trieNode{}
	m.store.EachActive(func(r *Rule) bool {
		node := m.root
		for _, a := range r.lhs {
			if node.children == nil {
				node.children = make(map[words.Letter]*trieNode)
			}
			child, ok := node.children[a]
			if !ok {
				child = &trieNode{}
				node.children[a] = child
			}
			node = child
		}
		if node.terminal == nil || r.id < node.terminal.id {
			node.terminal = r
		}
		return true
	})
	m.builtAt = m.store.version
	m.fresh = true
}

func (m *trieMatcher) match(w words.Word, from int) (*Rule, int, bool) {
	if !m.fresh || m.builtAt != m.store.version {
		m.rebuild()
	}
	for pos := from; pos < len(w); pos++ {
		node := m.root
		for i := pos; i < len(w); i++ {
			child, ok := node.children[w[i]]
			if !ok {
				break
			}
			node = child
			if node.terminal != nil {
				// First terminal on the walk is the shortest lhs
				// matching at pos, mirroring the linear tie-break.
				return node.terminal, pos, true
			}
		}
	}
	return nil, 0, false
}
