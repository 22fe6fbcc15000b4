package kb

import (
	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/words"
)

// criticalPair is the transient result of resolving one overlap via
// each of the two rules involved. Never persisted: either the two
// words reduce to the same normal form, or their difference becomes a
// pending rule.
type criticalPair struct {
	a, b words.Word
}

// overlapMeasure computes the configured policy's measure for an
// overlap where the two left hand sides factor as A·B and B·C.
func (e *Engine) overlapMeasure(lenAB, lenBC, lenB int) int {
	switch e.policy {
	case OverlapABBC:
		return lenAB + lenBC
	case OverlapMaxABBC:
		if lenAB > lenBC {
			return lenAB
		}
		return lenBC
	default: // OverlapABC: |A·B·C|
		return lenAB + lenBC - lenB
	}
}

// examinePair generates every critical pair of the ordered rule pair
// and resolves each against the current active set, queueing the
// unresolved ones as pending rules. Overlaps whose measure exceeds the
// max-overlap bound are skipped and the pair is parked on the deferred
// list for a possible later round.
func (e *Engine) examinePair(task pairTask) {
	skipped := false
	e.eachOverlap(task.first, task.second, func(measure int, cp criticalPair) {
		if measure > e.maxOverlap {
			skipped = true
			return
		}
		e.overlaps++
		e.sinceCheck++
		e.resolve(cp)
	})
	if skipped {
		e.deferred = append(e.deferred, task)
	}
}

// resolve reduces both branches of a critical pair to normal form
// under the current active rules; a genuine discrepancy joins the
// pending batch.
func (e *Engine) resolve(cp criticalPair) {
	a := e.store.Rewrite(cp.a)
	b := e.store.Rewrite(cp.b)
	if !a.Equal(b) {
		e.pending = append(e.pending, pendingRule{u: a, v: b})
	}
}

// eachOverlap enumerates the overlaps of the ordered pair (r1, r2):
// every non-empty suffix of r1's lhs that is a prefix of r2's lhs,
// plus every occurrence of r2's lhs strictly inside r1's lhs. The
// prefix and suffix containments are not repeated here because they
// arise as full-length suffix-prefix overlaps of this pair or its
// reverse.
func (e *Engine) eachOverlap(r1, r2 *rewrite.Rule, fn func(measure int, cp criticalPair)) {
	lhs1, rhs1 := r1.LHS(), r1.RHS()
	lhs2, rhs2 := r2.LHS(), r2.RHS()
	self := r1 == r2

	max := len(lhs1)
	if len(lhs2) < max {
		max = len(lhs2)
	}
	for k := 1; k <= max; k++ {
		if self && k == len(lhs1) {
			// A rule fully overlapping itself resolves trivially.
			continue
		}
		if !lhs1.HasSuffix(lhs2[:k]) {
			continue
		}
		// lhs1 = A·B, lhs2 = B·C with B of length k. The overlap word
		// A·B·C reduces two ways: via r1 to rhs1·C, via r2 to A·rhs2.
		cp := criticalPair{
			a: words.Concat(rhs1, lhs2[k:]),
			b: words.Concat(lhs1[:len(lhs1)-k], rhs2),
		}
		fn(e.overlapMeasure(len(lhs1), len(lhs2), k), cp)
	}

	// r2's lhs strictly inside r1's lhs: the whole of lhs1 reduces via
	// r1 to rhs1 and via r2 to the spliced word.
	for i := 1; i+len(lhs2) < len(lhs1); i++ {
		if !lhs1[i:].HasPrefix(lhs2) {
			continue
		}
		cp := criticalPair{
			a: rhs1.Clone(),
			b: words.Concat(lhs1[:i], rhs2, lhs1[i+len(lhs2):]),
		}
		fn(e.overlapMeasure(len(lhs1), len(lhs2), len(lhs2)), cp)
	}
}
