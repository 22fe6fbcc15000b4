package words

// ReductionOrder is a strict total order on words used to orient
// rewriting rules: the larger side of a relation becomes the left hand
// side. Implementations must be well founded (no infinite descending
// chains) or rule application is not guaranteed to terminate.
type ReductionOrder interface {
	// Less reports whether u precedes v.
	Less(u, v Word) bool

	// Name identifies the order for logging and persistence.
	Name() string
}

// ShortLex is the default reduction order: shorter words precede longer
// words, and equal-length words compare lexicographically by letter
// value. Distinct words never compare equal, so ShortLex is total.
type ShortLex struct{}

// Less implements ReductionOrder.
func (ShortLex) Less(u, v Word) bool {
	if len(u) != len(v) {
		return len(u) < len(v)
	}
	for i := range u {
		if u[i] != v[i] {
			return u[i] < v[i]
		}
	}
	return false
}

// Name implements ReductionOrder.
func (ShortLex) Name() string { return "shortlex" }
