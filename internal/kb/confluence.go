package kb

// Confluent recomputes every critical pair among the active rules,
// ignoring the max-overlap bound, and reports whether all of them
// reduce to a common normal form. The result is cached against the
// store version; any rule mutation invalidates it.
//
// The check is quadratic in the active rule count, which is why the
// completion loop rate-limits it with the check-confluence interval
// instead of running it every step.
func (e *Engine) Confluent() bool {
	if e.confluentValid && e.confluentAt == e.store.Version() {
		return e.confluent
	}
	e.confluent = e.checkConfluence()
	e.confluentAt = e.store.Version()
	e.confluentValid = true
	return e.confluent
}

// ConfluentKnown reports whether the last computed confluence value is
// still valid. False after any rule-store mutation since the last
// Confluent call, and before the first one.
func (e *Engine) ConfluentKnown() bool {
	return e.confluentValid && e.confluentAt == e.store.Version()
}

// checkConfluence walks all ordered pairs of active rules and tests
// every critical pair, stopping at the first discrepancy. Read only:
// no store mutation, no pending rules produced.
func (e *Engine) checkConfluence() bool {
	if len(e.pending) > 0 {
		// Un-integrated equations are unresolved critical pairs.
		return false
	}
	active := e.store.ActiveRules()
	for _, r1 := range active {
		for _, r2 := range active {
			joinable := true
			e.eachOverlap(r1, r2, func(_ int, cp criticalPair) {
				if !joinable {
					return
				}
				if !e.store.Rewrite(cp.a).Equal(e.store.Rewrite(cp.b)) {
					joinable = false
				}
			})
			if !joinable {
				return false
			}
		}
	}
	return true
}
