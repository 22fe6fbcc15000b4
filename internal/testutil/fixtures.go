// Package testutil provides shared fixtures for engine tests: a set
// of well-understood presentations with known completed systems, and
// a silent logger.
package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/kbend/internal/present"
)

// Logger returns a logger that discards everything, keeping test
// output clean.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Idempotent is the monogenic semigroup with an idempotent generator:
// alphabet {a}, relation aa = a. Completes immediately to the single
// rule aa -> a; one element.
func Idempotent() *present.Presentation {
	p, err := present.FromString("a")
	if err != nil {
		panic(err)
	}
	p.AddRule(p.Names.MustParse("aa"), p.Names.MustParse("a"))
	return p
}

// FreeMonoid is the free monoid on two generators: no relations, so
// the engine is confluent with zero rules and the monoid is infinite.
func FreeMonoid() *present.Presentation {
	p, err := present.FromString("ab")
	if err != nil {
		panic(err)
	}
	p.ContainsEmptyWord = true
	return p
}

// Alt4 presents the alternating group A4 as a monoid:
// a^2 = b^3 = (ab)^3 = empty. Completion terminates confluent and the
// Gilman graph counts 12 elements (plus the empty word).
func Alt4() *present.Presentation {
	p, err := present.FromString("ab")
	if err != nil {
		panic(err)
	}
	p.ContainsEmptyWord = true
	p.AddRule(p.Names.MustParse("aa"), p.Names.MustParse(""))
	p.AddRule(p.Names.MustParse("bbb"), p.Names.MustParse(""))
	p.AddRule(p.Names.MustParse("ababab"), p.Names.MustParse(""))
	return p
}

// Adjoined3 presents a semigroup on {0,1,2} with 2 adjoined as an
// explicit two-sided identity and 000 = 111 = 010101 = 2. Completion
// reaches 9 active rules.
func Adjoined3() *present.Presentation {
	p, err := present.FromString("012")
	if err != nil {
		panic(err)
	}
	p.AddRule(p.Names.MustParse("000"), p.Names.MustParse("2"))
	p.AddRule(p.Names.MustParse("111"), p.Names.MustParse("2"))
	p.AddRule(p.Names.MustParse("010101"), p.Names.MustParse("2"))
	p.AddIdentityRules(2)
	return p
}

// HeavyGroup presents a group whose completion produces a rule system
// in the hundreds before converging: generators a, b with formal
// inverses A, B and relations aaa = bbb = (ab)^4 = (aB)^5 = empty.
// Useful for limit and resumability tests that need a long run.
func HeavyGroup() *present.Presentation {
	p, err := present.FromString("abAB")
	if err != nil {
		panic(err)
	}
	p.ContainsEmptyWord = true
	if err := p.AddInverseRules(p.Names.MustParse("ABab"), 0, false); err != nil {
		panic(err)
	}
	p.AddRule(p.Names.MustParse("aaa"), p.Names.MustParse(""))
	p.AddRule(p.Names.MustParse("bbb"), p.Names.MustParse(""))
	p.AddRule(p.Names.MustParse("abababab"), p.Names.MustParse(""))
	p.AddRule(p.Names.MustParse("aBaBaBaBaB"), p.Names.MustParse(""))
	return p
}
