// Package present defines the presentation input consumed by the
// completion engine: an alphabet, a list of defining relations, and a
// flag for whether the empty word is an element (monoid vs. semigroup).
//
// The engine treats a validated Presentation as read only. All
// validation happens here, before seeding, so that an invalid input
// never creates partial engine state.
package present

import (
	"fmt"

	"github.com/roach88/kbend/internal/words"
)

// Relation is a defining relation u = v between two words over the
// presentation's alphabet.
type Relation struct {
	Left  words.Word
	Right words.Word
}

// Presentation describes a finitely presented semigroup or monoid.
type Presentation struct {
	// Alphabet is the number of generators. Letters in relations must
	// lie in {0, ..., Alphabet-1}.
	Alphabet int

	// Names optionally maps letters to printable runes for output.
	// May be nil; the engine never reads it.
	Names *words.Alphabet

	// Relations are the defining relations.
	Relations []Relation

	// ContainsEmptyWord is true for monoid presentations, where the
	// empty word is a valid element and may appear in relations.
	ContainsEmptyWord bool
}

// FromString builds a presentation whose alphabet is the runes of s,
// in order. Relations can then be added with AddRule using words
// parsed against p.Names.
func FromString(s string) (*Presentation, error) {
	a, err := words.NewAlphabet(s)
	if err != nil {
		return nil, err
	}
	return &Presentation{Alphabet: a.Size(), Names: a}, nil
}

// AddRule appends the relation lhs = rhs.
func (p *Presentation) AddRule(lhs, rhs words.Word) {
	p.Relations = append(p.Relations, Relation{Left: lhs.Clone(), Right: rhs.Clone()})
}

// AddIdentityRules appends the relations e·a = a and a·e = a for every
// letter a, making e a two-sided identity.
func (p *Presentation) AddIdentityRules(e words.Letter) {
	for a := words.Letter(0); int(a) < p.Alphabet; a++ {
		if a == e {
			p.AddRule(words.Word{e, e}, words.Word{e})
			continue
		}
		p.AddRule(words.Word{a, e}, words.Word{a})
		p.AddRule(words.Word{e, a}, words.Word{a})
	}
}

// AddInverseRules appends the relations a·inv(a) = id for every letter,
// where inverses[a] is the inverse of letter a. For a monoid
// presentation (ContainsEmptyWord) pass hasID false and the products
// reduce to the empty word; otherwise id names the identity letter.
func (p *Presentation) AddInverseRules(inverses []words.Letter, id words.Letter, hasID bool) error {
	if len(inverses) != p.Alphabet {
		return fmt.Errorf("inverses list has %d entries, alphabet has %d", len(inverses), p.Alphabet)
	}
	identity := words.Empty()
	if hasID {
		identity = words.Word{id}
	}
	for a := words.Letter(0); int(a) < p.Alphabet; a++ {
		if hasID && a == id {
			continue
		}
		inv := inverses[int(a)]
		if hasID && inv == id {
			continue
		}
		p.AddRule(words.Word{a, inv}, identity)
	}
	return nil
}

// Validate checks the presentation for structural errors: an empty
// alphabet with relations present, letters outside the alphabet, or an
// empty relation side in a semigroup presentation. A nil error means
// the engine may seed from it safely.
func (p *Presentation) Validate() error {
	if p.Alphabet == 0 && len(p.Relations) > 0 {
		return &ValidationError{
			Code:    ErrCodeEmptyAlphabet,
			Message: "relations present but alphabet is empty",
		}
	}
	for i, rel := range p.Relations {
		for _, side := range []words.Word{rel.Left, rel.Right} {
			if max, ok := side.MaxLetter(); ok && int(max) >= p.Alphabet {
				return &ValidationError{
					Code:     ErrCodeLetterOutOfRange,
					Message:  fmt.Sprintf("letter %d exceeds alphabet size %d", max, p.Alphabet),
					Relation: i,
				}
			}
			if len(side) == 0 && !p.ContainsEmptyWord {
				return &ValidationError{
					Code:     ErrCodeEmptyWord,
					Message:  "empty word in relation of a semigroup presentation",
					Relation: i,
				}
			}
		}
	}
	return nil
}

// IsObviouslyInfinite reports whether the presented semigroup or monoid
// is infinite for reasons visible without running completion: a
// generator that occurs in no relation generates a free factor, and
// fewer relations than generators cannot collapse the free object to a
// finite one.
func (p *Presentation) IsObviouslyInfinite() bool {
	if p.Alphabet == 0 {
		return false
	}
	if len(p.Relations) < p.Alphabet {
		return true
	}
	seen := make([]bool, p.Alphabet)
	for _, rel := range p.Relations {
		for _, side := range []words.Word{rel.Left, rel.Right} {
			for _, a := range side {
				if int(a) < len(seen) {
					seen[int(a)] = true
				}
			}
		}
	}
	for _, s := range seen {
		if !s {
			return true
		}
	}
	return false
}
