package words

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Alphabet maps printable generator names (runes) to letters and back.
// The engine itself works only with letters; Alphabet exists so that
// the CLI, the presentation compiler, and tests can use readable words
// like "aba" instead of [0, 1, 0].
type Alphabet struct {
	runes   []rune
	letters map[rune]Letter
}

// NewAlphabet builds an alphabet from a string of distinct runes. The
// i-th rune names letter i. The string is NFC-normalized first so that
// visually identical inputs map to the same letters.
func NewAlphabet(s string) (*Alphabet, error) {
	normalized := norm.NFC.String(s)
	a := &Alphabet{letters: make(map[rune]Letter)}
	for _, r := range normalized {
		if _, dup := a.letters[r]; dup {
			return nil, fmt.Errorf("duplicate letter %q in alphabet %q", r, normalized)
		}
		a.letters[r] = Letter(len(a.runes))
		a.runes = append(a.runes, r)
	}
	return a, nil
}

// Size returns the number of letters in the alphabet.
func (a *Alphabet) Size() int {
	return len(a.runes)
}

// Parse converts a string into a word. Every rune must name a letter.
func (a *Alphabet) Parse(s string) (Word, error) {
	normalized := norm.NFC.String(s)
	w := make(Word, 0, len(normalized))
	for _, r := range normalized {
		l, ok := a.letters[r]
		if !ok {
			return nil, fmt.Errorf("letter %q not in alphabet %q", r, string(a.runes))
		}
		w = append(w, l)
	}
	return w, nil
}

// MustParse is Parse for known-good literals; it panics on error.
// Intended for tests and fixtures only.
func (a *Alphabet) MustParse(s string) Word {
	w, err := a.Parse(s)
	if err != nil {
		panic(err)
	}
	return w
}

// Format renders a word using the alphabet's rune names. Letters
// outside the alphabet render as "#<n>".
func (a *Alphabet) Format(w Word) string {
	var b strings.Builder
	for _, l := range w {
		if int(l) < len(a.runes) {
			b.WriteRune(a.runes[int(l)])
		} else {
			fmt.Fprintf(&b, "#%d", l)
		}
	}
	return b.String()
}

// String returns the alphabet's runes in letter order.
func (a *Alphabet) String() string {
	return string(a.runes)
}
