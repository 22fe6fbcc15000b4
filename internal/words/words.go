// Package words provides the letter and word primitives used by the
// rewriting engine: letters are small integers, words are letter
// sequences, and reduction orders compare words.
package words

// Letter identifies a single generator. The alphabet for a presentation
// with n generators is the set {0, ..., n-1}.
type Letter uint32

// Word is an ordered, finite sequence of letters. The empty word is a
// valid value; a nil Word and an empty Word are interchangeable as
// values but callers should use Empty() when they mean "the empty word"
// rather than "no word".
type Word []Letter

// Empty returns the empty word.
func Empty() Word {
	return Word{}
}

// Clone returns a copy of w that shares no storage with it.
func (w Word) Clone() Word {
	if w == nil {
		return nil
	}
	out := make(Word, len(w))
	copy(out, w)
	return out
}

// Equal reports whether w and v are the same sequence of letters.
func (w Word) Equal(v Word) bool {
	if len(w) != len(v) {
		return false
	}
	for i := range w {
		if w[i] != v[i] {
			return false
		}
	}
	return true
}

// Concat returns a new word holding the letters of each argument in order.
func Concat(parts ...Word) Word {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Word, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// HasPrefix reports whether p occurs at the start of w.
func (w Word) HasPrefix(p Word) bool {
	if len(p) > len(w) {
		return false
	}
	return w[:len(p)].Equal(p)
}

// HasSuffix reports whether s occurs at the end of w.
func (w Word) HasSuffix(s Word) bool {
	if len(s) > len(w) {
		return false
	}
	return w[len(w)-len(s):].Equal(s)
}

// Index returns the position of the leftmost occurrence of sub as a
// contiguous subword of w, or -1 if sub does not occur. The empty word
// occurs at position 0 of every word.
func (w Word) Index(sub Word) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i+len(sub) <= len(w); i++ {
		if w[i : i+len(sub)].Equal(sub) {
			return i
		}
	}
	return -1
}

// MaxLetter returns the largest letter occurring in w and true, or
// (0, false) if w is empty.
func (w Word) MaxLetter() (Letter, bool) {
	if len(w) == 0 {
		return 0, false
	}
	max := w[0]
	for _, a := range w[1:] {
		if a > max {
			max = a
		}
	}
	return max, true
}
