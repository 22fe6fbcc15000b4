package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet_ParseFormatRoundTrip(t *testing.T) {
	a, err := NewAlphabet("abc")
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())

	w, err := a.Parse("cab")
	require.NoError(t, err)
	assert.True(t, w.Equal(Word{2, 0, 1}))
	assert.Equal(t, "cab", a.Format(w))
}

func TestAlphabet_DuplicateLetter(t *testing.T) {
	_, err := NewAlphabet("aba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate letter")
}

func TestAlphabet_UnknownLetter(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)

	_, err = a.Parse("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"c"`)
}

func TestAlphabet_EmptyWord(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)

	w, err := a.Parse("")
	require.NoError(t, err)
	assert.Len(t, w, 0)
	assert.Equal(t, "", a.Format(w))
}

func TestAlphabet_NFCNormalization(t *testing.T) {
	// U+00E9 (precomposed) and e + U+0301 (combining accent) are the
	// same letter after NFC.
	a, err := NewAlphabet("\u00e9x")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Size())

	w, err := a.Parse("e\u0301x")
	require.NoError(t, err)
	assert.True(t, w.Equal(Word{0, 1}))
}

func TestAlphabet_FormatOutOfRangeLetter(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)
	assert.Equal(t, "a#7", a.Format(Word{0, 7}))
}

func TestMustParse_PanicsOnBadLetter(t *testing.T) {
	a, err := NewAlphabet("ab")
	require.NoError(t, err)
	assert.Panics(t, func() { a.MustParse("z") })
}
