package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresentation(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presentation.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writePresentation(t, `
presentation: {
	alphabet:            "ab"
	contains_empty_word: true
	rules: [
		{lhs: "aa", rhs: ""},
		{lhs: "bbb", rhs: ""},
		{lhs: "ababab", rhs: ""},
	]
}
`)
	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Alphabet)
	assert.Equal(t, "ab", p.Names.String())
	assert.True(t, p.ContainsEmptyWord)
	require.Len(t, p.Relations, 3)
	assert.Equal(t, "ababab", p.Names.Format(p.Relations[2].Left))
	assert.Len(t, p.Relations[2].Right, 0)
}

func TestLoadFile_DefaultsToSemigroup(t *testing.T) {
	path := writePresentation(t, `
presentation: {
	alphabet: "ab"
	rules: [{lhs: "aa", rhs: "a"}]
}
`)
	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, p.ContainsEmptyWord)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read presentation file")
}

func TestLoadFile_MissingPresentationStruct(t *testing.T) {
	path := writePresentation(t, `something: {alphabet: "ab"}`)
	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "presentation", ce.Field)
}

func TestLoadFile_MissingAlphabet(t *testing.T) {
	path := writePresentation(t, `presentation: {rules: []}`)
	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "alphabet", ce.Field)
}

func TestLoadFile_RuleMissingSide(t *testing.T) {
	path := writePresentation(t, `
presentation: {
	alphabet: "ab"
	rules: [{lhs: "aa"}]
}
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "rules[0]", ce.Field)
}

func TestLoadFile_RuleLetterOutsideAlphabet(t *testing.T) {
	path := writePresentation(t, `
presentation: {
	alphabet: "ab"
	rules: [{lhs: "az", rhs: "a"}]
}
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "rules[0].lhs", ce.Field)
}

func TestLoadFile_EmptyWordNeedsMonoid(t *testing.T) {
	// An empty rhs in a semigroup presentation fails final validation.
	path := writePresentation(t, `
presentation: {
	alphabet: "ab"
	rules: [{lhs: "aa", rhs: ""}]
}
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_WORD")
}

func TestLoadFile_SyntaxError(t *testing.T) {
	path := writePresentation(t, `presentation: { alphabet: `)
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_DuplicateAlphabetLetter(t *testing.T) {
	path := writePresentation(t, `presentation: {alphabet: "aa"}`)
	_, err := LoadFile(path)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "alphabet", ce.Field)
	assert.Contains(t, ce.Message, "duplicate letter")
}
