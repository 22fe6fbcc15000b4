package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kbend/internal/store"
)

func writeCUE(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presentation.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const idempotentCUE = `
presentation: {
	alphabet: "a"
	rules: [{lhs: "aa", rhs: "a"}]
}
`

const alt4CUE = `
presentation: {
	alphabet:            "ab"
	contains_empty_word: true
	rules: [
		{lhs: "aa", rhs: ""},
		{lhs: "bbb", rhs: ""},
		{lhs: "ababab", rhs: ""},
	]
}
`

func TestRunCommand(t *testing.T) {
	path := writeCUE(t, idempotentCUE)
	out, err := execute(t, "run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "state:        stopped (finished)")
	assert.Contains(t, out, "confluent:    true")
	assert.Contains(t, out, "active rules: 1")
	assert.Contains(t, out, "aa -> a")
}

func TestRunCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile presentation")
}

func TestRunCommand_SnapshotsToDatabase(t *testing.T) {
	path := writeCUE(t, idempotentCUE)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "run", path, "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ids, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)

	snap, err := st.LoadSnapshot(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "a", snap.Alphabet)
	assert.Equal(t, "stopped", snap.State)
	assert.Equal(t, "finished", snap.StopReason)
	assert.True(t, snap.Confluent)
	require.Len(t, snap.Rules, 1)
	assert.Equal(t, store.SnapshotRule{LHS: "aa", RHS: "a"}, snap.Rules[0])
}

func TestRunCommand_MaxRules(t *testing.T) {
	path := writeCUE(t, `
presentation: {
	alphabet:            "abAB"
	contains_empty_word: true
	rules: [
		{lhs: "aA", rhs: ""}, {lhs: "Aa", rhs: ""},
		{lhs: "bB", rhs: ""}, {lhs: "Bb", rhs: ""},
		{lhs: "aaa", rhs: ""}, {lhs: "bbb", rhs: ""},
		{lhs: "abababab", rhs: ""}, {lhs: "aBaBaBaBaB", rhs: ""},
	]
}
`)
	out, err := execute(t, "run", path, "--max-rules", "8", "--batch-size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "state:        stopped (limit)")
}

func TestNormalFormCommand(t *testing.T) {
	path := writeCUE(t, alt4CUE)
	out, err := execute(t, "normalform", path, "aa", "bbbb", "ab")
	require.NoError(t, err)

	assert.Contains(t, out, "aa -> (empty)")
	assert.Contains(t, out, "bbbb -> b")
	assert.Contains(t, out, "ab -> ab")
	assert.NotContains(t, out, "warning")
}

func TestNormalFormCommand_BadWord(t *testing.T) {
	path := writeCUE(t, idempotentCUE)
	_, err := execute(t, "normalform", path, "az")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse word "az"`)
}

func TestGraphCommand(t *testing.T) {
	path := writeCUE(t, idempotentCUE)
	out, err := execute(t, "graph", path)
	require.NoError(t, err)

	assert.Contains(t, out, "nodes: 2")
	assert.Contains(t, out, "edges: 1")
	assert.Contains(t, out, "size:  1")
	assert.Contains(t, out, "node 0: (empty)")
	assert.Contains(t, out, "node 1: a")
}

func TestGraphCommand_InfiniteMonoid(t *testing.T) {
	path := writeCUE(t, `
presentation: {
	alphabet:            "ab"
	contains_empty_word: true
	rules: []
}
`)
	out, err := execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "size:  infinite")
}

func TestRunCommand_UnknownRewriter(t *testing.T) {
	path := writeCUE(t, idempotentCUE)
	_, err := execute(t, "run", path, "--rewriter", "RewriteBackwards")
	assert.Error(t, err)
}
