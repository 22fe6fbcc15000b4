package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "idempotent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "idempotent", s.Name)
	assert.Equal(t, "a", s.Alphabet)
	assert.False(t, s.ContainsEmptyWord)
	require.Len(t, s.Rules, 1)
	assert.Equal(t, [2]string{"aa", "a"}, s.Rules[0])

	require.NotNil(t, s.Expect.Confluent)
	assert.True(t, *s.Expect.Confluent)
	require.NotNil(t, s.Expect.ActiveRules)
	assert.Equal(t, 1, *s.Expect.ActiveRules)
	require.NotNil(t, s.Expect.Size)
	assert.Equal(t, uint64(1), *s.Expect.Size)
	assert.NotNil(t, s.Expect.GraphNodes)
	assert.NotNil(t, s.Expect.GraphEdges)
}

func TestLoadScenario_NameDefaultsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alphabet: ab\n"), 0o644))
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "unnamed.yaml", s.Name)
}

func TestLoadScenario_MissingAlphabet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\n"), 0o644))
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphabet is required")
}

func TestLoadScenario_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [unbalanced\n"), 0o644))
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	// Glob returns sorted paths, so scenario order is deterministic.
	assert.Equal(t, "commuting-idempotents", scenarios[0].Name)
	assert.Equal(t, "free-monoid", scenarios[1].Name)
	assert.Equal(t, "idempotent", scenarios[2].Name)
}
