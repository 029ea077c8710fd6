package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAchievementsSubmit_Memory(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HANDOFF_BUCKET", "")

	path := filepath.Join(t.TempDir(), "form.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"certifications": [{"title": "AWS SA", "year": "2024", "issuer": "Amazon"}],
		"projects": [{"name": "portfolioflow", "technology": "Go"}]
	}`), 0o600))

	out, err := execute(t, "--store", "memory", "--log-level", "error", "achievements", "submit", "--user", "u1", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Certifications:")
	assert.Contains(t, out, "Saved for u1")
}

func TestAchievementsSubmit_InvalidEntry(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HANDOFF_BUCKET", "")

	path := filepath.Join(t.TempDir(), "form.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projects": [{"year": "20x4"}]}`), 0o600))

	_, err := execute(t, "--store", "memory", "--log-level", "error", "achievements", "submit", "--user", "u1", "--file", path)
	assert.ErrorContains(t, err, "invalid achievements")
}

func TestHandoffSweep_Memory(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HANDOFF_BUCKET", "")

	out, err := execute(t, "--store", "memory", "--log-level", "error", "handoff", "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired handoff(s)")
}
