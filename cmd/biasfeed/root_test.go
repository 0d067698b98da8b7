package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "biasfeed.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("feed:\n  chain: [mock]\nstorage:\n  driver: memory\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", cfg, "--loglevel", "error"}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestAggregateCommand(t *testing.T) {
	t.Parallel()

	out := runCLI(t, "aggregate", "geopolitics", "--bias", "0.5")
	assert.Contains(t, out, "NATO increases military support to Ukraine")
	assert.Contains(t, out, "3 articles, 3 analyzed, bias 0.50 (Question)")
	assert.Contains(t, out, "covered: Geopolitics")
}

func TestStoriesCommand(t *testing.T) {
	t.Parallel()

	out := runCLI(t, "stories", "--topic", "AI")
	assert.Contains(t, out, "AI Breakthrough")
	assert.Contains(t, out, "1 stories")
}

func TestProfileCommands(t *testing.T) {
	t.Parallel()

	out := runCLI(t, "profile", "set", "economy", "tariffs", "2")
	assert.Contains(t, out, "% complete")

	out = runCLI(t, "profile", "templates", "climate")
	assert.Contains(t, out, "Climate:")
	assert.Contains(t, out, "Renewable energy should replace fossil fuels")
}

func TestProfileSetRejectsBadStance(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--storage", "memory", "profile", "set", "economy", "tariffs", "strong"})
	assert.Error(t, cmd.Execute())
}
