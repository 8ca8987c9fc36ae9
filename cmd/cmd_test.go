package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/repomind-cli/internal/observability"
)

// runCommand executes a pristine root command with the given args and returns
// its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	rootCmd := NewRootCommand()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "repomind version "+Version)
}

func TestVersionCmd(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "repomind version "+Version)
}

func TestModelsCmd(t *testing.T) {
	out, err := runCommand(t, "models")
	require.NoError(t, err)

	assert.Contains(t, out, "1. gemini-2.5-flash (gemini)")
	assert.Contains(t, out, "[uncensored]")
}

func TestAskCmd_ArgValidation(t *testing.T) {
	_, err := runCommand(t, "ask", "only-one-arg")
	assert.Error(t, err)
}

func TestAnalyzeCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n// TODO: tighten error handling\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/demo\n"), 0o644))

	t.Run("text report", func(t *testing.T) {
		out, err := runCommand(t, "analyze", root)
		require.NoError(t, err)
		assert.Contains(t, out, "Combined reasoning from 2 analyzers.")
		assert.Contains(t, out, "Aggregated confidence:")
	})

	t.Run("json report", func(t *testing.T) {
		out, err := runCommand(t, "analyze", root, "--json")
		require.NoError(t, err)
		assert.Contains(t, out, `"summary"`)
		assert.Contains(t, out, `"aggregated_confidence"`)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := runCommand(t, "analyze", filepath.Join(root, "absent"))
		assert.Error(t, err)
	})
}
