package reasoning

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

func newAdaptive(t *testing.T) *AdaptiveAnalyzer {
	t.Helper()
	return NewAdaptiveAnalyzer(zap.NewNop(), 100)
}

func repoWithFiles(paths ...string) *schemas.RepositoryContext {
	files := make([]schemas.RepositoryFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, schemas.RepositoryFile{Path: p, Content: "x", Type: schemas.FileTypeFile})
	}
	return &schemas.RepositoryContext{Files: files, TotalFiles: len(files)}
}

func TestAdaptiveAnalyzer_EmptyContext(t *testing.T) {
	t.Parallel()
	a := newAdaptive(t)

	res, err := a.Analyze(context.Background(), &schemas.RepositoryContext{}, "what is this")
	require.NoError(t, err)

	assert.Equal(t, "adaptive", res.Source)
	// Size tier and default perspective still fire with no files at all.
	require.Len(t, res.Insights, 2)
	assert.Contains(t, res.Insights[0], "Small repository")
	assert.Contains(t, res.Insights[1], "maintainer's perspective")
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestAdaptiveAnalyzer_EcosystemMapping(t *testing.T) {
	t.Parallel()
	a := newAdaptive(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		paths []string
		want  string
	}{
		{"go", []string{"a.go", "b.go", "README.md"}, "Go codebase"},
		{"python", []string{"x.py", "y.py", "z.txt"}, "Python codebase"},
		{"rust", []string{"lib.rs", "main.rs"}, "Rust codebase"},
		{"typescript", []string{"app.ts", "app.tsx", "index.ts"}, "JavaScript/TypeScript codebase"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := a.Analyze(ctx, repoWithFiles(tc.paths...), "")
			require.NoError(t, err)
			assert.Contains(t, res.Insights[0], tc.want)
		})
	}
}

func TestAdaptiveAnalyzer_UnknownExtension(t *testing.T) {
	t.Parallel()
	a := newAdaptive(t)

	res, err := a.Analyze(context.Background(), repoWithFiles("data.xyz", "other.xyz"), "")
	require.NoError(t, err)
	// No ecosystem insight, just size tier and perspective.
	assert.Len(t, res.Insights, 2)
}

func TestAdaptiveAnalyzer_SizeTier(t *testing.T) {
	t.Parallel()
	a := newAdaptive(t)
	ctx := context.Background()

	t.Run("above threshold takes the macro view", func(t *testing.T) {
		t.Parallel()
		paths := make([]string, 101)
		for i := range paths {
			paths[i] = fmt.Sprintf("pkg/file_%03d.go", i)
		}
		res, err := a.Analyze(ctx, repoWithFiles(paths...), "")
		require.NoError(t, err)
		assert.Contains(t, res.Insights,
			"Large repository (101 files): reviewing the overall architecture and module boundaries")
		assert.Contains(t, res.FocusAreas, "architecture")
	})

	t.Run("at threshold stays micro", func(t *testing.T) {
		t.Parallel()
		paths := make([]string, 100)
		for i := range paths {
			paths[i] = fmt.Sprintf("pkg/file_%03d.go", i)
		}
		res, err := a.Analyze(ctx, repoWithFiles(paths...), "")
		require.NoError(t, err)
		assert.Contains(t, res.Insights,
			"Small repository (100 files): reviewing individual code paths in detail")
	})
}

func TestAdaptiveAnalyzer_Perspective(t *testing.T) {
	t.Parallel()
	a := newAdaptive(t)
	ctx := context.Background()
	repo := repoWithFiles("main.go")

	cases := []struct {
		name     string
		question string
		want     string
	}{
		{"performance", "how do I optimize the parser", "performance engineer's perspective"},
		{"attacker", "could someone hack this login flow", "attacker's perspective"},
		{"attacker via secure", "is this secure enough", "attacker's perspective"},
		{"default maintainer", "what does the scheduler do", "maintainer's perspective"},
		{"performance beats attacker", "optimize it so nobody can hack it", "performance engineer's perspective"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := a.Analyze(ctx, repo, tc.question)
			require.NoError(t, err)

			matched := false
			for _, in := range res.Insights {
				if strings.Contains(in, tc.want) {
					matched = true
				}
			}
			assert.True(t, matched, "expected perspective %q in %v", tc.want, res.Insights)
			assert.NotEmpty(t, res.SuggestedPrompts)
		})
	}
}

func TestDominantExtension(t *testing.T) {
	t.Parallel()

	t.Run("frequency wins", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ".py", dominantExtension(repoWithFiles("a.py", "b.py", "c.go")))
	})

	t.Run("lexical tie break", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ".go", dominantExtension(repoWithFiles("a.js", "b.go")))
		assert.Equal(t, ".go", dominantExtension(repoWithFiles("b.go", "a.js")))
	})

	t.Run("extensionless files ignored", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", dominantExtension(repoWithFiles("Makefile", "LICENSE")))
	})

	t.Run("case insensitive", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ".rs", dominantExtension(repoWithFiles("A.RS", "b.rs")))
	})
}
