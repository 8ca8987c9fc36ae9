package reasoning

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

// -- Mock Implementations for Testing --

// stubAnalyzer returns a canned result (or error) and records invocations.
type stubAnalyzer struct {
	mu     sync.Mutex
	name   string
	result schemas.ReasoningResult
	err    error
	calls  int
}

func (s *stubAnalyzer) Name() string { return s.name }

func (s *stubAnalyzer) Analyze(ctx context.Context, repo *schemas.RepositoryContext, question string) (schemas.ReasoningResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return schemas.ReasoningResult{}, s.err
	}
	return s.result, nil
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fixedResultPair is the known analyzer output pair used for deterministic
// merge assertions.
func fixedResultPair() (schemas.ReasoningResult, schemas.ReasoningResult) {
	a := schemas.ReasoningResult{
		Source: "structural",
		Insights: []string{
			"Repository structure has a maximum nesting depth of 3 levels",
			"Security-sensitive keywords (password/secret/api_key/token) found in 2 file(s)",
			"TODO/FIXME markers found in 1 file(s)",
		},
		Confidence: 0.85,
		FocusAreas: []string{"security", "code quality"},
	}
	b := schemas.ReasoningResult{
		Source: "adaptive",
		Insights: []string{
			"Go codebase: focusing on goroutine lifecycles, channel use and error handling",
			"Small repository (12 files): reviewing individual code paths in detail",
			"TODO/FIXME markers found in 1 file(s)", // Duplicate of A's third insight.
		},
		Confidence: 0.9,
		FocusAreas: []string{"concurrency", "error handling"},
	}
	return a, b
}

func TestNewOrchestrator(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty analyzer list", func(t *testing.T) {
		t.Parallel()
		_, err := NewOrchestrator(zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("rejects nil analyzer", func(t *testing.T) {
		t.Parallel()
		_, err := NewOrchestrator(zap.NewNop(), &stubAnalyzer{name: "a"}, nil)
		assert.Error(t, err)
	})
}

func TestOrchestrator_FanOutJoin(t *testing.T) {
	t.Parallel()

	resA, resB := fixedResultPair()
	a := &stubAnalyzer{name: "structural", result: resA}
	b := &stubAnalyzer{name: "adaptive", result: resB}

	orch, err := NewOrchestrator(zap.NewNop(), a, b)
	require.NoError(t, err)

	combined, err := orch.Analyze(context.Background(), &schemas.RepositoryContext{}, "q")
	require.NoError(t, err)

	assert.Equal(t, 1, a.callCount())
	assert.Equal(t, 1, b.callCount())
	assert.InDelta(t, 0.875, combined.AggregatedConfidence, 1e-9)
}

func TestOrchestrator_AnalyzerFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("analyzer exploded")
	resA, _ := fixedResultPair()
	a := &stubAnalyzer{name: "structural", result: resA}
	b := &stubAnalyzer{name: "adaptive", err: boom}

	orch, err := NewOrchestrator(zap.NewNop(), a, b)
	require.NoError(t, err)

	_, err = orch.Analyze(context.Background(), &schemas.RepositoryContext{}, "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `analyzer "adaptive" failed`)
}

func TestOrchestrator_DeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	resA, resB := fixedResultPair()
	orch, err := NewOrchestrator(zap.NewNop(),
		&stubAnalyzer{name: "structural", result: resA},
		&stubAnalyzer{name: "adaptive", result: resB})
	require.NoError(t, err)

	first, err := orch.Analyze(context.Background(), &schemas.RepositoryContext{}, "q")
	require.NoError(t, err)

	// Concurrency in the fan-out must never leak into the merged output.
	for i := 0; i < 50; i++ {
		again, err := orch.Analyze(context.Background(), &schemas.RepositoryContext{}, "q")
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("combined reasoning differs between runs (-first +again):\n%s", diff)
		}
	}
}

func TestMerge_FixedPair(t *testing.T) {
	t.Parallel()

	resA, resB := fixedResultPair()
	combined := Merge([]schemas.ReasoningResult{resA, resB})

	want := schemas.CombinedReasoning{
		Summary: "Combined reasoning from 2 analyzers. Priority focus areas: " +
			"security, code quality, concurrency, error handling",
		SecurityConcerns: []string{
			"Security-sensitive keywords (password/secret/api_key/token) found in 2 file(s)",
		},
		ArchitectureInsights: []string{
			"Repository structure has a maximum nesting depth of 3 levels",
		},
		CodeQualityIssues: []string{
			"TODO/FIXME markers found in 1 file(s)",
		},
		AggregatedConfidence: 0.875,
	}

	if diff := cmp.Diff(want, combined, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected merge output (-want +got):\n%s", diff)
	}
}

func TestMerge_BucketMembership(t *testing.T) {
	t.Parallel()

	t.Run("insight may land in multiple buckets", func(t *testing.T) {
		t.Parallel()
		res := schemas.ReasoningResult{
			Source:     "structural",
			Insights:   []string{"Auth flow is routed through a legacy module"},
			Confidence: 0.85,
		}
		combined := Merge([]schemas.ReasoningResult{res})
		assert.Contains(t, combined.SecurityConcerns, res.Insights[0], "matches 'auth'")
		assert.Contains(t, combined.ArchitectureInsights, res.Insights[0], "matches 'flow'")
		assert.Empty(t, combined.CodeQualityIssues)
	})

	t.Run("insight may land in no bucket", func(t *testing.T) {
		t.Parallel()
		res := schemas.ReasoningResult{
			Source:     "adaptive",
			Insights:   []string{"Nothing remarkable here"},
			Confidence: 0.9,
		}
		combined := Merge([]schemas.ReasoningResult{res})
		assert.Empty(t, combined.SecurityConcerns)
		assert.Empty(t, combined.ArchitectureInsights)
		assert.Empty(t, combined.CodeQualityIssues)
	})
}

func TestMerge_DedupPreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	resA, resB := fixedResultPair()
	combined := Merge([]schemas.ReasoningResult{resA, resB})

	// The duplicate TODO insight appears once even though both analyzers
	// reported it.
	assert.Len(t, combined.CodeQualityIssues, 1)
}

func TestMerge_EmptyResults(t *testing.T) {
	t.Parallel()

	combined := Merge(nil)
	assert.Equal(t,
		"Combined reasoning from 0 analyzers. Priority focus areas: none identified",
		combined.Summary)
	assert.Zero(t, combined.AggregatedConfidence)
}

func TestMerge_ConfidenceIsArithmeticMean(t *testing.T) {
	t.Parallel()

	combined := Merge([]schemas.ReasoningResult{
		{Source: "structural", Confidence: 0.85},
		{Source: "adaptive", Confidence: 0.9},
	})
	assert.InDelta(t, 0.875, combined.AggregatedConfidence, 1e-12)
}
