// File: internal/reasoning/orchestrator.go
// Description: Fans out to all heuristic analyzers concurrently, joins their
// results and merges them into a single deterministic report.

package reasoning

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

// Bucket keyword sets for insight classification. Matching is case-insensitive
// substring containment; an insight may land in several buckets or in none.
var (
	securityBucketKeywords     = []string{"security", "vulnerability", "auth"}
	architectureBucketKeywords = []string{"architecture", "structure", "flow"}
	qualityBucketKeywords      = []string{"todo", "technical debt", "readability", "code quality"}
)

// Orchestrator runs every registered analyzer over the same snapshot and
// question, in parallel, and merges their results. Analyzer order is fixed at
// construction time and determines merge order.
type Orchestrator struct {
	logger    *zap.Logger
	analyzers []schemas.Analyzer
}

// NewOrchestrator creates an orchestrator over the given analyzers.
func NewOrchestrator(logger *zap.Logger, analyzers ...schemas.Analyzer) (*Orchestrator, error) {
	if len(analyzers) == 0 {
		return nil, fmt.Errorf("cannot create orchestrator without analyzers")
	}
	for _, a := range analyzers {
		if a == nil {
			return nil, fmt.Errorf("cannot create orchestrator with a nil analyzer")
		}
	}
	return &Orchestrator{
		logger:    logger.Named("reasoning"),
		analyzers: analyzers,
	}, nil
}

// Analyze invokes all analyzers concurrently and waits for every one of them
// before merging. An analyzer failure fails the whole call; there is no
// partial-result path.
func (o *Orchestrator) Analyze(ctx context.Context, repo *schemas.RepositoryContext, question string) (schemas.CombinedReasoning, error) {
	results := make([]schemas.ReasoningResult, len(o.analyzers))

	g, gctx := errgroup.WithContext(ctx)
	for i, analyzer := range o.analyzers {
		i, analyzer := i, analyzer
		g.Go(func() error {
			res, err := analyzer.Analyze(gctx, repo, question)
			if err != nil {
				return fmt.Errorf("analyzer %q failed: %w", analyzer.Name(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return schemas.CombinedReasoning{}, err
	}

	combined := Merge(results)
	o.logger.Info("Reasoning complete",
		zap.Int("analyzers", len(results)),
		zap.Float64("aggregated_confidence", combined.AggregatedConfidence),
		zap.Int("security_concerns", len(combined.SecurityConcerns)),
		zap.Int("architecture_insights", len(combined.ArchitectureInsights)),
		zap.Int("code_quality_issues", len(combined.CodeQualityIssues)))
	return combined, nil
}

// Merge combines analyzer results deterministically: insights are concatenated
// in result order, de-duplicated preserving first occurrence, then classified
// into the three buckets. The aggregated confidence is the arithmetic mean.
func Merge(results []schemas.ReasoningResult) schemas.CombinedReasoning {
	var combined schemas.CombinedReasoning
	if len(results) == 0 {
		combined.Summary = summaryLine(0, nil)
		return combined
	}

	var insights []string
	var focusAreas []string
	confidenceSum := 0.0
	for _, res := range results {
		for _, insight := range res.Insights {
			insights = appendUnique(insights, insight)
		}
		for _, fa := range res.FocusAreas {
			focusAreas = appendUnique(focusAreas, fa)
		}
		confidenceSum += res.Confidence
	}

	for _, insight := range insights {
		lower := strings.ToLower(insight)
		if containsAny(lower, securityBucketKeywords) {
			combined.SecurityConcerns = appendUnique(combined.SecurityConcerns, insight)
		}
		if containsAny(lower, architectureBucketKeywords) {
			combined.ArchitectureInsights = appendUnique(combined.ArchitectureInsights, insight)
		}
		if containsAny(lower, qualityBucketKeywords) {
			combined.CodeQualityIssues = appendUnique(combined.CodeQualityIssues, insight)
		}
	}

	combined.Summary = summaryLine(len(results), focusAreas)
	combined.AggregatedConfidence = confidenceSum / float64(len(results))
	return combined
}

func summaryLine(analyzerCount int, focusAreas []string) string {
	areas := "none identified"
	if len(focusAreas) > 0 {
		areas = strings.Join(focusAreas, ", ")
	}
	return fmt.Sprintf("Combined reasoning from %d analyzers. Priority focus areas: %s", analyzerCount, areas)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
