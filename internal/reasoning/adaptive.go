// File: internal/reasoning/adaptive.go
package reasoning

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

// adaptiveConfidence is fixed; the adaptive analyzer does not grade itself on
// how much it recognized.
const adaptiveConfidence = 0.9

// ecosystemProfile maps a dominant file extension family to the concerns
// worth reviewing first in that ecosystem.
type ecosystemProfile struct {
	insight    string
	focusAreas []string
}

var (
	jsProfile = ecosystemProfile{
		insight:    "JavaScript/TypeScript codebase: reviewing the dependency supply chain and async patterns",
		focusAreas: []string{"dependencies", "async patterns"},
	}
	pyProfile = ecosystemProfile{
		insight:    "Python codebase: checking dependency pinning and unsafe constructs (eval, pickle, subprocess)",
		focusAreas: []string{"dependencies", "unsafe constructs"},
	}
	rsProfile = ecosystemProfile{
		insight:    "Rust codebase: focusing on unsafe blocks, memory boundaries and concurrency",
		focusAreas: []string{"memory safety", "concurrency"},
	}
	goProfile = ecosystemProfile{
		insight:    "Go codebase: focusing on goroutine lifecycles, channel use and error handling",
		focusAreas: []string{"concurrency", "error handling"},
	}
)

// ecosystemByExt is the fixed lookup table from extension to profile.
// Unlisted extensions contribute no ecosystem insight.
var ecosystemByExt = map[string]ecosystemProfile{
	".js":  jsProfile,
	".jsx": jsProfile,
	".ts":  jsProfile,
	".tsx": jsProfile,
	".py":  pyProfile,
	".rs":  rsProfile,
	".go":  goProfile,
}

// perspective is the reviewer stance the analyzer adopts for the question.
type perspective struct {
	keywords  []string // Empty means default; always fires.
	insight   string
	focusArea string
	prompts   []string
}

var perspectives = []perspective{
	{
		keywords:  []string{"optimize", "fast"},
		insight:   "Adopting a performance engineer's perspective: hot paths, allocations and latency budgets",
		focusArea: "performance",
		prompts:   []string{"Which functions dominate the hot path, and what do they allocate?"},
	},
	{
		keywords:  []string{"hack", "secure"},
		insight:   "Adopting an attacker's perspective: probing input validation and auth boundaries",
		focusArea: "attack surface",
		prompts:   []string{"If I wanted to break this application, where would I start?"},
	},
	{
		keywords:  nil,
		insight:   "Adopting a maintainer's perspective: readability, test coverage and long-term structure",
		focusArea: "maintainability",
		prompts:   []string{"What would make this codebase easier to work on next year?"},
	},
}

// AdaptiveAnalyzer picks a reviewing stance from the dominant ecosystem, the
// repository's size tier and the phrasing of the question.
type AdaptiveAnalyzer struct {
	logger             *zap.Logger
	largeRepoThreshold int
}

// NewAdaptiveAnalyzer creates the adaptive/perspective analyzer variant.
// largeRepoThreshold is the file count above which the macro view applies.
func NewAdaptiveAnalyzer(logger *zap.Logger, largeRepoThreshold int) *AdaptiveAnalyzer {
	return &AdaptiveAnalyzer{
		logger:             logger.Named("reasoning.adaptive"),
		largeRepoThreshold: largeRepoThreshold,
	}
}

var _ schemas.Analyzer = (*AdaptiveAnalyzer)(nil)

func (a *AdaptiveAnalyzer) Name() string { return "adaptive" }

// Analyze never mutates repo. The size-tier and perspective insights are
// produced even for an empty snapshot.
func (a *AdaptiveAnalyzer) Analyze(ctx context.Context, repo *schemas.RepositoryContext, question string) (schemas.ReasoningResult, error) {
	if err := ctx.Err(); err != nil {
		return schemas.ReasoningResult{}, err
	}

	result := schemas.ReasoningResult{
		Source:     a.Name(),
		Confidence: adaptiveConfidence,
	}

	if ext := dominantExtension(repo); ext != "" {
		if profile, ok := ecosystemByExt[ext]; ok {
			result.Insights = append(result.Insights, profile.insight)
			for _, fa := range profile.focusAreas {
				result.FocusAreas = appendUnique(result.FocusAreas, fa)
			}
		}
	}

	if repo.TotalFiles > a.largeRepoThreshold {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Large repository (%d files): reviewing the overall architecture and module boundaries", repo.TotalFiles))
		result.FocusAreas = appendUnique(result.FocusAreas, "architecture")
	} else {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Small repository (%d files): reviewing individual code paths in detail", repo.TotalFiles))
		result.FocusAreas = appendUnique(result.FocusAreas, "code detail")
	}

	p := choosePerspective(question)
	result.Insights = append(result.Insights, p.insight)
	result.FocusAreas = appendUnique(result.FocusAreas, p.focusArea)
	result.SuggestedPrompts = append(result.SuggestedPrompts, p.prompts...)

	a.logger.Debug("Adaptive analysis complete",
		zap.Int("insights", len(result.Insights)),
		zap.String("perspective", p.focusArea))
	return result, nil
}

// dominantExtension returns the most frequent lowercase file extension.
// Ties break toward the lexically smallest extension so results are stable
// regardless of file iteration order. Extensionless files are ignored.
func dominantExtension(repo *schemas.RepositoryContext) string {
	counts := make(map[string]int)
	for _, f := range repo.Files {
		if f.Type != schemas.FileTypeFile {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Path))
		if ext == "" {
			continue
		}
		counts[ext]++
	}

	best := ""
	bestCount := 0
	for ext, n := range counts {
		if n > bestCount || (n == bestCount && (best == "" || ext < best)) {
			best = ext
			bestCount = n
		}
	}
	return best
}

// choosePerspective returns the first perspective whose keyword group matches
// the question; the maintainer default always fires.
func choosePerspective(question string) perspective {
	q := strings.ToLower(question)
	for _, p := range perspectives {
		if p.keywords == nil {
			return p
		}
		for _, kw := range p.keywords {
			if strings.Contains(q, kw) {
				return p
			}
		}
	}
	// Unreachable while the table ends with the default entry.
	return perspectives[len(perspectives)-1]
}
