// File: internal/reasoning/structural.go
package reasoning

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

// keyProjectFiles are the well-known basenames the structural analyzer looks
// for: README, package manifests, Dockerfiles, lock files and the usual
// entry-point names. Declaration order is the reporting order.
var keyProjectFiles = []string{
	"readme.md",
	"package.json",
	"go.mod",
	"cargo.toml",
	"requirements.txt",
	"pyproject.toml",
	"dockerfile",
	"docker-compose.yml",
	"package-lock.json",
	"yarn.lock",
	"go.sum",
	"cargo.lock",
	"makefile",
	"main.go",
	"main.py",
	"main.rs",
	"index.js",
}

// securityKeywords and debtKeywords are matched case-insensitively against
// every file's full content. No sampling; small repos make this cheap.
var (
	securityKeywords = []string{"password", "secret", "api_key", "token"}
	debtKeywords     = []string{"todo", "fixme"}
)

// questionIntent groups question keywords in priority order; the first group
// with any match wins and the rest are not considered.
type questionIntent struct {
	keywords   []string
	insight    string
	focusAreas []string
	prompts    []string
}

var questionIntents = []questionIntent{
	{
		keywords:   []string{"security", "vulnerability", "exploit"},
		insight:    "Question targets security; prioritizing vulnerability and auth review",
		focusAreas: []string{"security", "vulnerabilities"},
		prompts: []string{
			"Where does this codebase handle untrusted input?",
			"Which dependencies carry known vulnerability classes?",
		},
	},
	{
		keywords:   []string{"architecture", "design", "structure"},
		insight:    "Question targets architecture; mapping module structure and data flow",
		focusAreas: []string{"architecture", "data flow"},
		prompts: []string{
			"What are the main modules and how do they interact?",
			"Where does data enter and leave the system?",
		},
	},
	{
		keywords:   []string{"bug", "fix", "error"},
		insight:    "Question targets debugging; reviewing error handling and recent problem areas",
		focusAreas: []string{"error handling", "debugging"},
		prompts: []string{
			"Which code paths swallow or mishandle errors?",
		},
	},
}

// StructuralAnalyzer derives insights from the shape of the repository: tree
// depth, well-known project files and keyword scans over file contents.
type StructuralAnalyzer struct {
	logger *zap.Logger
}

// NewStructuralAnalyzer creates the structural/keyword analyzer variant.
func NewStructuralAnalyzer(logger *zap.Logger) *StructuralAnalyzer {
	return &StructuralAnalyzer{logger: logger.Named("reasoning.structural")}
}

// Statically assert that StructuralAnalyzer implements the Analyzer contract.
var _ schemas.Analyzer = (*StructuralAnalyzer)(nil)

func (a *StructuralAnalyzer) Name() string { return "structural" }

// Analyze never mutates repo and never fails for a well-formed snapshot; an
// empty file list simply yields fewer insights.
func (a *StructuralAnalyzer) Analyze(ctx context.Context, repo *schemas.RepositoryContext, question string) (schemas.ReasoningResult, error) {
	if err := ctx.Err(); err != nil {
		return schemas.ReasoningResult{}, err
	}

	result := schemas.ReasoningResult{Source: a.Name()}

	if depth := maxNestingDepth(repo.Structure); depth > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Repository structure has a maximum nesting depth of %d levels", depth))
	}

	found := a.findKeyFiles(repo)
	if len(found) > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Found %d key project files: %s", len(found), strings.Join(found, ", ")))
	}

	if n := countFilesMatching(repo, securityKeywords); n > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Security-sensitive keywords (password/secret/api_key/token) found in %d file(s)", n))
		result.FocusAreas = appendUnique(result.FocusAreas, "security")
	}
	if n := countFilesMatching(repo, debtKeywords); n > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("TODO/FIXME markers found in %d file(s)", n))
		result.FocusAreas = appendUnique(result.FocusAreas, "code quality")
	}

	if intent := classifyIntent(question); intent != nil {
		result.Insights = append(result.Insights, intent.insight)
		for _, fa := range intent.focusAreas {
			result.FocusAreas = appendUnique(result.FocusAreas, fa)
		}
		result.SuggestedPrompts = append(result.SuggestedPrompts, intent.prompts...)
	}

	// Not clamped: enough key files can push this above 1.0.
	result.Confidence = 0.85 + 0.02*float64(len(found))

	a.logger.Debug("Structural analysis complete",
		zap.Int("insights", len(result.Insights)),
		zap.Int("key_files", len(found)),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}

// findKeyFiles reports which well-known basenames exist in the snapshot, in
// keyProjectFiles declaration order for determinism.
func (a *StructuralAnalyzer) findKeyFiles(repo *schemas.RepositoryContext) []string {
	present := make(map[string]bool, len(repo.Files))
	for _, f := range repo.Files {
		if f.Type != schemas.FileTypeFile {
			continue
		}
		present[strings.ToLower(path.Base(f.Path))] = true
	}

	var found []string
	for _, name := range keyProjectFiles {
		if present[name] {
			found = append(found, name)
		}
	}
	return found
}

// countFilesMatching returns how many files contain at least one of the given
// keywords, case-insensitively, anywhere in their content.
func countFilesMatching(repo *schemas.RepositoryContext, keywords []string) int {
	count := 0
	for _, f := range repo.Files {
		if f.Type != schemas.FileTypeFile || f.Content == "" {
			continue
		}
		content := strings.ToLower(f.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				count++
				break
			}
		}
	}
	return count
}

// classifyIntent returns the first intent group with a keyword hit, or nil.
func classifyIntent(question string) *questionIntent {
	q := strings.ToLower(question)
	for i := range questionIntents {
		for _, kw := range questionIntents[i].keywords {
			if strings.Contains(q, kw) {
				return &questionIntents[i]
			}
		}
	}
	return nil
}

// maxNestingDepth counts indentation units (two spaces each) in the rendered
// tree. A non-empty flat listing has depth 1.
func maxNestingDepth(structure string) int {
	if strings.TrimSpace(structure) == "" {
		return 0
	}
	maxUnits := 0
	for _, line := range strings.Split(structure, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		spaces := 0
		for _, r := range line {
			if r != ' ' {
				break
			}
			spaces++
		}
		if units := spaces / 2; units > maxUnits {
			maxUnits = units
		}
	}
	return maxUnits + 1
}

// appendUnique appends value unless it is already present, preserving
// first-seen order.
func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
