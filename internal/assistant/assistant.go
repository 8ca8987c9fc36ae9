// File: internal/assistant/assistant.go
// Description: The user-facing facade. Composes the reasoning layer and the
// generation engine into a single question-answering flow and owns the prompt
// construction.

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/engine"
	"github.com/xkilldash9x/repomind-cli/internal/reasoning"
)

// contextCharBudget bounds how much raw file content is embedded in the
// system prompt. The structure listing is always included in full.
const contextCharBudget = 24000

// Assistant answers natural-language questions about a repository snapshot.
type Assistant struct {
	logger       *zap.Logger
	orchestrator *reasoning.Orchestrator
	engine       *engine.Manager
	sessionID    string
}

// New creates an assistant bound to one reasoning orchestrator and one
// generation manager. Each assistant carries a session id that tags its logs.
func New(logger *zap.Logger, orch *reasoning.Orchestrator, mgr *engine.Manager) (*Assistant, error) {
	if logger == nil || orch == nil || mgr == nil {
		return nil, fmt.Errorf("cannot create assistant with nil dependencies")
	}
	return &Assistant{
		logger:       logger.Named("assistant"),
		orchestrator: orch,
		engine:       mgr,
		sessionID:    uuid.NewString(),
	}, nil
}

// SessionID returns the identifier tagging this assistant's activity.
func (a *Assistant) SessionID() string { return a.sessionID }

// Analyze runs the heuristic reasoning layer over the snapshot.
func (a *Assistant) Analyze(ctx context.Context, repo *schemas.RepositoryContext, question string) (schemas.CombinedReasoning, error) {
	return a.orchestrator.Analyze(ctx, repo, question)
}

// Answer runs the full flow: heuristic analysis, prompt construction,
// generation through the fallback chain, and attribution. The returned text
// ends with an "(answered by <backend>)" suffix naming the model that
// actually produced it.
func (a *Assistant) Answer(ctx context.Context, repo *schemas.RepositoryContext, question string) (string, schemas.CombinedReasoning, error) {
	combined, err := a.orchestrator.Analyze(ctx, repo, question)
	if err != nil {
		return "", schemas.CombinedReasoning{}, fmt.Errorf("reasoning failed: %w", err)
	}

	answer, err := a.GenerateAnswer(ctx, FormatContext(repo), question, combined.Summary, focusHint(combined))
	if err != nil {
		return "", combined, err
	}
	return answer, combined, nil
}

// GenerateAnswer drives the generation engine with a fully assembled prompt.
// The reasoning summary and the optional focus hint are embedded in the
// system prompt so every backend in the chain sees identical instructions.
func (a *Assistant) GenerateAnswer(ctx context.Context, formattedContext, question, reasoningSummary, hint string) (string, error) {
	systemPrompt := buildSystemPrompt(formattedContext, reasoningSummary, hint)

	a.logger.Info("Generating answer",
		zap.String("session_id", a.sessionID),
		zap.Int("context_chars", len(formattedContext)))

	res, err := a.engine.Generate(ctx, question, systemPrompt)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	a.logger.Info("Answer produced",
		zap.String("session_id", a.sessionID),
		zap.String("backend", res.BackendUsed))
	return fmt.Sprintf("%s\n\n(answered by %s)", res.Content, res.BackendUsed), nil
}

// buildSystemPrompt assembles the instruction block the backends receive.
func buildSystemPrompt(formattedContext, reasoningSummary, hint string) string {
	var sb strings.Builder
	sb.WriteString("You are a code analysis assistant. Answer questions about the repository below ")
	sb.WriteString("using only the provided context. Be specific and cite file paths where relevant.\n\n")
	if reasoningSummary != "" {
		sb.WriteString("Preliminary analysis: ")
		sb.WriteString(reasoningSummary)
		sb.WriteString("\n")
	}
	if hint != "" {
		sb.WriteString("Priority focus: ")
		sb.WriteString(hint)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(formattedContext)
	return sb.String()
}

// FormatContext renders a snapshot into prompt text: the totals, the full
// structure listing, then file contents until the character budget runs out.
func FormatContext(repo *schemas.RepositoryContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository snapshot: %d files, %d bytes.\n", repo.TotalFiles, repo.TotalSize)
	sb.WriteString("Structure:\n")
	sb.WriteString(repo.Structure)

	budget := contextCharBudget
	for _, f := range repo.Files {
		if f.Type != schemas.FileTypeFile || f.Content == "" {
			continue
		}
		entry := fmt.Sprintf("\n--- %s ---\n%s\n", f.Path, f.Content)
		if len(entry) > budget {
			sb.WriteString("\n[remaining file contents omitted]\n")
			break
		}
		sb.WriteString(entry)
		budget -= len(entry)
	}
	return sb.String()
}

// focusHint names the bucket the heuristics weighted most heavily, or an
// empty string when no bucket received any insight.
func focusHint(combined schemas.CombinedReasoning) string {
	best, count := "", 0
	for _, bucket := range []struct {
		name     string
		insights []string
	}{
		{"security", combined.SecurityConcerns},
		{"architecture", combined.ArchitectureInsights},
		{"code quality", combined.CodeQualityIssues},
	} {
		if len(bucket.insights) > count {
			best, count = bucket.name, len(bucket.insights)
		}
	}
	return best
}
