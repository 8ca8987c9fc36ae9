// File: api/schemas/interfaces.go
package schemas

import "context"

// GenerationOptions provides the parameters passed to a backend for a single
// generation call. The engine fixes these from configuration; callers cannot
// tune them per request.
type GenerationOptions struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// GenerationRequest encapsulates a complete request to a generation backend.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      GenerationOptions `json:"options"`
}

// GenerationBackend is the contract every generation substrate adapter must
// satisfy. Initialize may be expensive (model pull, network handshake) and is
// called lazily by the engine; Generate must only be called after a
// successful Initialize. Close releases whatever Initialize acquired.
type GenerationBackend interface {
	Initialize(ctx context.Context, def ModelDefinition) error
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Close() error
}

// Analyzer is the contract for a heuristic repository analyzer. Analyze must
// not mutate the context and must succeed for any well-formed snapshot,
// including an empty one.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, repo *RepositoryContext, question string) (ReasoningResult, error)
}
