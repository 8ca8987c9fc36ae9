// File: internal/backend/gemini.go
package backend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/config"
)

// GeminiBackend serves hosted Gemini models through the official SDK. Calls
// are throttled by a client-side limiter so bursty fallback traffic stays
// inside the account's request quota.
type GeminiBackend struct {
	logger  *zap.Logger
	cfg     config.GeminiConfig
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewGeminiBackend creates an uninitialized adapter for the hosted API.
func NewGeminiBackend(cfg config.GeminiConfig, logger *zap.Logger) *GeminiBackend {
	return &GeminiBackend{
		logger: logger.Named("backend.gemini"),
		cfg:    cfg,
	}
}

var _ schemas.GenerationBackend = (*GeminiBackend)(nil)

// Initialize authenticates against the hosted API. The model reference is
// resolved server-side on the first generation call.
func (b *GeminiBackend) Initialize(ctx context.Context, def schemas.ModelDefinition) error {
	if b.cfg.APIKey == "" {
		return fmt.Errorf("gemini api key is not configured (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	b.client = client
	b.model = def.SourceRef
	if b.model == "" {
		b.model = def.ID
	}
	if b.cfg.RequestsPerSecond > 0 {
		burst := b.cfg.Burst
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(b.cfg.RequestsPerSecond), burst)
	}

	b.logger.Info("Gemini backend initialized",
		zap.String("model", b.model),
		zap.Float64("requests_per_second", b.cfg.RequestsPerSecond))
	return nil
}

// Generate issues a single completion request against the hosted model.
func (b *GeminiBackend) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("gemini backend is not initialized")
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait aborted: %w", err)
		}
	}

	temp := float32(req.Options.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(req.Options.MaxOutputTokens),
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.UserPrompt, genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// Close drops the client. The SDK holds no connection that needs an explicit
// shutdown.
func (b *GeminiBackend) Close() error {
	b.client = nil
	b.model = ""
	b.limiter = nil
	return nil
}
