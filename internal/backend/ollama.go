// File: internal/backend/ollama.go
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/config"
)

// OllamaBackend serves local models through an Ollama daemon. One instance
// serves one ModelDefinition; the engine creates a fresh adapter per switch.
type OllamaBackend struct {
	logger *zap.Logger
	host   string
	client *ollama.Ollama
	model  string
}

// NewOllamaBackend creates an uninitialized adapter for the configured daemon.
func NewOllamaBackend(cfg config.OllamaConfig, logger *zap.Logger) *OllamaBackend {
	return &OllamaBackend{
		logger: logger.Named("backend.ollama"),
		host:   cfg.Host,
	}
}

var _ schemas.GenerationBackend = (*OllamaBackend)(nil)

// Initialize connects the adapter to the daemon. The model itself is loaded
// by Ollama on the first generation call.
func (b *OllamaBackend) Initialize(ctx context.Context, def schemas.ModelDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := url.Parse(b.host)
	if err != nil {
		return fmt.Errorf("invalid ollama host %q: %w", b.host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid ollama host %q: scheme must be http or https", b.host)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid ollama host %q: missing host", b.host)
	}

	b.client = ollama.New(*u)
	b.model = def.SourceRef

	b.logger.Info("Ollama backend initialized",
		zap.String("host", b.host),
		zap.String("model", b.model),
		zap.String("quantization", def.Quantization))
	return nil
}

// Generate issues a single blocking completion request. The library call has
// no context plumbing of its own, so it runs on a goroutine and the select
// honors cancellation; an abandoned call finishes in the background.
func (b *OllamaBackend) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("ollama backend is not initialized")
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := b.client.Generate(
			b.client.Generate.WithModel(b.model),
			b.client.Generate.WithSystem(req.SystemPrompt),
			b.client.Generate.WithPrompt(req.UserPrompt),
		)
		if err != nil {
			done <- outcome{err: fmt.Errorf("ollama generate failed: %w", err)}
			return
		}
		if !res.Done {
			done <- outcome{err: fmt.Errorf("ollama returned an unfinished response")}
			return
		}
		// Models occasionally fence the whole answer in backticks.
		text := strings.TrimSpace(strings.Trim(res.Response, "`"))
		if text == "" {
			done <- outcome{err: fmt.Errorf("ollama returned an empty response")}
			return
		}
		done <- outcome{text: text}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case o := <-done:
		return o.text, o.err
	}
}

// Close drops the daemon connection state. An abandoned Generate goroutine
// may still hold the old client value; that is race-free only because the
// engine serializes Initialize/Generate/Close under one mutex.
func (b *OllamaBackend) Close() error {
	b.client = nil
	b.model = ""
	return nil
}
