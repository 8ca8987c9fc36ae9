package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/config"
)

func TestOllamaBackend_Initialize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	def := schemas.ModelDefinition{
		ID:               "dolphin-mistral-7b",
		SourceRef:        "dolphin-mistral:7b-v2.8-q4_K_M",
		BackendLibraryID: schemas.BackendLibraryOllama,
	}

	t.Run("valid host", func(t *testing.T) {
		t.Parallel()
		b := NewOllamaBackend(config.OllamaConfig{Host: "http://localhost:11434"}, zap.NewNop())
		require.NoError(t, b.Initialize(ctx, def))
		assert.Equal(t, "dolphin-mistral:7b-v2.8-q4_K_M", b.model)
	})

	t.Run("missing scheme", func(t *testing.T) {
		t.Parallel()
		b := NewOllamaBackend(config.OllamaConfig{Host: "localhost:11434"}, zap.NewNop())
		assert.Error(t, b.Initialize(ctx, def))
	})

	t.Run("empty host", func(t *testing.T) {
		t.Parallel()
		b := NewOllamaBackend(config.OllamaConfig{Host: "http://"}, zap.NewNop())
		assert.Error(t, b.Initialize(ctx, def))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		b := NewOllamaBackend(config.OllamaConfig{Host: "http://localhost:11434"}, zap.NewNop())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, b.Initialize(cancelled, def), context.Canceled)
	})
}

func TestOllamaBackend_GenerateRequiresInit(t *testing.T) {
	t.Parallel()
	b := NewOllamaBackend(config.OllamaConfig{Host: "http://localhost:11434"}, zap.NewNop())

	_, err := b.Generate(context.Background(), schemas.GenerationRequest{UserPrompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestOllamaBackend_Close(t *testing.T) {
	t.Parallel()
	b := NewOllamaBackend(config.OllamaConfig{Host: "http://localhost:11434"}, zap.NewNop())
	require.NoError(t, b.Initialize(context.Background(), schemas.ModelDefinition{SourceRef: "m"}))

	require.NoError(t, b.Close())
	assert.Nil(t, b.client)

	_, err := b.Generate(context.Background(), schemas.GenerationRequest{UserPrompt: "hello"})
	assert.Error(t, err, "a closed backend must not accept work")
}
