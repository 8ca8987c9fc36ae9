// File: internal/backend/factory.go
package backend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/config"
	"github.com/xkilldash9x/repomind-cli/internal/engine"
)

// NewFactory returns the adapter constructor the generation manager uses to
// realize registry entries. Construction is cheap; the expensive work (auth,
// daemon handshake) happens in each adapter's Initialize.
func NewFactory(cfg config.BackendsConfig, logger *zap.Logger) engine.BackendFactory {
	return func(def schemas.ModelDefinition) (schemas.GenerationBackend, error) {
		switch def.BackendLibraryID {
		case schemas.BackendLibraryGemini:
			return NewGeminiBackend(cfg.Gemini, logger), nil
		case schemas.BackendLibraryOllama:
			return NewOllamaBackend(cfg.Ollama, logger), nil
		default:
			return nil, fmt.Errorf("model %q requires unsupported backend library %q", def.ID, def.BackendLibraryID)
		}
	}
}
