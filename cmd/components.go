// File: cmd/components.go
// Description: Dependency wiring shared by the ask and analyze commands.

package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/assistant"
	"github.com/xkilldash9x/repomind-cli/internal/backend"
	"github.com/xkilldash9x/repomind-cli/internal/config"
	"github.com/xkilldash9x/repomind-cli/internal/engine"
	"github.com/xkilldash9x/repomind-cli/internal/ingest"
	"github.com/xkilldash9x/repomind-cli/internal/reasoning"
	"github.com/xkilldash9x/repomind-cli/internal/registry"
)

// appComponents holds the initialized services a command needs.
type appComponents struct {
	Registry  *registry.Registry
	Engine    *engine.Manager
	Assistant *assistant.Assistant
	Ingest    *ingest.Builder
}

// Shutdown releases the generation backend, if one was loaded.
func (c *appComponents) Shutdown(logger *zap.Logger) {
	if c.Engine != nil {
		if err := c.Engine.Close(); err != nil {
			logger.Warn("Error during engine shutdown", zap.Error(err))
		}
	}
}

// initializeComponents performs dependency injection from the resolved config.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*appComponents, error) {
	reg := registry.NewDefault()

	gate := engine.NewRefusalGate(cfg.Engine.RefusalScanWindow, cfg.Engine.MinQualityLength)
	factory := backend.NewFactory(cfg.Backends, logger)

	mgr, err := engine.NewManager(logger, reg, factory, gate, engine.Params{
		Options: schemas.GenerationOptions{
			Temperature:     cfg.Engine.Temperature,
			MaxOutputTokens: cfg.Engine.MaxOutputTokens,
		},
		InitTimeout:     cfg.Engine.InitTimeout,
		GenerateTimeout: cfg.Engine.GenerateTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation engine: %w", err)
	}

	orch, err := reasoning.NewOrchestrator(logger,
		reasoning.NewStructuralAnalyzer(logger),
		reasoning.NewAdaptiveAnalyzer(logger, cfg.Reasoning.LargeRepoThreshold))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reasoning orchestrator: %w", err)
	}

	asst, err := assistant.New(logger, orch, mgr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}

	return &appComponents{
		Registry:  reg,
		Engine:    mgr,
		Assistant: asst,
		Ingest:    ingest.NewBuilder(cfg.Ingest, logger),
	}, nil
}
