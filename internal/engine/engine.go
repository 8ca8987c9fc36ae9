// File: internal/engine/engine.go
// Description: Owns generation-backend lifecycle and implements the ordered
// fallback-with-quality-gate protocol. Exactly one backend is resident at a
// time; candidates are tried strictly in registry order with no speculative
// parallelism.

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/registry"
)

// State is the manager's lifecycle phase.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateInitializing  State = "INITIALIZING"
	StateReady         State = "READY"
)

// BackendFactory creates the adapter serving a model definition. The factory
// must be cheap; expensive work belongs in the adapter's Initialize.
type BackendFactory func(def schemas.ModelDefinition) (schemas.GenerationBackend, error)

// Params carries the fixed generation settings the manager applies to every
// attempt. Callers cannot tune these per request.
type Params struct {
	Options         schemas.GenerationOptions
	InitTimeout     time.Duration // Zero means no per-attempt bound.
	GenerateTimeout time.Duration
}

// Manager drives the ordered fallback chain. All lifecycle transitions and
// generation attempts run under a single mutex: concurrent callers cannot
// race the active-backend identity into an inconsistent state.
type Manager struct {
	logger   *zap.Logger
	registry *registry.Registry
	factory  BackendFactory
	gate     *RefusalGate
	params   Params

	mu       sync.Mutex
	state    State
	activeID string
	active   schemas.GenerationBackend
}

// NewManager creates a generation manager over the given registry.
func NewManager(logger *zap.Logger, reg *registry.Registry, factory BackendFactory, gate *RefusalGate, params Params) (*Manager, error) {
	if logger == nil || reg == nil || factory == nil || gate == nil {
		return nil, fmt.Errorf("cannot create generation manager with nil dependencies")
	}
	return &Manager{
		logger:   logger.Named("engine"),
		registry: reg,
		factory:  factory,
		gate:     gate,
		params:   params,
		state:    StateUninitialized,
	}, nil
}

// State reports the current lifecycle phase and active backend id.
func (m *Manager) State() (State, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.activeID
}

// Initialize makes the given backend active, tearing down the previous one
// first. An empty id selects the registry's primary. Re-initializing the
// already-active backend is a no-op. On failure the manager is left
// Uninitialized and the error is returned; Initialize never falls back on
// its own.
func (m *Manager) Initialize(ctx context.Context, backendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if backendID == "" {
		backendID = m.registry.Primary().ID
	}
	def, err := m.registry.Lookup(backendID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, backendID)
	}
	return m.initializeLocked(ctx, def)
}

// initializeLocked performs the switch. Caller holds m.mu.
func (m *Manager) initializeLocked(ctx context.Context, def schemas.ModelDefinition) error {
	if m.state == StateReady && m.activeID == def.ID {
		return nil
	}

	// Only one backend may be resident; drop the previous one before loading.
	if m.active != nil {
		if err := m.active.Close(); err != nil {
			m.logger.Warn("Failed to close previous backend",
				zap.String("backend", m.activeID), zap.Error(err))
		}
		m.active = nil
		m.activeID = ""
	}

	m.state = StateInitializing
	m.logger.Info("Initializing generation backend",
		zap.String("backend", def.ID),
		zap.String("library", string(def.BackendLibraryID)),
		zap.Bool("uncensored", def.IsUncensored))

	backend, err := m.factory(def)
	if err != nil {
		m.state = StateUninitialized
		return fmt.Errorf("failed to construct backend %q: %w", def.ID, err)
	}

	initCtx := ctx
	if m.params.InitTimeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, m.params.InitTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := backend.Initialize(initCtx, def); err != nil {
		if closeErr := backend.Close(); closeErr != nil {
			m.logger.Warn("Failed to close backend after init failure",
				zap.String("backend", def.ID), zap.Error(closeErr))
		}
		m.state = StateUninitialized
		return fmt.Errorf("failed to initialize backend %q: %w", def.ID, err)
	}

	m.active = backend
	m.activeID = def.ID
	m.state = StateReady
	m.logger.Info("Generation backend ready",
		zap.String("backend", def.ID),
		zap.Duration("init_duration", time.Since(start)))
	return nil
}

// Generate walks the candidates in priority order until one backend produces
// an acceptable response. A backend selected via Initialize is tried first;
// the rest follow in registry order. Per-candidate init failures, refusals and
// low-quality outputs are soft: logged and skipped. Caller cancellation aborts
// the whole call; a cancelled attempt is never silently retried on the next
// candidate. The only terminal error of a completed walk is
// ErrAllBackendsFailed.
func (m *Manager) Generate(ctx context.Context, prompt, systemPrompt string) (schemas.GenerationAttemptResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req := schemas.GenerationRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		Options:      m.params.Options,
	}

	for _, def := range m.candidateOrder() {
		if err := ctx.Err(); err != nil {
			return schemas.GenerationAttemptResult{}, err
		}

		if m.state != StateReady || m.activeID != def.ID {
			if err := m.initializeLocked(ctx, def); err != nil {
				if ctx.Err() != nil {
					return schemas.GenerationAttemptResult{}, ctx.Err()
				}
				m.logger.Warn("Backend unavailable; falling back to next candidate",
					zap.String("backend", def.ID), zap.Error(err))
				continue
			}
		}

		output, err := m.generateAttempt(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return schemas.GenerationAttemptResult{}, ctx.Err()
			}
			m.logger.Warn("Generation attempt failed; falling back to next candidate",
				zap.String("backend", def.ID), zap.Error(err))
			continue
		}

		if m.gate.IsRefusal(output) {
			m.logger.Warn("Backend refused; falling back to next candidate",
				zap.String("backend", def.ID))
			continue
		}
		if !m.gate.IsQualityResponse(output) {
			m.logger.Warn("Backend output below quality bar; falling back to next candidate",
				zap.String("backend", def.ID), zap.Int("length", len(output)))
			continue
		}

		m.logger.Info("Generation accepted",
			zap.String("backend", def.ID), zap.Int("length", len(output)))
		return schemas.GenerationAttemptResult{
			Content:     output,
			BackendUsed: def.ID,
			IsRefusal:   false,
		}, nil
	}

	return schemas.GenerationAttemptResult{}, ErrAllBackendsFailed
}

// candidateOrder returns the catalogue with the active backend, if one is
// loaded, moved to the front. Without this the fallback walk would tear down
// an explicitly selected backend and reload the primary before trying it.
// Caller holds m.mu.
func (m *Manager) candidateOrder() []schemas.ModelDefinition {
	models := m.registry.Models()
	if m.state != StateReady || m.activeID == "" {
		return models
	}
	ordered := make([]schemas.ModelDefinition, 0, len(models))
	for _, def := range models {
		if def.ID == m.activeID {
			ordered = append(ordered, def)
		}
	}
	for _, def := range models {
		if def.ID != m.activeID {
			ordered = append(ordered, def)
		}
	}
	return ordered
}

// generateAttempt issues one bounded call to the active backend.
// Caller holds m.mu.
func (m *Manager) generateAttempt(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	genCtx := ctx
	if m.params.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, m.params.GenerateTimeout)
		defer cancel()
	}
	return m.active.Generate(genCtx, req)
}

// Close releases the active backend, if any. The manager returns to
// Uninitialized and may be re-initialized afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil
	}
	err := m.active.Close()
	m.active = nil
	m.activeID = ""
	m.state = StateUninitialized
	if err != nil {
		return fmt.Errorf("failed to close backend: %w", err)
	}
	return nil
}
