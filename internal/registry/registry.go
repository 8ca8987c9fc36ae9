// File: internal/registry/registry.go
// Description: Static catalogue of candidate generation backends. The
// declaration order is the fallback priority order and is never reordered at
// runtime.

package registry

import (
	"fmt"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
)

// defaultCatalogue lists the shipped backends in priority order: a hosted
// general-purpose model first, then local uncensored fallbacks whose job is
// to answer when the primary refuses.
var defaultCatalogue = []schemas.ModelDefinition{
	{
		ID:               "gemini-2.5-flash",
		DisplayName:      "Gemini 2.5 Flash",
		Description:      "Hosted general-purpose model; primary backend.",
		IsUncensored:     false,
		SourceRef:        "gemini-2.5-flash",
		BackendLibraryID: schemas.BackendLibraryGemini,
	},
	{
		ID:               "dolphin-mistral-7b",
		DisplayName:      "Dolphin Mistral 7B",
		Description:      "Local uncensored model; first fallback when the primary refuses.",
		IsUncensored:     true,
		SourceRef:        "dolphin-mistral:7b-v2.8-q4_K_M",
		Quantization:     "q4_K_M",
		BackendLibraryID: schemas.BackendLibraryOllama,
	},
	{
		ID:               "wizard-vicuna-13b-uncensored",
		DisplayName:      "Wizard Vicuna 13B Uncensored",
		Description:      "Larger local uncensored model; last-resort fallback.",
		IsUncensored:     true,
		SourceRef:        "wizard-vicuna-uncensored:13b-q4_K_M",
		Quantization:     "q4_K_M",
		BackendLibraryID: schemas.BackendLibraryOllama,
	},
}

// Registry is a read-only, ordered catalogue of model definitions.
type Registry struct {
	models []schemas.ModelDefinition
	byID   map[string]schemas.ModelDefinition
}

// NewDefault returns the registry with the shipped catalogue.
func NewDefault() *Registry {
	r, err := New(defaultCatalogue)
	if err != nil {
		// The shipped catalogue is validated by tests; a bad one is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

// New builds a registry from the given definitions, preserving their order.
func New(models []schemas.ModelDefinition) (*Registry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("registry requires at least one model definition")
	}
	byID := make(map[string]schemas.ModelDefinition, len(models))
	for _, def := range models {
		if def.ID == "" {
			return nil, fmt.Errorf("model definition with empty id")
		}
		if def.BackendLibraryID == "" {
			return nil, fmt.Errorf("model %q has no backend library", def.ID)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", def.ID)
		}
		byID[def.ID] = def
	}
	// Copy so later mutation of the caller's slice cannot reorder priorities.
	ordered := make([]schemas.ModelDefinition, len(models))
	copy(ordered, models)

	return &Registry{models: ordered, byID: byID}, nil
}

// Models returns the full catalogue in priority order. The returned slice is
// a copy; callers cannot disturb the registry through it.
func (r *Registry) Models() []schemas.ModelDefinition {
	out := make([]schemas.ModelDefinition, len(r.models))
	copy(out, r.models)
	return out
}

// Primary returns the highest-priority definition.
func (r *Registry) Primary() schemas.ModelDefinition {
	return r.models[0]
}

// Lookup returns the definition for the given id.
func (r *Registry) Lookup(id string) (schemas.ModelDefinition, error) {
	def, ok := r.byID[id]
	if !ok {
		return schemas.ModelDefinition{}, fmt.Errorf("unknown model id %q", id)
	}
	return def, nil
}

// Len reports the number of catalogued models.
func (r *Registry) Len() int { return len(r.models) }
