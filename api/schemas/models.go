package schemas

// BackendLibrary identifies which generation substrate adapter serves a model.
type BackendLibrary string

const (
	BackendLibraryGemini BackendLibrary = "gemini" // Hosted Gemini API via the genai SDK.
	BackendLibraryOllama BackendLibrary = "ollama" // Local models served by an Ollama daemon.
)

// ModelDefinition describes one candidate generation backend. Definitions are
// static: they are declared once in the registry and never mutated. The
// registry's declaration order IS the fallback priority order.
type ModelDefinition struct {
	ID               string         `json:"id"`
	DisplayName      string         `json:"display_name"`
	Description      string         `json:"description"`
	IsUncensored     bool           `json:"is_uncensored"` // Weaker content restrictions; used for fallback slots.
	SourceRef        string         `json:"source_ref"`    // Model name/tag understood by the backend library.
	Quantization     string         `json:"quantization,omitempty"`
	BackendLibraryID BackendLibrary `json:"backend_library_id"`
}

// GenerationAttemptResult is returned for the single accepted attempt of a
// fallback chain. Rejected attempts are never surfaced individually.
type GenerationAttemptResult struct {
	Content     string `json:"content"`
	BackendUsed string `json:"backend_used"` // ModelDefinition.ID of the accepting backend.
	IsRefusal   bool   `json:"is_refusal"`   // Always false on an accepted result.
}
