package schemas

// ReasoningResult is the output of a single heuristic analyzer run. It is
// created once per invocation and never mutated afterwards.
type ReasoningResult struct {
	Source           string   `json:"source"`   // Identity of the analyzer that produced it.
	Insights         []string `json:"insights"` // Ordered, human-readable observations.
	Confidence       float64  `json:"confidence"`
	FocusAreas       []string `json:"focus_areas"` // De-duplicated, first-seen order.
	SuggestedPrompts []string `json:"suggested_prompts,omitempty"`
}

// CombinedReasoning is the deterministic merge of all analyzer results.
// Identical inputs always produce identical output, including slice ordering.
type CombinedReasoning struct {
	Summary              string   `json:"summary"`
	SecurityConcerns     []string `json:"security_concerns"`
	ArchitectureInsights []string `json:"architecture_insights"`
	CodeQualityIssues    []string `json:"code_quality_issues"`
	AggregatedConfidence float64  `json:"aggregated_confidence"` // Arithmetic mean of the contributing confidences.
}
