package moderation

// Dimensions an auto-block can fire on.
const (
	DimensionImmoral = "immoral"
	DimensionSpam    = "spam"
)

// AutoBlockDecision records a pre-ensemble shortcut verdict derived from a
// single best case-base match. Firing never writes to the case base.
type AutoBlockDecision struct {
	Fired          bool    `json:"fired"`
	MatchedCaseID  string  `json:"matched_case_id,omitempty"`
	MatchedContent string  `json:"matched_content,omitempty"`
	Similarity     float64 `json:"similarity,omitempty"`
	Dimension      string  `json:"dimension,omitempty"`
	MatchedScore   float64 `json:"matched_score,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
}
