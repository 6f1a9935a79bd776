package moderation

import (
	"github.com/textmod/modgate/pkg/domain/casebase"
)

// Adjustment methods reported in the audit breakdown.
const (
	AdjustmentNone               = "none"
	AdjustmentLinearRamp         = "linear_ramp"
	AdjustmentSuppressedConflict = "suppressed_conflict"
)

type SimilarCase struct {
	Sentence     string         `json:"sentence"`
	Similarity   float64        `json:"similarity"`
	ImmoralScore float64        `json:"immoral_score"`
	SpamScore    float64        `json:"spam_score"`
	Confidence   float64        `json:"confidence"`
	Confirmed    bool           `json:"confirmed"`
	Label        casebase.Label `json:"label"`
}

// CorrectionResult is the full retrieval-augmented correction breakdown.
// It is returned even when no correction was applied. AdjustedScore and
// AdjustedSpamScore stay nil unless the matching dimension was corrected.
// Each dimension records its own method, so a correction on one dimension
// cannot mask a conflict suppression on the other; AdjustmentMethod is
// the overall summary.
type CorrectionResult struct {
	Enabled                 bool          `json:"enabled"`
	SimilarCaseCount        int           `json:"similar_cases_count"`
	MaxSimilarity           float64       `json:"max_similarity"`
	AdjustmentApplied       bool          `json:"adjustment_applied"`
	AdjustmentWeight        float64       `json:"adjustment_weight"`
	AdjustmentMethod        string        `json:"adjustment_method"`
	ImmoralAdjustmentMethod string        `json:"immoral_adjustment_method"`
	SpamAdjustmentMethod    string        `json:"spam_adjustment_method"`
	OriginalScore           float64       `json:"original_score"`
	AdjustedScore           *float64      `json:"adjusted_score,omitempty"`
	OriginalSpamScore       float64       `json:"original_spam_score"`
	AdjustedSpamScore       *float64      `json:"adjusted_spam_score,omitempty"`
	SimilarCases            []SimilarCase `json:"similar_cases"`
}

// FinalImmoral returns the corrected immoral score when a correction was
// applied and the original otherwise.
func (r *CorrectionResult) FinalImmoral() float64 {
	if r.AdjustedScore != nil {
		return *r.AdjustedScore
	}
	return r.OriginalScore
}

func (r *CorrectionResult) FinalSpam() float64 {
	if r.AdjustedSpamScore != nil {
		return *r.AdjustedSpamScore
	}
	return r.OriginalSpamScore
}
