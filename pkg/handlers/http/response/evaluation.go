package response

import (
	"github.com/textmod/modgate/pkg/app/pipeline"
	"github.com/textmod/modgate/pkg/domain/content"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

type Weights struct {
	Bert float64 `json:"bert"`
	LLM  float64 `json:"llm"`
}

type SpamWeights struct {
	LLM  float64 `json:"llm"`
	Rule float64 `json:"rule"`
}

type Detailed struct {
	BertScore      float64     `json:"bert_score"`
	BertConfidence float64     `json:"bert_confidence"`
	LLMScore       float64     `json:"llm_score"`
	LLMConfidence  float64     `json:"llm_confidence"`
	ProfanityBoost float64     `json:"profanity_boost"`
	Weights        Weights     `json:"weights"`
	BaseScore      float64     `json:"base_score"`
	LLMSpamScore   float64     `json:"llm_spam_score"`
	RuleSpamScore  float64     `json:"rule_spam_score"`
	SpamWeights    SpamWeights `json:"spam_weights"`
	Degraded       bool        `json:"degraded"`
}

type SimilarCase struct {
	Sentence     string  `json:"sentence"`
	Similarity   float64 `json:"similarity"`
	ImmoralScore float64 `json:"immoral_score"`
	SpamScore    float64 `json:"spam_score"`
	Confidence   float64 `json:"confidence"`
	Confirmed    bool    `json:"confirmed"`
}

type Rag struct {
	Enabled                 bool          `json:"enabled"`
	SimilarCasesCount       int           `json:"similar_cases_count"`
	MaxSimilarity           float64       `json:"max_similarity"`
	AdjustmentApplied       bool          `json:"adjustment_applied"`
	AdjustmentWeight        float64       `json:"adjustment_weight"`
	AdjustmentMethod        string        `json:"adjustment_method"`
	ImmoralAdjustmentMethod string        `json:"immoral_adjustment_method"`
	SpamAdjustmentMethod    string        `json:"spam_adjustment_method"`
	AdjustedScore           *float64      `json:"adjusted_score,omitempty"`
	AdjustedSpamScore       *float64      `json:"adjusted_spam_score,omitempty"`
	SimilarCases            []SimilarCase `json:"similar_cases"`
}

type Evaluation struct {
	LogID             string   `json:"log_id"`
	FinalImmoralScore float64  `json:"final_immoral_score"`
	ImmoralConfidence float64  `json:"immoral_confidence"`
	FinalSpamScore    float64  `json:"final_spam_score"`
	SpamConfidence    float64  `json:"spam_confidence"`
	DetectedTypes     []string `json:"detected_types"`
	Detailed          Detailed `json:"detailed"`
	Rag               Rag      `json:"rag"`
	AutoBlocked       bool     `json:"auto_blocked"`
	IsBlocked         bool     `json:"is_blocked"`
	BlockReason       string   `json:"block_reason,omitempty"`
	DurationMs        int64    `json:"duration_ms"`
}

func NewEvaluation(result *pipeline.Result) Evaluation {
	return Evaluation{
		LogID:             result.LogID.String(),
		FinalImmoralScore: result.FinalImmoral(),
		ImmoralConfidence: immoralConfidence(result),
		FinalSpamScore:    result.FinalSpam(),
		SpamConfidence:    spamConfidence(result),
		DetectedTypes:     result.Components.DetectedTypes,
		Detailed:          newDetailed(result.Components),
		Rag:               newRag(result.Rag),
		AutoBlocked:       result.AutoBlock.Fired,
		IsBlocked:         result.IsBlocked,
		BlockReason:       result.BlockReason,
		DurationMs:        result.DurationMs,
	}
}

func newDetailed(comp *content.ScoreComponents) Detailed {
	return Detailed{
		BertScore:      comp.BertScore,
		BertConfidence: comp.BertConfidence,
		LLMScore:       comp.LLMScore,
		LLMConfidence:  comp.LLMConfidence,
		ProfanityBoost: comp.ProfanityBoost,
		Weights:        Weights{Bert: comp.Weights.Bert, LLM: comp.Weights.LLM},
		BaseScore:      comp.BaseScore,
		LLMSpamScore:   comp.LLMSpamScore,
		RuleSpamScore:  comp.RuleSpamScore,
		SpamWeights:    SpamWeights{LLM: comp.SpamWeights.LLM, Rule: comp.SpamWeights.Rule},
		Degraded:       comp.Degraded,
	}
}

func newRag(correction *moderation.CorrectionResult) Rag {
	cases := make([]SimilarCase, 0, len(correction.SimilarCases))
	for _, matched := range correction.SimilarCases {
		cases = append(cases, SimilarCase{
			Sentence:     matched.Sentence,
			Similarity:   matched.Similarity,
			ImmoralScore: matched.ImmoralScore,
			SpamScore:    matched.SpamScore,
			Confidence:   matched.Confidence,
			Confirmed:    matched.Confirmed,
		})
	}
	return Rag{
		Enabled:                 correction.Enabled,
		SimilarCasesCount:       correction.SimilarCaseCount,
		MaxSimilarity:           correction.MaxSimilarity,
		AdjustmentApplied:       correction.AdjustmentApplied,
		AdjustmentWeight:        correction.AdjustmentWeight,
		AdjustmentMethod:        correction.AdjustmentMethod,
		ImmoralAdjustmentMethod: correction.ImmoralAdjustmentMethod,
		SpamAdjustmentMethod:    correction.SpamAdjustmentMethod,
		AdjustedScore:           correction.AdjustedScore,
		AdjustedSpamScore:       correction.AdjustedSpamScore,
		SimilarCases:            cases,
	}
}

func immoralConfidence(result *pipeline.Result) float64 {
	if result.AutoBlock.Fired && result.AutoBlock.Dimension == moderation.DimensionImmoral {
		return result.AutoBlock.Confidence
	}
	return result.Components.ImmoralConfidence
}

func spamConfidence(result *pipeline.Result) float64 {
	if result.AutoBlock.Fired && result.AutoBlock.Dimension == moderation.DimensionSpam {
		return result.AutoBlock.Confidence
	}
	return result.Components.SpamConfidence
}
