package content

// Weights splits the immoral dimension between the local classifier head
// and the hosted-model head. The pair sums to 1.
type Weights struct {
	Bert float64 `json:"bert"`
	LLM  float64 `json:"llm"`
}

// SpamWeights splits the spam dimension between the hosted-model head and
// the deterministic rule head. The pair sums to 1.
type SpamWeights struct {
	LLM  float64 `json:"llm"`
	Rule float64 `json:"rule"`
}

// ScoreComponents carries every intermediate of the ensemble so the final
// scores stay decomposable: per-head raw scores and confidences, the
// weight table actually applied, the rule boosts, and the blended finals.
// All scores and confidences live on the 0-100 scale.
type ScoreComponents struct {
	BertScore      float64 `json:"bert_score"`
	BertConfidence float64 `json:"bert_confidence"`

	LLMScore      float64 `json:"llm_score"`
	LLMConfidence float64 `json:"llm_confidence"`
	LLMSpamScore  float64 `json:"llm_spam_score"`

	ProfanityBoost float64 `json:"profanity_boost"`
	RuleSpamScore  float64 `json:"rule_spam_score"`

	Weights     Weights     `json:"weights"`
	SpamWeights SpamWeights `json:"spam_weights"`

	// BaseScore is the weighted head blend before the profanity boost.
	BaseScore float64 `json:"base_score"`

	FinalImmoral      float64 `json:"final_immoral"`
	ImmoralConfidence float64 `json:"immoral_confidence"`
	FinalSpam         float64 `json:"final_spam"`
	SpamConfidence    float64 `json:"spam_confidence"`

	// Degraded marks that the hosted head was unavailable and the finals
	// rest on the local classifier and rules alone.
	Degraded bool `json:"degraded"`

	DetectedTypes []string `json:"detected_types"`
}

// Clamp bounds a score or confidence to the 0-100 scale.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
