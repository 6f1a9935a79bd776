package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
)

const moderationSystemPrompt = `You are a content moderation scorer. ` +
	`Given a short user-submitted text, respond with a single JSON object and nothing else: ` +
	`{"immoral_score": 0-100, "spam_score": 0-100, "confidence": 0-100, "categories": []}. ` +
	`immoral_score estimates ethically problematic or abusive content, spam_score estimates ` +
	`promotional or repetitive low-value intent. categories may contain: ` +
	`"abusive_language", "hate_speech", "threat", "sexual", "advertising", "repetitive".`

type llmVerdict struct {
	ImmoralScore float64  `json:"immoral_score"`
	SpamScore    float64  `json:"spam_score"`
	Confidence   float64  `json:"confidence"`
	Categories   []string `json:"categories"`
}

// parseLLMVerdict extracts the JSON verdict from a completion, tolerating
// markdown fences and prose around the object.
func parseLLMVerdict(response string) (*llmVerdict, error) {
	trimmed := strings.TrimSpace(response)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &verdict); err != nil {
		return nil, fmt.Errorf("failed to decode model verdict: %w", err)
	}
	return &verdict, nil
}
