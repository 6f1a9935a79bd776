package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

func testEngine() *Engine {
	return NewEngine(config.DecisionConfig{
		ImmoralBlockThreshold: 80,
		SpamBlockThreshold:    85,
		MinConfidence:         50,
	})
}

func TestEngine_Decide_BlocksOnImmoralThreshold(t *testing.T) {
	verdict := testEngine().Decide(80, 70, 10, 70)

	assert.True(t, verdict.IsBlocked)
	assert.Contains(t, verdict.BlockReason, "immoral score 80.0")
	assert.Contains(t, verdict.BlockReason, "threshold 80.0")
}

func TestEngine_Decide_BlocksOnSpamThreshold(t *testing.T) {
	verdict := testEngine().Decide(10, 70, 92, 70)

	assert.True(t, verdict.IsBlocked)
	assert.Contains(t, verdict.BlockReason, "spam score 92.0")
}

func TestEngine_Decide_AllowsBelowThresholds(t *testing.T) {
	verdict := testEngine().Decide(79.9, 99, 84.9, 99)

	assert.False(t, verdict.IsBlocked)
	assert.Empty(t, verdict.BlockReason)
}

func TestEngine_Decide_LowConfidenceSuppressesBlock(t *testing.T) {
	verdict := testEngine().Decide(95, 49.9, 95, 49.9)

	assert.False(t, verdict.IsBlocked)
}

func TestEngine_Decide_ConfidenceGateIsPerDimension(t *testing.T) {
	// Immoral is over threshold but under-confident; spam is confident and
	// over threshold, so spam carries the block.
	verdict := testEngine().Decide(95, 30, 90, 80)

	assert.True(t, verdict.IsBlocked)
	assert.Contains(t, verdict.BlockReason, "spam score")
}

func TestEngine_DecideAutoBlock_CarriesProvenance(t *testing.T) {
	verdict := testEngine().DecideAutoBlock(&moderation.AutoBlockDecision{
		Fired:        true,
		Dimension:    moderation.DimensionImmoral,
		Similarity:   97.5,
		MatchedScore: 93,
		Confidence:   88,
	})

	assert.True(t, verdict.IsBlocked)
	assert.Contains(t, verdict.BlockReason, "near-duplicate of confirmed immoral case")
	assert.Contains(t, verdict.BlockReason, "97.5")
}
