package autoblock

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/common"
	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/embedding"
	embeddingMocks "github.com/textmod/modgate/pkg/domain/embedding/mocks"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

func setupChecker(vectors *embeddingMocks.Repository) *Checker {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewChecker(vectors, config.AutoBlockConfig{
		Enabled:             true,
		SimilarityThreshold: 90,
		ScoreFloor:          90,
		ConfidenceFloor:     80,
	}, logger)
}

func bestMatch(score float64, doc casebase.Document) []embedding.SearchResult {
	data, _ := (&doc).Marshal()
	return []embedding.SearchResult{{Key: "case-1", Score: score, Data: string(data)}}
}

func testEmbedding() *embedding.Embedding {
	return &embedding.Embedding{Value: []float64{0.3, 0.4}}
}

func TestChecker_FiresWhenAllGatesClear(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.95, casebase.Document{
			Content:      "known scam message",
			Label:        casebase.LabelSpam,
			SpamScore:    96,
			ImmoralScore: 10,
			Confidence:   88,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.True(t, decision.Fired)
	assert.Equal(t, moderation.DimensionSpam, decision.Dimension)
	assert.Equal(t, 96.0, decision.MatchedScore)
	assert.Equal(t, 88.0, decision.Confidence)
	assert.InDelta(t, 95.0, decision.Similarity, 0.001)
	assert.Equal(t, "case-1", decision.MatchedCaseID)
	assert.Equal(t, "known scam message", decision.MatchedContent)
}

func TestChecker_FiresAtExactGateValues(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.90, casebase.Document{
			Label:        casebase.LabelImmoral,
			ImmoralScore: 90,
			Confidence:   80,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	// Every gate sits exactly at its configured value and still fires;
	// the thresholds are inclusive with no hysteresis band above them.
	assert.True(t, decision.Fired)
	assert.InDelta(t, 90.0, decision.Similarity, 0.001)
	assert.Equal(t, 90.0, decision.MatchedScore)
	assert.Equal(t, 80.0, decision.Confidence)
}

func TestChecker_SimilarityBelowThresholdMisses(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.89, casebase.Document{
			Label: casebase.LabelImmoral, ImmoralScore: 99, Confidence: 99,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.False(t, decision.Fired)
}

func TestChecker_MatchedScoreBelowFloorMisses(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.97, casebase.Document{
			Label: casebase.LabelImmoral, ImmoralScore: 85, Confidence: 99,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.False(t, decision.Fired)
}

func TestChecker_LowConfidenceMisses(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.97, casebase.Document{
			Label: casebase.LabelImmoral, ImmoralScore: 99, Confidence: 79,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.False(t, decision.Fired)
}

func TestChecker_CleanCasesNeverFire(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(bestMatch(0.99, casebase.Document{
			Label: casebase.LabelClean, ImmoralScore: 99, SpamScore: 99, Confidence: 99,
		}), nil)

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.False(t, decision.Fired)
}

func TestChecker_SearchFailureIsFailOpen(t *testing.T) {
	vectors := new(embeddingMocks.Repository)
	vectors.On("Search", mock.Anything, common.CaseBaseIndexName, 1, mock.Anything).
		Return(nil, errors.New("index unavailable"))

	decision := setupChecker(vectors).Check(context.Background(), testEmbedding())

	assert.False(t, decision.Fired)
}

func TestChecker_NilEmbeddingSkipsSearch(t *testing.T) {
	vectors := new(embeddingMocks.Repository)

	decision := setupChecker(vectors).Check(context.Background(), nil)

	assert.False(t, decision.Fired)
	vectors.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
