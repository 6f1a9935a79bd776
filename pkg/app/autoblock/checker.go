package autoblock

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/common"
	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/embedding"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

// Checker is the pre-ensemble shortcut: near-duplicate content that a
// human already adjudicated as high-risk gets blocked without paying for
// the hosted-model call. It reads the case base and never writes to it.
type Checker struct {
	vectors embedding.Repository
	cfg     config.AutoBlockConfig
	logger  *logrus.Logger
}

func NewChecker(vectors embedding.Repository, cfg config.AutoBlockConfig, logger *logrus.Logger) *Checker {
	return &Checker{
		vectors: vectors,
		cfg:     cfg,
		logger:  logger,
	}
}

// Check fires only when the best match clears all three gates: similarity
// at or above the shortcut threshold, the matched entry's recorded risk
// score at or above the high-risk floor, and its confidence at or above
// the confidence floor. Anything else is a miss and the pipeline falls
// through to full scoring.
func (c *Checker) Check(ctx context.Context, emb *embedding.Embedding) *moderation.AutoBlockDecision {
	decision := &moderation.AutoBlockDecision{}
	if !c.cfg.Enabled || emb == nil {
		return decision
	}

	matches, err := c.vectors.Search(ctx, common.CaseBaseIndexName, 1, emb)
	if err != nil {
		c.logger.WithError(err).Warn("similarity search failed, skipping auto-block shortcut")
		return decision
	}
	if len(matches) == 0 {
		return decision
	}

	best := matches[0]
	similarity := best.Score * 100
	if similarity < c.cfg.SimilarityThreshold {
		return decision
	}

	doc, err := casebase.UnmarshalDocument([]byte(best.Data))
	if err != nil {
		c.logger.WithError(err).Warnf("undecodable case document %s", best.Key)
		return decision
	}
	if doc.Confidence < c.cfg.ConfidenceFloor {
		return decision
	}

	dimension, score := riskDimension(doc)
	if dimension == "" || score < c.cfg.ScoreFloor {
		return decision
	}

	decision.Fired = true
	decision.MatchedCaseID = best.Key
	decision.MatchedContent = doc.Content
	decision.Similarity = similarity
	decision.Dimension = dimension
	decision.MatchedScore = score
	decision.Confidence = doc.Confidence
	return decision
}

// riskDimension picks the dimension the confirmed label vouches for. Clean
// cases never fire the shortcut.
func riskDimension(doc *casebase.Document) (string, float64) {
	switch doc.Label {
	case casebase.LabelImmoral:
		return moderation.DimensionImmoral, doc.ImmoralScore
	case casebase.LabelSpam:
		return moderation.DimensionSpam, doc.SpamScore
	}
	return "", 0
}
