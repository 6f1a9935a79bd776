package rag

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/common"
	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/content"
	"github.com/textmod/modgate/pkg/domain/embedding"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

// Corrector nudges freshly computed ensemble scores toward the labels of
// similar confirmed cases. The correction weight is a linear ramp of the
// best match's similarity above the configured floor, capped below 1, so a
// corrected score moves toward the matched label's extreme and never past
// it. When the matched cases disagree on a dimension the correction for
// that dimension is suppressed instead of averaged.
type Corrector struct {
	vectors embedding.Repository
	cfg     config.RagConfig
	logger  *logrus.Logger
}

func NewCorrector(vectors embedding.Repository, cfg config.RagConfig, logger *logrus.Logger) *Corrector {
	return &Corrector{
		vectors: vectors,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *Corrector) Correct(
	ctx context.Context,
	emb *embedding.Embedding,
	comp *content.ScoreComponents,
) *moderation.CorrectionResult {
	result := &moderation.CorrectionResult{
		Enabled:                 c.cfg.Enabled,
		AdjustmentMethod:        moderation.AdjustmentNone,
		ImmoralAdjustmentMethod: moderation.AdjustmentNone,
		SpamAdjustmentMethod:    moderation.AdjustmentNone,
		OriginalScore:           comp.FinalImmoral,
		OriginalSpamScore:       comp.FinalSpam,
		SimilarCases:            []moderation.SimilarCase{},
	}
	if !c.cfg.Enabled || emb == nil {
		return result
	}

	matches, err := c.vectors.Search(ctx, common.CaseBaseIndexName, c.cfg.TopK, emb)
	if err != nil {
		// Index trouble is fail-open: the ensemble result stands uncorrected.
		c.logger.WithError(err).Warn("similarity search failed, skipping correction")
		return result
	}

	for _, match := range matches {
		similarity := match.Score * 100
		if similarity < c.cfg.SimilarityFloor {
			continue
		}
		doc, err := casebase.UnmarshalDocument([]byte(match.Data))
		if err != nil {
			c.logger.WithError(err).Warnf("undecodable case document %s", match.Key)
			continue
		}
		result.SimilarCases = append(result.SimilarCases, moderation.SimilarCase{
			Sentence:     doc.Content,
			Similarity:   similarity,
			ImmoralScore: doc.ImmoralScore,
			SpamScore:    doc.SpamScore,
			Confidence:   doc.Confidence,
			Confirmed:    true,
			Label:        doc.Label,
		})
		if similarity > result.MaxSimilarity {
			result.MaxSimilarity = similarity
		}
	}

	result.SimilarCaseCount = len(result.SimilarCases)
	if result.SimilarCaseCount == 0 {
		return result
	}

	c.adjustDimension(result, moderation.DimensionImmoral)
	c.adjustDimension(result, moderation.DimensionSpam)

	switch {
	case result.AdjustmentApplied:
		result.AdjustmentMethod = moderation.AdjustmentLinearRamp
	case result.ImmoralAdjustmentMethod == moderation.AdjustmentSuppressedConflict,
		result.SpamAdjustmentMethod == moderation.AdjustmentSuppressedConflict:
		result.AdjustmentMethod = moderation.AdjustmentSuppressedConflict
	}
	return result
}

// adjustDimension applies the moves-toward-never-past correction for one
// dimension. Clean cases pull the score toward 0; cases confirmed on the
// dimension's own label pull it toward 100. A mix of both is a conflict
// and suppresses the correction.
func (c *Corrector) adjustDimension(result *moderation.CorrectionResult, dimension string) {
	riskLabel := casebase.LabelImmoral
	original := result.OriginalScore
	if dimension == moderation.DimensionSpam {
		riskLabel = casebase.LabelSpam
		original = result.OriginalSpamScore
	}

	var maxSim float64
	var sawRisk, sawClean bool
	for _, matched := range result.SimilarCases {
		switch matched.Label {
		case riskLabel:
			sawRisk = true
		case casebase.LabelClean:
			sawClean = true
		default:
			continue
		}
		if matched.Similarity > maxSim {
			maxSim = matched.Similarity
		}
	}

	if !sawRisk && !sawClean {
		return
	}
	if sawRisk && sawClean {
		c.setDimensionMethod(result, dimension, moderation.AdjustmentSuppressedConflict)
		return
	}

	extreme := 0.0
	if sawRisk {
		extreme = 100.0
	}

	weight := c.weightFor(maxSim)
	if weight <= 0 {
		return
	}

	adjusted := original + weight*(extreme-original)
	if adjusted == original {
		return
	}

	result.AdjustmentApplied = true
	if weight > result.AdjustmentWeight {
		result.AdjustmentWeight = weight
	}
	c.setDimensionMethod(result, dimension, moderation.AdjustmentLinearRamp)
	if dimension == moderation.DimensionSpam {
		result.AdjustedSpamScore = &adjusted
	} else {
		result.AdjustedScore = &adjusted
	}
}

func (c *Corrector) setDimensionMethod(result *moderation.CorrectionResult, dimension, method string) {
	if dimension == moderation.DimensionSpam {
		result.SpamAdjustmentMethod = method
	} else {
		result.ImmoralAdjustmentMethod = method
	}
}

// weightFor maps similarity (0-100) to an adjustment weight: zero at the
// floor, rising linearly to the configured cap at 100% similarity.
func (c *Corrector) weightFor(similarity float64) float64 {
	if similarity <= c.cfg.SimilarityFloor {
		return 0
	}
	span := 100 - c.cfg.SimilarityFloor
	if span <= 0 {
		return c.cfg.MaxAdjustment
	}
	weight := c.cfg.MaxAdjustment * (similarity - c.cfg.SimilarityFloor) / span
	if weight > c.cfg.MaxAdjustment {
		weight = c.cfg.MaxAdjustment
	}
	return weight
}
