package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/app/autoblock"
	"github.com/textmod/modgate/pkg/app/decision"
	"github.com/textmod/modgate/pkg/app/rag"
	"github.com/textmod/modgate/pkg/app/scoring"
	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/content"
	"github.com/textmod/modgate/pkg/domain/embedding"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	"github.com/textmod/modgate/pkg/domain/moderation"
	"github.com/textmod/modgate/pkg/infra/workers"
)

// Result is the complete outcome of one evaluated submission, mirroring
// everything the audit log records.
type Result struct {
	LogID       uuid.UUID
	Components  *content.ScoreComponents
	Rag         *moderation.CorrectionResult
	AutoBlock   *moderation.AutoBlockDecision
	IsBlocked   bool
	BlockReason string
	DurationMs  int64
}

// FinalImmoral is the corrected immoral score when a correction applied.
func (r *Result) FinalImmoral() float64 {
	if r.AutoBlock.Fired && r.AutoBlock.Dimension == moderation.DimensionImmoral {
		return r.AutoBlock.MatchedScore
	}
	return r.Rag.FinalImmoral()
}

func (r *Result) FinalSpam() float64 {
	if r.AutoBlock.Fired && r.AutoBlock.Dimension == moderation.DimensionSpam {
		return r.AutoBlock.MatchedScore
	}
	return r.Rag.FinalSpam()
}

// Evaluator runs the strict per-submission stage order: auto-block
// shortcut, then the ensemble scorer, then retrieval-augmented correction,
// then the threshold decision. Each stage returns a tagged outcome the
// next stage consumes; across submissions evaluations are independent and
// share only the bounded worker pool.
type Evaluator struct {
	embedder  embedding.Creator
	embCfg    config.EmbeddingsConfig
	autoBlock *autoblock.Checker
	scorer    scoring.Scorer
	corrector *rag.Corrector
	engine    *decision.Engine
	logs      moderation.Repository
	pool      *workers.Pool
	cfg       config.ModerationConfig
	logger    *logrus.Logger

	auditFailures atomic.Int64
}

func NewEvaluator(
	embedder embedding.Creator,
	embCfg config.EmbeddingsConfig,
	autoBlockChecker *autoblock.Checker,
	scorer scoring.Scorer,
	corrector *rag.Corrector,
	engine *decision.Engine,
	logs moderation.Repository,
	pool *workers.Pool,
	cfg config.ModerationConfig,
	logger *logrus.Logger,
) *Evaluator {
	return &Evaluator{
		embedder:  embedder,
		embCfg:    embCfg,
		autoBlock: autoBlockChecker,
		scorer:    scorer,
		corrector: corrector,
		engine:    engine,
		logs:      logs,
		pool:      pool,
		cfg:       cfg,
		logger:    logger,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, sample *content.Sample) (*Result, error) {
	text := sample.Normalized()
	if text == "" {
		return nil, domainErrors.NewValidationError("text", "must not be empty")
	}
	if len(text) > e.cfg.MaxContentLength {
		return nil, domainErrors.NewValidationError("text", "exceeds maximum length")
	}

	started := time.Now()

	var result *Result
	err := e.pool.Interactive(ctx, func(ctx context.Context) error {
		var evalErr error
		result, evalErr = e.run(ctx, text)
		return evalErr
	})
	if err != nil {
		return nil, err
	}

	result.DurationMs = time.Since(started).Milliseconds()
	e.persist(sample, result)
	return result, nil
}

func (e *Evaluator) run(ctx context.Context, text string) (*Result, error) {
	result := &Result{
		LogID:      uuid.New(),
		Components: &content.ScoreComponents{},
		Rag: &moderation.CorrectionResult{
			AdjustmentMethod:        moderation.AdjustmentNone,
			ImmoralAdjustmentMethod: moderation.AdjustmentNone,
			SpamAdjustmentMethod:    moderation.AdjustmentNone,
			SimilarCases:            []moderation.SimilarCase{},
		},
		AutoBlock: &moderation.AutoBlockDecision{},
	}

	// Embedding failure only disables the similarity stages; scoring still
	// runs.
	emb, err := e.embedder.Generate(ctx, text, e.embCfg.Model, &embedding.Config{
		Provider:    e.embCfg.Provider,
		Model:       e.embCfg.Model,
		Credentials: embedding.Credentials{ApiKey: e.embCfg.ApiKey},
	})
	if err != nil {
		e.logger.WithError(err).Warn("embedding generation failed, similarity stages disabled")
		emb = nil
	}

	result.AutoBlock = e.autoBlock.Check(ctx, emb)
	if result.AutoBlock.Fired {
		verdict := e.engine.DecideAutoBlock(result.AutoBlock)
		result.IsBlocked = verdict.IsBlocked
		result.BlockReason = verdict.BlockReason
		result.Components.DetectedTypes = []string{result.AutoBlock.Dimension}
		return result, nil
	}

	components, err := e.scorer.Score(ctx, text)
	if err != nil {
		return nil, err
	}
	result.Components = components

	result.Rag = e.corrector.Correct(ctx, emb, components)

	verdict := e.engine.Decide(
		result.Rag.FinalImmoral(), components.ImmoralConfidence,
		result.Rag.FinalSpam(), components.SpamConfidence,
	)
	result.IsBlocked = verdict.IsBlocked
	result.BlockReason = verdict.BlockReason
	return result, nil
}

// persist hands the audit record to the batch lane. Persistence failures
// never fail the evaluation response; they are counted and logged for
// alerting instead.
func (e *Evaluator) persist(sample *content.Sample, result *Result) {
	entry := &moderation.LogEntry{
		ID:                result.LogID,
		Content:           sample.Normalized(),
		OriginIP:          sample.OriginIP,
		ClientID:          sample.ClientID,
		FinalImmoralScore: result.FinalImmoral(),
		ImmoralConfidence: e.immoralConfidence(result),
		FinalSpamScore:    result.FinalSpam(),
		SpamConfidence:    e.spamConfidence(result),
		DetectedTypes:     result.Components.DetectedTypes,
		Details:           *result.Components,
		Rag:               *result.Rag,
		AutoBlock:         *result.AutoBlock,
		AutoBlocked:       result.AutoBlock.Fired,
		IsBlocked:         result.IsBlocked,
		BlockReason:       result.BlockReason,
		Degraded:          result.Components.Degraded,
		DurationMs:        result.DurationMs,
		CreatedAt:         time.Now(),
	}

	e.pool.Batch("audit-log-save", 10*time.Second, func(ctx context.Context) error {
		if err := e.logs.Save(ctx, entry); err != nil {
			e.auditFailures.Add(1)
			e.logger.WithError(err).WithField("log_id", entry.ID).Error("failed to persist moderation log")
			return err
		}
		return nil
	})
}

func (e *Evaluator) immoralConfidence(result *Result) float64 {
	if result.AutoBlock.Fired && result.AutoBlock.Dimension == moderation.DimensionImmoral {
		return result.AutoBlock.Confidence
	}
	return result.Components.ImmoralConfidence
}

func (e *Evaluator) spamConfidence(result *Result) float64 {
	if result.AutoBlock.Fired && result.AutoBlock.Dimension == moderation.DimensionSpam {
		return result.AutoBlock.Confidence
	}
	return result.Components.SpamConfidence
}

// AuditFailures reports how many audit writes have been dropped since
// startup.
func (e *Evaluator) AuditFailures() int64 {
	return e.auditFailures.Load()
}
