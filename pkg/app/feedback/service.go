package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/common"
	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/embedding"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

// Service is the single write path into the case base: administrator
// confirmations upsert entries keyed by log identity, deletions remove
// them from both the durable store and the similarity index.
type Service struct {
	logs     moderation.Repository
	cases    casebase.Repository
	vectors  embedding.Repository
	embedder embedding.Creator
	embCfg   config.EmbeddingsConfig
	minLen   int
	logger   *logrus.Logger
}

func NewService(
	logs moderation.Repository,
	cases casebase.Repository,
	vectors embedding.Repository,
	embedder embedding.Creator,
	embCfg config.EmbeddingsConfig,
	minLen int,
	logger *logrus.Logger,
) *Service {
	return &Service{
		logs:     logs,
		cases:    cases,
		vectors:  vectors,
		embedder: embedder,
		embCfg:   embCfg,
		minLen:   minLen,
		logger:   logger,
	}
}

// Confirm records an administrator's verdict on a logged evaluation. The
// log entry is always marked confirmed; the case base is only written when
// the content clears the minimum length gate. Returns the upserted entry,
// or nil when the case-base write was skipped.
func (s *Service) Confirm(
	ctx context.Context,
	logID uuid.UUID,
	label casebase.Label,
	confirmedBy string,
) (*casebase.Entry, error) {
	if !label.Valid() {
		return nil, domainErrors.ErrInvalidLabel
	}

	logEntry, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.logs.Confirm(ctx, logID, label, confirmedBy, now); err != nil {
		return nil, err
	}

	if len(logEntry.Content) < s.minLen {
		s.logger.WithField("log_id", logID).Debug("content below minimum case length, skipping case base write")
		return nil, nil
	}

	entry := &casebase.Entry{
		LogID:          logID,
		Content:        logEntry.Content,
		ImmoralScore:   logEntry.FinalImmoralScore,
		SpamScore:      logEntry.FinalSpamScore,
		Confidence:     confidenceFor(logEntry, label),
		ConfirmedLabel: label,
		SourceType:     casebase.SourceLogConfirmation,
		ConfirmedBy:    confirmedBy,
	}

	if err := s.cases.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("case base write failed: %w", err)
	}

	if err := s.index(ctx, entry); err != nil {
		return nil, fmt.Errorf("case base indexing failed: %w", err)
	}

	return entry, nil
}

// DeleteCase removes an entry from the durable store and the similarity
// index; the case stops matching searches immediately.
func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	entry, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cases.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.Delete(ctx, common.CaseBaseIndexName, entry.LogID.String()); err != nil {
		return fmt.Errorf("failed to remove case from similarity index: %w", err)
	}
	return nil
}

// Reindex rebuilds the similarity index from the durable store, paging
// through every confirmed entry. Used at startup so the index survives a
// Redis restart.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	page := 1
	indexed := 0
	for {
		entries, _, err := s.cases.List(ctx, page, 100)
		if err != nil {
			return indexed, err
		}
		if len(entries) == 0 {
			return indexed, nil
		}
		for i := range entries {
			if err := s.index(ctx, &entries[i]); err != nil {
				s.logger.WithError(err).Warnf("failed to reindex case %s", entries[i].ID)
				continue
			}
			indexed++
		}
		page++
	}
}

func (s *Service) index(ctx context.Context, entry *casebase.Entry) error {
	emb, err := s.embedder.Generate(ctx, entry.Content, s.embCfg.Model, &embedding.Config{
		Provider:    s.embCfg.Provider,
		Model:       s.embCfg.Model,
		Credentials: embedding.Credentials{ApiKey: s.embCfg.ApiKey},
	})
	if err != nil {
		return err
	}

	data, err := entry.Document().Marshal()
	if err != nil {
		return err
	}

	// Keyed by log identity: re-confirmation overwrites the hash in place.
	return s.vectors.StoreWithHMSet(ctx, common.CaseBaseIndexName, entry.LogID.String(), emb, data)
}

func confidenceFor(logEntry *moderation.LogEntry, label casebase.Label) float64 {
	switch label {
	case casebase.LabelImmoral:
		return logEntry.ImmoralConfidence
	case casebase.LabelSpam:
		return logEntry.SpamConfidence
	default:
		if logEntry.ImmoralConfidence > logEntry.SpamConfidence {
			return logEntry.ImmoralConfidence
		}
		return logEntry.SpamConfidence
	}
}
