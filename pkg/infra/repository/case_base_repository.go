package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/textmod/modgate/pkg/domain/casebase"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
)

type caseBaseRepository struct {
	db *gorm.DB
}

func NewCaseBaseRepository(db *gorm.DB) casebase.Repository {
	return &caseBaseRepository{
		db: db,
	}
}

// Upsert is keyed by log identity: a re-confirmation of the same log
// overwrites the live entry instead of creating a second one.
func (r *caseBaseRepository) Upsert(ctx context.Context, entry *casebase.Entry) error {
	now := time.Now()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "log_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "immoral_score", "spam_score", "confidence",
			"confirmed_label", "source_type", "confirmed_by", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return err
	}

	// The conflict path keeps the existing row's identity; read it back so
	// the caller sees the live entry.
	existing, err := r.GetByLogID(ctx, entry.LogID)
	if err != nil {
		return err
	}
	*entry = *existing
	return nil
}

func (r *caseBaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*casebase.Entry, error) {
	var entry casebase.Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("case base entry", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *caseBaseRepository) GetByLogID(ctx context.Context, logID uuid.UUID) (*casebase.Entry, error) {
	var entry casebase.Entry
	err := r.db.WithContext(ctx).First(&entry, "log_id = ?", logID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("case base entry", logID)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *caseBaseRepository) List(ctx context.Context, page, limit int) ([]casebase.Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&casebase.Entry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []casebase.Entry
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *caseBaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&casebase.Entry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("case base entry", id)
	}
	return nil
}
