package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/textmod/modgate/pkg/domain/casebase"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

type moderationLogRepository struct {
	db *gorm.DB
}

func NewModerationLogRepository(db *gorm.DB) moderation.Repository {
	return &moderationLogRepository{
		db: db,
	}
}

func (r *moderationLogRepository) Save(ctx context.Context, entry *moderation.LogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *moderationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*moderation.LogEntry, error) {
	var entry moderation.LogEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("moderation log", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *moderationLogRepository) List(
	ctx context.Context,
	filter moderation.LogFilter,
) ([]moderation.LogEntry, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&moderation.LogEntry{})
	if filter.MinScore != nil {
		query = query.Where("final_immoral_score >= ? OR final_spam_score >= ?", *filter.MinScore, *filter.MinScore)
	}
	if filter.MaxScore != nil {
		query = query.Where("final_immoral_score <= ? AND final_spam_score <= ?", *filter.MaxScore, *filter.MaxScore)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Query != "" {
		query = query.Where("content ILIKE ?", "%"+filter.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []moderation.LogEntry
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *moderationLogRepository) Confirm(
	ctx context.Context,
	id uuid.UUID,
	label casebase.Label,
	confirmedBy string,
	confirmedAt time.Time,
) error {
	result := r.db.WithContext(ctx).Model(&moderation.LogEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"confirmed":       true,
			"confirmed_label": label,
			"confirmed_by":    confirmedBy,
			"confirmed_at":    confirmedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("moderation log", id)
	}
	return nil
}

func (r *moderationLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&moderation.LogEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("moderation log", id)
	}
	return nil
}

func (r *moderationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&moderation.LogEntry{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}
