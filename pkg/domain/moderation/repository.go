package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/textmod/modgate/pkg/domain/casebase"
)

// LogFilter narrows a log listing. Nil bounds are open.
type LogFilter struct {
	MinScore *float64
	MaxScore *float64
	From     *time.Time
	To       *time.Time
	Query    string
	Page     int
	Limit    int
}

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter

type Repository interface {
	Save(ctx context.Context, entry *LogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*LogEntry, error)
	List(ctx context.Context, filter LogFilter) ([]LogEntry, int64, error)
	Confirm(ctx context.Context, id uuid.UUID, label casebase.Label, confirmedBy string, confirmedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
