package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, entry *moderation.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id uuid.UUID) (*moderation.LogEntry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*moderation.LogEntry)
	return entry, args.Error(1)
}

func (m *Repository) List(
	ctx context.Context,
	filter moderation.LogFilter,
) ([]moderation.LogEntry, int64, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]moderation.LogEntry)
	total, _ := args.Get(1).(int64)
	return entries, total, args.Error(2)
}

func (m *Repository) Confirm(
	ctx context.Context,
	id uuid.UUID,
	label casebase.Label,
	confirmedBy string,
	confirmedAt time.Time,
) error {
	args := m.Called(ctx, id, label, confirmedBy, confirmedAt)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	deleted, _ := args.Get(0).(int64)
	return deleted, args.Error(1)
}
