package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/domain/casebase"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Upsert(ctx context.Context, entry *casebase.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id uuid.UUID) (*casebase.Entry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*casebase.Entry)
	return entry, args.Error(1)
}

func (m *Repository) GetByLogID(ctx context.Context, logID uuid.UUID) (*casebase.Entry, error) {
	args := m.Called(ctx, logID)
	entry, _ := args.Get(0).(*casebase.Entry)
	return entry, args.Error(1)
}

func (m *Repository) List(ctx context.Context, page, limit int) ([]casebase.Entry, int64, error) {
	args := m.Called(ctx, page, limit)
	entries, _ := args.Get(0).([]casebase.Entry)
	total, _ := args.Get(1).(int64)
	return entries, total, args.Error(2)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
