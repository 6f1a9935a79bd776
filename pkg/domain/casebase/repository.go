package casebase

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter

type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetByLogID(ctx context.Context, logID uuid.UUID) (*Entry, error)
	List(ctx context.Context, page, limit int) ([]Entry, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
