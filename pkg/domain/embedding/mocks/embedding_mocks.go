package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/domain/embedding"
)

type Creator struct {
	mock.Mock
}

func (m *Creator) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	args := m.Called(ctx, text, model, config)
	emb, _ := args.Get(0).(*embedding.Embedding)
	return emb, args.Error(1)
}

type Repository struct {
	mock.Mock
}

func (m *Repository) Count(ctx context.Context, index string) (int, error) {
	args := m.Called(ctx, index)
	return args.Int(0), args.Error(1)
}

func (m *Repository) StoreWithHMSet(
	ctx context.Context,
	index, key string,
	emb *embedding.Embedding,
	data []byte,
) error {
	args := m.Called(ctx, index, key, emb, data)
	return args.Error(0)
}

func (m *Repository) Search(
	ctx context.Context,
	index string,
	topK int,
	emb *embedding.Embedding,
) ([]embedding.SearchResult, error) {
	args := m.Called(ctx, index, topK, emb)
	results, _ := args.Get(0).([]embedding.SearchResult)
	return results, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, index, key string) error {
	args := m.Called(ctx, index, key)
	return args.Error(0)
}
