package embedding

import (
	"context"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=embedding_repository_mock.go --case=underscore --with-expecter

// Repository is the vector similarity index backing the case base. Reads
// run concurrently with every in-flight evaluation; writes come only from
// feedback capture and deletions.
type Repository interface {
	Count(ctx context.Context, index string) (int, error)
	StoreWithHMSet(ctx context.Context, index, key string, emb *Embedding, data []byte) error
	Search(ctx context.Context, index string, topK int, emb *Embedding) ([]SearchResult, error)
	Delete(ctx context.Context, index, key string) error
}
