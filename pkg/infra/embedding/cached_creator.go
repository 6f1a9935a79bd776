package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/cache"
	"github.com/textmod/modgate/pkg/domain/embedding"
)

const (
	embeddingKeyPattern = "embedding:%s"
	embeddingModelKey   = "embedding:model"
	embeddingCacheTTL   = 24 * time.Hour
)

// CachedCreator serves repeated content from the cache instead of
// re-embedding it. Submissions repeat heavily (spam waves, copy-paste
// reposts), and the cache's local layer answers hot keys without a
// network hop. Keys are hashes of model and text, so a model change
// never serves a stale vector.
type CachedCreator struct {
	cache  *cache.Cache
	inner  embedding.Creator
	logger *logrus.Logger
}

func NewCachedCreator(cacheInstance *cache.Cache, inner embedding.Creator, logger *logrus.Logger) *CachedCreator {
	return &CachedCreator{
		cache:  cacheInstance,
		inner:  inner,
		logger: logger,
	}
}

func (c *CachedCreator) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	key := fmt.Sprintf(embeddingKeyPattern, dedupKey(text, model))
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var emb embedding.Embedding
		if err := json.Unmarshal([]byte(raw), &emb); err == nil {
			return &emb, nil
		}
		c.logger.Warnf("dropping undecodable cached embedding %s", key)
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.WithError(err).Warnf("failed to evict cached embedding %s", key)
		}
	}

	emb, err := c.inner.Generate(ctx, text, model, config)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(emb); err == nil {
		if err := c.cache.Set(ctx, key, string(payload), embeddingCacheTTL); err != nil {
			c.logger.WithError(err).Warn("failed to cache embedding")
		}
	}
	return emb, nil
}

// FlushOnModelChange clears cached embeddings when the configured model
// differs from the one that produced them. Entries under the old model's
// keys are unreachable anyway; this reclaims the space instead of waiting
// out the TTL.
func (c *CachedCreator) FlushOnModelChange(ctx context.Context, model string) error {
	stored, err := c.cache.Get(ctx, embeddingModelKey)
	if err == nil && stored == model {
		return nil
	}
	if err := c.cache.DeleteByPattern(ctx, fmt.Sprintf(embeddingKeyPattern, "*")); err != nil {
		return err
	}
	return c.cache.Set(ctx, embeddingModelKey, model, 0)
}
