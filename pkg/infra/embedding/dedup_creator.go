package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/sync/singleflight"

	"github.com/textmod/modgate/pkg/domain/embedding"
)

// DedupCreator collapses concurrent embedding requests for identical text
// into a single upstream call. The shortcut check and the correction stage
// of one evaluation share the result, as do concurrent evaluations of the
// same content.
type DedupCreator struct {
	inner embedding.Creator
	sf    singleflight.Group
}

func NewDedupCreator(inner embedding.Creator) *DedupCreator {
	return &DedupCreator{inner: inner}
}

func (c *DedupCreator) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	key := dedupKey(text, model)
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		return c.inner.Generate(ctx, text, model, config)
	})
	if err != nil {
		return nil, err
	}
	emb, ok := v.(*embedding.Embedding)
	if !ok {
		return c.inner.Generate(ctx, text, model, config)
	}
	return emb, nil
}

func dedupKey(text, model string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
