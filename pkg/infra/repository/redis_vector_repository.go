package repository

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/cache"
	"github.com/textmod/modgate/pkg/domain/embedding"
)

type redisVectorRepository struct {
	cache  *cache.Cache
	logger *logrus.Logger
}

func NewRedisVectorRepository(cache *cache.Cache, logger *logrus.Logger) embedding.Repository {
	return &redisVectorRepository{
		cache:  cache,
		logger: logger,
	}
}

func (r *redisVectorRepository) Count(ctx context.Context, index string) (int, error) {
	res, err := r.cache.Client().Do(ctx, "FT.SEARCH", index, "*", "LIMIT", "0", "0").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count index %s: %w", index, err)
	}
	rows, ok := res.([]interface{})
	if !ok || len(rows) == 0 {
		return 0, fmt.Errorf("unexpected FT.SEARCH reply for index %s", index)
	}
	total, err := toInt(rows[0])
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *redisVectorRepository) StoreWithHMSet(
	ctx context.Context,
	index, key string,
	emb *embedding.Embedding,
	data []byte,
) error {
	docKey := fmt.Sprintf("%s:%s", index, key)
	fields := map[string]interface{}{
		"embedding": vectorBlob(emb.Value),
		"data":      string(data),
	}
	if err := r.cache.Client().HSet(ctx, docKey, fields).Err(); err != nil {
		return fmt.Errorf("failed to store vector document %s: %w", docKey, err)
	}
	return nil
}

// Search runs a KNN query against the index and maps cosine distance to a
// similarity in [0,1].
func (r *redisVectorRepository) Search(
	ctx context.Context,
	index string,
	topK int,
	emb *embedding.Embedding,
) ([]embedding.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	query := fmt.Sprintf("*=>[KNN %d @embedding $BLOB AS vector_score]", topK)

	args := []interface{}{
		"FT.SEARCH", index, query,
		"PARAMS", "2", "BLOB", vectorBlob(emb.Value),
		"SORTBY", "vector_score", "ASC",
		"RETURN", "2", "vector_score", "data",
		"DIALECT", "2",
	}

	res, err := r.cache.Client().Do(ctx, args...).Result()
	if err != nil {
		r.logger.WithError(err).Errorf("vector search failed on index %s", index)
		return nil, fmt.Errorf("%w: %v", embedding.ErrIndexUnavailable, err)
	}

	return parseSearchReply(res)
}

func (r *redisVectorRepository) Delete(ctx context.Context, index, key string) error {
	docKey := fmt.Sprintf("%s:%s", index, key)
	if err := r.cache.Client().Del(ctx, docKey).Err(); err != nil {
		return fmt.Errorf("failed to delete vector document %s: %w", docKey, err)
	}
	return nil
}

// vectorBlob encodes the vector as little-endian float32, the layout
// RediSearch expects for FLOAT32 FLAT indexes.
func vectorBlob(values []float64) string {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return string(buf)
}

func parseSearchReply(res interface{}) ([]embedding.SearchResult, error) {
	rows, ok := res.([]interface{})
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("unexpected FT.SEARCH reply")
	}

	results := make([]embedding.SearchResult, 0, (len(rows)-1)/2)
	for i := 1; i+1 < len(rows); i += 2 {
		key, ok := rows[i].(string)
		if !ok {
			continue
		}
		fields, ok := rows[i+1].([]interface{})
		if !ok {
			continue
		}

		var distance float64
		var data string
		for j := 0; j+1 < len(fields); j += 2 {
			name, ok := fields[j].(string)
			if !ok {
				continue
			}
			value, ok := fields[j+1].(string)
			if !ok {
				continue
			}
			switch name {
			case "vector_score":
				d, err := strconv.ParseFloat(value, 64)
				if err == nil {
					distance = d
				}
			case "data":
				data = value
			}
		}

		similarity := 1 - distance
		if similarity < 0 {
			similarity = 0
		}
		if similarity > 1 {
			similarity = 1
		}

		results = append(results, embedding.SearchResult{
			Key:   key,
			Score: similarity,
			Data:  data,
		})
	}

	return results, nil
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("unexpected count value %q", n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
