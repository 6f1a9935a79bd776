package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const vectorDimension = 1536

type (
	RedisIndexCreator interface {
		CreateIndex(ctx context.Context, index string) error
	}
	redisIndexCreator struct {
		redis  *redis.Client
		logger *logrus.Logger
	}
)

func NewRedisIndexCreator(redis *redis.Client, logger *logrus.Logger) RedisIndexCreator {
	return &redisIndexCreator{
		redis:  redis,
		logger: logger,
	}
}

// CreateIndex drops and recreates the case-base vector index, deleting
// any stale documents with it. Postgres holds the confirmed cases, so
// the index is rebuilt from there after a recreate. Hash documents
// carry the FLOAT32 embedding blob and the case payload JSON.
func (c *redisIndexCreator) CreateIndex(ctx context.Context, index string) error {
	drop := []interface{}{"FT.DROPINDEX", index, "DD"}
	if err := c.redis.Do(ctx, drop...).Err(); err != nil && !strings.Contains(err.Error(), "Unknown Index name") {
		c.logger.WithError(err).Warnf("Failed to drop index %s", index)
	}

	create := []interface{}{
		"FT.CREATE", index,
		"ON", "HASH",
		"PREFIX", "1", index + ":",
		"SCHEMA",
		"data", "TAG", "SEPARATOR", "|",
		"embedding", "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(vectorDimension),
		"DISTANCE_METRIC", "COSINE",
	}
	if err := c.redis.Do(ctx, create...).Err(); err != nil {
		c.logger.WithError(err).Errorf("Failed to create vector index: %s", index)
		return err
	}

	c.logger.Infof("Vector index created: %s", index)
	return nil
}
