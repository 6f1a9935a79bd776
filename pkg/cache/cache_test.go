package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetStoresLocally(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCacheFromClient(client)

	mock.ExpectSet("k", "v", time.Minute).SetVal("OK")

	err := c.Set(context.Background(), "k", "v", time.Minute)
	require.NoError(t, err)

	// The follow-up read is served from the local layer, no GET expected.
	value, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetFallsThroughToRedis(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCacheFromClient(client)

	mock.ExpectGet("missing-locally").SetVal("from-redis")

	value, err := c.Get(context.Background(), "missing-locally")
	require.NoError(t, err)
	assert.Equal(t, "from-redis", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_DeleteEvictsBothLayers(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCacheFromClient(client)

	mock.ExpectSet("k", "v", time.Minute).SetVal("OK")
	mock.ExpectDel("k").SetVal(1)
	mock.ExpectGet("k").RedisNil()

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, c.Delete(context.Background(), "k"))

	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_DeleteByPatternScansInBatches(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCacheFromClient(client)

	mock.ExpectSet("case:1", "a", time.Minute).SetVal("OK")
	mock.ExpectSet("case:2", "b", time.Minute).SetVal("OK")
	mock.ExpectScan(0, "case:*", 100).SetVal([]string{"case:1"}, 7)
	mock.ExpectDel("case:1").SetVal(1)
	mock.ExpectScan(7, "case:*", 100).SetVal([]string{"case:2"}, 0)
	mock.ExpectDel("case:2").SetVal(1)
	mock.ExpectGet("case:1").RedisNil()

	require.NoError(t, c.Set(context.Background(), "case:1", "a", time.Minute))
	require.NoError(t, c.Set(context.Background(), "case:2", "b", time.Minute))
	require.NoError(t, c.DeleteByPattern(context.Background(), "case:*"))

	// Local layer entries are evicted alongside the Redis keys.
	_, err := c.Get(context.Background(), "case:1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
