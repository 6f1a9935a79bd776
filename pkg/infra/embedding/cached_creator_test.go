package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/textmod/modgate/pkg/cache"
	"github.com/textmod/modgate/pkg/domain/embedding"
	embeddingMocks "github.com/textmod/modgate/pkg/domain/embedding/mocks"
)

const cachedTestModel = "text-embedding-3-small"

func setupCachedCreator(inner embedding.Creator) (*CachedCreator, redismock.ClientMock) {
	client, redisMock := redismock.NewClientMock()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewCachedCreator(cache.NewCacheFromClient(client), inner, logger), redisMock
}

func cachedTestKey(text string) string {
	return fmt.Sprintf(embeddingKeyPattern, dedupKey(text, cachedTestModel))
}

func TestCachedCreator_MissGeneratesAndCaches(t *testing.T) {
	emb := &embedding.Embedding{Value: []float64{0.25, 0.5}}
	payload, err := json.Marshal(emb)
	require.NoError(t, err)

	inner := new(embeddingMocks.Creator)
	inner.On("Generate", mock.Anything, "spam wave text", cachedTestModel, mock.Anything).
		Return(emb, nil).Once()

	creator, redisMock := setupCachedCreator(inner)
	key := cachedTestKey("spam wave text")
	redisMock.ExpectGet(key).RedisNil()
	redisMock.ExpectSet(key, string(payload), embeddingCacheTTL).SetVal("OK")

	got, err := creator.Generate(context.Background(), "spam wave text", cachedTestModel, nil)
	require.NoError(t, err)
	assert.Equal(t, emb.Value, got.Value)

	// The repeat is answered from the local layer, no Redis GET and no
	// second upstream call.
	got, err = creator.Generate(context.Background(), "spam wave text", cachedTestModel, nil)
	require.NoError(t, err)
	assert.Equal(t, emb.Value, got.Value)

	inner.AssertNumberOfCalls(t, "Generate", 1)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedCreator_RedisHitSkipsUpstream(t *testing.T) {
	emb := &embedding.Embedding{Value: []float64{0.1, 0.9}}
	payload, err := json.Marshal(emb)
	require.NoError(t, err)

	inner := new(embeddingMocks.Creator)
	creator, redisMock := setupCachedCreator(inner)
	redisMock.ExpectGet(cachedTestKey("seen before")).SetVal(string(payload))

	got, err := creator.Generate(context.Background(), "seen before", cachedTestModel, nil)
	require.NoError(t, err)
	assert.Equal(t, emb.Value, got.Value)

	inner.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedCreator_UndecodableEntryIsEvictedAndRegenerated(t *testing.T) {
	emb := &embedding.Embedding{Value: []float64{0.3}}
	payload, err := json.Marshal(emb)
	require.NoError(t, err)

	inner := new(embeddingMocks.Creator)
	inner.On("Generate", mock.Anything, "garbled", cachedTestModel, mock.Anything).
		Return(emb, nil).Once()

	creator, redisMock := setupCachedCreator(inner)
	key := cachedTestKey("garbled")
	redisMock.ExpectGet(key).SetVal("not json")
	redisMock.ExpectDel(key).SetVal(1)
	redisMock.ExpectSet(key, string(payload), embeddingCacheTTL).SetVal("OK")

	got, err := creator.Generate(context.Background(), "garbled", cachedTestModel, nil)
	require.NoError(t, err)
	assert.Equal(t, emb.Value, got.Value)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedCreator_UpstreamFailureIsNotCached(t *testing.T) {
	inner := new(embeddingMocks.Creator)
	inner.On("Generate", mock.Anything, "bad", cachedTestModel, mock.Anything).
		Return(nil, errors.New("provider unavailable"))

	creator, redisMock := setupCachedCreator(inner)
	redisMock.ExpectGet(cachedTestKey("bad")).RedisNil()

	_, err := creator.Generate(context.Background(), "bad", cachedTestModel, nil)
	assert.Error(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedCreator_FlushOnModelChangeClearsOldEntries(t *testing.T) {
	inner := new(embeddingMocks.Creator)
	creator, redisMock := setupCachedCreator(inner)

	redisMock.ExpectGet(embeddingModelKey).SetVal("old-model")
	redisMock.ExpectScan(0, "embedding:*", 100).SetVal([]string{"embedding:stale"}, 0)
	redisMock.ExpectDel("embedding:stale").SetVal(1)
	redisMock.ExpectSet(embeddingModelKey, cachedTestModel, 0).SetVal("OK")

	require.NoError(t, creator.FlushOnModelChange(context.Background(), cachedTestModel))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedCreator_FlushOnModelChangeIsANoOpForSameModel(t *testing.T) {
	inner := new(embeddingMocks.Creator)
	creator, redisMock := setupCachedCreator(inner)

	redisMock.ExpectGet(embeddingModelKey).SetVal(cachedTestModel)

	require.NoError(t, creator.FlushOnModelChange(context.Background(), cachedTestModel))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
