package repository

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBlob_LittleEndianFloat32(t *testing.T) {
	blob := vectorBlob([]float64{1.5, -2.0})

	require.Len(t, blob, 8)
	first := math.Float32frombits(binary.LittleEndian.Uint32([]byte(blob)[0:4]))
	second := math.Float32frombits(binary.LittleEndian.Uint32([]byte(blob)[4:8]))
	assert.Equal(t, float32(1.5), first)
	assert.Equal(t, float32(-2.0), second)
}

func TestParseSearchReply_MapsDistanceToSimilarity(t *testing.T) {
	reply := []interface{}{
		int64(2),
		"casebase:key-1",
		[]interface{}{"vector_score", "0.05", "data", `{"log_id":"key-1"}`},
		"casebase:key-2",
		[]interface{}{"vector_score", "0.40", "data", `{"log_id":"key-2"}`},
	}

	results, err := parseSearchReply(reply)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "casebase:key-1", results[0].Key)
	assert.InDelta(t, 0.95, results[0].Score, 0.0001)
	assert.Equal(t, `{"log_id":"key-1"}`, results[0].Data)
	assert.InDelta(t, 0.60, results[1].Score, 0.0001)
}

func TestParseSearchReply_ClampsSimilarity(t *testing.T) {
	reply := []interface{}{
		int64(1),
		"casebase:far",
		[]interface{}{"vector_score", "1.8", "data", "{}"},
	}

	results, err := parseSearchReply(reply)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestParseSearchReply_EmptyIndex(t *testing.T) {
	results, err := parseSearchReply([]interface{}{int64(0)})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseSearchReply_MalformedReply(t *testing.T) {
	_, err := parseSearchReply("not a reply")

	assert.Error(t, err)
}
