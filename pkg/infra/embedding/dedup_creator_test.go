package embedding

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textmod/modgate/pkg/domain/embedding"
)

type countingCreator struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (c *countingCreator) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	c.mu.Lock()
	c.calls++
	first := c.calls == 1
	c.mu.Unlock()
	if first {
		close(c.started)
		<-c.release
	}
	return &embedding.Embedding{Value: []float64{1}}, nil
}

func TestDedupCreator_CollapsesConcurrentIdenticalRequests(t *testing.T) {
	inner := &countingCreator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	creator := NewDedupCreator(inner)

	var wg sync.WaitGroup
	results := make([]*embedding.Embedding, 4)
	errs := make([]error, 4)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = creator.Generate(context.Background(), "same text", "model", nil)
	}()

	// Wait for the first call to be in flight, then pile on.
	<-inner.started
	for i := 1; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = creator.Generate(context.Background(), "same text", "model", nil)
		}(i)
	}
	close(inner.release)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}
	assert.Equal(t, 1, inner.calls)
}

func TestDedupCreator_DistinctTextsAreSeparateCalls(t *testing.T) {
	inner := &countingCreator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	close(inner.release)
	creator := NewDedupCreator(inner)

	_, err := creator.Generate(context.Background(), "first text", "model", nil)
	require.NoError(t, err)
	_, err = creator.Generate(context.Background(), "second text", "model", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
