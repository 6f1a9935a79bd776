package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent model and index work. It keeps two lanes with
// separate capacity: the interactive lane serves in-flight evaluations,
// the batch lane serves background work (audit persistence, reindexing),
// so batch jobs can never starve interactive latency.
type Pool struct {
	interactive *semaphore.Weighted
	batch       *semaphore.Weighted
	logger      *logrus.Logger
	wg          sync.WaitGroup
}

func NewPool(interactiveSlots, batchSlots int64, logger *logrus.Logger) *Pool {
	if interactiveSlots <= 0 {
		interactiveSlots = 64
	}
	if batchSlots <= 0 {
		batchSlots = 16
	}
	return &Pool{
		interactive: semaphore.NewWeighted(interactiveSlots),
		batch:       semaphore.NewWeighted(batchSlots),
		logger:      logger,
	}
}

// Interactive runs fn on the interactive lane and waits for it. The
// caller's context bounds both the wait for a slot and the work itself, so
// one slow evaluation never serializes unrelated requests behind it.
func (p *Pool) Interactive(ctx context.Context, fn func(context.Context) error) error {
	if err := p.interactive.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("interactive lane saturated: %w", err)
	}

	done := make(chan error, 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.interactive.Release(1)
		done <- fn(ctx)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Batch schedules fn on the batch lane without making the caller wait. The
// work gets its own deadline detached from the request that spawned it.
func (p *Pool) Batch(name string, timeout time.Duration, fn func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := p.batch.Acquire(ctx, 1); err != nil {
			p.logger.WithError(err).Warnf("batch lane saturated, dropping job %s", name)
			return
		}
		defer p.batch.Release(1)

		if err := fn(ctx); err != nil {
			p.logger.WithError(err).Errorf("batch job %s failed", name)
		}
	}()
}

// Shutdown waits for in-flight work to drain.
func (p *Pool) Shutdown() {
	p.wg.Wait()
}
