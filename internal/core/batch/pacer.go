// Package batch enforces the executor's pacing contract against the
// remote store: a spacing delay between individual operations and a
// longer pause at every batch boundary. Plan workers share one Pacer per
// run so the pacing holds across concurrent plans.
package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces operations with a token-bucket limiter and counts them
// toward batch boundaries. Safe for concurrent use.
type Pacer struct {
	limiter    *rate.Limiter
	batchSize  int
	batchDelay time.Duration

	mu    sync.Mutex
	count int

	sleep func(context.Context, time.Duration) error
}

// New builds a Pacer. A zero or negative opDelay disables spacing, a zero
// or negative size disables batch pauses.
func New(opDelay time.Duration, size int, batchDelay time.Duration) *Pacer {
	limit := rate.Inf
	if opDelay > 0 {
		limit = rate.Every(opDelay)
	}
	return &Pacer{
		limiter:    rate.NewLimiter(limit, 1),
		batchSize:  size,
		batchDelay: batchDelay,
		sleep:      sleepContext,
	}
}

// Before blocks until the next operation is allowed to start. The first
// operation passes immediately; later ones wait out the spacing delay.
func (p *Pacer) Before(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// After records a completed operation and pauses when the count reaches a
// batch boundary. Returns true when a batch pause happened.
func (p *Pacer) After(ctx context.Context) (bool, error) {
	if p.batchSize <= 0 {
		return false, nil
	}

	p.mu.Lock()
	p.count++
	boundary := p.count%p.batchSize == 0
	p.mu.Unlock()

	if !boundary {
		return false, nil
	}
	if err := p.sleep(ctx, p.batchDelay); err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of operations recorded so far.
func (p *Pacer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
