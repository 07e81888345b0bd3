package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultPoolSize bounds concurrent outbound sends when no explicit pool
// is configured.
const DefaultPoolSize = 32

// Pool bounds how much concurrent outbound HTTP work the process
// performs, independent of inbound query volume. It is the only
// resource shared across invocations.
type Pool struct {
	sem     chan struct{}
	limiter *rate.Limiter
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithRateLimit throttles outbound sends to n per second on top of the
// concurrency bound.
func WithRateLimit(n float64) PoolOption {
	return func(p *Pool) {
		p.limiter = rate.NewLimiter(rate.Limit(n), 1)
	}
}

// NewPool creates a pool admitting at most size concurrent sends.
func NewPool(size int, opts ...PoolOption) *Pool {
	if size < 1 {
		size = DefaultPoolSize
	}
	p := &Pool{sem: make(chan struct{}, size)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire blocks until a send slot is available or ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a send slot to the pool.
func (p *Pool) Release() {
	<-p.sem
}
