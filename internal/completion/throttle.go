package completion

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttled spaces out calls to the wrapped Client with a token bucket.
type Throttled struct {
	next    Client
	limiter *rate.Limiter
}

// NewThrottled wraps next with limiter.
func NewThrottled(next Client, limiter *rate.Limiter) *Throttled {
	return &Throttled{next: next, limiter: limiter}
}

// Complete waits for a token, then delegates.
func (t *Throttled) Complete(ctx context.Context, req Request) Result {
	if err := t.limiter.Wait(ctx); err != nil {
		return Fallback(fmt.Errorf("limiter.Wait failed: %w", err))
	}

	return t.next.Complete(ctx, req)
}
