package completion

import (
	"context"
	"log"
	"time"

	"github.com/googleapis/gax-go/v2"
)

// RetryPolicy bounds the attempts made by a Retrying client.
type RetryPolicy struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Retrying re-invokes a Client while it keeps returning fallbacks.
type Retrying struct {
	next   Client
	policy RetryPolicy
	sleep  func(context.Context, time.Duration) error
}

// NewRetrying wraps next. Attempts below one are treated as one.
func NewRetrying(next Client, policy RetryPolicy) *Retrying {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Retrying{
		next:   next,
		policy: policy,
		sleep:  gax.Sleep,
	}
}

// Complete returns the first non-fallback result, or the last fallback.
func (r *Retrying) Complete(ctx context.Context, req Request) Result {
	bo := gax.Backoff{
		Initial:    r.policy.Initial,
		Max:        r.policy.Max,
		Multiplier: r.policy.Multiplier,
	}

	var res Result
	for attempt := 1; ; attempt++ {
		res = r.next.Complete(ctx, req)
		if !res.Fallback || attempt >= r.policy.Attempts {
			return res
		}

		pause := bo.Pause()
		log.Printf("completion attempt %d/%d failed, retrying in %s: %v", attempt, r.policy.Attempts, pause, res.Err)
		if err := r.sleep(ctx, pause); err != nil {
			return res
		}
	}
}
