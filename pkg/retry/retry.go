package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Do retries fn with exponential backoff until it succeeds, the attempt
// budget runs out, or ctx is cancelled. Store clients never retry on
// their own; this is the policy callers apply at integration
// boundaries.
func Do(ctx context.Context, attempts uint64, initial time.Duration, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	if initial > 0 {
		b.InitialInterval = initial
	}
	pol := backoff.WithContext(backoff.WithMaxRetries(b, attempts), ctx)
	return backoff.Retry(fn, pol)
}

// Permanent marks an error as non-retryable for Do.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
