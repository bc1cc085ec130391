package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

// RetryPolicy controls how a worker retries a result sink that reports a
// transient failure. MaxAttempts counts the first try, and values below 1
// mean a single attempt. BaseDelay doubles with every retry, up to
// MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy tries three times, waiting about 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Retryable reports whether a sink error is worth retrying.
func (p RetryPolicy) Retryable(err error) bool {
	var retryErr *pathstore.RetryableError
	return errors.As(err, &retryErr)
}

// Delay returns the wait before retrying after failed attempt n (0-indexed).
// A Retry-After from the sink takes precedence; otherwise the delay doubles
// from BaseDelay with up to 50% jitter. Both are capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int, err error) time.Duration {
	var retryErr *pathstore.RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return p.cap(retryErr.RetryAfter)
	}
	if p.BaseDelay <= 0 {
		return 0
	}
	base := p.cap(p.BaseDelay << min(attempt, 16))
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return p.cap(base + jitter)
}

func (p RetryPolicy) cap(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Store writes out to sink, retrying transient failures. onRetry, if not
// nil, is called before each wait.
func (p RetryPolicy) Store(ctx context.Context, sink Sink, out pathstore.StoredOutline, onRetry func(attempt int, err error)) error {
	attempts := max(p.MaxAttempts, 1)
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = sink.PutOutline(ctx, out)
		if err == nil || !p.Retryable(err) || attempt == attempts-1 {
			return err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-time.After(p.Delay(attempt, err)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
