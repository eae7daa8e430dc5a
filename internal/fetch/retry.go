// Package fetch holds the shared HTTP politeness layer: linear-backoff
// retries, the parameter-shape fallback for drifting upstream endpoints,
// and randomized pacing between independent requests.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ShapeMismatchError reports that an endpoint rejected the request because
// its expected parameter shape has drifted. It is not transient: retrying
// the same shape will fail the same way, so the caller switches to the
// fallback shape instead.
type ShapeMismatchError struct {
	Endpoint string
	Err      error
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("parameter shape rejected by %s: %v", e.Endpoint, e.Err)
}

func (e *ShapeMismatchError) Unwrap() error {
	return e.Err
}

// linearBackOff waits base*attempt plus up to half of base in jitter.
// Upstream stat endpoints throttle aggressively; the linear ramp with
// jitter spreads herd retries without the long tail of an exponential.
type linearBackOff struct {
	base       time.Duration
	maxRetries int
	attempt    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.attempt > b.maxRetries {
		return backoff.Stop
	}
	jitter := time.Duration(rand.Int63n(int64(b.base)/2 + 1))
	return b.base*time.Duration(b.attempt) + jitter
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// WithRetry runs op under the linear retry policy. Shape mismatches are
// permanent here; transient failures retry up to maxRetries times.
func WithRetry(ctx context.Context, label string, maxRetries int, baseDelay time.Duration, op func(ctx context.Context) error) error {
	policy := backoff.WithContext(&linearBackOff{base: baseDelay, maxRetries: maxRetries}, ctx)

	wrapped := func() error {
		err := op(ctx)
		var shape *ShapeMismatchError
		if errors.As(err, &shape) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Printf("[fetch] ⚠️ %s failed, retrying in %v: %v", label, wait.Round(time.Millisecond), err)
	}

	if err := backoff.RetryNotify(wrapped, policy, notify); err != nil {
		return fmt.Errorf("%s failed after retries: %w", label, err)
	}
	return nil
}

// WithShapeFallback runs op with the primary parameter shape, and on a
// shape mismatch retries exactly once with the fallback shape. Any other
// error, and any error from the fallback itself, is returned as is.
func WithShapeFallback(ctx context.Context, label string, op func(ctx context.Context, fallbackShape bool) error) error {
	err := op(ctx, false)
	var shape *ShapeMismatchError
	if !errors.As(err, &shape) {
		return err
	}

	log.Printf("[fetch] ⚠️ %s rejected primary parameter shape, retrying with fallback", label)
	return op(ctx, true)
}
