package fetch

import (
	"context"
	"math/rand"
	"time"
)

// Pacer inserts a randomized delay between independent upstream requests.
// Distinct from retry backoff: the pacer runs between successes to keep
// request cadence irregular, not after failures.
type Pacer struct {
	min time.Duration
	max time.Duration
}

// NewPacer creates a pacer that waits between min and max per call.
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{min: min, max: max}
}

// Wait blocks for a random duration in [min, max], or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.min
	if span := p.max - p.min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
