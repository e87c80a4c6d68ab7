package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates consecutive calls to a rate-limited external service. Wait
// blocks until the next call is allowed or the context is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

type intervalPacer struct {
	limiter *rate.Limiter
}

// NewInterval returns a Pacer enforcing a minimum interval between calls.
// A non-positive interval yields a no-op pacer, which is what tests inject.
func NewInterval(interval time.Duration) Pacer {
	if interval <= 0 {
		return Nop()
	}

	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

type nopPacer struct{}

func (nopPacer) Wait(context.Context) error { return nil }

// Nop returns a pacer that never delays.
func Nop() Pacer {
	return nopPacer{}
}
