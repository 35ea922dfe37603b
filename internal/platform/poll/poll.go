// Package poll runs periodic background refresh work with jittered
// scheduling. The dashboard's freshness guarantees come from this loop
// rather than from any hidden library behavior, so the interval and jitter
// are explicit configuration.
package poll

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Func is a single refresh pass. Errors are logged and the loop continues.
type Func func(ctx context.Context) error

// Poller invokes a refresh function on a fixed interval plus a random jitter
// fraction, so replicas started together do not hit the database in lockstep.
type Poller struct {
	name     string
	interval time.Duration
	jitter   float64 // fraction of interval in [0,1)
	logger   zerolog.Logger
	fn       Func
}

// New creates a Poller. Jitter outside [0,1) is clamped to 0.
func New(name string, interval time.Duration, jitter float64, logger zerolog.Logger, fn Func) *Poller {
	if jitter < 0 || jitter >= 1 {
		jitter = 0
	}
	return &Poller{
		name:     name,
		interval: interval,
		jitter:   jitter,
		logger:   logger,
		fn:       fn,
	}
}

// Run executes one refresh pass immediately, then keeps polling until the
// context is cancelled. It blocks; callers run it in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.runOnce(ctx)

	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.runOnce(ctx)
			timer.Reset(p.nextDelay())
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.fn(ctx); err != nil {
		p.logger.Warn().Err(err).Str("poller", p.name).Msg("refresh pass failed")
	}
}

// nextDelay returns the interval plus a random jitter in [0, jitter*interval).
func (p *Poller) nextDelay() time.Duration {
	if p.jitter == 0 {
		return p.interval
	}
	return p.interval + time.Duration(rand.Float64()*p.jitter*float64(p.interval))
}
