package httputil

import (
	"context"
	"time"
)

// DefaultInterval is the fixed pause before every request to a public
// bibliographic API.
const DefaultInterval = 340 * time.Millisecond

// Throttle enforces a fixed minimum delay before each outgoing request.
//
// Wait always sleeps the full interval, regardless of how long the previous
// request took. This keeps the request rate provably below 1/interval even
// when responses are instantaneous. Throttle is not safe for concurrent use;
// the crawler issues requests sequentially.
type Throttle struct {
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
	waits    int
}

// NewThrottle creates a throttle with the given interval.
// A non-positive interval disables waiting.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, sleep: Sleep}
}

// WithSleep replaces the sleep function, for tests.
func (t *Throttle) WithSleep(sleep func(context.Context, time.Duration) error) *Throttle {
	t.sleep = sleep
	return t
}

// Interval returns the configured delay.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Waits returns the number of completed Wait calls.
func (t *Throttle) Waits() int { return t.waits }

// Wait blocks for the configured interval or until ctx is done.
// A nil Throttle does not wait.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	if t.interval > 0 {
		if err := t.sleep(ctx, t.interval); err != nil {
			return err
		}
	}
	t.waits++
	return nil
}

// Sleep pauses for d, returning early with ctx.Err() if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
