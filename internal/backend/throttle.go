package backend

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a minimum interval between successive emissions.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next slot opens or ctx is cancelled. It reports
// whether the slot was taken.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	t.mu.Lock()
	delay := time.Until(t.next)
	if delay < 0 {
		delay = 0
	}
	t.next = time.Now().Add(delay + t.interval)
	t.mu.Unlock()
	if delay == 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
