package fetch

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a per-provider minimum spacing between outbound
// requests. Concurrent workers hitting the same provider reserve their
// slot under the mutex, so they come out spaced rather than bursting.
type Pacer struct {
	mu          sync.Mutex
	minInterval time.Duration
	next        time.Time
}

func NewPacer(minInterval time.Duration) *Pacer {
	return &Pacer{minInterval: minInterval}
}

// Wait blocks until this caller's reserved slot arrives, honoring
// context cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.minInterval)
	p.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Penalize pushes the next slot out by at least d from now. Used after
// an observed rate-limit status to widen the backoff sharply.
func (p *Pacer) Penalize(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	earliest := time.Now().Add(d)
	if p.next.Before(earliest) {
		p.next = earliest
	}
}
