package fetch

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most rateLimit requests per cooldown window and at most
// maxConcurrent requests in flight. Admission is checked on a ticker running
// at cooldown/rateLimit.
type Limiter struct {
	rateLimit int
	cooldown  time.Duration
	ticker    *time.Ticker

	attemptsLock sync.Mutex
	attempts     []time.Time

	concurrent chan struct{}
}

func NewLimiter(rateLimit int, cooldown time.Duration, maxConcurrent int) *Limiter {
	interval := max(cooldown/time.Duration(rateLimit), time.Nanosecond)
	l := &Limiter{
		rateLimit:  rateLimit,
		cooldown:   cooldown,
		ticker:     time.NewTicker(interval),
		concurrent: make(chan struct{}, maxConcurrent),
	}
	for i := 0; i < maxConcurrent; i++ {
		l.concurrent <- struct{}{}
	}
	return l
}

// Token blocks until a concurrency slot is free. The returned func gives it
// back.
func (l *Limiter) Token(ctx context.Context) (func(), error) {
	select {
	case <-l.concurrent:
		return func() { l.concurrent <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Throttle blocks until the sliding window has room for one more request and
// records it.
func (l *Limiter) Throttle(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ticker.C:
		}
		if l.admit(time.Now()) {
			return nil
		}
	}
}

func (l *Limiter) admit(now time.Time) bool {
	l.attemptsLock.Lock()
	defer l.attemptsLock.Unlock()
	att := l.attempts
	if len(att) < l.rateLimit || now.Sub(att[0]) > l.cooldown {
		att = append(att, now)
		if len(att) > l.rateLimit {
			att = att[1:]
		}
		l.attempts = att
		return true
	}
	return false
}

func (l *Limiter) Stop() {
	l.ticker.Stop()
}
