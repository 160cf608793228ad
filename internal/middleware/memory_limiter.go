package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/guncad/market-server-go/internal/service"
)

const memoryLimiterCleanupPeriod = 5 * time.Minute

type window struct {
	count  int
	start  time.Time
	length time.Duration
}

// MemoryLimiter is a fixed-window Limiter held in process memory. It is only
// correct for a single instance and serves as the fallback when no Redis URL
// is configured.
type MemoryLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows:     make(map[string]*window),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, limit service.Limit, key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	k := limit.Name + ":" + key
	w, exists := l.windows[k]
	if !exists || now.Sub(w.start) >= limit.Window {
		l.windows[k] = &window{count: 1, start: now, length: limit.Window}
		return true, now.Add(limit.Window)
	}

	resetAt := w.start.Add(limit.Window)
	if w.count >= limit.Max {
		return false, resetAt
	}
	w.count++
	return true, resetAt
}

func (l *MemoryLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < memoryLimiterCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for k, w := range l.windows {
		if now.Sub(w.start) >= w.length {
			delete(l.windows, k)
		}
	}
}
