// Package rate provides a fixed-window in-memory rate limiter used to
// throttle login attempts and article writes per client.
package rate

import (
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether the keyed action may proceed, and how long
	// until the window resets when it may not.
	Allow(key string, limit int, window time.Duration) (bool, time.Duration)
}

type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
	window  time.Duration
}

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket)}
}

func (m *MemoryLimiter) Allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.resetAt) || b.window != window {
		b = &bucket{resetAt: now.Add(window), window: window}
		m.buckets[key] = b
	}

	if b.count >= limit {
		return false, time.Until(b.resetAt)
	}

	b.count++

	// Opportunistic cleanup so abandoned keys do not accumulate.
	if len(m.buckets) > 4096 {
		for k, old := range m.buckets {
			if now.After(old.resetAt) {
				delete(m.buckets, k)
			}
		}
	}

	return true, time.Until(b.resetAt)
}
