package rate

import (
	"sync"
	"time"
)

const (
	defaultMaxRequests = 30
	defaultWindow      = time.Minute
)

type window struct {
	count int
	start time.Time
}

// Limiter is a process-local fixed-window limiter. Windows reset at fixed
// boundaries, so bursts straddling a boundary can admit up to twice the
// configured maximum; good enough for abuse deterrence, not rate shaping.
// In multi-instance deployments each instance keeps its own windows.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	windows map[string]window
	now     func() time.Time
}

func NewLimiter(maxRequests int, windowSize time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if windowSize <= 0 {
		windowSize = defaultWindow
	}

	return &Limiter{
		max:     maxRequests,
		window:  windowSize,
		windows: make(map[string]window),
		now:     time.Now,
	}
}

// Allow reports whether the request identified by key is admitted. An unknown
// or expired key starts a fresh window, and the request that starts it is
// always admitted.
func (l *Limiter) Allow(key string) bool {
	if key == "" {
		key = "anonymous"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = window{count: 1, start: now}
		return true
	}

	if w.count < l.max {
		w.count++
		l.windows[key] = w
		return true
	}

	return false
}

// RetryAfter returns the whole seconds until the key's current window
// expires, or 0 when the key is not currently limited.
func (l *Limiter) RetryAfter(key string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || w.count < l.max {
		return 0
	}

	remaining := l.window - l.now().Sub(w.start)
	if remaining <= 0 {
		return 0
	}

	sec := int64(remaining / time.Second)
	if remaining%time.Second != 0 {
		sec++
	}
	return sec
}

// Cleanup drops windows idle for at least twice the window length, bounding
// memory growth from one-off keys. Safe to call concurrently with Allow.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * l.window)
	for key, w := range l.windows {
		if w.start.Before(cutoff) || w.start.Equal(cutoff) {
			delete(l.windows, key)
		}
	}
}
