package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter decides whether a caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows at most limit requests per key in any window
// of windowSize. State lives in process memory.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time
	lastPrune  time.Time
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
	// evicted is set once prune has dropped the window from the map
	evicted bool
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	for {
		now := l.now()
		w := l.windowFor(key, now)

		w.mu.Lock()
		if w.evicted {
			// pruned between lookup and lock; the map holds a fresh window
			w.mu.Unlock()
			continue
		}

		w.trim(now.Add(-l.windowSize))
		if len(w.requests) >= l.limit {
			w.mu.Unlock()
			return false, nil
		}

		w.requests = append(w.requests, now)
		w.mu.Unlock()
		return true, nil
	}
}

// windowFor returns the window of key, pruning idle windows at most once per
// windowSize so the map only holds keys seen within the last window
func (l *SlidingWindowLimiter) windowFor(key string, now time.Time) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= l.windowSize {
		l.prune(now.Add(-l.windowSize))
		l.lastPrune = now
	}

	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	return w
}

// prune drops windows with no requests after windowStart. Callers hold l.mu.
func (l *SlidingWindowLimiter) prune(windowStart time.Time) {
	for key, w := range l.windows {
		w.mu.Lock()
		w.trim(windowStart)
		if len(w.requests) == 0 {
			w.evicted = true
			delete(l.windows, key)
		}
		w.mu.Unlock()
	}
}

// trim drops requests that fell out of the window. Callers hold w.mu.
func (w *window) trim(windowStart time.Time) {
	kept := w.requests[:0]
	for _, at := range w.requests {
		if at.After(windowStart) {
			kept = append(kept, at)
		}
	}
	w.requests = kept
}

// Reset forgets all requests recorded for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w, ok := l.windows[key]; ok {
		w.mu.Lock()
		w.evicted = true
		w.mu.Unlock()
		delete(l.windows, key)
	}
	return nil
}

// IPRateLimiter namespaces keys as client addresses
type IPRateLimiter struct {
	limiter Limiter
}

// NewIPRateLimiter wraps a limiter for IP-based limiting
func NewIPRateLimiter(limiter Limiter) *IPRateLimiter {
	return &IPRateLimiter{limiter: limiter}
}

// Allow checks if a request from an IP is allowed
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("ip:%s", ip))
}

// Reset clears the limit for an IP
func (l *IPRateLimiter) Reset(ctx context.Context, ip string) error {
	return l.limiter.Reset(ctx, fmt.Sprintf("ip:%s", ip))
}
