package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-travel-planner/internal/metrics"
)

const authLimitMessage = "Too many login attempts. Try again in 15 minutes."

// CounterStore counts hits per key inside fixed windows. Hit returns the
// count including this hit and when the current window ends.
type CounterStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// FixedWindowLimiter allows max requests per client address per window.
// The window starts at a client's first request and resets once elapsed.
type FixedWindowLimiter struct {
	store    CounterStore
	max      int
	window   time.Duration
	prefix   string
	message  string
	clientIP *ClientIPResolver
	now      func() time.Time
}

type FixedWindowOption func(*FixedWindowLimiter)

func WithLimiterClock(now func() time.Time) FixedWindowOption {
	return func(l *FixedWindowLimiter) { l.now = now }
}

// WithClientIPResolver lets trusted proxies report the client address.
// Without it the limiter keys on the socket peer.
func WithClientIPResolver(res *ClientIPResolver) FixedWindowOption {
	return func(l *FixedWindowLimiter) { l.clientIP = res }
}

func WithLimitMessage(message string) FixedWindowOption {
	return func(l *FixedWindowLimiter) { l.message = message }
}

func NewFixedWindowLimiter(store CounterStore, limit int, window time.Duration, opts ...FixedWindowOption) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		store:   store,
		max:     limit,
		window:  window,
		prefix:  "ratelimit:auth:",
		message: authLimitMessage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FixedWindowLimiter) Handler(next http.Handler) http.Handler {
	policy := fmt.Sprintf("%d;w=%d", l.max, int(l.window.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.prefix + l.clientIP.Resolve(r)

		count, resetAt, err := l.store.Hit(r.Context(), key, l.window)
		if err != nil {
			slog.Error("rate limit store unavailable, allowing request", "key", key, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		resetIn := int(math.Ceil(resetAt.Sub(l.now()).Seconds()))
		if resetIn < 0 {
			resetIn = 0
		}

		h := w.Header()
		h.Set("RateLimit-Policy", policy)
		h.Set("RateLimit-Limit", strconv.Itoa(l.max))
		h.Set("RateLimit-Remaining", strconv.Itoa(max(0, l.max-count)))
		h.Set("RateLimit-Reset", strconv.Itoa(resetIn))

		if count > l.max {
			metrics.RateLimitedTotal.WithLabelValues("auth").Inc()
			h.Set("Retry-After", strconv.Itoa(resetIn))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", l.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type counterWindow struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a process-local CounterStore.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*counterWindow
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{windows: map[string]*counterWindow{}, now: now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, size time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	win, ok := s.windows[key]
	if !ok || !now.Before(win.resetAt) {
		win = &counterWindow{resetAt: now.Add(size)}
		s.windows[key] = win
		s.gcLocked(now)
	}
	win.count++

	return win.count, win.resetAt, nil
}

func (s *MemoryStore) gcLocked(now time.Time) {
	if len(s.windows) < 1000 {
		return
	}
	for key, win := range s.windows {
		if !now.Before(win.resetAt) {
			delete(s.windows, key)
		}
	}
}
