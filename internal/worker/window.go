package worker

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Decision is the outcome of one rate-limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// WindowLimiter admits at most limit requests per key in each fixed window.
// Counters live in go-cache and expire with their window.
type WindowLimiter struct {
	counters *gocache.Cache
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewWindowLimiter creates a fixed-window limiter
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}

	return &WindowLimiter{
		counters: gocache.New(window, 2*window),
		max:      limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow counts one request for key and reports whether it fits the window
func (w *WindowLimiter) Allow(key string) Decision {
	count := w.increment(key)

	resetAt := w.now().Add(w.window)
	if _, exp, found := w.counters.GetWithExpiration(key); found && !exp.IsZero() {
		resetAt = exp
	}

	remaining := w.max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= w.max,
		Limit:     w.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (w *WindowLimiter) increment(key string) int {
	for {
		// Add only succeeds when no live counter exists, which opens a new window
		if err := w.counters.Add(key, 1, w.window); err == nil {
			return 1
		}
		if n, err := w.counters.IncrementInt(key, 1); err == nil {
			return n
		}
		// Counter expired between Add and IncrementInt
	}
}
