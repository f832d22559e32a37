package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter is the counting backend behind RateLimit. The in-memory
// RateLimiter and the redis-backed limiter both satisfy it.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter counts hits per key over fixed windows. It is the in-process
// fallback used when no redis address is configured; windows reset lazily
// on the first hit after expiry.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*hitWindow
}

type hitWindow struct {
	hits    int
	resetAt time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]*hitWindow)}
}

func (l *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	current, ok := l.windows[key]
	if !ok || now.After(current.resetAt) {
		l.windows[key] = &hitWindow{hits: 1, resetAt: now.Add(window)}
		return true
	}
	if current.hits >= limit {
		return false
	}
	current.hits++
	return true
}

// RateLimit throttles requests sharing a key, answering 429 once the key
// exhausts its window. A nil limiter or an empty key lets the request
// through untouched.
func RateLimit(limiter Limiter, keyFn func(*http.Request) string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if limiter == nil || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key, limit, window) {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP keys public endpoints by caller address. Behind a proxy the
// first X-Forwarded-For entry is the original client.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
