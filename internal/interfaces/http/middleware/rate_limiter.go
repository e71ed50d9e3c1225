package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiterEntry pairs a limiter with its last access time for eviction
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter holds a token-bucket limiter per client IP. Polling
// dashboards hit the latest-assessment endpoint frequently, so limits
// are per IP rather than global.
type IPRateLimiter struct {
	entries map[string]*ipLimiterEntry
	mu      sync.Mutex
	rps     rate.Limit
	burst   int

	cleanupEvery time.Duration
	maxIdle      time.Duration
}

// NewIPRateLimiter creates a new IP-based rate limiter.
// rps is the sustained requests per second allowed per IP, burst the
// short-term allowance on top of it.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	l := &IPRateLimiter{
		entries:      make(map[string]*ipLimiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		cleanupEvery: 5 * time.Minute,
		maxIdle:      10 * time.Minute,
	}

	go l.evictIdle()

	return l
}

// getLimiter returns the limiter for an IP, creating one on first sight
func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.entries[ip]
	if !exists {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

// evictIdle drops limiters for IPs that have been silent longer than
// maxIdle so the map does not grow without bound
func (l *IPRateLimiter) evictIdle() {
	ticker := time.NewTicker(l.cleanupEvery)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-l.maxIdle)
		l.mu.Lock()
		for ip, entry := range l.entries {
			if entry.lastSeen.Before(cutoff) {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit middleware rejects requests exceeding the per-IP limit
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Client IP from proxy headers, falling back to the socket address
			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
