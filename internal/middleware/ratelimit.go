// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
// Returns true if the cache was cleared.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// LoginProtection rate limits credential submissions per client IP to slow
// down password guessing against the login and registration forms.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
}

// NewLoginProtection creates a login protection instance. rps is allowed
// requests per second per IP, burst the short-term allowance.
func NewLoginProtection(rps float64, burst int) *LoginProtection {
	if rps <= 0 {
		rps = 0.5
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginProtection{
		ipLimiters: newLimiterCache[string](rps, burst),
	}
}

// Middleware returns HTTP middleware that rate limits POST requests by IP.
// Safe methods pass through so the forms themselves always render.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !lp.ipLimiters.get(ip).Allow() {
				slog.Warn("login rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too many attempts. Please wait and try again.", http.StatusTooManyRequests)
				return
			}

			// Keep the cache bounded under address churn
			if lp.ipLimiters.clearIfExceeds(10000) {
				slog.Info("cleared login rate limiters due to size")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For can carry a proxy chain; the first entry is the client
		if first, _, found := strings.Cut(ip, ","); found {
			return strings.TrimSpace(first)
		}
		return ip
	}
	return r.RemoteAddr
}
