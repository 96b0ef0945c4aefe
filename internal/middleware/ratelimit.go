// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "ratelimit:"

// RateLimiter is a fixed-window per-IP limiter kept in Valkey so every
// instance shares the same counters.
type RateLimiter struct {
	client *redis.Client
	name   string
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit requests per window for each client IP.
// name separates the counters of different limiters.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, name: name, limit: int64(limit), window: window}
}

// allow counts one request for key and reports whether it is within the
// limit, along with the time until the window resets.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := rateKeyPrefix + rl.name + ":" + key

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, rl.window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit %s: %w", k, err)
	}
	return incr.Val() <= rl.limit, ttl.Val(), nil
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
// When Valkey is unreachable requests are let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry, err := rl.allow(r.Context(), clientIP(r))
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
		}
		if !ok {
			if retry > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys requests on the connection's address. Forwarding headers
// are client-controlled, so they are only honoured when chi's RealIP runs
// ahead of this middleware and rewrites RemoteAddr from them.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
