// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of rendered post previews.
// The preview endpoint stores the goldmark output per slug so repeated
// opens skip the database lookup and the markdown render. Saves and
// deletes invalidate by slug.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// previewKeyPrefix is the Valkey key prefix for cached previews.
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL is how long a rendered preview stays cached.
	DefaultPreviewTTL = 5 * time.Minute
)

// PreviewCache manages rendered preview HTML in Valkey. Cache failures are
// logged and treated as misses; they never fail a request.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache creates a new preview cache backed by the given Valkey client.
func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	if ttl == 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a slug. Returns false on miss.
func (pc *PreviewCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, previewKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("preview cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("preview cache hit", "slug", slug)
	return val, true
}

// Set stores rendered HTML for a slug with the configured TTL.
func (pc *PreviewCache) Set(ctx context.Context, slug string, html []byte) {
	if err := pc.client.Set(ctx, previewKeyPrefix+slug, html, pc.ttl).Err(); err != nil {
		slog.Warn("preview cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes the cached previews for the given slugs. Empty slugs
// are skipped.
func (pc *PreviewCache) Invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, previewKeyPrefix+s)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("preview cache invalidate error", "slugs", slugs, "error", err)
		return
	}
	slog.Debug("preview cache invalidated", "slugs", slugs)
}

// InvalidateAll removes all cached previews by scanning for the prefix.
func (pc *PreviewCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, previewKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("preview cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("preview cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("preview cache fully cleared", "deleted", deleted)
	}
}
