// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gateway is the editor's access path to posts. Reads resolve in
// two tiers, the database first and the static seed dataset second, and
// degrade to an empty new post instead of failing. Writes are whole-record
// upserts followed by a change notification.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"millcms/internal/editorial"
	"millcms/internal/models"
	"millcms/internal/realtime"
	"millcms/internal/seed"
	"millcms/internal/session"
	"millcms/internal/store"
)

// ErrInvalid wraps validation failures returned by Save.
var ErrInvalid = errors.New("invalid post")

// ErrNotFound is returned by Delete and Publish when the post does not
// exist in the database.
var ErrNotFound = errors.New("post not found")

// Source tells which tier answered a read.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceSeed    Source = "seed"
	SourceDefault Source = "default"
)

// Resolution is the outcome of a read.
type Resolution struct {
	Post   models.Post `json:"post"`
	Source Source      `json:"source"`
}

// PostStore is the primary store.
type PostStore interface {
	FindByID(ctx context.Context, id string) (*store.PostRecord, error)
	FindBySlug(ctx context.Context, slug string) (*store.PostRecord, error)
	List(ctx context.Context) ([]store.PostRecord, error)
	Upsert(ctx context.Context, r *store.PostRecord) (*store.PostRecord, error)
	Delete(ctx context.Context, id string) error
}

// PreviewInvalidator drops cached previews for slugs.
type PreviewInvalidator interface {
	Invalidate(ctx context.Context, slugs ...string)
}

// MediaResolver turns stored media paths into public URLs and checks that
// the object behind a path exists.
type MediaResolver interface {
	FileURL(key string) string
	Exists(ctx context.Context, key string) (bool, error)
}

// Deps are the gateway's collaborators. Only Posts is required. Session is
// the editor the gateway acts for; it is nil for unattended reads such as
// previews.
type Deps struct {
	Session   *session.Data
	Posts     PostStore
	Publisher realtime.Publisher
	Previews  PreviewInvalidator
	Media     MediaResolver
	Logger    *slog.Logger
}

// Gateway implements the read and write paths for posts.
type Gateway struct {
	sess      *session.Data
	deps      Deps
	posts     PostStore
	publisher realtime.Publisher
	previews  PreviewInvalidator
	media     MediaResolver
	logger    *slog.Logger
	seedByID  func(string) (models.Post, bool)
	seedBySlg func(string) (models.Post, bool)
	now       func() time.Time
}

// New creates a Gateway.
func New(deps Deps) *Gateway {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		sess:      deps.Session,
		deps:      deps,
		posts:     deps.Posts,
		publisher: deps.Publisher,
		previews:  deps.Previews,
		media:     deps.Media,
		logger:    logger,
		seedByID:  seed.Find,
		seedBySlg: seed.FindBySlug,
		now:       time.Now,
	}
}

// ForSession returns a gateway with the same collaborators acting for
// sess.
func (g *Gateway) ForSession(sess *session.Data) *Gateway {
	deps := g.deps
	deps.Session = sess
	out := New(deps)
	out.now = g.now
	return out
}

// actor names the session user in log records.
func (g *Gateway) actor() string {
	if g.sess == nil {
		return ""
	}
	return g.sess.Email
}

// Resolve loads a post for the editor. A store error and a missing row are
// handled the same way: the seed dataset is consulted next, and when it
// has no such post either an empty new post is returned. Resolve never
// fails; each tier is logged.
func (g *Gateway) Resolve(ctx context.Context, id string) Resolution {
	rec, err := g.posts.FindByID(ctx, id)
	switch {
	case err != nil:
		g.logger.Warn("post lookup failed, trying seed data", "id", id, "error", err)
	case rec == nil:
		g.logger.Info("post not in database, trying seed data", "id", id)
	default:
		g.logger.Debug("post resolved", "id", id, "source", SourcePrimary)
		return Resolution{Post: g.toPost(rec), Source: SourcePrimary}
	}

	if p, ok := g.seedByID(id); ok {
		g.logger.Info("post resolved", "id", id, "source", SourceSeed)
		g.resolveMedia(&p)
		return Resolution{Post: p, Source: SourceSeed}
	}

	g.logger.Warn("post not found, opening empty editor", "id", id, "source", SourceDefault)
	return Resolution{Post: models.NewPost(), Source: SourceDefault}
}

// ResolveSlug loads a post by slug with the same fallback as Resolve. The
// boolean is false when neither tier has the slug.
func (g *Gateway) ResolveSlug(ctx context.Context, slug string) (Resolution, bool) {
	rec, err := g.posts.FindBySlug(ctx, slug)
	switch {
	case err != nil:
		g.logger.Warn("post lookup by slug failed, trying seed data", "slug", slug, "error", err)
	case rec != nil:
		return Resolution{Post: g.toPost(rec), Source: SourcePrimary}, true
	}

	if p, ok := g.seedBySlg(slug); ok {
		g.resolveMedia(&p)
		return Resolution{Post: p, Source: SourceSeed}, true
	}
	return Resolution{Post: models.NewPost(), Source: SourceDefault}, false
}

// List returns every post in the database mapped onto models.Post.
func (g *Gateway) List(ctx context.Context) ([]models.Post, error) {
	recs, err := g.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]models.Post, len(recs))
	for i := range recs {
		out[i] = g.toPost(&recs[i])
	}
	return out, nil
}

// Save validates p and writes the whole record. The saved post is returned
// as stored. Collaborator failures after the write are logged only.
//
// A post arriving as published without a publish time goes through the
// published transition first, so the stored row always carries one. New
// posts without an author are credited to the session user.
func (g *Gateway) Save(ctx context.Context, p models.Post) (models.Post, error) {
	if p.IsPublished() && p.PublishedAt == nil {
		next, _, err := editorial.Transition(p, models.PostStatusPublished, nil, g.now())
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		p = next
	}
	if p.IsNew() && p.Author == "" && g.sess != nil {
		p.Author = g.sess.DisplayName
	}

	if err := editorial.Validate(p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var prevSlug string
	if !p.IsNew() {
		if prev, err := g.posts.FindByID(ctx, p.ID); err == nil && prev != nil {
			prevSlug = prev.Slug
		}
	}

	g.checkCover(ctx, p)

	saved, err := g.posts.Upsert(ctx, store.NewPostRecord(p))
	if err != nil {
		g.logger.Error("post save failed", "id", p.ID, "slug", p.Slug, "user", g.actor(), "error", err)
		return p, fmt.Errorf("save post: %w", err)
	}
	g.logger.Info("post saved", "id", saved.ID, "slug", saved.Slug, "status", saved.Status, "user", g.actor())

	g.changed(ctx, prevSlug, saved.Slug)
	return g.toPost(saved), nil
}

// Publish moves a stored post to published and persists it immediately.
func (g *Gateway) Publish(ctx context.Context, id string) (models.Post, error) {
	rec, err := g.posts.FindByID(ctx, id)
	if err != nil {
		return models.Post{}, fmt.Errorf("publish post: %w", err)
	}
	if rec == nil {
		return models.Post{}, ErrNotFound
	}

	next, effect, err := editorial.Transition(g.toPost(rec), models.PostStatusPublished, nil, g.now())
	if err != nil {
		return models.Post{}, err
	}
	if !effect.Persist {
		return next, nil
	}
	return g.Save(ctx, next)
}

// Delete removes a post. Failures are logged and returned; nothing else is
// touched, so callers see the true state on their next read.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	var slug string
	if rec, err := g.posts.FindByID(ctx, id); err == nil && rec != nil {
		slug = rec.Slug
	}

	if err := g.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		g.logger.Error("post delete failed", "id", id, "user", g.actor(), "error", err)
		return fmt.Errorf("delete post: %w", err)
	}
	g.logger.Info("post deleted", "id", id, "slug", slug, "user", g.actor())

	g.changed(ctx, slug)
	return nil
}

func (g *Gateway) changed(ctx context.Context, slugs ...string) {
	if g.previews != nil {
		g.previews.Invalidate(ctx, slugs...)
	}
	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, realtime.CollectionPosts); err != nil {
			g.logger.Warn("post change notification failed", "error", err)
		}
	}
}

// checkCover warns about a cover image that is missing from the bucket.
// The save goes ahead regardless.
func (g *Gateway) checkCover(ctx context.Context, p models.Post) {
	if g.media == nil || p.CoverImage == "" {
		return
	}
	ok, err := g.media.Exists(ctx, p.CoverImage)
	switch {
	case err != nil:
		g.logger.Warn("cover image check failed", "path", p.CoverImage, "error", err)
	case !ok:
		g.logger.Warn("cover image missing from storage", "path", p.CoverImage, "slug", p.Slug)
	}
}

func (g *Gateway) resolveMedia(p *models.Post) {
	if p.CoverMedia != nil && g.media != nil {
		p.CoverMedia.URL = g.media.FileURL(p.CoverMedia.FilePath)
	}
}
