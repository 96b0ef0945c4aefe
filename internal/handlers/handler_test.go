// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// The real gateway runs over an in-memory post store; Valkey-backed parts
// run against miniredis.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"millcms/internal/cache"
	"millcms/internal/gateway"
	"millcms/internal/middleware"
	"millcms/internal/models"
	"millcms/internal/realtime"
	"millcms/internal/session"
	"millcms/internal/store"
)

const testSecret = "test-preview-secret"

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memPosts is an in-memory gateway.PostStore.
type memPosts struct {
	mu     sync.Mutex
	rows   map[string]store.PostRecord
	err    error
	delErr error
}

func newMemPosts() *memPosts {
	return &memPosts{rows: map[string]store.PostRecord{}}
}

func (m *memPosts) FindByID(ctx context.Context, id string) (*store.PostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.rows[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memPosts) FindBySlug(ctx context.Context, slug string) (*store.PostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.Slug == slug {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memPosts) List(ctx context.Context) ([]store.PostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []store.PostRecord{}
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

func (m *memPosts) Upsert(ctx context.Context, r *store.PostRecord) (*store.PostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	saved := *r
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.UpdatedAt = time.Now()
	m.rows[saved.ID] = saved
	return &saved, nil
}

func (m *memPosts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memPosts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memInquiries is an in-memory InquiryStore.
type memInquiries struct {
	mu     sync.Mutex
	items  []models.Inquiry
	err    error
	delErr error
}

func (m *memInquiries) List(ctx context.Context) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Inquiry(nil), m.items...), nil
}

func (m *memInquiries) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, in := range m.items {
		if in.ID == id {
			return &in, nil
		}
	}
	return nil, nil
}

func (m *memInquiries) Update(ctx context.Context, id uuid.UUID, status models.InquiryStatus, priority models.InquiryPriority) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			m.items[i].Priority = priority
			out := m.items[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memInquiries) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memInquiries) add(in models.Inquiry) {
	m.mu.Lock()
	m.items = append(m.items, in)
	m.mu.Unlock()
}

func (m *memInquiries) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func newInquiry(name string, status models.InquiryStatus) models.Inquiry {
	return models.Inquiry{
		ID:        uuid.New(),
		Name:      name,
		Email:     "buyer@example.com",
		Message:   "Please quote 20t of HMS 1&2.",
		Status:    status,
		Priority:  models.InquiryPriorityMedium,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// memMedia is an in-memory MediaLibrary.
type memMedia struct {
	items []models.MediaFile
	err   error
}

func (m *memMedia) List(ctx context.Context, limit, offset int) ([]models.MediaFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.items) {
		return []models.MediaFile{}, nil
	}
	end := min(offset+limit, len(m.items))
	return append([]models.MediaFile(nil), m.items[offset:end]...), nil
}

func (m *memMedia) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.items {
		if f.ID == id.String() {
			return &f, nil
		}
	}
	return nil, nil
}

type cdnURLs struct{}

func (cdnURLs) FileURL(key string) string { return "https://cdn.example.com/" + key }

// recordingPublisher records change notifications.
type recordingPublisher struct {
	mu        sync.Mutex
	published []realtime.Collection
}

func (p *recordingPublisher) Publish(ctx context.Context, c realtime.Collection) error {
	p.mu.Lock()
	p.published = append(p.published, c)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) list() []realtime.Collection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Collection(nil), p.published...)
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Redis     *miniredis.Miniredis
	Valkey    *redis.Client
	Posts     *memPosts
	Inquiries *memInquiries
	Media     *memMedia
	Publisher *recordingPublisher
	Channel   *realtime.RedisChannel
	Previews  *cache.PreviewCache
	Sessions  *session.Store
	Gateway   *gateway.Gateway
	Admin     *Admin
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	env := &testEnv{
		Redis:     mr,
		Valkey:    vk,
		Posts:     newMemPosts(),
		Inquiries: &memInquiries{},
		Media:     &memMedia{},
		Publisher: &recordingPublisher{},
		Channel:   realtime.NewRedisChannel(vk, quietLogger),
		Previews:  cache.NewPreviewCache(vk, time.Minute),
		Sessions:  session.NewStore(vk, false),
	}
	env.Gateway = gateway.New(gateway.Deps{
		Posts:     env.Posts,
		Publisher: env.Publisher,
		Previews:  env.Previews,
		Logger:    quietLogger,
	})
	env.Admin = NewAdmin(AdminDeps{
		Posts:         env.Gateway,
		Inquiries:     env.Inquiries,
		Media:         env.Media,
		MediaURLs:     cdnURLs{},
		Channel:       env.Channel,
		Publisher:     env.Publisher,
		Brand:         "Northline Metals",
		SiteURL:       "https://northline.example",
		PreviewSecret: testSecret,
		Logger:        quietLogger,
	})
	env.Public = NewPublic(env.Gateway, env.Previews, testSecret, "Northline Metals", quietLogger)
	return env
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(email, role string) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

var errBoom = errors.New("connection reset by peer")
