// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the MillCMS back office.
// Handlers are grouped by concern (admin API, auth, public preview) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"millcms/internal/editorial"
	"millcms/internal/gateway"
	"millcms/internal/middleware"
	"millcms/internal/models"
	"millcms/internal/realtime"
	"millcms/internal/seo"
	"millcms/internal/session"
)

// PostGateway is the post read/write path the admin API uses.
type PostGateway interface {
	Resolve(ctx context.Context, id string) gateway.Resolution
	List(ctx context.Context) ([]models.Post, error)
	Save(ctx context.Context, p models.Post) (models.Post, error)
	Publish(ctx context.Context, id string) (models.Post, error)
	Delete(ctx context.Context, id string) error
}

// sessionBinder is implemented by gateways that act for an explicit
// session.
type sessionBinder interface {
	ForSession(sess *session.Data) *gateway.Gateway
}

// InquiryStore reads and updates quote requests.
type InquiryStore interface {
	List(ctx context.Context) ([]models.Inquiry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	Update(ctx context.Context, id uuid.UUID, status models.InquiryStatus, priority models.InquiryPriority) (*models.Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MediaLibrary is the read-only view of uploaded media.
type MediaLibrary interface {
	List(ctx context.Context, limit, offset int) ([]models.MediaFile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
}

// MediaURLs turns a stored media path into a public URL.
type MediaURLs interface {
	FileURL(key string) string
}

// AdminDeps are the collaborators of the admin API. Media and MediaURLs
// may be nil when no media library is configured.
type AdminDeps struct {
	Posts     PostGateway
	Inquiries InquiryStore
	Media     MediaLibrary
	MediaURLs MediaURLs
	Channel   realtime.Channel
	Publisher realtime.Publisher

	Brand         string
	SiteURL       string
	PreviewSecret string

	Logger *slog.Logger
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	posts     PostGateway
	inquiries InquiryStore
	media     MediaLibrary
	mediaURLs MediaURLs
	channel   realtime.Channel
	publisher realtime.Publisher

	brand         string
	siteURL       string
	previewSecret string

	logger *slog.Logger
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(deps AdminDeps) *Admin {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{
		posts:         deps.Posts,
		inquiries:     deps.Inquiries,
		media:         deps.Media,
		mediaURLs:     deps.MediaURLs,
		channel:       deps.Channel,
		publisher:     deps.Publisher,
		brand:         deps.Brand,
		siteURL:       deps.SiteURL,
		previewSecret: deps.PreviewSecret,
		logger:        logger,
	}
}

// postResponse is what the editor receives for a single post.
type postResponse struct {
	Post       models.Post    `json:"post"`
	Source     gateway.Source `json:"source,omitempty"`
	SEO        seo.Report     `json:"seo"`
	PreviewURL string         `json:"preview_url,omitempty"`
}

func (a *Admin) postResponse(p models.Post, src gateway.Source) postResponse {
	resp := postResponse{Post: p, Source: src, SEO: seo.Score(p)}
	if p.Slug != "" && a.previewSecret != "" {
		resp.PreviewURL = editorial.PreviewURL(a.siteURL, a.previewSecret, p.Slug)
	}
	return resp
}

// postsFor returns the post gateway acting for the request's session.
func (a *Admin) postsFor(r *http.Request) PostGateway {
	sess := middleware.SessionFromCtx(r.Context())
	if b, ok := a.posts.(sessionBinder); ok && sess != nil {
		return b.ForSession(sess)
	}
	return a.posts
}

// --- Posts ---

// PostsList returns every stored post.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.postsFor(r).List(r.Context())
	if err != nil {
		a.logger.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// PostGet opens a post in the editor. It never fails: a post missing from
// the database is served from the seed data, and an unknown id yields an
// empty new post.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	res := a.postsFor(r).Resolve(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, a.postResponse(res.Post, res.Source))
}

// PostCreate stores a new post.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var p models.Post
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = ""
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	a.save(w, r, p, http.StatusCreated)
}

// PostUpdate replaces a stored post with the submitted version.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	var p models.Post
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = chi.URLParam(r, "id")
	a.save(w, r, p, http.StatusOK)
}

func (a *Admin) save(w http.ResponseWriter, r *http.Request, p models.Post, status int) {
	saved, err := a.postsFor(r).Save(r.Context(), p)
	switch {
	case errors.Is(err, gateway.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not save post")
		return
	}
	writeJSON(w, status, a.postResponse(saved, gateway.SourcePrimary))
}

// PostPublish publishes a stored post immediately.
func (a *Admin) PostPublish(w http.ResponseWriter, r *http.Request) {
	p, err := a.postsFor(r).Publish(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		writeError(w, http.StatusNotFound, "post not found")
		return
	case errors.Is(err, gateway.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		a.logger.Error("publish post failed", "id", chi.URLParam(r, "id"), "error", err)
		writeError(w, http.StatusInternalServerError, "could not publish post")
		return
	}
	writeJSON(w, http.StatusOK, a.postResponse(p, gateway.SourcePrimary))
}

// PostDelete removes a post. A failed delete changes nothing.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	err := a.postsFor(r).Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		writeError(w, http.StatusNotFound, "post not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Editor ---

// statusChange asks for a lifecycle transition.
type statusChange struct {
	To          models.PostStatus `json:"to"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
}

// editorRequest carries one round of editor interaction. Steps run in
// field order: edits, tag removals, tag additions, media, status.
type editorRequest struct {
	Mode        editorial.Mode   `json:"mode"`
	Post        models.Post      `json:"post"`
	Edits       []editorial.Edit `json:"edits"`
	RemoveTags  []string         `json:"remove_tags"`
	AddTags     []string         `json:"add_tags"`
	SelectMedia string           `json:"select_media,omitempty"`
	ClearMedia  bool             `json:"clear_media,omitempty"`
	Status      *statusChange    `json:"status,omitempty"`
}

type editorResponse struct {
	Mode       editorial.Mode `json:"mode"`
	Post       models.Post    `json:"post"`
	SEO        seo.Report     `json:"seo"`
	Persist    bool           `json:"persist"`
	PreviewURL string         `json:"preview_url,omitempty"`
}

// Editor runs the derivation rules over the submitted working copy and
// returns the result with its SEO report. Nothing is persisted; Persist
// tells the client the transition it asked for must be saved now.
func (a *Admin) Editor(w http.ResponseWriter, r *http.Request) {
	var req editorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := editorial.NewSession(req.Mode, req.Post, a.brand)
	if err := s.Apply(req.Edits...); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	for _, tag := range req.RemoveTags {
		s.RemoveTag(tag)
	}
	for _, tag := range req.AddTags {
		if err := s.AddTag(tag); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	if req.ClearMedia {
		s.ClearMedia()
	}
	if req.SelectMedia != "" {
		m, status, msg := a.lookupMedia(r.Context(), req.SelectMedia)
		if m == nil {
			writeError(w, status, msg)
			return
		}
		s.SelectMedia(*m)
	}

	var effect editorial.Effect
	if req.Status != nil {
		var err error
		effect, err = s.SetStatus(req.Status.To, req.Status.ScheduledAt)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	p := s.Post()
	resp := editorResponse{Mode: s.Mode(), Post: p, SEO: s.Report(), Persist: effect.Persist}
	if p.Slug != "" && a.previewSecret != "" {
		resp.PreviewURL = editorial.PreviewURL(a.siteURL, a.previewSecret, p.Slug)
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookupMedia loads a media file for binding. On failure it returns nil
// with the status and message to report.
func (a *Admin) lookupMedia(ctx context.Context, rawID string) (*models.MediaFile, int, string) {
	if a.media == nil {
		return nil, http.StatusServiceUnavailable, "media library is not configured"
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, http.StatusBadRequest, "invalid media id"
	}
	m, err := a.media.FindByID(ctx, id)
	if err != nil {
		a.logger.Error("media lookup failed", "id", id, "error", err)
		return nil, http.StatusInternalServerError, "could not load media"
	}
	if m == nil {
		return nil, http.StatusNotFound, "media not found"
	}
	if !m.IsImage() {
		return nil, http.StatusUnprocessableEntity, "media is not an image"
	}
	if a.mediaURLs != nil {
		m.URL = a.mediaURLs.FileURL(m.FilePath)
	}
	return m, 0, ""
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
