// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"millcms/internal/editorial"
	"millcms/internal/gateway"
	"millcms/internal/markdown"
	"millcms/internal/models"
)

// SlugResolver loads a post by slug.
type SlugResolver interface {
	ResolveSlug(ctx context.Context, slug string) (gateway.Resolution, bool)
}

// PreviewCache stores rendered previews per slug.
type PreviewCache interface {
	Get(ctx context.Context, slug string) ([]byte, bool)
	Set(ctx context.Context, slug string, html []byte)
}

// Public groups the handlers reachable without a dashboard session. It
// checks the Valkey preview cache before rendering, and stores rendered
// results on miss.
type Public struct {
	posts  SlugResolver
	cache  PreviewCache
	secret string
	brand  string
	logger *slog.Logger
}

// NewPublic creates a new Public handler group. cache may be nil.
func NewPublic(posts SlugResolver, cache PreviewCache, previewSecret, brand string, logger *slog.Logger) *Public {
	if logger == nil {
		logger = slog.Default()
	}
	return &Public{
		posts:  posts,
		cache:  cache,
		secret: previewSecret,
		brand:  brand,
		logger: logger,
	}
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{with .Description}}<meta name="description" content="{{.}}">{{end}}
<meta name="robots" content="noindex, nofollow">
</head>
<body>
<p class="preview-banner">Preview: {{.Status}}</p>
<article>
<h1>{{.Post.Title}}</h1>
{{with .Post.Category}}<p class="category">{{.}}</p>{{end}}
{{with .Post.Author}}<p class="author">By {{.}}</p>{{end}}
{{with .CoverURL}}<img src="{{.}}" alt="{{$.Post.CoverImageAlt}}">{{end}}
{{.Body}}
{{if .Post.Tags}}<ul class="tags">{{range .Post.Tags}}<li>{{.}}</li>{{end}}</ul>{{end}}
</article>
</body>
</html>
`))

type previewPage struct {
	Post        models.Post
	Title       string
	Description string
	Status      models.PostStatus
	CoverURL    string
	Body        template.HTML
}

// Preview renders any post, whatever its status, for a holder of a valid
// preview token.
func (p *Public) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if !editorial.VerifyPreviewToken(p.secret, slug, r.URL.Query().Get("token")) {
		http.Error(w, "Invalid preview link", http.StatusForbidden)
		return
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, slug); ok {
			writeHTML(w, cached)
			return
		}
	}

	res, ok := p.posts.ResolveSlug(ctx, slug)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	post := res.Post

	body, err := markdown.ToHTML(post.Content)
	if err != nil {
		p.logger.Error("preview render failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page := previewPage{
		Post:        post,
		Title:       post.SEOTitle,
		Description: post.SEODescription,
		Status:      post.Status,
		Body:        template.HTML(body),
	}
	if page.Title == "" {
		page.Title = editorial.SEOTitle(post.Title, p.brand)
	}
	if post.CoverMedia != nil {
		page.CoverURL = post.CoverMedia.URL
		if page.CoverURL == "" {
			page.CoverURL = post.CoverMedia.FilePath
		}
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, page); err != nil {
		p.logger.Error("preview template failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.cache != nil {
		p.cache.Set(ctx, slug, buf.Bytes())
	}
	p.logger.Debug("preview rendered", "slug", slug, "source", res.Source)
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b)
}
