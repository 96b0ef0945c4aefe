// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editorial implements the blog post editor's state handling: field
// edits, derived SEO fields, tags, media binding and the status lifecycle.
// Every operation is a pure step over a models.Post so the same rules run
// in the HTTP API and in tests without any UI framework.
package editorial

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"millcms/internal/models"
	"millcms/internal/slug"
)

// Mode tells the derivation rules whether the post is being created or an
// existing post is being edited.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var (
	ErrInvalidStatus    = errors.New("invalid post status")
	ErrScheduleRequired = errors.New("scheduled status requires a schedule time")
	ErrTagLimit         = fmt.Errorf("a post can have at most %d tags", models.MaxTags)
	ErrInvalidCategory  = errors.New("unknown category")
	ErrUnknownField     = errors.New("unknown field")
)

// Field names an authored field of a post.
type Field string

const (
	FieldTitle          Field = "title"
	FieldSlug           Field = "slug"
	FieldContent        Field = "content"
	FieldCategory       Field = "category"
	FieldAuthor         Field = "author"
	FieldCoverImage     Field = "cover_image"
	FieldCoverImageAlt  Field = "cover_image_alt"
	FieldSEOTitle       Field = "seo_title"
	FieldSEODescription Field = "seo_description"
)

// Edit is a single user change to one field.
type Edit struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Reduce applies one edit to p and then recomputes the derived fields.
// It is the single "post changed" step; callers never set derived fields
// through any other path.
func Reduce(p models.Post, mode Mode, brand string, e Edit) (models.Post, error) {
	prev := p
	next := p.Clone()

	switch e.Field {
	case FieldTitle:
		next.Title = e.Value
	case FieldSlug:
		// Manual slugs are normalized so the stored slug is always URL-safe.
		next.Slug = slug.Generate(e.Value)
	case FieldContent:
		next.Content = e.Value
	case FieldCategory:
		c := models.Category(e.Value)
		if c != "" && !c.Valid() {
			return p, fmt.Errorf("%w: %q", ErrInvalidCategory, e.Value)
		}
		next.Category = c
	case FieldAuthor:
		next.Author = e.Value
	case FieldCoverImage:
		next.CoverImage = e.Value
		next.CoverMedia = models.MediaFromPath(e.Value, next.CoverImageAlt)
	case FieldCoverImageAlt:
		next.CoverImageAlt = e.Value
		if next.CoverMedia != nil {
			next.CoverMedia.AltText = e.Value
		}
	case FieldSEOTitle:
		next.SEOTitle = e.Value
	case FieldSEODescription:
		next.SEODescription = e.Value
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
	}

	return Derive(prev, next, mode, brand), nil
}

// SelectMedia binds a media library file as the cover image. The library's
// alt text wins when present; otherwise an empty alt text falls back to the
// title.
func SelectMedia(p models.Post, m models.MediaFile) models.Post {
	next := p.Clone()
	next.CoverImage = m.FilePath
	switch {
	case m.AltText != "":
		next.CoverImageAlt = m.AltText
	case next.CoverImageAlt == "":
		next.CoverImageAlt = next.Title
	}
	m.AltText = next.CoverImageAlt
	next.CoverMedia = &m
	return next
}

// ClearMedia removes the cover image binding. The alt text is kept so a
// replacement image inherits it.
func ClearMedia(p models.Post) models.Post {
	next := p.Clone()
	next.CoverImage = ""
	next.CoverMedia = nil
	return next
}

// Validation limits for authored fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxContentLen = 200_000
	maxAuthorLen  = 200
)

// Validate checks that p can be persisted and returns the first problem.
func Validate(p models.Post) error {
	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		return errors.New("title is required")
	case utf8.RuneCountInString(title) > maxTitleLen:
		return fmt.Errorf("title is too long (max %d characters)", maxTitleLen)
	case p.Slug == "":
		return errors.New("slug is required")
	case !slug.Valid(p.Slug):
		return fmt.Errorf("slug %q is not URL-safe", p.Slug)
	case utf8.RuneCountInString(p.Slug) > maxSlugLen:
		return fmt.Errorf("slug is too long (max %d characters)", maxSlugLen)
	case utf8.RuneCountInString(p.Content) > maxContentLen:
		return fmt.Errorf("content is too long (max %d characters)", maxContentLen)
	case utf8.RuneCountInString(p.Author) > maxAuthorLen:
		return fmt.Errorf("author is too long (max %d characters)", maxAuthorLen)
	case p.Category != "" && !p.Category.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	case len(p.Tags) > models.MaxTags:
		return ErrTagLimit
	case !p.Status.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	case p.Status == models.PostStatusScheduled && p.ScheduledAt == nil:
		return ErrScheduleRequired
	}
	return nil
}
