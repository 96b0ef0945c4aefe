// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostStatus is the editorial lifecycle state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusReview    PostStatus = "review"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// PostStatuses lists every lifecycle state in workflow order.
var PostStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusReview,
	PostStatusScheduled,
	PostStatusPublished,
	PostStatusArchived,
}

// Valid reports whether s is one of the known lifecycle states.
func (s PostStatus) Valid() bool {
	for _, known := range PostStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Category is the fixed set of blog categories shown on the marketing site.
type Category string

const (
	CategoryIndustryNews   Category = "Industry News"
	CategoryRecycling      Category = "Recycling"
	CategoryTechnology     Category = "Technology"
	CategorySustainability Category = "Sustainability"
	CategoryCaseStudies    Category = "Case Studies"
	CategoryCompanyNews    Category = "Company News"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{
	CategoryIndustryNews,
	CategoryRecycling,
	CategoryTechnology,
	CategorySustainability,
	CategoryCaseStudies,
	CategoryCompanyNews,
}

// Valid reports whether c is one of the enumerated categories.
// The empty category is not valid but is allowed on unsaved drafts.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MaxTags is the upper bound on the number of tags a post may carry.
const MaxTags = 6

// Post is the canonical blog post model used by the editor, the scorer and
// the persistence gateway. ID is empty for posts that were never saved.
type Post struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Category       Category   `json:"category"`
	Tags           []string   `json:"tags"`
	Author         string     `json:"author"`
	CoverImage     string     `json:"cover_image,omitempty"`
	CoverImageAlt  string     `json:"cover_image_alt,omitempty"`
	CoverMedia     *MediaFile `json:"cover_media,omitempty"`
	SEOTitle       string     `json:"seo_title"`
	SEODescription string     `json:"seo_description"`
	Status         PostStatus `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// NewPost returns the empty "new post" state the editor opens with.
func NewPost() Post {
	return Post{
		Tags:   []string{},
		Status: PostStatusDraft,
	}
}

// IsNew reports whether the post has never been persisted.
func (p *Post) IsNew() bool {
	return p.ID == ""
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Clone returns a copy of p that shares no mutable state with it.
func (p Post) Clone() Post {
	out := p
	out.Tags = append([]string{}, p.Tags...)
	if p.CoverMedia != nil {
		m := *p.CoverMedia
		out.CoverMedia = &m
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		out.PublishedAt = &t
	}
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		out.ScheduledAt = &t
	}
	return out
}
