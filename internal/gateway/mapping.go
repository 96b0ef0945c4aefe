// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"millcms/internal/models"
	"millcms/internal/store"
)

// toPost maps the table's column names onto the canonical post and
// rebuilds the cover media descriptor from the stored path.
func (g *Gateway) toPost(r *store.PostRecord) models.Post {
	updated := r.UpdatedAt
	p := models.Post{
		ID:             r.ID,
		Title:          r.Title,
		Slug:           r.Slug,
		Content:        r.Content,
		Category:       models.Category(r.Category),
		Tags:           append([]string{}, r.Tags...),
		Author:         r.AuthorName,
		CoverImage:     r.FeaturedImage,
		CoverImageAlt:  r.FeaturedImageAlt,
		CoverMedia:     models.MediaFromPath(r.FeaturedImage, r.FeaturedImageAlt),
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		Status:         models.PostStatus(r.Status),
		PublishedAt:    r.PublishedAt,
		ScheduledAt:    r.ScheduledAt,
		UpdatedAt:      &updated,
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	g.resolveMedia(&p)
	return p
}
