// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed holds the static demonstration posts. The persistence
// gateway falls back to them when the database cannot answer, and the
// development seeder inserts them so both sources share one identifier
// space.
package seed

import (
	"time"

	"millcms/internal/models"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

var posts = []models.Post{
	{
		ID:       "3f6c1a9e-5b2d-4c8e-9a71-0d4e2b6f8c11",
		Title:    "Steel Mill Scrap Processing",
		Slug:     "steel-mill-scrap-processing",
		Category: models.CategoryRecycling,
		Tags:     []string{"steel", "scrap", "processing"},
		Author:   "Dana Whitfield",
		Content: `## From the yard to the furnace

Every tonne of steel scrap that reaches our yard is sorted, sheared and
baled before it goes back to the mill. Clean, dense bales melt faster and
cut the energy an electric arc furnace needs per heat.

## What we accept

Structural beams, plate, rebar offcuts and demolition steel are all welcome.
Painted or lightly rusted material is fine; sealed containers are not.`,
		CoverImage:     "blog/steel-mill-scrap.jpg",
		CoverImageAlt:  "Sheared steel scrap stacked beside a baler",
		SEOTitle:       "Steel Mill Scrap Processing | Northline Metals",
		SEODescription: "From the yard to the furnace Every tonne of steel scrap that reaches our yard is sorted, sheared and baled before it goes back to the mill.",
		Status:         models.PostStatusPublished,
		PublishedAt:    at("2025-11-04T09:00:00Z"),
	},
	{
		ID:       "8a2d4e6f-1c3b-4f5a-b7d9-2e4c6a8b0d22",
		Title:    "How Copper Prices Shape Scrap Buying",
		Slug:     "how-copper-prices-shape-scrap-buying",
		Category: models.CategoryIndustryNews,
		Tags:     []string{"copper", "markets"},
		Author:   "Ravi Menon",
		Content: `<h2>Why the quote changes every morning</h2>
<p>Our copper buy prices track the exchange settlement from the previous
trading day. When the market moves, so do we.</p>`,
		SEOTitle: "How Copper Prices Shape Scrap Buying | Northline Metals",
		Status:   models.PostStatusReview,
	},
	{
		ID:          "c4e6a8b0-2d4f-4a6c-8e0b-3f5a7c9e1b33",
		Title:       "Our New Eddy Current Separator",
		Slug:        "our-new-eddy-current-separator",
		Category:    models.CategoryTechnology,
		Tags:        []string{"equipment"},
		Author:      "Dana Whitfield",
		Content:     "We commissioned a second eddy current line this spring.",
		SEOTitle:    "Our New Eddy Current Separator | Northline Metals",
		Status:      models.PostStatusScheduled,
		ScheduledAt: at("2026-12-01T08:00:00Z"),
	},
	{
		ID:       "e1b3d5f7-4a6c-4e8a-9c1e-5b7d9f1a3c44",
		Title:    "Closing the Loop on Aluminium Cans",
		Slug:     "closing-the-loop-on-aluminium-cans",
		Category: models.CategorySustainability,
		Tags:     []string{},
		Author:   "Ravi Menon",
		Status:   models.PostStatusDraft,
	},
}

// Posts returns copies of every seed post.
func Posts() []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}

// Find looks up a seed post by ID. The returned post is a copy and carries
// a synthetic cover media descriptor when it has a cover image.
func Find(id string) (models.Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			out := p.Clone()
			out.CoverMedia = models.MediaFromPath(out.CoverImage, out.CoverImageAlt)
			return out, true
		}
	}
	return models.Post{}, false
}

// FindBySlug looks up a seed post by slug.
func FindBySlug(slug string) (models.Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return Find(p.ID)
		}
	}
	return models.Post{}, false
}
