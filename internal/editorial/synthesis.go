// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"millcms/internal/models"
	"millcms/internal/seo"
	"millcms/internal/slug"
)

const (
	// DescriptionLength is the maximum length of a derived meta description.
	DescriptionLength = 160
	// DescriptionSourceMin is how long content must be before a description
	// is derived from it.
	DescriptionSourceMin = 100
)

var (
	markdownPunctuation = regexp.MustCompile("[#*_`~>|\\[\\]]")
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// SEOTitle derives the document title shown in search results.
func SEOTitle(title, brand string) string {
	if brand == "" {
		return title
	}
	return title + " | " + brand
}

// SEODescription derives a meta description from the first characters of
// the content with markup removed.
func SEODescription(content string) string {
	plain := seo.StripTags(content)
	plain = markdownPunctuation.ReplaceAllString(plain, "")
	plain = whitespaceRun.ReplaceAllString(strings.TrimSpace(plain), " ")
	if utf8.RuneCountInString(plain) > DescriptionLength {
		plain = string([]rune(plain)[:DescriptionLength])
	}
	return strings.TrimSpace(plain)
}

// Derive recomputes the derived fields of next after an edit of prev.
//
// Slug and cover alt text are sticky: they follow the title only while
// empty or while the post is being created. SEO title and description are
// always regenerated when their source changes, even over manual edits.
func Derive(prev, next models.Post, mode Mode, brand string) models.Post {
	if next.Title != prev.Title {
		if next.Slug == "" || mode == ModeCreate {
			next.Slug = slug.Generate(next.Title)
		}
		next.SEOTitle = SEOTitle(next.Title, brand)
		if next.CoverImageAlt == "" || mode == ModeCreate {
			next.CoverImageAlt = next.Title
		}
	}

	if next.Content != prev.Content && utf8.RuneCountInString(next.Content) > DescriptionSourceMin {
		next.SEODescription = SEODescription(next.Content)
	}

	return next
}
