// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"strings"

	"millcms/internal/models"
)

// AddTag adds a tag to the post. Blank and duplicate tags (compared
// case-insensitively) are ignored; a seventh distinct tag is rejected.
func AddTag(p models.Post, tag string) (models.Post, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" || hasTag(p.Tags, tag) {
		return p, nil
	}
	if len(p.Tags) >= models.MaxTags {
		return p, ErrTagLimit
	}
	next := p.Clone()
	next.Tags = append(next.Tags, tag)
	return next, nil
}

// RemoveTag removes a tag from the post if present.
func RemoveTag(p models.Post, tag string) models.Post {
	tag = strings.TrimSpace(tag)
	next := p.Clone()
	next.Tags = next.Tags[:0]
	for _, t := range p.Tags {
		if !strings.EqualFold(t, tag) {
			next.Tags = append(next.Tags, t)
		}
	}
	return next
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
