// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo scores a post's search-readiness. The score is never stored;
// it is recomputed from the current editor state on every change.
package seo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"millcms/internal/models"
)

// Criterion identifies one line of the editor checklist.
type Criterion string

const (
	CriterionTitleLength       Criterion = "title_length"
	CriterionDescriptionLength Criterion = "description_length"
	CriterionLongContent       Criterion = "content_long"
	CriterionMediumContent     Criterion = "content_medium"
	CriterionCoverImage        Criterion = "cover_image"
	CriterionTags              Criterion = "tags"
	CriterionCategory          Criterion = "category"
	CriterionHeadings          Criterion = "headings"
)

// Thresholds for the individual criteria.
const (
	MinTitleLen       = 5
	MaxTitleLen       = 60
	MinDescriptionLen = 120
	MaxDescriptionLen = 160
	LongContentWords  = 800
	MinContentWords   = 300
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	headingPattern = regexp.MustCompile(`(?im)<h[23][\s>]|^\s*#{2,3}\s`)
)

// Check is the pass/fail result of one criterion.
type Check struct {
	Criterion Criterion `json:"criterion"`
	Label     string    `json:"label"`
	Points    int       `json:"points"`
	Passed    bool      `json:"passed"`
}

// Report is the full scoring result: a 0-100 score plus the checklist that
// produced it.
type Report struct {
	Score     int     `json:"score"`
	WordCount int     `json:"word_count"`
	Checks    []Check `json:"checks"`
}

// Passed reports whether the given criterion was satisfied.
func (r Report) Passed(c Criterion) bool {
	for _, ch := range r.Checks {
		if ch.Criterion == c {
			return ch.Passed
		}
	}
	return false
}

// Score computes the report for a post snapshot.
func Score(p models.Post) Report {
	words := WordCount(p.Content)
	titleLen := utf8.RuneCountInString(p.Title)
	descLen := utf8.RuneCountInString(p.SEODescription)

	checks := []Check{
		{
			Criterion: CriterionTitleLength,
			Label:     "Title is between 5 and 60 characters",
			Points:    20,
			Passed:    titleLen >= MinTitleLen && titleLen <= MaxTitleLen,
		},
		{
			Criterion: CriterionDescriptionLength,
			Label:     "Meta description is between 120 and 160 characters",
			Points:    20,
			Passed:    descLen >= MinDescriptionLen && descLen <= MaxDescriptionLen,
		},
		{
			Criterion: CriterionLongContent,
			Label:     "Content has at least 800 words",
			Points:    25,
			Passed:    words >= LongContentWords,
		},
		{
			Criterion: CriterionMediumContent,
			Label:     "Content has at least 300 words",
			Points:    15,
			Passed:    words >= MinContentWords && words < LongContentWords,
		},
		{
			Criterion: CriterionCoverImage,
			Label:     "Cover image is set",
			Points:    15,
			Passed:    strings.TrimSpace(p.CoverImage) != "",
		},
		{
			Criterion: CriterionTags,
			Label:     "Between 1 and 6 tags",
			Points:    10,
			Passed:    len(p.Tags) >= 1 && len(p.Tags) <= models.MaxTags,
		},
		{
			Criterion: CriterionCategory,
			Label:     "Category is selected",
			Points:    5,
			Passed:    p.Category != "",
		},
		{
			Criterion: CriterionHeadings,
			Label:     "Content uses H2/H3 headings",
			Points:    5,
			Passed:    HasHeadings(p.Content),
		},
	}

	score := 0
	for _, c := range checks {
		if c.Passed {
			score += c.Points
		}
	}
	if score > 100 {
		score = 100
	}

	return Report{Score: score, WordCount: words, Checks: checks}
}

// StripTags removes HTML tags from content.
func StripTags(content string) string {
	return tagPattern.ReplaceAllString(content, " ")
}

// WordCount counts whitespace-separated tokens of content after markup tags
// are removed.
func WordCount(content string) int {
	return len(strings.Fields(StripTags(content)))
}

// HasHeadings reports whether content contains a level-2 or level-3 heading,
// either as an HTML tag or as a Markdown "##"/"###" line.
func HasHeadings(content string) bool {
	return headingPattern.MatchString(content)
}
