// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"time"

	"millcms/internal/models"
	"millcms/internal/seo"
)

// Session holds one editor's working copy of a post. It is not safe for
// concurrent use; an editor is driven by a single request or event loop.
type Session struct {
	mode  Mode
	brand string
	post  models.Post
	now   func() time.Time
}

// NewSession opens an editor on post. A post without an ID is always
// edited in create mode.
func NewSession(mode Mode, post models.Post, brand string) *Session {
	if post.IsNew() {
		mode = ModeCreate
	}
	if mode == "" {
		mode = ModeEdit
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &Session{mode: mode, brand: brand, post: post.Clone(), now: time.Now}
}

// Mode returns the session's editing mode.
func (s *Session) Mode() Mode { return s.mode }

// Post returns a copy of the current working state.
func (s *Session) Post() models.Post { return s.post.Clone() }

// Apply runs the edits in order. On error the state from before the
// failing edit is kept.
func (s *Session) Apply(edits ...Edit) error {
	for _, e := range edits {
		next, err := Reduce(s.post, s.mode, s.brand, e)
		if err != nil {
			return err
		}
		s.post = next
	}
	return nil
}

// AddTag adds a tag to the working copy.
func (s *Session) AddTag(tag string) error {
	next, err := AddTag(s.post, tag)
	if err != nil {
		return err
	}
	s.post = next
	return nil
}

// RemoveTag removes a tag from the working copy.
func (s *Session) RemoveTag(tag string) {
	s.post = RemoveTag(s.post, tag)
}

// SelectMedia binds a media library file as the cover image.
func (s *Session) SelectMedia(m models.MediaFile) {
	s.post = SelectMedia(s.post, m)
}

// ClearMedia removes the cover image binding.
func (s *Session) ClearMedia() {
	s.post = ClearMedia(s.post)
}

// SetStatus applies a lifecycle transition and reports its side effects.
func (s *Session) SetStatus(to models.PostStatus, scheduledAt *time.Time) (Effect, error) {
	next, effect, err := Transition(s.post, to, scheduledAt, s.now())
	if err != nil {
		return Effect{}, err
	}
	s.post = next
	return effect, nil
}

// Report scores the current working copy.
func (s *Session) Report() seo.Report {
	return seo.Score(s.post)
}
