// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package realtime keeps the admin dashboard in sync with the inquiries and
// posts collections. A Controller subscribes to a change-notification
// Channel, performs one bulk load when the subscription becomes ready and
// refetches a whole collection whenever it is reported changed.
package realtime

import (
	"context"
	"time"

	"millcms/internal/models"
)

// Collection names a watched collection.
type Collection string

const (
	CollectionInquiries Collection = "inquiries"
	CollectionPosts     Collection = "posts"
)

// Collections lists every watched collection.
var Collections = []Collection{CollectionInquiries, CollectionPosts}

// EventKind distinguishes subscription readiness from change notices.
type EventKind int

const (
	// EventReady reports that the subscription for a collection is live.
	EventReady EventKind = iota + 1
	// EventChange reports that a collection was mutated. It carries no
	// payload; receivers refetch.
	EventChange
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventChange:
		return "change"
	}
	return "unknown"
}

// Event is a single notification from a Subscription.
type Event struct {
	Kind       EventKind
	Collection Collection
}

// Subscription is an open change-notification subscription. Events is
// closed once the subscription ends.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Channel opens subscriptions on watched collections.
type Channel interface {
	Subscribe(ctx context.Context, collections ...Collection) (Subscription, error)
}

// Publisher announces that a collection changed.
type Publisher interface {
	Publish(ctx context.Context, c Collection) error
}

// InquiryLister fetches the full inquiries collection.
type InquiryLister interface {
	List(ctx context.Context) ([]models.Inquiry, error)
}

// PostLister fetches the full posts collection.
type PostLister interface {
	List(ctx context.Context) ([]models.Post, error)
}

// Counters are the dashboard aggregates. They are always derived from the
// collections in the same snapshot.
type Counters struct {
	TotalInquiries  int `json:"total_inquiries"`
	UnreadInquiries int `json:"unread_inquiries"`
	TotalPosts      int `json:"total_posts"`
}

// Snapshot is what the dashboard renders.
type Snapshot struct {
	Inquiries []models.Inquiry `json:"inquiries"`
	Posts     []models.Post    `json:"posts"`
	Counters  Counters         `json:"counters"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func countersFor(inquiries []models.Inquiry, posts []models.Post) Counters {
	c := Counters{
		TotalInquiries: len(inquiries),
		TotalPosts:     len(posts),
	}
	for i := range inquiries {
		if inquiries[i].IsUnread() {
			c.UnreadInquiries++
		}
	}
	return c
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Inquiries = append([]models.Inquiry(nil), s.Inquiries...)
	out.Posts = make([]models.Post, len(s.Posts))
	for i, p := range s.Posts {
		out.Posts[i] = p.Clone()
	}
	return out
}
