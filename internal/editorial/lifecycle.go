// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"fmt"
	"time"

	"millcms/internal/models"
)

// Effect describes what the caller must do after a status transition.
type Effect struct {
	// Persist is set when the transition must be saved immediately.
	Persist bool
}

// Transition moves p to the target status. Every transition between known
// states is allowed; two of them carry side effects:
//
//   - published stamps PublishedAt (only if it was never set) and asks for
//     an immediate save;
//   - scheduled needs a schedule time, either passed in or already on p.
//
// Re-entering the current status is a no-op on timestamps.
func Transition(p models.Post, to models.PostStatus, scheduledAt *time.Time, now time.Time) (models.Post, Effect, error) {
	if !to.Valid() {
		return p, Effect{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	next := p.Clone()
	var effect Effect

	switch to {
	case models.PostStatusScheduled:
		if scheduledAt != nil {
			t := *scheduledAt
			next.ScheduledAt = &t
		}
		if next.ScheduledAt == nil {
			return p, Effect{}, ErrScheduleRequired
		}
	case models.PostStatusPublished:
		if next.PublishedAt == nil {
			t := now
			next.PublishedAt = &t
		}
		effect.Persist = true
	}

	next.Status = to
	return next, effect, nil
}
