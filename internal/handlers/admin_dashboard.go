// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"millcms/internal/middleware"
	"millcms/internal/realtime"
)

// streamKeepAlive is how often an idle dashboard stream sends a comment
// line so proxies keep the connection open.
var streamKeepAlive = 25 * time.Second

// DashboardStream serves the dashboard as Server-Sent Events. Each
// connection runs its own sync controller bound to the caller's session;
// a "snapshot" event is sent after the initial load and after every
// refetch. The controller stops when the client disconnects.
func (a *Admin) DashboardStream(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rc := http.NewResponseController(w)
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		a.logger.Error("dashboard stream cannot flush", "error", err)
		return
	}

	// Latest snapshot wins; a slow client skips intermediate ones.
	updates := make(chan realtime.Snapshot, 1)
	ctrl := realtime.NewController(sess, realtime.Deps{
		Channel:   a.channel,
		Inquiries: a.inquiries,
		Posts:     a.postsFor(r),
		Logger:    a.logger,
	}, func(s realtime.Snapshot) {
		select {
		case <-updates:
		default:
		}
		updates <- s
	})

	ctx := r.Context()
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			return
		case err := <-done:
			if err != nil {
				a.logger.Warn("dashboard stream ended", "user", sess.Email, "error", err)
				writeEvent(w, "error", map[string]string{"error": "live updates unavailable"})
				rc.Flush()
			}
			return
		case snap := <-updates:
			if err := writeEvent(w, "snapshot", snap); err != nil {
				a.logger.Debug("dashboard stream write failed", "error", err)
				continue
			}
			rc.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			rc.Flush()
		}
	}
}

// writeEvent writes one SSE event with a JSON payload.
func writeEvent(w http.ResponseWriter, event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
	return err
}
