// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"millcms/internal/models"
	"millcms/internal/realtime"
)

// readSnapshot reads SSE lines until the next snapshot event.
func readSnapshot(t *testing.T, sc *bufio.Scanner) realtime.Snapshot {
	t.Helper()
	event := ""
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && event == "snapshot":
			var s realtime.Snapshot
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &s); err != nil {
				t.Fatalf("decode snapshot: %v", err)
			}
			return s
		case strings.HasPrefix(line, "data: "):
			t.Fatalf("unexpected %q event: %s", event, line)
		}
	}
	t.Fatalf("stream ended before a snapshot: %v", sc.Err())
	return realtime.Snapshot{}
}

func TestDashboardStream(t *testing.T) {
	env := newTestEnv(t)
	env.Inquiries.add(newInquiry("Harbor Fabrication", models.InquiryStatusNew))
	env.Inquiries.add(newInquiry("Ridge Auto Salvage", models.InquiryStatusClosed))
	storedPost(env, "Weighbridge Basics", "weighbridge-basics", models.PostStatusDraft)

	sess := testSession("dana@northline.example", "editor")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.Admin.DashboardStream(w, r.WithContext(ctxWithSession(r.Context(), sess)))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type: got %q", ct)
	}
	sc := bufio.NewScanner(resp.Body)

	first := readSnapshot(t, sc)
	if first.Counters.TotalInquiries != 2 || first.Counters.UnreadInquiries != 1 || first.Counters.TotalPosts != 1 {
		t.Errorf("initial counters: got %+v", first.Counters)
	}

	env.Inquiries.add(newInquiry("Bayside Demolition", models.InquiryStatusNew))
	if err := env.Channel.Publish(ctx, realtime.CollectionInquiries); err != nil {
		t.Fatalf("publish: %v", err)
	}

	second := readSnapshot(t, sc)
	if second.Counters.TotalInquiries != 3 || second.Counters.UnreadInquiries != 2 {
		t.Errorf("counters after change: got %+v", second.Counters)
	}
	if second.Counters.TotalPosts != 1 {
		t.Errorf("posts should be untouched by an inquiries change: got %d", second.Counters.TotalPosts)
	}
}

func TestDashboardStreamDisconnectUnsubscribes(t *testing.T) {
	env := newTestEnv(t)
	sess := testSession("dana@northline.example", "editor")

	finished := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		env.Admin.DashboardStream(w, r.WithContext(ctxWithSession(r.Context(), sess)))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	readSnapshot(t, bufio.NewScanner(resp.Body))

	cancel()
	resp.Body.Close()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return after the client disconnected")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(env.Redis.PubSubChannels("changes:*")) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("subscription still open: %v", env.Redis.PubSubChannels("changes:*"))
}

func TestDashboardStreamRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Admin.DashboardStream(rr, httptest.NewRequest(http.MethodGet, "/admin/api/dashboard/stream", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
