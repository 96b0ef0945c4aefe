package realtime

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"millcms/internal/models"
	"millcms/internal/session"
)

type fakeSubscription struct {
	events chan Event
	closed atomic.Bool
	once   sync.Once
}

func (s *fakeSubscription) Events() <-chan Event { return s.events }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { s.closed.Store(true) })
	return nil
}

type fakeChannel struct {
	sub   *fakeSubscription
	calls atomic.Int32
	err   error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{sub: &fakeSubscription{events: make(chan Event)}}
}

func (c *fakeChannel) Subscribe(ctx context.Context, collections ...Collection) (Subscription, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.sub, nil
}

type fakeInquiries struct {
	mu    sync.Mutex
	items []models.Inquiry
	err   error
	calls atomic.Int32
}

func (f *fakeInquiries) List(ctx context.Context) ([]models.Inquiry, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Inquiry(nil), f.items...), nil
}

func (f *fakeInquiries) set(items []models.Inquiry, err error) {
	f.mu.Lock()
	f.items, f.err = items, err
	f.mu.Unlock()
}

type fakePosts struct {
	mu    sync.Mutex
	items []models.Post
	err   error
	calls atomic.Int32
}

func (f *fakePosts) List(ctx context.Context) ([]models.Post, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Post(nil), f.items...), nil
}

func (f *fakePosts) set(items []models.Post, err error) {
	f.mu.Lock()
	f.items, f.err = items, err
	f.mu.Unlock()
}

func inquiry(status models.InquiryStatus) models.Inquiry {
	return models.Inquiry{ID: uuid.New(), Name: "Lead", Status: status}
}

type harness struct {
	ch        *fakeChannel
	inquiries *fakeInquiries
	posts     *fakePosts
	ctrl      *Controller
	updates   chan Snapshot
	logs      *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ch: newFakeChannel(),
		inquiries: &fakeInquiries{items: []models.Inquiry{
			inquiry(models.InquiryStatusNew),
			inquiry(models.InquiryStatusNew),
			inquiry(models.InquiryStatusClosed),
		}},
		posts:   &fakePosts{items: []models.Post{{ID: "a", Title: "One"}}},
		updates: make(chan Snapshot, 16),
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(h.logs, nil))
	sess := &session.Data{UserID: uuid.New(), Email: "editor@millcms.local"}
	h.ctrl = NewController(sess, Deps{
		Channel:   h.ch,
		Inquiries: h.inquiries,
		Posts:     h.posts,
		Logger:    logger,
	}, func(s Snapshot) { h.updates <- s })
	h.ctrl.Mount(context.Background())
	t.Cleanup(h.ctrl.Unmount)
	return h
}

// send delivers an event; the unbuffered channel guarantees the previous
// event has been fully handled once the next one is accepted.
func (h *harness) send(t *testing.T, ev Event) {
	t.Helper()
	select {
	case h.ch.sub.events <- ev:
	case <-time.After(2 * time.Second):
		t.Fatalf("controller did not accept %v event", ev.Kind)
	}
}

func (h *harness) nextUpdate(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-h.updates:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func (h *harness) noUpdate(t *testing.T) {
	t.Helper()
	select {
	case s := <-h.updates:
		t.Fatalf("unexpected snapshot: %+v", s.Counters)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for c.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state: got %s, want %s", c.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSingleInitialLoad(t *testing.T) {
	h := newHarness(t)
	waitState(t, h.ctrl, StatePendingInitialLoad)

	for i := 0; i < 3; i++ {
		h.send(t, Event{Kind: EventReady, Collection: CollectionInquiries})
	}

	snap := h.nextUpdate(t)
	h.noUpdate(t)

	if got := h.inquiries.calls.Load(); got != 1 {
		t.Errorf("inquiry fetches: got %d, want 1", got)
	}
	if got := h.posts.calls.Load(); got != 1 {
		t.Errorf("post fetches: got %d, want 1", got)
	}
	want := Counters{TotalInquiries: 3, UnreadInquiries: 2, TotalPosts: 1}
	if snap.Counters != want {
		t.Errorf("counters: got %+v, want %+v", snap.Counters, want)
	}
	if h.ctrl.State() != StateSteady {
		t.Errorf("state: got %s, want steady", h.ctrl.State())
	}
}

func TestChangeRefetchesOnlyThatCollection(t *testing.T) {
	h := newHarness(t)
	h.send(t, Event{Kind: EventReady})
	h.nextUpdate(t)

	h.inquiries.set([]models.Inquiry{inquiry(models.InquiryStatusClosed)}, nil)
	h.send(t, Event{Kind: EventChange, Collection: CollectionInquiries})

	snap := h.nextUpdate(t)
	want := Counters{TotalInquiries: 1, UnreadInquiries: 0, TotalPosts: 1}
	if snap.Counters != want {
		t.Errorf("counters: got %+v, want %+v", snap.Counters, want)
	}
	if got := h.inquiries.calls.Load(); got != 2 {
		t.Errorf("inquiry fetches: got %d, want 2", got)
	}
	if got := h.posts.calls.Load(); got != 1 {
		t.Errorf("post fetches: got %d, want 1", got)
	}

	h.posts.set([]models.Post{{ID: "a"}, {ID: "b"}}, nil)
	h.send(t, Event{Kind: EventChange, Collection: CollectionPosts})
	snap = h.nextUpdate(t)
	if snap.Counters.TotalPosts != 2 || len(snap.Posts) != 2 {
		t.Errorf("posts not refetched: %+v", snap.Counters)
	}
}

func TestChangeBeforeReadyIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.send(t, Event{Kind: EventChange, Collection: CollectionPosts})
	h.send(t, Event{Kind: EventChange, Collection: CollectionInquiries})
	h.noUpdate(t)

	if h.inquiries.calls.Load() != 0 || h.posts.calls.Load() != 0 {
		t.Error("no fetch may happen before the subscription is ready")
	}
	if h.ctrl.State() != StatePendingInitialLoad {
		t.Errorf("state: got %s", h.ctrl.State())
	}
}

func TestRefetchFailureKeepsPriorSnapshot(t *testing.T) {
	h := newHarness(t)
	h.send(t, Event{Kind: EventReady})
	before := h.nextUpdate(t)

	h.inquiries.set(nil, errors.New("connection reset"))
	h.send(t, Event{Kind: EventChange, Collection: CollectionInquiries})
	h.send(t, Event{Kind: EventChange, Collection: CollectionInquiries})
	h.noUpdate(t)

	after := h.ctrl.Snapshot()
	if after.Counters != before.Counters || len(after.Inquiries) != len(before.Inquiries) {
		t.Errorf("snapshot changed after failed refetch: %+v -> %+v", before.Counters, after.Counters)
	}
	if !bytes.Contains(h.logs.Bytes(), []byte("dashboard refetch failed")) {
		t.Error("refetch failure was not logged")
	}
}

func TestInitialLoadPartialFailure(t *testing.T) {
	h := newHarness(t)
	h.posts.set(nil, errors.New("timeout"))

	h.send(t, Event{Kind: EventReady})
	snap := h.nextUpdate(t)

	if snap.Counters.TotalInquiries != 3 || snap.Counters.TotalPosts != 0 {
		t.Errorf("counters: %+v", snap.Counters)
	}
	if h.ctrl.State() != StateSteady {
		t.Errorf("state: got %s, want steady", h.ctrl.State())
	}

	// The latch holds even though the first load failed for posts.
	h.send(t, Event{Kind: EventReady})
	h.noUpdate(t)
	if got := h.posts.calls.Load(); got != 1 {
		t.Errorf("post fetches: got %d, want 1", got)
	}
}

func TestUnmountTearsDown(t *testing.T) {
	h := newHarness(t)
	h.send(t, Event{Kind: EventReady})
	h.nextUpdate(t)

	h.ctrl.Unmount()

	if h.ctrl.State() != StateClosed {
		t.Errorf("state: got %s, want closed", h.ctrl.State())
	}
	if !h.ch.sub.closed.Load() {
		t.Error("subscription was not closed")
	}

	select {
	case h.ch.sub.events <- Event{Kind: EventChange, Collection: CollectionPosts}:
		t.Error("closed controller still consumed an event")
	case <-time.After(50 * time.Millisecond):
	}
	if got := h.posts.calls.Load(); got != 1 {
		t.Errorf("post fetches after teardown: got %d, want 1", got)
	}
}

func TestRunRequiresSession(t *testing.T) {
	ch := newFakeChannel()
	c := NewController(nil, Deps{Channel: ch}, nil)

	if err := c.Run(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Run: got %v, want ErrUnauthenticated", err)
	}
	if ch.calls.Load() != 0 {
		t.Error("must not subscribe without a session")
	}
	if c.State() != StateUnsubscribed {
		t.Errorf("state: got %s, want unsubscribed", c.State())
	}
}

func TestRunSubscribeError(t *testing.T) {
	ch := newFakeChannel()
	ch.err = errors.New("valkey down")
	c := NewController(&session.Data{}, Deps{Channel: ch}, nil)

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected subscribe error")
	}
	if c.State() != StateUnsubscribed {
		t.Errorf("state: got %s, want unsubscribed", c.State())
	}
}

func TestRunEndsWhenSubscriptionCloses(t *testing.T) {
	ch := newFakeChannel()
	c := NewController(&session.Data{}, Deps{Channel: ch}, nil)

	close(ch.sub.events)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.State() != StateClosed {
		t.Errorf("state: got %s, want closed", c.State())
	}
	if err := c.Run(context.Background()); err == nil {
		t.Error("a closed controller must not run again")
	}
}

func TestCountersFor(t *testing.T) {
	tests := []struct {
		name      string
		inquiries []models.Inquiry
		posts     []models.Post
		want      Counters
	}{
		{name: "empty", want: Counters{}},
		{
			name: "mixed",
			inquiries: []models.Inquiry{
				inquiry(models.InquiryStatusNew),
				inquiry(models.InquiryStatusInProgress),
				inquiry(models.InquiryStatusFollowUp),
			},
			posts: []models.Post{{}, {}},
			want:  Counters{TotalInquiries: 3, UnreadInquiries: 1, TotalPosts: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countersFor(tt.inquiries, tt.posts); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func testSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "editor@millcms.local"}
}
