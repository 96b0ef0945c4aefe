// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"millcms/internal/models"
	"millcms/internal/session"
)

// ErrUnauthenticated is returned when a controller is mounted without a
// session.
var ErrUnauthenticated = errors.New("realtime: no authenticated session")

// State is the controller's subscription lifecycle state.
type State int

const (
	StateUnsubscribed State = iota
	StatePendingInitialLoad
	StateSteady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "unsubscribed"
	case StatePendingInitialLoad:
		return "pending_initial_load"
	case StateSteady:
		return "steady"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Deps are the collaborators a Controller needs.
type Deps struct {
	Channel   Channel
	Inquiries InquiryLister
	Posts     PostLister
	Logger    *slog.Logger
}

// Controller drives one dashboard view. The bulk load happens once per
// controller, on the first ready event; later ready events are ignored.
// Each change event refetches the whole collection it names.
type Controller struct {
	sess     *session.Data
	deps     Deps
	onUpdate func(Snapshot)
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
	snap  Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a controller acting for sess. onUpdate, when set,
// receives every new snapshot from the goroutine running the controller.
func NewController(sess *session.Data, deps Deps, onUpdate func(Snapshot)) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sess:     sess,
		deps:     deps,
		onUpdate: onUpdate,
		logger:   logger,
		now:      time.Now,
		snap:     Snapshot{Inquiries: []models.Inquiry{}, Posts: []models.Post{}},
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the latest dashboard data.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.clone()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run subscribes and processes events until ctx is cancelled or the
// subscription ends. The subscription is closed before Run returns and no
// fetch happens afterwards.
func (c *Controller) Run(ctx context.Context) error {
	if c.sess == nil {
		return ErrUnauthenticated
	}
	if c.State() != StateUnsubscribed {
		return fmt.Errorf("realtime: controller already %s", c.State())
	}

	sub, err := c.deps.Channel.Subscribe(ctx, Collections...)
	if err != nil {
		return fmt.Errorf("realtime subscribe: %w", err)
	}
	c.setState(StatePendingInitialLoad)
	c.logger.Debug("dashboard subscribed", "user", c.sess.Email)

	defer func() {
		if err := sub.Close(); err != nil {
			c.logger.Warn("dashboard unsubscribe failed", "error", err)
		}
		c.setState(StateClosed)
		c.logger.Debug("dashboard unsubscribed", "user", c.sess.Email)
	}()

	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			c.handle(ctx, ev)
		}
	}
}

// Mount starts Run in its own goroutine. Unmount stops it.
func (c *Controller) Mount(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		if err := c.Run(ctx); err != nil {
			c.logger.Warn("dashboard sync stopped", "error", err)
		}
	}()
}

// Unmount tears the subscription down and waits for Run to return.
func (c *Controller) Unmount() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Controller) handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventReady:
		if c.State() != StatePendingInitialLoad {
			return
		}
		c.setState(StateSteady)
		c.initialLoad(ctx)
	case EventChange:
		if c.State() != StateSteady {
			// The pending bulk load will include this change.
			return
		}
		c.refetch(ctx, ev.Collection)
	}
}

func (c *Controller) initialLoad(ctx context.Context) {
	var (
		inquiries []models.Inquiry
		posts     []models.Post
		inqErr    error
		postErr   error
		g         errgroup.Group
	)
	g.Go(func() error {
		inquiries, inqErr = c.deps.Inquiries.List(ctx)
		return inqErr
	})
	g.Go(func() error {
		posts, postErr = c.deps.Posts.List(ctx)
		return postErr
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("dashboard initial load failed", "error", err)
	}

	c.mu.Lock()
	if inqErr == nil {
		c.snap.Inquiries = inquiries
	}
	if postErr == nil {
		c.snap.Posts = posts
	}
	c.mu.Unlock()

	if inqErr == nil || postErr == nil {
		c.publish()
	}
}

func (c *Controller) refetch(ctx context.Context, col Collection) {
	switch col {
	case CollectionInquiries:
		items, err := c.deps.Inquiries.List(ctx)
		if err != nil {
			c.logger.Error("dashboard refetch failed", "collection", col, "error", err)
			return
		}
		c.mu.Lock()
		c.snap.Inquiries = items
		c.mu.Unlock()
	case CollectionPosts:
		items, err := c.deps.Posts.List(ctx)
		if err != nil {
			c.logger.Error("dashboard refetch failed", "collection", col, "error", err)
			return
		}
		c.mu.Lock()
		c.snap.Posts = items
		c.mu.Unlock()
	default:
		c.logger.Warn("dashboard change for unknown collection", "collection", col)
		return
	}
	c.publish()
}

// publish recomputes the counters from the current lists and hands a copy
// to onUpdate.
func (c *Controller) publish() {
	c.mu.Lock()
	if c.snap.Inquiries == nil {
		c.snap.Inquiries = []models.Inquiry{}
	}
	if c.snap.Posts == nil {
		c.snap.Posts = []models.Post{}
	}
	c.snap.Counters = countersFor(c.snap.Inquiries, c.snap.Posts)
	c.snap.UpdatedAt = c.now()
	out := c.snap.clone()
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(out)
	}
}
