// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	topicPrefix = "changes:"
	retryDelay  = time.Second
)

// RedisChannel is a Channel and Publisher over Valkey pub/sub. Each
// collection maps to one topic; messages carry no meaningful payload.
type RedisChannel struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisChannel creates a change channel on the given Valkey client.
func NewRedisChannel(client *redis.Client, logger *slog.Logger) *RedisChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisChannel{client: client, logger: logger}
}

// Topic returns the pub/sub topic for a collection.
func Topic(c Collection) string {
	return topicPrefix + string(c)
}

// Publish announces a change to c.
func (r *RedisChannel) Publish(ctx context.Context, c Collection) error {
	if err := r.client.Publish(ctx, Topic(c), "changed").Err(); err != nil {
		return fmt.Errorf("publish %s change: %w", c, err)
	}
	return nil
}

// Subscribe opens a subscription on the given collections. A ready event
// is emitted for every subscribe confirmation, including those sent again
// after go-redis reconnects.
func (r *RedisChannel) Subscribe(ctx context.Context, collections ...Collection) (Subscription, error) {
	byTopic := make(map[string]Collection, len(collections))
	topics := make([]string, 0, len(collections))
	for _, c := range collections {
		byTopic[Topic(c)] = c
		topics = append(topics, Topic(c))
	}

	ps := r.client.Subscribe(ctx, topics...)

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &redisSubscription{
		ps:      ps,
		byTopic: byTopic,
		events:  make(chan Event, 8),
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  r.logger,
	}
	go s.pump(subCtx)
	return s, nil
}

type redisSubscription struct {
	ps      *redis.PubSub
	byTopic map[string]Collection
	events  chan Event
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *slog.Logger
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error {
	s.cancel()
	err := s.ps.Close()
	<-s.done
	return err
}

func (s *redisSubscription) pump(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	for {
		msg, err := s.ps.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("change channel receive failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}

		var ev Event
		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind != "subscribe" {
				continue
			}
			ev = Event{Kind: EventReady, Collection: s.byTopic[m.Channel]}
		case *redis.Message:
			c, ok := s.byTopic[m.Channel]
			if !ok {
				continue
			}
			ev = Event{Kind: EventChange, Collection: c}
		default:
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
