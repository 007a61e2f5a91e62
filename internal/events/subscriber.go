package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one delivered event. A non-nil error leaves the message
// pending so the group redelivers it.
type Handler func(ctx context.Context, stream string, event Event) error

// Subscriber reads ledger streams through a consumer group.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	streams       []string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	logger        *slog.Logger
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Streams       []string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	Logger        *slog.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		streams:       config.Streams,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		logger:        config.Logger,
	}
}

// EnsureGroups creates the consumer group on every stream, creating the
// stream too when needed. startID "0" replays the retained history and "$"
// only sees new events. An existing group is left as is.
func (s *Subscriber) EnsureGroups(ctx context.Context, startID string) error {
	if startID == "" {
		startID = "0"
	}
	for _, stream := range s.streams {
		err := s.client.XGroupCreateMkStream(ctx, stream, s.group, startID).Err()
		if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("failed to create consumer group on %s: %w", stream, err)
		}
	}
	return nil
}

// Start blocks until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info("Subscriber started", "streams", s.streams, "group", s.group, "consumer", s.consumer)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Subscriber stopping", "group", s.group)
			return ctx.Err()
		default:
			if err := s.readMessages(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Error reading messages", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
		}
	}
}

func (s *Subscriber) readMessages(ctx context.Context) error {
	args := make([]string, 0, 2*len(s.streams))
	args = append(args, s.streams...)
	for range s.streams {
		args = append(args, ">")
	}

	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  args,
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from streams: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.processMessage(ctx, stream.Stream, message); err != nil {
				s.logger.Warn("Failed to process message", "stream", stream.Stream, "id", message.ID, "error", err)
				continue
			}
			if err := s.client.XAck(ctx, stream.Stream, s.group, message.ID).Err(); err != nil {
				s.logger.Warn("Failed to ACK message", "stream", stream.Stream, "id", message.ID, "error", err)
			}
		}
	}
	return nil
}

func (s *Subscriber) processMessage(ctx context.Context, stream string, message redis.XMessage) error {
	event, err := Decode(message)
	if err != nil {
		return err
	}
	return s.handler(ctx, stream, event)
}

// Decode reads the envelope Publisher stores under the "event" field.
func Decode(message redis.XMessage) (Event, error) {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return Event{}, fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
