package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_RoundTripsPublishedEnvelope(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := encode(AccountCreated, AccountCreatedEvent{AccountID: 1, Name: "ALICE", Balance: decimal.NewFromInt(100)}, at)
	require.NoError(t, err)

	event, err := Decode(redis.XMessage{ID: "1-0", Values: map[string]any{"event": string(raw)}})
	require.NoError(t, err)
	assert.Equal(t, AccountCreated, event.Type)
	assert.True(t, at.Equal(event.Timestamp))

	data, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ALICE", data["name"])
	assert.Equal(t, "100", data["balance"])
}

func TestDecode_RejectsMalformedMessages(t *testing.T) {
	_, err := Decode(redis.XMessage{Values: map[string]any{}})
	assert.Error(t, err)

	_, err = Decode(redis.XMessage{Values: map[string]any{"event": "{not json"}})
	assert.Error(t, err)
}

func TestProcessMessage_PassesStreamToHandler(t *testing.T) {
	raw, err := encode(TransferCompleted, TransferCompletedEvent{TransferID: 4}, time.Now())
	require.NoError(t, err)

	var gotStream, gotType string
	s := NewSubscriber(nil, SubscriberConfig{
		Streams: []string{TransferEventsStream},
		Handler: func(_ context.Context, stream string, event Event) error {
			gotStream, gotType = stream, event.Type
			return nil
		},
	})

	require.NoError(t, s.processMessage(context.Background(), TransferEventsStream, redis.XMessage{Values: map[string]any{"event": string(raw)}}))
	assert.Equal(t, TransferEventsStream, gotStream)
	assert.Equal(t, TransferCompleted, gotType)
}

func TestProcessMessage_HandlerErrorIsReturned(t *testing.T) {
	raw, err := encode(AccountDeleted, AccountDeletedEvent{AccountID: 2}, time.Now())
	require.NoError(t, err)

	boom := errors.New("boom")
	s := NewSubscriber(nil, SubscriberConfig{
		Handler: func(context.Context, string, Event) error { return boom },
	})

	assert.ErrorIs(t, s.processMessage(context.Background(), AccountEventsStream, redis.XMessage{Values: map[string]any{"event": string(raw)}}), boom)
}
