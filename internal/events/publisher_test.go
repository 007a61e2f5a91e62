package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_NoClientIsNoop(t *testing.T) {
	assert.NoError(t, NewPublisher(nil).Publish(context.Background(), AccountEventsStream, AccountCreated, AccountCreatedEvent{}))

	var p *Publisher
	assert.NoError(t, p.Publish(context.Background(), AccountEventsStream, AccountCreated, AccountCreatedEvent{}))
}

func TestEncode_TransferCompleted(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := encode(TransferCompleted, TransferCompletedEvent{
		TransferID:   9,
		SenderID:     1,
		ReceiverID:   2,
		SenderName:   "ALICE",
		ReceiverName: "BOB",
		Amount:       decimal.NewFromInt(30),
		CreatedAt:    at,
	}, at)
	require.NoError(t, err)

	var decoded struct {
		Type      string    `json:"type"`
		Timestamp time.Time `json:"timestamp"`
		Data      struct {
			TransferID int64           `json:"transferId"`
			Amount     decimal.Decimal `json:"amount"`
			SenderName string          `json:"senderName"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, TransferCompleted, decoded.Type)
	assert.True(t, at.Equal(decoded.Timestamp))
	assert.Equal(t, int64(9), decoded.Data.TransferID)
	assert.True(t, decimal.NewFromInt(30).Equal(decoded.Data.Amount))
	assert.Equal(t, "ALICE", decoded.Data.SenderName)
}
