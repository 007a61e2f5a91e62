package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"

	TransferCompleted = "transfer.completed"
)

// Stream names
const (
	AccountEventsStream  = "ledger.account.events"
	TransferEventsStream = "ledger.transfer.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Account events
type AccountCreatedEvent struct {
	AccountID int64           `json:"accountId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

type AccountUpdatedEvent struct {
	AccountID    int64           `json:"accountId"`
	PreviousName string          `json:"previousName"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
}

type AccountDeletedEvent struct {
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
}

// Transfer events
type TransferCompletedEvent struct {
	TransferID   int64           `json:"transferId"`
	SenderID     int64           `json:"senderId"`
	ReceiverID   int64           `json:"receiverId"`
	SenderName   string          `json:"senderName"`
	ReceiverName string          `json:"receiverName"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"createdAt"`
}
