package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named ledger entry. Name is always stored normalized.
type Account struct {
	ID      int64           `json:"id"`
	Name    string          `json:"nombre"`
	Balance decimal.Decimal `json:"balance"`
}

// Transfer is the immutable record written as the last step of a transfer.
type Transfer struct {
	ID         int64           `json:"id"`
	SenderID   int64           `json:"emisor"`
	ReceiverID int64           `json:"receptor"`
	Amount     decimal.Decimal `json:"monto"`
	CreatedAt  time.Time       `json:"fecha"`
}
