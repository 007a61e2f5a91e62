package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferView is a transfer joined with the current names of both parties.
type TransferView struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"monto"`
	CreatedAt    time.Time       `json:"fecha"`
	SenderName   string          `json:"emisor_nombre"`
	ReceiverName string          `json:"receptor_nombre"`
}
