package cqrs

import "github.com/shopspring/decimal"

// AddAccountCommand creates an account. Balance is nil when the caller
// omitted it.
type AddAccountCommand struct {
	Name    string
	Balance *decimal.Decimal
}

// UpdateAccountCommand renames an account and/or sets its balance. An empty
// NewName keeps the current name; a nil Balance keeps the current balance.
type UpdateAccountCommand struct {
	OriginalName string
	NewName      string
	Balance      *decimal.Decimal
}

type DeleteAccountCommand struct {
	ID int64
}

type AddTransferCommand struct {
	SenderName   string
	ReceiverName string
	Amount       decimal.Decimal
}
