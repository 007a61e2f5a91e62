// Package service exposes the ledger's public contract. The HTTP layer talks
// to Ledger only; writes go through internal/command and reads through
// internal/query.
package service

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/query"
)

type Ledger struct {
	accounts       *command.AccountCommandService
	transfers      *command.TransferCommandService
	accountQueries *query.AccountQueryService
	transferViews  *query.TransferQueryService
}

func NewLedger(
	accounts *command.AccountCommandService,
	transfers *command.TransferCommandService,
	accountQueries *query.AccountQueryService,
	transferViews *query.TransferQueryService,
) *Ledger {
	return &Ledger{
		accounts:       accounts,
		transfers:      transfers,
		accountQueries: accountQueries,
		transferViews:  transferViews,
	}
}

func (l *Ledger) AddAccount(ctx context.Context, cmd cqrs.AddAccountCommand) (*models.Account, error) {
	return l.accounts.AddAccount(ctx, cmd)
}

func (l *Ledger) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return l.accountQueries.ListAccounts(ctx, cqrs.ListAccountsQuery{})
}

// UpdateAccount returns (nil, nil) when the account disappeared before the
// update landed.
func (l *Ledger) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	return l.accounts.UpdateAccount(ctx, cmd)
}

// DeleteAccount returns (nil, nil) when no account has the id.
func (l *Ledger) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) (*models.Account, error) {
	return l.accounts.DeleteAccount(ctx, cmd)
}

func (l *Ledger) AddTransfer(ctx context.Context, cmd cqrs.AddTransferCommand) (*models.Transfer, error) {
	return l.transfers.AddTransfer(ctx, cmd)
}

func (l *Ledger) ListTransfers(ctx context.Context) ([]models.TransferView, error) {
	return l.transferViews.ListTransfers(ctx, cqrs.ListTransfersQuery{})
}
