package command

import (
	"context"
	"database/sql"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/utils"
)

// AccountCommandService writes account state and keeps the read model in sync.
type AccountCommandService struct {
	tx        *repository.Transactor
	writeRepo *repository.AccountWriteRepository
	views     readModel
	publisher *events.Publisher
	opts      Options
}

func NewAccountCommandService(
	tx *repository.Transactor,
	writeRepo *repository.AccountWriteRepository,
	accountViews *repository.AccountReadRepository,
	transferViews *repository.TransferReadRepository,
	publisher *events.Publisher,
	opts Options,
) *AccountCommandService {
	return &AccountCommandService{
		tx:        tx,
		writeRepo: writeRepo,
		views:     readModel{accounts: accountViews, transfers: transferViews},
		publisher: publisher,
		opts:      opts,
	}
}

func (s *AccountCommandService) AddAccount(ctx context.Context, cmd cqrs.AddAccountCommand) (*models.Account, error) {
	name := utils.SanitizeInput(cmd.Name)
	if name == "" || cmd.Balance == nil {
		return nil, apperr.Validation("Name and balance must be provided")
	}
	if cmd.Balance.IsNegative() {
		return nil, apperr.Validation("Balance must be a positive number")
	}
	if !utils.ValidateMoneyRange(*cmd.Balance) {
		return nil, apperr.Validation("Balance must be less than %s", utils.MaxMoney)
	}
	if !utils.ValidateMoneyScale(*cmd.Balance) {
		return nil, apperr.Validation("Balance supports at most %d decimal places", utils.MoneyScale)
	}
	name = utils.NormalizeName(name)
	if !utils.ValidateAccountName(name) {
		return nil, apperr.Validation("Name must be less than %d characters", utils.MaxNameLength)
	}

	opCtx, cancel := repository.OperationContext(ctx, s.opts.Timeout)
	defer cancel()

	account, err := s.writeRepo.Create(opCtx, name, *cmd.Balance)
	if err != nil {
		logStorageFailure(s.opts.logger(ctx), "add-account", err)
		return nil, err
	}

	afterCommit(ctx, s.opts.logger(ctx), s.views, s.publisher, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID: account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
	})
	return account, nil
}

// UpdateAccount resolves the account and applies the partial update in one
// transaction. The result is nil when the row vanished between the two.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	originalName := utils.NormalizeName(cmd.OriginalName)
	newName := utils.NormalizeName(cmd.NewName)

	opCtx, cancel := repository.OperationContext(ctx, s.opts.Timeout)
	defer cancel()

	var updated *models.Account
	err := s.tx.InTx(opCtx, func(tx *sql.Tx) error {
		repo := s.writeRepo.WithTx(tx)

		id, err := repo.LookupIDByName(opCtx, originalName)
		if err != nil {
			return err
		}

		if newName == "" && cmd.Balance == nil {
			return apperr.Validation("Name and/or balance must be provided")
		}
		if cmd.Balance != nil && cmd.Balance.IsNegative() {
			return apperr.Validation("Balance must be a positive number")
		}
		if cmd.Balance != nil && !utils.ValidateMoneyRange(*cmd.Balance) {
			return apperr.Validation("Balance must be less than %s", utils.MaxMoney)
		}
		if cmd.Balance != nil && !utils.ValidateMoneyScale(*cmd.Balance) {
			return apperr.Validation("Balance supports at most %d decimal places", utils.MoneyScale)
		}
		if len(newName) > utils.MaxNameLength {
			return apperr.Validation("Name must be less than %d characters", utils.MaxNameLength)
		}

		updated, err = repo.Update(opCtx, id, newName, cmd.Balance)
		return err
	})
	if err != nil {
		logStorageFailure(s.opts.logger(ctx), "update-account", err)
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	afterCommit(ctx, s.opts.logger(ctx), s.views, s.publisher, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID:    updated.ID,
		PreviousName: originalName,
		Name:         updated.Name,
		Balance:      updated.Balance,
	})
	return updated, nil
}

// DeleteAccount returns the deleted record, or nil when no account had the id.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) (*models.Account, error) {
	if cmd.ID <= 0 {
		return nil, apperr.Validation("Account id must be a positive integer")
	}

	opCtx, cancel := repository.OperationContext(ctx, s.opts.Timeout)
	defer cancel()

	deleted, err := s.writeRepo.Delete(opCtx, cmd.ID)
	if err != nil {
		logStorageFailure(s.opts.logger(ctx), "delete-account", err)
		return nil, err
	}
	if deleted == nil {
		return nil, nil
	}

	afterCommit(ctx, s.opts.logger(ctx), s.views, s.publisher, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID: deleted.ID,
		Name:      deleted.Name,
	})
	return deleted, nil
}
