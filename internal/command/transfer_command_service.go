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

// TransferCommandService moves funds between two accounts. The lookups,
// debit, credit and transfer record share one transaction: either all of
// them commit or none do.
type TransferCommandService struct {
	tx           *repository.Transactor
	accountRepo  *repository.AccountWriteRepository
	transferRepo *repository.TransferWriteRepository
	views        readModel
	publisher    *events.Publisher
	opts         Options
}

func NewTransferCommandService(
	tx *repository.Transactor,
	accountRepo *repository.AccountWriteRepository,
	transferRepo *repository.TransferWriteRepository,
	accountViews *repository.AccountReadRepository,
	transferViews *repository.TransferReadRepository,
	publisher *events.Publisher,
	opts Options,
) *TransferCommandService {
	return &TransferCommandService{
		tx:           tx,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		views:        readModel{accounts: accountViews, transfers: transferViews},
		publisher:    publisher,
		opts:         opts,
	}
}

func (s *TransferCommandService) AddTransfer(ctx context.Context, cmd cqrs.AddTransferCommand) (*models.Transfer, error) {
	if !cmd.Amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}
	if !utils.ValidateMoneyRange(cmd.Amount) {
		return nil, apperr.Validation("Amount must be less than %s", utils.MaxMoney)
	}
	if !utils.ValidateMoneyScale(cmd.Amount) {
		return nil, apperr.Validation("Amount supports at most %d decimal places", utils.MoneyScale)
	}
	senderName := utils.NormalizeName(cmd.SenderName)
	receiverName := utils.NormalizeName(cmd.ReceiverName)

	opCtx, cancel := repository.OperationContext(ctx, s.opts.Timeout)
	defer cancel()

	var transfer *models.Transfer
	err := s.tx.InTx(opCtx, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)

		senderID, err := accounts.LookupIDByName(opCtx, senderName)
		if err != nil {
			return err
		}
		receiverID, err := accounts.LookupIDByName(opCtx, receiverName)
		if err != nil {
			return err
		}
		if senderID == receiverID {
			return apperr.New(apperr.KindSameAccount, "Sender and recipient must be different")
		}

		if err := accounts.LockForTransfer(opCtx, senderID, receiverID); err != nil {
			return err
		}
		if _, err := accounts.Debit(opCtx, senderID, cmd.Amount); err != nil {
			return err
		}
		if _, err := accounts.Credit(opCtx, receiverID, cmd.Amount); err != nil {
			return err
		}

		transfer, err = s.transferRepo.WithTx(tx).Create(opCtx, senderID, receiverID, cmd.Amount)
		return err
	})
	if err != nil {
		logStorageFailure(s.opts.logger(ctx), "add-transfer", err)
		return nil, err
	}

	s.opts.logger(ctx).Info("Transfer committed",
		"transfer_id", transfer.ID,
		"sender", senderName,
		"receiver", receiverName,
		"amount", transfer.Amount.String(),
	)
	afterCommit(ctx, s.opts.logger(ctx), s.views, s.publisher, events.TransferEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		TransferID:   transfer.ID,
		SenderID:     transfer.SenderID,
		ReceiverID:   transfer.ReceiverID,
		SenderName:   senderName,
		ReceiverName: receiverName,
		Amount:       transfer.Amount,
		CreatedAt:    transfer.CreatedAt,
	})
	return transfer, nil
}
