package query

import (
	"context"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
)

type TransferQueryService struct {
	readRepo *repository.TransferReadRepository
	timeout  time.Duration
}

func NewTransferQueryService(readRepo *repository.TransferReadRepository, timeout time.Duration) *TransferQueryService {
	return &TransferQueryService{readRepo: readRepo, timeout: timeout}
}

// ListTransfers returns the transfer history, most recent first, with the
// parties resolved to their current names.
func (s *TransferQueryService) ListTransfers(ctx context.Context, _ cqrs.ListTransfersQuery) ([]models.TransferView, error) {
	ctx, cancel := repository.OperationContext(ctx, s.timeout)
	defer cancel()
	return s.readRepo.List(ctx)
}
