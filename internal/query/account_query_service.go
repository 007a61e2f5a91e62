package query

import (
	"context"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
)

type AccountQueryService struct {
	readRepo *repository.AccountReadRepository
	timeout  time.Duration
}

func NewAccountQueryService(readRepo *repository.AccountReadRepository, timeout time.Duration) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo, timeout: timeout}
}

// ListAccounts returns every account ordered by id. The slice is empty, not
// nil, when there are none.
func (s *AccountQueryService) ListAccounts(ctx context.Context, _ cqrs.ListAccountsQuery) ([]models.Account, error) {
	ctx, cancel := repository.OperationContext(ctx, s.timeout)
	defer cancel()
	return s.readRepo.List(ctx)
}
