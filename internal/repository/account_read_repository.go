package repository

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/models"
	sharedredis "github.com/eaglebank/ledger-service/internal/redis"
)

const accountListViewKey = "ledger:accounts:view:all"

// AccountReadRepository serves the account list. Redis holds the cached
// projection; PostgreSQL is the fallback and the source of truth.
type AccountReadRepository struct {
	db    DBTX
	cache *sharedredis.ViewCache[[]models.Account]
}

func NewAccountReadRepository(db DBTX, cache *sharedredis.ViewCache[[]models.Account]) *AccountReadRepository {
	return &AccountReadRepository{db: db, cache: cache}
}

// List returns every account ordered by id.
func (r *AccountReadRepository) List(ctx context.Context) ([]models.Account, error) {
	if cached, ok := r.cache.Get(ctx, accountListViewKey); ok {
		return *cached, nil
	}
	version := r.cache.Version(ctx, accountListViewKey)

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, balance FROM accounts ORDER BY id`)
	if err != nil {
		return nil, storageError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.Balance); err != nil {
			return nil, storageError(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to list accounts")
	}

	r.cache.Set(ctx, accountListViewKey, version, &accounts)
	return accounts, nil
}

// Invalidate drops the cached list. Called after every committed account
// or balance change.
func (r *AccountReadRepository) Invalidate(ctx context.Context) {
	r.cache.Delete(ctx, accountListViewKey)
}
