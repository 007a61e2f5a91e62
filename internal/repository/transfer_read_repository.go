package repository

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/models"
	sharedredis "github.com/eaglebank/ledger-service/internal/redis"
)

const transferListViewKey = "ledger:transfers:view:all"

// TransferReadRepository serves the joined transfer history, cached in
// redis and read from PostgreSQL on a miss.
type TransferReadRepository struct {
	db    DBTX
	cache *sharedredis.ViewCache[[]models.TransferView]
}

func NewTransferReadRepository(db DBTX, cache *sharedredis.ViewCache[[]models.TransferView]) *TransferReadRepository {
	return &TransferReadRepository{db: db, cache: cache}
}

// List returns every transfer with the parties' current names, most recent
// first.
func (r *TransferReadRepository) List(ctx context.Context) ([]models.TransferView, error) {
	if cached, ok := r.cache.Get(ctx, transferListViewKey); ok {
		return *cached, nil
	}
	version := r.cache.Version(ctx, transferListViewKey)

	query := `
		SELECT t.id, t.amount, t.created_at, s.name AS sender_name, rc.name AS receiver_name
		FROM transfers t
		JOIN accounts s ON t.sender_id = s.id
		JOIN accounts rc ON t.receiver_id = rc.id
		ORDER BY t.created_at DESC, t.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError(err, "failed to list transfers")
	}
	defer rows.Close()

	views := []models.TransferView{}
	for rows.Next() {
		var view models.TransferView
		if err := rows.Scan(&view.ID, &view.Amount, &view.CreatedAt, &view.SenderName, &view.ReceiverName); err != nil {
			return nil, storageError(err, "failed to scan transfer")
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to list transfers")
	}

	r.cache.Set(ctx, transferListViewKey, version, &views)
	return views, nil
}

// Invalidate drops the cached history. Account renames change the joined
// names, so account mutations invalidate it too.
func (r *TransferReadRepository) Invalidate(ctx context.Context) {
	r.cache.Delete(ctx, transferListViewKey)
}
