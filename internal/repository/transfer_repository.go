package repository

import (
	"context"
	"database/sql"

	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

// TransferWriteRepository appends transfer records. Records are never
// updated or deleted.
type TransferWriteRepository struct {
	db DBTX
}

func NewTransferWriteRepository(db DBTX) *TransferWriteRepository {
	return &TransferWriteRepository{db: db}
}

func (r *TransferWriteRepository) WithTx(tx *sql.Tx) *TransferWriteRepository {
	return &TransferWriteRepository{db: tx}
}

// Create stamps the record with the database clock.
func (r *TransferWriteRepository) Create(ctx context.Context, senderID, receiverID int64, amount decimal.Decimal) (*models.Transfer, error) {
	query := `
		INSERT INTO transfers (sender_id, receiver_id, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, sender_id, receiver_id, amount, created_at
	`
	var transfer models.Transfer
	err := r.db.QueryRowContext(ctx, query, senderID, receiverID, amount).Scan(
		&transfer.ID, &transfer.SenderID, &transfer.ReceiverID,
		&transfer.Amount, &transfer.CreatedAt,
	)
	if err != nil {
		return nil, storageError(err, "failed to record transfer")
	}
	return &transfer, nil
}
