package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// AccountWriteRepository handles every state-mutating statement on the
// accounts table, including the balance moves used by transfers.
type AccountWriteRepository struct {
	db DBTX
}

func NewAccountWriteRepository(db DBTX) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *AccountWriteRepository) WithTx(tx *sql.Tx) *AccountWriteRepository {
	return &AccountWriteRepository{db: tx}
}

// LookupIDByName is an exact match; name must already be normalized.
func (r *AccountWriteRepository) LookupIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM accounts WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("Account %s not found", name)
	}
	if err != nil {
		return 0, storageError(err, "failed to look up account")
	}
	return id, nil
}

// Create inserts the account unless the name is taken, in one statement.
func (r *AccountWriteRepository) Create(ctx context.Context, name string, balance decimal.Decimal) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, balance)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, balance
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, name, balance).Scan(&account.ID, &account.Name, &account.Balance)
	switch {
	case errors.Is(err, sql.ErrNoRows), pqCode(err) == uniqueViolation:
		return nil, apperr.Conflict("Account %s already exists", name)
	case pqCode(err) == checkViolation:
		return nil, apperr.Validation("Balance must be a positive number")
	case pqCode(err) == numericOverflow:
		return nil, apperr.Validation("Balance must be less than %s", utils.MaxMoney)
	case err != nil:
		return nil, storageError(err, "failed to create account")
	}
	return &account, nil
}

// Update applies a partial update. An empty newName or nil balance keeps the
// stored value. Returns (nil, nil) when no row has the id.
func (r *AccountWriteRepository) Update(ctx context.Context, id int64, newName string, balance *decimal.Decimal) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name = COALESCE(NULLIF($1, ''), name),
		    balance = COALESCE($2, balance)
		WHERE id = $3
		RETURNING id, name, balance
	`
	var newBalance any
	if balance != nil {
		newBalance = *balance
	}

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, newName, newBalance, id).Scan(&account.ID, &account.Name, &account.Balance)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case pqCode(err) == uniqueViolation:
		return nil, apperr.Conflict("Account %s already exists", newName)
	case pqCode(err) == checkViolation:
		return nil, apperr.Validation("Balance must be a positive number")
	case pqCode(err) == numericOverflow:
		return nil, apperr.Validation("Balance must be less than %s", utils.MaxMoney)
	case err != nil:
		return nil, storageError(err, "failed to update account")
	}
	return &account, nil
}

// Delete hard-deletes by id. Returns (nil, nil) when no row has the id.
func (r *AccountWriteRepository) Delete(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRowContext(ctx, `DELETE FROM accounts WHERE id = $1 RETURNING id, name, balance`, id).
		Scan(&account.ID, &account.Name, &account.Balance)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case pqCode(err) == foreignKeyViolation:
		return nil, apperr.Conflict("Account %d has recorded transfers and cannot be deleted", id)
	case err != nil:
		return nil, storageError(err, "failed to delete account")
	}
	return &account, nil
}

// LockForTransfer takes row locks on the given accounts in id order, so two
// transfers over the same pair always lock in the same sequence.
func (r *AccountWriteRepository) LockForTransfer(ctx context.Context, ids ...int64) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return storageError(err, "failed to lock accounts")
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return storageError(err, "failed to lock accounts")
	}
	return nil
}

// Debit subtracts amount only when the balance covers it. No affected row
// means insufficient funds or an unknown sender.
func (r *AccountWriteRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
		RETURNING id, name, balance
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(&account.ID, &account.Name, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == checkViolation {
		return nil, apperr.New(apperr.KindInsufficientFunds, "Insufficient funds or invalid sender")
	}
	if err != nil {
		return nil, storageError(err, "failed to debit sender")
	}
	return &account, nil
}

// Credit adds amount to the account. No affected row means the recipient
// does not exist; a numeric overflow means the new balance would not fit.
func (r *AccountWriteRepository) Credit(ctx context.Context, id int64, amount decimal.Decimal) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
		RETURNING id, name, balance
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(&account.ID, &account.Name, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindInvalidRecipient, "Invalid recipient")
	}
	if pqCode(err) == numericOverflow {
		return nil, apperr.New(apperr.KindBalanceLimit, "Recipient balance would exceed %s", utils.MaxMoney)
	}
	if err != nil {
		return nil, storageError(err, "failed to credit recipient")
	}
	return &account, nil
}
