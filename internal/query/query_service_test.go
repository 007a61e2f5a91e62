package query

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, balance FROM accounts ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "balance"}).
			AddRow(1, "ALICE", "70.00").
			AddRow(2, "BOB", "80.00"))

	svc := NewAccountQueryService(repository.NewAccountReadRepository(db, nil), time.Second)
	accounts, err := svc.ListAccounts(context.Background(), cqrs.ListAccountsQuery{})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "ALICE", accounts[0].Name)
	assert.Equal(t, "80", accounts[1].Balance.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransfers_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM transfers t`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "created_at", "sender_name", "receiver_name"}))

	svc := NewTransferQueryService(repository.NewTransferReadRepository(db, nil), time.Second)
	transfers, err := svc.ListTransfers(context.Background(), cqrs.ListTransfersQuery{})
	require.NoError(t, err)
	assert.NotNil(t, transfers)
	assert.Empty(t, transfers)
}

func TestListTransfers_StorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM transfers t`)).WillReturnError(errors.New("connection reset"))

	svc := NewTransferQueryService(repository.NewTransferReadRepository(db, nil), time.Second)
	_, err = svc.ListTransfers(context.Background(), cqrs.ListTransfersQuery{})
	assert.ErrorIs(t, err, apperr.ErrStorage)
}
