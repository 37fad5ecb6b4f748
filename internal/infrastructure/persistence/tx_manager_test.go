package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
)

func TestGormTxManagerDo(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		manager := NewGormTxManager(db)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := manager.Do(context.Background(), func(ctx context.Context) error {
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		manager := NewGormTxManager(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := shared.NewDomainError("BOOM", "it broke")
		err := manager.Do(context.Background(), func(ctx context.Context) error {
			return boom
		})

		assert.Equal(t, boom, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested Do joins the outer transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		manager := NewGormTxManager(db)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := manager.Do(context.Background(), func(outer context.Context) error {
			return manager.Do(outer, func(inner context.Context) error {
				return nil
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repository calls inside Do share the transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		manager := NewGormTxManager(db)
		repo := NewGormAccountRepository(db)

		account, err := ledger.NewAccount("1000", "Cash", ledger.AccountGroupAsset, nil)
		require.NoError(t, err)
		account.Balance = decimal.Zero

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "ledger_accounts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = manager.Do(context.Background(), func(ctx context.Context) error {
			return repo.Save(ctx, account)
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
