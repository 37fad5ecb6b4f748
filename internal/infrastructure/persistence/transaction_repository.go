package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/ledger/internal/domain/ledger"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new transaction repository
func NewGormTransactionRepository(database *Database) *GormTransactionRepository {
	return &GormTransactionRepository{db: database.DB}
}

// FindByID finds a transaction by ID, returns nil if not found
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	err := dbFromContext(ctx, r.db).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds transactions with filtering
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.Transaction{}), filter)
	err := query.
		Scopes(ordered(filter.Filter, "transaction_date", "amount", "created_at"), paged(filter.Filter)).
		Find(&txs).Error
	return txs, err
}

// FindByGroup finds the member transactions of a group in insertion order
func (r *GormTransactionRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := dbFromContext(ctx, r.db).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&txs).Error
	return txs, err
}

// CountPendingByAccount counts PENDING transactions touching the account on
// any leg
func (r *GormTransactionRepository) CountPendingByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).
		Model(&ledger.Transaction{}).
		Where("status = ?", ledger.TransactionStatusPending).
		Where("debit_account_id = ? OR credit_account_id = ? OR account_id = ?", accountID, accountID, accountID).
		Count(&count).Error
	return count, err
}

// FindPostedByAccountUpTo finds POSTED transactions touching the account with
// a transaction date up to and including asOf
func (r *GormTransactionRepository) FindPostedByAccountUpTo(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := dbFromContext(ctx, r.db).
		Where("status = ?", ledger.TransactionStatusPosted).
		Where("debit_account_id = ? OR credit_account_id = ? OR account_id = ?", accountID, accountID, accountID).
		Where("transaction_date <= ?", asOf).
		Order("transaction_date asc, created_at asc").
		Find(&txs).Error
	return txs, err
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	return dbFromContext(ctx, r.db).Save(tx).Error
}

// Delete hard-deletes a PENDING transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Where("id = ? AND status = ?", id, ledger.TransactionStatusPending).
		Delete(&ledger.Transaction{}).Error
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter ledger.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.Transaction{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.AccountID != nil {
		id := *filter.AccountID
		query = query.Where("debit_account_id = ? OR credit_account_id = ? OR account_id = ?", id, id, id)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", searchPattern(filter.Search))
	}
	return query
}

var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
