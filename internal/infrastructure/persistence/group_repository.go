package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openbooks/ledger/internal/domain/ledger"
)

// GormTransactionGroupRepository implements ledger.TransactionGroupRepository
// using GORM
type GormTransactionGroupRepository struct {
	db *gorm.DB
}

// NewGormTransactionGroupRepository creates a new group repository
func NewGormTransactionGroupRepository(database *Database) *GormTransactionGroupRepository {
	return &GormTransactionGroupRepository{db: database.DB}
}

// FindByID finds a group with its member transactions, returns nil if not
// found
func (r *GormTransactionGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.TransactionGroup, error) {
	var group ledger.TransactionGroup
	err := dbFromContext(ctx, r.db).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// FindAll finds groups with filtering
func (r *GormTransactionGroupRepository) FindAll(ctx context.Context, filter ledger.GroupFilter) ([]ledger.TransactionGroup, error) {
	var groups []ledger.TransactionGroup
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.TransactionGroup{}), filter)
	err := query.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Scopes(ordered(filter.Filter, "group_date", "created_at"), paged(filter.Filter)).
		Find(&groups).Error
	return groups, err
}

// Save creates or updates a group and its member transactions
func (r *GormTransactionGroupRepository) Save(ctx context.Context, group *ledger.TransactionGroup) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(group).Error; err != nil {
			return err
		}
		for i := range group.Transactions {
			if err := tx.Save(&group.Transactions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete hard-deletes a PENDING group and its member transactions
func (r *GormTransactionGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&ledger.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&ledger.TransactionGroup{}).Error
	})
}

// Count counts groups matching the filter
func (r *GormTransactionGroupRepository) Count(ctx context.Context, filter ledger.GroupFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.TransactionGroup{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormTransactionGroupRepository) applyFilter(query *gorm.DB, filter ledger.GroupFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("group_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("group_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", searchPattern(filter.Search))
	}
	return query
}

var _ ledger.TransactionGroupRepository = (*GormTransactionGroupRepository)(nil)
