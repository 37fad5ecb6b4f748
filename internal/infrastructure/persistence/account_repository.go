package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openbooks/ledger/internal/domain/ledger"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db       *gorm.DB
	postgres bool
}

// NewGormAccountRepository creates a new account repository
func NewGormAccountRepository(database *Database) *GormAccountRepository {
	return &GormAccountRepository{db: database.DB, postgres: database.IsPostgres()}
}

// FindByID finds an account by ID, returns nil if not found
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var account ledger.Account
	err := dbFromContext(ctx, r.db).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForUpdate finds an account holding a row lock until the
// surrounding transaction ends. On sqlite the single-writer connection
// already serializes writers, so no lock clause is emitted.
func (r *GormAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	query := dbFromContext(ctx, r.db)
	if r.postgres {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var account ledger.Account
	err := query.First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds an account by its unique code, returns nil if not found
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*ledger.Account, error) {
	var account ledger.Account
	err := dbFromContext(ctx, r.db).First(&account, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds accounts with filtering
func (r *GormAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]ledger.Account, error) {
	var accounts []ledger.Account
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.Account{}), filter)
	err := query.
		Scopes(ordered(filter.Filter, "code", "name", "created_at"), paged(filter.Filter)).
		Find(&accounts).Error
	return accounts, err
}

// FindChildren finds the direct children of an account
func (r *GormAccountRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]ledger.Account, error) {
	var accounts []ledger.Account
	err := dbFromContext(ctx, r.db).
		Where("parent_id = ?", parentID).
		Order("code asc").
		Find(&accounts).Error
	return accounts, err
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return dbFromContext(ctx, r.db).Save(account).Error
}

// Count counts accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter ledger.AccountFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.Account{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter ledger.AccountFilter) *gorm.DB {
	if filter.Group != nil {
		query = query.Where("\"group\" = ?", *filter.Group)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	return query
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
