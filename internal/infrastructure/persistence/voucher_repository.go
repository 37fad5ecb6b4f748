package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/voucher"
)

// GormVoucherRepository implements voucher.Repository using GORM. The paired
// ledger transaction shares the voucher's ID and lives in the
// ledger_transactions table; it is loaded and saved alongside the voucher.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new voucher repository
func NewGormVoucherRepository(database *Database) *GormVoucherRepository {
	return &GormVoucherRepository{db: database.DB}
}

// FindByID finds a voucher with its paired transaction, returns nil if not
// found
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	db := dbFromContext(ctx, r.db)
	var v voucher.Voucher
	err := db.First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPairedTransaction(db, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByNumber finds a voucher by its unique number, returns nil if not found
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, voucherNumber string) (*voucher.Voucher, error) {
	db := dbFromContext(ctx, r.db)
	var v voucher.Voucher
	err := db.First(&v, "voucher_number = ?", voucherNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPairedTransaction(db, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindAll finds vouchers with filtering. Paired transactions are not loaded
// for listings.
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter voucher.Filter) ([]voucher.Voucher, error) {
	var vouchers []voucher.Voucher
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&voucher.Voucher{}), filter)
	err := query.
		Scopes(ordered(filter.Filter, "voucher_date", "voucher_number", "amount", "created_at"), paged(filter.Filter)).
		Find(&vouchers).Error
	return vouchers, err
}

// Save creates or updates a voucher and its paired transaction
func (r *GormVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(v).Error; err != nil {
			return err
		}
		if v.Transaction != nil {
			return tx.Save(v.Transaction).Error
		}
		return nil
	})
}

// DeletePairedTransaction hard-deletes the still-PENDING paired transaction
// of a cancelled voucher
func (r *GormVoucherRepository) DeletePairedTransaction(ctx context.Context, voucherID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Where("id = ? AND status = ?", voucherID, ledger.TransactionStatusPending).
		Delete(&ledger.Transaction{}).Error
}

// Count counts vouchers matching the filter
func (r *GormVoucherRepository) Count(ctx context.Context, filter voucher.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&voucher.Voucher{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormVoucherRepository) loadPairedTransaction(db *gorm.DB, v *voucher.Voucher) error {
	var paired ledger.Transaction
	err := db.First(&paired, "id = ?", v.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			v.Transaction = nil
			return nil
		}
		return err
	}
	v.Transaction = &paired
	return nil
}

func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter voucher.Filter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PartyKind != nil {
		query = query.Where("party_kind = ?", *filter.PartyKind)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	if filter.FromDate != nil {
		query = query.Where("voucher_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("voucher_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(voucher_number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return query
}

var _ voucher.Repository = (*GormVoucherRepository)(nil)
