package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openbooks/ledger/internal/domain/billing"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new bill repository
func NewGormBillRepository(database *Database) *GormBillRepository {
	return &GormBillRepository{db: database.DB}
}

// FindByID finds a bill with its line items and payments, returns nil if not
// found
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var b billing.Bill
	err := r.preloaded(dbFromContext(ctx, r.db)).First(&b, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// FindByNumber finds a bill by its unique number, returns nil if not found
func (r *GormBillRepository) FindByNumber(ctx context.Context, billNumber string) (*billing.Bill, error) {
	var b billing.Bill
	err := r.preloaded(dbFromContext(ctx, r.db)).First(&b, "bill_number = ?", billNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds bills with filtering
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	var bills []billing.Bill
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&billing.Bill{}), filter)
	err := r.preloaded(query).
		Scopes(ordered(filter.Filter, "issue_date", "due_date", "total_amount", "created_at"), paged(filter.Filter)).
		Find(&bills).Error
	return bills, err
}

// FindOutstanding finds bills with a positive amount due
func (r *GormBillRepository) FindOutstanding(ctx context.Context) ([]billing.Bill, error) {
	var bills []billing.Bill
	err := r.preloaded(dbFromContext(ctx, r.db)).
		Where("amount_due > 0").
		Order("due_date asc").
		Find(&bills).Error
	return bills, err
}

// Save creates or updates a bill, replacing its line items and payments with
// the aggregate's current state
func (r *GormBillRepository) Save(ctx context.Context, b *billing.Bill) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(b).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", b.ID).Delete(&billing.BillLineItem{}).Error; err != nil {
			return err
		}
		if len(b.LineItems) > 0 {
			if err := tx.Create(&b.LineItems).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("document_id = ?", b.ID).Delete(&billing.BillPayment{}).Error; err != nil {
			return err
		}
		if len(b.Payments) > 0 {
			if err := tx.Create(&b.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&billing.Bill{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormBillRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date asc")
		})
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter billing.BillFilter) *gorm.DB {
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("issue_date <= ?", *filter.ToDate)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND amount_due > 0 AND cancelled = ?", time.Now(), false)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(bill_number) LIKE ? OR LOWER(vendor_name) LIKE ?", pattern, pattern)
	}
	return query
}

var _ billing.BillRepository = (*GormBillRepository)(nil)
