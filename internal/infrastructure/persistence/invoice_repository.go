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

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository
func NewGormInvoiceRepository(database *Database) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: database.DB}
}

// FindByID finds an invoice with its line items and payments, returns nil if
// not found
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.preloaded(dbFromContext(ctx, r.db)).First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its unique number, returns nil if not
// found
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.preloaded(dbFromContext(ctx, r.db)).First(&inv, "invoice_number = ?", invoiceNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// FindAll finds invoices with filtering
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&billing.Invoice{}), filter)
	err := r.preloaded(query).
		Scopes(ordered(filter.Filter, "issue_date", "due_date", "total_amount", "created_at"), paged(filter.Filter)).
		Find(&invoices).Error
	return invoices, err
}

// FindOutstanding finds invoices with a positive amount due
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	err := r.preloaded(dbFromContext(ctx, r.db)).
		Where("amount_due > 0").
		Order("due_date asc").
		Find(&invoices).Error
	return invoices, err
}

// Save creates or updates an invoice, replacing its line items and payments
// with the aggregate's current state
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", inv.ID).Delete(&billing.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		if len(inv.LineItems) > 0 {
			if err := tx.Create(&inv.LineItems).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("document_id = ?", inv.ID).Delete(&billing.InvoicePayment{}).Error; err != nil {
			return err
		}
		if len(inv.Payments) > 0 {
			if err := tx.Create(&inv.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&billing.Invoice{}), filter)
	err := query.Count(&count).Error
	return count, err
}

func (r *GormInvoiceRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date asc")
		})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
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
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(client_name) LIKE ?", pattern, pattern)
	}
	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
