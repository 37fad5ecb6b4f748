package billing

import (
	"context"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *DocumentStatus
	FromDate *time.Time
	ToDate   *time.Time
	DueFrom  *time.Time
	DueTo    *time.Time
	Overdue  *bool
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID with its line items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its unique number
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindAll finds invoices with filtering
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// FindOutstanding finds invoices with a positive amount due
	FindOutstanding(ctx context.Context) ([]Invoice, error)

	// Save creates or updates an invoice with its line items and payments
	Save(ctx context.Context, inv *Invoice) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)
}

// BillFilter defines filtering options for bill queries
type BillFilter struct {
	shared.Filter
	VendorID *uuid.UUID
	Status   *DocumentStatus
	FromDate *time.Time
	ToDate   *time.Time
	DueFrom  *time.Time
	DueTo    *time.Time
	Overdue  *bool
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by ID with its line items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByNumber finds a bill by its unique number
	FindByNumber(ctx context.Context, billNumber string) (*Bill, error)

	// FindAll finds bills with filtering
	FindAll(ctx context.Context, filter BillFilter) ([]Bill, error)

	// FindOutstanding finds bills with a positive amount due
	FindOutstanding(ctx context.Context) ([]Bill, error)

	// Save creates or updates a bill with its line items and payments
	Save(ctx context.Context, b *Bill) error

	// Count counts bills matching the filter
	Count(ctx context.Context, filter BillFilter) (int64, error)
}
