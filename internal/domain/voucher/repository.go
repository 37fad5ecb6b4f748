package voucher

import (
	"context"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for voucher queries
type Filter struct {
	shared.Filter
	Type      *Type
	Status    *Status
	PartyKind *PartyKind
	PartyID   *uuid.UUID
	FromDate  *time.Time
	ToDate    *time.Time
}

// Repository defines the interface for voucher persistence. Implementations
// load and save the paired ledger transaction together with the voucher.
type Repository interface {
	// FindByID finds a voucher by ID including its paired transaction
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)

	// FindByNumber finds a voucher by its unique number
	FindByNumber(ctx context.Context, voucherNumber string) (*Voucher, error)

	// FindAll finds vouchers with filtering
	FindAll(ctx context.Context, filter Filter) ([]Voucher, error)

	// Save creates or updates a voucher and its paired transaction
	Save(ctx context.Context, v *Voucher) error

	// DeletePairedTransaction hard-deletes the still-PENDING paired
	// transaction of a cancelled voucher
	DeletePairedTransaction(ctx context.Context, voucherID uuid.UUID) error

	// Count counts vouchers matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)
}
