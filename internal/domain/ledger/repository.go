package ledger

import (
	"context"
	"time"

	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	shared.Filter
	Group    *AccountGroup
	IsActive *bool
	ParentID *uuid.UUID
}

// AccountRepository defines the interface for ledger account persistence
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByIDForUpdate finds an account by ID holding a row lock for the
	// remainder of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its unique code
	FindByCode(ctx context.Context, code string) (*Account, error)

	// FindAll finds accounts with filtering
	FindAll(ctx context.Context, filter AccountFilter) ([]Account, error)

	// FindChildren finds the direct children of an account
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter AccountFilter) (int64, error)
}

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	AccountID *uuid.UUID
	Status    *TransactionStatus
	GroupID   *uuid.UUID
	FromDate  *time.Time
	ToDate    *time.Time
}

// TransactionRepository defines the interface for ledger transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll finds transactions with filtering
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// FindByGroup finds the member transactions of a group in insertion order
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]Transaction, error)

	// CountPendingByAccount counts PENDING transactions referencing an account
	// on any leg
	CountPendingByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// FindPostedByAccountUpTo finds POSTED transactions referencing an account
	// with a transaction date up to and including asOf
	FindPostedByAccountUpTo(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// Delete hard-deletes a PENDING transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

// GroupFilter defines filtering options for transaction group queries
type GroupFilter struct {
	shared.Filter
	Status   *GroupStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionGroupRepository defines the interface for transaction group persistence
type TransactionGroupRepository interface {
	// FindByID finds a group by ID with its member transactions
	FindByID(ctx context.Context, id uuid.UUID) (*TransactionGroup, error)

	// FindAll finds groups with filtering
	FindAll(ctx context.Context, filter GroupFilter) ([]TransactionGroup, error)

	// Save creates or updates a group and its member transactions
	Save(ctx context.Context, group *TransactionGroup) error

	// Delete hard-deletes a PENDING group and its member transactions
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts groups matching the filter
	Count(ctx context.Context, filter GroupFilter) (int64, error)
}
