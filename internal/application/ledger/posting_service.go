package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
)

// PostingService drives the transaction lifecycle: creation, posting and
// reversal. Posting and reversal run inside one database transaction with
// the touched account rows locked, so concurrent posts against the same
// account serialize instead of losing updates.
type PostingService struct {
	accounts     ledger.AccountRepository
	transactions ledger.TransactionRepository
	engine       *ledger.PostingEngine
	txManager    shared.TxManager
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewPostingService creates a new PostingService
func NewPostingService(
	accounts ledger.AccountRepository,
	transactions ledger.TransactionRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PostingService {
	return &PostingService{
		accounts:     accounts,
		transactions: transactions,
		engine:       ledger.NewPostingEngine(),
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *PostingService) publishEvents(ctx context.Context, carriers ...shared.EventCarrier) {
	events := shared.CollectEvents(carriers...)
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// lockAccounts loads the given accounts under row locks in a deterministic
// order. Sorting by ID keeps two concurrent posts from locking the same
// pair of rows in opposite order.
func (s *PostingService) lockAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ledger.Account, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	accounts := make(map[uuid.UUID]*ledger.Account, len(unique))
	for _, id := range unique {
		account, err := s.accounts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account "+id.String()+" does not exist")
		}
		accounts[id] = account
	}
	return accounts, nil
}

// CreateTransactionRequest carries the inputs for a new transaction. A
// double entry names both accounts; a single entry names one account and a
// direction.
type CreateTransactionRequest struct {
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	DebitAccountID  *uuid.UUID      `json:"debit_account_id,omitempty"`
	CreditAccountID *uuid.UUID      `json:"credit_account_id,omitempty"`
	AccountID       *uuid.UUID      `json:"account_id,omitempty"`
	Direction       *string         `json:"direction,omitempty"`
}

// CreateTransaction records a PENDING transaction. No balances move until
// the transaction is posted.
func (s *PostingService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	var err error
	switch {
	case req.AccountID != nil:
		if req.Direction == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Single-entry transactions require a direction")
		}
		tx, err = ledger.NewSingleEntryTransaction(req.Date, req.Description, req.Amount, *req.AccountID, ledger.Direction(*req.Direction))
	case req.DebitAccountID != nil && req.CreditAccountID != nil:
		tx, err = ledger.NewDoubleEntryTransaction(req.Date, req.Description, req.Amount, *req.DebitAccountID, *req.CreditAccountID)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Either both double-entry accounts or a single account with a direction is required")
	}
	if err != nil {
		return nil, err
	}

	if err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, id := range tx.AccountIDs() {
			account, err := s.accounts.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if account == nil {
				return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account "+id.String()+" does not exist")
			}
			if !account.IsActive {
				return shared.NewDomainError("ACCOUNT_INACTIVE", "Account "+account.Code+" is inactive")
			}
		}
		return s.transactions.Save(ctx, tx)
	}); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetTransaction fetches a transaction by ID
func (s *PostingService) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Transaction not found")
	}
	return tx, nil
}

// ListTransactions lists transactions with filtering and pagination
func (s *PostingService) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) (shared.Paginated[ledger.Transaction], error) {
	items, err := s.transactions.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.Transaction]{}, err
	}
	total, err := s.transactions.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.Transaction]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// PostTransaction commits a PENDING transaction: balances move and the
// status flips to POSTED, atomically
func (s *PostingService) PostTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		tx, err = s.transactions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return shared.NewStateError("NOT_FOUND", "Transaction not found")
		}
		accounts, err := s.lockAccounts(ctx, tx.AccountIDs())
		if err != nil {
			return err
		}
		if err := s.engine.Post(tx, accounts); err != nil {
			return err
		}
		for _, account := range accounts {
			if err := s.accounts.Save(ctx, account); err != nil {
				return err
			}
		}
		return s.transactions.Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)
	return tx, nil
}

// ReverseTransaction cancels a POSTED transaction's effect with an inverse
// entry. The original is never edited; it is linked to the reversal and
// marked REVERSED.
func (s *PostingService) ReverseTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var tx, reversal *ledger.Transaction
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		tx, err = s.transactions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return shared.NewStateError("NOT_FOUND", "Transaction not found")
		}
		accounts, err := s.lockAccounts(ctx, tx.AccountIDs())
		if err != nil {
			return err
		}
		reversal, err = s.engine.Reverse(tx, accounts)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			if err := s.accounts.Save(ctx, account); err != nil {
				return err
			}
		}
		if err := s.transactions.Save(ctx, reversal); err != nil {
			return err
		}
		return s.transactions.Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx, reversal)
	return reversal, nil
}

// DeleteTransaction hard-deletes a transaction that never posted. Posted
// and reversed transactions are permanent; corrections go through reversal.
func (s *PostingService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		tx, err := s.transactions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return shared.NewStateError("NOT_FOUND", "Transaction not found")
		}
		if !tx.IsPending() {
			return shared.NewStateError("INVALID_STATE", "Only PENDING transactions can be deleted")
		}
		return s.transactions.Delete(ctx, id)
	})
}
