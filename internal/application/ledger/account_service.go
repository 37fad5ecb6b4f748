package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
)

// AccountService provides application-level operations on the account registry
type AccountService struct {
	accounts     ledger.AccountRepository
	transactions ledger.TransactionRepository
	txManager    shared.TxManager
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accounts ledger.AccountRepository,
	transactions ledger.TransactionRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts:     accounts,
		transactions: transactions,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *AccountService) publishEvents(ctx context.Context, carriers ...shared.EventCarrier) {
	events := shared.CollectEvents(carriers...)
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// CreateAccountRequest carries the inputs for opening an account
type CreateAccountRequest struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Group    string     `json:"group"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// CreateAccount opens a new account. Codes are unique across the registry;
// a parent, when given, must exist.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*ledger.Account, error) {
	var account *ledger.Account
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.accounts.FindByCode(ctx, req.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Account code "+req.Code+" is already in use")
		}
		if req.ParentID != nil {
			parent, err := s.accounts.FindByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return shared.NewStateError("NOT_FOUND", "Parent account not found")
			}
		}
		account, err = ledger.NewAccount(req.Code, req.Name, ledger.AccountGroup(req.Group), req.ParentID)
		if err != nil {
			return err
		}
		return s.accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, account)
	return account, nil
}

// GetAccount fetches an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Account not found")
	}
	return account, nil
}

// GetAccountByCode fetches an account by its unique code
func (s *AccountService) GetAccountByCode(ctx context.Context, code string) (*ledger.Account, error) {
	account, err := s.accounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Account not found")
	}
	return account, nil
}

// ListAccounts lists accounts with filtering and pagination
func (s *AccountService) ListAccounts(ctx context.Context, filter ledger.AccountFilter) (shared.Paginated[ledger.Account], error) {
	accounts, err := s.accounts.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.Account]{}, err
	}
	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.Account]{}, err
	}
	return shared.NewPaginated(accounts, total, filter.Page, filter.PageSize), nil
}

// ChangeParent moves an account under a new parent (or to the root when
// newParentID is nil). Moving an account under one of its own descendants
// would create a cycle and is rejected.
func (s *AccountService) ChangeParent(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (*ledger.Account, error) {
	var account *ledger.Account
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewStateError("NOT_FOUND", "Account not found")
		}
		if newParentID != nil {
			if *newParentID == id {
				return shared.NewDomainError("CYCLIC_HIERARCHY", "An account cannot be its own parent")
			}
			if err := s.ensureNoCycle(ctx, id, *newParentID); err != nil {
				return err
			}
		}
		account.ParentID = newParentID
		return s.accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ensureNoCycle walks up from the candidate parent; finding the account
// being moved means the move would close a loop
func (s *AccountService) ensureNoCycle(ctx context.Context, accountID, candidateParentID uuid.UUID) error {
	cursor := &candidateParentID
	seen := map[uuid.UUID]bool{}
	for cursor != nil {
		if *cursor == accountID {
			return shared.NewDomainError("CYCLIC_HIERARCHY", "Move would create a cycle in the account hierarchy")
		}
		if seen[*cursor] {
			return shared.NewIntegrityError("LEDGER_INTEGRITY", "Account hierarchy already contains a cycle")
		}
		seen[*cursor] = true
		parent, err := s.accounts.FindByID(ctx, *cursor)
		if err != nil {
			return err
		}
		if parent == nil {
			return shared.NewStateError("NOT_FOUND", "Parent account not found")
		}
		cursor = parent.ParentID
	}
	return nil
}

// DeactivateAccount closes an account to new postings. Accounts referenced
// by a PENDING transaction stay open until those are posted or deleted.
func (s *AccountService) DeactivateAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var account *ledger.Account
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewStateError("NOT_FOUND", "Account not found")
		}
		pending, err := s.transactions.CountPendingByAccount(ctx, id)
		if err != nil {
			return err
		}
		if pending > 0 {
			return shared.NewStateError("ACCOUNT_IN_USE", "Account has pending transactions and cannot be deactivated")
		}
		if err := account.Deactivate(); err != nil {
			return err
		}
		return s.accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, account)
	return account, nil
}

// ActivateAccount re-enables a previously deactivated account
func (s *AccountService) ActivateAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var account *ledger.Account
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewStateError("NOT_FOUND", "Account not found")
		}
		if err := account.Activate(); err != nil {
			return err
		}
		return s.accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// BalanceResponse reports an account balance at a point in time
type BalanceResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      *time.Time      `json:"as_of,omitempty"`
}

// GetBalance returns the account balance, either current (asOf nil) or
// recomputed from posted history up to the given date
func (s *AccountService) GetBalance(ctx context.Context, id uuid.UUID, asOf *time.Time) (*BalanceResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Account not found")
	}
	if asOf == nil {
		return &BalanceResponse{AccountID: account.ID, Code: account.Code, Balance: account.Balance}, nil
	}

	posted, err := s.transactions.FindPostedByAccountUpTo(ctx, id, *asOf)
	if err != nil {
		return nil, err
	}
	normal := account.Group.NormalBalance()
	balance := decimal.Zero
	for i := range posted {
		for _, leg := range posted[i].Legs() {
			if leg.AccountID != id {
				continue
			}
			if leg.Direction == normal {
				balance = balance.Add(leg.Amount)
			} else {
				balance = balance.Sub(leg.Amount)
			}
		}
	}
	return &BalanceResponse{AccountID: account.ID, Code: account.Code, Balance: balance, AsOf: asOf}, nil
}
