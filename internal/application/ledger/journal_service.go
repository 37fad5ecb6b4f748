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

// JournalService manages transaction groups: multi-line journal entries
// that post and reverse as one unit
type JournalService struct {
	accounts     ledger.AccountRepository
	transactions ledger.TransactionRepository
	groups       ledger.TransactionGroupRepository
	engine       *ledger.PostingEngine
	locker       *PostingService
	txManager    shared.TxManager
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewJournalService creates a new JournalService. The posting service is
// shared for its account locking discipline.
func NewJournalService(
	accounts ledger.AccountRepository,
	transactions ledger.TransactionRepository,
	groups ledger.TransactionGroupRepository,
	locker *PostingService,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		accounts:     accounts,
		transactions: transactions,
		groups:       groups,
		engine:       ledger.NewPostingEngine(),
		locker:       locker,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *JournalService) publishEvents(ctx context.Context, carriers ...shared.EventCarrier) {
	events := shared.CollectEvents(carriers...)
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// JournalLineRequest is one line of a journal entry request
type JournalLineRequest struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// CreateJournalEntryRequest carries the inputs for a new journal entry
type CreateJournalEntryRequest struct {
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Lines       []JournalLineRequest `json:"lines"`
}

// CreateJournalEntry records a balanced multi-line entry as a PENDING
// group. Unbalanced input never reaches the database.
func (s *JournalService) CreateJournalEntry(ctx context.Context, req CreateJournalEntryRequest) (*ledger.TransactionGroup, error) {
	lines := make([]ledger.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = ledger.JournalLine{
			AccountID:   l.AccountID,
			Direction:   ledger.Direction(l.Direction),
			Amount:      l.Amount,
			Description: l.Description,
		}
	}
	group, err := ledger.NewJournalEntry(req.Description, req.Date, lines)
	if err != nil {
		return nil, err
	}

	if err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			account, err := s.accounts.FindByID(ctx, line.AccountID)
			if err != nil {
				return err
			}
			if account == nil {
				return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account "+line.AccountID.String()+" does not exist")
			}
			if !account.IsActive {
				return shared.NewDomainError("ACCOUNT_INACTIVE", "Account "+account.Code+" is inactive")
			}
		}
		return s.groups.Save(ctx, group)
	}); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)
	return group, nil
}

// GetGroup fetches a group with its member transactions
func (s *JournalService) GetGroup(ctx context.Context, id uuid.UUID) (*ledger.TransactionGroup, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Journal entry not found")
	}
	return group, nil
}

// ListGroups lists groups with filtering and pagination
func (s *JournalService) ListGroups(ctx context.Context, filter ledger.GroupFilter) (shared.Paginated[ledger.TransactionGroup], error) {
	items, err := s.groups.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.TransactionGroup]{}, err
	}
	total, err := s.groups.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.TransactionGroup]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// PostGroup posts every member transaction and marks the group POSTED, all
// inside one database transaction. Any member failing leaves every balance
// and every member untouched.
func (s *JournalService) PostGroup(ctx context.Context, id uuid.UUID) (*ledger.TransactionGroup, error) {
	var group *ledger.TransactionGroup
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		group, err = s.groups.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil {
			return shared.NewStateError("NOT_FOUND", "Journal entry not found")
		}
		if !group.CheckBalanced() {
			return shared.NewIntegrityError("LEDGER_INTEGRITY", "Journal entry is no longer balanced")
		}

		var accountIDs []uuid.UUID
		for i := range group.Transactions {
			accountIDs = append(accountIDs, group.Transactions[i].AccountIDs()...)
		}
		accounts, err := s.locker.lockAccounts(ctx, accountIDs)
		if err != nil {
			return err
		}

		for i := range group.Transactions {
			if err := s.engine.Post(&group.Transactions[i], accounts); err != nil {
				return err
			}
		}
		if err := group.MarkPosted(); err != nil {
			return err
		}

		for _, account := range accounts {
			if err := s.accounts.Save(ctx, account); err != nil {
				return err
			}
		}
		return s.groups.Save(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)
	return group, nil
}

// ReverseGroup reverses every POSTED member and marks the group REVERSED.
// The reversal transactions reference their originals; the original members
// stay in place as audit history.
func (s *JournalService) ReverseGroup(ctx context.Context, id uuid.UUID) (*ledger.TransactionGroup, error) {
	var group *ledger.TransactionGroup
	var reversals []*ledger.Transaction
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		group, err = s.groups.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil {
			return shared.NewStateError("NOT_FOUND", "Journal entry not found")
		}

		var accountIDs []uuid.UUID
		for i := range group.Transactions {
			accountIDs = append(accountIDs, group.Transactions[i].AccountIDs()...)
		}
		accounts, err := s.locker.lockAccounts(ctx, accountIDs)
		if err != nil {
			return err
		}

		for i := range group.Transactions {
			reversal, err := s.engine.Reverse(&group.Transactions[i], accounts)
			if err != nil {
				return err
			}
			reversals = append(reversals, reversal)
		}
		if err := group.MarkReversed(); err != nil {
			return err
		}

		for _, account := range accounts {
			if err := s.accounts.Save(ctx, account); err != nil {
				return err
			}
		}
		for _, reversal := range reversals {
			if err := s.transactions.Save(ctx, reversal); err != nil {
				return err
			}
		}
		return s.groups.Save(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	carriers := make([]shared.EventCarrier, 0, len(reversals)+1)
	carriers = append(carriers, group)
	for _, r := range reversals {
		carriers = append(carriers, r)
	}
	s.publishEvents(ctx, carriers...)
	return group, nil
}

// DeleteGroup hard-deletes a PENDING group and its members. Posted history
// is permanent.
func (s *JournalService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		group, err := s.groups.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil {
			return shared.NewStateError("NOT_FOUND", "Journal entry not found")
		}
		if !group.CanDelete() {
			return shared.NewStateError("INVALID_STATE", "Only PENDING journal entries can be deleted")
		}
		return s.groups.Delete(ctx, id)
	})
}
