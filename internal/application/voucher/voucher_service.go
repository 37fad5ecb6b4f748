package voucher

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/shared"
	"github.com/openbooks/ledger/internal/domain/voucher"
)

// VoucherService drives the voucher workflow. Posting a voucher posts its
// paired ledger transaction in the same database transaction; the two never
// diverge.
type VoucherService struct {
	vouchers     voucher.Repository
	accounts     ledger.AccountRepository
	transactions ledger.TransactionRepository
	engine       *ledger.PostingEngine
	txManager    shared.TxManager
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(
	vouchers voucher.Repository,
	accounts ledger.AccountRepository,
	transactions ledger.TransactionRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *VoucherService {
	return &VoucherService{
		vouchers:     vouchers,
		accounts:     accounts,
		transactions: transactions,
		engine:       ledger.NewPostingEngine(),
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *VoucherService) publishEvents(ctx context.Context, carriers ...shared.EventCarrier) {
	events := shared.CollectEvents(carriers...)
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// CreateVoucherRequest carries the inputs for a new voucher. DEPOSIT
// vouchers leave CreditAccountID empty.
type CreateVoucherRequest struct {
	VoucherNumber   string          `json:"voucher_number"`
	Type            string          `json:"type"`
	PartyKind       string          `json:"party_kind,omitempty"`
	PartyID         *uuid.UUID      `json:"party_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description,omitempty"`
	DebitAccountID  uuid.UUID       `json:"debit_account_id"`
	CreditAccountID *uuid.UUID      `json:"credit_account_id,omitempty"`
}

func (s *VoucherService) loadShapeAccounts(ctx context.Context, debitID uuid.UUID, creditID *uuid.UUID) (*ledger.Account, *ledger.Account, error) {
	debit, err := s.accounts.FindByID(ctx, debitID)
	if err != nil {
		return nil, nil, err
	}
	if debit == nil {
		return nil, nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Debit account does not exist")
	}
	if !debit.IsActive {
		return nil, nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account "+debit.Code+" is inactive")
	}
	var credit *ledger.Account
	if creditID != nil {
		credit, err = s.accounts.FindByID(ctx, *creditID)
		if err != nil {
			return nil, nil, err
		}
		if credit == nil {
			return nil, nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Credit account does not exist")
		}
		if !credit.IsActive {
			return nil, nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account "+credit.Code+" is inactive")
		}
	}
	return debit, credit, nil
}

// CreateVoucher records a PENDING voucher and its paired PENDING ledger
// transaction
func (s *VoucherService) CreateVoucher(ctx context.Context, req CreateVoucherRequest) (*voucher.Voucher, error) {
	var v *voucher.Voucher
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.vouchers.FindByNumber(ctx, req.VoucherNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Voucher number "+req.VoucherNumber+" is already in use")
		}
		debit, credit, err := s.loadShapeAccounts(ctx, req.DebitAccountID, req.CreditAccountID)
		if err != nil {
			return err
		}
		v, err = voucher.NewVoucher(
			req.VoucherNumber,
			voucher.Type(req.Type),
			voucher.PartyKind(req.PartyKind),
			req.PartyID,
			req.Amount,
			req.Date,
			req.Description,
			debit, credit,
		)
		if err != nil {
			return err
		}
		return s.vouchers.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, v)
	return v, nil
}

// GetVoucher fetches a voucher with its paired transaction
func (s *VoucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	v, err := s.vouchers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.NewStateError("NOT_FOUND", "Voucher not found")
	}
	return v, nil
}

// ListVouchers lists vouchers with filtering and pagination
func (s *VoucherService) ListVouchers(ctx context.Context, filter voucher.Filter) (shared.Paginated[voucher.Voucher], error) {
	items, err := s.vouchers.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[voucher.Voucher]{}, err
	}
	total, err := s.vouchers.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[voucher.Voucher]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ApproveVoucher moves a PENDING voucher to APPROVED
func (s *VoucherService) ApproveVoucher(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var v *voucher.Voucher
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.vouchers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return shared.NewStateError("NOT_FOUND", "Voucher not found")
		}
		if err := v.Approve(); err != nil {
			return err
		}
		return s.vouchers.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, v)
	return v, nil
}

// PostVoucher posts an APPROVED voucher: the paired transaction commits
// against the account balances and the voucher flips to POSTED, atomically
func (s *VoucherService) PostVoucher(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var v *voucher.Voucher
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.vouchers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return shared.NewStateError("NOT_FOUND", "Voucher not found")
		}
		if v.Transaction == nil {
			return shared.NewIntegrityError("LEDGER_INTEGRITY", "Voucher "+v.VoucherNumber+" has no paired transaction")
		}
		if err := v.MarkPosted(); err != nil {
			return err
		}

		ids := v.Transaction.AccountIDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
		accounts := make(map[uuid.UUID]*ledger.Account, len(ids))
		for _, accountID := range ids {
			account, err := s.accounts.FindByIDForUpdate(ctx, accountID)
			if err != nil {
				return err
			}
			if account == nil {
				return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account "+accountID.String()+" does not exist")
			}
			accounts[accountID] = account
		}

		if err := s.engine.Post(v.Transaction, accounts); err != nil {
			return err
		}
		for _, account := range accounts {
			if err := s.accounts.Save(ctx, account); err != nil {
				return err
			}
		}
		if err := s.transactions.Save(ctx, v.Transaction); err != nil {
			return err
		}
		return s.vouchers.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, v, v.Transaction)
	return v, nil
}

// CancelVoucher cancels a PENDING or APPROVED voucher and discards its
// never-posted paired transaction
func (s *VoucherService) CancelVoucher(ctx context.Context, id uuid.UUID, reason string) (*voucher.Voucher, error) {
	var v *voucher.Voucher
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.vouchers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return shared.NewStateError("NOT_FOUND", "Voucher not found")
		}
		if err := v.Cancel(reason); err != nil {
			return err
		}
		if v.Transaction != nil && v.Transaction.IsPending() {
			if err := s.vouchers.DeletePairedTransaction(ctx, v.ID); err != nil {
				return err
			}
			v.Transaction = nil
		}
		return s.vouchers.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, v)
	return v, nil
}

// MigrateVoucherTypeRequest carries the inputs for an audited type change
type MigrateVoucherTypeRequest struct {
	ToType          string     `json:"to_type"`
	Reason          string     `json:"reason"`
	DebitAccountID  uuid.UUID  `json:"debit_account_id"`
	CreditAccountID *uuid.UUID `json:"credit_account_id,omitempty"`
}

// MigrateVoucherType changes a PENDING voucher's type, revalidating the
// party and account shape and rebuilding the paired transaction
func (s *VoucherService) MigrateVoucherType(ctx context.Context, id uuid.UUID, req MigrateVoucherTypeRequest) (*voucher.Voucher, error) {
	var v *voucher.Voucher
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.vouchers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return shared.NewStateError("NOT_FOUND", "Voucher not found")
		}
		debit, credit, err := s.loadShapeAccounts(ctx, req.DebitAccountID, req.CreditAccountID)
		if err != nil {
			return err
		}
		if err := v.MigrateType(voucher.Type(req.ToType), req.Reason, debit, credit); err != nil {
			return err
		}
		return s.vouchers.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, v)
	return v, nil
}
