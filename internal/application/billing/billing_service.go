package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/billing"
	"github.com/openbooks/ledger/internal/domain/shared"
)

// BillingService manages invoices and bills: document lifecycle, line item
// edits, payments and the overdue sweep
type BillingService struct {
	invoices         billing.InvoiceRepository
	bills            billing.BillRepository
	txManager        shared.TxManager
	publisher        shared.EventPublisher
	logger           *zap.Logger
	allowOverpayment bool
}

// BillingServiceOption is a functional option for configuring BillingService
type BillingServiceOption func(*BillingService)

// WithOverpaymentRejected opts into rejecting payments that would push a
// document's paid amount past its total. The default accepts them and
// reports a credit balance.
func WithOverpaymentRejected() BillingServiceOption {
	return func(s *BillingService) {
		s.allowOverpayment = false
	}
}

// NewBillingService creates a new BillingService
func NewBillingService(
	invoices billing.InvoiceRepository,
	bills billing.BillRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...BillingServiceOption,
) *BillingService {
	s := &BillingService{
		invoices:         invoices,
		bills:            bills,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
		allowOverpayment: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BillingService) publishEvents(ctx context.Context, carriers ...shared.EventCarrier) {
	events := shared.CollectEvents(carriers...)
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// ===================== Invoices =====================

// CreateInvoiceRequest carries the inputs for a new invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string              `json:"invoice_number"`
	ClientID      uuid.UUID           `json:"client_id"`
	ClientName    string              `json:"client_name"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	Lines         []billing.LineInput `json:"lines"`
}

// CreateInvoice records a new DRAFT invoice
func (s *BillingService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*billing.Invoice, error) {
	var inv *billing.Invoice
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.invoices.FindByNumber(ctx, req.InvoiceNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Invoice number "+req.InvoiceNumber+" is already in use")
		}
		inv, err = billing.NewInvoice(req.InvoiceNumber, req.ClientID, req.ClientName, req.IssueDate, req.DueDate, req.Lines)
		if err != nil {
			return err
		}
		return s.invoices.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	return inv, nil
}

// GetInvoice fetches an invoice, refreshing its overdue status on read
func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv *billing.Invoice
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoices.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return shared.NewStateError("NOT_FOUND", "Invoice not found")
		}
		if inv.RefreshStatus(time.Now()) {
			return s.invoices.Save(ctx, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *BillingService) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) (shared.Paginated[billing.Invoice], error) {
	items, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	total, err := s.invoices.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Invoice]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// mutateInvoice loads, mutates and saves an invoice inside one transaction
func (s *BillingService) mutateInvoice(ctx context.Context, id uuid.UUID, mutate func(*billing.Invoice) error) (*billing.Invoice, error) {
	var inv *billing.Invoice
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoices.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return shared.NewStateError("NOT_FOUND", "Invoice not found")
		}
		if err := mutate(inv); err != nil {
			return err
		}
		return s.invoices.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	return inv, nil
}

// AddInvoiceLine appends a line item to an unpaid invoice
func (s *BillingService) AddInvoiceLine(ctx context.Context, id uuid.UUID, line billing.LineInput) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.AddLineItem(line)
	})
}

// RemoveInvoiceLine removes a line item from an unpaid invoice
func (s *BillingService) RemoveInvoiceLine(ctx context.Context, id, lineID uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.RemoveLineItem(lineID)
	})
}

// ApplyPaymentRequest carries the inputs for recording a payment
type ApplyPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// ApplyInvoicePayment records a payment against an invoice
func (s *BillingService) ApplyInvoicePayment(ctx context.Context, id uuid.UUID, req ApplyPaymentRequest) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		_, err := inv.ApplyPayment(req.Amount, req.Date, billing.PaymentMethod(req.Method), req.Reference, s.allowOverpayment)
		return err
	})
}

// DeleteInvoicePayment removes a payment record from an invoice
func (s *BillingService) DeleteInvoicePayment(ctx context.Context, id, paymentID uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.DeletePayment(paymentID)
	})
}

// MarkInvoiceSent records that the invoice went out to the client
func (s *BillingService) MarkInvoiceSent(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.MarkSent()
	})
}

// MarkInvoiceViewed records that the client opened the invoice
func (s *BillingService) MarkInvoiceViewed(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.MarkViewed()
	})
}

// CancelInvoice cancels a non-terminal invoice
func (s *BillingService) CancelInvoice(ctx context.Context, id uuid.UUID, reason string) (*billing.Invoice, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.Cancel(reason)
	})
}

// ===================== Bills =====================

// CreateBillRequest carries the inputs for a new bill
type CreateBillRequest struct {
	BillNumber string              `json:"bill_number"`
	VendorID   uuid.UUID           `json:"vendor_id"`
	VendorName string              `json:"vendor_name"`
	IssueDate  time.Time           `json:"issue_date"`
	DueDate    time.Time           `json:"due_date"`
	Lines      []billing.LineInput `json:"lines"`
}

// CreateBill records a new DRAFT bill
func (s *BillingService) CreateBill(ctx context.Context, req CreateBillRequest) (*billing.Bill, error) {
	var b *billing.Bill
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.bills.FindByNumber(ctx, req.BillNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_CODE", "Bill number "+req.BillNumber+" is already in use")
		}
		b, err = billing.NewBill(req.BillNumber, req.VendorID, req.VendorName, req.IssueDate, req.DueDate, req.Lines)
		if err != nil {
			return err
		}
		return s.bills.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)
	return b, nil
}

// GetBill fetches a bill, refreshing its overdue status on read
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var b *billing.Bill
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.bills.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.NewStateError("NOT_FOUND", "Bill not found")
		}
		if b.RefreshStatus(time.Now()) {
			return s.bills.Save(ctx, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBills lists bills with filtering and pagination
func (s *BillingService) ListBills(ctx context.Context, filter billing.BillFilter) (shared.Paginated[billing.Bill], error) {
	items, err := s.bills.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Bill]{}, err
	}
	total, err := s.bills.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Bill]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *BillingService) mutateBill(ctx context.Context, id uuid.UUID, mutate func(*billing.Bill) error) (*billing.Bill, error) {
	var b *billing.Bill
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.bills.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.NewStateError("NOT_FOUND", "Bill not found")
		}
		if err := mutate(b); err != nil {
			return err
		}
		return s.bills.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)
	return b, nil
}

// AddBillLine appends a line item to an unpaid bill
func (s *BillingService) AddBillLine(ctx context.Context, id uuid.UUID, line billing.LineInput) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		return b.AddLineItem(line)
	})
}

// RemoveBillLine removes a line item from an unpaid bill
func (s *BillingService) RemoveBillLine(ctx context.Context, id, lineID uuid.UUID) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		return b.RemoveLineItem(lineID)
	})
}

// ApplyBillPayment records a payment against a bill
func (s *BillingService) ApplyBillPayment(ctx context.Context, id uuid.UUID, req ApplyPaymentRequest) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		_, err := b.ApplyPayment(req.Amount, req.Date, billing.PaymentMethod(req.Method), req.Reference, s.allowOverpayment)
		return err
	})
}

// DeleteBillPayment removes a payment record from a bill
func (s *BillingService) DeleteBillPayment(ctx context.Context, id, paymentID uuid.UUID) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		return b.DeletePayment(paymentID)
	})
}

// MarkBillOpen moves a bill out of DRAFT into PENDING
func (s *BillingService) MarkBillOpen(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		return b.MarkOpen()
	})
}

// CancelBill cancels a non-terminal bill
func (s *BillingService) CancelBill(ctx context.Context, id uuid.UUID, reason string) (*billing.Bill, error) {
	return s.mutateBill(ctx, id, func(b *billing.Bill) error {
		return b.Cancel(reason)
	})
}

// RefreshOverdueStatuses sweeps the outstanding documents and re-derives
// their statuses as of now. Safe to run on a schedule; only changed
// documents are written back.
func (s *BillingService) RefreshOverdueStatuses(ctx context.Context, now time.Time) (int, error) {
	changed := 0
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		invoices, err := s.invoices.FindOutstanding(ctx)
		if err != nil {
			return err
		}
		for i := range invoices {
			if invoices[i].RefreshStatus(now) {
				if err := s.invoices.Save(ctx, &invoices[i]); err != nil {
					return err
				}
				changed++
			}
		}
		bills, err := s.bills.FindOutstanding(ctx)
		if err != nil {
			return err
		}
		for i := range bills {
			if bills[i].RefreshStatus(now) {
				if err := s.bills.Save(ctx, &bills[i]); err != nil {
					return err
				}
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.Info("overdue sweep updated document statuses", zap.Int("changed", changed))
	}
	return changed, nil
}
