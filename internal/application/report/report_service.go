package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/billing"
	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/report"
	"github.com/openbooks/ledger/internal/domain/shared"
)

// ReportService builds read-only projections over the ledger and billing
// documents. Reports never mutate state; a stale read is acceptable.
type ReportService struct {
	accounts ledger.AccountRepository
	invoices billing.InvoiceRepository
	bills    billing.BillRepository
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	accounts ledger.AccountRepository,
	invoices billing.InvoiceRepository,
	bills billing.BillRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		accounts: accounts,
		invoices: invoices,
		bills:    bills,
		logger:   logger,
	}
}

// AgingKind selects which side of the books to age
type AgingKind string

const (
	AgingReceivables AgingKind = "RECEIVABLES" // outstanding invoices
	AgingPayables    AgingKind = "PAYABLES"    // outstanding bills
)

// AgingReport buckets outstanding invoice or bill balances by days past
// due as of the given date
func (s *ReportService) AgingReport(ctx context.Context, kind AgingKind, asOf time.Time) (*report.AgingReport, error) {
	var docs []report.AgedDocument
	switch kind {
	case AgingReceivables:
		invoices, err := s.invoices.FindOutstanding(ctx)
		if err != nil {
			return nil, err
		}
		for i := range invoices {
			if invoices[i].Cancelled {
				continue
			}
			docs = append(docs, report.AgedInvoice(&invoices[i]))
		}
	case AgingPayables:
		bills, err := s.bills.FindOutstanding(ctx)
		if err != nil {
			return nil, err
		}
		for i := range bills {
			if bills[i].Cancelled {
				continue
			}
			docs = append(docs, report.AgedBill(&bills[i]))
		}
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Aging kind must be RECEIVABLES or PAYABLES")
	}
	return report.BuildAgingReport(docs, asOf), nil
}

// TrialBalance projects the full chart of accounts into a trial balance.
// An unbalanced result is reported, not fixed; it means a write path
// bypassed the posting engine.
func (s *ReportService) TrialBalance(ctx context.Context) (*report.TrialBalance, error) {
	filter := ledger.AccountFilter{}
	filter.Page = 1
	filter.PageSize = 10000
	accounts, err := s.accounts.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	tb := report.BuildTrialBalance(accounts, time.Now())
	if !tb.IsBalanced() {
		s.logger.Error("trial balance out of balance",
			zap.String("total_debit", tb.TotalDebit.String()),
			zap.String("total_credit", tb.TotalCredit.String()))
	}
	return tb, nil
}
