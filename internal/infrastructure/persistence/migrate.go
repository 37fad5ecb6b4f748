package persistence

import (
	"github.com/openbooks/ledger/internal/domain/billing"
	"github.com/openbooks/ledger/internal/domain/ledger"
	"github.com/openbooks/ledger/internal/domain/voucher"
)

// AutoMigrate creates or updates the schema for every aggregate. Groups
// migrate before transactions so the member foreign key can be created.
func AutoMigrate(database *Database) error {
	return database.DB.AutoMigrate(
		&ledger.Account{},
		&ledger.TransactionGroup{},
		&ledger.Transaction{},
		&voucher.Voucher{},
		&billing.Invoice{},
		&billing.InvoiceLineItem{},
		&billing.InvoicePayment{},
		&billing.Bill{},
		&billing.BillLineItem{},
		&billing.BillPayment{},
	)
}
