package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/openbooks/ledger/internal/domain/shared"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager by carrying the transactional
// *gorm.DB in the context. Repositories constructed from the same Database
// pick it up via dbFromContext, so every repository call inside Do shares
// one transaction.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(database *Database) *GormTxManager {
	return &GormTxManager{db: database.DB}
}

// Do runs fn inside a single database transaction. A non-nil error or a
// panic rolls the transaction back. Nested Do calls join the outer
// transaction.
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction carried by ctx, or fallback when the
// call happens outside a TxManager.Do scope
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

var _ shared.TxManager = (*GormTxManager)(nil)
