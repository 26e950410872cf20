package persistence

import (
	"context"

	"gorm.io/gorm"

	apprecon "github.com/venueops/backend/internal/application/reconciliation"
	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/stock"
)

// GormReconciliationTransactionScope implements the reconciliation application
// TransactionScope using GORM transactions. Closing a session writes the
// session, the stock corrections and their ledger entries in one transaction.
type GormReconciliationTransactionScope struct {
	db *gorm.DB
}

// NewGormReconciliationTransactionScope creates a new GormReconciliationTransactionScope
func NewGormReconciliationTransactionScope(db *gorm.DB) *GormReconciliationTransactionScope {
	return &GormReconciliationTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormReconciliationTransactionScope) Execute(ctx context.Context, fn func(repos apprecon.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReconciliationRepositories{tx: tx})
	})
}

type gormReconciliationRepositories struct {
	tx *gorm.DB
}

// SessionRepo returns the session repository scoped to the current transaction
func (r *gormReconciliationRepositories) SessionRepo() reconciliation.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

// StockRepo returns the product stock repository scoped to the current transaction
func (r *gormReconciliationRepositories) StockRepo() stock.ProductStockRepository {
	return NewGormProductStockRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction
func (r *gormReconciliationRepositories) MovementRepo() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// TaskRepo returns the restock task repository scoped to the current transaction
func (r *gormReconciliationRepositories) TaskRepo() stock.RestockTaskRepository {
	return NewGormRestockTaskRepository(r.tx)
}

var _ apprecon.TransactionScope = (*GormReconciliationTransactionScope)(nil)
var _ apprecon.TransactionalRepositories = (*gormReconciliationRepositories)(nil)
