package persistence

import (
	"context"

	"gorm.io/gorm"

	appstock "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/domain/stock"
)

// GormStockTransactionScope implements the stock application TransactionScope
// using GORM transactions. Every stock mutation runs through one of these so
// the row lock, ledger append and task creation commit or roll back together.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockRepositories{tx: tx})
	})
}

type gormStockRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the product stock repository scoped to the current transaction
func (r *gormStockRepositories) StockRepo() stock.ProductStockRepository {
	return NewGormProductStockRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction
func (r *gormStockRepositories) MovementRepo() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// TaskRepo returns the restock task repository scoped to the current transaction
func (r *gormStockRepositories) TaskRepo() stock.RestockTaskRepository {
	return NewGormRestockTaskRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormStockTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormStockRepositories)(nil)
