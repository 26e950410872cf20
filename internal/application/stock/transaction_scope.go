package stock

import (
	"context"

	"github.com/venueops/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
//
// Every stock mutation follows the same shape inside Execute: take the row
// lock via StockRepo().FindByProductIDForUpdate, mutate the aggregate, append
// the ledger entry, save, then run the replenishment check. The ledger write
// and the state write are never split across transactions.
type TransactionalRepositories interface {
	// StockRepo returns the product stock repository scoped to the current transaction
	StockRepo() stock.ProductStockRepository
	// MovementRepo returns the append-only movement ledger repository scoped to the current transaction
	MovementRepo() stock.StockMovementRepository
	// TaskRepo returns the restock task repository scoped to the current transaction
	TaskRepo() stock.RestockTaskRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	stockRepo    stock.ProductStockRepository
	movementRepo stock.StockMovementRepository
	taskRepo     stock.RestockTaskRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRepo stock.ProductStockRepository,
	movementRepo stock.StockMovementRepository,
	taskRepo stock.RestockTaskRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		taskRepo:     taskRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the product stock repository.
func (s *NoOpTransactionScope) StockRepo() stock.ProductStockRepository {
	return s.stockRepo
}

// MovementRepo returns the movement ledger repository.
func (s *NoOpTransactionScope) MovementRepo() stock.StockMovementRepository {
	return s.movementRepo
}

// TaskRepo returns the restock task repository.
func (s *NoOpTransactionScope) TaskRepo() stock.RestockTaskRepository {
	return s.taskRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
