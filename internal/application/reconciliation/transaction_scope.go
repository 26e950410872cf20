package reconciliation

import (
	"context"

	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories a
// reconciliation workflow touches. Closing a session mutates product stock and
// the movement ledger alongside the session itself, so all three repositories
// share one transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the reconciliation and stock
// repositories within a transaction. TaskRepo is included because applying
// count adjustments can push front stock below its restock threshold, and the
// replenishment check runs in the same transaction as the mutation.
type TransactionalRepositories interface {
	// SessionRepo returns the session repository scoped to the current transaction
	SessionRepo() reconciliation.SessionRepository
	// StockRepo returns the product stock repository scoped to the current transaction
	StockRepo() stock.ProductStockRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() stock.StockMovementRepository
	// TaskRepo returns the restock task repository scoped to the current transaction
	TaskRepo() stock.RestockTaskRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	sessionRepo  reconciliation.SessionRepository
	stockRepo    stock.ProductStockRepository
	movementRepo stock.StockMovementRepository
	taskRepo     stock.RestockTaskRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	sessionRepo reconciliation.SessionRepository,
	stockRepo stock.ProductStockRepository,
	movementRepo stock.StockMovementRepository,
	taskRepo stock.RestockTaskRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		sessionRepo:  sessionRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		taskRepo:     taskRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SessionRepo returns the session repository.
func (s *NoOpTransactionScope) SessionRepo() reconciliation.SessionRepository {
	return s.sessionRepo
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
