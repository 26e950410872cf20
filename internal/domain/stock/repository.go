package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// ProductStockRepository defines the interface for product stock persistence
type ProductStockRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductStock, error)

	// FindByProductID finds the stock record for a product
	FindByProductID(ctx context.Context, productID uuid.UUID) (*ProductStock, error)

	// FindByProductIDForUpdate finds the stock record for a product and takes
	// a row-level lock for the duration of the surrounding transaction.
	// Mutations on the same product are serialized through this lock.
	FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*ProductStock, error)

	// FindActive finds all active stock records
	FindActive(ctx context.Context, filter shared.Filter) ([]ProductStock, error)

	// FindActiveByCategory finds active stock records scoped to a category
	FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]ProductStock, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, ps *ProductStock) error

	// Count counts stock records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for the append-only ledger
type StockMovementRepository interface {
	// Create appends a movement (no update or delete is ever allowed)
	Create(ctx context.Context, m *StockMovement) error

	// FindByProduct finds movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]StockMovement, error)

	// FindByProductAndType finds movements for a product filtered by type
	FindByProductAndType(ctx context.Context, productID uuid.UUID, movementType MovementType, limit int) ([]StockMovement, error)

	// FindBySource finds movements caused by a related entity
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]StockMovement, error)

	// ReplayTotal sums all signed changes for a product, oldest first.
	// Replaying from zero must reproduce the product's current total.
	ReplayTotal(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)

	// SumOutflowSince sums the absolute outbound quantity of the given
	// movement type since a point in time (velocity input)
	SumOutflowSince(ctx context.Context, productID uuid.UUID, movementType MovementType, since time.Time) (decimal.Decimal, error)

	// CountByProduct counts ledger entries for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// RestockTaskRepository defines the interface for restock task persistence
type RestockTaskRepository interface {
	// FindByID finds a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RestockTask, error)

	// FindOpenByProduct finds the OPEN task of a type for a product, if any
	FindOpenByProduct(ctx context.Context, productID uuid.UUID, taskType TaskType) (*RestockTask, error)

	// FindOpenByRule finds the OPEN transfer task generated by a rule, if any
	FindOpenByRule(ctx context.Context, ruleID uuid.UUID) (*RestockTask, error)

	// FindByStatus finds tasks with a status
	FindByStatus(ctx context.Context, status TaskStatus, filter shared.Filter) ([]RestockTask, error)

	// Save creates or updates a task
	Save(ctx context.Context, task *RestockTask) error

	// CountOpen counts OPEN tasks
	CountOpen(ctx context.Context) (int64, error)
}

// ReplenishmentRuleRepository defines the interface for rule persistence.
// The stock core only reads rules; they are maintained elsewhere.
type ReplenishmentRuleRepository interface {
	// FindByID finds a rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReplenishmentRule, error)

	// FindAll finds all rules
	FindAll(ctx context.Context, filter shared.Filter) ([]ReplenishmentRule, error)

	// FindByTargetWarehouse finds rules replenishing a warehouse
	FindByTargetWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]ReplenishmentRule, error)
}

// WarehouseStockReader provides per-warehouse stock levels for rule
// evaluation. Warehouse stock is owned by the surrounding warehouse module;
// the core only reads through this contract.
type WarehouseStockReader interface {
	// StockLevel returns the current stock of a product in a warehouse
	StockLevel(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, error)
}
