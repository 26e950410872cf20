package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// ReplenishmentRule is a min/max threshold pair governing warehouse-to-
// warehouse transfers for one product. Read-only to the stock core; rules are
// maintained by the surrounding settings screens and evaluated as a batch.
type ReplenishmentRule struct {
	shared.BaseEntity
	SourceWarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetWarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinStockLevel     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxStockLevel     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReplenishmentRule) TableName() string {
	return "replenishment_rules"
}

// NewReplenishmentRule creates a rule. Max must exceed min and the two
// warehouses must differ.
func NewReplenishmentRule(sourceWarehouseID, targetWarehouseID, productID uuid.UUID, minLevel, maxLevel decimal.Decimal) (*ReplenishmentRule, error) {
	if sourceWarehouseID == uuid.Nil || targetWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse IDs cannot be empty")
	}
	if sourceWarehouseID == targetWarehouseID {
		return nil, shared.ErrCircularReference
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if minLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Minimum stock level cannot be negative")
	}
	if !maxLevel.GreaterThan(minLevel) {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Maximum stock level must exceed minimum")
	}

	return &ReplenishmentRule{
		BaseEntity:        shared.NewBaseEntity(),
		SourceWarehouseID: sourceWarehouseID,
		TargetWarehouseID: targetWarehouseID,
		ProductID:         productID,
		MinStockLevel:     minLevel,
		MaxStockLevel:     maxLevel,
	}, nil
}

// NeedsTransfer returns true when the target warehouse stock has dropped to
// or below the rule's minimum.
func (r *ReplenishmentRule) NeedsTransfer(targetStock decimal.Decimal) bool {
	return targetStock.LessThanOrEqual(r.MinStockLevel)
}

// SuggestedQuantity is the amount that would bring the target warehouse back
// to the rule's maximum.
func (r *ReplenishmentRule) SuggestedQuantity(targetStock decimal.Decimal) decimal.Decimal {
	qty := r.MaxStockLevel.Sub(targetStock)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}
