package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// MovementType classifies a ledger entry. The set is closed: every quantity
// change to a product is exactly one of these.
type MovementType string

const (
	// MovementTypeSupply is goods received from a supply intake
	MovementTypeSupply MovementType = "SUPPLY"
	// MovementTypeWriteOff is stock removed (breakage, spoilage, loss)
	MovementTypeWriteOff MovementType = "WRITE_OFF"
	// MovementTypeManualEdit is a direct quantity correction by a user
	MovementTypeManualEdit MovementType = "MANUAL_EDIT"
	// MovementTypeInventoryAdjustment is a correction from reconciliation close
	MovementTypeInventoryAdjustment MovementType = "INVENTORY_ADJUSTMENT"
	// MovementTypeInternalMove is a front/back transfer that leaves the total unchanged
	MovementTypeInternalMove MovementType = "INTERNAL_MOVE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSupply,
		MovementTypeWriteOff,
		MovementTypeManualEdit,
		MovementTypeInventoryAdjustment,
		MovementTypeInternalMove:
		return true
	}
	return false
}

// SourceType identifies the kind of entity that caused a movement
type SourceType string

const (
	// SourceTypeSupply is a supply intake document
	SourceTypeSupply SourceType = "SUPPLY"
	// SourceTypeReconciliation is a reconciliation session
	SourceTypeReconciliation SourceType = "RECONCILIATION"
	// SourceTypeRestockTask is a completed restock task
	SourceTypeRestockTask SourceType = "RESTOCK_TASK"
	// SourceTypeManual is a direct user action with no backing document
	SourceTypeManual SourceType = "MANUAL"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeSupply, SourceTypeReconciliation, SourceTypeRestockTask, SourceTypeManual:
		return true
	}
	return false
}

// StockMovement is one immutable ledger entry. Once written it is never
// updated or deleted; corrections are new entries.
//
// NewStock == PreviousStock + ChangeAmount is a standing invariant, enforced
// at construction. Quantity carries the absolute quantity involved, which for
// INTERNAL_MOVE entries is the moved amount while ChangeAmount stays zero.
type StockMovement struct {
	shared.BaseEntity
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_product_time,priority:1"`
	MovementType  MovementType    `gorm:"type:varchar(30);not null;index:idx_stock_movement_type"`
	ChangeAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always non-negative
	PreviousStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(255)"`
	SourceType    SourceType      `gorm:"type:varchar(30);not null;index:idx_stock_movement_source"`
	SourceID      *uuid.UUID      `gorm:"type:uuid;index:idx_stock_movement_source"` // Related entity, optional
	ActorID       *uuid.UUID      `gorm:"type:uuid"`                                 // Nil for system-initiated entries
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_movement_product_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger entry after validating the audit
// invariant newStock == previousStock + changeAmount.
func NewStockMovement(
	productID uuid.UUID,
	movementType MovementType,
	changeAmount decimal.Decimal,
	previousStock decimal.Decimal,
	newStock decimal.Decimal,
	sourceType SourceType,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if previousStock.IsNegative() || newStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock snapshots cannot be negative")
	}
	if !previousStock.Add(changeAmount).Equal(newStock) {
		return nil, shared.ErrInvalidInvariant
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		MovementType:  movementType,
		ChangeAmount:  changeAmount,
		Quantity:      changeAmount.Abs(),
		PreviousStock: previousStock,
		NewStock:      newStock,
		SourceType:    sourceType,
		OccurredAt:    time.Now(),
	}, nil
}

// NewInternalMoveMovement creates an INTERNAL_MOVE entry: the total is
// unchanged, so ChangeAmount is zero and Quantity records the moved amount.
func NewInternalMoveMovement(productID uuid.UUID, moved, total decimal.Decimal, taskID uuid.UUID) (*StockMovement, error) {
	m, err := NewStockMovement(productID, MovementTypeInternalMove, decimal.Zero, total, total, SourceTypeRestockTask)
	if err != nil {
		return nil, err
	}
	if moved.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Moved quantity cannot be negative")
	}
	m.Quantity = moved
	m.SourceID = &taskID
	return m, nil
}

// WithReason sets the free-text reason for the movement
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// WithSourceID sets the related entity reference
func (m *StockMovement) WithSourceID(sourceID uuid.UUID) *StockMovement {
	m.SourceID = &sourceID
	return m
}

// WithActorID sets the user who caused the movement
func (m *StockMovement) WithActorID(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// IsSystemInitiated returns true if no actor is attributed
func (m *StockMovement) IsSystemInitiated() bool {
	return m.ActorID == nil
}
