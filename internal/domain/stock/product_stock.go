package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// ProductStock is the mutable current-state stock record for a product.
// It is the aggregate root for all stock mutations: total quantity and its
// split into a capacity-bounded front bucket (shelf/display) and a back
// bucket (bulk storage). The invariant FrontQuantity + BackQuantity ==
// TotalQuantity must hold after every mutation.
type ProductStock struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_product"`
	Name             string          `gorm:"type:varchar(255);not null"` // Denormalized for logs and alerts
	CategoryID       *uuid.UUID      `gorm:"type:uuid;index"`            // Weak reference, lookup only
	CostPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FrontQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BackQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxFrontQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // 0 disables split tracking
	MinFrontQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Restock threshold
	IsActive         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stocks"
}

// StockState is the read view of a product's stock exposed to callers.
type StockState struct {
	Total    decimal.Decimal
	Front    decimal.Decimal
	Back     decimal.Decimal
	Capacity decimal.Decimal
}

// NewProductStock creates the stock record for a product. The opening balance
// fills front first, spilling any overflow to back.
func NewProductStock(productID uuid.UUID, name string, costPrice, sellingPrice, openingTotal, maxFront, minFront decimal.Decimal) (*ProductStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if openingTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening stock cannot be negative")
	}
	if maxFront.IsNegative() || minFront.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Capacity and threshold cannot be negative")
	}

	split, err := SplitOnChange(Split{}, openingTotal, maxFront, true)
	if err != nil {
		return nil, err
	}

	ps := &ProductStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Name:              name,
		CostPrice:         costPrice,
		SellingPrice:      sellingPrice,
		TotalQuantity:     openingTotal,
		FrontQuantity:     split.Front,
		BackQuantity:      split.Back,
		MaxFrontQuantity:  maxFront,
		MinFrontQuantity:  minFront,
		IsActive:          true,
	}

	ps.AddDomainEvent(NewProductStockCreatedEvent(ps))

	return ps, nil
}

// State returns the current stock state.
func (p *ProductStock) State() StockState {
	return StockState{
		Total:    p.TotalQuantity,
		Front:    p.FrontQuantity,
		Back:     p.BackQuantity,
		Capacity: p.MaxFrontQuantity,
	}
}

// Split returns the current front/back split.
func (p *ProductStock) Split() Split {
	return Split{Front: p.FrontQuantity, Back: p.BackQuantity}
}

// SplitEnabled returns true if front/back split tracking is active.
func (p *ProductStock) SplitEnabled() bool {
	return p.MaxFrontQuantity.IsPositive()
}

// ReceiveSupply increases stock by quantity and records the latest unit cost
// (last-cost costing, not weighted average). With split tracking active, the
// received quantity lands in back.
func (p *ProductStock) ReceiveSupply(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Supply quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	if p.SplitEnabled() {
		p.BackQuantity = p.BackQuantity.Add(quantity)
	} else {
		p.FrontQuantity = p.FrontQuantity.Add(quantity)
	}
	p.TotalQuantity = p.TotalQuantity.Add(quantity)
	p.CostPrice = unitCost
	p.touch()

	if err := p.checkInvariant(); err != nil {
		return err
	}

	p.emitLowFrontIfNeeded()
	return nil
}

// WriteOff removes quantity from stock, front bucket first, then back.
// Fails with ErrInsufficientStock if quantity exceeds the total.
func (p *ProductStock) WriteOff(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Write-off quantity must be positive")
	}
	if quantity.GreaterThan(p.TotalQuantity) {
		return shared.ErrInsufficientStock
	}

	fromFront := decimal.Min(p.FrontQuantity, quantity)
	fromBack := quantity.Sub(fromFront)

	p.FrontQuantity = p.FrontQuantity.Sub(fromFront)
	p.BackQuantity = p.BackQuantity.Sub(fromBack)
	p.TotalQuantity = p.TotalQuantity.Sub(quantity)
	p.touch()

	if err := p.checkInvariant(); err != nil {
		return err
	}

	p.emitLowFrontIfNeeded()
	return nil
}

// ApplyManualEdit sets a new total quantity and capacity configuration,
// reconciling front/back by the implicit split policy. It returns the net
// quantity delta so the caller can ledger it (zero when only the
// configuration changed).
func (p *ProductStock) ApplyManualEdit(newTotal, minFront, maxFront decimal.Decimal) (decimal.Decimal, error) {
	if newTotal.IsNegative() {
		return decimal.Zero, shared.ErrInsufficientStock
	}
	if minFront.IsNegative() || maxFront.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_THRESHOLD", "Capacity and threshold cannot be negative")
	}

	delta := newTotal.Sub(p.TotalQuantity)

	p.MinFrontQuantity = minFront
	p.MaxFrontQuantity = maxFront

	split, err := SplitOnChange(p.Split(), newTotal, maxFront, false)
	if err != nil {
		return decimal.Zero, err
	}

	p.FrontQuantity = split.Front
	p.BackQuantity = split.Back
	p.TotalQuantity = newTotal
	p.touch()

	if err := p.checkInvariant(); err != nil {
		return decimal.Zero, err
	}

	p.emitLowFrontIfNeeded()
	return delta, nil
}

// ApplyCountResult authoritatively overwrites the total with a counted
// quantity at reconciliation close. Front is filled up to capacity and the
// remainder goes to back; with split tracking off everything is front.
// Returns the signed delta (actual - previous total).
func (p *ProductStock) ApplyCountResult(actual decimal.Decimal) (decimal.Decimal, error) {
	if actual.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	delta := actual.Sub(p.TotalQuantity)

	if p.SplitEnabled() {
		front := decimal.Min(actual, p.MaxFrontQuantity)
		p.FrontQuantity = front
		p.BackQuantity = actual.Sub(front)
	} else {
		p.FrontQuantity = actual
		p.BackQuantity = decimal.Zero
	}
	p.TotalQuantity = actual
	p.touch()

	if err := p.checkInvariant(); err != nil {
		return decimal.Zero, err
	}

	return delta, nil
}

// MoveBackToFront moves quantity from back storage to the front bucket,
// capped by both available back stock and front capacity headroom. The total
// is unchanged. Returns the quantity actually moved.
func (p *ProductStock) MoveBackToFront() (decimal.Decimal, error) {
	if !p.SplitEnabled() {
		return decimal.Zero, shared.NewDomainError("SPLIT_DISABLED", "Split tracking is not active for this product")
	}

	headroom := p.MaxFrontQuantity.Sub(p.FrontQuantity)
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	moved := decimal.Min(p.BackQuantity, headroom)
	if moved.IsZero() {
		return decimal.Zero, nil
	}

	p.BackQuantity = p.BackQuantity.Sub(moved)
	p.FrontQuantity = p.FrontQuantity.Add(moved)
	p.touch()

	if err := p.checkInvariant(); err != nil {
		return decimal.Zero, err
	}

	return moved, nil
}

// UpdatePrices sets new cost and selling prices.
func (p *ProductStock) UpdatePrices(costPrice, sellingPrice decimal.Decimal) error {
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.CostPrice = costPrice
	p.SellingPrice = sellingPrice
	p.touch()
	return nil
}

// Deactivate soft-deletes the record. Ledger rows keep referencing it.
func (p *ProductStock) Deactivate() {
	p.IsActive = false
	p.touch()
}

// NeedsRestock returns true when the front bucket has dropped to or below the
// restock threshold and there is back stock to pull from.
func (p *ProductStock) NeedsRestock() bool {
	return p.SplitEnabled() &&
		p.FrontQuantity.LessThanOrEqual(p.MinFrontQuantity) &&
		p.BackQuantity.IsPositive()
}

// checkInvariant verifies front + back == total and both are non-negative.
// Unreachable if the split policy is applied correctly, but checked after
// every mutation.
func (p *ProductStock) checkInvariant() error {
	if p.FrontQuantity.IsNegative() || p.BackQuantity.IsNegative() {
		return shared.ErrInsufficientStock
	}
	if !p.FrontQuantity.Add(p.BackQuantity).Equal(p.TotalQuantity) {
		return shared.ErrInvalidInvariant
	}
	return nil
}

func (p *ProductStock) emitLowFrontIfNeeded() {
	if p.NeedsRestock() {
		p.AddDomainEvent(NewFrontStockBelowThresholdEvent(p))
	}
}

func (p *ProductStock) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
