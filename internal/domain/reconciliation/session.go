package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// SessionStatus is the reconciliation workflow state. OPEN is initial,
// CLOSED is terminal; there are no other states and no reopening.
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// IsValid returns true if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// SessionItem is one product line in a reconciliation session. The expected
// stock and both price snapshots are frozen at the time the item is created
// so later product edits cannot corrupt the reconciliation.
type SessionItem struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SessionID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName          string           `gorm:"type:varchar(255);not null"`
	ExpectedStock        decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Immutable after creation
	ActualStock          *decimal.Decimal `gorm:"type:decimal(18,4)"`          // Nil until counted
	CostPriceSnapshot    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	SellingPriceSnapshot decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Difference           decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"` // Expected - actual, computed at close
	CalculatedRevenue    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"` // Difference * selling snapshot, computed at close
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName returns the table name for GORM
func (SessionItem) TableName() string {
	return "reconciliation_items"
}

// Counted returns true once an actual count has been recorded
func (i *SessionItem) Counted() bool {
	return i.ActualStock != nil
}

// HasDifference returns true if the counted quantity differs from expected
func (i *SessionItem) HasDifference() bool {
	return i.Counted() && !i.ActualStock.Equal(i.ExpectedStock)
}

// newSessionItem freezes a product's stock and prices into a session line
func newSessionItem(sessionID, productID uuid.UUID, productName string, expected, costPrice, sellingPrice decimal.Decimal) SessionItem {
	now := time.Now()
	return SessionItem{
		ID:                   uuid.New(),
		SessionID:            sessionID,
		ProductID:            productID,
		ProductName:          productName,
		ExpectedStock:        expected,
		CostPriceSnapshot:    costPrice,
		SellingPriceSnapshot: sellingPrice,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Session is a physical-inventory reconciliation: a snapshot of expected
// stock, per-item actual counts, and a close step that reconciles counted
// quantities against a claimed revenue figure. It is the aggregate root for
// the OPEN → CLOSED workflow.
type Session struct {
	shared.BaseAggregateRoot
	Status            SessionStatus    `gorm:"type:varchar(20);not null;index"`
	StartedAt         time.Time        `gorm:"type:timestamptz;not null"`
	ClosedAt          *time.Time       `gorm:"type:timestamptz"` // Nil while OPEN
	TargetMetricKey   *string          `gorm:"type:varchar(100)"`
	ReportedRevenue   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CalculatedRevenue decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	RevenueDifference decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CategoryScopeID   *uuid.UUID       `gorm:"type:uuid"` // Nil = all active products
	WarehouseID       *uuid.UUID       `gorm:"type:uuid"`
	OpenedBy          *uuid.UUID       `gorm:"type:uuid"`
	ClosedBy          *uuid.UUID       `gorm:"type:uuid"`
	Items             []SessionItem    `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "reconciliation_sessions"
}

// NewSession opens a reconciliation session. The caller snapshots products
// into it via AddItem before counting starts.
func NewSession(targetMetricKey *string, categoryScopeID, warehouseID *uuid.UUID, openedBy uuid.UUID) *Session {
	s := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            SessionStatusOpen,
		StartedAt:         time.Now(),
		TargetMetricKey:   targetMetricKey,
		CategoryScopeID:   categoryScopeID,
		WarehouseID:       warehouseID,
		Items:             make([]SessionItem, 0),
	}
	if openedBy != uuid.Nil {
		s.OpenedBy = &openedBy
	}
	s.AddDomainEvent(NewSessionOpenedEvent(s))
	return s
}

// IsOpen returns true while counting is possible
func (s *Session) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// AddItem adds a product line while the session is OPEN. Items found on the
// shelf mid-count use the product's current stock as their expected value,
// not the original snapshot time. Items are never removed once added.
func (s *Session) AddItem(productID uuid.UUID, productName string, expected, costPrice, sellingPrice decimal.Decimal) (*SessionItem, error) {
	if !s.IsOpen() {
		return nil, shared.ErrInventoryClosed
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in session")
		}
	}

	item := newSessionItem(s.ID, productID, productName, expected, costPrice, sellingPrice)
	s.Items = append(s.Items, item)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return &s.Items[len(s.Items)-1], nil
}

// RecordCount sets the actual counted quantity for an item. Counts are free
// entry, including zero or implausibly large values, and may be overwritten
// any number of times while the session is OPEN.
func (s *Session) RecordCount(itemID uuid.UUID, actual decimal.Decimal) error {
	if !s.IsOpen() {
		return shared.ErrInventoryClosed
	}
	if actual.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items[i].ActualStock = &actual
			s.Items[i].UpdatedAt = time.Now()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// CountAdjustment is a per-product stock correction produced by Close for
// every counted item whose actual differs from expected.
type CountAdjustment struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Expected  decimal.Decimal
	Actual    decimal.Decimal
	Delta     decimal.Decimal // Actual - expected, the signed ledger change
}

// Close computes per-item differences and revenue figures and transitions the
// session to CLOSED. Uncounted items are skipped, not treated as zero.
//
// The sign convention is expected - actual: a positive difference means less
// was found than expected (shrinkage, revenue plausibly collected), a
// negative one means surplus stock.
//
// Close returns the adjustments the caller must apply to product stock in the
// same transaction. Calling Close on a CLOSED session fails with
// ErrInventoryClosed and changes nothing.
func (s *Session) Close(reportedRevenue decimal.Decimal, closedBy uuid.UUID) ([]CountAdjustment, error) {
	if !s.IsOpen() {
		return nil, shared.ErrInventoryClosed
	}

	// Without a target metric the reported figure is ignored and revenue
	// reconciliation is purely informational.
	if s.TargetMetricKey == nil {
		reportedRevenue = decimal.Zero
	}

	calculated := decimal.Zero
	adjustments := make([]CountAdjustment, 0)

	for i := range s.Items {
		item := &s.Items[i]
		if !item.Counted() {
			continue
		}

		item.Difference = item.ExpectedStock.Sub(*item.ActualStock)
		item.CalculatedRevenue = item.Difference.Mul(item.SellingPriceSnapshot)
		item.UpdatedAt = time.Now()
		calculated = calculated.Add(item.CalculatedRevenue)

		if item.HasDifference() {
			adjustments = append(adjustments, CountAdjustment{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Expected:  item.ExpectedStock,
				Actual:    *item.ActualStock,
				Delta:     item.ActualStock.Sub(item.ExpectedStock),
			})
		}
	}

	now := time.Now()
	s.ReportedRevenue = reportedRevenue
	s.CalculatedRevenue = calculated
	s.RevenueDifference = reportedRevenue.Sub(calculated)
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	if closedBy != uuid.Nil {
		s.ClosedBy = &closedBy
	}
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSessionClosedEvent(s))

	return adjustments, nil
}

// CountedItems returns the number of items with a recorded count
func (s *Session) CountedItems() int {
	n := 0
	for i := range s.Items {
		if s.Items[i].Counted() {
			n++
		}
	}
	return n
}

// FindItem returns the item with the given ID, or nil
func (s *Session) FindItem(itemID uuid.UUID) *SessionItem {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}
