package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/reconciliation"
)

// OpenSessionRequest opens a reconciliation session
type OpenSessionRequest struct {
	TargetMetricKey *string    `json:"target_metric_key,omitempty"`
	CategoryScopeID *uuid.UUID `json:"category_scope_id,omitempty"`
	WarehouseID     *uuid.UUID `json:"warehouse_id,omitempty"`
	ActorID         uuid.UUID  `json:"actor_id"`
}

// RecordCountRequest records an actual counted quantity for an item
type RecordCountRequest struct {
	ItemID uuid.UUID       `json:"item_id"`
	Actual decimal.Decimal `json:"actual"`
}

// AddItemRequest adds a product found on the shelf mid-count
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

// CloseSessionRequest closes a session against a reported revenue figure
type CloseSessionRequest struct {
	ReportedRevenue decimal.Decimal `json:"reported_revenue"`
	ActorID         uuid.UUID       `json:"actor_id"`
}

// SessionItemResponse is one product line of a session
type SessionItemResponse struct {
	ID                   uuid.UUID        `json:"id"`
	ProductID            uuid.UUID        `json:"product_id"`
	ProductName          string           `json:"product_name"`
	ExpectedStock        decimal.Decimal  `json:"expected_stock"`
	ActualStock          *decimal.Decimal `json:"actual_stock,omitempty"`
	CostPriceSnapshot    decimal.Decimal  `json:"cost_price_snapshot"`
	SellingPriceSnapshot decimal.Decimal  `json:"selling_price_snapshot"`
	Difference           decimal.Decimal  `json:"difference"`
	CalculatedRevenue    decimal.Decimal  `json:"calculated_revenue"`
	Counted              bool             `json:"counted"`
}

// SessionResponse is the full view of a reconciliation session
type SessionResponse struct {
	ID                uuid.UUID             `json:"id"`
	Status            string                `json:"status"`
	StartedAt         time.Time             `json:"started_at"`
	ClosedAt          *time.Time            `json:"closed_at,omitempty"`
	TargetMetricKey   *string               `json:"target_metric_key,omitempty"`
	ReportedRevenue   decimal.Decimal       `json:"reported_revenue"`
	CalculatedRevenue decimal.Decimal       `json:"calculated_revenue"`
	RevenueDifference decimal.Decimal       `json:"revenue_difference"`
	CategoryScopeID   *uuid.UUID            `json:"category_scope_id,omitempty"`
	WarehouseID       *uuid.UUID            `json:"warehouse_id,omitempty"`
	OpenedBy          *uuid.UUID            `json:"opened_by,omitempty"`
	ClosedBy          *uuid.UUID            `json:"closed_by,omitempty"`
	TotalItems        int                   `json:"total_items"`
	CountedItems      int                   `json:"counted_items"`
	Items             []SessionItemResponse `json:"items,omitempty"`
}

// SessionListResponse is the compact listing view of a session
type SessionListResponse struct {
	ID                uuid.UUID       `json:"id"`
	Status            string          `json:"status"`
	StartedAt         time.Time       `json:"started_at"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	RevenueDifference decimal.Decimal `json:"revenue_difference"`
	TotalItems        int             `json:"total_items"`
	CountedItems      int             `json:"counted_items"`
}

// SessionListFilter carries pagination for session listings
type SessionListFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir"`
}

// ToSessionItemResponse converts a SessionItem to its response DTO
func ToSessionItemResponse(item *reconciliation.SessionItem) SessionItemResponse {
	return SessionItemResponse{
		ID:                   item.ID,
		ProductID:            item.ProductID,
		ProductName:          item.ProductName,
		ExpectedStock:        item.ExpectedStock,
		ActualStock:          item.ActualStock,
		CostPriceSnapshot:    item.CostPriceSnapshot,
		SellingPriceSnapshot: item.SellingPriceSnapshot,
		Difference:           item.Difference,
		CalculatedRevenue:    item.CalculatedRevenue,
		Counted:              item.Counted(),
	}
}

// ToSessionResponse converts a Session to its full response DTO
func ToSessionResponse(s *reconciliation.Session) SessionResponse {
	items := make([]SessionItemResponse, len(s.Items))
	for i := range s.Items {
		items[i] = ToSessionItemResponse(&s.Items[i])
	}
	return SessionResponse{
		ID:                s.ID,
		Status:            s.Status.String(),
		StartedAt:         s.StartedAt,
		ClosedAt:          s.ClosedAt,
		TargetMetricKey:   s.TargetMetricKey,
		ReportedRevenue:   s.ReportedRevenue,
		CalculatedRevenue: s.CalculatedRevenue,
		RevenueDifference: s.RevenueDifference,
		CategoryScopeID:   s.CategoryScopeID,
		WarehouseID:       s.WarehouseID,
		OpenedBy:          s.OpenedBy,
		ClosedBy:          s.ClosedBy,
		TotalItems:        len(s.Items),
		CountedItems:      s.CountedItems(),
		Items:             items,
	}
}

// ToSessionListResponse converts a Session to its listing DTO
func ToSessionListResponse(s *reconciliation.Session) SessionListResponse {
	return SessionListResponse{
		ID:                s.ID,
		Status:            s.Status.String(),
		StartedAt:         s.StartedAt,
		ClosedAt:          s.ClosedAt,
		RevenueDifference: s.RevenueDifference,
		TotalItems:        len(s.Items),
		CountedItems:      s.CountedItems(),
	}
}

// ToSessionListResponses converts a slice of Session to listing DTOs
func ToSessionListResponses(sessions []reconciliation.Session) []SessionListResponse {
	responses := make([]SessionListResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionListResponse(&sessions[i])
	}
	return responses
}
