package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/stock"
)

// CreateStockRequest creates the stock record for a product
type CreateStockRequest struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	MaxFront     decimal.Decimal `json:"max_front"`
	MinFront     decimal.Decimal `json:"min_front"`
	ActorID      *uuid.UUID      `json:"actor_id,omitempty"`
}

// RecordSupplyRequest receives goods into stock
type RecordSupplyRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SupplyID  *uuid.UUID      `json:"supply_id,omitempty"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
}

// WriteOffRequest removes stock with a reason
type WriteOffRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
}

// ManualEditRequest overwrites the total and the split configuration
type ManualEditRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	NewTotal  decimal.Decimal `json:"new_total"`
	MinFront  decimal.Decimal `json:"min_front"`
	MaxFront  decimal.Decimal `json:"max_front"`
	Reason    string          `json:"reason"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
}

// UpdatePricesRequest sets new cost and selling prices
type UpdatePricesRequest struct {
	ProductID    uuid.UUID       `json:"product_id"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// StockStateResponse is the read view of a product's stock
type StockStateResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Front        decimal.Decimal `json:"front"`
	Back         decimal.Decimal `json:"back"`
	Capacity     decimal.Decimal `json:"capacity"`
	MinFront     decimal.Decimal `json:"min_front"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	IsActive     bool            `json:"is_active"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToStockStateResponse converts a ProductStock to its response DTO
func ToStockStateResponse(ps *stock.ProductStock) StockStateResponse {
	return StockStateResponse{
		ID:           ps.ID,
		ProductID:    ps.ProductID,
		Name:         ps.Name,
		CategoryID:   ps.CategoryID,
		Total:        ps.TotalQuantity,
		Front:        ps.FrontQuantity,
		Back:         ps.BackQuantity,
		Capacity:     ps.MaxFrontQuantity,
		MinFront:     ps.MinFrontQuantity,
		CostPrice:    ps.CostPrice,
		SellingPrice: ps.SellingPrice,
		IsActive:     ps.IsActive,
		UpdatedAt:    ps.UpdatedAt,
	}
}

// ToStockStateResponses converts a slice of ProductStock to response DTOs
func ToStockStateResponses(items []stock.ProductStock) []StockStateResponse {
	responses := make([]StockStateResponse, len(items))
	for i := range items {
		responses[i] = ToStockStateResponse(&items[i])
	}
	return responses
}

// CurrentStateResponse is the compact read view served by CurrentState
type CurrentStateResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Total     decimal.Decimal `json:"total"`
	Front     decimal.Decimal `json:"front"`
	Back      decimal.Decimal `json:"back"`
	Capacity  decimal.Decimal `json:"capacity"`
}

// ToCurrentStateResponse converts a StockState to its response DTO
func ToCurrentStateResponse(productID uuid.UUID, state stock.StockState) CurrentStateResponse {
	return CurrentStateResponse{
		ProductID: productID,
		Total:     state.Total,
		Front:     state.Front,
		Back:      state.Back,
		Capacity:  state.Capacity,
	}
}

// LedgerCheckResponse reports whether replaying the ledger reproduces the
// current total
type LedgerCheckResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	LedgerTotal  decimal.Decimal `json:"ledger_total"`
	CurrentTotal decimal.Decimal `json:"current_total"`
	Consistent   bool            `json:"consistent"`
}

// MovementResponse is one ledger entry
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	Reason        string          `json:"reason,omitempty"`
	SourceType    string          `json:"source_type"`
	SourceID      *uuid.UUID      `json:"source_id,omitempty"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ToMovementResponse converts a StockMovement to its response DTO
func ToMovementResponse(m *stock.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		MovementType:  m.MovementType.String(),
		ChangeAmount:  m.ChangeAmount,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		SourceType:    m.SourceType.String(),
		SourceID:      m.SourceID,
		ActorID:       m.ActorID,
		OccurredAt:    m.OccurredAt,
	}
}

// ToMovementResponses converts a slice of StockMovement to response DTOs
func ToMovementResponses(items []stock.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(items))
	for i := range items {
		responses[i] = ToMovementResponse(&items[i])
	}
	return responses
}

// RestockTaskResponse is one restock or transfer work item
type RestockTaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	TaskType    string     `json:"task_type"`
	ProductID   uuid.UUID  `json:"product_id"`
	RuleID      *uuid.UUID `json:"rule_id,omitempty"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToRestockTaskResponse converts a RestockTask to its response DTO
func ToRestockTaskResponse(task *stock.RestockTask) RestockTaskResponse {
	return RestockTaskResponse{
		ID:          task.ID,
		TaskType:    string(task.TaskType),
		ProductID:   task.ProductID,
		RuleID:      task.RuleID,
		Priority:    task.Priority,
		Status:      string(task.Status),
		CompletedBy: task.CompletedBy,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
	}
}

// ToRestockTaskResponses converts a slice of RestockTask to response DTOs
func ToRestockTaskResponses(items []stock.RestockTask) []RestockTaskResponse {
	responses := make([]RestockTaskResponse, len(items))
	for i := range items {
		responses[i] = ToRestockTaskResponse(&items[i])
	}
	return responses
}

// StockListFilter carries pagination and filtering for stock listings
type StockListFilter struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	OrderBy    string     `json:"order_by"`
	OrderDir   string     `json:"order_dir"`
	Search     string     `json:"search"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// TaskListFilter carries pagination for task listings
type TaskListFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir"`
}
