package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProductStock = "ProductStock"

// Event type constants
const (
	EventTypeProductStockCreated      = "ProductStockCreated"
	EventTypeFrontStockBelowThreshold = "FrontStockBelowThreshold"
	EventTypeRestockTaskCreated       = "RestockTaskCreated"
)

// ProductStockCreatedEvent is raised when a stock record is first created
type ProductStockCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
}

// NewProductStockCreatedEvent creates a new ProductStockCreatedEvent
func NewProductStockCreatedEvent(ps *ProductStock) *ProductStockCreatedEvent {
	return &ProductStockCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockCreated, AggregateTypeProductStock, ps.ID),
		ProductID:       ps.ProductID,
		OpeningStock:    ps.TotalQuantity,
	}
}

// EventType returns the event type name
func (e *ProductStockCreatedEvent) EventType() string {
	return EventTypeProductStockCreated
}

// FrontStockBelowThresholdEvent is raised when the front bucket drops to or
// below the restock threshold while back stock is available
type FrontStockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	FrontQuantity decimal.Decimal `json:"front_quantity"`
	MinFront      decimal.Decimal `json:"min_front"`
	BackQuantity  decimal.Decimal `json:"back_quantity"`
}

// NewFrontStockBelowThresholdEvent creates a new FrontStockBelowThresholdEvent
func NewFrontStockBelowThresholdEvent(ps *ProductStock) *FrontStockBelowThresholdEvent {
	return &FrontStockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFrontStockBelowThreshold, AggregateTypeProductStock, ps.ID),
		ProductID:       ps.ProductID,
		ProductName:     ps.Name,
		FrontQuantity:   ps.FrontQuantity,
		MinFront:        ps.MinFrontQuantity,
		BackQuantity:    ps.BackQuantity,
	}
}

// EventType returns the event type name
func (e *FrontStockBelowThresholdEvent) EventType() string {
	return EventTypeFrontStockBelowThreshold
}

// RestockTaskCreatedEvent is raised when the replenishment engine generates a
// new work item
type RestockTaskCreatedEvent struct {
	shared.BaseDomainEvent
	TaskID    uuid.UUID `json:"task_id"`
	TaskType  TaskType  `json:"task_type"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewRestockTaskCreatedEvent creates a new RestockTaskCreatedEvent
func NewRestockTaskCreatedEvent(task *RestockTask) *RestockTaskCreatedEvent {
	return &RestockTaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockTaskCreated, AggregateTypeProductStock, task.ProductID),
		TaskID:          task.ID,
		TaskType:        task.TaskType,
		ProductID:       task.ProductID,
	}
}

// EventType returns the event type name
func (e *RestockTaskCreatedEvent) EventType() string {
	return EventTypeRestockTaskCreated
}
