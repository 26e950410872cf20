package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/venueops/backend/internal/domain/shared"
)

// TaskType distinguishes shelf restock work from warehouse transfer work
type TaskType string

const (
	// TaskTypeRestock moves back stock to the front bucket of one product
	TaskTypeRestock TaskType = "RESTOCK"
	// TaskTypeTransfer moves stock between warehouses per a replenishment rule
	TaskTypeTransfer TaskType = "TRANSFER"
)

// IsValid returns true if the task type is valid
func (t TaskType) IsValid() bool {
	return t == TaskTypeRestock || t == TaskTypeTransfer
}

// TaskStatus is the lifecycle of a work item
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "OPEN"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// RestockTask is a generated work item. At most one OPEN task exists per
// product and type; completion is a user action, never automatic.
type RestockTask struct {
	shared.BaseEntity
	TaskType    TaskType   `gorm:"type:varchar(20);not null;index:idx_restock_task_open,priority:2"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_restock_task_open,priority:1"`
	RuleID      *uuid.UUID `gorm:"type:uuid;index"` // Set for TRANSFER tasks
	Priority    int        `gorm:"not null;default:0"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;index:idx_restock_task_open,priority:3"`
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (RestockTask) TableName() string {
	return "restock_tasks"
}

// NewRestockTask creates an OPEN restock task for a product
func NewRestockTask(productID uuid.UUID, priority int) (*RestockTask, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &RestockTask{
		BaseEntity: shared.NewBaseEntity(),
		TaskType:   TaskTypeRestock,
		ProductID:  productID,
		Priority:   priority,
		Status:     TaskStatusOpen,
	}, nil
}

// NewTransferTask creates an OPEN warehouse transfer task from a rule
func NewTransferTask(productID, ruleID uuid.UUID, priority int) (*RestockTask, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if ruleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RULE", "Rule ID cannot be empty")
	}
	return &RestockTask{
		BaseEntity: shared.NewBaseEntity(),
		TaskType:   TaskTypeTransfer,
		ProductID:  productID,
		RuleID:     &ruleID,
		Priority:   priority,
		Status:     TaskStatusOpen,
	}, nil
}

// IsOpen returns true while the task awaits completion
func (t *RestockTask) IsOpen() bool {
	return t.Status == TaskStatusOpen
}

// Complete marks the task done. Completing twice is an invalid state.
func (t *RestockTask) Complete(actorID uuid.UUID) error {
	if t.Status != TaskStatusOpen {
		return shared.ErrInvalidState
	}
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	if actorID != uuid.Nil {
		t.CompletedBy = &actorID
	}
	t.UpdatedAt = now
	return nil
}
