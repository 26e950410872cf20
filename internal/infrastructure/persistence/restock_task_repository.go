package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// GormRestockTaskRepository implements RestockTaskRepository using GORM.
// The partial unique index on (product_id, task_type) WHERE status = 'OPEN'
// backs the find-or-create idempotency under concurrency.
type GormRestockTaskRepository struct {
	db *gorm.DB
}

// NewGormRestockTaskRepository creates a new GormRestockTaskRepository
func NewGormRestockTaskRepository(db *gorm.DB) *GormRestockTaskRepository {
	return &GormRestockTaskRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormRestockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.RestockTask, error) {
	var task stock.RestockTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindOpenByProduct finds the OPEN task of a type for a product, if any
func (r *GormRestockTaskRepository) FindOpenByProduct(ctx context.Context, productID uuid.UUID, taskType stock.TaskType) (*stock.RestockTask, error) {
	var task stock.RestockTask
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND task_type = ? AND status = ?", productID, taskType, stock.TaskStatusOpen).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindOpenByRule finds the OPEN transfer task generated by a rule, if any
func (r *GormRestockTaskRepository) FindOpenByRule(ctx context.Context, ruleID uuid.UUID) (*stock.RestockTask, error) {
	var task stock.RestockTask
	if err := r.db.WithContext(ctx).
		Where("rule_id = ? AND status = ?", ruleID, stock.TaskStatusOpen).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByStatus finds tasks with a status
func (r *GormRestockTaskRepository) FindByStatus(ctx context.Context, status stock.TaskStatus, filter shared.Filter) ([]stock.RestockTask, error) {
	var tasks []stock.RestockTask
	query := r.db.WithContext(ctx).Model(&stock.RestockTask{}).Where("status = ?", status)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, RestockTaskSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save creates or updates a task
func (r *GormRestockTaskRepository) Save(ctx context.Context, task *stock.RestockTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// CountOpen counts OPEN tasks
func (r *GormRestockTaskRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.RestockTask{}).
		Where("status = ?", stock.TaskStatusOpen).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ stock.RestockTaskRepository = (*GormRestockTaskRepository)(nil)
