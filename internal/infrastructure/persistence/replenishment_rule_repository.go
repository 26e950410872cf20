package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// GormReplenishmentRuleRepository implements ReplenishmentRuleRepository using
// GORM. Rules are maintained by the surrounding warehouse tooling; this side
// only reads them.
type GormReplenishmentRuleRepository struct {
	db *gorm.DB
}

// NewGormReplenishmentRuleRepository creates a new GormReplenishmentRuleRepository
func NewGormReplenishmentRuleRepository(db *gorm.DB) *GormReplenishmentRuleRepository {
	return &GormReplenishmentRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormReplenishmentRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ReplenishmentRule, error) {
	var rule stock.ReplenishmentRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll finds all rules
func (r *GormReplenishmentRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.ReplenishmentRule, error) {
	var rules []stock.ReplenishmentRule
	query := r.db.WithContext(ctx).Model(&stock.ReplenishmentRule{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("created_at " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindByTargetWarehouse finds rules replenishing a warehouse
func (r *GormReplenishmentRuleRepository) FindByTargetWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]stock.ReplenishmentRule, error) {
	var rules []stock.ReplenishmentRule
	if err := r.db.WithContext(ctx).
		Where("target_warehouse_id = ?", warehouseID).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

var _ stock.ReplenishmentRuleRepository = (*GormReplenishmentRuleRepository)(nil)
