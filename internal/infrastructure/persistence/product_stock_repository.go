package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// GormProductStockRepository implements ProductStockRepository using GORM
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormProductStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ProductStock, error) {
	var ps stock.ProductStock
	if err := r.db.WithContext(ctx).First(&ps, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ps, nil
}

// FindByProductID finds the stock record for a product
func (r *GormProductStockRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*stock.ProductStock, error) {
	var ps stock.ProductStock
	if err := r.db.WithContext(ctx).First(&ps, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ps, nil
}

// FindByProductIDForUpdate finds the stock record for a product with a
// SELECT ... FOR UPDATE row lock. Must run inside a transaction; mutations on
// the same product serialize on this lock.
func (r *GormProductStockRepository) FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*stock.ProductStock, error) {
	var ps stock.ProductStock
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ps, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ps, nil
}

// FindActive finds all active stock records
func (r *GormProductStockRepository) FindActive(ctx context.Context, filter shared.Filter) ([]stock.ProductStock, error) {
	var records []stock.ProductStock
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ProductStock{}).Where("is_active = ?", true),
		filter,
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindActiveByCategory finds active stock records scoped to a category
func (r *GormProductStockRepository) FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]stock.ProductStock, error) {
	var records []stock.ProductStock
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ProductStock{}).
			Where("is_active = ? AND category_id = ?", true, categoryID),
		filter,
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a stock record
func (r *GormProductStockRepository) Save(ctx context.Context, ps *stock.ProductStock) error {
	return r.db.WithContext(ctx).Save(ps).Error
}

// Count counts stock records matching the filter
func (r *GormProductStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.ProductStock{})
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductStockRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductStockSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "name" && filter.OrderDir == "" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

var _ stock.ProductStockRepository = (*GormProductStockRepository)(nil)
