package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/stock"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The ledger is append-only: this type exposes no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, m *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByProduct finds movements for a product, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByProductAndType finds movements for a product filtered by type
func (r *GormStockMovementRepository) FindByProductAndType(ctx context.Context, productID uuid.UUID, movementType stock.MovementType, limit int) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND movement_type = ?", productID, movementType).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBySource finds movements caused by a related entity
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, sourceType stock.SourceType, sourceID uuid.UUID) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ReplayTotal sums all signed changes for a product. Replaying from zero must
// reproduce the product's current total.
func (r *GormStockMovementRepository) ReplayTotal(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Select("COALESCE(SUM(change_amount), 0) as total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumOutflowSince sums the absolute outbound quantity of the given movement
// type since a point in time
func (r *GormStockMovementRepository) SumOutflowSince(ctx context.Context, productID uuid.UUID, movementType stock.MovementType, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ? AND movement_type = ? AND change_amount < 0 AND occurred_at >= ?", productID, movementType, since).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByProduct counts ledger entries for a product
func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ stock.StockMovementRepository = (*GormStockMovementRepository)(nil)
