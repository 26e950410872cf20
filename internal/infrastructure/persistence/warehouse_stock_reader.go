package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/stock"
)

// GormWarehouseStockReader reads per-warehouse stock levels from the
// warehouse_stocks table. The table is owned and written by the surrounding
// warehouse module; rule evaluation only needs the current level, so a
// missing row reads as zero rather than an error.
type GormWarehouseStockReader struct {
	db *gorm.DB
}

// NewGormWarehouseStockReader creates a new GormWarehouseStockReader
func NewGormWarehouseStockReader(db *gorm.DB) *GormWarehouseStockReader {
	return &GormWarehouseStockReader{db: db}
}

// StockLevel returns the current stock of a product in a warehouse
func (r *GormWarehouseStockReader) StockLevel(ctx context.Context, warehouseID, productID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Quantity decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("warehouse_stocks").
		Select("quantity").
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return row.Quantity, nil
}

var _ stock.WarehouseStockReader = (*GormWarehouseStockReader)(nil)
