package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/reconciliation"
)

// GormMetricCatalog resolves target metric keys against the metric_definitions
// table. Metric definitions are owned by the reporting side; reconciliation
// only needs to know whether a key names a revenue metric.
type GormMetricCatalog struct {
	db *gorm.DB
}

// NewGormMetricCatalog creates a new GormMetricCatalog
func NewGormMetricCatalog(db *gorm.DB) *GormMetricCatalog {
	return &GormMetricCatalog{db: db}
}

// IsRevenueMetric reports whether the key names a recognized revenue metric.
// An unknown key is not an error, it is simply not a revenue metric.
func (c *GormMetricCatalog) IsRevenueMetric(ctx context.Context, key string) (bool, error) {
	var row struct {
		MetricType string
	}
	err := c.db.WithContext(ctx).
		Table("metric_definitions").
		Select("metric_type").
		Where("metric_key = ?", key).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return row.MetricType == "revenue", nil
}

var _ reconciliation.MetricCatalog = (*GormMetricCatalog)(nil)
