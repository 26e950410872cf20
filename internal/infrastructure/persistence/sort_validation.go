package persistence

import "strings"

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
// Order-by columns are interpolated into SQL, so they must never come from
// the request unchecked.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductStockSortFields contains allowed sort fields for product stocks
var ProductStockSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"product_id":         true,
	"name":               true,
	"category_id":        true,
	"total_quantity":     true,
	"front_quantity":     true,
	"back_quantity":      true,
	"cost_price":         true,
	"selling_price":      true,
	"max_front_quantity": true,
	"min_front_quantity": true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"occurred_at":   true,
	"product_id":    true,
	"movement_type": true,
	"change_amount": true,
	"quantity":      true,
	"source_type":   true,
}

// RestockTaskSortFields contains allowed sort fields for restock tasks
var RestockTaskSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"product_id":   true,
	"task_type":    true,
	"status":       true,
	"priority":     true,
	"completed_at": true,
}

// SessionSortFields contains allowed sort fields for reconciliation sessions
var SessionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"started_at":         true,
	"closed_at":          true,
	"status":             true,
	"revenue_difference": true,
}
