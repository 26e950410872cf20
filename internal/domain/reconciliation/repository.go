package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/venueops/backend/internal/domain/shared"
)

// SessionRepository defines the interface for reconciliation session
// persistence
type SessionRepository interface {
	// FindByID finds a session by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindOpen finds all OPEN sessions
	FindOpen(ctx context.Context) ([]Session, error)

	// FindAll finds sessions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Session, error)

	// Save creates or updates a session without touching its items
	Save(ctx context.Context, s *Session) error

	// SaveWithItems saves a session together with its items
	SaveWithItems(ctx context.Context, s *Session) error

	// Delete removes a session and its items. Only OPEN sessions may be
	// deleted through the workflow; deleting CLOSED ones is a retention
	// concern outside the core.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sessions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MetricCatalog validates that a target metric key names a recognized
// revenue-type metric. The catalog itself lives outside the core; the key is
// otherwise treated as opaque.
type MetricCatalog interface {
	IsRevenueMetric(ctx context.Context, key string) (bool, error)
}
