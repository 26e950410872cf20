package reconciliation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// snapshotPageSize bounds the product snapshot taken at session open.
// Venue back-office catalogs are small; one page is the whole scope.
const snapshotPageSize = 10000

// SessionService drives the reconciliation workflow: open with a snapshot of
// expected stock, record counts, close atomically against a reported revenue
// figure. Closing writes the count corrections to product stock and the
// movement ledger in the same transaction as the session state change.
type SessionService struct {
	scope          TransactionScope
	sessionRepo    reconciliation.SessionRepository
	metricCatalog  reconciliation.MetricCatalog
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	scope TransactionScope,
	sessionRepo reconciliation.SessionRepository,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		scope:       scope,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetricCatalog sets the catalog validating target metric keys
func (s *SessionService) SetMetricCatalog(catalog reconciliation.MetricCatalog) {
	s.metricCatalog = catalog
}

// Open creates a session and snapshots every active product in scope into it.
// Expected stock and both prices are frozen at this moment.
func (s *SessionService) Open(ctx context.Context, req OpenSessionRequest) (*SessionResponse, error) {
	if req.TargetMetricKey != nil && s.metricCatalog != nil {
		ok, err := s.metricCatalog.IsRevenueMetric(ctx, *req.TargetMetricKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewDomainError("INVALID_METRIC", "Target metric key is not a revenue metric")
		}
	}

	var (
		session *reconciliation.Session
		events  []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		filter := shared.Filter{Page: 1, PageSize: snapshotPageSize, OrderBy: "name", OrderDir: "asc"}

		var (
			products []stock.ProductStock
			err      error
		)
		if req.CategoryScopeID != nil {
			products, err = repos.StockRepo().FindActiveByCategory(ctx, *req.CategoryScopeID, filter)
		} else {
			products, err = repos.StockRepo().FindActive(ctx, filter)
		}
		if err != nil {
			return err
		}

		session = reconciliation.NewSession(req.TargetMetricKey, req.CategoryScopeID, req.WarehouseID, req.ActorID)
		for i := range products {
			p := &products[i]
			if _, err := session.AddItem(p.ProductID, p.Name, p.TotalQuantity, p.CostPrice, p.SellingPrice); err != nil {
				return err
			}
		}

		if err := repos.SessionRepo().SaveWithItems(ctx, session); err != nil {
			return err
		}

		events = drainEvents(session, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	response := ToSessionResponse(session)
	return &response, nil
}

// Get retrieves a session with its items
func (s *SessionService) Get(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// List retrieves sessions with pagination
func (s *SessionService) List(ctx context.Context, filter SessionListFilter) ([]SessionListResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "started_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	sessions, err := s.sessionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sessionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSessionListResponses(sessions), total, nil
}

// AddItem adds a product found on the shelf mid-count. Its expected stock is
// the product's current total, not the value at session open.
func (s *SessionService) AddItem(ctx context.Context, sessionID uuid.UUID, req AddItemRequest) (*SessionItemResponse, error) {
	var item *reconciliation.SessionItem

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.SessionRepo().FindByID(ctx, sessionID)
		if err != nil {
			return err
		}

		ps, err := repos.StockRepo().FindByProductID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		item, err = session.AddItem(ps.ProductID, ps.Name, ps.TotalQuantity, ps.CostPrice, ps.SellingPrice)
		if err != nil {
			return err
		}

		return repos.SessionRepo().SaveWithItems(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	response := ToSessionItemResponse(item)
	return &response, nil
}

// RecordCount records the actual counted quantity for one item. Counts may be
// overwritten any number of times while the session is OPEN.
func (s *SessionService) RecordCount(ctx context.Context, sessionID uuid.UUID, req RecordCountRequest) (*SessionItemResponse, error) {
	var item *reconciliation.SessionItem

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.SessionRepo().FindByID(ctx, sessionID)
		if err != nil {
			return err
		}

		if err := session.RecordCount(req.ItemID, req.Actual); err != nil {
			return err
		}

		item = session.FindItem(req.ItemID)
		return repos.SessionRepo().SaveWithItems(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	response := ToSessionItemResponse(item)
	return &response, nil
}

// Close closes the session atomically: per-item differences and revenue
// figures are computed, every counted discrepancy is applied to product stock
// and ledgered as an INVENTORY_ADJUSTMENT with no actor, and the session
// transitions to CLOSED. Uncounted items are skipped. A second close fails
// with the session unchanged.
func (s *SessionService) Close(ctx context.Context, sessionID uuid.UUID, req CloseSessionRequest) (*SessionResponse, error) {
	var (
		session *reconciliation.Session
		events  []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindByID(ctx, sessionID)
		if err != nil {
			return err
		}

		adjustments, err := session.Close(req.ReportedRevenue, req.ActorID)
		if err != nil {
			return err
		}

		for _, adj := range adjustments {
			if err := s.applyAdjustment(ctx, repos, session, adj, &events); err != nil {
				return err
			}
		}

		if err := repos.SessionRepo().SaveWithItems(ctx, session); err != nil {
			return err
		}

		events = drainEvents(session, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	response := ToSessionResponse(session)
	return &response, nil
}

// Delete removes a session. Only OPEN sessions may be deleted; closed ones
// are part of the audit record.
func (s *SessionService) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.SessionRepo().FindByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return shared.ErrInventoryClosed
		}
		return repos.SessionRepo().Delete(ctx, sessionID)
	})
}

// applyAdjustment writes one count correction: overwrite the product's total
// with the counted quantity and ledger the signed delta against the session.
func (s *SessionService) applyAdjustment(
	ctx context.Context,
	repos TransactionalRepositories,
	session *reconciliation.Session,
	adj reconciliation.CountAdjustment,
	events *[]shared.DomainEvent,
) error {
	ps, err := repos.StockRepo().FindByProductIDForUpdate(ctx, adj.ProductID)
	if err != nil {
		return err
	}

	// The snapshot is not refreshed while the session is open. Mutations that
	// landed in between make the live total drift from the frozen expectation;
	// the counted quantity still wins, the drift is only surfaced.
	if !ps.TotalQuantity.Equal(adj.Expected) {
		s.logger.Warn("expected stock drifted during open session",
			zap.String("session_id", session.ID.String()),
			zap.String("product_id", adj.ProductID.String()),
			zap.String("expected_snapshot", adj.Expected.String()),
			zap.String("live_total", ps.TotalQuantity.String()),
		)
	}

	previous := ps.TotalQuantity
	delta, err := ps.ApplyCountResult(adj.Actual)
	if err != nil {
		return err
	}

	if !delta.IsZero() {
		m, err := stock.NewStockMovement(ps.ProductID, stock.MovementTypeInventoryAdjustment, delta, previous, ps.TotalQuantity, stock.SourceTypeReconciliation)
		if err != nil {
			return err
		}
		m.WithSourceID(session.ID)
		if err := repos.MovementRepo().Create(ctx, m); err != nil {
			return err
		}
	}

	if err := repos.StockRepo().Save(ctx, ps); err != nil {
		return err
	}

	if err := s.ensureRestockTask(ctx, repos, ps, events); err != nil {
		return err
	}

	*events = append(*events, ps.GetDomainEvents()...)
	ps.ClearDomainEvents()
	return nil
}

// ensureRestockTask creates the single OPEN restock task when applying a
// count pushed front stock to its threshold
func (s *SessionService) ensureRestockTask(ctx context.Context, repos TransactionalRepositories, ps *stock.ProductStock, events *[]shared.DomainEvent) error {
	if !ps.NeedsRestock() {
		return nil
	}

	existing, err := repos.TaskRepo().FindOpenByProduct(ctx, ps.ProductID, stock.TaskTypeRestock)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	task, err := stock.NewRestockTask(ps.ProductID, 0)
	if err != nil {
		return err
	}
	if err := repos.TaskRepo().Save(ctx, task); err != nil {
		return err
	}

	*events = append(*events, stock.NewRestockTaskCreatedEvent(task))
	return nil
}

func drainEvents(session *reconciliation.Session, events []shared.DomainEvent) []shared.DomainEvent {
	events = append(events, session.GetDomainEvents()...)
	session.ClearDomainEvents()
	return events
}

func (s *SessionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
