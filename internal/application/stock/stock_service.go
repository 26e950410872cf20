package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

const (
	// DefaultHistoryLimit is the default number of ledger rows returned
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps a single history page
	MaxHistoryLimit = 500
)

// StateCache serves CurrentState reads without touching the database.
// Implementations must tolerate being behind: entries are invalidated after
// every committed mutation and repopulated lazily.
type StateCache interface {
	// Get returns the cached state, or shared.ErrNotFound on a miss
	Get(ctx context.Context, productID uuid.UUID) (*stock.StockState, error)
	// Set stores the state for a product
	Set(ctx context.Context, productID uuid.UUID, state stock.StockState) error
	// Invalidate drops the cached state for a product
	Invalidate(ctx context.Context, productID uuid.UUID) error
}

// StockService handles all stock mutations and reads. Every mutation runs
// inside a TransactionScope: row-lock the product, mutate the aggregate,
// append the ledger entry, save, then re-evaluate the restock condition.
type StockService struct {
	scope          TransactionScope
	stockRepo      stock.ProductStockRepository
	movementRepo   stock.StockMovementRepository
	taskRepo       stock.RestockTaskRepository
	eventPublisher shared.EventPublisher
	cache          StateCache
}

// NewStockService creates a new StockService
func NewStockService(
	scope TransactionScope,
	stockRepo stock.ProductStockRepository,
	movementRepo stock.StockMovementRepository,
	taskRepo stock.RestockTaskRepository,
) *StockService {
	return &StockService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		taskRepo:     taskRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetStateCache sets the cache serving CurrentState reads
func (s *StockService) SetStateCache(cache StateCache) {
	s.cache = cache
}

// Create creates the stock record for a product. A positive opening balance
// is ledgered as a MANUAL_EDIT from zero.
func (s *StockService) Create(ctx context.Context, req CreateStockRequest) (*StockStateResponse, error) {
	var (
		ps     *stock.ProductStock
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.StockRepo().FindByProductID(ctx, req.ProductID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Stock record already exists for this product")
		}

		ps, err = stock.NewProductStock(req.ProductID, req.Name, req.CostPrice, req.SellingPrice, req.OpeningStock, req.MaxFront, req.MinFront)
		if err != nil {
			return err
		}
		ps.CategoryID = req.CategoryID

		if err := repos.StockRepo().Save(ctx, ps); err != nil {
			return err
		}

		if req.OpeningStock.IsPositive() {
			m, err := stock.NewStockMovement(ps.ProductID, stock.MovementTypeManualEdit, req.OpeningStock, decimal.Zero, req.OpeningStock, stock.SourceTypeManual)
			if err != nil {
				return err
			}
			m.WithReason("opening balance")
			if req.ActorID != nil {
				m.WithActorID(*req.ActorID)
			}
			if err := repos.MovementRepo().Create(ctx, m); err != nil {
				return err
			}
		}

		events = s.drainEvents(ps, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	response := ToStockStateResponse(ps)
	return &response, nil
}

// RecordSupply receives a supply into stock. The quantity lands in back when
// split tracking is active and the latest unit cost becomes the cost price.
func (s *StockService) RecordSupply(ctx context.Context, req RecordSupplyRequest) (*StockStateResponse, error) {
	var (
		ps     *stock.ProductStock
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ps, err = repos.StockRepo().FindByProductIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		previous := ps.TotalQuantity
		if err := ps.ReceiveSupply(req.Quantity, req.UnitCost); err != nil {
			return err
		}

		m, err := stock.NewStockMovement(ps.ProductID, stock.MovementTypeSupply, req.Quantity, previous, ps.TotalQuantity, stock.SourceTypeSupply)
		if err != nil {
			return err
		}
		if req.SupplyID != nil {
			m.WithSourceID(*req.SupplyID)
		}
		if req.ActorID != nil {
			m.WithActorID(*req.ActorID)
		}
		if err := repos.MovementRepo().Create(ctx, m); err != nil {
			return err
		}

		if err := repos.StockRepo().Save(ctx, ps); err != nil {
			return err
		}

		if err := s.ensureRestockTask(ctx, repos, ps, &events); err != nil {
			return err
		}

		events = s.drainEvents(ps, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, req.ProductID)
	s.publishEvents(ctx, events)

	response := ToStockStateResponse(ps)
	return &response, nil
}

// WriteOff removes stock (breakage, spoilage, loss), front bucket first.
func (s *StockService) WriteOff(ctx context.Context, req WriteOffRequest) (*StockStateResponse, error) {
	var (
		ps     *stock.ProductStock
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ps, err = repos.StockRepo().FindByProductIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		previous := ps.TotalQuantity
		if err := ps.WriteOff(req.Quantity); err != nil {
			return err
		}

		m, err := stock.NewStockMovement(ps.ProductID, stock.MovementTypeWriteOff, req.Quantity.Neg(), previous, ps.TotalQuantity, stock.SourceTypeManual)
		if err != nil {
			return err
		}
		if req.Reason != "" {
			m.WithReason(req.Reason)
		}
		if req.ActorID != nil {
			m.WithActorID(*req.ActorID)
		}
		if err := repos.MovementRepo().Create(ctx, m); err != nil {
			return err
		}

		if err := repos.StockRepo().Save(ctx, ps); err != nil {
			return err
		}

		if err := s.ensureRestockTask(ctx, repos, ps, &events); err != nil {
			return err
		}

		events = s.drainEvents(ps, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, req.ProductID)
	s.publishEvents(ctx, events)

	response := ToStockStateResponse(ps)
	return &response, nil
}

// ManualEdit overwrites the total quantity and the split configuration. The
// ledger entry is written only when the total actually changed; the restock
// condition is re-evaluated either way because thresholds may have moved.
func (s *StockService) ManualEdit(ctx context.Context, req ManualEditRequest) (*StockStateResponse, error) {
	var (
		ps     *stock.ProductStock
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ps, err = repos.StockRepo().FindByProductIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		previous := ps.TotalQuantity
		delta, err := ps.ApplyManualEdit(req.NewTotal, req.MinFront, req.MaxFront)
		if err != nil {
			return err
		}

		if !delta.IsZero() {
			m, err := stock.NewStockMovement(ps.ProductID, stock.MovementTypeManualEdit, delta, previous, ps.TotalQuantity, stock.SourceTypeManual)
			if err != nil {
				return err
			}
			if req.Reason != "" {
				m.WithReason(req.Reason)
			}
			if req.ActorID != nil {
				m.WithActorID(*req.ActorID)
			}
			if err := repos.MovementRepo().Create(ctx, m); err != nil {
				return err
			}
		}

		if err := repos.StockRepo().Save(ctx, ps); err != nil {
			return err
		}

		if err := s.ensureRestockTask(ctx, repos, ps, &events); err != nil {
			return err
		}

		events = s.drainEvents(ps, events)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, req.ProductID)
	s.publishEvents(ctx, events)

	response := ToStockStateResponse(ps)
	return &response, nil
}

// CompleteRestockTask completes a work item. For RESTOCK tasks the available
// back stock is moved to the front bucket up to capacity headroom and the move
// is ledgered as an INTERNAL_MOVE with zero change amount.
func (s *StockService) CompleteRestockTask(ctx context.Context, taskID, actorID uuid.UUID) (*RestockTaskResponse, error) {
	var (
		task   *stock.RestockTask
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		task, err = repos.TaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}

		if task.TaskType == stock.TaskTypeRestock && task.IsOpen() {
			ps, err := repos.StockRepo().FindByProductIDForUpdate(ctx, task.ProductID)
			if err != nil {
				return err
			}

			// Capacity may have been disabled since the task was created.
			if ps.SplitEnabled() {
				moved, err := ps.MoveBackToFront()
				if err != nil {
					return err
				}
				if moved.IsPositive() {
					m, err := stock.NewInternalMoveMovement(ps.ProductID, moved, ps.TotalQuantity, task.ID)
					if err != nil {
						return err
					}
					if actorID != uuid.Nil {
						m.WithActorID(actorID)
					}
					if err := repos.MovementRepo().Create(ctx, m); err != nil {
						return err
					}
					if err := repos.StockRepo().Save(ctx, ps); err != nil {
						return err
					}
				}
			}
			events = s.drainEvents(ps, events)
		}

		if err := task.Complete(actorID); err != nil {
			return err
		}
		return repos.TaskRepo().Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, task.ProductID)
	s.publishEvents(ctx, events)

	response := ToRestockTaskResponse(task)
	return &response, nil
}

// GetHistory returns the movement ledger for a product, newest first.
func (s *StockService) GetHistory(ctx context.Context, productID uuid.UUID, limit int) ([]MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	movements, err := s.movementRepo.FindByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// GetHistoryByType returns the movement ledger for a product restricted to a
// single movement type, newest first.
func (s *StockService) GetHistoryByType(ctx context.Context, productID uuid.UUID, movementType stock.MovementType, limit int) ([]MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	movements, err := s.movementRepo.FindByProductAndType(ctx, productID, movementType, limit)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// CurrentState returns {total, front, back, capacity} for a product, served
// from the cache when warm.
func (s *StockService) CurrentState(ctx context.Context, productID uuid.UUID) (*CurrentStateResponse, error) {
	if s.cache != nil {
		if state, err := s.cache.Get(ctx, productID); err == nil && state != nil {
			response := ToCurrentStateResponse(productID, *state)
			return &response, nil
		}
	}

	ps, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	state := ps.State()
	if s.cache != nil {
		_ = s.cache.Set(ctx, productID, state)
	}

	response := ToCurrentStateResponse(productID, state)
	return &response, nil
}

// GetByProduct returns the full stock record for a product
func (s *StockService) GetByProduct(ctx context.Context, productID uuid.UUID) (*StockStateResponse, error) {
	ps, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockStateResponse(ps)
	return &response, nil
}

// List returns active stock records with pagination
func (s *StockService) List(ctx context.Context, filter StockListFilter) ([]StockStateResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "updated_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	var (
		items []stock.ProductStock
		err   error
	)
	if filter.CategoryID != nil {
		items, err = s.stockRepo.FindActiveByCategory(ctx, *filter.CategoryID, domainFilter)
	} else {
		items, err = s.stockRepo.FindActive(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.stockRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockStateResponses(items), total, nil
}

// UpdatePrices sets new cost and selling prices for a product
func (s *StockService) UpdatePrices(ctx context.Context, req UpdatePricesRequest) (*StockStateResponse, error) {
	var ps *stock.ProductStock

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ps, err = repos.StockRepo().FindByProductIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := ps.UpdatePrices(req.CostPrice, req.SellingPrice); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, ps)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockStateResponse(ps)
	return &response, nil
}

// Deactivate soft-deletes a stock record. Ledger rows keep referencing it.
func (s *StockService) Deactivate(ctx context.Context, productID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ps, err := repos.StockRepo().FindByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		ps.Deactivate()
		return repos.StockRepo().Save(ctx, ps)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, productID)
	return nil
}

// ListTasks returns restock tasks with a given status
func (s *StockService) ListTasks(ctx context.Context, status stock.TaskStatus, filter TaskListFilter) ([]RestockTaskResponse, error) {
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
		domainFilter.OrderBy = "created_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	tasks, err := s.taskRepo.FindByStatus(ctx, status, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToRestockTaskResponses(tasks), nil
}

// VerifyLedger replays the movement ledger for a product and compares the
// replayed sum against the current total.
func (s *StockService) VerifyLedger(ctx context.Context, productID uuid.UUID) (*LedgerCheckResponse, error) {
	ps, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	replayed, err := s.movementRepo.ReplayTotal(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &LedgerCheckResponse{
		ProductID:    productID,
		LedgerTotal:  replayed,
		CurrentTotal: ps.TotalQuantity,
		Consistent:   replayed.Equal(ps.TotalQuantity),
	}, nil
}

// ensureRestockTask creates the single OPEN restock task for a product when
// the restock condition holds. Called inside the mutation transaction; a
// failure here aborts the whole mutation.
func (s *StockService) ensureRestockTask(ctx context.Context, repos TransactionalRepositories, ps *stock.ProductStock, events *[]shared.DomainEvent) error {
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

// drainEvents collects and clears the aggregate's domain events for
// publication after the transaction commits
func (s *StockService) drainEvents(ps *stock.ProductStock, events []shared.DomainEvent) []shared.DomainEvent {
	events = append(events, ps.GetDomainEvents()...)
	ps.ClearDomainEvents()
	return events
}

// publishEvents publishes domain events (errors are handled by the bus)
func (s *StockService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *StockService) invalidateCache(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, productID)
}
