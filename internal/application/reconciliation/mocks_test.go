package reconciliation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOpen(ctx context.Context) ([]reconciliation.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).([]reconciliation.Session), args.Error(1)
}

func (m *MockSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reconciliation.Session, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]reconciliation.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *reconciliation.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveWithItems(ctx context.Context, s *reconciliation.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockMetricCatalog is a mock implementation of MetricCatalog
type MockMetricCatalog struct {
	mock.Mock
}

func (m *MockMetricCatalog) IsRevenueMetric(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(bool), args.Error(1)
}

// MockProductStockRepository is a mock implementation of ProductStockRepository
type MockProductStockRepository struct {
	mock.Mock
}

func (m *MockProductStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ProductStock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*stock.ProductStock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*stock.ProductStock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindActive(ctx context.Context, filter shared.Filter) ([]stock.ProductStock, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]stock.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindActiveByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]stock.ProductStock, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]stock.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) Save(ctx context.Context, ps *stock.ProductStock) error {
	args := m.Called(ctx, ps)
	return args.Error(0)
}

func (m *MockProductStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *stock.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]stock.StockMovement, error) {
	args := m.Called(ctx, productID, limit)
	return args.Get(0).([]stock.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindByProductAndType(ctx context.Context, productID uuid.UUID, movementType stock.MovementType, limit int) ([]stock.StockMovement, error) {
	args := m.Called(ctx, productID, movementType, limit)
	return args.Get(0).([]stock.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) FindBySource(ctx context.Context, sourceType stock.SourceType, sourceID uuid.UUID) ([]stock.StockMovement, error) {
	args := m.Called(ctx, sourceType, sourceID)
	return args.Get(0).([]stock.StockMovement), args.Error(1)
}

func (m *MockStockMovementRepository) ReplayTotal(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockMovementRepository) SumOutflowSince(ctx context.Context, productID uuid.UUID, movementType stock.MovementType, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, productID, movementType, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockMovementRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRestockTaskRepository is a mock implementation of RestockTaskRepository
type MockRestockTaskRepository struct {
	mock.Mock
}

func (m *MockRestockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.RestockTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.RestockTask), args.Error(1)
}

func (m *MockRestockTaskRepository) FindOpenByProduct(ctx context.Context, productID uuid.UUID, taskType stock.TaskType) (*stock.RestockTask, error) {
	args := m.Called(ctx, productID, taskType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.RestockTask), args.Error(1)
}

func (m *MockRestockTaskRepository) FindOpenByRule(ctx context.Context, ruleID uuid.UUID) (*stock.RestockTask, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.RestockTask), args.Error(1)
}

func (m *MockRestockTaskRepository) FindByStatus(ctx context.Context, status stock.TaskStatus, filter shared.Filter) ([]stock.RestockTask, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]stock.RestockTask), args.Error(1)
}

func (m *MockRestockTaskRepository) Save(ctx context.Context, task *stock.RestockTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockRestockTaskRepository) CountOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// newTestScope wires mock repositories into a NoOpTransactionScope
func newTestScope() (*NoOpTransactionScope, *MockSessionRepository, *MockProductStockRepository, *MockStockMovementRepository, *MockRestockTaskRepository) {
	sessionRepo := new(MockSessionRepository)
	stockRepo := new(MockProductStockRepository)
	movementRepo := new(MockStockMovementRepository)
	taskRepo := new(MockRestockTaskRepository)
	return NewNoOpTransactionScope(sessionRepo, stockRepo, movementRepo, taskRepo), sessionRepo, stockRepo, movementRepo, taskRepo
}
