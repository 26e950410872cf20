package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

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

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testProduct(t *testing.T, name string, total decimal.Decimal) *stock.ProductStock {
	t.Helper()
	ps, err := stock.NewProductStock(uuid.New(), name, d("1"), d("5"), total, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	ps.ClearDomainEvents()
	return ps
}

func TestSuggestionService_Suggest(t *testing.T) {
	ctx := context.Background()

	t.Run("suggests a top-up for products below the cover horizon", func(t *testing.T) {
		stockRepo := new(MockProductStockRepository)
		movementRepo := new(MockStockMovementRepository)
		svc := NewSuggestionService(stockRepo, movementRepo, zap.NewNop())

		// 60 units written off over 30 days is 2 a day; 10 on hand is 5 days
		// of cover against a 14-day horizon.
		fast := testProduct(t, "Pale Ale", d("10"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*fast}, nil)
		movementRepo.On("SumOutflowSince", ctx, fast.ProductID, stock.MovementTypeWriteOff, mock.Anything).Return(d("60"), nil)

		result, err := svc.Suggest(ctx, SuggestionRequest{})

		require.NoError(t, err)
		assert.Equal(t, DefaultWindowDays, result.WindowDays)
		assert.Equal(t, 1, result.ProductsScanned)
		require.Len(t, result.Suggestions, 1)
		sg := result.Suggestions[0]
		assert.Equal(t, fast.ProductID, sg.ProductID)
		assert.True(t, sg.DailyVelocity.Equal(d("2")))
		assert.True(t, sg.DaysOfCover.Equal(d("5")))
		// 2 a day for 14 days needs 28, minus 10 on hand.
		assert.True(t, sg.SuggestedQuantity.Equal(d("18")))
	})

	t.Run("skips products with enough cover", func(t *testing.T) {
		stockRepo := new(MockProductStockRepository)
		movementRepo := new(MockStockMovementRepository)
		svc := NewSuggestionService(stockRepo, movementRepo, zap.NewNop())

		slow := testProduct(t, "Bitters", d("100"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*slow}, nil)
		movementRepo.On("SumOutflowSince", ctx, slow.ProductID, stock.MovementTypeWriteOff, mock.Anything).Return(d("30"), nil)

		result, err := svc.Suggest(ctx, SuggestionRequest{})

		require.NoError(t, err)
		assert.Equal(t, 1, result.ProductsScanned)
		assert.Empty(t, result.Suggestions)
	})

	t.Run("skips products with no outflow in the window", func(t *testing.T) {
		stockRepo := new(MockProductStockRepository)
		movementRepo := new(MockStockMovementRepository)
		svc := NewSuggestionService(stockRepo, movementRepo, zap.NewNop())

		idle := testProduct(t, "Decorations", d("3"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*idle}, nil)
		movementRepo.On("SumOutflowSince", ctx, idle.ProductID, stock.MovementTypeWriteOff, mock.Anything).Return(decimal.Zero, nil)

		result, err := svc.Suggest(ctx, SuggestionRequest{})

		require.NoError(t, err)
		assert.Empty(t, result.Suggestions)
	})

	t.Run("rounds fractional suggestions up to whole units", func(t *testing.T) {
		stockRepo := new(MockProductStockRepository)
		movementRepo := new(MockStockMovementRepository)
		svc := NewSuggestionService(stockRepo, movementRepo, zap.NewNop())

		wine := testProduct(t, "House Red", d("2"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*wine}, nil)
		// 10 over 30 days; 14-day demand is 4.67 so the top-up is ceil(2.67).
		movementRepo.On("SumOutflowSince", ctx, wine.ProductID, stock.MovementTypeWriteOff, mock.Anything).Return(d("10"), nil)

		result, err := svc.Suggest(ctx, SuggestionRequest{})

		require.NoError(t, err)
		require.Len(t, result.Suggestions, 1)
		assert.True(t, result.Suggestions[0].SuggestedQuantity.Equal(d("3")))
	})

	t.Run("honours a custom window and horizon", func(t *testing.T) {
		stockRepo := new(MockProductStockRepository)
		movementRepo := new(MockStockMovementRepository)
		svc := NewSuggestionService(stockRepo, movementRepo, zap.NewNop())

		beer := testProduct(t, "Pale Ale", d("5"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*beer}, nil)
		movementRepo.On("SumOutflowSince", ctx, beer.ProductID, stock.MovementTypeWriteOff, mock.MatchedBy(func(since time.Time) bool {
			// Window start is roughly 7 days back.
			return time.Since(since) > 6*24*time.Hour && time.Since(since) < 8*24*time.Hour
		})).Return(d("7"), nil)

		result, err := svc.Suggest(ctx, SuggestionRequest{WindowDays: 7, HorizonDays: 10})

		require.NoError(t, err)
		assert.Equal(t, 7, result.WindowDays)
		assert.Equal(t, 10, result.HorizonDays)
		require.Len(t, result.Suggestions, 1)
		// 1 a day for 10 days needs 10, minus 5 on hand.
		assert.True(t, result.Suggestions[0].SuggestedQuantity.Equal(d("5")))
	})
}
