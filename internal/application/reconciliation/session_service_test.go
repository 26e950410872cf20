package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(s string) *string {
	return &s
}

func testProduct(t *testing.T, name string, total, maxFront, sellingPrice decimal.Decimal) *stock.ProductStock {
	t.Helper()
	ps, err := stock.NewProductStock(uuid.New(), name, d("1"), sellingPrice, total, maxFront, decimal.Zero)
	require.NoError(t, err)
	ps.ClearDomainEvents()
	return ps
}

// newOpenSession builds an OPEN session with one frozen item per product and
// no pending domain events.
func newOpenSession(t *testing.T, metricKey *string, products ...*stock.ProductStock) *reconciliation.Session {
	t.Helper()
	session := reconciliation.NewSession(metricKey, nil, nil, uuid.New())
	for _, p := range products {
		_, err := session.AddItem(p.ProductID, p.Name, p.TotalQuantity, p.CostPrice, p.SellingPrice)
		require.NoError(t, err)
	}
	session.ClearDomainEvents()
	return session
}

func newService(scope *NoOpTransactionScope, sessionRepo *MockSessionRepository) (*SessionService, *MockEventPublisher) {
	svc := NewSessionService(scope, sessionRepo, zap.NewNop())
	publisher := NewMockEventPublisher()
	svc.SetEventPublisher(publisher)
	return svc, publisher
}

func TestSessionService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots active products and freezes prices", func(t *testing.T) {
		scope, sessionRepo, stockRepo, _, _ := newTestScope()
		svc, publisher := newService(scope, sessionRepo)

		wine := testProduct(t, "House Red", d("10"), decimal.Zero, d("9.50"))
		beer := testProduct(t, "Pale Ale", d("24"), decimal.Zero, d("5"))
		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{*wine, *beer}, nil)
		sessionRepo.On("SaveWithItems", ctx, mock.MatchedBy(func(s *reconciliation.Session) bool {
			return len(s.Items) == 2 && s.IsOpen()
		})).Return(nil)

		resp, err := svc.Open(ctx, OpenSessionRequest{ActorID: uuid.New()})

		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
		require.Len(t, resp.Items, 2)
		assert.True(t, resp.Items[0].ExpectedStock.Equal(d("10")))
		assert.True(t, resp.Items[0].SellingPriceSnapshot.Equal(d("9.50")))
		assert.True(t, resp.Items[1].ExpectedStock.Equal(d("24")))
		assert.Len(t, publisher.GetEventsByType(reconciliation.EventTypeSessionOpened), 1)
		sessionRepo.AssertExpectations(t)
		stockRepo.AssertExpectations(t)
	})

	t.Run("category scope narrows the snapshot", func(t *testing.T) {
		scope, sessionRepo, stockRepo, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		categoryID := uuid.New()
		soda := testProduct(t, "Cola", d("48"), decimal.Zero, d("2.50"))
		stockRepo.On("FindActiveByCategory", ctx, categoryID, mock.Anything).Return([]stock.ProductStock{*soda}, nil)
		sessionRepo.On("SaveWithItems", ctx, mock.Anything).Return(nil)

		resp, err := svc.Open(ctx, OpenSessionRequest{CategoryScopeID: &categoryID, ActorID: uuid.New()})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, soda.ProductID, resp.Items[0].ProductID)
		stockRepo.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything)
	})

	t.Run("rejects a metric key that is not a revenue metric", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		catalog := new(MockMetricCatalog)
		catalog.On("IsRevenueMetric", ctx, "staff_headcount").Return(false, nil)
		svc.SetMetricCatalog(catalog)

		_, err := svc.Open(ctx, OpenSessionRequest{TargetMetricKey: strPtr("staff_headcount"), ActorID: uuid.New()})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_METRIC", domainErr.Code)
		sessionRepo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})

	t.Run("accepts a validated revenue metric key", func(t *testing.T) {
		scope, sessionRepo, stockRepo, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		catalog := new(MockMetricCatalog)
		catalog.On("IsRevenueMetric", ctx, "bar_revenue").Return(true, nil)
		svc.SetMetricCatalog(catalog)

		stockRepo.On("FindActive", ctx, mock.Anything).Return([]stock.ProductStock{}, nil)
		sessionRepo.On("SaveWithItems", ctx, mock.Anything).Return(nil)

		resp, err := svc.Open(ctx, OpenSessionRequest{TargetMetricKey: strPtr("bar_revenue"), ActorID: uuid.New()})

		require.NoError(t, err)
		require.NotNil(t, resp.TargetMetricKey)
		assert.Equal(t, "bar_revenue", *resp.TargetMetricKey)
	})
}

func TestSessionService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes the current total for a product found mid-count", func(t *testing.T) {
		scope, sessionRepo, stockRepo, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		found := testProduct(t, "Tonic", d("6"), decimal.Zero, d("3"))
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		stockRepo.On("FindByProductID", ctx, found.ProductID).Return(found, nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		item, err := svc.AddItem(ctx, session.ID, AddItemRequest{ProductID: found.ProductID})

		require.NoError(t, err)
		assert.True(t, item.ExpectedStock.Equal(d("6")))
		assert.False(t, item.Counted)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("rejects a product already in the session", func(t *testing.T) {
		scope, sessionRepo, stockRepo, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		wine := testProduct(t, "House Red", d("10"), decimal.Zero, d("9.50"))
		session := newOpenSession(t, nil, wine)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		stockRepo.On("FindByProductID", ctx, wine.ProductID).Return(wine, nil)

		_, err := svc.AddItem(ctx, session.ID, AddItemRequest{ProductID: wine.ProductID})

		require.Error(t, err)
		sessionRepo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})
}

func TestSessionService_RecordCount(t *testing.T) {
	ctx := context.Background()

	t.Run("records and returns the counted item", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		wine := testProduct(t, "House Red", d("10"), decimal.Zero, d("9.50"))
		session := newOpenSession(t, nil, wine)
		itemID := session.Items[0].ID
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		item, err := svc.RecordCount(ctx, session.ID, RecordCountRequest{ItemID: itemID, Actual: d("8")})

		require.NoError(t, err)
		assert.True(t, item.Counted)
		require.NotNil(t, item.ActualStock)
		assert.True(t, item.ActualStock.Equal(d("8")))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("unknown item fails without saving", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err := svc.RecordCount(ctx, session.ID, RecordCountRequest{ItemID: uuid.New(), Actual: d("1")})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		sessionRepo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("applies counted discrepancies and ledgers them against the session", func(t *testing.T) {
		scope, sessionRepo, stockRepo, movementRepo, taskRepo := newTestScope()
		svc, publisher := newService(scope, sessionRepo)

		// Wine counted 2 short, beer counted exact, soda never counted.
		wine := testProduct(t, "House Red", d("10"), decimal.Zero, d("10"))
		beer := testProduct(t, "Pale Ale", d("5"), decimal.Zero, d("20"))
		soda := testProduct(t, "Cola", d("48"), decimal.Zero, d("2.50"))
		session := newOpenSession(t, strPtr("bar_revenue"), wine, beer, soda)
		require.NoError(t, session.RecordCount(session.Items[0].ID, d("8")))
		require.NoError(t, session.RecordCount(session.Items[1].ID, d("5")))

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		stockRepo.On("FindByProductIDForUpdate", ctx, wine.ProductID).Return(wine, nil)
		stockRepo.On("Save", ctx, wine).Return(nil)
		movementRepo.On("Create", ctx, mock.MatchedBy(func(m *stock.StockMovement) bool {
			return m.MovementType == stock.MovementTypeInventoryAdjustment &&
				m.ChangeAmount.Equal(d("-2")) &&
				m.PreviousStock.Equal(d("10")) &&
				m.NewStock.Equal(d("8")) &&
				m.SourceType == stock.SourceTypeReconciliation &&
				m.SourceID != nil && *m.SourceID == session.ID &&
				m.ActorID == nil
		})).Return(nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		closedBy := uuid.New()
		resp, err := svc.Close(ctx, session.ID, CloseSessionRequest{ReportedRevenue: d("40"), ActorID: closedBy})

		require.NoError(t, err)
		assert.Equal(t, "CLOSED", resp.Status)
		// 2 missing bottles at 10 each make 20 of calculated revenue.
		assert.True(t, resp.CalculatedRevenue.Equal(d("20")))
		assert.True(t, resp.ReportedRevenue.Equal(d("40")))
		assert.True(t, resp.RevenueDifference.Equal(d("20")))
		assert.True(t, wine.TotalQuantity.Equal(d("8")))
		// Exact and uncounted items never touch stock.
		stockRepo.AssertNotCalled(t, "FindByProductIDForUpdate", ctx, beer.ProductID)
		stockRepo.AssertNotCalled(t, "FindByProductIDForUpdate", ctx, soda.ProductID)
		assert.Len(t, publisher.GetEventsByType(reconciliation.EventTypeSessionClosed), 1)
		sessionRepo.AssertExpectations(t)
		movementRepo.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})

	t.Run("surplus count raises stock and yields negative calculated revenue", func(t *testing.T) {
		scope, sessionRepo, stockRepo, movementRepo, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		wine := testProduct(t, "House Red", d("10"), decimal.Zero, d("10"))
		session := newOpenSession(t, strPtr("bar_revenue"), wine)
		require.NoError(t, session.RecordCount(session.Items[0].ID, d("12")))

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		stockRepo.On("FindByProductIDForUpdate", ctx, wine.ProductID).Return(wine, nil)
		stockRepo.On("Save", ctx, wine).Return(nil)
		movementRepo.On("Create", ctx, mock.MatchedBy(func(m *stock.StockMovement) bool {
			return m.ChangeAmount.Equal(d("2")) && m.Quantity.Equal(d("2"))
		})).Return(nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		resp, err := svc.Close(ctx, session.ID, CloseSessionRequest{ReportedRevenue: d("0"), ActorID: uuid.New()})

		require.NoError(t, err)
		assert.True(t, resp.CalculatedRevenue.Equal(d("-20")))
		assert.True(t, wine.TotalQuantity.Equal(d("12")))
	})

	t.Run("nil metric key forces reported revenue to zero", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		resp, err := svc.Close(ctx, session.ID, CloseSessionRequest{ReportedRevenue: d("999"), ActorID: uuid.New()})

		require.NoError(t, err)
		assert.True(t, resp.ReportedRevenue.IsZero())
		assert.True(t, resp.RevenueDifference.IsZero())
	})

	t.Run("adjustment below the front threshold opens a restock task", func(t *testing.T) {
		scope, sessionRepo, stockRepo, movementRepo, taskRepo := newTestScope()
		svc, publisher := newService(scope, sessionRepo)

		// With capacity equal to the threshold, a count above capacity refills
		// the front only to its minimum while back stock remains.
		wine, err := stock.NewProductStock(uuid.New(), "House Red", d("1"), d("10"), d("10"), d("2"), d("2"))
		require.NoError(t, err)
		wine.ClearDomainEvents()
		session := newOpenSession(t, nil, wine)
		require.NoError(t, session.RecordCount(session.Items[0].ID, d("7")))

		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		stockRepo.On("FindByProductIDForUpdate", ctx, wine.ProductID).Return(wine, nil)
		stockRepo.On("Save", ctx, wine).Return(nil)
		movementRepo.On("Create", ctx, mock.Anything).Return(nil)
		taskRepo.On("FindOpenByProduct", ctx, wine.ProductID, stock.TaskTypeRestock).Return(nil, shared.ErrNotFound)
		taskRepo.On("Save", ctx, mock.MatchedBy(func(task *stock.RestockTask) bool {
			return task.ProductID == wine.ProductID
		})).Return(nil)
		sessionRepo.On("SaveWithItems", ctx, session).Return(nil)

		_, err = svc.Close(ctx, session.ID, CloseSessionRequest{ActorID: uuid.New()})

		require.NoError(t, err)
		require.True(t, wine.NeedsRestock())
		taskRepo.AssertExpectations(t)
		assert.Len(t, publisher.GetEventsByType(stock.EventTypeRestockTaskCreated), 1)
	})

	t.Run("closing twice fails and leaves the session untouched", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		_, err := session.Close(decimal.Zero, uuid.New())
		require.NoError(t, err)
		firstClosedAt := *session.ClosedAt
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err = svc.Close(ctx, session.ID, CloseSessionRequest{ReportedRevenue: d("50"), ActorID: uuid.New()})

		assert.ErrorIs(t, err, shared.ErrInventoryClosed)
		assert.Equal(t, firstClosedAt, *session.ClosedAt)
		assert.True(t, session.ReportedRevenue.IsZero())
		sessionRepo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an open session", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		sessionRepo.On("Delete", ctx, session.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, session.ID))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete a closed session", func(t *testing.T) {
		scope, sessionRepo, _, _, _ := newTestScope()
		svc, _ := newService(scope, sessionRepo)

		session := newOpenSession(t, nil)
		_, err := session.Close(decimal.Zero, uuid.New())
		require.NoError(t, err)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		err = svc.Delete(ctx, session.ID)

		assert.ErrorIs(t, err, shared.ErrInventoryClosed)
		sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
