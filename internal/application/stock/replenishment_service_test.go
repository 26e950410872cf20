package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

func testRule(t *testing.T, minLevel, maxLevel int64) *stock.ReplenishmentRule {
	t.Helper()
	rule, err := stock.NewReplenishmentRule(uuid.New(), uuid.New(), uuid.New(), d(minLevel), d(maxLevel))
	require.NoError(t, err)
	return rule
}

func TestReplenishmentService_EvaluateRules(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("creates a transfer task when the target is at the minimum", func(t *testing.T) {
		scope, _, _, taskRepo := newTestScope()
		ruleRepo := new(MockReplenishmentRuleRepository)
		reader := new(MockWarehouseStockReader)
		service := NewReplenishmentService(ruleRepo, reader, scope, logger)
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		rule := testRule(t, 10, 50)
		ruleRepo.On("FindAll", ctx, mock.Anything).Return([]stock.ReplenishmentRule{*rule}, nil)
		reader.On("StockLevel", ctx, rule.TargetWarehouseID, rule.ProductID).Return(d(8), nil)
		taskRepo.On("FindOpenByRule", ctx, rule.ID).Return(nil, shared.ErrNotFound)
		taskRepo.On("Save", ctx, mock.MatchedBy(func(task *stock.RestockTask) bool {
			return task.TaskType == stock.TaskTypeTransfer &&
				task.ProductID == rule.ProductID &&
				task.RuleID != nil && *task.RuleID == rule.ID &&
				task.IsOpen()
		})).Return(nil)

		result, err := service.EvaluateRules(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.RulesEvaluated)
		assert.Equal(t, 1, result.TasksCreated)
		assert.Equal(t, 0, result.Errors)
		assert.Len(t, publisher.GetEventsByType(stock.EventTypeRestockTaskCreated), 1)
		taskRepo.AssertExpectations(t)
	})

	t.Run("skips rules above the minimum", func(t *testing.T) {
		scope, _, _, taskRepo := newTestScope()
		ruleRepo := new(MockReplenishmentRuleRepository)
		reader := new(MockWarehouseStockReader)
		service := NewReplenishmentService(ruleRepo, reader, scope, logger)

		rule := testRule(t, 10, 50)
		ruleRepo.On("FindAll", ctx, mock.Anything).Return([]stock.ReplenishmentRule{*rule}, nil)
		reader.On("StockLevel", ctx, rule.TargetWarehouseID, rule.ProductID).Return(d(30), nil)

		result, err := service.EvaluateRules(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.TasksCreated)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("does not duplicate an open transfer task", func(t *testing.T) {
		scope, _, _, taskRepo := newTestScope()
		ruleRepo := new(MockReplenishmentRuleRepository)
		reader := new(MockWarehouseStockReader)
		service := NewReplenishmentService(ruleRepo, reader, scope, logger)

		rule := testRule(t, 10, 50)
		existing, err := stock.NewTransferTask(rule.ProductID, rule.ID, 0)
		require.NoError(t, err)

		ruleRepo.On("FindAll", ctx, mock.Anything).Return([]stock.ReplenishmentRule{*rule}, nil)
		reader.On("StockLevel", ctx, rule.TargetWarehouseID, rule.ProductID).Return(d(5), nil)
		taskRepo.On("FindOpenByRule", ctx, rule.ID).Return(existing, nil)

		result, err := service.EvaluateRules(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.TasksCreated)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a failing rule is counted and does not stall the batch", func(t *testing.T) {
		scope, _, _, taskRepo := newTestScope()
		ruleRepo := new(MockReplenishmentRuleRepository)
		reader := new(MockWarehouseStockReader)
		service := NewReplenishmentService(ruleRepo, reader, scope, logger)

		bad := testRule(t, 10, 50)
		good := testRule(t, 10, 50)
		ruleRepo.On("FindAll", ctx, mock.Anything).Return([]stock.ReplenishmentRule{*bad, *good}, nil)
		reader.On("StockLevel", ctx, bad.TargetWarehouseID, bad.ProductID).Return(d(0), errors.New("warehouse feed unavailable"))
		reader.On("StockLevel", ctx, good.TargetWarehouseID, good.ProductID).Return(d(2), nil)
		taskRepo.On("FindOpenByRule", ctx, good.ID).Return(nil, shared.ErrNotFound)
		taskRepo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := service.EvaluateRules(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, result.RulesEvaluated)
		assert.Equal(t, 1, result.TasksCreated)
		assert.Equal(t, 1, result.Errors)
	})
}
