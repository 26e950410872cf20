package stock

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// EvaluationResult summarizes one batch run of the replenishment rules
type EvaluationResult struct {
	RulesEvaluated int `json:"rules_evaluated"`
	TasksCreated   int `json:"tasks_created"`
	Errors         int `json:"errors"`
}

// ReplenishmentService evaluates cross-warehouse replenishment rules as a
// periodic batch, off the mutation hot path. For every rule whose target
// warehouse stock has dropped to or below the minimum it ensures a single
// OPEN transfer task exists.
type ReplenishmentService struct {
	ruleRepo       stock.ReplenishmentRuleRepository
	warehouseStock stock.WarehouseStockReader
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	ruleRepo stock.ReplenishmentRuleRepository,
	warehouseStock stock.WarehouseStockReader,
	scope TransactionScope,
	logger *zap.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		ruleRepo:       ruleRepo,
		warehouseStock: warehouseStock,
		scope:          scope,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReplenishmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// EvaluateRules runs one batch over all rules. A failing rule is logged and
// skipped so a single bad row cannot stall the whole batch.
func (s *ReplenishmentService) EvaluateRules(ctx context.Context) (*EvaluationResult, error) {
	rules, err := s.ruleRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	result := &EvaluationResult{}
	for i := range rules {
		rule := &rules[i]
		result.RulesEvaluated++

		created, err := s.evaluateRule(ctx, rule)
		if err != nil {
			result.Errors++
			s.logger.Error("replenishment rule evaluation failed",
				zap.String("rule_id", rule.ID.String()),
				zap.String("product_id", rule.ProductID.String()),
				zap.Error(err),
			)
			continue
		}
		if created {
			result.TasksCreated++
		}
	}

	s.logger.Info("replenishment batch finished",
		zap.Int("rules_evaluated", result.RulesEvaluated),
		zap.Int("tasks_created", result.TasksCreated),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

// evaluateRule checks one rule and creates its transfer task if needed.
// Returns true when a new task was created.
func (s *ReplenishmentService) evaluateRule(ctx context.Context, rule *stock.ReplenishmentRule) (bool, error) {
	level, err := s.warehouseStock.StockLevel(ctx, rule.TargetWarehouseID, rule.ProductID)
	if err != nil {
		return false, err
	}

	if !rule.NeedsTransfer(level) {
		return false, nil
	}

	suggested := rule.SuggestedQuantity(level)
	created := false

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.TaskRepo().FindOpenByRule(ctx, rule.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return nil
		}

		task, err := stock.NewTransferTask(rule.ProductID, rule.ID, 0)
		if err != nil {
			return err
		}
		if err := repos.TaskRepo().Save(ctx, task); err != nil {
			return err
		}

		created = true
		s.logger.Info("transfer task created",
			zap.String("task_id", task.ID.String()),
			zap.String("rule_id", rule.ID.String()),
			zap.String("product_id", rule.ProductID.String()),
			zap.String("target_warehouse_id", rule.TargetWarehouseID.String()),
			zap.String("current_level", level.String()),
			zap.String("suggested_quantity", suggested.String()),
		)

		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, stock.NewRestockTaskCreatedEvent(task))
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}
