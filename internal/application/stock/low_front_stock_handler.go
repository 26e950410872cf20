package stock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

// LowFrontStockHandler handles FrontStockBelowThreshold events. Restock task
// creation happens inside the mutation transaction; this handler is the
// after-commit alert channel.
type LowFrontStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier is the interface for sending stock alerts.
// Implementations can support different channels (in-app, email, SMS, etc.)
type StockAlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a low-front-stock alert
type StockAlert struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	FrontQuantity string `json:"front_quantity"`
	MinFront      string `json:"min_front"`
	BackQuantity  string `json:"back_quantity"`
	AlertType     string `json:"alert_type"` // "low_front", "front_empty"
}

// NewLowFrontStockHandler creates a new handler for low front stock events
func NewLowFrontStockHandler(logger *zap.Logger) *LowFrontStockHandler {
	return &LowFrontStockHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowFrontStockHandler) WithNotifier(notifier StockAlertNotifier) *LowFrontStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowFrontStockHandler) EventTypes() []string {
	return []string{stock.EventTypeFrontStockBelowThreshold}
}

// Handle processes a FrontStockBelowThresholdEvent
func (h *LowFrontStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*stock.FrontStockBelowThresholdEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", stock.EventTypeFrontStockBelowThreshold),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			stock.EventTypeFrontStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("front stock below threshold",
		zap.String("product_id", thresholdEvent.ProductID.String()),
		zap.String("product_name", thresholdEvent.ProductName),
		zap.String("front_quantity", thresholdEvent.FrontQuantity.String()),
		zap.String("min_front", thresholdEvent.MinFront.String()),
		zap.String("back_quantity", thresholdEvent.BackQuantity.String()),
	)

	if h.notifier == nil {
		return nil
	}

	alertType := "low_front"
	if thresholdEvent.FrontQuantity.IsZero() {
		alertType = "front_empty"
	}

	alert := StockAlert{
		ProductID:     thresholdEvent.ProductID.String(),
		ProductName:   thresholdEvent.ProductName,
		FrontQuantity: thresholdEvent.FrontQuantity.String(),
		MinFront:      thresholdEvent.MinFront.String(),
		BackQuantity:  thresholdEvent.BackQuantity.String(),
		AlertType:     alertType,
	}

	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to send stock alert notification",
			zap.String("product_id", alert.ProductID),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure LowFrontStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowFrontStockHandler)(nil)

// LoggingStockAlertNotifier is a simple notifier that logs alerts.
// This is useful for development and testing.
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("product_id", alert.ProductID),
		zap.String("product_name", alert.ProductName),
		zap.String("front_qty", alert.FrontQuantity),
		zap.String("min_front", alert.MinFront),
	)
	return nil
}

// Ensure LoggingStockAlertNotifier implements StockAlertNotifier
var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
