package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

const (
	// DefaultWindowDays is the trailing window the outflow velocity is read over
	DefaultWindowDays = 30
	// DefaultHorizonDays is the cover horizon a suggestion tops stock up to
	DefaultHorizonDays = 14
	// suggestionPageSize bounds the product scan; one page is the whole catalog
	suggestionPageSize = 10000
)

// SuggestionRequest tunes one suggestion run. Zero values fall back to the
// defaults.
type SuggestionRequest struct {
	WindowDays  int `json:"window_days"`
	HorizonDays int `json:"horizon_days"`
}

// Suggestion is one proposed order line
type Suggestion struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	DailyVelocity     decimal.Decimal `json:"daily_velocity"`
	DaysOfCover       decimal.Decimal `json:"days_of_cover"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

// SuggestionResult is the outcome of one suggestion run
type SuggestionResult struct {
	WindowDays      int          `json:"window_days"`
	HorizonDays     int          `json:"horizon_days"`
	ProductsScanned int          `json:"products_scanned"`
	Suggestions     []Suggestion `json:"suggestions"`
}

// SuggestionService proposes order quantities from write-off outflow recorded
// in the movement ledger. It is a read-only consumer of the ledger and the
// stock catalog; it never writes.
type SuggestionService struct {
	stockRepo    stock.ProductStockRepository
	movementRepo stock.StockMovementRepository
	logger       *zap.Logger
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(
	stockRepo stock.ProductStockRepository,
	movementRepo stock.StockMovementRepository,
	logger *zap.Logger,
) *SuggestionService {
	return &SuggestionService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// Suggest scans all active products, derives a daily outflow velocity from
// WRITE_OFF ledger entries over the trailing window, and suggests an order
// quantity for every product whose days of cover fall below the horizon.
// Products with no outflow in the window are skipped; their cover is
// unbounded.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResult, error) {
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	horizonDays := req.HorizonDays
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	filter := shared.Filter{Page: 1, PageSize: suggestionPageSize, OrderBy: "name", OrderDir: "asc"}
	products, err := s.stockRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	window := decimal.NewFromInt(int64(windowDays))
	horizon := decimal.NewFromInt(int64(horizonDays))

	result := &SuggestionResult{
		WindowDays:  windowDays,
		HorizonDays: horizonDays,
		Suggestions: make([]Suggestion, 0),
	}

	for i := range products {
		p := &products[i]
		result.ProductsScanned++

		outflow, err := s.movementRepo.SumOutflowSince(ctx, p.ProductID, stock.MovementTypeWriteOff, since)
		if err != nil {
			return nil, err
		}
		if !outflow.IsPositive() {
			continue
		}

		velocity := outflow.Div(window)
		cover := p.TotalQuantity.Div(velocity)
		if cover.GreaterThanOrEqual(horizon) {
			continue
		}

		// Top up to horizon days of cover at the observed velocity.
		suggested := velocity.Mul(horizon).Sub(p.TotalQuantity).Ceil()
		if !suggested.IsPositive() {
			continue
		}

		result.Suggestions = append(result.Suggestions, Suggestion{
			ProductID:         p.ProductID,
			ProductName:       p.Name,
			CurrentStock:      p.TotalQuantity,
			DailyVelocity:     velocity,
			DaysOfCover:       cover,
			SuggestedQuantity: suggested,
		})
	}

	s.logger.Info("procurement suggestion run finished",
		zap.Int("window_days", windowDays),
		zap.Int("horizon_days", horizonDays),
		zap.Int("products_scanned", result.ProductsScanned),
		zap.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}
