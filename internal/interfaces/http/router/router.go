package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venueops/backend/internal/infrastructure/config"
	"github.com/venueops/backend/internal/infrastructure/logger"
	"github.com/venueops/backend/internal/interfaces/http/handler"
	"github.com/venueops/backend/internal/interfaces/http/middleware"
)

const maxBodyBytes = 1 << 20 // 1MB

// Handlers carries the handlers the router wires up
type Handlers struct {
	Stock          *handler.StockHandler
	Task           *handler.TaskHandler
	Reconciliation *handler.ReconciliationHandler
	Procurement    *handler.ProcurementHandler
}

// New builds the gin engine with middleware and all API routes registered
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(maxBodyBytes),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	registerStockRoutes(api, h.Stock)
	registerTaskRoutes(api, h.Task)
	registerReconciliationRoutes(api, h.Reconciliation)
	registerProcurementRoutes(api, h.Procurement)

	return engine
}

func registerStockRoutes(api *gin.RouterGroup, h *handler.StockHandler) {
	stock := api.Group("/stock")
	stock.POST("", h.Create)
	stock.GET("", h.List)
	stock.GET("/:product_id", h.GetByProduct)
	stock.DELETE("/:product_id", h.Deactivate)
	stock.GET("/:product_id/state", h.CurrentState)
	stock.GET("/:product_id/movements", h.History)
	stock.GET("/:product_id/ledger-check", h.VerifyLedger)
	stock.POST("/:product_id/supply", h.RecordSupply)
	stock.POST("/:product_id/write-off", h.WriteOff)
	stock.POST("/:product_id/manual-edit", h.ManualEdit)
	stock.PUT("/:product_id/prices", h.UpdatePrices)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handler.TaskHandler) {
	tasks := api.Group("/tasks")
	tasks.GET("", h.List)
	tasks.POST("/:id/complete", h.Complete)
}

func registerReconciliationRoutes(api *gin.RouterGroup, h *handler.ReconciliationHandler) {
	sessions := api.Group("/reconciliation/sessions")
	sessions.POST("", h.Open)
	sessions.GET("", h.List)
	sessions.GET("/:id", h.Get)
	sessions.DELETE("/:id", h.Delete)
	sessions.POST("/:id/items", h.AddItem)
	sessions.POST("/:id/counts", h.RecordCount)
	sessions.POST("/:id/close", h.Close)
}

func registerProcurementRoutes(api *gin.RouterGroup, h *handler.ProcurementHandler) {
	api.GET("/procurement/suggestions", h.Suggest)
}
