package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/domain/stock"
	"github.com/venueops/backend/internal/interfaces/http/dto"
	"github.com/venueops/backend/internal/interfaces/http/middleware"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Create godoc
// @Summary      Create stock record
// @Description  Create the stock record for a product, ledgering a positive opening balance
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.CreateStockRequest true "Stock record to create"
// @Success      201 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req stockapp.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.stockService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @Summary      List stock records
// @Description  Retrieve a paginated list of active stock records
// @Tags         stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        category_id query string false "Filter by category ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]stockapp.StockStateResponse,meta=dto.Meta}
// @Router       /stock [get]
func (h *StockHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	listReq.Normalize()

	filter := stockapp.StockListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid category ID format")
			return
		}
		filter.CategoryID = &categoryID
	}

	results, total, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// GetByProduct godoc
// @Summary      Get stock record
// @Description  Retrieve the full stock record for a product
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id} [get]
func (h *StockHandler) GetByProduct(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.stockService.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CurrentState godoc
// @Summary      Get current stock state
// @Description  Retrieve the compact total/front/back view, served from cache when possible
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=stockapp.CurrentStateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/state [get]
func (h *StockHandler) CurrentState(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.stockService.CurrentState(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

type historyQuery struct {
	Limit int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Type  string `form:"type" binding:"omitempty,movementtype"`
}

// History godoc
// @Summary      Get movement history
// @Description  Retrieve the most recent ledger entries for a product, newest first
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        limit query int false "Maximum entries" default(50) maximum(500)
// @Param        type query string false "Filter by movement type"
// @Success      200 {object} dto.Response{data=[]stockapp.MovementResponse}
// @Router       /stock/{product_id}/movements [get]
func (h *StockHandler) History(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var results []stockapp.MovementResponse
	if query.Type != "" {
		results, err = h.stockService.GetHistoryByType(c.Request.Context(), productID, stock.MovementType(query.Type), query.Limit)
	} else {
		results, err = h.stockService.GetHistory(c.Request.Context(), productID, query.Limit)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// VerifyLedger godoc
// @Summary      Verify ledger consistency
// @Description  Replay the movement ledger and compare against the stored total
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=stockapp.LedgerCheckResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/ledger-check [get]
func (h *StockHandler) VerifyLedger(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.stockService.VerifyLedger(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordSupply godoc
// @Summary      Record supply
// @Description  Receive goods into stock and append a SUPPLY ledger entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body stockapp.RecordSupplyRequest true "Supply details"
// @Success      200 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/supply [post]
func (h *StockHandler) RecordSupply(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req stockapp.RecordSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ProductID = productID

	result, err := h.stockService.RecordSupply(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// WriteOff godoc
// @Summary      Write off stock
// @Description  Remove stock with a reason and append a WRITE_OFF ledger entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body stockapp.WriteOffRequest true "Write-off details"
// @Success      200 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/write-off [post]
func (h *StockHandler) WriteOff(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req stockapp.WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ProductID = productID

	result, err := h.stockService.WriteOff(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ManualEdit godoc
// @Summary      Manually edit stock
// @Description  Overwrite the total and split thresholds, ledgering the signed difference
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body stockapp.ManualEditRequest true "New totals and thresholds"
// @Success      200 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/manual-edit [post]
func (h *StockHandler) ManualEdit(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req stockapp.ManualEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ProductID = productID

	result, err := h.stockService.ManualEdit(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdatePrices godoc
// @Summary      Update prices
// @Description  Set new cost and selling prices; open reconciliation snapshots are unaffected
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body stockapp.UpdatePricesRequest true "New prices"
// @Success      200 {object} dto.Response{data=stockapp.StockStateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id}/prices [put]
func (h *StockHandler) UpdatePrices(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req stockapp.UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ProductID = productID

	result, err := h.stockService.UpdatePrices(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate stock record
// @Description  Hide a product from listings and replenishment without touching its ledger
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/{product_id} [delete]
func (h *StockHandler) Deactivate(c *gin.Context) {
	productID, err := parseUUIDParam(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.stockService.Deactivate(c.Request.Context(), productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
