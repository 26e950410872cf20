package handler

import (
	"github.com/gin-gonic/gin"

	reconapp "github.com/venueops/backend/internal/application/reconciliation"
	"github.com/venueops/backend/internal/interfaces/http/dto"
	"github.com/venueops/backend/internal/interfaces/http/middleware"
)

// ReconciliationHandler handles reconciliation session API endpoints
type ReconciliationHandler struct {
	BaseHandler
	sessionService *reconapp.SessionService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(sessionService *reconapp.SessionService) *ReconciliationHandler {
	return &ReconciliationHandler{sessionService: sessionService}
}

// Open godoc
// @Summary      Open reconciliation session
// @Description  Snapshot active stock records and freeze prices for counting
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body reconapp.OpenSessionRequest true "Session scope and target metric"
// @Success      201 {object} dto.Response{data=reconapp.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions [post]
func (h *ReconciliationHandler) Open(c *gin.Context) {
	var req reconapp.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.sessionService.Open(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get reconciliation session
// @Description  Retrieve a session with all of its item lines
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=reconapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions/{id} [get]
func (h *ReconciliationHandler) Get(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	result, err := h.sessionService.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List reconciliation sessions
// @Description  Retrieve a paginated list of sessions, newest first
// @Tags         reconciliation
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]reconapp.SessionListResponse,meta=dto.Meta}
// @Router       /reconciliation/sessions [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	listReq.Normalize()

	results, total, err := h.sessionService.List(c.Request.Context(), reconapp.SessionListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, listReq.Page, listReq.PageSize)
}

// AddItem godoc
// @Summary      Add item to session
// @Description  Add a product found on the shelf mid-count, freezing its current expected stock
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body reconapp.AddItemRequest true "Product to add"
// @Success      200 {object} dto.Response{data=reconapp.SessionItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions/{id}/items [post]
func (h *ReconciliationHandler) AddItem(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	var req reconapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.sessionService.AddItem(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordCount godoc
// @Summary      Record count
// @Description  Record the counted quantity for an item; recounting overwrites the previous value
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body reconapp.RecordCountRequest true "Counted quantity"
// @Success      200 {object} dto.Response{data=reconapp.SessionItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions/{id}/counts [post]
func (h *ReconciliationHandler) RecordCount(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	var req reconapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.sessionService.RecordCount(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Close godoc
// @Summary      Close session
// @Description  Apply count adjustments to stock, compute the revenue difference and close the session
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body reconapp.CloseSessionRequest true "Reported revenue and closer"
// @Success      200 {object} dto.Response{data=reconapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions/{id}/close [post]
func (h *ReconciliationHandler) Close(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	var req reconapp.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.sessionService.Close(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete open session
// @Description  Discard an open session; closed sessions are immutable
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/sessions/{id} [delete]
func (h *ReconciliationHandler) Delete(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
