package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/venueops/backend/internal/application/procurement"
	"github.com/venueops/backend/internal/interfaces/http/middleware"
)

// ProcurementHandler handles purchase suggestion API endpoints
type ProcurementHandler struct {
	BaseHandler
	suggestionService *procurement.SuggestionService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(suggestionService *procurement.SuggestionService) *ProcurementHandler {
	return &ProcurementHandler{suggestionService: suggestionService}
}

type suggestionQuery struct {
	WindowDays  int `form:"window_days" binding:"omitempty,min=1,max=365"`
	HorizonDays int `form:"horizon_days" binding:"omitempty,min=1,max=365"`
}

// Suggest godoc
// @Summary      Suggest purchases
// @Description  Compute reorder suggestions from write-off velocity over a trailing window
// @Tags         procurement
// @Produce      json
// @Param        window_days query int false "Velocity window in days" default(30)
// @Param        horizon_days query int false "Coverage horizon in days" default(14)
// @Success      200 {object} dto.Response{data=procurement.SuggestionResult}
// @Router       /procurement/suggestions [get]
func (h *ProcurementHandler) Suggest(c *gin.Context) {
	var query suggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.suggestionService.Suggest(c.Request.Context(), procurement.SuggestionRequest{
		WindowDays:  query.WindowDays,
		HorizonDays: query.HorizonDays,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
