package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/domain/stock"
	"github.com/venueops/backend/internal/interfaces/http/dto"
	"github.com/venueops/backend/internal/interfaces/http/middleware"
)

// TaskHandler handles restock and transfer task API endpoints
type TaskHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(stockService *stockapp.StockService) *TaskHandler {
	return &TaskHandler{stockService: stockService}
}

// CompleteTaskRequest identifies who completed a work item
type CompleteTaskRequest struct {
	ActorID string `json:"actor_id" binding:"required,uuid"`
}

// List godoc
// @Summary      List tasks
// @Description  Retrieve restock and transfer work items filtered by status
// @Tags         tasks
// @Produce      json
// @Param        status query string false "Task status" Enums(OPEN, COMPLETED) default(OPEN)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]stockapp.RestockTaskResponse}
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	listReq.Normalize()

	status := stock.TaskStatusOpen
	if statusStr := c.Query("status"); statusStr != "" {
		status = stock.TaskStatus(statusStr)
		if status != stock.TaskStatusOpen && status != stock.TaskStatusCompleted {
			h.BadRequest(c, "Invalid status value")
			return
		}
	}

	results, err := h.stockService.ListTasks(c.Request.Context(), status, stockapp.TaskListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, results)
}

// Complete godoc
// @Summary      Complete task
// @Description  Complete a work item; RESTOCK tasks move back stock to the front bucket
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body CompleteTaskRequest true "Completion details"
// @Success      200 {object} dto.Response{data=stockapp.RestockTaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID format")
		return
	}

	result, err := h.stockService.CompleteRestockTask(c.Request.Context(), taskID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
