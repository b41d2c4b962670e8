package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// TaskHandler handles HTTP requests for field-work tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	AssignedTo   string     `json:"assigned_to"   validate:"required"`
	TaskType     string     `json:"task_type"     validate:"required"`
	Description  string     `json:"description"   validate:"required"`
	TargetVoters []string   `json:"target_voters"`
	TargetArea   string     `json:"target_area"`
	TargetBooth  string     `json:"target_booth"`
	DueDate      *time.Time `json:"due_date"`
}

type updateTaskStatusRequest struct {
	Status               string   `json:"status" validate:"required,oneof=pending in_progress completed"`
	CompletionPercentage *float64 `json:"completion_percentage" validate:"omitempty,gte=0,lte=100"`
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), claims, ports.CreateTaskInput{
		AssignedTo:   req.AssignedTo,
		TaskType:     req.TaskType,
		Description:  req.Description,
		TargetVoters: req.TargetVoters,
		TargetArea:   req.TargetArea,
		TargetBooth:  req.TargetBooth,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// MyTasks handles GET /v1/tasks/my-tasks, optionally filtered by ?status=.
//
// @Summary      List the requester's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {array}  domain.Task
// @Router       /v1/tasks/my-tasks [get]
func (h *TaskHandler) MyTasks(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.MyTasks(c.Request().Context(), claims, domain.TaskStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateStatus handles PUT /v1/tasks/:id/status.
//
// @Summary      Update a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Task id"
// @Param        body  body      updateTaskStatusRequest  true  "New status"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tasks/{id}/status [put]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), claims, ports.UpdateTaskStatusInput{
		TaskID:               c.Param("id"),
		Status:               domain.TaskStatus(req.Status),
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}
