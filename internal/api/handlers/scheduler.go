package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amartyachowdhury/movie-stack/internal/api/envelope"
	"github.com/amartyachowdhury/movie-stack/internal/scheduler"
)

// SchedulerHandler handles scheduler-related API requests.
type SchedulerHandler struct {
	scheduler *scheduler.Scheduler
}

// NewSchedulerHandler creates a new scheduler handler.
func NewSchedulerHandler(sched *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: sched,
	}
}

// RegisterRoutes registers the scheduler routes on the API group.
func (h *SchedulerHandler) RegisterRoutes(g *echo.Group) {
	tasks := g.Group("/scheduler/tasks")
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.POST("/:id/run", h.RunTask)
}

// ListTasks returns all scheduled tasks.
// GET /api/scheduler/tasks
func (h *SchedulerHandler) ListTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope.Success("Tasks retrieved successfully", h.scheduler.ListTasks()))
}

// GetTask returns information about a specific task.
// GET /api/scheduler/tasks/:id
func (h *SchedulerHandler) GetTask(c echo.Context) error {
	task, err := h.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, envelope.Success("Task retrieved successfully", task))
}

// RunTask manually triggers a task to run.
// POST /api/scheduler/tasks/:id/run
func (h *SchedulerHandler) RunTask(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.scheduler.RunNow(taskID); err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusAccepted, envelope.Success("Task started", map[string]string{
		"taskId": taskID,
	}))
}

func taskError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found").SetInternal(err)
	case errors.Is(err, scheduler.ErrTaskRunning):
		return echo.NewHTTPError(http.StatusConflict, "Task is already running").SetInternal(err)
	default:
		return err
	}
}
