package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

const dueDateLayout = "2006-01-02"

type getTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *string    `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ListID      *string    `json:"list_id"`
	ProjectID   *string    `json:"project_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		ListID:      task.ListID,
		ProjectID:   task.ProjectID,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(dueDateLayout)
		resp.DueDate = &due
	}
	return resp
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	filter := services.TaskFilter{
		ListID: c.Query("list_id"),
	}
	switch c.Query("completed") {
	case "true":
		completed := true
		filter.Completed = &completed
	case "false":
		completed := false
		filter.Completed = &completed
	}

	tasks, err := h.tasks.List(c, filter)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, t := range tasks {
		response[i] = newGetTaskResponse(&t)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	ListID      *string `json:"list_id,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, ok := parseDueDateParam(req.DueDate)
	if !ok {
		abort(c, newBadRequestError("invalid due_date, expected YYYY-MM-DD"))
		return
	}

	task, err := h.tasks.Create(c, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    req.Priority,
		ListID:      req.ListID,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": newGetTaskResponse(task)})
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	ListID      *string `json:"list_id,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	Completed   *bool   `json:"is_completed,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("task id required"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ListID:      req.ListID,
		ProjectID:   req.ProjectID,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			params.ClearDue = true
		} else {
			dueDate, ok := parseDueDateParam(req.DueDate)
			if !ok {
				abort(c, newBadRequestError("invalid due_date, expected YYYY-MM-DD"))
				return
			}
			params.DueDate = dueDate
		}
	}

	task, err := h.tasks.Update(c, taskID, params)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": newGetTaskResponse(task)})
}

// HandleDeleteTask removes the row permanently; tasks have no
// archive flag.
func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		abort(c, newBadRequestError("task id required"))
		return
	}

	err := h.tasks.Delete(c, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseDueDateParam(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	parsed, err := time.Parse(dueDateLayout, *s)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
