package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type getTaskListResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetTaskListResponse(list *models.TaskList) getTaskListResponse {
	return getTaskListResponse{
		ID:          list.ID,
		Name:        list.Name,
		Description: list.Description,
		Color:       list.Color,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
}

func (h *handlerImpl) HandleListTaskLists(c *gin.Context) {
	lists, err := h.lists.List(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list task lists")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskListResponse, len(lists))
	for i, list := range lists {
		response[i] = newGetTaskListResponse(&list)
	}
	c.JSON(http.StatusOK, gin.H{"lists": response})
}

type createTaskListRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
}

func (h *handlerImpl) HandleCreateTaskList(c *gin.Context) {
	var req createTaskListRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	list, err := h.lists.Create(c, services.CreateTaskListParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task list")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"list": newGetTaskListResponse(list)})
}

type updateTaskListRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (h *handlerImpl) HandleUpdateTaskList(c *gin.Context) {
	listID := c.Param("id")
	if listID == "" {
		abort(c, newBadRequestError("list id required"))
		return
	}

	var req updateTaskListRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	list, err := h.lists.Update(c, listID, services.UpdateTaskListParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskListNotFound) {
			abort(c, newNotFoundError(services.ErrTaskListNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update task list")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": newGetTaskListResponse(list)})
}

// HandleDeleteTaskList detaches member tasks, then removes the list.
func (h *handlerImpl) HandleDeleteTaskList(c *gin.Context) {
	listID := c.Param("id")
	if listID == "" {
		abort(c, newBadRequestError("list id required"))
		return
	}

	err := h.lists.Delete(c, listID)
	if err != nil {
		if errors.Is(err, services.ErrTaskListNotFound) {
			abort(c, newNotFoundError(services.ErrTaskListNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete task list")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
