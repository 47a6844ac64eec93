package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type getProjectResponse struct {
	ID               string    `json:"id"`
	Customer         string    `json:"customer"`
	Manufacturer     *string   `json:"manufacturer"`
	ProjectName      *string   `json:"project_name"`
	QuoteAmount      float64   `json:"quote_amount"`
	Margin           float64   `json:"margin"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	NextSteps        *string   `json:"next_steps"`
	ReminderQuestion *string   `json:"reminder_question"`
	Notes            *string   `json:"notes"`
	LastFollowUp     time.Time `json:"last_follow_up"`
	IsArchived       bool      `json:"is_archived"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newGetProjectResponse(p *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:               p.ID,
		Customer:         p.Customer,
		Manufacturer:     p.Manufacturer,
		ProjectName:      p.ProjectName,
		QuoteAmount:      p.QuoteAmount,
		Margin:           p.Margin,
		Priority:         p.Priority,
		Status:           p.Status,
		NextSteps:        p.NextSteps,
		ReminderQuestion: p.ReminderQuestion,
		Notes:            p.Notes,
		LastFollowUp:     p.LastFollowUp,
		IsArchived:       p.IsArchived,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	filter := services.ProjectFilter{
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	}
	if filter.Priority == "all" {
		filter.Priority = ""
	}

	projects, err := h.projects.List(c, filter)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list projects")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = newGetProjectResponse(&p)
	}
	c.JSON(http.StatusOK, gin.H{"projects": response})
}

type createProjectRequest struct {
	Customer         string  `json:"customer" binding:"required,max=255"`
	Manufacturer     *string `json:"manufacturer,omitempty"`
	ProjectName      *string `json:"project_name,omitempty"`
	QuoteAmount      float64 `json:"quote_amount" binding:"gte=0"`
	Margin           float64 `json:"margin"`
	Priority         string  `json:"priority,omitempty"`
	Status           string  `json:"status,omitempty"`
	NextSteps        *string `json:"next_steps,omitempty"`
	ReminderQuestion *string `json:"reminder_question,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.Create(c, services.CreateProjectParams{
		Customer:         req.Customer,
		Manufacturer:     cleanOptional(req.Manufacturer),
		ProjectName:      cleanOptional(req.ProjectName),
		QuoteAmount:      req.QuoteAmount,
		Margin:           req.Margin,
		Priority:         req.Priority,
		Status:           req.Status,
		NextSteps:        cleanOptional(req.NextSteps),
		ReminderQuestion: cleanOptional(req.ReminderQuestion),
		Notes:            cleanOptional(req.Notes),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": newGetProjectResponse(project)})
}

type updateProjectRequest struct {
	Customer         *string    `json:"customer,omitempty"`
	Manufacturer     *string    `json:"manufacturer,omitempty"`
	ProjectName      *string    `json:"project_name,omitempty"`
	QuoteAmount      *float64   `json:"quote_amount,omitempty"`
	Margin           *float64   `json:"margin,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	Status           *string    `json:"status,omitempty"`
	NextSteps        *string    `json:"next_steps,omitempty"`
	ReminderQuestion *string    `json:"reminder_question,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	LastFollowUp     *time.Time `json:"last_follow_up,omitempty"`
	IsArchived       *bool      `json:"is_archived,omitempty"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("project id required"))
		return
	}

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.Update(c, projectID, services.UpdateProjectParams{
		Customer:         req.Customer,
		Manufacturer:     cleanOptional(req.Manufacturer),
		ProjectName:      cleanOptional(req.ProjectName),
		QuoteAmount:      req.QuoteAmount,
		Margin:           req.Margin,
		Priority:         req.Priority,
		Status:           req.Status,
		NextSteps:        cleanOptional(req.NextSteps),
		ReminderQuestion: cleanOptional(req.ReminderQuestion),
		Notes:            cleanOptional(req.Notes),
		LastFollowUp:     req.LastFollowUp,
		IsArchived:       req.IsArchived,
	})
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": newGetProjectResponse(project)})
}

// HandleDeleteProject soft-deletes: the row is archived, never removed.
func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID := c.Param("id")
	if projectID == "" {
		abort(c, newBadRequestError("project id required"))
		return
	}

	err := h.projects.Archive(c, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to archive project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// cleanOptional folds N/A spellings to the empty value, which the
// service layer stores as NULL.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	switch *s {
	case "", "N/A", "n/a", "NA":
		empty := ""
		return &empty
	}
	return s
}
