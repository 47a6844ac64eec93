package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskListNotFound = errors.New("task list not found")
	ErrSessionNotFound  = errors.New("session not found")
)

type ProjectService interface {
	// List returns active (non-archived) projects, newest first.
	// Empty filter fields match everything.
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)

	GetByID(ctx context.Context, id string) (*models.Project, error)

	// Search matches customer and manufacturer case-insensitively,
	// excluding archived projects.
	Search(ctx context.Context, query string, limit int) ([]models.Project, error)

	Create(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// Update modifies only the supplied fields and returns
	// ErrProjectNotFound if the id doesn't exist.
	Update(ctx context.Context, id string, params UpdateProjectParams) (*models.Project, error)

	// Archive soft-deletes a project. Archived projects disappear
	// from listings, search and reminder evaluation.
	Archive(ctx context.Context, id string) error

	// MarkFollowedUp refreshes the follow-up pivot timestamp.
	MarkFollowedUp(ctx context.Context, id string, at time.Time) error

	SetStatus(ctx context.Context, id, status string) error
}

type TaskService interface {
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// ListOpen returns pending tasks ordered by due date
	// (tasks without one sort last), capped at limit.
	ListOpen(ctx context.Context, limit int) ([]models.Task, error)

	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	Update(ctx context.Context, id string, params UpdateTaskParams) (*models.Task, error)

	// Complete marks a task done and stamps completed_at.
	Complete(ctx context.Context, id string, at time.Time) (*models.Task, error)

	Delete(ctx context.Context, id string) error
}

type TaskListService interface {
	List(ctx context.Context) ([]models.TaskList, error)
	Create(ctx context.Context, params CreateTaskListParams) (*models.TaskList, error)
	Update(ctx context.Context, id string, params UpdateTaskListParams) (*models.TaskList, error)

	// Delete detaches all member tasks before removing the list.
	Delete(ctx context.Context, id string) error
}

type SessionService interface {
	// GetOrCreate returns the session for a phone number, creating
	// an idle one on first contact. Concurrent first messages from
	// the same sender must not produce duplicates.
	GetOrCreate(ctx context.Context, phoneNumber string) (*models.Session, error)

	// Save persists the full session tuple: state, context,
	// current project reference and last message timestamp.
	Save(ctx context.Context, session *models.Session) error
}

type TeamService interface {
	// ListNotifiable returns team members with WhatsApp enabled.
	ListNotifiable(ctx context.Context) ([]models.TeamMember, error)
}

type ProjectFilter struct {
	Priority string
	Status   string
}

type CreateProjectParams struct {
	Customer         string
	Manufacturer     *string
	ProjectName      *string
	QuoteAmount      float64
	Margin           float64
	Priority         string
	Status           string
	NextSteps        *string
	ReminderQuestion *string
	Notes            *string
}

type UpdateProjectParams struct {
	Customer         *string
	Manufacturer     *string
	ProjectName      *string
	QuoteAmount      *float64
	Margin           *float64
	Priority         *string
	Status           *string
	NextSteps        *string
	ReminderQuestion *string
	Notes            *string
	LastFollowUp     *time.Time
	IsArchived       *bool
}

type TaskFilter struct {
	ListID    string
	Completed *bool
}

type CreateTaskParams struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    string
	ListID      *string
	ProjectID   *string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Priority    *string
	ListID      *string
	ProjectID   *string
	Completed   *bool
}

type CreateTaskListParams struct {
	Name        string
	Description *string
	Color       string
}

type UpdateTaskListParams struct {
	Name        *string
	Description *string
	Color       *string
}
