package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectService(logger zerolog.Logger, pgPool *pgxpool.Pool) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const projectColumns = `id,
       customer,
       manufacturer,
       project_name,
       quote_amount,
       margin,
       priority,
       status,
       next_steps,
       reminder_question,
       notes,
       last_follow_up,
       is_archived,
       created_at,
       updated_at`

func scanProject(row pgx.Row, p *models.Project) error {
	return row.Scan(
		&p.ID,
		&p.Customer,
		&p.Manufacturer,
		&p.ProjectName,
		&p.QuoteAmount,
		&p.Margin,
		&p.Priority,
		&p.Status,
		&p.NextSteps,
		&p.ReminderQuestion,
		&p.Notes,
		&p.LastFollowUp,
		&p.IsArchived,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (s *projectServiceImpl) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	const selectProjectsQuery = `
SELECT ` + projectColumns + `
FROM projects
WHERE is_archived = FALSE AND
      ($1 = '' OR priority = $1) AND
      ($2 = '' OR status = $2)
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectProjectsQuery,
		filter.Priority,
		filter.Status,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	projects, err := collectProjects(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan projects")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(projects)).
		Msg("selected projects")
	return projects, nil
}

func (s *projectServiceImpl) GetByID(ctx context.Context, id string) (*models.Project, error) {
	const selectProjectQuery = `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1
`
	var project models.Project
	err := scanProject(s.pgPool.QueryRow(ctx, selectProjectQuery, id), &project)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to select project")
		return nil, err
	}
	return &project, nil
}

func (s *projectServiceImpl) Search(ctx context.Context, query string, limit int) ([]models.Project, error) {
	const searchProjectsQuery = `
SELECT ` + projectColumns + `
FROM projects
WHERE is_archived = FALSE AND
      (customer ILIKE '%' || $1 || '%' OR
       manufacturer ILIKE '%' || $1 || '%')
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := s.pgPool.Query(ctx, searchProjectsQuery, query, limit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("query", query).
			Msg("failed to search projects")
		return nil, err
	}
	defer rows.Close()

	projects, err := collectProjects(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan projects")
		return nil, err
	}
	return projects, nil
}

func (s *projectServiceImpl) Create(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}

	now := time.Now()
	project := models.Project{
		ID:               projectUUID.String(),
		Customer:         params.Customer,
		Manufacturer:     textOrNil(params.Manufacturer),
		ProjectName:      textOrNil(params.ProjectName),
		QuoteAmount:      params.QuoteAmount,
		Margin:           params.Margin,
		Priority:         params.Priority,
		Status:           params.Status,
		NextSteps:        textOrNil(params.NextSteps),
		ReminderQuestion: textOrNil(params.ReminderQuestion),
		Notes:            textOrNil(params.Notes),
		LastFollowUp:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if project.Priority == "" {
		project.Priority = models.PriorityNonPriority
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusQuoted
	}

	const insertProjectQuery = `
INSERT INTO projects (id,
                      customer,
                      manufacturer,
                      project_name,
                      quote_amount,
                      margin,
                      priority,
                      status,
                      next_steps,
                      reminder_question,
                      notes,
                      last_follow_up,
                      is_archived,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, $14)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.Customer,
		project.Manufacturer,
		project.ProjectName,
		project.QuoteAmount,
		project.Margin,
		project.Priority,
		project.Status,
		project.NextSteps,
		project.ReminderQuestion,
		project.Notes,
		project.LastFollowUp,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("customer", project.Customer).
		Msg("created project")
	return &project, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, id string, params UpdateProjectParams) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Customer != nil {
		project.Customer = *params.Customer
	}
	if params.Manufacturer != nil {
		project.Manufacturer = textOrNil(params.Manufacturer)
	}
	if params.ProjectName != nil {
		project.ProjectName = textOrNil(params.ProjectName)
	}
	if params.QuoteAmount != nil {
		project.QuoteAmount = *params.QuoteAmount
	}
	if params.Margin != nil {
		project.Margin = *params.Margin
	}
	if params.Priority != nil {
		project.Priority = *params.Priority
	}
	if params.Status != nil {
		project.Status = *params.Status
	}
	if params.NextSteps != nil {
		project.NextSteps = textOrNil(params.NextSteps)
	}
	if params.ReminderQuestion != nil {
		project.ReminderQuestion = textOrNil(params.ReminderQuestion)
	}
	if params.Notes != nil {
		project.Notes = textOrNil(params.Notes)
	}
	if params.LastFollowUp != nil {
		project.LastFollowUp = *params.LastFollowUp
	}
	if params.IsArchived != nil {
		project.IsArchived = *params.IsArchived
	}
	project.UpdatedAt = time.Now()

	const updateProjectQuery = `
UPDATE projects
SET customer = $1,
    manufacturer = $2,
    project_name = $3,
    quote_amount = $4,
    margin = $5,
    priority = $6,
    status = $7,
    next_steps = $8,
    reminder_question = $9,
    notes = $10,
    last_follow_up = $11,
    is_archived = $12,
    updated_at = $13
WHERE id = $14
`
	_, err = s.pgPool.Exec(
		ctx,
		updateProjectQuery,
		project.Customer,
		project.Manufacturer,
		project.ProjectName,
		project.QuoteAmount,
		project.Margin,
		project.Priority,
		project.Status,
		project.NextSteps,
		project.ReminderQuestion,
		project.Notes,
		project.LastFollowUp,
		project.IsArchived,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to update project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) Archive(ctx context.Context, id string) error {
	const archiveProjectQuery = `
UPDATE projects
SET is_archived = TRUE,
    updated_at = $1
WHERE id = $2
`
	tag, err := s.pgPool.Exec(ctx, archiveProjectQuery, time.Now(), id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to archive project")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	s.logger.Info().
		Str("project_id", id).
		Msg("archived project")
	return nil
}

func (s *projectServiceImpl) MarkFollowedUp(ctx context.Context, id string, at time.Time) error {
	const markFollowedUpQuery = `
UPDATE projects
SET last_follow_up = $1,
    updated_at = $1
WHERE id = $2
`
	tag, err := s.pgPool.Exec(ctx, markFollowedUpQuery, at, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to mark project followed up")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *projectServiceImpl) SetStatus(ctx context.Context, id, status string) error {
	const setStatusQuery = `
UPDATE projects
SET status = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(ctx, setStatusQuery, status, time.Now(), id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Str("status", status).
			Msg("failed to set project status")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	s.logger.Info().
		Str("project_id", id).
		Str("status", status).
		Msg("set project status")
	return nil
}

// textOrNil folds a supplied-but-empty optional field to NULL.
func textOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func collectProjects(rows pgx.Rows) ([]models.Project, error) {
	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := scanProject(rows, &project)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
