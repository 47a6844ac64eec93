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

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(logger zerolog.Logger, pgPool *pgxpool.Pool) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const taskColumns = `id,
       title,
       description,
       due_date,
       priority,
       status,
       list_id,
       project_id,
       completed_at,
       created_at,
       updated_at`

func scanTask(row pgx.Row, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Priority,
		&t.Status,
		&t.ListID,
		&t.ProjectID,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func (s *taskServiceImpl) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	const selectTasksQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE ($1 = '' OR list_id = $1::uuid) AND
      ($2::bool IS NULL OR (status = 'completed') = $2)
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksQuery,
		filter.ListID,
		filter.Completed,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) ListOpen(ctx context.Context, limit int) ([]models.Task, error) {
	const selectOpenTasksQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE status <> 'completed'
ORDER BY due_date ASC NULLS LAST, created_at ASC
LIMIT $1
`
	rows, err := s.pgPool.Query(ctx, selectOpenTasksQuery, limit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select open tasks")
		return nil, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := models.Task{
		ID:          taskUUID.String(),
		Title:       params.Title,
		Description: textOrNil(params.Description),
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		Status:      models.TaskStatusPending,
		ListID:      params.ListID,
		ProjectID:   params.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityNormal
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   due_date,
                   priority,
                   status,
                   list_id,
                   project_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.ListID,
		task.ProjectID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, id string, params UpdateTaskParams) (*models.Task, error) {
	const selectTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	var task models.Task
	err := scanTask(s.pgPool.QueryRow(ctx, selectTaskQuery, id), &task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = textOrNil(params.Description)
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.ClearDue {
		task.DueDate = nil
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.ListID != nil {
		task.ListID = params.ListID
	}
	if params.ProjectID != nil {
		task.ProjectID = params.ProjectID
	}

	now := time.Now()
	if params.Completed != nil {
		if *params.Completed {
			task.Status = models.TaskStatusCompleted
			task.CompletedAt = &now
		} else {
			// Reverting to pending clears the completion timestamp.
			task.Status = models.TaskStatusPending
			task.CompletedAt = nil
		}
	}
	task.UpdatedAt = now

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    priority = $4,
    status = $5,
    list_id = $6,
    project_id = $7,
    completed_at = $8,
    updated_at = $9
WHERE id = $10
`
	_, err = s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.ListID,
		task.ProjectID,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return &task, nil
}

func (s *taskServiceImpl) Complete(ctx context.Context, id string, at time.Time) (*models.Task, error) {
	const completeTaskQuery = `
UPDATE tasks
SET status = 'completed',
    completed_at = $1,
    updated_at = $1
WHERE id = $2
RETURNING ` + taskColumns + `
`
	var task models.Task
	err := scanTask(s.pgPool.QueryRow(ctx, completeTaskQuery, at, id), &task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to complete task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("completed task")
	return &task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
       WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func collectTasks(rows pgx.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err := scanTask(rows, &task)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
