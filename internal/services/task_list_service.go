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

type taskListServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskListService(logger zerolog.Logger, pgPool *pgxpool.Pool) TaskListService {
	return &taskListServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskListServiceImpl) List(ctx context.Context) ([]models.TaskList, error) {
	const selectTaskListsQuery = `
SELECT id,
       name,
       description,
       color,
       created_at,
       updated_at
FROM task_lists
ORDER BY created_at ASC
`
	rows, err := s.pgPool.Query(ctx, selectTaskListsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select task lists")
		return nil, err
	}
	defer rows.Close()

	var lists []models.TaskList
	for rows.Next() {
		var list models.TaskList
		err = rows.Scan(
			&list.ID,
			&list.Name,
			&list.Description,
			&list.Color,
			&list.CreatedAt,
			&list.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task list")
			return nil, err
		}
		lists = append(lists, list)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return lists, nil
}

func (s *taskListServiceImpl) Create(ctx context.Context, params CreateTaskListParams) (*models.TaskList, error) {
	listUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task list uuid")
		return nil, err
	}

	now := time.Now()
	list := models.TaskList{
		ID:          listUUID.String(),
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if list.Color == "" {
		list.Color = models.DefaultListColor
	}

	const insertTaskListQuery = `
INSERT INTO task_lists (id,
                        name,
                        description,
                        color,
                        created_at,
                        updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskListQuery,
		list.ID,
		list.Name,
		list.Description,
		list.Color,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task list")
		return nil, err
	}

	s.logger.Info().
		Str("list_id", list.ID).
		Str("name", list.Name).
		Msg("created task list")
	return &list, nil
}

func (s *taskListServiceImpl) Update(ctx context.Context, id string, params UpdateTaskListParams) (*models.TaskList, error) {
	const selectTaskListQuery = `
SELECT id,
       name,
       description,
       color,
       created_at,
       updated_at
FROM task_lists
WHERE id = $1
`
	var list models.TaskList
	err := s.pgPool.QueryRow(ctx, selectTaskListQuery, id).Scan(
		&list.ID,
		&list.Name,
		&list.Description,
		&list.Color,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskListNotFound
		}

		s.logger.Error().
			Err(err).
			Str("list_id", id).
			Msg("failed to select task list")
		return nil, err
	}

	if params.Name != nil {
		list.Name = *params.Name
	}
	if params.Description != nil {
		list.Description = params.Description
	}
	if params.Color != nil {
		list.Color = *params.Color
	}
	list.UpdatedAt = time.Now()

	const updateTaskListQuery = `
UPDATE task_lists
SET name = $1,
    description = $2,
    color = $3,
    updated_at = $4
WHERE id = $5
`
	_, err = s.pgPool.Exec(
		ctx,
		updateTaskListQuery,
		list.Name,
		list.Description,
		list.Color,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", list.ID).
			Msg("failed to update task list")
		return nil, err
	}

	s.logger.Info().
		Str("list_id", list.ID).
		Msg("updated task list")
	return &list, nil
}

func (s *taskListServiceImpl) Delete(ctx context.Context, id string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Member tasks survive the list and lose only their grouping.
	const detachTasksQuery = `
UPDATE tasks
SET list_id = NULL,
    updated_at = $1
WHERE list_id = $2
`
	tag, err := tx.Exec(ctx, detachTasksQuery, time.Now(), id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", id).
			Msg("failed to detach tasks from list")
		return err
	}
	s.logger.Debug().
		Str("list_id", id).
		Int64("affected", tag.RowsAffected()).
		Msg("detached tasks from list")

	const deleteTaskListQuery = `
DELETE FROM task_lists
       WHERE id = $1
`
	tag, err = tx.Exec(ctx, deleteTaskListQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("list_id", id).
			Msg("failed to delete task list")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskListNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("list_id", id).
		Msg("deleted task list")
	return nil
}
