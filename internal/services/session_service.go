package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewSessionService(logger zerolog.Logger, pgPool *pgxpool.Pool) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const selectSessionQuery = `
SELECT phone_number,
       session_state,
       context,
       current_project_id,
       last_message_at
FROM whatsapp_sessions
WHERE phone_number = $1
`

func (s *sessionServiceImpl) GetOrCreate(ctx context.Context, phoneNumber string) (*models.Session, error) {
	session, err := s.getByPhone(ctx, phoneNumber)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	now := time.Now()
	session = &models.Session{
		PhoneNumber:   phoneNumber,
		State:         models.SessionStateIdle,
		Context:       map[string]string{},
		LastMessageAt: now,
	}

	const insertSessionQuery = `
INSERT INTO whatsapp_sessions (phone_number,
                               session_state,
                               context,
                               last_message_at)
VALUES ($1, $2, $3, $4)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertSessionQuery,
		session.PhoneNumber,
		session.State,
		session.Context,
		session.LastMessageAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Lost the race against a concurrent first message
			// from the same sender. The existing row wins.
			return s.getByPhone(ctx, phoneNumber)
		}

		s.logger.Error().
			Err(err).
			Str("phone", phoneNumber).
			Msg("failed to insert session")
		return nil, err
	}
	s.logger.Debug().
		Str("phone", phoneNumber).
		Msg("created session")
	return session, nil
}

func (s *sessionServiceImpl) Save(ctx context.Context, session *models.Session) error {
	session.LastMessageAt = time.Now()

	const updateSessionQuery = `
UPDATE whatsapp_sessions
SET session_state = $1,
    context = $2,
    current_project_id = $3,
    last_message_at = $4
WHERE phone_number = $5
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateSessionQuery,
		session.State,
		session.Context,
		session.CurrentProjectID,
		session.LastMessageAt,
		session.PhoneNumber,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("phone", session.PhoneNumber).
			Msg("failed to update session")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *sessionServiceImpl) getByPhone(ctx context.Context, phoneNumber string) (*models.Session, error) {
	var session models.Session
	err := s.pgPool.QueryRow(ctx, selectSessionQuery, phoneNumber).Scan(
		&session.PhoneNumber,
		&session.State,
		&session.Context,
		&session.CurrentProjectID,
		&session.LastMessageAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("phone", phoneNumber).
			Msg("failed to select session")
		return nil, err
	}
	if session.Context == nil {
		session.Context = map[string]string{}
	}
	return &session, nil
}
