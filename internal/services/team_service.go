package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

type teamServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTeamService(logger zerolog.Logger, pgPool *pgxpool.Pool) TeamService {
	return &teamServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *teamServiceImpl) ListNotifiable(ctx context.Context) ([]models.TeamMember, error) {
	const selectNotifiableQuery = `
SELECT id,
       name,
       phone_number,
       whatsapp_enabled,
       created_at
FROM team_members
WHERE whatsapp_enabled = TRUE
`
	rows, err := s.pgPool.Query(ctx, selectNotifiableQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select team members")
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		err = rows.Scan(
			&member.ID,
			&member.Name,
			&member.PhoneNumber,
			&member.WhatsAppEnabled,
			&member.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan team member")
			return nil, err
		}
		members = append(members, member)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return members, nil
}
