// Package bot drives the per-sender WhatsApp dialogue: one inbound
// text message in, one reply out, with session state persisted
// between turns to support multi-step data entry.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type Machine struct {
	logger   zerolog.Logger
	projects services.ProjectService
	tasks    services.TaskService
	sessions services.SessionService
	th       reminder.Thresholds
	now      func() time.Time
}

func NewMachine(
	logger zerolog.Logger,
	projects services.ProjectService,
	tasks services.TaskService,
	sessions services.SessionService,
	th reminder.Thresholds,
) *Machine {
	return &Machine{
		logger:   logger,
		projects: projects,
		tasks:    tasks,
		sessions: sessions,
		th:       th,
		now:      time.Now,
	}
}

// HandleMessage runs one conversational turn. The session row is
// created lazily on first contact, the new state is persisted before
// the reply is returned, and the reply is what the caller should
// deliver to the sender.
func (m *Machine) HandleMessage(ctx context.Context, phone, text string) (string, error) {
	session, err := m.sessions.GetOrCreate(ctx, phone)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("phone", phone).
			Msg("failed to load session")
		return "", err
	}

	input := strings.TrimSpace(text)
	command := strings.ToUpper(input)

	var reply string
	switch session.State {
	case models.SessionStateAddingProject:
		reply, err = m.advanceProjectFlow(ctx, session, input)
	case models.SessionStateAddingTask:
		reply, err = m.advanceTaskFlow(ctx, session, input)
	case models.SessionStateRespondingReminder:
		reply, err = m.handleReminderReply(ctx, session, command)
	default:
		reply, err = m.dispatchCommand(ctx, session, command)
	}
	if err != nil {
		return "", err
	}

	session.LastMessageAt = m.now()
	err = m.sessions.Save(ctx, session)
	if err != nil {
		return "", err
	}

	m.logger.Info().
		Str("phone", phone).
		Str("state", session.State).
		Msg("handled message")
	return reply, nil
}

// resetToIdle clears all flow state on a session.
func resetToIdle(session *models.Session) {
	session.State = models.SessionStateIdle
	session.Context = map[string]string{}
	session.CurrentProjectID = nil
}
