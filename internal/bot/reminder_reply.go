package bot

import (
	"context"
	"errors"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

const reminderVocabulary = "Reply with: *DONE* | *CALL* | *WON* | *LOST* | *SKIP*"

// handleReminderReply interprets the next inbound message as a
// response to the project alert that armed this session. Anything
// outside the fixed vocabulary reprompts without changing state.
func (m *Machine) handleReminderReply(ctx context.Context, session *models.Session, command string) (string, error) {
	if session.CurrentProjectID == nil {
		resetToIdle(session)
		return "No active reminder. Type *URGENT* to see overdue projects.", nil
	}

	project, err := m.projects.GetByID(ctx, *session.CurrentProjectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			resetToIdle(session)
			return "Project not found.", nil
		}
		return "", err
	}

	var reply string
	switch command {
	case "DONE", "YES":
		err = m.projects.MarkFollowedUp(ctx, project.ID, m.now())
		reply = "✅ Marked as followed up!\n\n*" + project.Customer + "* updated."
	case "CALL":
		err = m.projects.MarkFollowedUp(ctx, project.ID, m.now())
		reply = "📞 Great! Good luck with " + project.Customer + "!"
	case "WON":
		err = m.projects.SetStatus(ctx, project.ID, models.ProjectStatusWon)
		if err == nil {
			err = m.projects.MarkFollowedUp(ctx, project.ID, m.now())
		}
		reply = "🎉🎉🎉 *CONGRATULATIONS!*\n\nDeal closed with " + project.Customer +
			"!\nValue: $" + reminder.FormatAmount(project.QuoteAmount)
	case "LOST":
		err = m.projects.SetStatus(ctx, project.ID, models.ProjectStatusLost)
		reply = "😔 " + project.Customer + " marked as lost."
	case "SKIP":
		reply = "⏰ OK, I'll remind you tomorrow about " + project.Customer + "."
	default:
		// Unrecognized reply: keep the session armed and reprompt.
		return reminderVocabulary, nil
	}
	if err != nil {
		return "", err
	}

	resetToIdle(session)
	return reply, nil
}
