package models

import "time"

const (
	SessionStateIdle               = "idle"
	SessionStateAddingProject      = "adding_project"
	SessionStateAddingTask         = "adding_task"
	SessionStateRespondingReminder = "responding_reminder"
)

// Session tracks the conversational state of one WhatsApp sender,
// keyed by phone number. Context holds partially entered form fields
// while a multi-step flow is active.
type Session struct {
	PhoneNumber      string
	State            string
	Context          map[string]string
	CurrentProjectID *string
	LastMessageAt    time.Time
}
