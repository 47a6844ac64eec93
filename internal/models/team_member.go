package models

import "time"

// TeamMember is a notification recipient. Reminder jobs fan out to
// every member with WhatsApp enabled.
type TeamMember struct {
	ID              string
	Name            string
	PhoneNumber     string
	WhatsAppEnabled bool
	CreatedAt       time.Time
}
