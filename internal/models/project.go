package models

import "time"

const (
	PrioritySuper       = "super"
	PriorityPriority    = "priority"
	PriorityNonPriority = "non-priority"
)

const (
	ProjectStatusQuoted      = "quoted"
	ProjectStatusNegotiating = "negotiating"
	ProjectStatusActive      = "active"
	ProjectStatusWon         = "won"
	ProjectStatusLost        = "lost"
)

type Project struct {
	ID               string
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
	LastFollowUp     time.Time
	IsArchived       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
