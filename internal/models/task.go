package models

import "time"

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Task struct {
	ID          string
	Title       string
	Description *string
	// DueDate holds a calendar date without a time component.
	DueDate     *time.Time
	Priority    string
	Status      string
	ListID      *string
	ProjectID   *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
