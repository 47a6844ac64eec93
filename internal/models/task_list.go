package models

import "time"

const DefaultListColor = "#3b82f6"

type TaskList struct {
	ID          string
	Name        string
	Description *string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
