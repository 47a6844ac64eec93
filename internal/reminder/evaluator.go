// Package reminder decides which projects and tasks are due for a
// follow-up notification and renders the decisions as WhatsApp digest
// text. It never sends anything itself; the Runner fans results out.
package reminder

import (
	"time"

	"github.com/adanyl0v/pipe-tracker/internal/config"
	"github.com/adanyl0v/pipe-tracker/internal/models"
)

// Thresholds holds the elapsed-time rules per priority class.
// Attention governs the looser "needs attention" view for
// non-priority projects; NonPriority governs the follow-up reminder.
type Thresholds struct {
	Super       time.Duration
	Priority    time.Duration
	NonPriority time.Duration
	Attention   time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Super:       12 * time.Hour,
		Priority:    48 * time.Hour,
		NonPriority: 120 * time.Hour,
		Attention:   168 * time.Hour,
	}
}

func ThresholdsFromConfig(cfg config.ReminderConfig) Thresholds {
	return Thresholds{
		Super:       cfg.SuperFollowUp,
		Priority:    cfg.PriorityFollowUp,
		NonPriority: cfg.NonPriorityFollowUp,
		Attention:   cfg.AttentionAfter,
	}
}

func (t Thresholds) followUpFor(priority string) time.Duration {
	switch priority {
	case models.PrioritySuper:
		return t.Super
	case models.PriorityPriority:
		return t.Priority
	default:
		return t.NonPriority
	}
}

func (t Thresholds) attentionFor(priority string) time.Duration {
	if priority == models.PriorityNonPriority {
		return t.Attention
	}
	return t.followUpFor(priority)
}

// DueForFollowUp reports whether a project's last follow-up is old
// enough to trigger a reminder. Archived projects are never due.
func DueForFollowUp(p models.Project, now time.Time, th Thresholds) bool {
	if p.IsArchived {
		return false
	}
	return now.Sub(p.LastFollowUp) >= th.followUpFor(p.Priority)
}

// NeedsAttention is the dashboard variant of DueForFollowUp: same
// rule for super and priority projects, a looser threshold for
// non-priority ones.
func NeedsAttention(p models.Project, now time.Time, th Thresholds) bool {
	if p.IsArchived {
		return false
	}
	return now.Sub(p.LastFollowUp) >= th.attentionFor(p.Priority)
}

// FilterDue returns the subset of projects in the given priority
// class that are due for a follow-up.
func FilterDue(projects []models.Project, priority string, now time.Time, th Thresholds) []models.Project {
	var due []models.Project
	for _, p := range projects {
		if p.Priority == priority && DueForFollowUp(p, now, th) {
			due = append(due, p)
		}
	}
	return due
}

// FilterAttention returns all non-archived projects past their
// attention threshold, regardless of class.
func FilterAttention(projects []models.Project, now time.Time, th Thresholds) []models.Project {
	var out []models.Project
	for _, p := range projects {
		if NeedsAttention(p, now, th) {
			out = append(out, p)
		}
	}
	return out
}

type Urgency string

const (
	UrgencyOverdue     Urgency = "overdue"
	UrgencyDueToday    Urgency = "due_today"
	UrgencyDueTomorrow Urgency = "due_tomorrow"
	UrgencyUpcoming    Urgency = "upcoming"
	UrgencyNone        Urgency = "none"
)

// TaskUrgency classifies a task against the current date. Tasks
// without a due date, and completed tasks, are never due.
func TaskUrgency(t models.Task, now time.Time) Urgency {
	if t.DueDate == nil || t.Status == models.TaskStatusCompleted {
		return UrgencyNone
	}

	today := truncateToDay(now)
	due := truncateToDay(*t.DueDate)
	switch {
	case due.Before(today):
		return UrgencyOverdue
	case due.Equal(today):
		return UrgencyDueToday
	case due.Equal(today.AddDate(0, 0, 1)):
		return UrgencyDueTomorrow
	default:
		return UrgencyUpcoming
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
