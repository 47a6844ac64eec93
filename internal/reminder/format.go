package reminder

import (
	"fmt"
	"math"
	"time"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

// FormatAmount abbreviates a dollar amount: millions with two
// decimals ("1.50M"), thousands rounded half away from zero to a
// whole number ("3K" for 2500), everything else as a plain integer.
func FormatAmount(amount float64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("%.2fM", amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%.0fK", math.Round(amount/1_000))
	default:
		return fmt.Sprintf("%.0f", amount)
	}
}

// FormatDueDate renders a task due date relative to now: "Today",
// "Tomorrow", "N days overdue", or a short month-day form.
func FormatDueDate(due, now time.Time) string {
	day := truncateToDay(due)
	today := truncateToDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case day.Before(today):
		days := int(today.Sub(day).Hours() / 24)
		if days == 1 {
			return "1 day overdue"
		}
		return fmt.Sprintf("%d days overdue", days)
	default:
		return day.Format("Jan 2")
	}
}

// PriorityEmoji is the marker used across digests and bot replies.
func PriorityEmoji(priority string) string {
	switch priority {
	case models.PrioritySuper:
		return "🔴"
	case models.PriorityPriority:
		return "🟡"
	default:
		return "🔵"
	}
}

func UrgencyEmoji(u Urgency) string {
	switch u {
	case UrgencyOverdue:
		return "🔴"
	case UrgencyDueToday:
		return "🟡"
	default:
		return "🔵"
	}
}
