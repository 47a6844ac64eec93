package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

// Notification is one outbound digest, addressed to every
// notification-eligible team member. ProjectID is set only for
// super-priority per-project alerts, whose recipients are switched
// into the responding_reminder session state.
type Notification struct {
	Body      string
	ProjectID string
}

// BuildDailyDigest renders the morning pipeline overview. Projects
// must already exclude archived rows.
func BuildDailyDigest(projects []models.Project, now time.Time, th Thresholds, cap int) Notification {
	var superCount, priorityCount int
	var totalValue float64
	for _, p := range projects {
		switch p.Priority {
		case models.PrioritySuper:
			superCount++
		case models.PriorityPriority:
			priorityCount++
		}
		totalValue += p.QuoteAmount
	}

	var b strings.Builder
	b.WriteString("☀️ *Good Morning! Daily Report*\n")
	b.WriteString("📅 " + now.Format("Monday, January 2") + "\n\n")
	b.WriteString("📊 *Pipeline Overview*\n")
	fmt.Fprintf(&b, "🔴 Super Priority: %d\n", superCount)
	fmt.Fprintf(&b, "🟡 Priority: %d\n", priorityCount)
	fmt.Fprintf(&b, "💰 *Total: $%s*\n", FormatAmount(totalValue))

	attention := FilterAttention(projects, now, th)
	if len(attention) > 0 {
		fmt.Fprintf(&b, "\n🚨 *Needs Attention (%d):*\n", len(attention))
		shown := attention
		if len(shown) > cap {
			shown = shown[:cap]
		}
		for _, p := range shown {
			b.WriteString("• " + p.Customer + "\n")
		}
		if rest := len(attention) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "...and %d more\n", rest)
		}
	}

	b.WriteString("\n💬 Reply *URGENT* for details")
	return Notification{Body: b.String()}
}

// BuildSuperAlerts renders one alert per overdue super-priority
// project. Each alert carries the project id so the dispatcher can
// arm the recipients' sessions for a reply.
func BuildSuperAlerts(projects []models.Project, now time.Time, th Thresholds) []Notification {
	due := FilterDue(projects, models.PrioritySuper, now, th)

	var alerts []Notification
	for _, p := range due {
		hours := int(now.Sub(p.LastFollowUp).Hours())

		var b strings.Builder
		b.WriteString("🔴 *SUPER PRIORITY ALERT*\n\n")
		b.WriteString("*" + p.Customer + "*\n")
		if p.Manufacturer != nil {
			b.WriteString(*p.Manufacturer + "\n")
		}
		fmt.Fprintf(&b, "💰 $%s\n\n", FormatAmount(p.QuoteAmount))
		fmt.Fprintf(&b, "⏰ *%d hours* since last follow-up\n\n", hours)
		b.WriteString("Reply: *DONE* | *CALL* | *WON* | *LOST* | *SKIP*")

		alerts = append(alerts, Notification{Body: b.String(), ProjectID: p.ID})
	}
	return alerts
}

// BuildPriorityFollowUps renders the medium-urgency digest. The
// second return value is false when nothing is due.
func BuildPriorityFollowUps(projects []models.Project, now time.Time, th Thresholds, cap int) (Notification, bool) {
	due := FilterDue(projects, models.PriorityPriority, now, th)
	if len(due) == 0 {
		return Notification{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🟡 *PRIORITY FOLLOW-UPS (%d)*\n\n", len(due))
	shown := due
	if len(shown) > cap {
		shown = shown[:cap]
	}
	for i, p := range shown {
		days := int(now.Sub(p.LastFollowUp).Hours() / 24)
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, p.Customer)
		fmt.Fprintf(&b, "   💰 $%s | %d days\n\n", FormatAmount(p.QuoteAmount), days)
	}
	if rest := len(due) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n\n", rest)
	}
	b.WriteString("Reply *URGENT* for full list")
	return Notification{Body: b.String()}, true
}

// BuildNonPriorityNudge renders the low-urgency reminder.
func BuildNonPriorityNudge(projects []models.Project, now time.Time, th Thresholds, cap int) (Notification, bool) {
	due := FilterDue(projects, models.PriorityNonPriority, now, th)
	if len(due) == 0 {
		return Notification{}, false
	}

	days := int(th.NonPriority.Hours() / 24)

	var b strings.Builder
	b.WriteString("🔵 *Non-Priority Reminder*\n\n")
	fmt.Fprintf(&b, "%d projects haven't been touched in %d+ days:\n\n", len(due), days)
	shown := due
	if len(shown) > cap {
		shown = shown[:cap]
	}
	for _, p := range shown {
		b.WriteString("• " + p.Customer + "\n")
	}
	if rest := len(due) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	b.WriteString("\nReply *FOCUS* to see today's focus list")
	return Notification{Body: b.String()}, true
}

// BuildTaskReminders renders overdue and due-today buckets.
func BuildTaskReminders(tasks []models.Task, now time.Time, cap int) (Notification, bool) {
	var overdue, dueToday []models.Task
	for _, t := range tasks {
		switch TaskUrgency(t, now) {
		case UrgencyOverdue:
			overdue = append(overdue, t)
		case UrgencyDueToday:
			dueToday = append(dueToday, t)
		}
	}
	if len(overdue) == 0 && len(dueToday) == 0 {
		return Notification{}, false
	}

	var b strings.Builder
	b.WriteString("✅ *Task Reminders*\n\n")

	remain := cap
	if len(overdue) > 0 {
		b.WriteString("🔴 *OVERDUE:*\n")
		for _, t := range overdue {
			if remain == 0 {
				break
			}
			b.WriteString("• " + t.Title + "\n")
			remain--
		}
		b.WriteString("\n")
	}
	if len(dueToday) > 0 && remain > 0 {
		b.WriteString("🟡 *DUE TODAY:*\n")
		for _, t := range dueToday {
			if remain == 0 {
				break
			}
			b.WriteString("• " + t.Title + "\n")
			remain--
		}
	}
	if rest := len(overdue) + len(dueToday) - (cap - remain); rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}

	b.WriteString("\nReply *TASKS* to manage")
	return Notification{Body: b.String()}, true
}
