package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

const listingCap = 10

type commandHandler func(ctx context.Context, m *Machine, session *models.Session, arg string) (string, error)

// command matches a normalized inbound message either exactly
// against keywords or against "PREFIX <argument>" forms.
type command struct {
	keywords []string
	prefixes []string
	handler  commandHandler
}

// commandTable is checked in order; the first match wins. Anything
// that matches nothing falls through to the greeting + help text.
var commandTable = []command{
	{keywords: []string{"ADD", "NEW"}, handler: startAddProject},
	{keywords: []string{"TASK", "ADDTASK", "NEWTASK"}, handler: startAddTask},
	{keywords: []string{"LIST", "PROJECTS"}, handler: listProjects},
	{keywords: []string{"TASKS", "TODO"}, handler: listTasks},
	{keywords: []string{"URGENT", "OVERDUE"}, handler: listUrgent},
	{keywords: []string{"STATS", "SUMMARY"}, handler: pipelineStats},
	{keywords: []string{"FOCUS", "DAILY"}, handler: dailyFocus},
	{keywords: []string{"DUETASKS", "DUETODAY"}, handler: listDueTasks},
	{keywords: []string{"PRIORITY"}, handler: listPriorityTasks},
	{keywords: []string{"HELP", "MENU"}, handler: showHelp},
	{prefixes: []string{"SEARCH ", "FIND "}, handler: searchProjects},
	{prefixes: []string{"DONE "}, handler: completeTask},
}

func (m *Machine) dispatchCommand(ctx context.Context, session *models.Session, message string) (string, error) {
	for _, cmd := range commandTable {
		for _, kw := range cmd.keywords {
			if message == kw {
				return cmd.handler(ctx, m, session, "")
			}
		}
		for _, prefix := range cmd.prefixes {
			if strings.HasPrefix(message, prefix) {
				arg := strings.TrimSpace(strings.TrimPrefix(message, prefix))
				return cmd.handler(ctx, m, session, arg)
			}
		}
	}
	return "👋 Hi! I didn't understand that.\n\n" + helpMessage(), nil
}

func startAddProject(_ context.Context, _ *Machine, session *models.Session, _ string) (string, error) {
	session.State = models.SessionStateAddingProject
	session.Context = projectDraft{Step: stepCustomer}.toContext()
	return "📝 *Add New Project*\n\nLet's add a new project.\n\nWhat's the *customer name*?", nil
}

func startAddTask(_ context.Context, _ *Machine, session *models.Session, _ string) (string, error) {
	session.State = models.SessionStateAddingTask
	session.Context = taskDraft{Step: stepTitle}.toContext()
	return "📝 *Add New Task*\n\nWhat's the task?", nil
}

func listProjects(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	projects, err := m.projects.List(ctx, services.ProjectFilter{})
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "📋 No active projects.\n\nType *ADD* to add your first project!", nil
	}
	if len(projects) > listingCap {
		projects = projects[:listingCap]
	}

	var b strings.Builder
	b.WriteString("📋 *Your Projects (Top 10)*\n\n")
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s %s\n   $%s - %s\n\n",
			i+1, reminder.PriorityEmoji(p.Priority), p.Customer,
			reminder.FormatAmount(p.QuoteAmount), p.Status)
	}
	return b.String(), nil
}

func listUrgent(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	projects, err := m.projects.List(ctx, services.ProjectFilter{})
	if err != nil {
		return "", err
	}

	now := m.now()
	attention := reminder.FilterAttention(projects, now, m.th)
	if len(attention) == 0 {
		return "✅ *All caught up!*\n\nNo projects need immediate follow-up.", nil
	}
	if len(attention) > listingCap {
		attention = attention[:listingCap]
	}

	var b strings.Builder
	b.WriteString("🚨 *Projects Needing Attention*\n\n")
	for i, p := range attention {
		days := int(now.Sub(p.LastFollowUp).Hours() / 24)
		fmt.Fprintf(&b, "%d. %s *%s*\n   %d days since follow-up\n   💰 $%s\n\n",
			i+1, reminder.PriorityEmoji(p.Priority), p.Customer,
			days, reminder.FormatAmount(p.QuoteAmount))
	}
	return b.String(), nil
}

func pipelineStats(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	projects, err := m.projects.List(ctx, services.ProjectFilter{})
	if err != nil {
		return "", err
	}

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

	return fmt.Sprintf(
		"📊 *Pipeline Summary*\n\n🔴 Super Priority: %d projects\n🟡 Priority: %d projects\n💰 *Total: $%s*",
		superCount, priorityCount, reminder.FormatAmount(totalValue)), nil
}

func dailyFocus(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	projects, err := m.projects.List(ctx, services.ProjectFilter{Priority: models.PriorityNonPriority})
	if err != nil {
		return "", err
	}

	due := reminder.FilterDue(projects, models.PriorityNonPriority, m.now(), m.th)
	if len(due) == 0 {
		return "No non-priority projects to focus on today.", nil
	}
	if len(due) > listingCap {
		due = due[:listingCap]
	}

	var b strings.Builder
	b.WriteString("🎯 *Today's Focus*\n\n")
	for i, p := range due {
		fmt.Fprintf(&b, "%d. *%s*\n   $%s\n\n",
			i+1, p.Customer, reminder.FormatAmount(p.QuoteAmount))
	}
	return b.String(), nil
}

func listTasks(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	tasks, err := m.tasks.ListOpen(ctx, listingCap)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "✅ *All Tasks Complete!*\n\nType *ADDTASK* to create a new task.", nil
	}

	now := m.now()

	var b strings.Builder
	b.WriteString("📋 *Your Tasks*\n\n")
	for i, t := range tasks {
		dueText := "No due date"
		if t.DueDate != nil {
			dueText = reminder.FormatDueDate(*t.DueDate, now)
		}
		fmt.Fprintf(&b, "%d. %s\n   📅 %s\n\n", i+1, t.Title, dueText)
	}
	b.WriteString("Reply *DONE <number>* to complete one")
	return b.String(), nil
}

func listDueTasks(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	tasks, err := m.tasks.ListOpen(ctx, listingCap)
	if err != nil {
		return "", err
	}

	now := m.now()
	var due []models.Task
	for _, t := range tasks {
		switch reminder.TaskUrgency(t, now) {
		case reminder.UrgencyOverdue, reminder.UrgencyDueToday, reminder.UrgencyDueTomorrow:
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return "✅ *All caught up!*\n\nNo tasks due soon.", nil
	}

	var b strings.Builder
	b.WriteString("⏰ *Tasks Due*\n\n")
	for _, t := range due {
		fmt.Fprintf(&b, "%s %s\n", reminder.UrgencyEmoji(reminder.TaskUrgency(t, now)), t.Title)
	}
	return b.String(), nil
}

func listPriorityTasks(ctx context.Context, m *Machine, _ *models.Session, _ string) (string, error) {
	tasks, err := m.tasks.ListOpen(ctx, listingCap)
	if err != nil {
		return "", err
	}

	now := m.now()
	var priority []models.Task
	for _, t := range tasks {
		if t.Priority == models.TaskPriorityHigh || t.Priority == models.TaskPriorityUrgent {
			priority = append(priority, t)
		}
	}
	if len(priority) == 0 {
		return "✅ *No Priority Tasks!*", nil
	}

	var b strings.Builder
	b.WriteString("🎯 *Priority Tasks*\n\n")
	for _, t := range priority {
		fmt.Fprintf(&b, "%s *%s*\n\n", reminder.UrgencyEmoji(reminder.TaskUrgency(t, now)), t.Title)
	}
	return b.String(), nil
}

func searchProjects(ctx context.Context, m *Machine, _ *models.Session, query string) (string, error) {
	if query == "" {
		return "🔍 Type *SEARCH <customer or manufacturer>*", nil
	}

	projects, err := m.projects.Search(ctx, query, 5)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return fmt.Sprintf("🔍 No projects found for %q", query), nil
	}

	var b strings.Builder
	b.WriteString("🔍 *Search Results*\n\n")
	for i, p := range projects {
		manufacturer := "-"
		if p.Manufacturer != nil {
			manufacturer = *p.Manufacturer
		}
		fmt.Fprintf(&b, "%d. %s\n   %s - $%s\n\n",
			i+1, p.Customer, manufacturer, reminder.FormatAmount(p.QuoteAmount))
	}
	return b.String(), nil
}

// completeTask handles "DONE <n>": complete the n-th task as
// numbered by the TASKS listing.
func completeTask(ctx context.Context, m *Machine, _ *models.Session, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return "Type *DONE <number>* using a number from the *TASKS* list.", nil
	}

	tasks, err := m.tasks.ListOpen(ctx, listingCap)
	if err != nil {
		return "", err
	}
	if n > len(tasks) {
		return fmt.Sprintf("Only %d open tasks. Type *TASKS* to see them.", len(tasks)), nil
	}

	task, err := m.tasks.Complete(ctx, tasks[n-1].ID, m.now())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ *Done!*\n\n%s completed.", task.Title), nil
}

func showHelp(_ context.Context, _ *Machine, _ *models.Session, _ string) (string, error) {
	return helpMessage(), nil
}

func helpMessage() string {
	return "📱 *Pipe Tracker Commands*\n\n" +
		"*📋 PROJECTS*\n" +
		"• *ADD* - Add new project\n" +
		"• *LIST* - View projects\n" +
		"• *URGENT* - Overdue projects\n" +
		"• *STATS* - Pipeline summary\n" +
		"• *FOCUS* - Today's focus list\n" +
		"• *SEARCH <name>* - Search\n\n" +
		"*✅ TASKS*\n" +
		"• *TASKS* - View tasks\n" +
		"• *ADDTASK* - Add task\n" +
		"• *DONE <n>* - Complete task\n" +
		"• *PRIORITY* - Priority tasks\n" +
		"• *DUETASKS* - Due tasks"
}
