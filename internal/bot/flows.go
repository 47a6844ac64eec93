package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

// Step names for the add-project flow, in order.
const (
	stepCustomer     = "customer"
	stepManufacturer = "manufacturer"
	stepProjectName  = "project_name"
	stepQuoteAmount  = "quote_amount"
	stepPriority     = "priority"
	stepNotes        = "notes"
)

// Step names for the add-task flow.
const (
	stepTitle = "title"
	stepDue   = "due"
)

// projectDraft is the typed form of the add-project session context.
// It round-trips through the persisted string map so each step's
// fields stay statically known inside the flow.
type projectDraft struct {
	Step         string
	Customer     string
	Manufacturer string
	ProjectName  string
	QuoteAmount  float64
	Priority     string
}

func projectDraftFromContext(c map[string]string) projectDraft {
	amount, _ := strconv.ParseFloat(c["quote_amount"], 64)
	return projectDraft{
		Step:         c["step"],
		Customer:     c["customer"],
		Manufacturer: c["manufacturer"],
		ProjectName:  c["project_name"],
		QuoteAmount:  amount,
		Priority:     c["priority"],
	}
}

func (d projectDraft) toContext() map[string]string {
	c := map[string]string{"step": d.Step}
	if d.Customer != "" {
		c["customer"] = d.Customer
	}
	if d.Manufacturer != "" {
		c["manufacturer"] = d.Manufacturer
	}
	if d.ProjectName != "" {
		c["project_name"] = d.ProjectName
	}
	if d.QuoteAmount != 0 {
		c["quote_amount"] = strconv.FormatFloat(d.QuoteAmount, 'f', -1, 64)
	}
	if d.Priority != "" {
		c["priority"] = d.Priority
	}
	return c
}

type taskDraft struct {
	Step  string
	Title string
}

func taskDraftFromContext(c map[string]string) taskDraft {
	return taskDraft{
		Step:  c["step"],
		Title: c["title"],
	}
}

func (d taskDraft) toContext() map[string]string {
	c := map[string]string{"step": d.Step}
	if d.Title != "" {
		c["title"] = d.Title
	}
	return c
}

// advanceProjectFlow consumes one answer in the add-project
// sequence: customer, manufacturer, project name, quote amount,
// priority, notes. Free text is accepted verbatim; only presence is
// validated, and optional steps accept skip keywords.
func (m *Machine) advanceProjectFlow(ctx context.Context, session *models.Session, input string) (string, error) {
	draft := projectDraftFromContext(session.Context)

	switch draft.Step {
	case stepCustomer:
		if input == "" {
			return "Please send the *customer name* to continue.", nil
		}
		draft.Customer = input
		draft.Step = stepManufacturer
		session.Context = draft.toContext()
		return "✅ Customer: *" + input + "*\n\nWho is the *manufacturer/supplier*?\n(or *SKIP*)", nil

	case stepManufacturer:
		draft.Manufacturer = normalizeOptional(input)
		draft.Step = stepProjectName
		session.Context = draft.toContext()
		return "What's the *project name*?\n(or *SKIP*)", nil

	case stepProjectName:
		draft.ProjectName = normalizeOptional(input)
		draft.Step = stepQuoteAmount
		session.Context = draft.toContext()
		return "What's the *quote amount* in USD?\n\n(e.g., 500000 or 1.5M)", nil

	case stepQuoteAmount:
		draft.QuoteAmount = ParseAmount(input)
		draft.Step = stepPriority
		session.Context = draft.toContext()
		return "✅ Amount: *$" + reminder.FormatAmount(draft.QuoteAmount) + "*\n\n" +
			"What's the *priority*?\n\n" +
			"• *SUPER* - 12 hour follow-up\n" +
			"• *PRIORITY* - 2-3 day follow-up\n" +
			"• *NORMAL* - 5 day follow-up", nil

	case stepPriority:
		draft.Priority = parsePriority(input)
		draft.Step = stepNotes
		session.Context = draft.toContext()
		return "Any *notes*?\n(or *SKIP*)", nil

	case stepNotes:
		notes := normalizeOptional(input)

		project, err := m.projects.Create(ctx, services.CreateProjectParams{
			Customer:     draft.Customer,
			Manufacturer: optionalPtr(draft.Manufacturer),
			ProjectName:  optionalPtr(draft.ProjectName),
			QuoteAmount:  draft.QuoteAmount,
			Priority:     draft.Priority,
			Status:       models.ProjectStatusQuoted,
			Notes:        optionalPtr(notes),
		})
		if err != nil {
			return "", err
		}
		resetToIdle(session)

		var b strings.Builder
		b.WriteString("🎉 *Project Added!*\n\n")
		b.WriteString("📋 " + project.Customer + "\n")
		if project.Manufacturer != nil {
			b.WriteString("🏭 " + *project.Manufacturer + "\n")
		}
		b.WriteString("💰 $" + reminder.FormatAmount(project.QuoteAmount) + "\n")
		b.WriteString(reminder.PriorityEmoji(project.Priority) + " " + project.Priority + "\n\n")
		b.WriteString("I'll remind you based on priority!")
		return b.String(), nil

	default:
		resetToIdle(session)
		return "Something went wrong. Type *ADD* to start over.", nil
	}
}

// advanceTaskFlow consumes one answer in the add-task sequence:
// title, then due date.
func (m *Machine) advanceTaskFlow(ctx context.Context, session *models.Session, input string) (string, error) {
	draft := taskDraftFromContext(session.Context)

	switch draft.Step {
	case stepTitle:
		if input == "" {
			return "Please send the *task title* to continue.", nil
		}
		draft.Title = input
		draft.Step = stepDue
		session.Context = draft.toContext()
		return "✅ Task: *" + input + "*\n\nWhen is it due?\n\n" +
			"• *TODAY*\n• *TOMORROW*\n• *WEEK*\n" +
			"• Or type a date (Jan 25)\n• *SKIP* - No due date", nil

	case stepDue:
		now := m.now()
		dueDate := parseDueDate(input, now)

		task, err := m.tasks.Create(ctx, services.CreateTaskParams{
			Title:    draft.Title,
			DueDate:  dueDate,
			Priority: models.TaskPriorityNormal,
		})
		if err != nil {
			return "", err
		}
		resetToIdle(session)

		response := "🎉 *Task Added!*\n\n📝 " + task.Title
		if task.DueDate != nil {
			response += "\n📅 Due: " + reminder.FormatDueDate(*task.DueDate, now)
		}
		return response, nil

	default:
		resetToIdle(session)
		return "Something went wrong. Type *ADDTASK* to try again.", nil
	}
}

// normalizeOptional maps skip keywords and N/A spellings to the
// empty string; anything else passes through verbatim.
func normalizeOptional(input string) string {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "", "NA", "N/A", "NONE", "SKIP", "-":
		return ""
	}
	return strings.TrimSpace(input)
}

func optionalPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parsePriority(input string) string {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "SUPER":
		return models.PrioritySuper
	case "PRIORITY":
		return models.PriorityPriority
	default:
		return models.PriorityNonPriority
	}
}
