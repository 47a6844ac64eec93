package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

const (
	TypeDailyDigest   = "daily_digest"
	TypeSuperPriority = "super_priority"
	TypePriority      = "priority"
	TypeNonPriority   = "non_priority"
	TypeTasks         = "tasks"
	TypeAll           = "all"
)

var ErrUnknownType = errors.New("unknown reminder type")

// Sender delivers one outbound message. Implemented by the Twilio
// client; faked in tests.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Result reports how one run went. A failed delivery to one
// recipient never blocks the rest, so Sent and Failed can both be
// non-zero.
type Result struct {
	Sent   int
	Failed int
}

func (r *Result) add(other Result) {
	r.Sent += other.Sent
	r.Failed += other.Failed
}

// Runner evaluates one reminder selector and fans the resulting
// digests out to every notification-eligible team member.
type Runner struct {
	logger   zerolog.Logger
	projects services.ProjectService
	tasks    services.TaskService
	team     services.TeamService
	sessions services.SessionService
	sender   Sender
	th       Thresholds
	cap      int
	now      func() time.Time
}

func NewRunner(
	logger zerolog.Logger,
	projects services.ProjectService,
	tasks services.TaskService,
	team services.TeamService,
	sessions services.SessionService,
	sender Sender,
	th Thresholds,
	digestCap int,
) *Runner {
	return &Runner{
		logger:   logger,
		projects: projects,
		tasks:    tasks,
		team:     team,
		sessions: sessions,
		sender:   sender,
		th:       th,
		cap:      digestCap,
		now:      time.Now,
	}
}

func (r *Runner) Run(ctx context.Context, reminderType string) (Result, error) {
	switch reminderType {
	case TypeDailyDigest:
		return r.runDailyDigest(ctx)
	case TypeSuperPriority:
		return r.runSuperPriority(ctx)
	case TypePriority:
		return r.runPriority(ctx)
	case TypeNonPriority:
		return r.runNonPriority(ctx)
	case TypeTasks:
		return r.runTasks(ctx)
	case TypeAll:
		var total Result
		for _, run := range []func(context.Context) (Result, error){
			r.runSuperPriority,
			r.runPriority,
			r.runTasks,
		} {
			result, err := run(ctx)
			if err != nil {
				return total, err
			}
			total.add(result)
		}
		return total, nil
	default:
		r.logger.Error().
			Str("type", reminderType).
			Msg("unknown reminder type")
		return Result{}, ErrUnknownType
	}
}

func (r *Runner) runDailyDigest(ctx context.Context) (Result, error) {
	projects, err := r.projects.List(ctx, services.ProjectFilter{})
	if err != nil {
		return Result{}, err
	}
	return r.fanOut(ctx, BuildDailyDigest(projects, r.now(), r.th, r.cap))
}

func (r *Runner) runSuperPriority(ctx context.Context) (Result, error) {
	projects, err := r.projects.List(ctx, services.ProjectFilter{Priority: models.PrioritySuper})
	if err != nil {
		return Result{}, err
	}

	var total Result
	for _, alert := range BuildSuperAlerts(projects, r.now(), r.th) {
		result, err := r.fanOut(ctx, alert)
		if err != nil {
			return total, err
		}
		total.add(result)
	}
	return total, nil
}

func (r *Runner) runPriority(ctx context.Context) (Result, error) {
	projects, err := r.projects.List(ctx, services.ProjectFilter{Priority: models.PriorityPriority})
	if err != nil {
		return Result{}, err
	}

	digest, ok := BuildPriorityFollowUps(projects, r.now(), r.th, r.cap)
	if !ok {
		return Result{}, nil
	}
	return r.fanOut(ctx, digest)
}

func (r *Runner) runNonPriority(ctx context.Context) (Result, error) {
	projects, err := r.projects.List(ctx, services.ProjectFilter{Priority: models.PriorityNonPriority})
	if err != nil {
		return Result{}, err
	}

	digest, ok := BuildNonPriorityNudge(projects, r.now(), r.th, r.cap)
	if !ok {
		return Result{}, nil
	}
	return r.fanOut(ctx, digest)
}

func (r *Runner) runTasks(ctx context.Context) (Result, error) {
	pending := false
	tasks, err := r.tasks.List(ctx, services.TaskFilter{Completed: &pending})
	if err != nil {
		return Result{}, err
	}

	digest, ok := BuildTaskReminders(tasks, r.now(), r.cap)
	if !ok {
		return Result{}, nil
	}
	return r.fanOut(ctx, digest)
}

// fanOut delivers one notification to every eligible recipient.
// An empty recipient set is a no-op, not an error. Per-recipient
// failures are logged and counted without aborting the rest.
func (r *Runner) fanOut(ctx context.Context, n Notification) (Result, error) {
	members, err := r.team.ListNotifiable(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(members) == 0 {
		r.logger.Warn().Msg("no team members with whatsapp enabled")
		return Result{}, nil
	}

	var result Result
	for _, member := range members {
		err = r.sender.Send(ctx, member.PhoneNumber, n.Body)
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("phone", member.PhoneNumber).
				Msg("failed to deliver reminder")
			result.Failed++
			continue
		}
		result.Sent++

		if n.ProjectID != "" {
			err = r.armSession(ctx, member.PhoneNumber, n.ProjectID)
			if err != nil {
				r.logger.Error().
					Err(err).
					Str("phone", member.PhoneNumber).
					Msg("failed to arm session for reminder reply")
			}
		}
	}

	r.logger.Info().
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("reminder fan-out finished")
	return result, nil
}

// armSession switches a recipient's session into responding_reminder
// so their next inbound message is read as a reply about this project.
func (r *Runner) armSession(ctx context.Context, phone, projectID string) error {
	session, err := r.sessions.GetOrCreate(ctx, phone)
	if err != nil {
		return err
	}

	session.State = models.SessionStateRespondingReminder
	session.Context = map[string]string{}
	session.CurrentProjectID = &projectID
	return r.sessions.Save(ctx, session)
}
