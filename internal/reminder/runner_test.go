package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type fakeProjectStore struct {
	services.ProjectService
	projects []models.Project
}

func (f *fakeProjectStore) List(_ context.Context, filter services.ProjectFilter) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if filter.Priority != "" && p.Priority != filter.Priority {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeTaskStore struct {
	services.TaskService
	tasks []models.Task
}

func (f *fakeTaskStore) List(_ context.Context, _ services.TaskFilter) ([]models.Task, error) {
	return f.tasks, nil
}

type fakeTeamStore struct {
	members []models.TeamMember
}

func (f *fakeTeamStore) ListNotifiable(context.Context) ([]models.TeamMember, error) {
	return f.members, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.Session{}}
}

func (f *fakeSessionStore) GetOrCreate(_ context.Context, phone string) (*models.Session, error) {
	if s, ok := f.sessions[phone]; ok {
		copied := *s
		return &copied, nil
	}
	return &models.Session{
		PhoneNumber: phone,
		State:       models.SessionStateIdle,
		Context:     map[string]string{},
	}, nil
}

func (f *fakeSessionStore) Save(_ context.Context, session *models.Session) error {
	copied := *session
	f.sessions[session.PhoneNumber] = &copied
	return nil
}

type fakeSender struct {
	sent   []string
	failOn map[string]bool
}

func (f *fakeSender) Send(_ context.Context, to, _ string) error {
	if f.failOn[to] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, to)
	return nil
}

func members(phones ...string) []models.TeamMember {
	var out []models.TeamMember
	for _, p := range phones {
		out = append(out, models.TeamMember{PhoneNumber: p, WhatsAppEnabled: true})
	}
	return out
}

func newTestRunner(
	projects []models.Project,
	tasks []models.Task,
	team []models.TeamMember,
	sessions *fakeSessionStore,
	sender Sender,
	now time.Time,
) *Runner {
	r := NewRunner(
		zerolog.Nop(),
		&fakeProjectStore{projects: projects},
		&fakeTaskStore{tasks: tasks},
		&fakeTeamStore{members: team},
		sessions,
		sender,
		DefaultThresholds(),
		5,
	)
	r.now = func() time.Time { return now }
	return r
}

func TestRunner_unknownType(t *testing.T) {
	t.Parallel()
	r := newTestRunner(nil, nil, nil, newFakeSessionStore(), &fakeSender{}, time.Now())

	_, err := r.Run(context.Background(), "hourly")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}

func TestRunner_fanOutIsolatesFailures(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	due := projectAt(models.PrioritySuper, now.Add(-24*time.Hour))
	due.ID = "proj-1"

	sender := &fakeSender{failOn: map[string]bool{"15552": true}}
	sessions := newFakeSessionStore()
	r := newTestRunner(
		[]models.Project{due}, nil,
		members("15551", "15552", "15553"),
		sessions, sender, now,
	)

	result, err := r.Run(context.Background(), TypeSuperPriority)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sent != 2 || result.Failed != 1 {
		t.Fatalf("result = %+v, want Sent=2 Failed=1", result)
	}
	if len(sender.sent) != 2 || sender.sent[0] != "15551" || sender.sent[1] != "15553" {
		t.Fatalf("delivered to %v, want [15551 15553]", sender.sent)
	}
}

func TestRunner_superAlertArmsRecipientSessions(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	due := projectAt(models.PrioritySuper, now.Add(-24*time.Hour))
	due.ID = "proj-1"

	sessions := newFakeSessionStore()
	r := newTestRunner([]models.Project{due}, nil, members("15551"), sessions, &fakeSender{}, now)

	_, err := r.Run(context.Background(), TypeSuperPriority)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := sessions.sessions["15551"]
	if s == nil {
		t.Fatal("recipient session was not saved")
	}
	if s.State != models.SessionStateRespondingReminder {
		t.Fatalf("session state = %q, want responding_reminder", s.State)
	}
	if s.CurrentProjectID == nil || *s.CurrentProjectID != "proj-1" {
		t.Fatalf("session current project = %v, want proj-1", s.CurrentProjectID)
	}
}

func TestRunner_priorityDigestKeepsSessionsIdle(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	due := projectAt(models.PriorityPriority, now.Add(-72*time.Hour))

	sessions := newFakeSessionStore()
	r := newTestRunner([]models.Project{due}, nil, members("15551"), sessions, &fakeSender{}, now)

	result, err := r.Run(context.Background(), TypePriority)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sent != 1 {
		t.Fatalf("result = %+v, want Sent=1", result)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("digest without a project id must not touch sessions")
	}
}

func TestRunner_noRecipientsIsNoOp(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	due := projectAt(models.PrioritySuper, now.Add(-24*time.Hour))

	sender := &fakeSender{}
	r := newTestRunner([]models.Project{due}, nil, nil, newFakeSessionStore(), sender, now)

	result, err := r.Run(context.Background(), TypeSuperPriority)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want empty", result)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent to %v with no eligible recipients", sender.sent)
	}
}

func TestRunner_allCombinesSelectors(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	superDue := projectAt(models.PrioritySuper, now.Add(-24*time.Hour))
	superDue.ID = "proj-super"
	priorityDue := projectAt(models.PriorityPriority, now.Add(-72*time.Hour))
	priorityDue.ID = "proj-priority"

	dueToday := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{{Title: "Call back", DueDate: &dueToday, Status: models.TaskStatusPending}}

	sender := &fakeSender{}
	r := newTestRunner(
		[]models.Project{superDue, priorityDue}, tasks,
		members("15551"),
		newFakeSessionStore(), sender, now,
	)

	result, err := r.Run(context.Background(), TypeAll)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One super alert, one priority digest, one task digest.
	if result.Sent != 3 {
		t.Fatalf("result = %+v, want Sent=3", result)
	}
}
