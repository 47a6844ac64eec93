package bot

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/pipe-tracker/internal/models"
	"github.com/adanyl0v/pipe-tracker/internal/reminder"
	"github.com/adanyl0v/pipe-tracker/internal/services"
)

type fakeProjects struct {
	services.ProjectService
	projects   []models.Project
	created    []services.CreateProjectParams
	followedUp []string
	statuses   map[string]string
}

func newFakeProjects(projects ...models.Project) *fakeProjects {
	return &fakeProjects{projects: projects, statuses: map[string]string{}}
}

func (f *fakeProjects) List(_ context.Context, filter services.ProjectFilter) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if filter.Priority != "" && p.Priority != filter.Priority {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, services.ErrProjectNotFound
}

func (f *fakeProjects) Search(_ context.Context, query string, limit int) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if strings.Contains(strings.ToLower(p.Customer), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProjects) Create(_ context.Context, params services.CreateProjectParams) (*models.Project, error) {
	f.created = append(f.created, params)
	p := models.Project{
		ID:           "created-" + strconv.Itoa(len(f.created)),
		Customer:     params.Customer,
		Manufacturer: params.Manufacturer,
		ProjectName:  params.ProjectName,
		QuoteAmount:  params.QuoteAmount,
		Priority:     params.Priority,
		Status:       params.Status,
		Notes:        params.Notes,
	}
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeProjects) MarkFollowedUp(_ context.Context, id string, _ time.Time) error {
	f.followedUp = append(f.followedUp, id)
	return nil
}

func (f *fakeProjects) SetStatus(_ context.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

type fakeTasks struct {
	services.TaskService
	tasks     []models.Task
	created   []services.CreateTaskParams
	completed []string
}

func (f *fakeTasks) ListOpen(_ context.Context, limit int) ([]models.Task, error) {
	tasks := f.tasks
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (f *fakeTasks) Create(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	f.created = append(f.created, params)
	t := models.Task{
		ID:       "task-" + strconv.Itoa(len(f.created)),
		Title:    params.Title,
		DueDate:  params.DueDate,
		Priority: params.Priority,
		Status:   models.TaskStatusPending,
	}
	f.tasks = append(f.tasks, t)
	return &t, nil
}

func (f *fakeTasks) Complete(_ context.Context, id string, _ time.Time) (*models.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id {
			f.completed = append(f.completed, id)
			t.Status = models.TaskStatusCompleted
			return &t, nil
		}
	}
	return nil, services.ErrTaskNotFound
}

type fakeSessions struct {
	sessions map[string]*models.Session
	saves    int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*models.Session{}}
}

func (f *fakeSessions) GetOrCreate(_ context.Context, phone string) (*models.Session, error) {
	if s, ok := f.sessions[phone]; ok {
		copied := *s
		return &copied, nil
	}
	s := &models.Session{
		PhoneNumber: phone,
		State:       models.SessionStateIdle,
		Context:     map[string]string{},
	}
	f.sessions[phone] = s
	copied := *s
	return &copied, nil
}

func (f *fakeSessions) Save(_ context.Context, session *models.Session) error {
	copied := *session
	f.sessions[session.PhoneNumber] = &copied
	f.saves++
	return nil
}

func newTestMachine(projects *fakeProjects, tasks *fakeTasks, sessions *fakeSessions, now time.Time) *Machine {
	m := NewMachine(zerolog.Nop(), projects, tasks, sessions, reminder.DefaultThresholds())
	m.now = func() time.Time { return now }
	return m
}

const testPhone = "15551234"

func TestHandleMessage_addProjectFlow(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects()
	sessions := newFakeSessions()
	m := newTestMachine(projects, &fakeTasks{}, sessions, time.Now())
	ctx := context.Background()

	turns := []struct {
		send string
		want string
	}{
		{"ADD", "customer name"},
		{"Acme Pipe & Supply", "manufacturer/supplier"},
		{"Vallourec", "project name"},
		{"NA", "quote amount"},
		{"1.5M", "$1.50M"},
		{"SUPER", "notes"},
		{"SKIP", "🎉 *Project Added!*"},
	}
	for _, turn := range turns {
		reply, err := m.HandleMessage(ctx, testPhone, turn.send)
		if err != nil {
			t.Fatalf("HandleMessage(%q): %v", turn.send, err)
		}
		if !strings.Contains(reply, turn.want) {
			t.Fatalf("HandleMessage(%q) = %q, want substring %q", turn.send, reply, turn.want)
		}
	}

	if len(projects.created) != 1 {
		t.Fatalf("created %d projects, want 1", len(projects.created))
	}
	created := projects.created[0]
	if created.Customer != "Acme Pipe & Supply" {
		t.Errorf("customer = %q", created.Customer)
	}
	if created.Manufacturer == nil || *created.Manufacturer != "Vallourec" {
		t.Errorf("manufacturer = %v, want Vallourec", created.Manufacturer)
	}
	if created.ProjectName != nil {
		t.Errorf("project name = %q, want nil for skipped step", *created.ProjectName)
	}
	if created.QuoteAmount != 1_500_000 {
		t.Errorf("quote amount = %v, want 1500000", created.QuoteAmount)
	}
	if created.Priority != models.PrioritySuper {
		t.Errorf("priority = %q, want super", created.Priority)
	}
	if created.Notes != nil {
		t.Errorf("notes = %q, want nil for skipped step", *created.Notes)
	}

	s := sessions.sessions[testPhone]
	if s.State != models.SessionStateIdle {
		t.Fatalf("session state after flow = %q, want idle", s.State)
	}
	if len(s.Context) != 0 {
		t.Fatalf("session context after flow = %v, want empty", s.Context)
	}
}

func TestHandleMessage_addTaskFlow(t *testing.T) {
	t.Parallel()
	tasks := &fakeTasks{}
	sessions := newFakeSessions()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	m := newTestMachine(newFakeProjects(), tasks, sessions, now)
	ctx := context.Background()

	_, err := m.HandleMessage(ctx, testPhone, "ADDTASK")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	_, err = m.HandleMessage(ctx, testPhone, "Send revised quote")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	reply, err := m.HandleMessage(ctx, testPhone, "TOMORROW")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if !strings.Contains(reply, "🎉 *Task Added!*") || !strings.Contains(reply, "Tomorrow") {
		t.Fatalf("final reply = %q", reply)
	}
	if len(tasks.created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(tasks.created))
	}
	created := tasks.created[0]
	if created.Title != "Send revised quote" {
		t.Errorf("title = %q", created.Title)
	}
	wantDue := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	if created.DueDate == nil || !created.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", created.DueDate, wantDue)
	}
}

func TestHandleMessage_persistsStateEachTurn(t *testing.T) {
	t.Parallel()
	sessions := newFakeSessions()
	m := newTestMachine(newFakeProjects(), &fakeTasks{}, sessions, time.Now())

	_, err := m.HandleMessage(context.Background(), testPhone, "ADD")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if sessions.saves != 1 {
		t.Fatalf("saves = %d, want 1", sessions.saves)
	}
	s := sessions.sessions[testPhone]
	if s.State != models.SessionStateAddingProject {
		t.Fatalf("persisted state = %q, want adding_project", s.State)
	}
	if s.Context["step"] != stepCustomer {
		t.Fatalf("persisted step = %q, want %q", s.Context["step"], stepCustomer)
	}
	if s.LastMessageAt.IsZero() {
		t.Fatal("last message timestamp not stamped")
	}
}

func TestHandleMessage_unknownStepRecovers(t *testing.T) {
	t.Parallel()
	sessions := newFakeSessions()
	sessions.sessions[testPhone] = &models.Session{
		PhoneNumber: testPhone,
		State:       models.SessionStateAddingProject,
		Context:     map[string]string{"step": "bogus"},
	}
	m := newTestMachine(newFakeProjects(), &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "anything")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "start over") {
		t.Fatalf("reply = %q", reply)
	}
	if sessions.sessions[testPhone].State != models.SessionStateIdle {
		t.Fatal("session not reset after unknown step")
	}
}
