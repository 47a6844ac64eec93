package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/adanyl0v/pipe-tracker/internal/models"
)

func armedSessions(projectID string) *fakeSessions {
	sessions := newFakeSessions()
	sessions.sessions[testPhone] = &models.Session{
		PhoneNumber:      testPhone,
		State:            models.SessionStateRespondingReminder,
		Context:          map[string]string{},
		CurrentProjectID: &projectID,
	}
	return sessions
}

func TestReminderReply_doneMarksFollowedUp(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects(models.Project{ID: "p1", Customer: "Acme", Priority: models.PrioritySuper})
	sessions := armedSessions("p1")
	m := newTestMachine(projects, &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "done")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "Marked as followed up") {
		t.Fatalf("reply = %q", reply)
	}
	if len(projects.followedUp) != 1 || projects.followedUp[0] != "p1" {
		t.Fatalf("followedUp = %v, want [p1]", projects.followedUp)
	}
	if sessions.sessions[testPhone].State != models.SessionStateIdle {
		t.Fatal("session not reset after valid reply")
	}
}

func TestReminderReply_wonSetsStatusAndFollowsUp(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects(models.Project{ID: "p1", Customer: "Acme", QuoteAmount: 2_500_000})
	m := newTestMachine(projects, &fakeTasks{}, armedSessions("p1"), time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "WON")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "CONGRATULATIONS") || !strings.Contains(reply, "$2.50M") {
		t.Fatalf("reply = %q", reply)
	}
	if projects.statuses["p1"] != models.ProjectStatusWon {
		t.Fatalf("status = %q, want won", projects.statuses["p1"])
	}
	if len(projects.followedUp) != 1 {
		t.Fatal("won reply must also refresh the follow-up pivot")
	}
}

func TestReminderReply_lostSetsStatusOnly(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects(models.Project{ID: "p1", Customer: "Acme"})
	m := newTestMachine(projects, &fakeTasks{}, armedSessions("p1"), time.Now())

	_, err := m.HandleMessage(context.Background(), testPhone, "LOST")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if projects.statuses["p1"] != models.ProjectStatusLost {
		t.Fatalf("status = %q, want lost", projects.statuses["p1"])
	}
	if len(projects.followedUp) != 0 {
		t.Fatalf("followedUp = %v, want none", projects.followedUp)
	}
}

func TestReminderReply_skipLeavesProjectUntouched(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects(models.Project{ID: "p1", Customer: "Acme"})
	sessions := armedSessions("p1")
	m := newTestMachine(projects, &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "SKIP")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "remind you tomorrow") {
		t.Fatalf("reply = %q", reply)
	}
	if len(projects.followedUp) != 0 || len(projects.statuses) != 0 {
		t.Fatal("skip must not touch the project")
	}
	if sessions.sessions[testPhone].State != models.SessionStateIdle {
		t.Fatal("session not reset after skip")
	}
}

func TestReminderReply_unknownRepromptsAndKeepsState(t *testing.T) {
	t.Parallel()
	projects := newFakeProjects(models.Project{ID: "p1", Customer: "Acme"})
	sessions := armedSessions("p1")
	m := newTestMachine(projects, &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "maybe later")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "*DONE* | *CALL* | *WON* | *LOST* | *SKIP*") {
		t.Fatalf("reply = %q", reply)
	}

	s := sessions.sessions[testPhone]
	if s.State != models.SessionStateRespondingReminder {
		t.Fatalf("state = %q, reprompt must keep the session armed", s.State)
	}
	if s.CurrentProjectID == nil || *s.CurrentProjectID != "p1" {
		t.Fatal("reprompt must keep the project reference")
	}
}

func TestReminderReply_missingProjectResets(t *testing.T) {
	t.Parallel()
	sessions := armedSessions("gone")
	m := newTestMachine(newFakeProjects(), &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "DONE")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "Project not found") {
		t.Fatalf("reply = %q", reply)
	}
	if sessions.sessions[testPhone].State != models.SessionStateIdle {
		t.Fatal("session not reset for a vanished project")
	}
}

func TestReminderReply_noProjectReference(t *testing.T) {
	t.Parallel()
	sessions := newFakeSessions()
	sessions.sessions[testPhone] = &models.Session{
		PhoneNumber: testPhone,
		State:       models.SessionStateRespondingReminder,
		Context:     map[string]string{},
	}
	m := newTestMachine(newFakeProjects(), &fakeTasks{}, sessions, time.Now())

	reply, err := m.HandleMessage(context.Background(), testPhone, "DONE")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "No active reminder") {
		t.Fatalf("reply = %q", reply)
	}
	if sessions.sessions[testPhone].State != models.SessionStateIdle {
		t.Fatal("session not reset without a project reference")
	}
}
