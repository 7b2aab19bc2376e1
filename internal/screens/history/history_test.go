package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/screen/screentest"
)

func session(subject string, minutesAgo int, score float64) learner.StudySession {
	return learner.StudySession{
		Subject:   subject,
		Duration:  95,
		Score:     score,
		Timestamp: screentest.Epoch.Add(-time.Duration(minutesAgo) * time.Minute),
	}
}

func TestSessionsNewestFirst(t *testing.T) {
	p := learner.Progress{Subjects: map[string]learner.SubjectProgress{
		"math":    {Sessions: []learner.StudySession{session("math", 30, 0.5), session("math", 5, 0.9)}},
		"science": {Sessions: []learner.StudySession{session("science", 10, 0.7)}},
	}}
	got := Sessions(p)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	order := []string{got[0].Subject, got[1].Subject, got[2].Subject}
	if order[0] != "math" || order[1] != "science" || order[2] != "math" {
		t.Errorf("order = %v", order)
	}
	if got[0].Score != 0.9 {
		t.Errorf("first score = %v, want the newest math session", got[0].Score)
	}
}

func TestSessionsCapped(t *testing.T) {
	var ss []learner.StudySession
	for i := range maxSessions + 10 {
		ss = append(ss, session("math", i, 0.5))
	}
	p := learner.Progress{Subjects: map[string]learner.SubjectProgress{"math": {Sessions: ss}}}
	if n := len(Sessions(p)); n != maxSessions {
		t.Errorf("len = %d, want %d", n, maxSessions)
	}
}

func TestHistoryView(t *testing.T) {
	env := screentest.New(t)
	ctx := context.Background()
	if _, err := env.Learner.RecordStudySession(ctx, "science", 95, 0.8); err != nil {
		t.Fatalf("RecordStudySession: %v", err)
	}

	s := New(env.Services)
	s.Update(s.Init()())
	view := s.View(100, 30)
	for _, want := range []string{"Science", "1:35", "80%", "Mar 09, 2026 10:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(screentest.Key("enter"))
	if !s.expanded[0] {
		t.Fatal("enter should expand the selected row")
	}
	if !strings.Contains(s.View(100, 30), "1:35 total") {
		t.Error("expanded row should show subject totals")
	}
}

func TestEmptyHistory(t *testing.T) {
	env := screentest.New(t)
	s := New(env.Services)
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "No study sessions yet") {
		t.Error("expected the empty message")
	}
	s.Update(screentest.Key("down"))
	if s.selected != 0 {
		t.Errorf("selected = %d on an empty list", s.selected)
	}
}
