package lesson

import (
	"context"
	"strings"
	"testing"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/screen/screentest"
)

func open(t *testing.T, env *screentest.Env) *LessonScreen {
	t.Helper()
	l := New(env.Services)
	l.Update(l.Init()())
	_, cmd := l.Update(screentest.Key("enter"))
	if l.phase != phaseLoading || cmd == nil {
		t.Fatal("enter should start generating")
	}
	l.Update(cmd())
	if l.phase != phaseReading {
		t.Fatalf("phase = %d, want reading", l.phase)
	}
	return l
}

func TestSelectionUsesProfile(t *testing.T) {
	env := screentest.New(t)
	env.WithUser(t, "Ada", 9)
	l := New(env.Services)
	l.Update(l.Init()())
	if l.grade != 9 {
		t.Errorf("grade = %d, want 9", l.grade)
	}

	l.Update(screentest.Key("right"))
	l.Update(screentest.Key("down"))
	l.Update(screentest.Key("left"))
	req := l.request()
	if req.Subject != "science" || req.Style != "reading" || req.Grade != 9 {
		t.Errorf("request = %+v", req)
	}
}

func TestOpenLesson(t *testing.T) {
	env := screentest.New(t)
	env.WithUser(t, "Ada", 6)
	l := open(t, env)

	view := l.View(100, 30)
	if !strings.Contains(view, "for Grade 6") {
		t.Errorf("lesson title missing from view")
	}
	if !strings.Contains(view, "Video online only") {
		t.Errorf("expected an uncached video")
	}
	env.Voice.Wait()
	if !env.Speech.Said("Starting Math lesson. Get ready to learn!") {
		t.Errorf("spoken = %v", env.Speech.Lines())
	}
}

func TestSaveAndComplete(t *testing.T) {
	env := screentest.New(t)
	l := open(t, env)
	ctx := context.Background()

	_, cmd := l.Update(screentest.Key("s"))
	l.Update(cmd())
	if !l.saved {
		t.Fatal("lesson should be marked saved")
	}
	offline, err := env.Learner.OfflineContent(ctx)
	if err != nil {
		t.Fatalf("OfflineContent: %v", err)
	}
	got, ok := offline[l.lesson.ID]
	if !ok || got.Kind != learner.KindLesson || got.Subject != "math" {
		t.Errorf("offline = %+v", offline)
	}

	_, cmd = l.Update(screentest.Key("d"))
	l.Update(cmd())
	if l.status != "Lesson completed!" {
		t.Errorf("status = %q", l.status)
	}
	env.Voice.Wait()
	if !env.Speech.Said("Great job completing the Math lesson!") {
		t.Errorf("spoken = %v", env.Speech.Lines())
	}
}

func TestToggleVideoCache(t *testing.T) {
	env := screentest.New(t)
	l := open(t, env)
	ctx := context.Background()
	id := l.lesson.VideoID

	_, cmd := l.Update(screentest.Key("c"))
	l.Update(cmd())
	videos, _ := env.Learner.CachedVideos(ctx)
	if _, ok := videos[id]; !ok {
		t.Fatalf("video %q not cached", id)
	}
	if !strings.Contains(l.View(100, 30), "available offline") {
		t.Error("view should show the cached video")
	}

	_, cmd = l.Update(screentest.Key("c"))
	l.Update(cmd())
	videos, _ = env.Learner.CachedVideos(ctx)
	if _, ok := videos[id]; ok {
		t.Error("video should be removed")
	}
}

func TestSaveFailure(t *testing.T) {
	env := screentest.New(t)
	l := open(t, env)
	env.KV.FailWith = context.DeadlineExceeded
	_, cmd := l.Update(screentest.Key("s"))
	l.Update(cmd())
	if l.saved || l.status != "Could not save the lesson." {
		t.Errorf("saved = %v, status = %q", l.saved, l.status)
	}
}

func TestNewLessonReturnsToSelect(t *testing.T) {
	env := screentest.New(t)
	l := open(t, env)
	l.Update(screentest.Key("n"))
	if l.phase != phaseSelect || l.lesson != nil {
		t.Error("n should return to subject selection")
	}
}
