package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/odysseyquest/odyssey/internal/screen/screentest"
	"github.com/odysseyquest/odyssey/internal/tutor"
)

type failingAssistant struct{}

func (failingAssistant) Reply(context.Context, string, tutor.Context) (*tutor.Reply, error) {
	return nil, errors.New("offline")
}

type capturingAssistant struct {
	message string
	ctx     tutor.Context
}

func (a *capturingAssistant) Reply(_ context.Context, message string, c tutor.Context) (*tutor.Reply, error) {
	a.message = message
	a.ctx = c
	return &tutor.Reply{Response: "Algebra uses letters for numbers.", FollowUps: []string{"Want an example?"}}, nil
}

func start(t *testing.T, env *screentest.Env) *ChatScreen {
	t.Helper()
	c := New(env.Services)
	c.Update(c.loadProfile())
	return c
}

func typeText(c *ChatScreen, s string) {
	for _, msg := range screentest.Type(s) {
		c.Update(msg)
	}
}

func TestWelcomeUsesName(t *testing.T) {
	env := screentest.New(t)
	env.WithUser(t, "Ada", 7)
	c := start(t, env)

	if len(c.messages) != 1 || c.messages[0].text != tutor.WelcomeMessage("Ada") {
		t.Fatalf("messages = %+v", c.messages)
	}
	if !c.CapturingText() {
		t.Error("chat should capture text")
	}
	if !strings.Contains(c.View(100, 30), "Hi Ada!") {
		t.Error("welcome missing from view")
	}
}

func TestSendPassesContext(t *testing.T) {
	env := screentest.New(t)
	env.WithUser(t, "Ada", 8)
	a := &capturingAssistant{}
	env.Tutor = a
	c := start(t, env)

	typeText(c, "what is algebra")
	_, cmd := c.Update(screentest.Key("enter"))
	if cmd == nil || !c.thinking {
		t.Fatal("enter should send the question")
	}
	if c.input.Value() != "" {
		t.Errorf("input not cleared: %q", c.input.Value())
	}
	if !strings.Contains(c.View(100, 30), "Tutor is typing...") {
		t.Error("typing indicator missing")
	}

	c.Update(cmd())
	if a.message != "what is algebra" {
		t.Errorf("message = %q", a.message)
	}
	if a.ctx.Grade != 8 || a.ctx.Subject != "math" {
		t.Errorf("context = %+v", a.ctx)
	}
	if len(a.ctx.History) != 1 || a.ctx.History[0].FromLearner {
		t.Errorf("history = %+v, want only the welcome", a.ctx.History)
	}
	if c.thinking {
		t.Error("still thinking after reply")
	}
	last := c.messages[len(c.messages)-1]
	if last.text != "Algebra uses letters for numbers." || len(last.followUps) != 1 {
		t.Errorf("last = %+v", last)
	}
	env.Voice.Wait()
	if !env.Speech.Said("Algebra uses letters for numbers.") {
		t.Errorf("spoken = %v", env.Speech.Lines())
	}
}

func TestEmptyMessageNotSent(t *testing.T) {
	env := screentest.New(t)
	c := start(t, env)
	if _, cmd := c.Update(screentest.Key("enter")); cmd != nil {
		t.Error("empty input should not send")
	}
}

func TestReplyError(t *testing.T) {
	env := screentest.New(t)
	env.Tutor = failingAssistant{}
	c := start(t, env)

	typeText(c, "help")
	_, cmd := c.Update(screentest.Key("enter"))
	c.Update(cmd())
	if got := c.messages[len(c.messages)-1].text; got != tutor.ErrorMessage {
		t.Errorf("last message = %q", got)
	}
}

func TestQuickQuestionsCycle(t *testing.T) {
	env := screentest.New(t)
	c := start(t, env)

	c.Update(screentest.Key("tab"))
	if c.input.Value() != tutor.QuickQuestions[0] {
		t.Errorf("input = %q", c.input.Value())
	}
	c.Update(screentest.Key("tab"))
	if c.input.Value() != tutor.QuickQuestions[1] {
		t.Errorf("input = %q", c.input.Value())
	}
}

func TestTranslateLastReply(t *testing.T) {
	env := screentest.New(t)
	u := env.WithUser(t, "Ada", 7)
	u.Language = "Spanish"
	if _, err := env.Learner.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	c := start(t, env)

	c.Update(screentest.Key("ctrl+t"))
	want := tutor.Translate(tutor.WelcomeMessage("Ada"), "Spanish")
	last := c.messages[len(c.messages)-1]
	if !last.translated || last.text != want {
		t.Errorf("last = %+v", last)
	}
	env.Voice.Wait()
	if !env.Speech.Said(want) {
		t.Errorf("spoken = %v", env.Speech.Lines())
	}

	// The translation is not part of the history sent to the tutor.
	if n := len(c.history()); n != 1 {
		t.Errorf("history has %d turns, want 1", n)
	}
}
