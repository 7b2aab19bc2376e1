package play

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/screen/screentest"
	"github.com/odysseyquest/odyssey/internal/screens/placeholder"
	"github.com/odysseyquest/odyssey/internal/screens/summary"
)

type brokenGenerator struct{}

func (brokenGenerator) GenerateLesson(context.Context, content.LessonRequest) (*content.Lesson, error) {
	return nil, errors.New("offline")
}

func (brokenGenerator) GenerateQuestions(context.Context, content.QuestionRequest) ([]content.Question, error) {
	return nil, errors.New("offline")
}

// started returns a screen with its questions loaded.
func started(t *testing.T, env *screentest.Env, id string) *PlayScreen {
	t.Helper()
	p := New(env.Services, id)
	cmd := p.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	if _, next := p.Update(cmd()); next == nil {
		t.Fatal("expected the timer to start")
	}
	if st := p.session.Snapshot().State; st != game.StatePlaying {
		t.Fatalf("state = %s, want playing", st)
	}
	return p
}

func answerKey(q *content.Question) tea.KeyPressMsg {
	return screentest.Key(strconv.Itoa(q.Answer + 1))
}

func TestFullGameReachesSummary(t *testing.T) {
	env := screentest.New(t)
	env.WithUser(t, "Ada", 7)
	p := started(t, env, "math-quiz")

	total := p.session.Snapshot().Total
	if total != env.Config.Game.QuestionCount {
		t.Fatalf("total = %d, want %d", total, env.Config.Game.QuestionCount)
	}

	var last []tea.Msg
	for i := range total {
		q := p.session.Snapshot().Question
		_, cmd := p.Update(answerKey(q))
		if p.feedback == nil || !p.feedback.Correct {
			t.Fatalf("question %d: expected correct feedback", i)
		}
		if !strings.Contains(p.View(100, 30), "Correct!") && !strings.Contains(p.View(100, 30), "in a row") {
			t.Errorf("question %d: feedback not rendered", i)
		}
		_, cmd = p.Update(cmd())
		last = screentest.Collect(cmd)
	}

	var sum screen.Screen
	for _, m := range last {
		if r, ok := m.(router.ReplaceScreenMsg); ok {
			sum = r.Screen
		}
	}
	if _, ok := sum.(*summary.SummaryScreen); !ok {
		t.Fatalf("expected summary screen, got %T", sum)
	}

	coins, err := env.Learner.Coins(context.Background())
	if err != nil {
		t.Fatalf("Coins: %v", err)
	}
	if want := total * 10; coins != want {
		t.Errorf("coins = %d, want %d", coins, want)
	}
}

func TestTimeoutShowsFeedback(t *testing.T) {
	env := screentest.New(t)
	p := started(t, env, "math-quiz")

	for range 29 {
		p.Update(timerTickMsg{gen: p.gen})
	}
	if p.feedback != nil {
		t.Fatal("feedback before the timer ran out")
	}
	p.Update(timerTickMsg{gen: p.gen})
	if p.feedback == nil || !p.feedback.TimedOut || p.feedback.Correct {
		t.Fatalf("feedback = %+v, want a timeout", p.feedback)
	}
	if !strings.Contains(p.View(100, 30), "Time's up") {
		t.Error("timeout not rendered")
	}
	if s := p.session.Snapshot(); s.Streak != 0 || s.Index != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	env := screentest.New(t)
	p := started(t, env, "math-quiz")
	before := p.session.Snapshot().TimeLeft
	if _, cmd := p.Update(timerTickMsg{gen: p.gen - 1}); cmd != nil {
		t.Error("stale tick should not reschedule")
	}
	if got := p.session.Snapshot().TimeLeft; got != before {
		t.Errorf("TimeLeft = %d, want %d", got, before)
	}
}

func TestTimerPausedDuringFeedback(t *testing.T) {
	env := screentest.New(t)
	p := started(t, env, "math-quiz")
	p.Update(answerKey(p.session.Snapshot().Question))
	left := p.session.Snapshot().TimeLeft
	p.Update(timerTickMsg{gen: p.gen})
	if got := p.session.Snapshot().TimeLeft; got != left {
		t.Errorf("TimeLeft = %d during feedback, want %d", got, left)
	}
}

func TestComingSoonReplacesWithPlaceholder(t *testing.T) {
	env := screentest.New(t)
	p := New(env.Services, "history-rpg")
	msg, ok := p.Init()().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("screen = %T, want placeholder", msg.Screen)
	}
	env.Voice.Wait()
	if len(env.Speech.Lines()) == 0 {
		t.Error("expected a spoken coming-soon notice")
	}
}

func TestLoadFailureAndRetry(t *testing.T) {
	env := screentest.New(t)
	env.Content = brokenGenerator{}
	p := New(env.Services, "math-quiz")
	p.Update(p.Init()())

	if !strings.Contains(p.View(100, 30), game.LoadFailedMessage) {
		t.Error("expected the load failure message")
	}
	if p.CapturesEscape() {
		t.Error("Esc should leave a failed game")
	}

	env.Content = content.NewTemplateGenerator(content.TemplateConfig{})
	_, cmd := p.Update(screentest.Key("r"))
	if cmd == nil {
		t.Fatal("retry should fetch again")
	}
}

func TestQuitConfirm(t *testing.T) {
	env := screentest.New(t)
	p := started(t, env, "science-trivia")

	if !p.CapturesEscape() {
		t.Fatal("a running game should capture Esc")
	}
	p.Update(screentest.Key("esc"))
	if !p.confirmQuit {
		t.Fatal("expected quit prompt")
	}
	p.Update(screentest.Key("n"))
	if p.confirmQuit {
		t.Fatal("n should dismiss the prompt")
	}

	p.Update(screentest.Key("esc"))
	_, cmd := p.Update(screentest.Key("y"))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if st := p.session.Snapshot().State; st != game.StateIdle {
		t.Errorf("state = %s, want idle", st)
	}
}

func TestVoiceTranscript(t *testing.T) {
	tests := []struct {
		name        string
		text        func(q *content.Question) string
		err         error
		wantCorrect bool
		wantNote    string
	}{
		{"match", func(q *content.Question) string { return "I think " + q.CorrectOption() }, nil, true, ""},
		{"no match", func(*content.Question) string { return "zzz" }, nil, false, noteNoMatch},
		{"failure", func(*content.Question) string { return "" }, errors.New("mic"), false, noteFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := screentest.New(t)
			p := started(t, env, "math-quiz")
			q := p.session.Snapshot().Question

			if _, cmd := p.Update(screentest.Key("v")); cmd == nil {
				t.Fatal("v should start listening")
			}
			if !p.listening || p.CapturingText() {
				t.Fatalf("listening = %v, typing = %v", p.listening, p.typing)
			}

			p.Update(transcriptMsg{questionID: q.ID, text: tt.text(q), err: tt.err})
			if got := p.feedback != nil && p.feedback.Correct; got != tt.wantCorrect {
				t.Errorf("correct = %v, want %v", got, tt.wantCorrect)
			}
			if p.note != tt.wantNote {
				t.Errorf("note = %q, want %q", p.note, tt.wantNote)
			}
			if p.listening {
				t.Error("listening should stop after a transcript")
			}
		})
	}
}

func TestTypedVoiceInput(t *testing.T) {
	env := screentest.New(t)
	var sent strings.Builder
	env.VoiceInput = &sent
	p := started(t, env, "math-quiz")

	p.Update(screentest.Key("v"))
	if !p.CapturingText() {
		t.Fatal("typed voice input should capture text")
	}
	for _, m := range screentest.Type("four") {
		p.Update(m)
	}
	_, cmd := p.Update(screentest.Key("enter"))
	if p.CapturingText() {
		t.Error("input should close after Enter")
	}
	if msg, ok := cmd().(voiceSentMsg); !ok || msg.err != nil {
		t.Fatalf("unexpected %#v", msg)
	}
	if sent.String() != "four\n" {
		t.Errorf("sent %q", sent.String())
	}
}
