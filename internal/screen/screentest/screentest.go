// Package screentest builds in-memory services and key messages for
// screen tests.
package screentest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/odysseyquest/odyssey/internal/config"
	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/insights"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/speech"
	"github.com/odysseyquest/odyssey/internal/store"
	"github.com/odysseyquest/odyssey/internal/tutor"
)

// Epoch is the fixed clock used by Services.
var Epoch = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

// Recorder is a speech.Speaker that keeps every line it is asked to say.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Speak(_ context.Context, text, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
	return nil
}

// Lines returns the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.lines)
}

// Said reports whether text was spoken.
func (r *Recorder) Said(text string) bool {
	return slices.Contains(r.Lines(), text)
}

// Env is a Services value backed by an in-memory store.
type Env struct {
	*screen.Services
	KV     *store.Memory
	Speech *Recorder
}

// New returns services with template content, a template tutor and a
// recording voice. No profile is saved.
func New(t testing.TB) *Env {
	t.Helper()
	kv := store.NewMemory()
	now := func() time.Time { return Epoch }
	svc := learner.New(kv, learner.WithClock(now))
	rec := &Recorder{}
	cfg := config.Default()
	cfg.Game.FeedbackDelay = 0
	return &Env{
		Services: &screen.Services{
			Config:   cfg,
			Learner:  svc,
			Content:  content.NewTemplateGenerator(content.TemplateConfig{}),
			Catalog:  game.DefaultCatalog(),
			Rewards:  rewards.NewService(svc, nil),
			Insights: insights.NewService(svc, nil, now),
			Tutor:    &tutor.TemplateAssistant{},
			Voice:    speech.NewVoice(rec, nil),
		},
		KV:     kv,
		Speech: rec,
	}
}

// WithUser saves a profile and returns it.
func (e *Env) WithUser(t testing.TB, name string, grade int) learner.User {
	t.Helper()
	u, err := e.Learner.SaveUser(context.Background(), learner.NewUser(name, grade, "", "", Epoch))
	if err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	return u
}

// Key returns the press message for a key name such as "enter", "up",
// "ctrl+t" or a single character.
func Key(name string) tea.KeyPressMsg {
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		return tea.KeyPressMsg{Code: []rune(rest)[0], Mod: tea.ModCtrl}
	}
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "pgup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Type returns one press per rune of s.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return msgs
}

// Collect runs cmd and flattens batches into their messages.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
