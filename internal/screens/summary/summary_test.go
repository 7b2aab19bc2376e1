package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
)

func testResult() game.Result {
	g, _ := game.DefaultCatalog().Get("math-quiz")
	return game.Result{
		Game:       g,
		Score:      5,
		Total:      5,
		FinalScore: 1,
		BestStreak: 5,
		Difficulty: 7,
		Duration:   95 * time.Second,
		Outcome: rewards.Evaluate(rewards.Result{
			GameID: "math-quiz", Score: 5, Total: 5, BestStreak: 5,
		}),
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult(), nil)
	if s.Title() != "Game Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Game Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult(), nil).View(80, 24)
	for _, want := range []string{"Score: 5/5", "Final: 100%", "+50 coins", "Legendary", "Perfect Score", "Hot Streak", "1:35"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "could not be saved") {
		t.Error("unexpected save warning")
	}
}

func TestSummaryScreen_SaveWarning(t *testing.T) {
	view := New(testResult(), errors.New("disk full")).View(80, 24)
	if !strings.Contains(view, "could not be saved") {
		t.Error("expected a save warning")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		_, cmd := New(testResult(), nil).Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatalf("expected a command for key %q", code)
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("key %q: expected PopScreenMsg", code)
		}
	}
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return "" }

func TestSummaryScreen_Replay(t *testing.T) {
	s := New(testResult(), nil)
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("replay should be off by default")
	}

	s.WithReplay(func() screen.Screen { return &stubScreen{} })
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a replay command")
	}
	if msg, ok := cmd().(router.ReplaceScreenMsg); !ok || msg.Screen == nil {
		t.Errorf("expected ReplaceScreenMsg, got %#v", msg)
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
