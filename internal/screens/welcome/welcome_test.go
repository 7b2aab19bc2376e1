package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for range n {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(100, 30), Tagline) {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 5)
	if w.elapsed != phase1End {
		t.Errorf("elapsed = %v, want %v", w.elapsed, phase1End)
	}

	sendTicks(w, 10)
	if !strings.Contains(w.View(100, 30), Tagline) {
		t.Error("tagline should be visible after phase 2")
	}
}

func TestElapsedCapped(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 60)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
	if *calls != 0 {
		t.Errorf("next called %d times without a keypress", *calls)
	}
}

func TestKeypressSkipsAhead(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg with a screen, got %#v", msg)
	}
	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
}

func TestTransitionOnce(t *testing.T) {
	w, calls := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("ticks should stop after transition")
	}
}

func TestCompactBanner(t *testing.T) {
	if got := RenderBanner(40); !strings.Contains(got, "O D Y S S E Y") {
		t.Errorf("narrow banner = %q", got)
	}
}
