package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

var (
	up    = tea.KeyPressMsg{Code: tea.KeyUp}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	home  = tea.KeyPressMsg{Code: tea.KeyHome}
	end   = tea.KeyPressMsg{Code: tea.KeyEnd}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func press(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

type picked string

func TestMenuSkipsDisabledItems(t *testing.T) {
	act := func(name string) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return picked(name) } }
	}
	m := NewMenu([]MenuItem{
		{Label: "Soon", Disabled: true},
		{Label: "Games", Action: act("games")},
		{Label: "Later", Disabled: true},
		{Label: "Tutor", Action: act("tutor")},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(down)
	if m.Selected != 3 {
		t.Errorf("down selected %d, want 3", m.Selected)
	}
	m, _ = m.Update(down)
	if m.Selected != 3 {
		t.Errorf("down at the end moved to %d", m.Selected)
	}
	m, _ = m.Update(home)
	if m.Selected != 1 {
		t.Errorf("home selected %d, want 1", m.Selected)
	}
	m, _ = m.Update(up)
	if m.Selected != 1 {
		t.Errorf("up past the first enabled item moved to %d", m.Selected)
	}
	m, _ = m.Update(end)

	_, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	if got := cmd(); got != picked("tutor") {
		t.Errorf("enter ran %v, want tutor", got)
	}
	if v := m.View(); !strings.Contains(v, "▸") || !strings.Contains(v, "Tutor") {
		t.Errorf("view missing cursor:\n%s", v)
	}
}

func TestChoices(t *testing.T) {
	c := NewChoices([]string{"3", "4", "5"})

	c, got := c.Update(press('2'))
	if got != 1 || c.Selected != 1 {
		t.Errorf("number key picked %d (selected %d), want 1", got, c.Selected)
	}
	c, got = c.Update(press('9'))
	if got != -1 {
		t.Errorf("out of range number picked %d", got)
	}
	c, _ = c.Update(down)
	c, _ = c.Update(down)
	if c.Selected != 2 {
		t.Errorf("selection = %d, want clamp at 2", c.Selected)
	}
	if _, got = c.Update(enter); got != 2 {
		t.Errorf("enter picked %d, want 2", got)
	}

	c.Reveal(1, 2)
	if v := c.View(); strings.Contains(v, "▸") {
		t.Errorf("revealed view still shows the cursor:\n%s", v)
	}
}

func TestScroller(t *testing.T) {
	var s Scroller
	s.SetContent("a\nb\nc\nd\ne\n", true)

	if got := s.View(2); got != "d\ne" {
		t.Errorf("follow view = %q, want last two lines", got)
	}
	if !s.AtEnd(2) {
		t.Error("AtEnd after follow = false")
	}

	s.Scroll(-10)
	if got := s.View(2); got != "a\nb" {
		t.Errorf("view after scrolling past top = %q", got)
	}
	s.Scroll(1)
	if got := s.View(3); got != "b\nc\nd" {
		t.Errorf("view = %q", got)
	}
	if s.AtEnd(3) {
		t.Error("AtEnd in the middle = true")
	}

	s.Top()
	if got := s.View(0); got != "" {
		t.Errorf("zero-height view = %q", got)
	}
}
