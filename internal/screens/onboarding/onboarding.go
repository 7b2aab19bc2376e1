// Package onboarding creates the learner profile on first launch.
package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/avatar"
	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

// Languages offered at onboarding.
var Languages = []string{"English", "Hindi", "Spanish", "French"}

type step int

const (
	stepName step = iota
	stepDetails
	stepAvatar
)

type field int

const (
	fieldGrade field = iota
	fieldLanguage
)

type savedMsg struct {
	user learner.User
	err  error
}

// Screen walks through name, grade and language, then an avatar preview.
type Screen struct {
	svc    *screen.Services
	next   func() screen.Screen
	now    func() time.Time
	step   step
	name   components.TextInput
	grade  int
	lang   int
	field  field
	saving bool
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the onboarding flow. next builds the screen shown once the
// profile is saved.
func New(svc *screen.Services, next func() screen.Screen) *Screen {
	return &Screen{
		svc:   svc,
		next:  next,
		now:   time.Now,
		name:  components.NewTextInput("Your name", false, 30),
		grade: learner.DefaultGrade,
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.name.Init()
}

func (s *Screen) Title() string {
	return "Welcome"
}

// CapturingText reports whether the name field has focus.
func (s *Screen) CapturingText() bool {
	return s.step == stepName
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.step {
	case stepName:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}}
	case stepDetails:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Create avatar"},
			{Key: "Backspace", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start learning"},
			{Key: "Backspace", Description: "Back"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return s, s.handleSaved(msg)
	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch s.step {
		case stepName:
			return s, s.updateName(msg)
		case stepDetails:
			s.updateDetails(msg)
		case stepAvatar:
			return s, s.updateAvatar(msg)
		}
		return s, nil
	}
	if s.step == stepName {
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) updateName(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		if s.name.Value() == "" {
			s.errMsg = "Please enter your name."
			return nil
		}
		s.errMsg = ""
		s.step = stepDetails
		return nil
	}
	var cmd tea.Cmd
	s.name, cmd = s.name.Update(msg)
	return cmd
}

func (s *Screen) updateDetails(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k", "down", "j", "tab":
		if s.field == fieldGrade {
			s.field = fieldLanguage
		} else {
			s.field = fieldGrade
		}
	case "left", "h":
		s.shift(-1)
	case "right", "l":
		s.shift(1)
	case "enter":
		s.step = stepAvatar
	case "backspace":
		s.step = stepName
	}
}

func (s *Screen) shift(delta int) {
	if s.field == fieldGrade {
		s.grade = min(curriculum.MaxGrade, max(curriculum.MinGrade, s.grade+delta))
		return
	}
	s.lang = (s.lang + delta + len(Languages)) % len(Languages)
}

func (s *Screen) updateAvatar(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "backspace":
		s.step = stepDetails
	case "enter":
		s.saving = true
		s.errMsg = ""
		return s.save()
	}
	return nil
}

func (s *Screen) save() tea.Cmd {
	name := s.name.Value()
	u := learner.NewUser(name, s.grade, Languages[s.lang], avatar.Generate(name, s.grade), s.now())
	svc := s.svc
	return func() tea.Msg {
		saved, err := svc.Learner.SaveUser(context.Background(), u)
		return savedMsg{user: saved, err: err}
	}
}

func (s *Screen) handleSaved(msg savedMsg) tea.Cmd {
	s.saving = false
	if msg.err != nil {
		s.svc.Log().Error("save profile", zap.Error(msg.err))
		s.errMsg = "Could not save your profile. Please try again."
		return nil
	}
	s.svc.Log().Info("profile created",
		zap.String("user", msg.user.ID),
		zap.Int("grade", msg.user.Grade),
		zap.String("language", msg.user.Language))
	s.svc.Speak(fmt.Sprintf("Welcome to OdysseyQuest, %s!", msg.user.Name))

	next := s.next()
	return tea.Batch(
		func() tea.Msg { return screen.UserChangedMsg{} },
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

func (s *Screen) View(width, height int) string {
	var body string
	switch s.step {
	case stepName:
		body = theme.Title.Render("Welcome to OdysseyQuest!") + "\n\n" +
			theme.Body.Render("Let's create your learning profile. What's your name?") + "\n\n" +
			s.name.View()
	case stepDetails:
		body = theme.Title.Render("Tell us about yourself") + "\n\n" +
			s.option("Grade", fmt.Sprintf("Grade %d", s.grade), s.field == fieldGrade) + "\n" +
			s.option("Language", Languages[s.lang], s.field == fieldLanguage)
	case stepAvatar:
		body = theme.Title.Render("Your Avatar") + "\n\n" + s.avatarPreview()
	}

	body += "\n\n" + theme.Hint.Render(fmt.Sprintf("Step %d of 3", int(s.step)+1))
	if s.saving {
		body += "\n\n" + theme.Subtitle.Render("Saving your profile...")
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.ErrorText.Render(s.errMsg)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(min(width-4, 60)).Render(body))
}

func (s *Screen) option(label, value string, focused bool) string {
	style := theme.Unselected
	cursor := "  "
	if focused {
		style = theme.Selected
		cursor = "▸ "
	}
	return style.Render(fmt.Sprintf("%s%-10s ◂ %s ▸", cursor, label, value))
}

// avatarPreview draws the avatar colour and initial; the SVG itself is
// kept on the profile.
func (s *Screen) avatarPreview() string {
	name := s.name.Value()
	initial := "?"
	if r := []rune(name); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}
	badge := lipgloss.NewStyle().
		Background(lipgloss.Color(avatar.Color(name))).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(1, 3).
		Render(initial)
	return lipgloss.JoinHorizontal(lipgloss.Center, badge, "   ",
		theme.Body.Render(fmt.Sprintf("%s\nGrade %d · %s", name, s.grade, Languages[s.lang])))
}
