// Package home is the main menu shown after onboarding.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/screens/achievements"
	"github.com/odysseyquest/odyssey/internal/screens/analytics"
	"github.com/odysseyquest/odyssey/internal/screens/chat"
	"github.com/odysseyquest/odyssey/internal/screens/games"
	"github.com/odysseyquest/odyssey/internal/screens/history"
	"github.com/odysseyquest/odyssey/internal/screens/lesson"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
)

// Menu indexes.
const (
	itemGames = iota
	itemLessons
	itemTutor
	itemAnalytics
	itemAchievements
	itemHistory
	itemVoice
	itemQuit
)

type loadedMsg struct {
	user     *learner.User
	progress learner.Progress
	err      error
}

type voiceSavedMsg struct{ err error }

// HomeScreen greets the learner and links to every activity.
type HomeScreen struct {
	svc      *screen.Services
	menu     components.Menu
	user     *learner.User
	progress learner.Progress
	err      error
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. State is loaded by Init.
func New(svc *screen.Services) *HomeScreen {
	h := &HomeScreen{svc: svc}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	h.menu = components.NewMenu([]components.MenuItem{
		itemGames:        {Label: "🎮 Games", Action: push(func() screen.Screen { return games.New(svc) })},
		itemLessons:      {Label: "📖 Lessons", Action: push(func() screen.Screen { return lesson.New(svc) })},
		itemTutor:        {Label: "🤖 AI Tutor", Action: push(func() screen.Screen { return chat.New(svc) })},
		itemAnalytics:    {Label: "📊 Analytics", Action: push(func() screen.Screen { return analytics.New(svc) })},
		itemAchievements: {Label: "🏆 Achievements", Action: push(func() screen.Screen { return achievements.New(svc) })},
		itemHistory:      {Label: "🕘 Study History", Action: push(func() screen.Screen { return history.New(svc) })},
		itemVoice:        {Label: voiceLabel(svc.Voice != nil && svc.Voice.Enabled()), Action: h.toggleVoice},
		itemQuit:         {Label: "🚪 Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func voiceLabel(on bool) string {
	if on {
		return "🔊 Voice: On"
	}
	return "🔇 Voice: Off"
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	svc := h.svc.Learner
	return func() tea.Msg {
		ctx := context.Background()
		u, err := svc.User(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		p, err := svc.Progress(ctx)
		return loadedMsg{user: u, progress: p, err: err}
	}
}

// toggleVoice flips speech output and persists the preference.
func (h *HomeScreen) toggleVoice() tea.Cmd {
	if h.svc.Voice == nil {
		return nil
	}
	on := h.svc.Voice.Toggle()
	h.menu.Items[itemVoice].Label = voiceLabel(on)
	h.svc.Log().Info("voice toggled", zap.Bool("enabled", on))

	svc := h.svc.Learner
	return func() tea.Msg {
		_, err := svc.UpdatePreferences(context.Background(), learner.PreferencesUpdate{VoiceEnabled: learner.Ptr(on)})
		return voiceSavedMsg{err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.err = msg.err
		if msg.err != nil {
			h.svc.Log().Error("load home", zap.Error(msg.err))
			return h, nil
		}
		h.user = msg.user
		h.progress = msg.progress
		return h, nil

	case voiceSavedMsg:
		if msg.err != nil {
			h.svc.Log().Warn("save voice preference", zap.Error(msg.err))
			return h, nil
		}
		return h, func() tea.Msg { return screen.UserChangedMsg{} }

	case screen.ResumeMsg, screen.UserChangedMsg:
		if h.svc.Voice != nil {
			h.menu.Items[itemVoice].Label = voiceLabel(h.svc.Voice.Enabled())
		}
		return h, h.load()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := contentWidth(width)

	var name string
	var coins, logins int
	if h.user != nil {
		name, coins, logins = h.user.Name, h.user.Coins, h.user.TotalLogins
	}
	overall := h.progress.OverallPerformance()
	played := h.progress.TotalGames()

	sections := []string{renderTitle(cw)}
	if !compact {
		sections = append(sections, renderMascotBox(MascotFor(overall, played), cw))
	}
	sections = append(sections,
		renderGreeting(name, cw),
		renderStatsBar(coins, logins, played, cw, compact),
		renderOverall(overall, cw),
		renderMenu(h.menu.Items, h.menu.Selected, cw, compact),
	)
	if h.err != nil {
		sections = append(sections, "Could not load your progress.")
	}

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return renderFrame(strings.Join(sections, sep), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
