// Package analytics shows the learner's progress dashboard.
package analytics

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/insights"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

type dashboardMsg struct {
	tf   insights.Timeframe
	dash *insights.Dashboard
	err  error
}

// AnalyticsScreen renders an insights.Dashboard for one timeframe.
type AnalyticsScreen struct {
	svc    *screen.Services
	tf     int // index into insights.Timeframes
	dash   *insights.Dashboard
	errMsg string
	scroll components.Scroller
}

var _ screen.Screen = (*AnalyticsScreen)(nil)

// New creates an AnalyticsScreen showing the first timeframe.
func New(svc *screen.Services) *AnalyticsScreen {
	return &AnalyticsScreen{svc: svc}
}

func (s *AnalyticsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *AnalyticsScreen) timeframe() insights.Timeframe {
	return insights.Timeframes[s.tf]
}

func (s *AnalyticsScreen) load() tea.Cmd {
	tf := s.timeframe()
	svc := s.svc.Insights
	return func() tea.Msg {
		d, err := svc.Dashboard(context.Background(), tf)
		return dashboardMsg{tf: tf, dash: d, err: err}
	}
}

func (s *AnalyticsScreen) Title() string {
	return "Learning Analytics"
}

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Timeframe"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		if msg.tf != s.timeframe() {
			return s, nil
		}
		if msg.err != nil {
			s.errMsg = "Could not load your progress."
			return s, nil
		}
		s.errMsg = ""
		s.dash = msg.dash
		return s, nil

	case screen.ResumeMsg, screen.UserChangedMsg:
		return s, s.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "right", "tab", "l":
			s.tf = (s.tf + 1) % len(insights.Timeframes)
			return s, s.load()
		case "left", "shift+tab", "h":
			s.tf = (s.tf - 1 + len(insights.Timeframes)) % len(insights.Timeframes)
			return s, s.load()
		case "up", "k":
			s.scroll.Scroll(-1)
		case "down", "j":
			s.scroll.Scroll(1)
		}
	}
	return s, nil
}

func (s *AnalyticsScreen) renderTabs(width int) string {
	var tabs []string
	for i, tf := range insights.Timeframes {
		style := theme.Unselected
		if i == s.tf {
			style = theme.Selected.Underline(true)
		}
		tabs = append(tabs, style.Render(tf.DisplayName()))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "    "))
}

func card(label, value string) string {
	return theme.Card.Width(20).Align(lipgloss.Center).Render(
		theme.Subtitle.Render(label) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(value))
}

func (s *AnalyticsScreen) renderStats() string {
	sum := s.dash.Summary
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("⏱ Time studied", sum.TimeLabel()),
		card("📚 Lessons", fmt.Sprint(sum.LessonsCompleted)),
		card("🎮 Games", fmt.Sprint(sum.GamesPlayed)),
		card("📈 Improvement", sum.ImprovementLabel()),
	)
}

func (s *AnalyticsScreen) renderSubjects(width int) string {
	if len(s.dash.Performance) == 0 {
		return theme.Hint.Render("Play a game to see your subject progress.")
	}
	names := make([]string, 0, len(s.dash.Performance))
	for name := range s.dash.Performance {
		names = append(names, name)
	}
	slices.Sort(names)

	var lines []string
	for _, name := range names {
		label := curriculum.Subject(name).DisplayName()
		bar := components.NewProgressBar(label, float64(s.dash.Performance[name])/100, true, width)
		bar.LabelWidth = 10
		bar.Fill = theme.SubjectColor(name)
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}

func list(heading string, items []string, bullet string) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(heading) + "\n")
	for _, it := range items {
		b.WriteString("  " + bullet + " " + it + "\n")
	}
	return b.String()
}

func (s *AnalyticsScreen) View(width, height int) string {
	tabs := s.renderTabs(width)
	if s.errMsg != "" {
		return tabs + "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg))
	}
	if s.dash == nil {
		return tabs + "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Subtitle.Render("Loading your progress..."))
	}

	inner := min(width-4, 90)
	in := s.dash.Insights

	var b strings.Builder
	b.WriteString(s.renderStats() + "\n\n")
	b.WriteString(theme.Title.Render("Subject performance") + "\n")
	b.WriteString(s.renderSubjects(inner) + "\n\n")
	b.WriteString(list("💪 Strengths", in.Strengths, "•"))
	b.WriteString("\n")
	b.WriteString(list("🎯 To work on", in.Weaknesses, "•"))
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("🚀 Learning pace: ") + theme.Body.Render(in.LearningPace.DisplayName()) + "\n\n")
	b.WriteString(list("💡 Recommendations", in.Recommendations, "→"))

	s.scroll.SetContent(b.String(), false)
	body := s.scroll.View(max(3, height-3))
	return tabs + "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(inner).Render(body))
}
