package history

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

const maxSessions = 50

type historyLoadedMsg struct {
	Progress learner.Progress
	Err      error
}

// HistoryScreen lists recorded study sessions, newest first.
type HistoryScreen struct {
	svc      *screen.Services
	progress learner.Progress
	sessions []learner.StudySession
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *screen.Services) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc := s.svc.Learner
	return func() tea.Msg {
		p, err := svc.Progress(context.Background())
		return historyLoadedMsg{Progress: p, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Study History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Subject details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// Sessions flattens every subject's sessions, newest first, capped at
// maxSessions.
func Sessions(p learner.Progress) []learner.StudySession {
	var all []learner.StudySession
	for _, sp := range p.Subjects {
		all = append(all, sp.Sessions...)
	}
	slices.SortStableFunc(all, func(a, b learner.StudySession) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.Subject, b.Subject)
	})
	return all[:min(len(all), maxSessions)]
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = "Could not load your study history."
		} else {
			s.progress = msg.Progress
			s.sessions = Sessions(msg.Progress)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (s *HistoryScreen) subjectLine(subject string) string {
	sp := s.progress.Subjects[subject]
	return fmt.Sprintf("    %d games  best %.0f%%  average %.0f%%  %s total",
		sp.TotalGames, sp.BestScore*100, sp.AverageScore*100, formatDuration(sp.TotalTime))
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No study sessions yet. Play a game to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selected row on screen.
	rows := max(3, height-4)
	start := max(0, s.selected-rows+1)
	end := min(len(s.sessions), start+rows)

	for i := start; i < end; i++ {
		sess := s.sessions[i]
		subject := curriculum.Subject(sess.Subject)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s %-8s  %s  %3.0f%%",
			prefix, sess.Timestamp.Format("Jan 02, 2006 15:04"), subject.Icon(), subject.DisplayName(),
			formatDuration(sess.Duration), sess.Score*100)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.SubjectColor(sess.Subject)).
					Render(s.subjectLine(sess.Subject))))
			b.WriteString("\n")
		}
	}

	return b.String()
}
