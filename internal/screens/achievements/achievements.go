// Package achievements is the trophy shelf.
package achievements

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

type loadedMsg struct {
	unlocked []learner.Achievement
	coins    int
	err      error
}

type tab int

const (
	tabUnlocked tab = iota
	tabLocked
)

// entry is one row of the trophy list.
type entry struct {
	id       rewards.AchievementID
	unlocked *learner.Achievement
}

// AchievementsScreen lists unlocked achievements and the ones still to earn.
type AchievementsScreen struct {
	svc          *screen.Services
	unlocked     []learner.Achievement
	coins        int
	tab          tab
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates an AchievementsScreen.
func New(svc *screen.Services) *AchievementsScreen {
	return &AchievementsScreen{svc: svc}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	svc := s.svc.Learner
	return func() tea.Msg {
		var msg loadedMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() (err error) {
			msg.unlocked, err = svc.CompletedAchievements(ctx)
			return err
		})
		g.Go(func() (err error) {
			msg.coins, err = svc.Coins(ctx)
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (s *AchievementsScreen) Title() string {
	return "Achievements"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Unlocked/Locked"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			s.svc.Log().Warn("load achievements failed", zap.Error(msg.err))
			s.errMsg = "Could not load your achievements."
		} else {
			s.unlocked = msg.unlocked
			s.coins = msg.coins
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right":
			s.tab = 1 - s.tab
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.entries())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

// entries returns the rows of the current tab. Unlocked rows keep the
// unlock order and include ids this build does not know about.
func (s *AchievementsScreen) entries() []entry {
	var list []entry
	if s.tab == tabLocked {
		for _, id := range s.locked() {
			list = append(list, entry{id: id})
		}
		return list
	}
	for i := range s.unlocked {
		a := &s.unlocked[i]
		list = append(list, entry{id: rewards.AchievementID(a.ID), unlocked: a})
	}
	return list
}

func (s *AchievementsScreen) locked() []rewards.AchievementID {
	have := make(map[string]bool, len(s.unlocked))
	for _, a := range s.unlocked {
		have[a.ID] = true
	}
	var out []rewards.AchievementID
	for _, id := range rewards.AllAchievements() {
		if !have[string(id)] {
			out = append(out, id)
		}
	}
	return out
}

func howToUnlock(id rewards.AchievementID) string {
	switch id {
	case rewards.PerfectScore:
		return "Answer every question in a game correctly"
	case rewards.HotStreak:
		return fmt.Sprintf("Get %d answers right in a row", rewards.HotStreakLength)
	default:
		return ""
	}
}

// detail describes what earned an unlock, from its payload.
func detail(a *learner.Achievement) string {
	if g, ok := a.Payload["game"].(string); ok && g != "" {
		return "in " + g
	}
	switch v := a.Payload["streak"].(type) {
	case int:
		return fmt.Sprintf("%d in a row", v)
	case float64:
		return fmt.Sprintf("%d in a row", int(v))
	}
	return ""
}

func (s *AchievementsScreen) renderEntry(e entry) string {
	if e.unlocked == nil {
		line := fmt.Sprintf("🔒 %-16s %s", e.id.DisplayName(), howToUnlock(e.id))
		return theme.Disabled.Render(line)
	}
	line := fmt.Sprintf("%s %-16s %-14s %s", e.id.Icon(), e.id.DisplayName(),
		e.unlocked.UnlockedAt.Format("Jan 02, 2006"), detail(e.unlocked))
	if c := e.id.CoinValue(); c > 0 {
		line += lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("  🪙 %d", c))
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(line)
}

func (s *AchievementsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading achievements...")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("\n🪙 %d coins   🏅 %d unlocked\n", s.coins, len(s.unlocked))))
	b.WriteString("\n")

	labels := []string{
		fmt.Sprintf("🏆 Unlocked (%d)", len(s.unlocked)),
		fmt.Sprintf("🔒 Locked (%d)", len(s.locked())),
	}
	var tabs []string
	for i, l := range labels {
		if tab(i) == s.tab {
			tabs = append(tabs, theme.Selected.Render(l))
		} else {
			tabs = append(tabs, theme.Disabled.Render(l))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(0, min(width-8, 60))))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	list := s.entries()
	if len(list) == 0 {
		msg := "No achievements yet. Finish a game to start collecting!"
		if s.tab == tabLocked {
			msg = "You've unlocked everything! 🎉"
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(msg))
		return b.String()
	}

	maxVisible := max(3, height-10)
	end := min(len(list), s.scrollOffset+maxVisible)
	for _, e := range list[s.scrollOffset:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderEntry(e)))
		b.WriteString("\n")
	}
	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}
	return b.String()
}
