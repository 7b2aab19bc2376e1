// Package summary shows the result of a finished game.
package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

// SummaryScreen displays a game result.
type SummaryScreen struct {
	result  game.Result
	saveErr error
	replay  func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. saveErr, when set, warns that the result
// was not fully saved.
func New(result game.Result, saveErr error) *SummaryScreen {
	return &SummaryScreen{result: result, saveErr: saveErr}
}

// WithReplay enables "play again", building the next game with fn.
func (s *SummaryScreen) WithReplay(fn func() screen.Screen) *SummaryScreen {
	s.replay = fn
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Game Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	if s.replay != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.replay != nil {
				next := s.replay()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	var b strings.Builder

	line := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	line(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		fmt.Sprintf("%s %s complete!", r.Game.Icon, r.Game.Title))
	b.WriteString("\n")

	rarity := r.Outcome.Rarity
	if rarity == "" {
		rarity = rewards.ScoreRarity(r.FinalScore)
	}
	line(lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(rarityColor(rarity)).
		Bold(true).
		Padding(0, 1), rarity.DisplayName())
	b.WriteString("\n")

	line(theme.Body, fmt.Sprintf("Score: %d/%d        Final: %d%%        Best streak: %d",
		r.Score, r.Total, int(r.FinalScore*100+0.5), r.BestStreak))
	line(theme.Subtitle, fmt.Sprintf("Difficulty %d %s   ·   Time %s",
		r.Difficulty, game.Stars(r.Difficulty), formatDuration(r.Duration)))
	b.WriteString("\n")

	line(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		fmt.Sprintf("🪙 +%d coins", r.Outcome.Coins))

	if len(r.Outcome.Unlocks) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		line(theme.Subtitle, "Achievements unlocked")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, u := range r.Outcome.Unlocks {
			line(lipgloss.NewStyle().Foreground(theme.Accent),
				fmt.Sprintf("%s %s", u.ID.Icon(), u.ID.DisplayName()))
		}
	}

	if s.saveErr != nil {
		b.WriteString("\n")
		line(theme.ErrorText, "Some of this result could not be saved.")
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// rarityColor returns the theme colour for a rarity level.
func rarityColor(r rewards.Rarity) color.Color {
	switch r {
	case rewards.RarityRare:
		return theme.Secondary
	case rewards.RarityEpic:
		return theme.Primary
	case rewards.RarityLegendary:
		return theme.Accent
	default:
		return theme.TextDim
	}
}
