package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

func (p *PlayScreen) View(width, height int) string {
	snap := p.session.Snapshot()
	switch {
	case p.confirmQuit:
		return renderQuitConfirm(width)
	case snap.State == game.StateIdle && snap.Err != nil:
		return renderError(width)
	case snap.State == game.StateLoading, snap.State == game.StateIdle:
		return renderLoading(width, snap)
	}
	return p.renderQuestion(width, snap)
}

func center(width int, style lipgloss.Style, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}

// renderQuestion draws the status line, the question and its options, or
// the feedback for the question just answered.
func (p *PlayScreen) renderQuestion(width int, snap game.Snapshot) string {
	q := snap.Question
	number := snap.Index + 1
	if p.answered != nil {
		q = p.answered
		number = snap.Index
	}
	if q == nil {
		return renderLoading(width, snap)
	}

	var b strings.Builder

	var subject string
	if snap.Game != nil {
		subject = string(snap.Game.Subject)
	}
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.SubjectColor(subject)).
		Bold(true).
		Render(fmt.Sprintf("  %s · Level %d", curriculum.Subject(subject).DisplayName(), snap.Difficulty))

	timer := ""
	if snap.Game != nil && snap.Game.TimeLimit > 0 {
		style := lipgloss.NewStyle().Foreground(theme.Accent)
		if snap.TimeLeft <= 5 {
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}
		timer = "  " + style.Render(fmt.Sprintf("⏱ %ds", snap.TimeLeft))
	}
	streak := ""
	if snap.Streak > 0 {
		streak = "  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", snap.Streak))
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  ⭐ %d", number, snap.Total, snap.Score)) + streak + timer

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width-4))))
	b.WriteString("\n\n")

	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), q.Text))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, p.choices.View()))

	if p.feedback != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(width, p.feedback))
	} else {
		if p.typing {
			b.WriteString("\n")
			b.WriteString(center(width, lipgloss.NewStyle(), "🎤 "+p.input.View()))
		}
		if p.note != "" {
			b.WriteString("\n")
			b.WriteString(center(width, theme.Hint, p.note))
		}
	}
	return b.String()
}

func renderFeedback(width int, fb *game.Feedback) string {
	var b strings.Builder
	switch {
	case fb.Correct && fb.Streak >= 3:
		b.WriteString(center(width, theme.Correct, fmt.Sprintf("Amazing! %d in a row! 🔥", fb.Streak)))
	case fb.Correct:
		b.WriteString(center(width, theme.Correct, "Correct! Great job!"))
	case fb.TimedOut:
		b.WriteString(center(width, theme.Incorrect, "⏰ Time's up!"))
	default:
		b.WriteString(center(width, theme.Incorrect, "Not quite"))
	}
	if !fb.Correct {
		b.WriteString("\n")
		b.WriteString(center(width, theme.Subtitle, "Correct answer: "+fb.CorrectOption))
	}
	if fb.Explanation != "" {
		exp := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(fb.Explanation)
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
	}
	b.WriteString("\n\n")
	b.WriteString(center(width, theme.Hint, "Press Enter to continue"))
	return b.String()
}

func renderQuitConfirm(width int) string {
	return "\n\n\n" +
		center(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End game early?") + "\n" +
		center(width, theme.Subtitle, "This game will not be scored.") + "\n\n" +
		center(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end game") + "\n" +
		center(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep playing")
}

func renderLoading(width int, snap game.Snapshot) string {
	text := "Preparing your questions..."
	if snap.Game != nil {
		text = fmt.Sprintf("%s  Preparing %s...", snap.Game.Icon, snap.Game.Title)
	}
	return "\n\n\n" + center(width, theme.Subtitle, text)
}

func renderError(width int) string {
	return "\n\n\n" +
		center(width, theme.ErrorText, game.LoadFailedMessage) + "\n\n" +
		center(width, theme.Hint, "Press R to retry or Esc to go back.")
}
