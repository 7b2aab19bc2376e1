package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

const titleCompact = "O D Y S S E Y · Q U E S T"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(60, max(20, frameWidth-6))
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(titleCompact))
}

func renderGreeting(name string, cw int) string {
	text := "Welcome, explorer!"
	if name != "" {
		text = fmt.Sprintf("Welcome back, %s!", name)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(text)
}

// renderStatsBar shows coins, logins and games in a bordered box.
func renderStatsBar(coins, logins, games, cw int, compact bool) string {
	coinStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	loginStyle := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)
	gameStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			coinStyle.Render(fmt.Sprintf("🪙%d", coins)),
			loginStyle.Render(fmt.Sprintf("🔑%d", logins)),
			gameStyle.Render(fmt.Sprintf("🎮%d", games)))
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			coinStyle.Render(fmt.Sprintf("🪙 %d COINS", coins)),
			loginStyle.Render(fmt.Sprintf("🔑 %d LOGINS", logins)),
			gameStyle.Render(fmt.Sprintf("🎮 %d GAMES", games)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderOverall(overall float64, cw int) string {
	bar := components.ProgressBar{
		Label:       "Overall",
		Percent:     overall,
		ShowPercent: true,
		Width:       cw - 4,
		Fill:        theme.Success,
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(bar.View())
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu draws each item as a fixed-width button, or as plain lines
// when space is short.
func renderMenu(items []components.MenuItem, selected, cw int, compact bool) string {
	selectedStyle := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Accent)
	normalStyle := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text)
	if !compact {
		selectedStyle = selectedStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent)
		normalStyle = normalStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)
	}

	buttons := make([]string, 0, len(items))
	for i, item := range items {
		if i == selected {
			buttons = append(buttons, selectedStyle.Render("▸ "+item.Label))
		} else {
			buttons = append(buttons, normalStyle.Render(item.Label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

func renderMascotBox(v MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(v))
}

// renderFrame wraps content in a double border, centred in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
