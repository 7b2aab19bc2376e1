package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colour palette, taken from the avatar colours.
var (
	Primary   = lipgloss.Color("#6C5CE7") // Indigo
	Secondary = lipgloss.Color("#4ECDC4") // Turquoise
	Accent    = lipgloss.Color("#F9A826") // Saffron
	Sky       = lipgloss.Color("#45B7D1")
	Success   = lipgloss.Color("#06D6A0") // Mint
	Error     = lipgloss.Color("#FF6B6B") // Coral
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// SubjectColors tints each subject consistently across screens.
var SubjectColors = map[string]color.Color{
	"math":    Primary,
	"science": Secondary,
	"english": Accent,
	"history": Error,
}

// SubjectColor returns the subject tint, or Sky for unknown subjects.
func SubjectColor(subject string) color.Color {
	if c, ok := SubjectColors[subject]; ok {
		return c
	}
	return Sky
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Layout
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Badge = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Accent).
		Padding(0, 1)
)

// Centered renders s centred across width.
func Centered(style lipgloss.Style, width int, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}
