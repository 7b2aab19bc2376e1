package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 22

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the right-hand side of the header.
type Status struct {
	Name  string
	Coins int
	Voice bool
}

// IsCompact reports whether the terminal is small enough to drop artwork.
func IsCompact(width, height int) bool {
	return width < CompactWidthThreshold || height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar.
func RenderHeader(title string, st Status, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  OdysseyQuest")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	var right []string
	if st.Name != "" {
		right = append(right, lipgloss.NewStyle().Foreground(theme.TextDim).Render(st.Name))
	}
	right = append(right, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🪙 %d", st.Coins)))
	if st.Voice {
		right = append(right, lipgloss.NewStyle().Foreground(theme.Secondary).Render("🔊"))
	} else {
		right = append(right, lipgloss.NewStyle().Foreground(theme.TextDim).Render("🔇"))
	}
	rightStr := strings.Join(right, "   ")

	innerWidth := max(0, width-4)
	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	leftGap := max(1, (innerWidth-centerLen)/2-leftLen)
	rightGap := max(1, innerWidth-leftLen-leftGap-centerLen-lipgloss.Width(rightStr))

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + rightStr

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the footer with key hints and, when non-empty, the
// current spoken caption.
func RenderFooter(hints []KeyHint, caption string, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	content := "  " + strings.Join(parts, "   ")
	if caption != "" {
		content = "  " + lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true).Render("🗣 "+caption) + "\n" + content
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	styled := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return header + "\n" + styled + "\n" + footer
}
