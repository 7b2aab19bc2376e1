package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string // dim text after the label
	Badge    string // highlighted tag, e.g. "Coming Soon"
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move selects the next enabled item in direction dir (+1 or -1),
// staying put when there is none.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Update handles up/down (or k/j), home/end and enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home":
		m.Selected = -1
		m.move(1)
	case "end":
		m.Selected = len(m.Items)
		m.move(-1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			return m, nil
		}
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := item.Label
		if item.Detail != "" {
			line += "  " + theme.Subtitle.Render(item.Detail)
		}
		if item.Badge != "" {
			line += " " + theme.Badge.Render(item.Badge)
		}
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render("    " + item.Label))
			if item.Badge != "" {
				b.WriteString(" " + theme.Badge.Render(item.Badge))
			}
		case i == m.Selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ ") + line)
		default:
			b.WriteString("    " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
