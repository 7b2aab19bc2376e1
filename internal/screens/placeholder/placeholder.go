// Package placeholder shows a notice for features that are not playable yet.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

const defaultNotice = "This game is coming soon! Stay tuned for updates."

// PlaceholderScreen is a generic "coming soon" screen.
type PlaceholderScreen struct {
	title  string
	icon   string
	notice string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen. An empty notice uses the default text.
func New(title, icon, notice string) *PlaceholderScreen {
	if notice == "" {
		notice = defaultNotice
	}
	return &PlaceholderScreen{title: title, icon: icon, notice: notice}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	heading := p.title
	if p.icon != "" {
		heading = p.icon + "  " + heading
	}
	body := theme.Title.Render(heading) + "\n\n" +
		theme.Badge.Render("Coming Soon") + "\n\n" +
		theme.Body.Render(p.notice)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}

func (p *PlaceholderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter/Esc", Description: "Back"}}
}
