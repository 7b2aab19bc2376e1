// Package games lists the quiz catalog.
package games

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/screens/play"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

type gradeMsg struct{ grade int }

// GamesScreen shows every game with its subject and difficulty.
type GamesScreen struct {
	svc   *screen.Services
	games []game.Game
	menu  components.Menu
	grade int
}

var _ screen.Screen = (*GamesScreen)(nil)

// New creates a GamesScreen for the configured catalog.
func New(svc *screen.Services) *GamesScreen {
	cat := svc.Catalog
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	g := &GamesScreen{svc: svc, games: cat.Games()}
	g.buildMenu()
	return g
}

func (g *GamesScreen) buildMenu() {
	items := make([]components.MenuItem, 0, len(g.games))
	for _, gm := range g.games {
		id := gm.ID
		item := components.MenuItem{
			Label: fmt.Sprintf("%s %s", gm.Icon, gm.Title),
			Detail: fmt.Sprintf("%s · %s",
				gm.Subject.DisplayName(), game.Stars(gm.BaseDifficulty(g.grade))),
			Action: func() tea.Cmd {
				next := play.New(g.svc, id)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		}
		if gm.ComingSoon {
			item.Badge = "Coming Soon"
		}
		items = append(items, item)
	}
	selected := g.menu.Selected
	g.menu = components.NewMenu(items)
	g.menu.Selected = min(selected, max(0, len(items)-1))
}

func (g *GamesScreen) Init() tea.Cmd {
	svc := g.svc.Learner
	return func() tea.Msg {
		u, err := svc.User(context.Background())
		if err != nil || u == nil {
			return gradeMsg{}
		}
		return gradeMsg{grade: u.Grade}
	}
}

func (g *GamesScreen) Title() string {
	return "Games"
}

func (g *GamesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (g *GamesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(gradeMsg); ok {
		g.grade = m.grade
		g.buildMenu()
		return g, nil
	}
	var cmd tea.Cmd
	g.menu, cmd = g.menu.Update(msg)
	return g, cmd
}

func (g *GamesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Centered(theme.Title, width, "Choose a game"))
	b.WriteString("\n\n")

	menu := g.menu.View()
	if sel := g.menu.Selected; sel >= 0 && sel < len(g.games) {
		menu += "\n" + theme.Hint.Render(g.games[sel].Description)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(min(width-4, 72)).Render(menu)))
	return b.String()
}
