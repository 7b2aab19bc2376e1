package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

// Choices is a numbered option picker. Number keys choose directly;
// arrows move the cursor and Enter chooses it.
type Choices struct {
	Options  []string
	Selected int
	// Correct and Chosen are set to reveal a scored answer; -1 hides it.
	Correct int
	Chosen  int
}

// NewChoices creates an unrevealed picker.
func NewChoices(options []string) Choices {
	return Choices{Options: options, Correct: -1, Chosen: -1}
}

// Update returns the index picked by this key, or -1.
func (c Choices) Update(msg tea.Msg) (Choices, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, -1
	}
	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		return c, c.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
				return c, i
			}
		}
	}
	return c, -1
}

// Reveal marks the correct option and the learner's pick.
func (c *Choices) Reveal(correct, chosen int) {
	c.Correct = correct
	c.Chosen = chosen
}

// View renders the options.
func (c Choices) View() string {
	var b strings.Builder
	revealed := c.Correct >= 0
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case revealed && i == c.Correct:
			style = theme.Correct
		case revealed && i == c.Chosen:
			style = theme.Incorrect
		case revealed:
			style = theme.Disabled
		case i == c.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
