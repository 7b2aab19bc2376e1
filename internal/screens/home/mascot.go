package home

import (
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // default
	MascotCelebrating                      // strong overall progress
	MascotCurious                          // nothing played yet
)

// celebrateAbove is the overall performance that earns the party hat.
const celebrateAbove = 0.7

const mascotIdle = `  ╭───╮
 ( o o )
  ╰─▽─╯
  /|🧭|\`

const mascotCelebrating = `   ★ ★
  ╭───╮
 ( ^ ^ )
  ╰─◡─╯
 \ |🧭| /`

const mascotCurious = `  ╭───╮  ?
 ( o O )
  ╰─○─╯
  /|🧭|\`

// MascotFor picks the variant for a learner's overall performance and
// number of games played.
func MascotFor(overall float64, games int) MascotVariant {
	switch {
	case games == 0:
		return MascotCurious
	case overall >= celebrateAbove:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Secondary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotCurious:
		art = mascotCurious
		fg = theme.Sky
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
