package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

const bannerArt = `  ___      _                         ___                  _
 / _ \  __| |_   _ ___ ___  ___ _   _/ _ \ _   _  ___  ___| |_
| | | |/ _` + "`" + ` | | | / __/ __|/ _ \ | | | | | | | | |/ _ \/ __| __|
| |_| | (_| | |_| \__ \__ \  __/ |_| | |_| | |_| |  __/\__ \ |_
 \___/ \__,_|\__, |___/___/\___|\__, |\__\_\\__,_|\___||___/\__|
             |___/              |___/`

const bannerCompact = "O D Y S S E Y · Q U E S T"

// bannerMinWidth is the narrowest terminal that fits the full art.
const bannerMinWidth = 68

// RenderBanner returns the title banner, or a one-line fallback on
// narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
